package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/restom/restom-backend/internal/config"
	"github.com/restom/restom-backend/internal/db/migrations"
)

// NewPostgres создаёт подключение к PostgreSQL с заданным DSN.
func NewPostgres(ctx context.Context, dsn string, pool config.DBConfig) (*sqlx.DB, error) {
	conn, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: не удалось подключиться: %w", err)
	}

	maxOpen := pool.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 10
	}
	conn.SetMaxOpenConns(maxOpen)
	conn.SetMaxIdleConns(maxOpen)
	conn.SetConnMaxIdleTime(pool.ConnMaxIdleTime)
	conn.SetConnMaxLifetime(30 * time.Minute)

	return conn, nil
}

// gooseUp вынесен в переменную, чтобы тесты могли подменить запуск миграций.
var gooseUp = func(ctx context.Context, conn *sqlx.DB) error {
	return goose.UpContext(ctx, conn.DB, ".")
}

// RunMigrations применяет встроенные SQL миграции через goose.
func RunMigrations(ctx context.Context, conn *sqlx.DB) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("postgres: не удалось выбрать диалект миграций: %w", err)
	}

	if err := gooseUp(ctx, conn); err != nil {
		return fmt.Errorf("postgres: ошибка миграций: %w", err)
	}

	return nil
}
