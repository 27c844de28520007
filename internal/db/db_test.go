package db

import (
	"context"
	"errors"
	"io/fs"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restom/restom-backend/internal/db/migrations"
)

func TestMigrations_Embedded(t *testing.T) {
	names, err := fs.Glob(migrations.FS, "*.sql")
	require.NoError(t, err)
	assert.Contains(t, names, "00001_create_users.sql")

	body, err := fs.ReadFile(migrations.FS, "00001_create_users.sql")
	require.NoError(t, err)
	assert.Contains(t, string(body), "-- +goose Up")
	assert.Contains(t, string(body), "email         TEXT NOT NULL UNIQUE")
}

func TestRunMigrations_PropagatesGooseError(t *testing.T) {
	orig := gooseUp
	defer func() { gooseUp = orig }()

	called := false
	gooseUp = func(ctx context.Context, conn *sqlx.DB) error {
		called = true
		return errors.New("boom")
	}

	err := RunMigrations(context.Background(), nil)
	assert.True(t, called)
	assert.ErrorContains(t, err, "boom")
}

func TestNewRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedis(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	mr.CheckGet(t, "k", "v")
}

func TestNewRedis_BadURL(t *testing.T) {
	_, err := NewRedis(context.Background(), "http://not-redis")
	assert.Error(t, err)
}
