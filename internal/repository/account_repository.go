package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/restom/restom-backend/internal/models"
	"github.com/restom/restom-backend/internal/repository/common"
)

var (
	// ErrAccountNotFound возвращается, когда аккаунта с таким email/id нет.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAlreadyRegistered: email уже принадлежит подтверждённому аккаунту.
	ErrAlreadyRegistered = errors.New("account already registered")
	// ErrAlreadyVerified: повторное подтверждение уже подтверждённого аккаунта.
	ErrAlreadyVerified = errors.New("account already verified")
)

const (
	usersTable     = "users"
	accountColumns = `id, name, email, phone, password_hash, otp, otp_expires, verified, created_at, updated_at`
)

// AccountRepository хранит аккаунты в таблице users.
// Это единственное место, где меняются записи аккаунтов.
type AccountRepository struct {
	db *sqlx.DB
}

// NewAccountRepository создаёт экземпляр репозитория.
func NewAccountRepository(db *sqlx.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// UpsertUnverified создаёт неподтверждённый аккаунт или перезаписывает
// имя, телефон, хеш пароля и код у существующего неподтверждённого.
// Одна инструкция с ON CONFLICT, поэтому параллельные регистрации
// одного email не создают дубликатов.
func (r *AccountRepository) UpsertUnverified(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO users (name, email, phone, password_hash, otp, otp_expires, verified)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE)
		ON CONFLICT (email) DO UPDATE
		SET name = EXCLUDED.name,
			phone = EXCLUDED.phone,
			password_hash = EXCLUDED.password_hash,
			otp = EXCLUDED.otp,
			otp_expires = EXCLUDED.otp_expires,
			updated_at = NOW()
		WHERE users.verified = FALSE
		RETURNING ` + accountColumns

	err := r.db.GetContext(ctx, account, query,
		account.Name, account.Email, account.Phone, account.PasswordHash, account.OTP, account.OTPExpiresAt,
	)
	if err != nil {
		// WHERE отфильтровал конфликтующую строку: аккаунт уже подтверждён.
		if errors.Is(err, sql.ErrNoRows) {
			return ErrAlreadyRegistered
		}
		return fmt.Errorf("account repository: upsert %w", err)
	}

	return nil
}

// FindByEmail возвращает аккаунт по email (с учётом регистра).
func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	return common.GetByField[models.Account](ctx, r.db, usersTable, "email", email, ErrAccountNotFound)
}

// FindByID возвращает аккаунт по идентификатору.
func (r *AccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	return common.GetByID[models.Account](ctx, r.db, usersTable, id, ErrAccountNotFound)
}

// MarkVerified переводит аккаунт в подтверждённое состояние и в том же
// UPDATE очищает код и срок его действия. Строка блокируется на время
// проверки, чтобы два параллельных подтверждения не прошли оба.
func (r *AccountRepository) MarkVerified(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account

	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		current := `SELECT ` + accountColumns + ` FROM users WHERE email = $1 FOR UPDATE`
		if err := tx.GetContext(ctx, &account, current, email); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrAccountNotFound
			}
			return fmt.Errorf("account repository: lock %w", err)
		}

		if account.Verified {
			return ErrAlreadyVerified
		}

		update := `
			UPDATE users
			SET verified = TRUE, otp = NULL, otp_expires = NULL, updated_at = NOW()
			WHERE id = $1
			RETURNING ` + accountColumns
		if err := tx.GetContext(ctx, &account, update, account.ID); err != nil {
			return fmt.Errorf("account repository: mark verified %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &account, nil
}
