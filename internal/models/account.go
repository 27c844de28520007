package models

import (
	"time"

	"github.com/google/uuid"
)

// Account описывает учётную запись покупателя с уникальным email.
// Поля пароля и OTP никогда не попадают в JSON.
type Account struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Name         string     `db:"name" json:"name"`
	Email        string     `db:"email" json:"email"`
	Phone        string     `db:"phone" json:"phone"`
	PasswordHash string     `db:"password_hash" json:"-"`
	OTP          *string    `db:"otp" json:"-"`
	OTPExpiresAt *time.Time `db:"otp_expires" json:"-"`
	Verified     bool       `db:"verified" json:"verified"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"-"`
}

// HasPendingCode сообщает, ожидает ли аккаунт подтверждения кодом.
func (a *Account) HasPendingCode() bool {
	return a.OTP != nil && a.OTPExpiresAt != nil
}

// Summary возвращает публичную часть аккаунта для ответа на логин.
func (a *Account) Summary() AccountSummary {
	return AccountSummary{
		ID:    a.ID,
		Name:  a.Name,
		Email: a.Email,
		Phone: a.Phone,
	}
}

// AccountSummary содержит идентификационные поля без секрета и OTP.
type AccountSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Phone string    `json:"phone"`
}
