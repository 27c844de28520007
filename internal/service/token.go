package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/restom/restom-backend/internal/models"
)

// SessionTTL задаёт фиксированный срок действия bearer токена.
const SessionTTL = 7 * 24 * time.Hour

// SessionClaims содержит клеймы токена сессии. Идентификатор аккаунта
// кладётся и в sub, и в id (последнее ждёт фронтенд).
type SessionClaims struct {
	AccountID string `json:"id"`
	jwt.RegisteredClaims
}

// TokenManager отвечает за выпуск и проверку JWT.
type TokenManager struct {
	secret []byte
	now    func() time.Time
}

// NewTokenManager создаёт менеджер токенов с серверным секретом.
func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// Issue подписывает токен для аккаунта и возвращает его вместе со сроком действия.
func (m *TokenManager) Issue(account *models.Account) (string, time.Time, error) {
	now := m.now()
	exp := now.Add(SessionTTL)

	claims := SessionClaims{
		AccountID: account.ID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID.String(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("token manager: не удалось подписать токен: %w", err)
	}

	return signed, exp, nil
}

// Parse проверяет подпись и срок действия и возвращает идентификатор аккаунта.
func (m *TokenManager) Parse(token string) (uuid.UUID, error) {
	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return uuid.Nil, err
	}
	if !parsed.Valid {
		return uuid.Nil, jwt.ErrTokenInvalidClaims
	}

	accountID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("token manager: некорректный subject: %w", err)
	}
	if claims.AccountID != "" && claims.AccountID != claims.Subject {
		return uuid.Nil, jwt.ErrTokenInvalidClaims
	}

	return accountID, nil
}
