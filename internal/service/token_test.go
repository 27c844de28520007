package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restom/restom-backend/internal/models"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	manager := NewTokenManager("test-secret")
	account := &models.Account{ID: uuid.New()}

	token, exp, err := manager.Issue(account)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(SessionTTL), exp, 5*time.Second)

	id, err := manager.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, account.ID, id)
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	issuedAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	manager := NewTokenManager("test-secret")
	manager.now = func() time.Time { return issuedAt }

	token, _, err := manager.Issue(&models.Account{ID: uuid.New()})
	require.NoError(t, err)

	manager.now = func() time.Time { return issuedAt.Add(SessionTTL - time.Minute) }
	_, err = manager.Parse(token)
	require.NoError(t, err)

	manager.now = func() time.Time { return issuedAt.Add(SessionTTL + time.Second) }
	_, err = manager.Parse(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestTokenManager_RejectsForeignSignature(t *testing.T) {
	token, _, err := NewTokenManager("other-secret").Issue(&models.Account{ID: uuid.New()})
	require.NoError(t, err)

	_, err = NewTokenManager("test-secret").Parse(token)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestTokenManager_RejectsNoneAlgorithm(t *testing.T) {
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenManager("test-secret").Parse(unsigned)
	assert.Error(t, err)
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	_, err := NewTokenManager("test-secret").Parse("not-a-jwt")
	assert.Error(t, err)
}
