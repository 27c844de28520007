package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/restom/restom-backend/internal/logger"
	"github.com/restom/restom-backend/internal/models"
	"github.com/restom/restom-backend/internal/pkg/apperror"
	"github.com/restom/restom-backend/internal/repository"
	"github.com/restom/restom-backend/internal/validation"
)

// AccountRepository описывает зависимости AuthService от слоя хранилища.
type AccountRepository interface {
	UpsertUnverified(ctx context.Context, account *models.Account) error
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	MarkVerified(ctx context.Context, email string) (*models.Account, error)
}

// AuthService инкапсулирует регистрацию с подтверждением по OTP и вход.
type AuthService struct {
	repo     AccountRepository
	otp      *OTPIssuer
	attempts AttemptCounter
	tokens   *TokenManager
	now      func() time.Time
}

// SignupInput содержит данные пользователя при регистрации.
type SignupInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// LoginInput содержит данные для входа.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult возвращает токен сессии и публичные данные аккаунта.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      models.AccountSummary
}

// NewAuthService создаёт сервис аутентификации.
func NewAuthService(repo AccountRepository, otp *OTPIssuer, attempts AttemptCounter, tokens *TokenManager) *AuthService {
	return &AuthService{
		repo:     repo,
		otp:      otp,
		attempts: attempts,
		tokens:   tokens,
		now:      time.Now,
	}
}

// Signup сохраняет неподтверждённый аккаунт с новым кодом и отправляет код на почту.
// Повторная регистрация неподтверждённого email перезаписывает ту же запись.
// Если письмо не ушло, запись остаётся в ожидании и повторный Signup её переиспользует.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.Account, error) {
	if err := validateSignup(in); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByEmail(ctx, in.Email)
	switch {
	case err == nil && existing.Verified:
		return nil, apperror.ErrEmailAlreadyRegistered
	case err != nil && !errors.Is(err, repository.ErrAccountNotFound):
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "Signup failed")
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "Signup failed")
	}

	code, err := s.otp.Generate()
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "Signup failed")
	}
	expiresAt := s.otp.ExpiryFor(s.now())

	account := &models.Account{
		Name:         strings.TrimSpace(in.Name),
		Email:        in.Email,
		Phone:        validation.NormalizePhone(in.Phone),
		PasswordHash: string(passHash),
		OTP:          &code,
		OTPExpiresAt: &expiresAt,
	}

	if err := s.repo.UpsertUnverified(ctx, account); err != nil {
		if errors.Is(err, repository.ErrAlreadyRegistered) {
			return nil, apperror.ErrEmailAlreadyRegistered
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "Signup failed")
	}

	// Новый код обнуляет счётчик попыток.
	if err := s.attempts.Reset(ctx, account.Email); err != nil {
		logger.ForEmail(account.Email).WithError(err).Warn("auth service: не удалось сбросить счётчик попыток")
	}

	if err := s.otp.Deliver(ctx, account.Email, account.Name, code); err != nil {
		logger.ForEmail(account.Email).WithError(err).Error("auth service: письмо с OTP не отправлено")
		return nil, apperror.Wrap(err, apperror.ErrCodeDeliveryFailed, apperror.ErrOTPDelivery.Message)
	}

	logger.L().WithFields(logrus.Fields{
		"account_id": account.ID,
		"email":      account.Email,
		"expires_at": expiresAt,
	}).Info("auth service: OTP выдан")

	return account, nil
}

// VerifyOTP подтверждает email кодом. Порядок проверок:
// аккаунт существует, ещё не подтверждён, лимит попыток, код совпадает, код не истёк.
// Неудачная попытка не меняет запись.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) (*models.Account, error) {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(code) == "" {
		return nil, apperror.ErrMissingOTPFields
	}

	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, mapLookupError(err, "OTP verification failed")
	}

	if account.Verified {
		return nil, apperror.ErrAlreadyVerified
	}

	reached, err := s.attempts.Hit(ctx, email)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "OTP verification failed")
	}
	if reached {
		logger.ForEmail(email).Warn("auth service: превышен лимит попыток ввода OTP")
		return nil, apperror.ErrTooManyOTPAttempts
	}

	if validation.ValidateOTP(code) != nil || !account.HasPendingCode() || *account.OTP != code {
		return nil, apperror.ErrInvalidOTP
	}

	// Строго больше: в сам момент истечения код ещё действителен.
	if s.now().After(*account.OTPExpiresAt) {
		return nil, apperror.ErrOTPExpired
	}

	verified, err := s.repo.MarkVerified(ctx, email)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyVerified):
			return nil, apperror.ErrAlreadyVerified
		case errors.Is(err, repository.ErrAccountNotFound):
			return nil, apperror.ErrAccountNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "OTP verification failed")
	}

	logger.ForEmail(email).WithField("account_id", verified.ID).Info("auth service: аккаунт подтверждён")
	return verified, nil
}

// Login проверяет учётные данные подтверждённого аккаунта и выпускает токен.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil, apperror.ErrMissingLoginFields
	}

	account, err := s.repo.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, mapLookupError(err, "Login failed")
	}

	if !account.Verified {
		return nil, apperror.ErrEmailNotVerified
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(in.Password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	token, exp, err := s.tokens.Issue(account)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "Login failed")
	}

	return &LoginResult{
		Token:     token,
		ExpiresAt: exp,
		User:      account.Summary(),
	}, nil
}

// Profile возвращает аккаунт владельца токена.
func (s *AuthService) Profile(ctx context.Context, accountID uuid.UUID) (*models.Account, error) {
	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		return nil, mapLookupError(err, "Failed to fetch profile")
	}
	return account, nil
}

func validateSignup(in SignupInput) error {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" ||
		strings.TrimSpace(in.Phone) == "" || in.Password == "" {
		return apperror.ErrMissingSignupFields
	}

	checks := []error{
		validation.ValidateName(in.Name),
		validation.ValidateEmail(in.Email),
		validation.ValidatePhone(in.Phone),
		validation.ValidatePassword(in.Password),
	}
	for _, err := range checks {
		if err != nil {
			return apperror.Wrap(err, apperror.ErrCodeValidation, capitalize(err.Error()))
		}
	}
	return nil
}

func mapLookupError(err error, fallback string) error {
	if errors.Is(err, repository.ErrAccountNotFound) {
		return apperror.ErrAccountNotFound
	}
	return apperror.Wrap(err, apperror.ErrCodeInternal, fallback)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
