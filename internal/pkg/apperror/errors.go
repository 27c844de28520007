package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeValidation      ErrorCode = "VALIDATION_ERROR"
	ErrCodeConflict        ErrorCode = "CONFLICT"
	ErrCodeNotFound        ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized    ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden       ErrorCode = "FORBIDDEN"
	ErrCodeTooManyAttempts ErrorCode = "TOO_MANY_ATTEMPTS"
	ErrCodeDeliveryFailed  ErrorCode = "DELIVERY_FAILED"
	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
)

// AppError переносит код ошибки, сообщение для клиента и HTTP статус.
type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is сравнивает ошибки по коду и сообщению, чтобы errors.Is работал
// и для обёрнутых копий sentinel-ошибок.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// WithStatus возвращает копию ошибки с другим HTTP статусом.
func (e *AppError) WithStatus(status int) *AppError {
	cp := *e
	cp.HTTPStatus = status
	return &cp
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

// Conflict и неверные учётные данные отдаются как 400: так их ждёт фронтенд.
func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeValidation, ErrCodeConflict, ErrCodeUnauthorized:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeTooManyAttempts:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// From извлекает AppError из цепочки ошибок.
func From(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func hasCode(err error, code ErrorCode) bool {
	appErr, ok := From(err)
	return ok && appErr.Code == code
}

func IsNotFound(err error) bool {
	return hasCode(err, ErrCodeNotFound)
}

func IsConflict(err error) bool {
	return hasCode(err, ErrCodeConflict)
}

func IsValidation(err error) bool {
	return hasCode(err, ErrCodeValidation)
}

func IsDeliveryFailure(err error) bool {
	return hasCode(err, ErrCodeDeliveryFailed)
}

var (
	ErrMissingSignupFields = New(ErrCodeValidation, "All fields are required")
	ErrMissingOTPFields    = New(ErrCodeValidation, "Email and OTP required")
	ErrMissingLoginFields  = New(ErrCodeValidation, "Email and password required")

	ErrEmailAlreadyRegistered = New(ErrCodeConflict, "Email already registered")
	ErrAlreadyVerified        = New(ErrCodeConflict, "User already verified")

	ErrAccountNotFound = New(ErrCodeNotFound, "User not found")

	ErrInvalidOTP         = New(ErrCodeValidation, "Invalid OTP")
	ErrOTPExpired         = New(ErrCodeValidation, "OTP expired")
	ErrTooManyOTPAttempts = New(ErrCodeTooManyAttempts, "Too many OTP attempts")

	ErrEmailNotVerified   = New(ErrCodeForbidden, "Email not verified")
	ErrInvalidCredentials = New(ErrCodeUnauthorized, "Invalid credentials")
	ErrInvalidToken       = New(ErrCodeUnauthorized, "Invalid or expired token").WithStatus(http.StatusUnauthorized)

	ErrOTPDelivery = New(ErrCodeDeliveryFailed, "Failed to send OTP email")
)
