package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Константы валидации
const (
	MinNameLength  = 2
	MaxNameLength  = 100
	MaxEmailLength = 254
	MinPhoneDigits = 7
	MaxPhoneDigits = 15
	OTPLength      = 6
)

var (
	emailRegex = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^\+?[0-9]+$`)
	otpRegex   = regexp.MustCompile(`^[0-9]{6}$`)

	validate = validator.New()
)

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s must be at least %d characters", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s must be at most %d characters", fieldName, max)
	}
	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая и не состоит из пробелов.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	return nil
}

// ValidateEmail проверяет формат email.
// Регистр не меняется: email хранится и сравнивается как есть.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if len(email) > MaxEmailLength {
		return fmt.Errorf("email must be at most %d characters", MaxEmailLength)
	}
	if strings.TrimSpace(email) != email {
		return fmt.Errorf("email must not contain surrounding spaces")
	}
	// RFC-проверка validator плюс обязательная точка в домене.
	if validate.Var(email, "email") != nil || !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email address")
	}
	return nil
}

// ValidateName проверяет отображаемое имя.
func ValidateName(name string) error {
	if err := ValidateNonEmpty("name", name); err != nil {
		return err
	}
	return ValidateLength("name", strings.TrimSpace(name), MinNameLength, MaxNameLength)
}

// ValidatePhone допускает цифры с необязательным ведущим "+".
// Пробелы и дефисы из маски ввода убираются до проверки.
func ValidatePhone(phone string) error {
	if err := ValidateNonEmpty("phone", phone); err != nil {
		return err
	}

	normalized := NormalizePhone(phone)
	if !phoneRegex.MatchString(normalized) {
		return fmt.Errorf("phone must contain only digits")
	}

	digits := strings.TrimPrefix(normalized, "+")
	if len(digits) < MinPhoneDigits || len(digits) > MaxPhoneDigits {
		return fmt.Errorf("phone must contain %d to %d digits", MinPhoneDigits, MaxPhoneDigits)
	}
	return nil
}

// NormalizePhone убирает пробелы, дефисы и скобки.
func NormalizePhone(phone string) string {
	return strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(phone))
}

// ValidateOTP проверяет, что код состоит ровно из шести цифр.
func ValidateOTP(code string) error {
	if !otpRegex.MatchString(code) {
		return fmt.Errorf("OTP must be exactly %d digits", OTPLength)
	}
	return nil
}
