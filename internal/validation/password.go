package validation

import (
	"fmt"
	"unicode"
)

// bcrypt обрабатывает только первые 72 байта пароля.
const (
	MinPasswordLength = 8
	MaxPasswordBytes  = 72
)

// ValidatePassword проверяет пароль при регистрации.
// Требования:
// - от 8 символов и не длиннее 72 байт
// - хотя бы одна буква и одна цифра
func ValidatePassword(password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	if len(password) > MaxPasswordBytes {
		return fmt.Errorf("password must be at most %d bytes", MaxPasswordBytes)
	}

	var hasLetter, hasDigit bool
	for _, char := range password {
		switch {
		case unicode.IsLetter(char):
			hasLetter = true
		case unicode.IsDigit(char):
			hasDigit = true
		}
	}

	if !hasLetter {
		return fmt.Errorf("password must contain at least one letter")
	}
	if !hasDigit {
		return fmt.Errorf("password must contain at least one digit")
	}

	return nil
}
