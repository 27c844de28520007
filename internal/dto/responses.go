package dto

import (
	"github.com/restom/restom-backend/internal/models"
)

// MessageResponse базовый ответ API, каждый ответ содержит message.
type MessageResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// LoginResponse возвращается после успешного входа.
type LoginResponse struct {
	Message string                `json:"message"`
	Token   string                `json:"token"`
	User    models.AccountSummary `json:"user"`
}

// ProfileResponse возвращает аккаунт без пароля и OTP.
type ProfileResponse struct {
	User *models.Account `json:"user"`
}
