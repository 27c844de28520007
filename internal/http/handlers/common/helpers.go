package common

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/restom/restom-backend/internal/dto"
	"github.com/restom/restom-backend/internal/http/middleware"
	"github.com/restom/restom-backend/internal/pkg/apperror"
)

// ErrAccountNotInContext возвращается, если AuthMiddleware не положил id в контекст.
var ErrAccountNotInContext = errors.New("аккаунт не найден в контексте")

// CurrentAccountID извлекает id владельца токена из gin.Context.
func CurrentAccountID(c *gin.Context) (uuid.UUID, error) {
	raw, exists := c.Get(middleware.ContextAccountIDKey)
	if !exists {
		return uuid.Nil, ErrAccountNotInContext
	}

	accountID, ok := raw.(uuid.UUID)
	if !ok {
		return uuid.Nil, ErrAccountNotInContext
	}

	return accountID, nil
}

// RespondMessage отправляет {"message": ...} с заданным статусом.
func RespondMessage(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, dto.MessageResponse{Message: message})
}

// RespondError переводит ошибку сервиса в статус и сообщение.
// Внутренние ошибки прикрепляются к контексту для ErrorHandler
// и отдаются клиенту как fallback без деталей.
func RespondError(c *gin.Context, err error, fallback string) {
	appErr, ok := apperror.From(err)
	if !ok || appErr.Code == apperror.ErrCodeInternal {
		_ = c.Error(err)
		RespondMessage(c, http.StatusInternalServerError, fallback)
		return
	}

	body := dto.MessageResponse{Message: appErr.Message}
	if appErr.Code == apperror.ErrCodeDeliveryFailed {
		_ = c.Error(err)
		if appErr.Cause != nil {
			body.Error = appErr.Cause.Error()
		}
	}
	c.JSON(appErr.HTTPStatus, body)
}
