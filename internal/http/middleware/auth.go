package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/restom/restom-backend/internal/dto"
	"github.com/restom/restom-backend/internal/logger"
	"github.com/restom/restom-backend/internal/pkg/apperror"
	"github.com/restom/restom-backend/internal/service"
)

// ContextAccountIDKey задаёт ключ gin.Context с id владельца токена.
const ContextAccountIDKey = "accountID"

// AuthMiddleware проверяет Bearer токен сессии.
func AuthMiddleware(tokens *service.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			abortUnauthorized(c)
			return
		}

		accountID, err := tokens.Parse(strings.TrimPrefix(auth, "Bearer "))
		if err != nil || accountID == uuid.Nil {
			logger.L().WithError(err).Debug("auth middleware: токен отклонён")
			abortUnauthorized(c)
			return
		}

		c.Set(ContextAccountIDKey, accountID)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(apperror.ErrInvalidToken.HTTPStatus, dto.MessageResponse{Message: apperror.ErrInvalidToken.Message})
}
