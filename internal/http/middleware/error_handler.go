package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/restom/restom-backend/internal/dto"
	"github.com/restom/restom-backend/internal/logger"
	"github.com/restom/restom-backend/internal/pkg/apperror"
)

// ErrorHandler логирует ошибки, прикреплённые хэндлерами через c.Error,
// и отвечает клиенту, если хэндлер сам ничего не записал.
// Внутренние детали наружу не попадают.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last()
		logger.L().WithFields(logrus.Fields{
			"error":  err.Error(),
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
			"status": c.Writer.Status(),
		}).Error("Request error")

		if c.Writer.Written() {
			return
		}

		if appErr, ok := apperror.From(err.Err); ok && appErr.Code != apperror.ErrCodeInternal {
			c.JSON(appErr.HTTPStatus, dto.MessageResponse{Message: appErr.Message})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.MessageResponse{Message: "Internal server error"})
	}
}
