package router

import (
	"github.com/gin-gonic/gin"

	"github.com/restom/restom-backend/internal/config"
	"github.com/restom/restom-backend/internal/http/handlers"
	"github.com/restom/restom-backend/internal/http/middleware"
	"github.com/restom/restom-backend/internal/service"
)

// SetupRouter собирает gin.Engine со всеми маршрутами API.
func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/", healthHandler.Root)
	r.GET("/health", healthHandler.Health)

	auth := r.Group("/api/auth")
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/verify-otp", authHandler.VerifyOTP)
		auth.POST("/login", authHandler.Login)
	}

	protected := r.Group("/api/auth")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.GET("/profile", authHandler.Profile)
	}

	return r
}
