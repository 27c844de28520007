package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/ulule/limiter/v3"

	"github.com/restom/restom-backend/internal/config"
	"github.com/restom/restom-backend/internal/db"
	httpHandlers "github.com/restom/restom-backend/internal/http/handlers"
	httpRouter "github.com/restom/restom-backend/internal/http/router"
	"github.com/restom/restom-backend/internal/logger"
	"github.com/restom/restom-backend/internal/mail"
	"github.com/restom/restom-backend/internal/repository"
	"github.com/restom/restom-backend/internal/service"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	logger.Init(cfg.Env)
	lg := logger.L()

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL, cfg.DB)
	if err != nil {
		lg.WithError(err).Fatal("main: ошибка подключения к базе")
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn); err != nil {
		lg.WithError(err).Fatal("main: ошибка миграций")
	}

	// Счётчик попыток: Redis, если задан REDIS_URL, иначе память процесса.
	var attemptStore limiter.Store
	if cfg.RedisURL != "" {
		redisClient, err := db.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			lg.WithError(err).Fatal("main: ошибка подключения к redis")
		}
		defer redisClient.Close()

		attemptStore, err = service.NewRedisAttemptStore(redisClient)
		if err != nil {
			lg.WithError(err).Fatal("main: ошибка инициализации счётчика попыток")
		}
	} else {
		attemptStore = service.NewMemoryAttemptStore()
	}

	sender, err := mail.NewSender(cfg.Mail, cfg.IsProduction())
	if err != nil {
		lg.WithError(err).Fatal("main: почтовый транспорт не настроен")
	}

	// Сервисы.
	tokenManager := service.NewTokenManager(cfg.JWTSecret)
	accountRepo := repository.NewAccountRepository(dbConn)
	authService := service.NewAuthService(
		accountRepo,
		service.NewOTPIssuer(sender),
		service.NewAttemptLimiter(attemptStore, cfg.OTPMaxAttempts, service.OTPTTL),
		tokenManager,
	)

	// HTTP.
	engine := httpRouter.SetupRouter(
		cfg,
		httpHandlers.NewAuthHandler(authService),
		httpHandlers.NewHealthHandler(dbConn),
		tokenManager,
	)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.WithError(err).Error("main: ошибка остановки http сервера")
		}
	}()

	lg.WithField("port", cfg.HTTPPort).Info("main: HTTP сервер запущен")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		lg.WithError(err).Fatal("main: сервер завершился с ошибкой")
	}
}

// safeClose закрывает соединение с базой.
func safeClose(conn *sqlx.DB) {
	if err := conn.Close(); err != nil {
		logger.L().WithError(err).Error("main: ошибка закрытия базы")
	}
}
