package config

import (
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	// EnvProduction включает строгие проверки секретов и CORS.
	EnvProduction  = "production"
	EnvDevelopment = "development"

	defaultJWTSecret = "restom-development-secret-change-me-in-production"
	defaultOrigin    = "http://localhost:5173"
)

// Config хранит все параметры запуска приложения.
// Собирается один раз в main и передаётся в компоненты явно.
type Config struct {
	Env            string   `env:"APP_ENV" envDefault:"development"`
	HTTPPort       string   `env:"PORT" envDefault:"5000"`
	DatabaseURL    string   `env:"DATABASE_URL"`
	JWTSecret      string   `env:"JWT_SECRET"`
	AllowedOrigins []string `env:"CORS_ORIGIN" envSeparator:","`
	RedisURL       string   `env:"REDIS_URL"`
	OTPMaxAttempts int64    `env:"OTP_MAX_ATTEMPTS" envDefault:"5"`

	DB   DBConfig
	Mail MailConfig
}

// DBConfig описывает подключение к PostgreSQL по отдельным переменным.
type DBConfig struct {
	Host            string        `env:"DB_HOST"`
	RDSHost         string        `env:"RDS_HOST"`
	Port            int           `env:"DB_PORT" envDefault:"5432"`
	User            string        `env:"DB_USER" envDefault:"restom_admin"`
	Password        string        `env:"DB_PASSWORD"`
	Name            string        `env:"DB_NAME" envDefault:"restom_db"`
	SSLMode         string        `env:"DB_SSLMODE" envDefault:"disable"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	ConnMaxIdleTime time.Duration `env:"DB_CONN_MAX_IDLE_TIME" envDefault:"30s"`
}

// MailConfig описывает SMTP транспорт для писем с OTP.
type MailConfig struct {
	SendGridAPIKey string        `env:"SENDGRID_API_KEY"`
	SMTPHost       string        `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	SMTPPort       int           `env:"SMTP_PORT" envDefault:"587"`
	SMTPSecure     bool          `env:"SMTP_SECURE"`
	User           string        `env:"EMAIL_USER"`
	Password       string        `env:"EMAIL_PASS"`
	From           string        `env:"EMAIL_FROM"`
	Subject        string        `env:"EMAIL_SUBJECT" envDefault:"Your OTP"`
	Timeout        time.Duration `env:"MAIL_TIMEOUT" envDefault:"15s"`
}

// Configured сообщает, заданы ли учётные данные для реальной отправки.
func (m MailConfig) Configured() bool {
	return m.SendGridAPIKey != "" || (m.User != "" && m.Password != "")
}

// Sender возвращает адрес отправителя: EMAIL_FROM либо EMAIL_USER.
func (m MailConfig) Sender() string {
	if m.From != "" {
		return m.From
	}
	return m.User
}

// Load читает .env и переменные окружения и возвращает готовую конфигурацию.
func Load() (*Config, error) {
	// .env необязателен, в контейнере всё приходит через окружение.
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("config: .env не найден, используем переменные окружения: %v", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: не удалось разобрать окружение: %w", err)
	}

	if cfg.JWTSecret == "" || len(cfg.JWTSecret) < 32 {
		if cfg.IsProduction() {
			return nil, fmt.Errorf("config: JWT_SECRET обязателен и должен быть не менее 32 символов в production")
		}
		if cfg.JWTSecret == "" {
			cfg.JWTSecret = defaultJWTSecret
			log.Printf("config: WARNING - используется дефолтный JWT_SECRET, измените в production!")
		}
	}

	origins := make([]string, 0, len(cfg.AllowedOrigins))
	for _, origin := range cfg.AllowedOrigins {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		if cfg.IsProduction() {
			return nil, fmt.Errorf("config: CORS_ORIGIN обязателен в production")
		}
		origins = []string{defaultOrigin}
	}
	cfg.AllowedOrigins = origins

	if cfg.OTPMaxAttempts <= 0 {
		return nil, fmt.Errorf("config: OTP_MAX_ATTEMPTS должен быть положительным, получено %d", cfg.OTPMaxAttempts)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = cfg.DB.DSN()
	}

	return cfg, nil
}

// IsProduction сообщает, запущено ли приложение в production.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// DSN собирает строку подключения из DB_* переменных.
func (d DBConfig) DSN() string {
	host := d.Host
	if host == "" {
		host = d.RDSHost
	}
	if host == "" {
		host = "localhost"
	}

	// url.UserPassword экранирует спецсимволы в пароле.
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     host + ":" + strconv.Itoa(d.Port),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}
