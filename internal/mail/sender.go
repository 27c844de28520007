package mail

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"github.com/restom/restom-backend/internal/config"
	"github.com/restom/restom-backend/internal/goroutine"
	"github.com/restom/restom-backend/internal/logger"
)

const (
	sendGridHost = "smtp.sendgrid.net"
	sendGridPort = 587
	sendGridUser = "apikey"

	bodyTemplate = "Hello %s,\n\nYour OTP is %s. It expires in 10 minutes.\n\nIf you didn't request this, ignore this mail."
)

// ErrSendTimeout возвращается, если SMTP сервер не ответил за MAIL_TIMEOUT.
var ErrSendTimeout = errors.New("mail: превышено время отправки письма")

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPSender отправляет письма с OTP через SMTP (Gmail, SendGrid и т.п.).
type SMTPSender struct {
	dialer  dialer
	from    string
	subject string
	timeout time.Duration
}

// NewSMTPSender настраивает SMTP транспорт. При заданном SENDGRID_API_KEY
// используется SMTP relay SendGrid, иначе SMTP_HOST с EMAIL_USER/EMAIL_PASS.
func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	var d *gomail.Dialer
	if cfg.SendGridAPIKey != "" {
		d = gomail.NewDialer(sendGridHost, sendGridPort, sendGridUser, cfg.SendGridAPIKey)
	} else {
		d = gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.User, cfg.Password)
		if cfg.SMTPSecure {
			d.SSL = true
		}
	}

	return &SMTPSender{
		dialer:  d,
		from:    cfg.Sender(),
		subject: cfg.Subject,
		timeout: cfg.Timeout,
	}
}

// SendOTP отправляет код на email. Отправка ограничена таймаутом и контекстом запроса.
func (s *SMTPSender) SendOTP(ctx context.Context, email, name, code string) error {
	msg := s.message(email, name, code)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	result := make(chan error, 1)
	goroutine.SafeGo(func() {
		result <- s.dialer.DialAndSend(msg)
	})

	select {
	case err := <-result:
		if err != nil {
			return fmt.Errorf("mail: smtp отправка на %s: %w", email, err)
		}
		logger.ForEmail(email).Debug("mail: письмо с OTP отправлено")
		return nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ErrSendTimeout
		}
		return fmt.Errorf("mail: отправка прервана: %w", ctx.Err())
	}
}

func (s *SMTPSender) message(email, name, code string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", s.subject)
	m.SetBody("text/plain", Body(name, code))
	return m
}

// Body возвращает текст письма с кодом.
func Body(name, code string) string {
	return fmt.Sprintf(bodyTemplate, name, code)
}

// LogSender пишет код в лог вместо отправки. Только для разработки.
type LogSender struct {
	log logrus.FieldLogger
}

func NewLogSender(log logrus.FieldLogger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) SendOTP(ctx context.Context, email, name, code string) error {
	s.log.WithFields(logrus.Fields{
		"email": email,
		"name":  name,
		"otp":   code,
	}).Warn("mail: SMTP не настроен, код выведен в лог")
	return nil
}

// Sender общий контракт SMTPSender и LogSender.
type Sender interface {
	SendOTP(ctx context.Context, email, name, code string) error
}

// NewSender выбирает транспорт по конфигурации. В production без учётных
// данных SMTP возвращается ошибка.
func NewSender(cfg config.MailConfig, production bool) (Sender, error) {
	if cfg.Configured() {
		return NewSMTPSender(cfg), nil
	}
	if production {
		return nil, errors.New("mail: EMAIL_USER/EMAIL_PASS или SENDGRID_API_KEY обязательны в production")
	}
	return NewLogSender(logger.L()), nil
}
