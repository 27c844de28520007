package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"time"
)

const (
	// OTPTTL задаёт фиксированный срок жизни кода подтверждения.
	OTPTTL = 10 * time.Minute

	otpMin = 100000
	otpMax = 999999
)

// OTPSender доставляет код пользователю по внешнему каналу (email).
type OTPSender interface {
	SendOTP(ctx context.Context, email, name, code string) error
}

// OTPIssuer генерирует одноразовые коды и передаёт их отправителю.
type OTPIssuer struct {
	sender OTPSender
	random io.Reader
}

// NewOTPIssuer создаёт выпускающего коды с криптостойким источником случайности.
func NewOTPIssuer(sender OTPSender) *OTPIssuer {
	return &OTPIssuer{
		sender: sender,
		random: rand.Reader,
	}
}

// Generate возвращает равномерно распределённый код из диапазона 100000–999999.
func (i *OTPIssuer) Generate() (string, error) {
	n, err := rand.Int(i.random, big.NewInt(otpMax-otpMin+1))
	if err != nil {
		return "", fmt.Errorf("otp issuer: не удалось сгенерировать код: %w", err)
	}
	return strconv.FormatInt(n.Int64()+otpMin, 10), nil
}

// ExpiryFor возвращает момент истечения кода, выданного в issuedAt.
func (i *OTPIssuer) ExpiryFor(issuedAt time.Time) time.Time {
	return issuedAt.Add(OTPTTL)
}

// Deliver передаёт код внешнему транспорту. Ошибка транспорта
// возвращается как есть, решение о статусе принимает вызывающий.
func (i *OTPIssuer) Deliver(ctx context.Context, email, name, code string) error {
	if err := i.sender.SendOTP(ctx, email, name, code); err != nil {
		return fmt.Errorf("otp issuer: доставка не удалась: %w", err)
	}
	return nil
}
