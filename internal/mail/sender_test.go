package mail

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/restom/restom-backend/internal/config"
)

type fakeDialer struct {
	sent  []*gomail.Message
	err   error
	block chan struct{}
}

func (d *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	if d.block != nil {
		<-d.block
	}
	d.sent = append(d.sent, m...)
	return d.err
}

func newTestSender(d dialer) *SMTPSender {
	return &SMTPSender{
		dialer:  d,
		from:    "noreply@restom.app",
		subject: "Your OTP",
		timeout: time.Second,
	}
}

func TestSMTPSender_SendOTP(t *testing.T) {
	d := &fakeDialer{}
	sender := newTestSender(d)

	require.NoError(t, sender.SendOTP(context.Background(), "ann@x.com", "Ann", "482913"))
	require.Len(t, d.sent, 1)

	msg := d.sent[0]
	assert.Equal(t, []string{"noreply@restom.app"}, msg.GetHeader("From"))
	assert.Equal(t, []string{"ann@x.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"Your OTP"}, msg.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Your OTP is 482913")
}

func TestSMTPSender_TransportError(t *testing.T) {
	smtpErr := errors.New("535 authentication failed")
	sender := newTestSender(&fakeDialer{err: smtpErr})

	err := sender.SendOTP(context.Background(), "ann@x.com", "Ann", "482913")
	assert.ErrorIs(t, err, smtpErr)
}

func TestSMTPSender_Timeout(t *testing.T) {
	d := &fakeDialer{block: make(chan struct{})}
	defer close(d.block)

	sender := newTestSender(d)
	sender.timeout = 20 * time.Millisecond

	err := sender.SendOTP(context.Background(), "ann@x.com", "Ann", "482913")
	assert.ErrorIs(t, err, ErrSendTimeout)
}

func TestSMTPSender_CancelledContext(t *testing.T) {
	d := &fakeDialer{block: make(chan struct{})}
	defer close(d.block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := newTestSender(d).SendOTP(ctx, "ann@x.com", "Ann", "482913")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBody(t *testing.T) {
	assert.Equal(t,
		"Hello Ann,\n\nYour OTP is 123456. It expires in 10 minutes.\n\nIf you didn't request this, ignore this mail.",
		Body("Ann", "123456"))
}

func TestNewSMTPSender_Transports(t *testing.T) {
	sg := NewSMTPSender(config.MailConfig{SendGridAPIKey: "SG.key", From: "noreply@restom.app", Subject: "Your OTP"})
	d, ok := sg.dialer.(*gomail.Dialer)
	require.True(t, ok)
	assert.Equal(t, "smtp.sendgrid.net", d.Host)
	assert.Equal(t, 587, d.Port)
	assert.Equal(t, "apikey", d.Username)
	assert.Equal(t, "SG.key", d.Password)
	assert.Equal(t, "noreply@restom.app", sg.from)

	gm := NewSMTPSender(config.MailConfig{
		SMTPHost:   "smtp.gmail.com",
		SMTPPort:   465,
		SMTPSecure: true,
		User:       "restom@gmail.com",
		Password:   "app-pass",
	})
	d, ok = gm.dialer.(*gomail.Dialer)
	require.True(t, ok)
	assert.Equal(t, "smtp.gmail.com", d.Host)
	assert.True(t, d.SSL)
	assert.Equal(t, "restom@gmail.com", gm.from)
}

func TestNewSender(t *testing.T) {
	s, err := NewSender(config.MailConfig{User: "u", Password: "p"}, true)
	require.NoError(t, err)
	assert.IsType(t, &SMTPSender{}, s)

	s, err = NewSender(config.MailConfig{}, false)
	require.NoError(t, err)
	assert.IsType(t, &LogSender{}, s)

	_, err = NewSender(config.MailConfig{}, true)
	assert.Error(t, err)
}

func TestLogSender(t *testing.T) {
	log, hook := test.NewNullLogger()

	require.NoError(t, NewLogSender(log).SendOTP(context.Background(), "ann@x.com", "Ann", "482913"))
	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, "482913", hook.LastEntry().Data["otp"])
}
