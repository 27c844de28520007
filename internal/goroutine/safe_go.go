package goroutine

import (
	"context"
	"runtime/debug"

	"github.com/sirupsen/logrus"

	"github.com/restom/restom-backend/internal/logger"
)

// RecoveryHandler перехватывает panic в фоновых горутинах и пишет их в лог.
type RecoveryHandler struct {
	log func() logrus.FieldLogger
}

// NewRecoveryHandler создаёт обработчик, пишущий в переданный логгер.
func NewRecoveryHandler(log logrus.FieldLogger) *RecoveryHandler {
	return &RecoveryHandler{log: func() logrus.FieldLogger { return log }}
}

// SafeGo запускает fn в горутине. Panic не роняет процесс.
func (rh *RecoveryHandler) SafeGo(fn func()) {
	go func() {
		defer rh.recover()
		fn()
	}()
}

// SafeGoWithContext запускает fn с контекстом в горутине.
func (rh *RecoveryHandler) SafeGoWithContext(ctx context.Context, fn func(context.Context)) {
	go func() {
		defer rh.recover()
		fn(ctx)
	}()
}

func (rh *RecoveryHandler) recover() {
	if r := recover(); r != nil {
		rh.log().WithFields(logrus.Fields{
			"panic": r,
			"stack": string(debug.Stack()),
		}).Error("goroutine: panic перехвачен")
	}
}

// DefaultRecoveryHandler пишет в логгер приложения, инициализированный на момент panic.
var DefaultRecoveryHandler = &RecoveryHandler{log: func() logrus.FieldLogger { return logger.L() }}

// SafeGo запускает безопасную горутину через DefaultRecoveryHandler.
func SafeGo(fn func()) {
	DefaultRecoveryHandler.SafeGo(fn)
}

// SafeGoWithContext запускает безопасную горутину с контекстом.
func SafeGoWithContext(ctx context.Context, fn func(context.Context)) {
	DefaultRecoveryHandler.SafeGoWithContext(ctx, fn)
}
