package logger

import (
	"github.com/sirupsen/logrus"
)

var Log *logrus.Logger

// Init инициализирует структурированный логгер под окружение:
// JSON в production, текст с полными метками времени в development.
func Init(env string) {
	Log = logrus.New()

	if env == "production" {
		Log.SetLevel(logrus.InfoLevel)
		Log.SetFormatter(&logrus.JSONFormatter{})
		return
	}

	Log.SetLevel(logrus.DebugLevel)
	Log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}

// L возвращает инициализированный логгер или стандартный logrus,
// если Init ещё не вызывался (например, в тестах).
func L() *logrus.Logger {
	if Log != nil {
		return Log
	}
	return logrus.StandardLogger()
}

// ForEmail возвращает запись лога с привязкой к email аккаунта.
func ForEmail(email string) *logrus.Entry {
	return L().WithField("email", email)
}
