package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

const attemptsPrefix = "otp_attempts"

// AttemptCounter ограничивает число попыток ввода кода для одного email.
type AttemptCounter interface {
	// Hit учитывает попытку и сообщает, превышен ли лимит.
	Hit(ctx context.Context, email string) (bool, error)
	// Reset обнуляет счётчик, когда выдан новый код.
	Reset(ctx context.Context, email string) error
}

// AttemptLimiter реализует AttemptCounter поверх ulule/limiter.
// Окно совпадает со сроком жизни кода.
type AttemptLimiter struct {
	limiter *limiter.Limiter
}

// NewAttemptLimiter создаёт ограничитель с max попыток за window.
func NewAttemptLimiter(store limiter.Store, max int64, window time.Duration) *AttemptLimiter {
	return &AttemptLimiter{
		limiter: limiter.New(store, limiter.Rate{
			Period: window,
			Limit:  max,
		}),
	}
}

// NewMemoryAttemptStore хранит счётчики в памяти процесса.
func NewMemoryAttemptStore() limiter.Store {
	return memory.NewStoreWithOptions(limiter.StoreOptions{
		Prefix:          attemptsPrefix,
		CleanUpInterval: time.Minute,
	})
}

// NewRedisAttemptStore хранит счётчики в Redis, общие для всех инстансов.
func NewRedisAttemptStore(client *redis.Client) (limiter.Store, error) {
	store, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix: attemptsPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("attempt limiter: не удалось создать redis store: %w", err)
	}
	return store, nil
}

func (l *AttemptLimiter) Hit(ctx context.Context, email string) (bool, error) {
	res, err := l.limiter.Get(ctx, email)
	if err != nil {
		return false, fmt.Errorf("attempt limiter: %w", err)
	}
	return res.Reached, nil
}

func (l *AttemptLimiter) Reset(ctx context.Context, email string) error {
	if _, err := l.limiter.Reset(ctx, email); err != nil {
		return fmt.Errorf("attempt limiter: reset %w", err)
	}
	return nil
}
