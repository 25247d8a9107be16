package lock

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"acquisition_desk/internal/domain"
	"acquisition_desk/pkg/errcodes"
)

const retryInterval = 25 * time.Millisecond

type RedisLocker struct {
	client *redislock.Client
	ttl    time.Duration
	wait   time.Duration
}

// NewRedisLocker holds each lock for at most ttl and waits up to wait for a
// busy one.
func NewRedisLocker(client redis.UniversalClient, ttl, wait time.Duration) *RedisLocker {
	return &RedisLocker{
		client: redislock.New(client),
		ttl:    ttl,
		wait:   wait,
	}
}

func (l *RedisLocker) Lock(ctx context.Context, prefix string) (func(context.Context) error, error) {
	obtainCtx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	lock, err := l.client.Obtain(obtainCtx, keyFor(prefix), l.ttl, &redislock.Options{
		RetryStrategy: redislock.LinearBackoff(retryInterval),
	})
	if err != nil {
		if errors.Is(err, redislock.ErrNotObtained) || errors.Is(err, context.DeadlineExceeded) {
			return nil, domain.WrapError(err, errcodes.LockNotObtained, "allocation lock is busy")
		}
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to obtain allocation lock")
	}

	return func(ctx context.Context) error {
		if err := lock.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			return err
		}
		return nil
	}, nil
}
