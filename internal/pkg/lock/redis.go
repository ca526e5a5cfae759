// internal/pkg/lock/redis.go
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/apperror"
)

const retryInterval = 50 * time.Millisecond

// RedisLocker holds keys in Redis so several API instances share one stock lock
type RedisLocker struct {
	client *redislock.Client
	ttl    time.Duration
	wait   time.Duration
	prefix string
}

// NewRedisLocker creates a locker backed by rdb. ttl bounds how long a
// crashed holder can block others and wait bounds how long Lock retries.
func NewRedisLocker(rdb *redis.Client, ttl, wait time.Duration) *RedisLocker {
	return &RedisLocker{
		client: redislock.New(rdb),
		ttl:    ttl,
		wait:   wait,
		prefix: "lock:",
	}
}

// Lock implements Locker
func (l *RedisLocker) Lock(ctx context.Context, key string) (Releaser, error) {
	attempts := int(l.wait / retryInterval)
	if attempts < 1 {
		attempts = 1
	}

	obtained, err := l.client.Obtain(ctx, l.prefix+key, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(retryInterval), attempts),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		logrus.WithFields(logrus.Fields{
			"key":  key,
			"wait": l.wait.String(),
		}).Warn("could not obtain redis lock")
		return nil, apperror.NewConflict("Resource is busy, please retry")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to obtain lock %s: %w", key, err)
	}

	return func() {
		if err := obtained.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			logrus.WithError(err).WithField("key", key).Warn("failed to release redis lock")
		}
	}, nil
}
