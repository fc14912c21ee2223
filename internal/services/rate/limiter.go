// Package rate is a fixed-window request limiter backed by redis.
package rate

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// WindowStore is the counter backend, implemented by repo/redis.RateRepo.
type WindowStore interface {
	IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

type Limiter struct {
	store  WindowStore
	logger *zap.Logger
	limit  int64
	window time.Duration
}

// NewLimiter allows limit hits per window per key. A nil store disables
// limiting entirely.
func NewLimiter(store WindowStore, limit int, window time.Duration, logger *zap.Logger) *Limiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if window <= 0 {
		window = time.Minute
	}
	return &Limiter{
		store:  store,
		logger: logger,
		limit:  int64(limit),
		window: window,
	}
}

// Allow records a hit for key and reports whether it stays within the
// window limit. Backend failures fail open: a broken counter must not
// take the feature down with it.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	if l.store == nil || l.limit <= 0 {
		return true, 0, nil
	}

	count, ttl, err := l.store.IncrementWindow(ctx, fmt.Sprintf("rate:%s", key), l.window)
	if err != nil {
		l.logger.Warn("rate counter unavailable, allowing request", zap.Error(err))
		return true, 0, nil
	}

	if count > l.limit {
		return false, ttl, nil
	}
	return true, ttl, nil
}
