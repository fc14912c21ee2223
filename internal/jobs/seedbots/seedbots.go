// Package seedbots keeps the bot pool topped up. The job runs once at
// startup and then on a fixed interval, so the match fallback always
// has partners even after manual data wipes.
package seedbots

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type botPool interface {
	EnsureBotsExist(ctx context.Context) error
}

type Job struct {
	bots     botPool
	interval time.Duration
	logger   *zap.Logger
}

func New(bots botPool, interval time.Duration, logger *zap.Logger) *Job {
	if interval <= 0 {
		interval = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Job{bots: bots, interval: interval, logger: logger}
}

// Run seeds once immediately and then on every tick until ctx ends.
func (j *Job) Run(ctx context.Context) error {
	if j.bots == nil {
		return fmt.Errorf("bot service is nil")
	}

	if err := j.seed(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := j.seed(ctx); err != nil {
				j.logger.Warn("bot pool top-up failed", zap.Error(err))
			}
		}
	}
}

// Seed performs a single top-up pass.
func (j *Job) Seed(ctx context.Context) error {
	if j.bots == nil {
		return fmt.Errorf("bot service is nil")
	}
	return j.seed(ctx)
}

func (j *Job) seed(ctx context.Context) error {
	if err := j.bots.EnsureBotsExist(ctx); err != nil {
		return fmt.Errorf("ensure bot pool: %w", err)
	}
	return nil
}
