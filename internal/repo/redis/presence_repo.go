package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// PresenceRepo tracks which users currently hold a live realtime
// connection. Entries carry a TTL so a crashed server never leaves
// users marked online forever.
type PresenceRepo struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewPresenceRepo(client *goredis.Client, ttl time.Duration) *PresenceRepo {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &PresenceRepo{client: client, ttl: ttl}
}

func (r *PresenceRepo) MarkOnline(ctx context.Context, userID int64) error {
	if r.client == nil {
		return nil
	}
	if userID <= 0 {
		return fmt.Errorf("invalid user id")
	}

	if err := r.client.Set(ctx, presenceKey(userID), "1", r.ttl).Err(); err != nil {
		return fmt.Errorf("mark user online: %w", err)
	}
	return nil
}

func (r *PresenceRepo) MarkOffline(ctx context.Context, userID int64) error {
	if r.client == nil {
		return nil
	}
	if userID <= 0 {
		return fmt.Errorf("invalid user id")
	}

	if err := r.client.Del(ctx, presenceKey(userID)).Err(); err != nil {
		return fmt.Errorf("mark user offline: %w", err)
	}
	return nil
}

func (r *PresenceRepo) IsOnline(ctx context.Context, userID int64) (bool, error) {
	if r.client == nil || userID <= 0 {
		return false, nil
	}

	n, err := r.client.Exists(ctx, presenceKey(userID)).Result()
	if err != nil {
		return false, fmt.Errorf("check user presence: %w", err)
	}
	return n > 0, nil
}

func presenceKey(userID int64) string {
	return fmt.Sprintf("presence:%d", userID)
}
