package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultDedupTTL = time.Hour
	keyPrefix       = "dedup:"
)

// DedupChecker remembers recently stored location reports so client retries
// are not written twice. Keys expire after the configured TTL.
type DedupChecker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewDedupChecker(client *redis.Client, ttl time.Duration) *DedupChecker {
	if ttl <= 0 {
		ttl = defaultDedupTTL
	}
	return &DedupChecker{client: client, ttl: ttl}
}

// IsDuplicate reports whether key has been marked within the TTL.
func (d *DedupChecker) IsDuplicate(ctx context.Context, key string) (bool, error) {
	n, err := d.client.Exists(ctx, keyPrefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records key until the TTL elapses.
func (d *DedupChecker) Mark(ctx context.Context, key string) error {
	if err := d.client.Set(ctx, keyPrefix+key, "1", d.ttl).Err(); err != nil {
		return fmt.Errorf("dedup mark: %w", err)
	}
	return nil
}
