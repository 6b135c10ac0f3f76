package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/rankscout/rankscout/internal/model"
)

// Usage counter keys. Counters are plain INCRBY values, safe under
// concurrent writers.
const (
	usageChecksKey     = "usage:checks"
	usageUserKeyPrefix = "usage:user:"
	usageUserKeySuffix = ":checks"
)

func usageUserKey(userID string) string {
	return usageUserKeyPrefix + userID + usageUserKeySuffix
}

// IncrementUsage adds n to the system-wide check counter, and to the
// per-user counter when userID is non-empty.
func (c *Cache) IncrementUsage(ctx context.Context, userID string, n int) error {
	if n <= 0 {
		return nil
	}

	pipe := c.client.Pipeline()
	pipe.IncrBy(ctx, usageChecksKey, int64(n))
	if userID != "" {
		pipe.IncrBy(ctx, usageUserKey(userID), int64(n))
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to increment usage: %w", err)
	}

	return nil
}

// GetUsage reads the current usage counters. Missing keys read as zero.
// UserChecks is zero when userID is empty.
func (c *Cache) GetUsage(ctx context.Context, userID string) (*model.UsageCounters, error) {
	counters := &model.UsageCounters{}

	total, err := c.getCounter(ctx, usageChecksKey)
	if err != nil {
		return nil, err
	}
	counters.TotalChecks = total

	if userID != "" {
		user, err := c.getCounter(ctx, usageUserKey(userID))
		if err != nil {
			return nil, err
		}
		counters.UserChecks = user
	}

	return counters, nil
}

func (c *Cache) getCounter(ctx context.Context, key string) (int64, error) {
	value, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read counter %s: %w", key, err)
	}

	count, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse counter %s: %w", key, err)
	}

	return count, nil
}
