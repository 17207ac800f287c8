// Package ratelimit provides the check-in attempt limiter and the
// per-client request limiter.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// AttemptLimiter counts failed attempts per key within a fixed window
type AttemptLimiter interface {
	// Exceeded reports whether key has used up its attempts
	Exceeded(ctx context.Context, key string) (bool, error)
	// RecordFailure counts a failed attempt and returns the count in the current window
	RecordFailure(ctx context.Context, key string) (int64, error)
	// Reset clears the counter for key
	Reset(ctx context.Context, key string) error
}

// CheckInKey builds the attempt key for a user and event
func CheckInKey(userID string, eventID int64) string {
	return fmt.Sprintf("checkin:attempts:%d:%s", eventID, userID)
}

// RedisAttemptLimiter shares attempt counters across API instances
type RedisAttemptLimiter struct {
	client      *redis.Client
	maxAttempts int64
	window      time.Duration
}

var _ AttemptLimiter = (*RedisAttemptLimiter)(nil)

// NewRedisAttemptLimiter creates a Redis backed limiter
func NewRedisAttemptLimiter(client *redis.Client, maxAttempts int, window time.Duration) *RedisAttemptLimiter {
	return &RedisAttemptLimiter{client: client, maxAttempts: int64(maxAttempts), window: window}
}

// Exceeded reports whether key has reached the attempt limit
func (l *RedisAttemptLimiter) Exceeded(ctx context.Context, key string) (bool, error) {
	count, err := l.client.Get(ctx, key).Int64()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return count >= l.maxAttempts, nil
}

// RecordFailure increments the counter; the window starts at the first failure
func (l *RedisAttemptLimiter) RecordFailure(ctx context.Context, key string) (int64, error) {
	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, l.window)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("redis incr %s: %w", key, err)
	}
	return incr.Val(), nil
}

// Reset deletes the counter
func (l *RedisAttemptLimiter) Reset(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// MemoryAttemptLimiter keeps counters in process, for single-instance deployments
type MemoryAttemptLimiter struct {
	counters    *cache.Cache
	maxAttempts int
	window      time.Duration
}

var _ AttemptLimiter = (*MemoryAttemptLimiter)(nil)

// NewMemoryAttemptLimiter creates an in-memory limiter
func NewMemoryAttemptLimiter(maxAttempts int, window time.Duration) *MemoryAttemptLimiter {
	return &MemoryAttemptLimiter{
		counters:    cache.New(window, 2*window),
		maxAttempts: maxAttempts,
		window:      window,
	}
}

// Exceeded reports whether key has reached the attempt limit
func (l *MemoryAttemptLimiter) Exceeded(_ context.Context, key string) (bool, error) {
	v, ok := l.counters.Get(key)
	if !ok {
		return false, nil
	}
	return v.(int) >= l.maxAttempts, nil
}

// RecordFailure increments the counter; the window starts at the first failure
func (l *MemoryAttemptLimiter) RecordFailure(_ context.Context, key string) (int64, error) {
	for {
		if err := l.counters.Add(key, 1, l.window); err == nil {
			return 1, nil
		}
		// Increment keeps the original expiration
		n, err := l.counters.IncrementInt(key, 1)
		if err == nil {
			return int64(n), nil
		}
		// Expired between Add and Increment; start a new window
	}
}

// Reset deletes the counter
func (l *MemoryAttemptLimiter) Reset(_ context.Context, key string) error {
	l.counters.Delete(key)
	return nil
}
