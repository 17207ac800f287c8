package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryAttemptLimiter(t *testing.T) {
	ctx := context.Background()
	limiter := NewMemoryAttemptLimiter(3, time.Minute)
	key := CheckInKey("user-1", 42)

	for i := 1; i <= 3; i++ {
		exceeded, err := limiter.Exceeded(ctx, key)
		require.NoError(t, err)
		assert.False(t, exceeded)

		n, err := limiter.RecordFailure(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, int64(i), n)
	}

	exceeded, err := limiter.Exceeded(ctx, key)
	require.NoError(t, err)
	assert.True(t, exceeded)

	other, err := limiter.Exceeded(ctx, CheckInKey("user-2", 42))
	require.NoError(t, err)
	assert.False(t, other)

	require.NoError(t, limiter.Reset(ctx, key))
	exceeded, err = limiter.Exceeded(ctx, key)
	require.NoError(t, err)
	assert.False(t, exceeded)
}

func TestMemoryAttemptLimiter_WindowExpires(t *testing.T) {
	ctx := context.Background()
	limiter := NewMemoryAttemptLimiter(1, 20*time.Millisecond)
	key := CheckInKey("user-1", 7)

	_, err := limiter.RecordFailure(ctx, key)
	require.NoError(t, err)
	exceeded, _ := limiter.Exceeded(ctx, key)
	assert.True(t, exceeded)

	assert.Eventually(t, func() bool {
		exceeded, _ := limiter.Exceeded(ctx, key)
		return !exceeded
	}, time.Second, 10*time.Millisecond)
}

func TestIPLimiter(t *testing.T) {
	limiter := NewIPLimiter(0.001, 2)

	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.2"))
}

func TestCheckInKey(t *testing.T) {
	assert.Equal(t, "checkin:attempts:5:abc", CheckInKey("abc", 5))
}
