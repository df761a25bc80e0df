package collector

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterUpdateAndCheck(t *testing.T) {
	rl := NewRateLimiter()
	reset := time.Now().Add(30 * time.Minute)

	rl.UpdateLimit(4200, reset)

	remaining, resetTime := rl.CheckLimit()
	assert.Equal(t, 4200, remaining)
	assert.Equal(t, reset, resetTime)
}

func TestRateLimiterWaitHonorsCancellation(t *testing.T) {
	rl := NewRateLimiter()
	rl.UpdateLimit(5, time.Now().Add(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := rl.Wait(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRateLimiterEnforcesMinimumDelay(t *testing.T) {
	rl := NewRateLimiter()
	ctx := context.Background()

	require.NoError(t, rl.Wait(ctx))
	startedAt := time.Now()
	require.NoError(t, rl.Wait(ctx))

	assert.GreaterOrEqual(t, time.Since(startedAt), 90*time.Millisecond)
}
