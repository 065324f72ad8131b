package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartitionedLimiter_KeysAreIndependent(t *testing.T) {
	p := NewPartitionedLimiter(func() Limiter {
		return NewFixedWindowLimiter(FixedWindowOptions{PermitLimit: 1, Window: time.Minute})
	}, time.Minute)
	ctx := context.Background()

	lease, err := p.Acquire(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, lease.Acquired)

	lease, _ = p.Acquire(ctx, "10.0.0.1")
	assert.False(t, lease.Acquired)

	lease, _ = p.Acquire(ctx, "10.0.0.2")
	assert.True(t, lease.Acquired)
	assert.Equal(t, 2, p.Len())
}

func TestPartitionedLimiter_SweepsIdlePartitions(t *testing.T) {
	clock := newFakeClock()
	p := NewPartitionedLimiter(func() Limiter {
		return newFixedWindowLimiter(FixedWindowOptions{PermitLimit: 1, Window: time.Second}, clock.now)
	}, time.Minute)
	p.now = clock.now
	p.lastSweep = clock.now()
	ctx := context.Background()

	_, _ = p.Acquire(ctx, "a")
	_, _ = p.Acquire(ctx, "b")
	require.Equal(t, 2, p.Len())

	clock.advance(2 * time.Minute)
	_, _ = p.Acquire(ctx, "b")
	// Creating "c" triggers the sweep; "a" has been idle past the timeout.
	_, _ = p.Acquire(ctx, "c")

	_, aLive := p.partitions.Load("a")
	_, bLive := p.partitions.Load("b")
	assert.False(t, aLive)
	assert.True(t, bLive)
	assert.Equal(t, 2, p.Len())
}
