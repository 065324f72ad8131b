package ratelimit

import (
	"context"
	"sync"
	"time"
)

// GlobalKey is the single partition used when requests are not split by
// client.
const GlobalKey = "GlobalLimiter"

type idler interface {
	idleSince(t time.Time) bool
}

// PartitionedLimiter keeps one limiter per key. Partitions are created on
// first use and dropped once they have been idle for IdleTimeout.
type PartitionedLimiter struct {
	newLimiter  func() Limiter
	idleTimeout time.Duration
	now         func() time.Time

	partitions sync.Map // map[string]Limiter

	mu        sync.Mutex
	lastSweep time.Time
}

func NewPartitionedLimiter(newLimiter func() Limiter, idleTimeout time.Duration) *PartitionedLimiter {
	if idleTimeout <= 0 {
		idleTimeout = 10 * time.Minute
	}
	return &PartitionedLimiter{
		newLimiter:  newLimiter,
		idleTimeout: idleTimeout,
		now:         time.Now,
		lastSweep:   time.Now(),
	}
}

func (p *PartitionedLimiter) Acquire(ctx context.Context, key string) (Lease, error) {
	return p.partition(key).Acquire(ctx)
}

func (p *PartitionedLimiter) partition(key string) Limiter {
	if l, ok := p.partitions.Load(key); ok {
		return l.(Limiter)
	}
	actual, loaded := p.partitions.LoadOrStore(key, p.newLimiter())
	if !loaded {
		p.maybeSweep()
	}
	return actual.(Limiter)
}

// Len reports the number of live partitions.
func (p *PartitionedLimiter) Len() int {
	n := 0
	p.partitions.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func (p *PartitionedLimiter) maybeSweep() {
	p.mu.Lock()
	now := p.now()
	if now.Sub(p.lastSweep) < p.idleTimeout {
		p.mu.Unlock()
		return
	}
	p.lastSweep = now
	p.mu.Unlock()
	p.sweep(now.Add(-p.idleTimeout))
}

func (p *PartitionedLimiter) sweep(cutoff time.Time) {
	p.partitions.Range(func(key, value any) bool {
		if l, ok := value.(idler); ok && l.idleSince(cutoff) {
			p.partitions.Delete(key)
		}
		return true
	})
}
