// Package ratelimit implements partitioned request limiters and the gin
// middleware that applies them.
package ratelimit

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// Lease is the outcome of an acquisition. RetryAfter is only meaningful when
// the lease was not acquired and HasRetryAfter is set.
type Lease struct {
	Acquired      bool
	RetryAfter    time.Duration
	HasRetryAfter bool
}

func acquired() Lease { return Lease{Acquired: true} }

func rejected(retryAfter time.Duration) Lease {
	if retryAfter <= 0 {
		return Lease{}
	}
	return Lease{RetryAfter: retryAfter, HasRetryAfter: true}
}

// Limiter hands out permits. Acquire may block while the request waits in a
// queue; it returns the context error when the wait is cancelled.
type Limiter interface {
	Acquire(ctx context.Context) (Lease, error)
}

type QueueOrder int

const (
	OldestFirst QueueOrder = iota
	NewestFirst
)

type FixedWindowOptions struct {
	PermitLimit int
	Window      time.Duration
	QueueLimit  int
	QueueOrder  QueueOrder
}

type waiter struct {
	result chan Lease
}

// FixedWindowLimiter allows PermitLimit acquisitions per window. When the
// window is exhausted up to QueueLimit callers wait for the next window and
// are served in QueueOrder; everyone else is rejected.
type FixedWindowLimiter struct {
	opts FixedWindowOptions
	now  func() time.Time

	mu          sync.Mutex
	permits     int
	windowStart time.Time
	queue       *list.List
	timer       *time.Timer
	lastUsed    time.Time
}

func NewFixedWindowLimiter(opts FixedWindowOptions) *FixedWindowLimiter {
	return newFixedWindowLimiter(opts, time.Now)
}

func newFixedWindowLimiter(opts FixedWindowOptions, now func() time.Time) *FixedWindowLimiter {
	if opts.Window <= 0 {
		opts.Window = time.Minute
	}
	if opts.PermitLimit < 0 {
		opts.PermitLimit = 0
	}
	if opts.QueueLimit < 0 {
		opts.QueueLimit = 0
	}
	start := now()
	return &FixedWindowLimiter{
		opts:        opts,
		now:         now,
		permits:     opts.PermitLimit,
		windowStart: start,
		queue:       list.New(),
		lastUsed:    start,
	}
}

func (l *FixedWindowLimiter) Acquire(ctx context.Context) (Lease, error) {
	l.mu.Lock()
	now := l.now()
	l.lastUsed = now
	l.replenishLocked(now)

	// Queued callers keep their place in line when serving oldest first.
	if l.permits > 0 && (l.queue.Len() == 0 || l.opts.QueueOrder == NewestFirst) {
		l.permits--
		l.mu.Unlock()
		return acquired(), nil
	}

	if l.opts.QueueLimit == 0 {
		lease := rejected(l.untilNextWindowLocked(now))
		l.mu.Unlock()
		return lease, nil
	}
	if l.queue.Len() >= l.opts.QueueLimit {
		if l.opts.QueueOrder == OldestFirst {
			lease := rejected(l.untilNextWindowLocked(now))
			l.mu.Unlock()
			return lease, nil
		}
		// Newest first: the oldest waiter gives up its place.
		oldest := l.queue.Remove(l.queue.Front()).(*waiter)
		oldest.result <- rejected(l.untilNextWindowLocked(now))
	}

	w := &waiter{result: make(chan Lease, 1)}
	elem := l.queue.PushBack(w)
	l.armTimerLocked(now)
	l.mu.Unlock()

	select {
	case lease := <-w.result:
		return lease, nil
	case <-ctx.Done():
		l.mu.Lock()
		defer l.mu.Unlock()
		select {
		case lease := <-w.result:
			// Served or evicted while cancelling.
			return lease, nil
		default:
		}
		l.queue.Remove(elem)
		return Lease{}, ctx.Err()
	}
}

// replenishLocked starts a new window when the current one has elapsed and
// hands the fresh permits to queued callers.
func (l *FixedWindowLimiter) replenishLocked(now time.Time) {
	elapsed := now.Sub(l.windowStart)
	if elapsed < l.opts.Window {
		return
	}
	l.windowStart = l.windowStart.Add(elapsed.Truncate(l.opts.Window))
	l.permits = l.opts.PermitLimit

	for l.permits > 0 && l.queue.Len() > 0 {
		var elem *list.Element
		if l.opts.QueueOrder == OldestFirst {
			elem = l.queue.Front()
		} else {
			elem = l.queue.Back()
		}
		w := l.queue.Remove(elem).(*waiter)
		l.permits--
		w.result <- acquired()
	}
}

func (l *FixedWindowLimiter) untilNextWindowLocked(now time.Time) time.Duration {
	return l.windowStart.Add(l.opts.Window).Sub(now)
}

func (l *FixedWindowLimiter) armTimerLocked(now time.Time) {
	if l.timer != nil {
		return
	}
	l.timer = time.AfterFunc(l.untilNextWindowLocked(now), l.onWindow)
}

func (l *FixedWindowLimiter) onWindow() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.timer = nil
	now := l.now()
	l.replenishLocked(now)
	if l.queue.Len() > 0 {
		l.armTimerLocked(now)
	}
}

// idleSince reports whether nothing used or waits on the limiter since t.
func (l *FixedWindowLimiter) idleSince(t time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.queue.Len() == 0 && l.lastUsed.Before(t)
}
