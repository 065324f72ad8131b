package ratelimit

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// KeyFunc picks the partition a request belongs to.
type KeyFunc func(c *gin.Context) string

func Global(*gin.Context) string { return GlobalKey }

func ClientIP(c *gin.Context) string { return c.ClientIP() }

// Policy is a named limiter applied by Middleware.
type Policy struct {
	Name    string
	Key     KeyFunc
	Limiter *PartitionedLimiter
}

// FixedWindowPolicy builds a policy whose partitions are fixed-window
// limiters.
func FixedWindowPolicy(name string, key KeyFunc, opts FixedWindowOptions) Policy {
	return Policy{
		Name: name,
		Key:  key,
		Limiter: NewPartitionedLimiter(func() Limiter {
			return NewFixedWindowLimiter(opts)
		}, 0),
	}
}

// TokenBucketPolicy builds a policy whose partitions are token buckets.
func TokenBucketPolicy(name string, key KeyFunc, requests int, window time.Duration, burst int) Policy {
	return Policy{
		Name: name,
		Key:  key,
		Limiter: NewPartitionedLimiter(func() Limiter {
			return NewTokenBucketLimiter(requests, window, burst)
		}, 0),
	}
}

// Except lists routes, as "METHOD /full/path" using the router's path
// templates, the middleware lets through untouched.
func Except(routes ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(routes))
	for _, r := range routes {
		m[r] = struct{}{}
	}
	return m
}

// StatusClientClosedRequest is recorded for requests whose client left while
// queued for a permit.
const StatusClientClosedRequest = 499

// Middleware enforces the policy and answers 429 when a lease is refused.
func Middleware(policy Policy, logger *zap.Logger, exempt map[string]struct{}) gin.HandlerFunc {
	logger = logger.Named("rate_limiter")
	key := policy.Key
	if key == nil {
		key = Global
	}

	return func(c *gin.Context) {
		if _, ok := exempt[c.Request.Method+" "+c.FullPath()]; ok {
			c.Next()
			return
		}

		partition := key(c)
		lease, err := policy.Limiter.Acquire(c.Request.Context(), partition)
		if err != nil {
			// The client went away while queued.
			logger.Debug("Rate limit wait cancelled",
				zap.String("policy", policy.Name),
				zap.Error(err),
			)
			c.AbortWithStatus(StatusClientClosedRequest)
			return
		}
		if lease.Acquired {
			c.Next()
			return
		}

		logger.Warn("Rate limit exceeded",
			zap.String("policy", policy.Name),
			zap.String("partition", partition),
			zap.String("path", c.Request.URL.Path),
			zap.Duration("retry_after", lease.RetryAfter),
		)
		Reject(c, lease)
	}
}

// Reject writes the 429 response for a refused lease.
func Reject(c *gin.Context, lease Lease) {
	if lease.HasRetryAfter {
		seconds := retryAfterSeconds(lease.RetryAfter)
		c.Header("Retry-After", strconv.Itoa(seconds))
		c.String(http.StatusTooManyRequests,
			fmt.Sprintf("Too many requests. Please try again after %d second(s).", seconds))
	} else {
		c.String(http.StatusTooManyRequests, "Too many requests. Please try again later.")
	}
	c.Abort()
}

func retryAfterSeconds(d time.Duration) int {
	return max(int(math.Ceil(d.Seconds())), 1)
}
