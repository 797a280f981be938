// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements the per-caller token-bucket rate limiter that sits in
// front of the API. The quote endpoint is open (no account needed to price a
// cleaning), which makes it the obvious target for scripted abuse, so every
// route is limited per identity: per user when one is authenticated, per
// client IP otherwise.
//
// The limiter is process-local and in-memory, which matches a single-instance
// deployment. A horizontally scaled setup would need a shared store to
// enforce a global limit. Idempotent replays (detected by
// IdempotencyValidator) bypass the limiter entirely so a retried invoice
// request is never pushed into a 429 loop.
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// keyFunc maps a request to the identity that owns its token bucket. The
// returned string must be stable for the duration of the request, e.g.
// "user:<id>" or "ip:<addr>".
type keyFunc func(*gin.Context) string

// KeyByUserOrIP returns a keyFunc that prefers the authenticated user (the
// "userID" Gin context key, set by auth middleware) and falls back to the
// client IP. Keys are prefixed so the user and IP namespaces cannot collide.
func KeyByUserOrIP() keyFunc {
	return func(c *gin.Context) string {
		if v, ok := c.Get("userID"); ok {
			if s, ok := v.(string); ok && s != "" {
				return "user:" + s
			}
		}
		return "ip:" + c.ClientIP()
	}
}

// bucket pairs a limiter with the last time its owner was seen, so idle
// entries can be swept.
type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// RateLimiter enforces a token-bucket limit per identity key.
//
// Buckets are created on demand in a mutex-guarded map and idle entries are
// evicted opportunistically during lookups, keeping memory bounded without a
// background goroutine. Safe for concurrent use.
type RateLimiter struct {
	rps     rate.Limit
	burst   int
	keyFn   keyFunc
	mu      sync.Mutex
	buckets map[string]*bucket

	idleTTL time.Duration
	sweepN  uint64
}

// NewRateLimiter constructs a RateLimiter replenishing rps tokens per second
// with the given burst, keyed by keyFn. A burst <= 0 is coerced to 1 (rps of
// 0 would otherwise admit nothing, ever). Install it with Handler().
func NewRateLimiter(rps float64, burst int, keyFn keyFunc) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		rps:     rate.Limit(rps),
		burst:   burst,
		keyFn:   keyFn,
		buckets: make(map[string]*bucket),
		idleTTL: 10 * time.Minute,
	}
}

// bucketFor returns the limiter for key, creating it if absent, and refreshes
// its last-seen time. Every ~5000 lookups it sweeps entries idle past the
// TTL. The sweep runs before the requested key is touched, so a stale bucket
// is evicted even when it is the one being fetched.
func (rl *RateLimiter) bucketFor(key string) *rate.Limiter {
	now := time.Now()

	rl.mu.Lock()
	rl.sweepN++
	if rl.sweepN >= 5000 {
		for k, b := range rl.buckets {
			if now.Sub(b.seen) >= rl.idleTTL {
				delete(rl.buckets, k)
			}
		}
		rl.sweepN = 0
	}

	if b, ok := rl.buckets[key]; ok {
		b.seen = now
		lim := b.lim
		rl.mu.Unlock()
		return lim
	}

	lim := rate.NewLimiter(rl.rps, rl.burst)
	rl.buckets[key] = &bucket{lim: lim, seen: now}
	rl.mu.Unlock()
	return lim
}

// IsRateBypass reports whether IdempotencyValidator flagged this request as a
// replay of an already-completed one. Handler skips limiting for replays so
// they are served without consuming tokens.
func IsRateBypass(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyRateBypass) // set by IdempotencyValidator
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// Handler returns the Gin middleware enforcing the limit.
//
// Replays (IsRateBypass) pass through untouched. Everything else draws a
// token from its key's bucket; an empty bucket yields
//
//	HTTP/1.1 429 Too Many Requests
//	{"request_id": "...", "code": "rate_limited", "message": "rate limit exceeded"}
//
// with Retry-After: 1, which is honest enough for a token bucket refilling
// continuously.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsRateBypass(c) {
			c.Next()
			return
		}

		if rl.bucketFor(rl.keyFn(c)).Allow() {
			c.Next()
			return
		}

		c.Header("Retry-After", "1")
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"request_id": c.Writer.Header().Get("X-Request-ID"),
			"code":       "rate_limited",
			"message":    "rate limit exceeded",
		})
	}
}
