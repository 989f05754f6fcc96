package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimitConfig holds the token-bucket parameters.
type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
	// CleanupInterval bounds how long idle client buckets survive.
	CleanupInterval time.Duration
}

// DefaultRateLimitConfig returns limits suited to an interactive dashboard.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 25,
		BurstSize:         50,
		CleanupInterval:   5 * time.Minute,
	}
}

type bucket struct {
	tokens   float64
	lastSeen time.Time
}

// rateLimiter is an in-memory per-client token bucket.  State is per process;
// behind multiple replicas the effective limit scales with replica count,
// which is acceptable for abuse protection.
type rateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	rate    float64
	burst   float64
	lastGC  time.Time
	gcEvery time.Duration
}

func newRateLimiter(cfg RateLimitConfig) *rateLimiter {
	return &rateLimiter{
		buckets: make(map[string]*bucket),
		rate:    cfg.RequestsPerSecond,
		burst:   float64(cfg.BurstSize),
		lastGC:  time.Now(),
		gcEvery: cfg.CleanupInterval,
	}
}

// allow consumes one token for key, reporting whether the request may proceed
// and how many whole tokens remain.
func (l *rateLimiter) allow(key string, now time.Time) (bool, int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.maybeGC(now)

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: l.burst}
		l.buckets[key] = b
	} else {
		b.tokens += now.Sub(b.lastSeen).Seconds() * l.rate
		if b.tokens > l.burst {
			b.tokens = l.burst
		}
	}
	b.lastSeen = now

	if b.tokens < 1 {
		return false, 0
	}
	b.tokens--
	return true, int(b.tokens)
}

// maybeGC drops buckets idle long enough to have refilled completely.
// Caller holds the mutex.
func (l *rateLimiter) maybeGC(now time.Time) {
	if l.gcEvery <= 0 || now.Sub(l.lastGC) < l.gcEvery {
		return
	}
	l.lastGC = now
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) > l.gcEvery {
			delete(l.buckets, key)
		}
	}
}

// RateLimit limits requests per client IP.  Exceeding the limit returns 429
// with rate-limit headers.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	limiter := newRateLimiter(cfg)
	limit := strconv.Itoa(cfg.BurstSize)
	return func(c *gin.Context) {
		ok, remaining := limiter.allow(c.ClientIP(), time.Now())
		c.Header("X-RateLimit-Limit", limit)
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !ok {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    "COMMON_007",
				"message": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}
