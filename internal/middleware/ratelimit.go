package middleware

import (
	"sync"
	"time"

	"github.com/yourusername/httpcore/internal/http1"
	"github.com/yourusername/httpcore/internal/router"
)

// RateLimitConfig configures the token-bucket limiter.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
	KeyFunc           func(*http1.Request) string
	CleanupInterval   time.Duration
	MaxAge            time.Duration
}

// DefaultRateLimitConfig mirrors the corpus's common 100rps/burst-20
// defaults, keyed by the X-Forwarded-For / X-Real-IP headers.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 100,
		Burst:             20,
		KeyFunc:           defaultRateLimitKey,
		CleanupInterval:   time.Minute,
		MaxAge:            5 * time.Minute,
	}
}

func defaultRateLimitKey(req *http1.Request) string {
	if ip, ok := req.Header.At("x-forwarded-for"); ok && ip != "" {
		return ip
	}
	if ip, ok := req.Header.At("x-real-ip"); ok && ip != "" {
		return ip
	}
	return "default"
}

// tokenBucket is a single key's rate limiter state.
type tokenBucket struct {
	mu         sync.Mutex
	tokens     float64
	maxTokens  float64
	refillRate float64
	lastRefill time.Time
	lastAccess time.Time
}

func newTokenBucket(rate float64, burst int) *tokenBucket {
	now := time.Now()
	return &tokenBucket{
		tokens:     float64(burst),
		maxTokens:  float64(burst),
		refillRate: rate,
		lastRefill: now,
		lastAccess: now,
	}
}

func (tb *tokenBucket) allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(tb.lastRefill).Seconds()
	tb.tokens += elapsed * tb.refillRate
	if tb.tokens > tb.maxTokens {
		tb.tokens = tb.maxTokens
	}
	tb.lastRefill = now
	tb.lastAccess = now

	if tb.tokens >= 1.0 {
		tb.tokens -= 1.0
		return true
	}
	return false
}

// RateLimit returns a HEADER-phase middleware applying a per-key
// token bucket. Exceeding the limit sets a 429 response and halts
// the chain; the session stops further phases.
func RateLimit(config RateLimitConfig) router.MiddlewareFunc {
	if config.RequestsPerSecond == 0 {
		config.RequestsPerSecond = 100
	}
	if config.Burst == 0 {
		config.Burst = 20
	}
	if config.KeyFunc == nil {
		config.KeyFunc = defaultRateLimitKey
	}
	if config.CleanupInterval == 0 {
		config.CleanupInterval = time.Minute
	}
	if config.MaxAge == 0 {
		config.MaxAge = 5 * time.Minute
	}

	var buckets sync.Map // string -> *tokenBucket

	go func() {
		ticker := time.NewTicker(config.CleanupInterval)
		defer ticker.Stop()
		for range ticker.C {
			now := time.Now()
			buckets.Range(func(key, value any) bool {
				tb := value.(*tokenBucket)
				tb.mu.Lock()
				age := now.Sub(tb.lastAccess)
				tb.mu.Unlock()
				if age > config.MaxAge {
					buckets.Delete(key)
				}
				return true
			})
		}
	}()

	return func(req *http1.Request, resp *http1.Response) bool {
		key := config.KeyFunc(req)

		v, ok := buckets.Load(key)
		if !ok {
			v, _ = buckets.LoadOrStore(key, newTokenBucket(config.RequestsPerSecond, config.Burst))
		}
		tb := v.(*tokenBucket)

		if tb.allow() {
			return true
		}
		resp.Status = 429
		resp.Header.Add("Retry-After", "1")
		resp.Body = append(resp.Body[:0], []byte(`{"error":"rate limit exceeded"}`)...)
		resp.Header.Add("Content-Type", "application/json")
		return false
	}
}
