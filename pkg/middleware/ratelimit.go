package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

// CredentialLimiter is the contract the server expects on credential
// routes. LoginRateLimitMiddleware satisfies it when Redis is configured;
// RateLimitMiddleware is the single-instance fallback.
type CredentialLimiter interface {
	Handler(next http.Handler) http.Handler
}

// RateLimitConfig tunes a fixed-rate limiter.
type RateLimitConfig struct {
	// RequestsPerWindow is the sustained request budget per window.
	RequestsPerWindow int
	// WindowDuration is the length of the budget window.
	WindowDuration time.Duration
	// BurstSize is extra headroom above the sustained rate.
	BurstSize int
}

// DefaultRateLimitConfig covers general API traffic.
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		RequestsPerWindow: 100,
		WindowDuration:    time.Minute,
		BurstSize:         10,
	}
}

// LoginRateLimitConfig is the stricter budget for credential endpoints.
// Keyed by client IP, so a burst of failed logins from one host is
// throttled without affecting others.
func LoginRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		RequestsPerWindow: 10,
		WindowDuration:    time.Minute,
		BurstSize:         0,
	}
}

// RateLimiter is a token-bucket limiter with per-key buckets held in
// process memory. Use DistributedRateLimiter when running more than one
// instance, since each process would otherwise grant a full budget.
type RateLimiter struct {
	cfg *RateLimitConfig

	mu      sync.Mutex
	buckets map[string]*tokenBucket
}

// tokenBucket tracks fractional tokens so refill accrues continuously
// instead of in whole-token steps.
type tokenBucket struct {
	tokens    float64
	touchedAt time.Time
}

// NewRateLimiter builds a limiter; a nil config gets the defaults.
func NewRateLimiter(config *RateLimitConfig) *RateLimiter {
	if config == nil {
		config = DefaultRateLimitConfig()
	}
	return &RateLimiter{
		cfg:     config,
		buckets: make(map[string]*tokenBucket),
	}
}

func (rl *RateLimiter) capacity() float64 {
	return float64(rl.cfg.RequestsPerWindow + rl.cfg.BurstSize)
}

// refill tops up a bucket for the time elapsed since it was last touched.
// Caller holds rl.mu.
func (rl *RateLimiter) refill(b *tokenBucket, now time.Time) {
	earned := now.Sub(b.touchedAt).Seconds() * float64(rl.cfg.RequestsPerWindow) / rl.cfg.WindowDuration.Seconds()
	if b.tokens += earned; b.tokens > rl.capacity() {
		b.tokens = rl.capacity()
	}
	b.touchedAt = now
}

// Allow consumes one token for key, reporting whether the request fits
// the budget. New keys start with a full bucket.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b, ok := rl.buckets[key]
	if !ok {
		b = &tokenBucket{tokens: rl.capacity(), touchedAt: now}
		rl.buckets[key] = b
	}
	rl.refill(b, now)

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// Remaining reports the whole tokens left for key without consuming any.
func (rl *RateLimiter) Remaining(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[key]
	if !ok {
		return int(rl.capacity())
	}
	rl.refill(b, time.Now())
	return int(b.tokens)
}

// Cleanup drops buckets idle for more than two windows.
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-2 * rl.cfg.WindowDuration)
	for key, b := range rl.buckets {
		if b.touchedAt.Before(cutoff) {
			delete(rl.buckets, key)
		}
	}
}

// StartCleanup runs Cleanup once per window until ctx is cancelled.
func (rl *RateLimiter) StartCleanup(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(rl.cfg.WindowDuration)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rl.Cleanup()
			case <-ctx.Done():
				return
			}
		}
	}()
}

// RateLimitMiddleware throttles requests per client IP using the
// in-memory limiter.
type RateLimitMiddleware struct {
	limiter *RateLimiter
}

func NewRateLimitMiddleware(config *RateLimitConfig) *RateLimitMiddleware {
	return &RateLimitMiddleware{limiter: NewRateLimiter(config)}
}

// StartCleanup starts the bucket janitor for long-running processes.
func (m *RateLimitMiddleware) StartCleanup(ctx context.Context) {
	m.limiter.StartCleanup(ctx)
}

// Handler wraps next, rejecting over-budget clients with a 429 and
// advertising the budget in X-RateLimit headers.
func (m *RateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := "ip:" + getClientIP(r)

		if !m.limiter.Allow(key) {
			retryAfter := fmt.Sprintf("%.0f", m.limiter.cfg.WindowDuration.Seconds())
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", retryAfter)
			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", m.limiter.cfg.RequestsPerWindow))
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":"rate limit exceeded","retry_after":` + retryAfter + `}`))
			return
		}

		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", m.limiter.cfg.RequestsPerWindow))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", m.limiter.Remaining(key)))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", time.Now().Add(m.limiter.cfg.WindowDuration).Unix()))

		next.ServeHTTP(w, r)
	})
}

// getClientIP prefers proxy headers over the socket address. With
// X-Forwarded-For only the first (client) hop counts.
func getClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if i := strings.IndexByte(forwarded, ','); i >= 0 {
			return strings.TrimSpace(forwarded[:i])
		}
		return forwarded
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return r.RemoteAddr
}
