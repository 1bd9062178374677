package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAllowsWithinLimit(t *testing.T) {
	rl := NewRateLimiter(&RateLimitConfig{
		RequestsPerWindow: 5,
		WindowDuration:    time.Minute,
		BurstSize:         0,
	})

	for i := 0; i < 5; i++ {
		assert.True(t, rl.Allow("ip:1.2.3.4"), "request %d", i)
	}
	assert.False(t, rl.Allow("ip:1.2.3.4"))
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	rl := NewRateLimiter(&RateLimitConfig{
		RequestsPerWindow: 1,
		WindowDuration:    time.Minute,
	})

	assert.True(t, rl.Allow("ip:1.1.1.1"))
	assert.False(t, rl.Allow("ip:1.1.1.1"))
	assert.True(t, rl.Allow("ip:2.2.2.2"))
}

func TestRateLimiterRemaining(t *testing.T) {
	rl := NewRateLimiter(&RateLimitConfig{
		RequestsPerWindow: 3,
		WindowDuration:    time.Minute,
	})

	assert.Equal(t, 3, rl.Remaining("ip:1.2.3.4"))
	rl.Allow("ip:1.2.3.4")
	assert.Equal(t, 2, rl.Remaining("ip:1.2.3.4"))
}

func TestRateLimitMiddleware(t *testing.T) {
	m := NewRateLimitMiddleware(&RateLimitConfig{
		RequestsPerWindow: 2,
		WindowDuration:    time.Minute,
	})
	handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
		req.RemoteAddr = "1.2.3.4:5678"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	req.RemoteAddr = "1.2.3.4:5678"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	assert.Equal(t, "10.0.0.1:1234", getClientIP(req))

	req.Header.Set("X-Real-IP", "9.9.9.9")
	assert.Equal(t, "9.9.9.9", getClientIP(req))

	req.Header.Set("X-Forwarded-For", "8.8.8.8")
	assert.Equal(t, "8.8.8.8", getClientIP(req))
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(&RateLimitConfig{
		RequestsPerWindow: 1,
		WindowDuration:    time.Millisecond,
	})

	rl.Allow("ip:1.2.3.4")
	time.Sleep(5 * time.Millisecond)
	rl.Cleanup()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Empty(t, rl.buckets)
}
