package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisForTest(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func TestDistributedRateLimiterAllow(t *testing.T) {
	client, _ := newRedisForTest(t)
	rl := NewDistributedRateLimiter(client, &RateLimitConfig{
		RequestsPerWindow: 3,
		WindowDuration:    time.Minute,
	}, "ratelimit:test")

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		allowed, err := rl.Allow(ctx, "ip:1.2.3.4")
		require.NoError(t, err)
		assert.True(t, allowed, "request %d", i)
	}

	allowed, err := rl.Allow(ctx, "ip:1.2.3.4")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestDistributedRateLimiterWindowReset(t *testing.T) {
	client, mr := newRedisForTest(t)
	rl := NewDistributedRateLimiter(client, &RateLimitConfig{
		RequestsPerWindow: 1,
		WindowDuration:    time.Minute,
	}, "ratelimit:test")

	ctx := context.Background()
	allowed, err := rl.Allow(ctx, "ip:1.2.3.4")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = rl.Allow(ctx, "ip:1.2.3.4")
	require.NoError(t, err)
	assert.False(t, allowed)

	// Window expiry clears the counter.
	mr.FastForward(time.Minute + time.Second)

	allowed, err = rl.Allow(ctx, "ip:1.2.3.4")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestDistributedRateLimiterRemaining(t *testing.T) {
	client, _ := newRedisForTest(t)
	rl := NewDistributedRateLimiter(client, &RateLimitConfig{
		RequestsPerWindow: 5,
		WindowDuration:    time.Minute,
	}, "ratelimit:test")

	ctx := context.Background()
	remaining, err := rl.Remaining(ctx, "ip:1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, 5, remaining)

	_, err = rl.Allow(ctx, "ip:1.2.3.4")
	require.NoError(t, err)

	remaining, err = rl.Remaining(ctx, "ip:1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, 4, remaining)
}

func TestDistributedRateLimiterFailsOpen(t *testing.T) {
	client, mr := newRedisForTest(t)
	rl := NewDistributedRateLimiter(client, LoginRateLimitConfig(), "ratelimit:test")
	mr.Close()

	allowed, err := rl.Allow(context.Background(), "ip:1.2.3.4")
	assert.Error(t, err)
	assert.True(t, allowed)
}

func TestLoginRateLimitMiddleware(t *testing.T) {
	client, _ := newRedisForTest(t)
	m := NewLoginRateLimitMiddleware(client, &RateLimitConfig{
		RequestsPerWindow: 2,
		WindowDuration:    time.Minute,
	}, nil, nil)

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
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestLoginRateLimitMiddlewareFailsOpen(t *testing.T) {
	client, mr := newRedisForTest(t)
	m := NewLoginRateLimitMiddleware(client, nil, nil, nil)
	mr.Close()

	handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
