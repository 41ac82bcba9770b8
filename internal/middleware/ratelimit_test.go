package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VyankateshKedar/sparkAppBackend/internal/config"
)

func rateLimitRouter(t *testing.T, requests int, duration time.Duration) (*gin.Engine, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	limiter := NewRateLimiter(client, &config.RateLimitConfig{
		Requests: requests,
		Duration: duration,
	})

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ping", limiter.Middleware(), func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	return r, mr
}

func doPing(r *gin.Engine, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = ip + ":12345"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiterAllowsUnderLimit(t *testing.T) {
	r, _ := rateLimitRouter(t, 3, time.Minute)

	for i := 0; i < 3; i++ {
		w := doPing(r, "203.0.113.9")
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doPing(r, "203.0.113.9")
	assert.Equal(t, "3", w.Header().Get("X-RateLimit-Limit"))
}

func TestRateLimiterBlocksOverLimit(t *testing.T) {
	r, _ := rateLimitRouter(t, 2, time.Minute)

	require.Equal(t, http.StatusOK, doPing(r, "203.0.113.9").Code)
	require.Equal(t, http.StatusOK, doPing(r, "203.0.113.9").Code)

	w := doPing(r, "203.0.113.9")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "rate_limited")
}

func TestRateLimiterIsPerIP(t *testing.T) {
	r, _ := rateLimitRouter(t, 1, time.Minute)

	require.Equal(t, http.StatusOK, doPing(r, "203.0.113.9").Code)
	require.Equal(t, http.StatusTooManyRequests, doPing(r, "203.0.113.9").Code)

	assert.Equal(t, http.StatusOK, doPing(r, "203.0.113.10").Code)
}

func TestRateLimiterWindowSlides(t *testing.T) {
	r, mr := rateLimitRouter(t, 1, time.Minute)

	require.Equal(t, http.StatusOK, doPing(r, "203.0.113.9").Code)
	require.Equal(t, http.StatusTooManyRequests, doPing(r, "203.0.113.9").Code)

	// Past the window the key has expired and the visitor starts fresh.
	mr.FastForward(2 * time.Minute)

	assert.Equal(t, http.StatusOK, doPing(r, "203.0.113.9").Code)
}

func TestRateLimiterFailsOpenOnRedisOutage(t *testing.T) {
	r, mr := rateLimitRouter(t, 1, time.Minute)
	mr.Close()

	assert.Equal(t, http.StatusOK, doPing(r, "203.0.113.9").Code)
	assert.Equal(t, http.StatusOK, doPing(r, "203.0.113.9").Code)
}
