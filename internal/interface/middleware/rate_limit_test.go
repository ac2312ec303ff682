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

	"github.com/oksasatya/taskboard/internal/testutil"
)

func limitedEngine(rl *RateLimiter, max int, allow AllowFunc) *gin.Engine {
	r := newEngine()
	r.Use(RealIP(true))
	r.GET("/login", rl.Limit(max, time.Minute, KeyByIPAndPath(), allow), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func hit(r *gin.Engine, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.Header.Set("X-Forwarded-For", ip)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimit_FixedWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	r := limitedEngine(NewRateLimiter(rdb, true, testutil.Logger()), 2, nil)

	for i := 0; i < 2; i++ {
		w := hit(r, "203.0.113.7")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}

	w := hit(r, "203.0.113.7")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Equal(t, MsgTooManyRequests, decode(t, w).Message)

	assert.Equal(t, http.StatusOK, hit(r, "203.0.113.8").Code, "other clients are unaffected")

	mr.FastForward(time.Minute)
	assert.Equal(t, http.StatusOK, hit(r, "203.0.113.7").Code, "window resets")
}

func TestRateLimit_AllowPrivateIP(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	r := limitedEngine(NewRateLimiter(rdb, true, nil), 1, AllowPrivateIP())
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(r, "10.1.2.3").Code)
	}
	assert.Equal(t, http.StatusOK, hit(r, "198.51.100.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "198.51.100.1").Code)
}

func TestRateLimit_FailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	r := limitedEngine(NewRateLimiter(rdb, true, testutil.Logger()), 1, nil)

	mr.Close()
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(r, "203.0.113.7").Code)
	}
}

func TestRateLimit_DisabledOrNil(t *testing.T) {
	for name, rl := range map[string]*RateLimiter{
		"nil limiter": nil,
		"nil client":  NewRateLimiter(nil, true, nil),
		"disabled":    NewRateLimiter(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}), false, nil),
	} {
		t.Run(name, func(t *testing.T) {
			r := limitedEngine(rl, 1, nil)
			for i := 0; i < 3; i++ {
				assert.Equal(t, http.StatusOK, hit(r, "203.0.113.7").Code)
			}
		})
	}
}
