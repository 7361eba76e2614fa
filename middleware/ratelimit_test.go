package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newLimitedRouter(rl *RateLimiter) *gin.Engine {
	router := gin.New()
	router.Use(rl.Middleware())
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	return router
}

func get(router *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = remoteAddr
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiterAllowsWithinBurst(t *testing.T) {
	router := newLimitedRouter(NewRateLimiter(1, 3))

	for i := 0; i < 3; i++ {
		w := get(router, "10.0.0.1:5000")
		require.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimiterRejectsOverBurst(t *testing.T) {
	router := newLimitedRouter(NewRateLimiter(0.001, 2))

	get(router, "10.0.0.1:5000")
	get(router, "10.0.0.1:5000")
	w := get(router, "10.0.0.1:5000")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRateLimiterIsolatesClients(t *testing.T) {
	router := newLimitedRouter(NewRateLimiter(0.001, 1))

	require.Equal(t, http.StatusOK, get(router, "10.0.0.1:5000").Code)
	require.Equal(t, http.StatusTooManyRequests, get(router, "10.0.0.1:5000").Code)

	assert.Equal(t, http.StatusOK, get(router, "10.0.0.2:5000").Code,
		"one noisy client must not starve another")
}

func TestRateLimiterRefills(t *testing.T) {
	router := newLimitedRouter(NewRateLimiter(50, 1))

	require.Equal(t, http.StatusOK, get(router, "10.0.0.1:5000").Code)
	require.Equal(t, http.StatusTooManyRequests, get(router, "10.0.0.1:5000").Code)

	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, http.StatusOK, get(router, "10.0.0.1:5000").Code)
}

func TestEvictStaleDropsIdleClients(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	rl.allow("10.0.0.1")
	rl.allow("10.0.0.2")

	rl.mu.Lock()
	rl.clients["10.0.0.1"].lastSeen = time.Now().Add(-2 * clientIdleTTL)
	rl.evictStale(time.Now())
	remaining := len(rl.clients)
	rl.mu.Unlock()

	assert.Equal(t, 1, remaining)
}
