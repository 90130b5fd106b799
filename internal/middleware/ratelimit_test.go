package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	// Buckets are per client.
	assert.True(t, rl.Allow("b"))

	now = now.Add(time.Second)
	assert.True(t, rl.Allow("a"))
}

func TestRateLimiter_Unlimited(t *testing.T) {
	rl := NewRateLimiter(0, 0)
	for i := 0; i < 100; i++ {
		assert.True(t, rl.Allow("a"))
	}
}

func TestRateLimiter_Forget(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.Allow("a")
	now = now.Add(time.Minute)
	rl.Allow("b")
	assert.Equal(t, 1, rl.Forget(30*time.Second))
	assert.Len(t, rl.limiters, 1)
}

func TestRateLimiter_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewRateLimiter(0.001, 1)

	router := gin.New()
	router.POST("/speech", rl.Middleware(nil), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/speech", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/speech", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
