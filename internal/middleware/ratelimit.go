package middleware

import (
	"sync"
	"time"

	"studyapp/internal/observability"
	contextutils "studyapp/internal/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	limit rate.Limit
	burst int
	now   func() time.Time

	mu       sync.Mutex
	limiters map[string]*clientLimiter
}

// NewRateLimiter allows perSecond requests per client with the given burst.
// A non-positive perSecond disables limiting.
func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limit:    limit,
		burst:    burst,
		now:      time.Now,
		limiters: make(map[string]*clientLimiter),
	}
}

// Allow reports whether client may proceed now.
func (rl *RateLimiter) Allow(client string) bool {
	rl.mu.Lock()
	cl, exists := rl.limiters[client]
	if !exists {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[client] = cl
	}
	now := rl.now()
	cl.lastSeen = now
	rl.mu.Unlock()
	return cl.limiter.AllowN(now, 1)
}

// Forget drops the buckets of clients idle for longer than idle.
func (rl *RateLimiter) Forget(idle time.Duration) int {
	cutoff := rl.now().Add(-idle)
	rl.mu.Lock()
	defer rl.mu.Unlock()
	n := 0
	for client, cl := range rl.limiters {
		if cl.lastSeen.Before(cutoff) {
			delete(rl.limiters, client)
			n++
		}
	}
	return n
}

// Middleware answers 429 once the client's bucket is empty.
func (rl *RateLimiter) Middleware(logger *observability.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = observability.NewNopLogger()
	}
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		if !rl.Allow(clientIP) {
			logger.Debug(c.Request.Context(), "Limiting client with status 429", map[string]interface{}{"client_ip": clientIP})
			HandleAppError(c, contextutils.WrapError(contextutils.ErrRateLimit, "too many speech requests"))
			c.Abort()
			return
		}
		c.Next()
	}
}
