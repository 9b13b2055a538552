package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter counts requests per client within a fixed window. Upload
// and AI-suggestion endpoints are the expensive surfaces this protects;
// the whole window resets at once rather than sliding.
type RateLimiter struct {
	mu        sync.Mutex
	counts    map[string]int
	windowEnd time.Time
	limit     int
	window    time.Duration
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		counts:    make(map[string]int),
		windowEnd: time.Now().Add(window),
		limit:     limit,
		window:    window,
	}
}

// Allow reports whether the client may proceed and, if so, counts the
// request against its budget.
func (rl *RateLimiter) Allow(client string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if now.After(rl.windowEnd) {
		rl.counts = make(map[string]int)
		rl.windowEnd = now.Add(rl.window)
	}

	if rl.counts[client] >= rl.limit {
		return false
	}
	rl.counts[client]++
	return true
}

// RateLimit limits requests per client IP. The limit comes from server
// config so deployments fronting many reviewers can raise it.
func RateLimit(limit int, window time.Duration) gin.HandlerFunc {
	limiter := NewRateLimiter(limit, window)

	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		if !limiter.Allow(clientIP) {
			slog.Warn("rate limit exceeded",
				"client_ip", clientIP,
				"request_id", GetRequestID(c),
			)

			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Please try again later.",
			})
			return
		}

		c.Next()
	}
}
