package middleware

import (
	"net/http"
	"sync"
	"time"

	"reportly/config"

	"github.com/gin-gonic/gin"
)

// RateLimiter sheds abusive clients at the API front door. Generation calls
// hold a connection for minutes, so the cap applies before any handler runs.
// Sliding window over request timestamps, keyed by client IP.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string][]time.Time
	limit   int
	window  time.Duration
}

func NewRateLimiter(cfg *config.ServerConfig) *RateLimiter {
	limit := cfg.RateLimit
	if limit <= 0 {
		limit = 100
	}
	window := cfg.RateWindow
	if window <= 0 {
		window = time.Minute
	}
	rl := &RateLimiter{
		clients: make(map[string][]time.Time),
		limit:   limit,
		window:  window,
	}
	go rl.sweep()
	return rl
}

// Allow records a request for key and reports whether it is within the limit.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := time.Now()
	cutoff := now.Add(-rl.window)

	recent := rl.clients[key][:0]
	for _, ts := range rl.clients[key] {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}
	if len(recent) >= rl.limit {
		rl.clients[key] = recent
		return false
	}
	rl.clients[key] = append(recent, now)
	return true
}

// sweep drops idle clients so the map does not grow without bound.
func (rl *RateLimiter) sweep() {
	tick := time.NewTicker(time.Minute)
	for range tick.C {
		rl.mu.Lock()
		cutoff := time.Now().Add(-rl.window)
		for key, times := range rl.clients {
			if len(times) == 0 || !times[len(times)-1].After(cutoff) {
				delete(rl.clients, key)
			}
		}
		rl.mu.Unlock()
	}
}

// RateLimit rejects requests over the per-IP limit with 429.
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
