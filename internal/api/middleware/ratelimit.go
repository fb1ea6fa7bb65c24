package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/nexconsult/soc-api/internal/config"
	"github.com/nexconsult/soc-api/internal/models"
)

// RateLimiter implements per-client rate limiting using a token bucket
type RateLimiter struct {
	config   config.RateLimitConfig
	mu       sync.Mutex
	clients  map[string]*client
	interval rate.Limit
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a new rate limiter. Idle clients are evicted until
// ctx is done.
func NewRateLimiter(ctx context.Context, cfg config.RateLimitConfig) *RateLimiter {
	rl := &RateLimiter{
		config:   cfg,
		clients:  make(map[string]*client),
		interval: rate.Limit(float64(cfg.RequestsPerMinute) / 60.0),
	}

	if cfg.CleanupInterval > 0 {
		go rl.cleanupClients(ctx)
	}

	return rl
}

// Middleware returns the rate limiting middleware
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.config.RequestsPerMinute <= 0 {
			c.Next()
			return
		}

		limiter := rl.getLimiter(c.ClientIP())
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.RequestsPerMinute))

		if !limiter.Allow() {
			retryAfter := rl.retryAfter(limiter)
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", fmt.Sprintf("%.0f", retryAfter.Seconds()))

			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.NewErrorResponse(
				models.ErrorCodeRateLimit,
				"Rate limit exceeded",
				fmt.Sprintf("Too many requests. Try again in %v", retryAfter),
				c.Request.URL.Path,
			))
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(int(limiter.Tokens())))
		c.Next()
	}
}

func (rl *RateLimiter) getLimiter(clientID string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cl, ok := rl.clients[clientID]
	if !ok {
		burst := rl.config.BurstSize
		if burst <= 0 {
			burst = 1
		}
		cl = &client{limiter: rate.NewLimiter(rl.interval, burst)}
		rl.clients[clientID] = cl
	}
	cl.lastSeen = time.Now()
	return cl.limiter
}

// retryAfter is the wait until the next token, rounded up to a second
func (rl *RateLimiter) retryAfter(limiter *rate.Limiter) time.Duration {
	r := limiter.Reserve()
	if !r.OK() {
		return time.Minute
	}
	wait := r.Delay()
	r.Cancel()
	return wait.Truncate(time.Second) + time.Second
}

func (rl *RateLimiter) cleanupClients(ctx context.Context) {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			cutoff := now.Add(-2 * rl.config.CleanupInterval)
			rl.mu.Lock()
			for id, cl := range rl.clients {
				if cl.lastSeen.Before(cutoff) {
					delete(rl.clients, id)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// GetStats returns rate limiter statistics
func (rl *RateLimiter) GetStats() map[string]interface{} {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	return map[string]interface{}{
		"active_clients":      len(rl.clients),
		"requests_per_minute": rl.config.RequestsPerMinute,
		"burst_size":          rl.config.BurstSize,
		"cleanup_interval":    rl.config.CleanupInterval.String(),
	}
}
