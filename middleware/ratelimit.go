package middleware

import (
	"net/http"
	"sync"
	"time"

	"qrhub-admin/i18n"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type rateLimitEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*rateLimitEntry
	limit   rate.Limit
	burst   int
}

// NewRateLimiter creates a per-IP rate limiter.
// maxRequests is the burst size, perDuration is the window over which maxRequests are allowed.
func NewRateLimiter(maxRequests int, perDuration time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*rateLimitEntry),
		limit:   rate.Limit(float64(maxRequests) / perDuration.Seconds()),
		burst:   maxRequests,
	}

	// Start cleanup goroutine to remove stale entries every 5 minutes
	go rl.cleanup()

	return rl
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, entry := range rl.clients {
			// Remove entries that haven't been seen in 10 minutes
			if now.Sub(entry.lastSeen) > 10*time.Minute {
				delete(rl.clients, ip)
			}
		}
		rl.mu.Unlock()
	}
}

func (rl *RateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	entry, exists := rl.clients[clientIP]
	if !exists {
		entry = &rateLimitEntry{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[clientIP] = entry
	}
	entry.lastSeen = time.Now()
	rl.mu.Unlock()

	return entry.limiter.Allow()
}

// Middleware returns a gin middleware that rate limits requests.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		if !rl.allow(clientIP) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": i18n.T(Locale(c), i18n.MsgRateLimited)})
			c.Abort()
			return
		}
		c.Next()
	}
}
