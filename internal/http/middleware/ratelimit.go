package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// sweepThreshold is the map size at which expired windows are dropped inline
const sweepThreshold = 10000

type clientInfo struct {
	start time.Time
	count int
}

// MemoryRateLimiter is a per-process fixed-window limiter keyed by client IP.
// It backs the API when Redis is not configured.
type MemoryRateLimiter struct {
	mu          sync.Mutex
	clients     map[string]*clientInfo
	maxRequests int
	window      time.Duration
	now         func() time.Time
}

// NewMemoryRateLimiter creates a limiter allowing maxRequests per window
func NewMemoryRateLimiter(maxRequests int, window time.Duration) *MemoryRateLimiter {
	return &MemoryRateLimiter{
		clients:     make(map[string]*clientInfo),
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
	}
}

// allow counts one hit for ident and reports whether it fits in the window
func (l *MemoryRateLimiter) allow(ident string) (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if len(l.clients) >= sweepThreshold {
		l.sweepLocked(now)
	}
	ci, ok := l.clients[ident]
	if !ok || now.Sub(ci.start) > l.window {
		ci = &clientInfo{start: now}
		l.clients[ident] = ci
	}
	ci.count++
	return ci.count, ci.count <= l.maxRequests
}

// Sweep drops windows that already expired
func (l *MemoryRateLimiter) Sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sweepLocked(l.now())
}

func (l *MemoryRateLimiter) sweepLocked(now time.Time) {
	for ident, ci := range l.clients {
		if now.Sub(ci.start) > l.window {
			delete(l.clients, ident)
		}
	}
}

// Handler blocks clients that send more than maxRequests per window
func (l *MemoryRateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		count, ok := l.allow(c.ClientIP())

		c.Header("X-RateLimit-Limit", strconv.Itoa(l.maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(0, l.maxRequests-count)))

		if !ok {
			RLBlocked.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": int(l.window.Seconds()),
			})
			return
		}

		RLRequests.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}
