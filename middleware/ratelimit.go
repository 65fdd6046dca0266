package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per caller. Authenticated requests are
// keyed by user id, everything else by client IP.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
	message  string
}

// NewRateLimiter allows roughly limit requests per window per caller, with
// bursts up to the full window allowance.
func NewRateLimiter(limit int, window time.Duration, message string) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Every(window / time.Duration(limit)),
		burst:    limit,
		message:  message,
	}
}

func (r *RateLimiter) limiter(key string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()
	lim, ok := r.limiters[key]
	if !ok {
		lim = rate.NewLimiter(r.limit, r.burst)
		r.limiters[key] = lim
	}
	return lim
}

// Handle is the gin middleware for this limiter tier
func (r *RateLimiter) Handle(c *gin.Context) {
	key := c.ClientIP()
	if userID, ok := UserID(c); ok {
		key = userID.String()
	}
	if !r.limiter(key).Allow() {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": r.message})
		return
	}
	c.Next()
}
