package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

const (
	maxTrackedVisitors = 10000
	visitorTTL         = 10 * time.Minute
)

// RateLimiter keeps one token bucket per client IP. Idle visitors expire.
type RateLimiter struct {
	visitors *expirable.LRU[string, *rate.Limiter]
	limit    rate.Limit
	burst    int
}

// NewRateLimiter allows perMinute requests per IP with a burst of a tenth of
// that. A non-positive perMinute disables limiting.
func NewRateLimiter(perMinute int) *RateLimiter {
	rl := &RateLimiter{
		visitors: expirable.NewLRU[string, *rate.Limiter](maxTrackedVisitors, nil, visitorTTL),
		limit:    rate.Inf,
		burst:    1,
	}
	if perMinute > 0 {
		rl.limit = rate.Limit(float64(perMinute) / 60)
		rl.burst = max(1, perMinute/10)
	}
	return rl
}

func (rl *RateLimiter) getLimiter(ip string) *rate.Limiter {
	if l, ok := rl.visitors.Get(ip); ok {
		return l
	}
	l := rate.NewLimiter(rl.limit, rl.burst)
	rl.visitors.Add(ip, l)
	return l
}

// Limit rejects requests over the per-IP budget with 429.
func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.limit != rate.Inf && !rl.getLimiter(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":      "too many requests",
				"code":       "rate_limited",
				"request_id": GetRequestID(c),
			})
			return
		}
		c.Next()
	}
}
