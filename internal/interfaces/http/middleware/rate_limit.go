// internal/interfaces/http/middleware/rate_limit.go
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/hustelwithrohit-pixel/retail-management-system/internal/config"
)

const (
	rateWindow       = time.Minute
	visitorIdleLimit = 10 * time.Minute
)

// RateLimit limits requests per client IP. With a Redis client the limit
// is a fixed one-minute window shared by every instance; otherwise, or
// while Redis is unreachable, each instance keeps a token bucket per IP.
func RateLimit(cfg *config.Config, redisClient *redis.Client) gin.HandlerFunc {
	perMinute := cfg.Security.RateLimitPerMinute
	if perMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	local := newVisitorLimiter(perMinute, cfg.Security.RateLimitBurst)

	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		var (
			allowed   bool
			remaining int
			err       error
		)
		if redisClient != nil {
			allowed, remaining, err = redisWindow(c.Request.Context(), redisClient, clientIP, perMinute)
			if err != nil {
				logrus.WithError(err).Debug("redis rate limit unavailable, using local limiter")
			}
		}
		if redisClient == nil || err != nil {
			allowed, remaining = local.allow(clientIP)
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(perMinute))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(rateWindow.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": int(rateWindow.Seconds()),
			})
			return
		}

		c.Next()
	}
}

func redisWindow(ctx context.Context, rdb *redis.Client, clientIP string, limit int) (bool, int, error) {
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	window := time.Now().Unix() / int64(rateWindow.Seconds())
	key := fmt.Sprintf("rate_limit:%s:%d", clientIP, window)

	var incr *redis.IntCmd
	_, err := rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, rateWindow)
		return nil
	})
	if err != nil {
		return false, 0, err
	}

	count := int(incr.Val())
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	return count <= limit, remaining, nil
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type visitorLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	lastSweep time.Time
}

func newVisitorLimiter(perMinute, burst int) *visitorLimiter {
	if burst <= 0 {
		burst = perMinute
	}
	return &visitorLimiter{
		visitors:  make(map[string]*visitor),
		limit:     rate.Limit(float64(perMinute) / rateWindow.Seconds()),
		burst:     burst,
		lastSweep: time.Now(),
	}
}

func (v *visitorLimiter) allow(key string) (bool, int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	now := time.Now()
	if now.Sub(v.lastSweep) > visitorIdleLimit {
		for k, vis := range v.visitors {
			if now.Sub(vis.lastSeen) > visitorIdleLimit {
				delete(v.visitors, k)
			}
		}
		v.lastSweep = now
	}

	vis, ok := v.visitors[key]
	if !ok {
		vis = &visitor{limiter: rate.NewLimiter(v.limit, v.burst)}
		v.visitors[key] = vis
	}
	vis.lastSeen = now

	allowed := vis.limiter.AllowN(now, 1)
	remaining := int(vis.limiter.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	return allowed, remaining
}
