package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-user-notification/pkg/metrics"
	"github.com/oksasatya/go-user-notification/pkg/response"
)

// ipFromCtx prefers the address resolved by RealIP.
func ipFromCtx(c *gin.Context) string {
	if ip := c.GetString(realIPKey); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}

// normalizePath returns the route template so /users/1 and /users/2 share a bucket.
func normalizePath(c *gin.Context) string {
	if fp := c.FullPath(); fp != "" {
		return fp
	}
	return c.Request.URL.Path
}

// KeyFunc maps a request to its rate-limit bucket.
type KeyFunc func(c *gin.Context) string

// KeyByIP buckets every route together per client.
func KeyByIP() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:ip:" + ipFromCtx(c)
	}
}

// KeyByIPAndPath buckets per client and route template.
func KeyByIPAndPath() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:path:" + normalizePath(c) + ":ip:" + ipFromCtx(c)
	}
}

// AllowFunc returns true for requests that skip the limiter.
type AllowFunc func(*gin.Context) bool

// fixed window: INCR, PEXPIRE on the first hit, reply {count, pttl}
var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {current, redis.call("PTTL", KEYS[1])}
`)

// window is the state of one bucket after counting the current request.
type window struct {
	count int
	reset time.Duration
}

func parseWindow(v any) (window, error) {
	vals, ok := v.([]any)
	if !ok || len(vals) != 2 {
		return window{}, fmt.Errorf("unexpected rate limit reply %v", v)
	}
	count, ok1 := vals[0].(int64)
	pttl, ok2 := vals[1].(int64)
	if !ok1 || !ok2 {
		return window{}, fmt.Errorf("unexpected rate limit reply %v", v)
	}
	w := window{count: int(count)}
	if pttl > 0 {
		w.reset = time.Duration(pttl) * time.Millisecond
	}
	return w, nil
}

// RateLimit allows max requests per window and bucket. It sets the
// X-RateLimit-* headers, answers 429 with Retry-After once the bucket is
// spent and counts rejections in m (which may be nil). OPTIONS requests and
// requests accepted by allow skip the counter. Without redis, or when redis
// errors, requests pass through.
func RateLimit(rdb *redis.Client, max int, period time.Duration, keyFn KeyFunc, allow AllowFunc, m *metrics.AppMetrics) gin.HandlerFunc {
	if rdb == nil || max <= 0 || period <= 0 || keyFn == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || (allow != nil && allow(c)) {
			c.Next()
			return
		}

		reply, err := fixedWindowScript.Run(c.Request.Context(), rdb, []string{keyFn(c)}, period.Milliseconds()).Result()
		if err != nil {
			c.Next()
			return
		}
		w, err := parseWindow(reply)
		if err != nil {
			c.Next()
			return
		}

		resetSec := int(w.reset.Round(time.Second) / time.Second)
		c.Header("X-RateLimit-Limit", strconv.Itoa(max))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining(max, w.count)))
		c.Header("X-RateLimit-Reset", strconv.Itoa(resetSec))

		if w.count > max {
			if resetSec > 0 {
				c.Header("Retry-After", strconv.Itoa(resetSec))
			}
			m.RecordRateLimitHit(normalizePath(c))
			response.Error[any](c, http.StatusTooManyRequests, "rate limit exceeded", nil)
			return
		}
		c.Next()
	}
}

func remaining(max, count int) int {
	if count >= max {
		return 0
	}
	return max - count
}
