// internal/middleware/rate_limit.go
package middleware

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/javajoker/imob-backoffice/internal/config"
	"github.com/javajoker/imob-backoffice/internal/utils"
)

const (
	visitorTTL     = 3 * time.Minute
	sweepInterval  = time.Minute
	redisKeyPrefix = "imob:ratelimit"
	redisBucketTTL = 10 * time.Minute
)

// Limiter decides whether one more request for key may proceed. retryAfter
// is only meaningful when allowed is false.
type Limiter interface {
	Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error)
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is the in-process limiter. Idle visitors are swept while
// handling requests, so it starts no goroutine.
type RateLimiter struct {
	visitors  map[string]*visitor
	mtx       sync.Mutex
	rate      rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

func NewRateLimiter(r rate.Limit, b int) *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     r,
		burst:    b,
		now:      time.Now,
	}
}

func (rl *RateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < sweepInterval {
		return
	}
	rl.lastSweep = now
	for key, v := range rl.visitors {
		if now.Sub(v.lastSeen) > visitorTTL {
			delete(rl.visitors, key)
		}
	}
}

func (rl *RateLimiter) getVisitor(key string) *rate.Limiter {
	rl.mtx.Lock()
	defer rl.mtx.Unlock()

	now := rl.now()
	rl.sweep(now)

	v, exists := rl.visitors[key]
	if !exists {
		limiter := rate.NewLimiter(rl.rate, rl.burst)
		rl.visitors[key] = &visitor{limiter, now}
		return limiter
	}

	v.lastSeen = now
	return v.limiter
}

func (rl *RateLimiter) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	limiter := rl.getVisitor(key)
	if limiter.Allow() {
		return true, 0, nil
	}
	return false, time.Duration(float64(time.Second) / float64(rl.rate)), nil
}

func (rl *RateLimiter) size() int {
	rl.mtx.Lock()
	defer rl.mtx.Unlock()
	return len(rl.visitors)
}

var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local now_ms = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local interval_ms = tonumber(ARGV[3])
	local ttl_seconds = tonumber(ARGV[4])

	local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
	local tokens = tonumber(state[1])
	local last_refill = tonumber(state[2])

	if tokens == nil or last_refill == nil then
		tokens = capacity
		last_refill = now_ms
	end

	if interval_ms > 0 then
		local elapsed = math.max(0, now_ms - last_refill)
		local intervals = math.floor(elapsed / interval_ms)
		if intervals > 0 then
			tokens = math.min(capacity, tokens + intervals)
			last_refill = last_refill + (intervals * interval_ms)
		end
	end

	local allowed = 0
	local retry_after_ms = 0
	if tokens > 0 then
		allowed = 1
		tokens = tokens - 1
	else
		retry_after_ms = math.max(0, interval_ms - (now_ms - last_refill))
	end

	redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
	redis.call('EXPIRE', key, ttl_seconds)

	return { allowed, retry_after_ms }
`)

// RedisLimiter is a token bucket shared by every instance behind the same
// Redis. One token is added per interval up to capacity.
type RedisLimiter struct {
	rdb      *redis.Client
	capacity int
	interval time.Duration
	now      func() time.Time
}

func NewRedisLimiter(rdb *redis.Client, capacity int, interval time.Duration) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, capacity: capacity, interval: interval, now: time.Now}
}

func (rl *RedisLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	vals, err := tokenBucketScript.Run(ctx, rl.rdb, []string{redisKeyPrefix + ":" + key},
		rl.now().UnixMilli(),
		rl.capacity,
		rl.interval.Milliseconds(),
		int64(redisBucketTTL/time.Second),
	).Int64Slice()
	if err != nil {
		return false, 0, err
	}
	if len(vals) != 2 {
		return false, 0, fmt.Errorf("unexpected rate limit script result %v", vals)
	}
	return vals[0] == 1, time.Duration(vals[1]) * time.Millisecond, nil
}

// NewLimiter builds the limiter described by cfg: Redis backed when a client
// is given, in-process otherwise. Requests per Per become a steady rate with
// Burst headroom.
func NewLimiter(cfg config.RateLimitConfig, rdb *redis.Client) Limiter {
	per := cfg.Per
	if per <= 0 {
		per = time.Second
	}
	requests := cfg.Requests
	if requests <= 0 {
		requests = 1
	}
	interval := per / time.Duration(requests)

	if rdb != nil {
		return NewRedisLimiter(rdb, cfg.Burst, interval)
	}
	return NewRateLimiter(rate.Every(interval), cfg.Burst)
}

// RateLimit rejects with 429 when the client's bucket is empty. Limiter
// errors are logged and the request goes through.
func RateLimit(limiter Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, retryAfter, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			logrus.WithError(err).Warn("Rate limiter unavailable")
			c.Next()
			return
		}

		if !allowed {
			secs := int(math.Ceil(retryAfter.Seconds()))
			if secs < 1 {
				secs = 1
			}
			c.Header("Retry-After", strconv.Itoa(secs))
			utils.TooManyRequestsResponse(c)
			return
		}

		c.Next()
	}
}
