package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"bookmate/internal/shared/config"
	"bookmate/internal/shared/constants"
)

// Lua script for the fixed-window counter. INCR and the first-increment
// EXPIRE run as one atomic unit, so a crash between the two can never
// leave an immortal counter key behind.
var luaFixedWindow = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return count
`)

// Limiter is a per-IP fixed-window request counter backed by Redis. One
// counter covers all throttled paths for the IP; the window resets when
// the key expires.
type Limiter struct {
	redis   *redis.Client
	enabled bool
	max     int
	window  time.Duration
}

func NewLimiter(redisClient *redis.Client, cfg config.RateLimitConfig) *Limiter {
	window := cfg.Window
	if window < time.Second {
		window = time.Second
	}
	return &Limiter{
		redis:   redisClient,
		enabled: cfg.Enabled,
		max:     cfg.Max,
		window:  window,
	}
}

// Allow counts one request from ip against the current window and reports
// whether it stays within the limit. On store errors allowed is true and
// the error is returned for logging: the throttle is a guard, not a
// dependency, so an unreachable Redis must not take the read path down.
func (l *Limiter) Allow(ctx context.Context, ip string) (bool, error) {
	if !l.enabled {
		return true, nil
	}

	key := constants.BuildRateLimitKey(ip)
	count, err := luaFixedWindow.Run(ctx, l.redis, []string{key}, int(l.window.Seconds())).Int64()
	if err != nil {
		return true, fmt.Errorf("failed to count request: %w", err)
	}
	return count <= int64(l.max), nil
}

// RetryAfter is the wait a rejected client should observe before retrying.
func (l *Limiter) RetryAfter() time.Duration {
	return l.window
}

// PreloadScripts loads the counter script into the Redis script cache so
// the hot path runs EVALSHA without ever paying the EVAL fallback.
func (l *Limiter) PreloadScripts(ctx context.Context) error {
	if err := luaFixedWindow.Load(ctx, l.redis).Err(); err != nil {
		return fmt.Errorf("failed to load rate limit script: %w", err)
	}
	return nil
}
