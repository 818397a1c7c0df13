package ratelimit

import (
	"context"
	"time"

	"gatekeeper/internal/domain/service"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "rl:auth:"

// Atomic INCR that starts the window on the first hit, returning the count and remaining TTL in ms.
var incrExpireScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {current, redis.call("PTTL", KEYS[1])}
`)

type redisThrottle struct {
	client redis.Scripter
	max    int
	window time.Duration
}

// NewRedisThrottle counts attempts in a fixed window shared by every instance.
func NewRedisThrottle(client redis.Scripter, maxAttempts int, window time.Duration) service.AttemptThrottle {
	return &redisThrottle{client: client, max: maxAttempts, window: window}
}

func (t *redisThrottle) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	res, err := incrExpireScript.Run(ctx, t.client, []string{keyPrefix + key}, t.window.Milliseconds()).Int64Slice()
	if err != nil {
		return true, 0, errors.Wrap(err, "rate limit script")
	}
	if len(res) != 2 {
		return true, 0, errors.Errorf("rate limit script returned %d values", len(res))
	}

	count, ttlMs := res[0], res[1]
	if count <= int64(t.max) {
		return true, 0, nil
	}

	retryAfter := time.Duration(ttlMs) * time.Millisecond
	if retryAfter <= 0 {
		retryAfter = t.window
	}

	return false, retryAfter, nil
}
