package service

import (
	"context"
	"time"
)

// AttemptThrottle counts attempts per key inside a fixed window.
type AttemptThrottle interface {
	// Allow records one attempt for key. When the budget is exhausted it returns
	// false together with the time left until the window resets.
	Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error)
}
