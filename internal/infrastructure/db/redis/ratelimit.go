package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Scopes understood by the rate limiter.
const (
	ScopeEventList    = "event_list"
	ScopeRegistration = "registration"
)

// RateLimiter is a fixed-window request counter.
// Key format: ratelimit:<scope>:<key>:<window_index>
type RateLimiter struct {
	client *redis.Client
	window time.Duration
	limits map[string]int64
	now    func() time.Time
}

// NewRateLimiter creates a limiter allowing limits[scope] requests per window.
// Scopes without a positive limit are not limited.
func NewRateLimiter(client *redis.Client, window time.Duration, limits map[string]int64) *RateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{client: client, window: window, limits: limits, now: time.Now}
}

// Allow counts one request for key in scope and reports whether it fits the
// current window.
func (r *RateLimiter) Allow(ctx context.Context, scope, key string) (bool, error) {
	limit := r.limits[scope]
	if limit <= 0 {
		return true, nil
	}

	k := r.key(scope, key)
	count, err := r.client.Incr(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}
	if count == 1 {
		if err := r.client.Expire(ctx, k, r.window).Err(); err != nil {
			return false, fmt.Errorf("rate limit expire: %w", err)
		}
	}
	return count <= limit, nil
}

func (r *RateLimiter) key(scope, key string) string {
	idx := r.now().UnixNano() / int64(r.window)
	return fmt.Sprintf("ratelimit:%s:%s:%d", scope, key, idx)
}
