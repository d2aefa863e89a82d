package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	batchLockKey = "lock:certificate_batch"
	batchLockTTL = 30 * time.Minute
)

// errLockLost is returned by Release when the key expired and another run
// took the lock in the meantime.
var errLockLost = errors.New("lock held by another run")

// releaseSrc deletes the lock only while it still carries the caller's token.
const releaseSrc = `if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0`

var releaseScript = redis.NewScript(releaseSrc)

// BatchLock is a single-holder lock around the certificate batch. The TTL
// frees the lock if a holder dies without releasing it.
type BatchLock struct {
	client   *redis.Client
	ttl      time.Duration
	newToken func() string
}

func NewBatchLock(client *redis.Client) *BatchLock {
	return &BatchLock{client: client, ttl: batchLockTTL, newToken: uuid.NewString}
}

// Acquire tries to take the lock. On success it returns the holder token that
// Release expects.
func (l *BatchLock) Acquire(ctx context.Context) (string, bool, error) {
	token := l.newToken()
	ok, err := l.client.SetNX(ctx, batchLockKey, token, l.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("acquire batch lock: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// Release frees the lock if token still owns it.
func (l *BatchLock) Release(ctx context.Context, token string) error {
	n, err := releaseScript.Eval(ctx, l.client, []string{batchLockKey}, token).Int64()
	if err != nil {
		return fmt.Errorf("release batch lock: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("release batch lock: %w", errLockLost)
	}
	return nil
}
