package redis

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrNotAcquired = errors.New("redislock: lock not acquired")

// unlockScript releases only if the holder token still matches, so an
// expired lock taken over by another process is never released by the
// original holder.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker is the multi-process Locker backed by SET NX PX. The TTL bounds
// how long a crashed holder can block a listing; retries poll until the
// caller's context expires.
type Locker struct {
	Client     *redis.Client
	TTL        time.Duration
	RetryEvery time.Duration
}

func New(client *redis.Client, ttl time.Duration) *Locker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Locker{Client: client, TTL: ttl, RetryEvery: 50 * time.Millisecond}
}

func (l *Locker) Acquire(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	lockKey := "lock:listing:" + key
	for {
		ok, err := l.Client.SetNX(ctx, lockKey, token, l.TTL).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			release := func() {
				releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = unlockScript.Run(releaseCtx, l.Client, []string{lockKey}, token).Err()
			}
			return release, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retryEvery()):
		}
	}
}

func (l *Locker) retryEvery() time.Duration {
	if l.RetryEvery > 0 {
		return l.RetryEvery
	}
	return 50 * time.Millisecond
}
