package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// unlockScript deletes the key only when it still holds the caller's token.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisLocker struct {
	client *redis.Client
	prefix string
}

func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client, prefix: "lock:"}
}

func (r *RedisLocker) Lock(ctx context.Context, key string, ttl time.Duration) (*Lease, error) {
	const op = "lock.RedisLocker.Lock"

	owner := uuid.NewString()
	lockKey := r.prefix + key
	ok, err := r.client.SetNX(ctx, lockKey, owner, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return nil, ErrLockHeld
	}

	return NewLease(key, owner, func(ctx context.Context) error {
		if err := unlockScript.Run(ctx, r.client, []string{lockKey}, owner).Err(); err != nil {
			return fmt.Errorf("lock.RedisLocker.Unlock: %w", err)
		}
		return nil
	}), nil
}
