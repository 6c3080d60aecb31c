package keylock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Удаляем ключ только если он все еще принадлежит нам
var redisUnlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis распределенная блокировка (SET NX PX) для нескольких инстансов сервиса
// TTL ограничивает время жизни блокировки, если процесс упал, не отпустив ее
type Redis struct {
	rdb        *redis.Client
	prefix     string
	ttl        time.Duration
	retryEvery time.Duration
}

// NewRedis создает Locker поверх Redis
func NewRedis(rdb *redis.Client, prefix string, ttl, retryEvery time.Duration) *Redis {
	if prefix == "" {
		prefix = "lock"
	}
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	if retryEvery <= 0 {
		retryEvery = 25 * time.Millisecond
	}
	return &Redis{rdb: rdb, prefix: prefix, ttl: ttl, retryEvery: retryEvery}
}

// Lock пытается взять блокировку, пока не отменен контекст
func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	fullKey := r.key(key)
	token := uuid.NewString()

	ticker := time.NewTicker(r.retryEvery)
	defer ticker.Stop()

	for {
		ok, err := r.rdb.SetNX(ctx, fullKey, token, r.ttl).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			if ctx.Err() != nil {
				return nil, errors.Join(ErrLockTimeout, ctx.Err())
			}
			return nil, fmt.Errorf("keylock: redis SETNX %s: %w", fullKey, err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrLockTimeout, ctx.Err())
		case <-ticker.C:
		}
	}

	return func() {
		// Контекст запроса может быть уже отменен, отпускаем блокировку независимо от него
		unlockCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = redisUnlockScript.Run(unlockCtx, r.rdb, []string{fullKey}, token).Err()
	}, nil
}

func (r *Redis) key(key string) string {
	return r.prefix + ":" + key
}
