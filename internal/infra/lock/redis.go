package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ReleaseFunc - снимает взятую блокировку
type ReleaseFunc func(ctx context.Context) error

// Снимаем ключ только если он всё ещё наш: чужой лок после истечения TTL не трогаем
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker - межпроцессная блокировка цикла загрузки через SET NX PX
type RedisLocker struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
}

func NewRedisLocker(client redis.UniversalClient, key string, ttl time.Duration) *RedisLocker {
	return &RedisLocker{client: client, key: key, ttl: ttl}
}

// TryLock - ok=false, если блокировку уже держит кто-то другой
func (l *RedisLocker) TryLock(ctx context.Context) (ReleaseFunc, bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("redis setnx %s: %w", l.key, err)
	}
	if !ok {
		return nil, false, nil
	}
	release := func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.client, []string{l.key}, token).Err(); err != nil {
			return fmt.Errorf("redis release %s: %w", l.key, err)
		}
		return nil
	}
	return release, true, nil
}

// NoopLocker - блокировка всегда свободна (Redis выключен)
type NoopLocker struct{}

func (NoopLocker) TryLock(context.Context) (ReleaseFunc, bool, error) {
	return func(context.Context) error { return nil }, true, nil
}

// NewRedisClient - клиент Redis с проверкой соединения
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}
