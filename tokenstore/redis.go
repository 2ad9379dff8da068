package tokenstore

import (
	"context"

	redisdb "github.com/octabyte/medtrack-gommon/db/redis"
	"github.com/redis/go-redis/v9"
)

// RedisStorage keeps a profile under "medtrack:<profile>:<key>". It suits
// shared intake kiosks where several terminals act for the same profile.
type RedisStorage struct {
	client redis.Cmdable
	prefix string
}

func NewRedisStorage(client redis.Cmdable, profile string) *RedisStorage {
	return &RedisStorage{client: client, prefix: "medtrack:" + profile + ":"}
}

func (r *RedisStorage) Get(ctx context.Context, key string) (string, bool, error) {
	return redisdb.Get(ctx, r.client, r.prefix+key)
}

func (r *RedisStorage) Set(ctx context.Context, key, value string) error {
	return redisdb.Set(ctx, r.client, r.prefix+key, value, 0)
}

func (r *RedisStorage) Delete(ctx context.Context, key string) error {
	return redisdb.Del(ctx, r.client, r.prefix+key)
}
