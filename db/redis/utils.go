package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Set sets a key-value pair in Redis. A zero ttl keeps the key forever.
func Set(ctx context.Context, client redis.Cmdable, key string, value interface{}, ttl time.Duration) error {
	return client.Set(ctx, key, value, ttl).Err()
}

// Get retrieves the value of a key. A missing key is reported through the
// boolean, not as an error.
func Get(ctx context.Context, client redis.Cmdable, key string) (string, bool, error) {
	value, err := client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Del deletes keys from Redis. Deleting a missing key is not an error.
func Del(ctx context.Context, client redis.Cmdable, keys ...string) error {
	return client.Del(ctx, keys...).Err()
}

// Exists checks if a key exists in Redis.
func Exists(ctx context.Context, client redis.Cmdable, key string) (bool, error) {
	exists, err := client.Exists(ctx, key).Result()
	return exists > 0, err
}
