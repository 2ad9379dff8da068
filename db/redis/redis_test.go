package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	client, err := NewRedisClient(ctx, Config{Addr: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	assert.NoError(t, Ping(ctx, client))
}

func TestNewRedisClientErrors(t *testing.T) {
	ctx := context.Background()

	_, err := NewRedisClient(ctx, Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err = NewRedisClient(ctx, Config{Addr: addr})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect")
}

func TestKeyHelpers(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()
	client, err := NewRedisClient(ctx, Config{Addr: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	_, ok, err := Get(ctx, client, "medtrack:default:token")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, Set(ctx, client, "medtrack:default:token", "abc", 0))
	value, ok, err := Get(ctx, client, "medtrack:default:token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", value)

	require.NoError(t, Set(ctx, client, "short", "x", time.Minute))
	mr.FastForward(2 * time.Minute)
	exists, err := Exists(ctx, client, "short")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, Del(ctx, client, "medtrack:default:token", "missing"))
	exists, err = Exists(ctx, client, "medtrack:default:token")
	require.NoError(t, err)
	assert.False(t, exists)
}
