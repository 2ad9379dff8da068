package tokenstore

import (
	"context"
	"fmt"

	redisdb "github.com/octabyte/medtrack-gommon/db/redis"
	"github.com/octabyte/medtrack-gommon/enums"
)

type Options struct {
	Driver  enums.StorageDriver
	Dir     string
	Profile string
	Redis   redisdb.Config
}

// Open builds the Storage selected by opts.Driver. The returned close
// function is never nil.
func Open(ctx context.Context, opts Options) (Storage, func() error, error) {
	noop := func() error { return nil }

	switch opts.Driver {
	case enums.StorageDriverMemory:
		return NewMemoryStorage(), noop, nil
	case enums.StorageDriverFile, "":
		storage, err := NewFileStorage(opts.Dir, opts.Profile)
		if err != nil {
			return nil, noop, err
		}
		return storage, noop, nil
	case enums.StorageDriverRedis:
		client, err := redisdb.NewRedisClient(ctx, opts.Redis)
		if err != nil {
			return nil, noop, err
		}
		return NewRedisStorage(client, opts.Profile), client.Close, nil
	default:
		return nil, noop, fmt.Errorf("tokenstore: unknown storage driver %q", opts.Driver)
	}
}
