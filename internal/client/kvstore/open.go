package kvstore

import (
	"context"
	"fmt"

	"github.com/ikkim/storefront/config"
	appredis "github.com/ikkim/storefront/pkg/redis"
)

// Open builds the backend named by cfg.StateBackend. The returned close
// function releases any connection the backend holds.
func Open(ctx context.Context, cfg *config.ClientConfig, redisCfg *config.RedisConfig) (Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.StateBackend {
	case BackendFile, "":
		store, err := NewFileStore(cfg.StateDir)
		if err != nil {
			return nil, nil, err
		}
		return store, noop, nil
	case BackendMemory:
		return NewMemoryStore(), noop, nil
	case BackendRedis:
		client, err := appredis.Connect(ctx, redisCfg)
		if err != nil {
			return nil, nil, err
		}
		return NewRedisStore(client, cfg.KeyPrefix), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported state backend %q", cfg.StateBackend)
	}
}
