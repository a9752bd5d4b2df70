package config

import (
	"context"

	"github.com/matzehuels/untangle/pkg/cache"
)

// OpenCache builds the configured backend. The returned cache reports to
// the registered cache hooks.
func (c CacheConfig) OpenCache(ctx context.Context) (cache.Cache, error) {
	var (
		backend cache.Cache
		err     error
	)
	switch c.Backend {
	case BackendNone:
		backend = cache.NewNullCache()
	case BackendRedis:
		backend, err = cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
		})
	default:
		dir := c.Dir
		if dir == "" {
			if dir, err = cache.DefaultDir(); err != nil {
				return nil, err
			}
		}
		backend, err = cache.NewFileCache(dir)
	}
	if err != nil {
		return nil, err
	}
	return cache.Observed(backend, "result"), nil
}
