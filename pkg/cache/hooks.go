package cache

import (
	"context"
	"time"

	"github.com/matzehuels/untangle/pkg/observability"
)

// Observed reports hits, misses and writes of c to the registered
// [observability.CacheHooks], labelled with keyType.
func Observed(c Cache, keyType string) Cache {
	return &observed{Cache: c, keyType: keyType}
}

type observed struct {
	Cache
	keyType string
}

func (o *observed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := o.Cache.Get(ctx, key)
	if err == nil {
		if hit {
			observability.Cache().OnCacheHit(ctx, o.keyType)
		} else {
			observability.Cache().OnCacheMiss(ctx, o.keyType)
		}
	}
	return data, hit, err
}

func (o *observed) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := o.Cache.Set(ctx, key, data, ttl)
	if err == nil {
		observability.Cache().OnCacheSet(ctx, o.keyType, len(data))
	}
	return err
}

func (o *observed) Clear(ctx context.Context) error {
	if cl, ok := o.Cache.(Clearer); ok {
		return cl.Clear(ctx)
	}
	return nil
}
