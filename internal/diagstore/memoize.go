package diagstore

import (
	"context"
	"encoding/json"
	"time"
)

// Cached wraps fn with store-backed memoization. The key builder derives the
// cache key from the argument; values round-trip through JSON. Store failures
// degrade to calling fn directly, so a broken cache never breaks the lookup.
func Cached[A any, V any](store Store, ttl time.Duration, key func(A) string, fn func(context.Context, A) (V, error)) func(context.Context, A) (V, error) {
	return func(ctx context.Context, arg A) (V, error) {
		cacheKey := key(arg)

		if raw, err := store.Get(ctx, cacheKey); err == nil {
			var cached V
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
		}

		value, err := fn(ctx, arg)
		if err != nil {
			return value, err
		}

		if raw, err := json.Marshal(value); err == nil {
			_ = store.Set(ctx, cacheKey, raw, ttl)
		}
		return value, nil
	}
}
