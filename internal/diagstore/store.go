// Package diagstore provides the TTL-keyed stores diagnostic records are
// persisted into, plus the background purger that sweeps expired entries.
package diagstore

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("diagnostic record not found")

// Store is a TTL-keyed byte store. Get returns ErrNotFound for absent or
// expired keys.
type Store interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// Purger is implemented by stores that can sweep their expired entries.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}
