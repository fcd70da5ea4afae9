// Package cache implements the layered cache hierarchy described in
// spec.md §4.1-§4.3: an opaque-blob KVCache capability (satisfied by a
// Redis adapter), a process-local TTL store, and a two-tier cache that
// combines them with debounced write-behind to L2.
package cache

import (
	"context"
	"time"
)

// KVCache is the shared, opaque-blob cache capability (spec.md §4.1).
// Implementations do not interpret the blob contents; TwoTierCache
// owns serialization. Errors from a KVCache must never be fatal to
// the caller — see errs.CacheUnavailable.
type KVCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
