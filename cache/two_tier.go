package cache

import (
	"context"
	"log"
	"sync"
	"time"

	"weathercore/errs"
)

// DefaultDebounceInterval is the write-behind coalescing window from
// spec.md §4.3.
const DefaultDebounceInterval = 300 * time.Millisecond

// TwoTierCache combines a process-local L1 (LocalStore) with a shared
// L2 (KVCache), read-through on miss and write-through to L1 but
// debounced write-behind to L2 (spec.md §4.3). Cache errors are never
// fatal: a degraded L2 always falls back to "treat as miss" on read
// and "log and drop" on write (spec.md §7, CacheUnavailable /
// SerializationError).
type TwoTierCache struct {
	l1 *LocalStore
	l2 KVCache

	debounce time.Duration

	mu     sync.Mutex
	timers map[string]*pendingWrite
}

type pendingWrite struct {
	timer *time.Timer
	value any
	codec Codec
	ttl   time.Duration
}

// NewTwoTierCache builds a TwoTierCache. debounce <= 0 uses
// DefaultDebounceInterval.
func NewTwoTierCache(l1 *LocalStore, l2 KVCache, debounce time.Duration) *TwoTierCache {
	if debounce <= 0 {
		debounce = DefaultDebounceInterval
	}
	return &TwoTierCache{
		l1:       l1,
		l2:       l2,
		debounce: debounce,
		timers:   make(map[string]*pendingWrite),
	}
}

// Get reads key, consulting L1 first and falling through to L2 on
// miss. A populated L2 value is decoded with codec and backfilled into
// L1 before being returned. Any L2 error degrades to a miss rather
// than propagating — callers always get a chance to compute fresh.
func (c *TwoTierCache) Get(ctx context.Context, key string, codec Codec) (any, bool) {
	if v, ok := c.l1.Get(key); ok {
		return v, true
	}

	raw, found, err := c.l2.Get(ctx, key)
	if err != nil {
		log.Printf("two_tier: L2 get degraded for key %q: %v", key, err)
		return nil, false
	}
	if !found {
		return nil, false
	}

	v, err := codec.Decode(raw)
	if err != nil {
		log.Printf("two_tier: L2 decode degraded for key %q: %v", key, &errs.SerializationError{Err: err})
		return nil, false
	}

	c.l1.Set(key, v)
	return v, true
}

// Set writes value to L1 synchronously and arms (or re-arms) a
// debounce timer that will eventually serialize and write the latest
// value to L2. If another Set for the same key arrives before the
// timer fires, the prior timer is cancelled — only the final value of
// a burst is ever written to L2 (spec.md §4.3, §8 coalescing
// property).
func (c *TwoTierCache) Set(key string, value any, codec Codec, ttl time.Duration) {
	c.l1.Set(key, value)

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.timers[key]; ok {
		existing.timer.Stop()
	}

	pw := &pendingWrite{value: value, codec: codec, ttl: ttl}
	pw.timer = time.AfterFunc(c.debounce, func() { c.fire(key) })
	c.timers[key] = pw
}

func (c *TwoTierCache) fire(key string) {
	c.mu.Lock()
	pw, ok := c.timers[key]
	if ok {
		delete(c.timers, key)
	}
	c.mu.Unlock()
	if !ok {
		return
	}

	payload, err := pw.codec.Encode(pw.value)
	if err != nil {
		log.Printf("two_tier: L2 write dropped for key %q: %v", key, &errs.SerializationError{Err: err})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.l2.Set(ctx, key, payload, pw.ttl); err != nil {
		log.Printf("two_tier: L2 write degraded for key %q: %v", key, err)
	}
}

// Flush synchronously fires any pending debounced write for key,
// bypassing the timer. It exists for graceful shutdown and for tests
// that want a deterministic point at which the "latest value" has
// landed in L2, without sleeping past the debounce window.
func (c *TwoTierCache) Flush(key string) {
	c.mu.Lock()
	pw, ok := c.timers[key]
	if ok {
		pw.timer.Stop()
		delete(c.timers, key)
	}
	c.mu.Unlock()
	if !ok {
		return
	}

	payload, err := pw.codec.Encode(pw.value)
	if err != nil {
		log.Printf("two_tier: flush dropped for key %q: %v", key, &errs.SerializationError{Err: err})
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.l2.Set(ctx, key, payload, pw.ttl); err != nil {
		log.Printf("two_tier: flush degraded for key %q: %v", key, err)
	}
}

// Delete removes key from both tiers and cancels any pending debounce.
func (c *TwoTierCache) Delete(ctx context.Context, key string) {
	c.l1.Delete(key)
	c.mu.Lock()
	if pw, ok := c.timers[key]; ok {
		pw.timer.Stop()
		delete(c.timers, key)
	}
	c.mu.Unlock()
	if err := c.l2.Delete(ctx, key); err != nil {
		log.Printf("two_tier: L2 delete degraded for key %q: %v", key, err)
	}
}
