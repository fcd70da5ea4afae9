// Package singleflight provides the per-key "compute at most once
// while in flight" guard from spec.md §4.4, built on
// golang.org/x/sync/singleflight — the same package
// _examples/jcom-dev-zmanim reaches for to deduplicate concurrent
// elevation-tile fetches, and already an indirect dependency of the
// teacher repo.
//
// x/sync/singleflight.Group.Do blocks every caller until the winning
// compute finishes, with no per-caller cancellation. DoChan is used
// instead so a caller whose context is cancelled while waiting can
// return immediately without affecting the in-flight compute or any
// other waiter.
package singleflight

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"weathercore/errs"
)

// Group deduplicates concurrent computes for the same key and exposes
// a per-key invocation counter for tests that assert a builder ran at
// most once under concurrency (spec.md §8).
type Group struct {
	g group

	mu     sync.Mutex
	counts map[string]*atomic.Int64
}

// group is the subset of singleflight.Group's API this package uses,
// so tests can substitute a fake.
type group interface {
	DoChan(key string, fn func() (any, error)) <-chan singleflight.Result
}

// New constructs a Group.
func New() *Group {
	return &Group{
		g:      &singleflight.Group{},
		counts: make(map[string]*atomic.Int64),
	}
}

// DoOrWait runs compute for key if no compute is already in flight,
// otherwise waits for the in-flight compute to finish and shares its
// result. If ctx is cancelled before a result is available, DoOrWait
// returns errs.Cancelled without affecting the in-flight compute or
// other waiters — they keep waiting on their own contexts.
//
// compute receives the context of whichever caller happened to start
// the in-flight computation; this is a known limitation of
// channel-based singleflight and is acceptable here because computes
// are idempotent (spec.md §5 ordering guarantee 1).
func (g *Group) DoOrWait(ctx context.Context, key string, compute func(context.Context) (any, error)) (any, error) {
	ch := g.g.DoChan(key, func() (any, error) {
		g.counter(key).Add(1)
		return compute(ctx)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val, nil
	case <-ctx.Done():
		return nil, &errs.Cancelled{Err: ctx.Err()}
	}
}

// InvocationCount returns how many times compute actually ran for key
// (as opposed to how many callers arrived for it). Intended for tests.
func (g *Group) InvocationCount(key string) int64 {
	return g.counter(key).Load()
}

func (g *Group) counter(key string) *atomic.Int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	c, ok := g.counts[key]
	if !ok {
		c = &atomic.Int64{}
		g.counts[key] = c
	}
	return c
}
