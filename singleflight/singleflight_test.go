package singleflight

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoOrWait_ConcurrentCallersShareOneCompute(t *testing.T) {
	g := New()
	var started sync.WaitGroup
	started.Add(1)
	release := make(chan struct{})

	compute := func(ctx context.Context) (any, error) {
		started.Done()
		<-release
		return "result", nil
	}

	const callers = 8
	results := make(chan any, callers)
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			v, err := g.DoOrWait(context.Background(), "key", compute)
			assert.NoError(t, err)
			results <- v
		}()
	}

	started.Wait()
	close(release)
	wg.Wait()
	close(results)

	for v := range results {
		assert.Equal(t, "result", v)
	}
	assert.Equal(t, int64(1), g.InvocationCount("key"))
}

func TestDoOrWait_DistinctKeysComputeIndependently(t *testing.T) {
	g := New()
	_, err := g.DoOrWait(context.Background(), "a", func(ctx context.Context) (any, error) { return 1, nil })
	require.NoError(t, err)
	_, err = g.DoOrWait(context.Background(), "b", func(ctx context.Context) (any, error) { return 2, nil })
	require.NoError(t, err)

	assert.Equal(t, int64(1), g.InvocationCount("a"))
	assert.Equal(t, int64(1), g.InvocationCount("b"))
}

func TestDoOrWait_CancelledCallerReturnsWithoutAffectingComputer(t *testing.T) {
	g := New()
	release := make(chan struct{})
	compute := func(ctx context.Context) (any, error) {
		<-release
		return "done", nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	waiterDone := make(chan error, 1)
	go func() {
		_, err := g.DoOrWait(ctx, "key", compute)
		waiterDone <- err
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-waiterDone:
		assert.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("cancelled waiter never returned")
	}

	close(release)
}
