package workerpool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_ReturnsResultsInOrder(t *testing.T) {
	p := New(4)
	tasks := []Task{
		func(ctx context.Context) (any, error) { return 1, nil },
		func(ctx context.Context) (any, error) { return 2, nil },
		func(ctx context.Context) (any, error) { return 3, nil },
	}
	results, err := p.Run(context.Background(), tasks)
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2, 3}, results)
}

func TestRun_AbortsOnFirstError(t *testing.T) {
	p := New(1)
	boom := errors.New("boom")
	tasks := []Task{
		func(ctx context.Context) (any, error) { return nil, boom },
		func(ctx context.Context) (any, error) { return 2, nil },
	}
	_, err := p.Run(context.Background(), tasks)
	require.Error(t, err)
}

func TestRunAll_NeverAbortsOnPerTaskError(t *testing.T) {
	p := New(2)
	boom := errors.New("boom")
	tasks := []Task{
		func(ctx context.Context) (any, error) { return nil, boom },
		func(ctx context.Context) (any, error) { return 2, nil },
		func(ctx context.Context) (any, error) { return nil, boom },
	}
	results, errs := p.RunAll(context.Background(), tasks)
	require.Len(t, errs, 3)
	assert.Error(t, errs[0])
	assert.NoError(t, errs[1])
	assert.Error(t, errs[2])
	assert.Equal(t, 2, results[1])
	assert.Nil(t, results[0])
}

func TestRunAll_EmptyTaskListReturnsEmptySlices(t *testing.T) {
	p := New(2)
	results, errs := p.RunAll(context.Background(), nil)
	assert.Empty(t, results)
	assert.Empty(t, errs)
}

func TestNew_DefaultsToNumCPUWhenSizeNonPositive(t *testing.T) {
	p := New(0)
	assert.Greater(t, p.Size(), 0)
}
