package fetchpool

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/brennhill/driftlens/internal/fetch"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	calls int64
}

func (f *fakeFetcher) Fetch(_ context.Context, ref, path string) (fetch.Result, error) {
	atomic.AddInt64(&f.calls, 1)
	return fetch.Result{Path: path, Content: []byte(ref + ":" + path)}, nil
}

func TestRunPreservesOrdering(t *testing.T) {
	f := &fakeFetcher{}
	p := New(f, 4)

	tasks := make([]Task, 50)
	for i := range tasks {
		tasks[i] = Task{Ref: "head", Path: fmt.Sprintf("file-%02d.go", i), Index: i}
	}

	outcomes := p.Run(context.Background(), tasks)
	require.Len(t, outcomes, 50)
	for i, o := range outcomes {
		require.Equal(t, tasks[i].Path, o.Task.Path)
		require.NoError(t, o.Err)
		require.Equal(t, fmt.Sprintf("head:file-%02d.go", i), string(o.Result.Content))
	}
	require.EqualValues(t, 50, f.calls)
}

func TestRunHandlesCanceledContext(t *testing.T) {
	f := &fakeFetcher{}
	p := New(f, 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tasks := []Task{{Ref: "head", Path: "a.go", Index: 0}, {Ref: "head", Path: "b.go", Index: 1}}
	outcomes := p.Run(ctx, tasks)
	require.Len(t, outcomes, 2)
	for _, o := range outcomes {
		if o.Err != nil {
			require.ErrorIs(t, o.Err, fetch.ErrCanceled)
			require.True(t, o.Result.Missing)
		}
	}
}

func TestWorkersDefaultToOne(t *testing.T) {
	p := New(&fakeFetcher{}, 0)
	require.Equal(t, 1, p.workers)
}
