// Package fetchpool runs ContentFetcher calls across a change-set's files
// through a bounded worker pool, wrapped in a circuit breaker so a
// misbehaving backend (a flaky remote API, a dead git daemon) fails fast
// instead of hanging every worker (spec §6).
//
// Grounded on the teacher's internal/engine worker-pool shape (context.go),
// generalized from rule evaluation to content fetching and widened to wrap
// every call through a sony/gobreaker circuit breaker, a dependency the
// teacher pack declares but never exercises outside test fixtures.
package fetchpool

import (
	"context"
	"sort"
	"sync"

	"github.com/brennhill/driftlens/internal/fetch"
	"github.com/sony/gobreaker"
)

// Task identifies one fetch to perform: a single file at a single revision.
type Task struct {
	Ref  string
	Path string
	// Index preserves the caller's original ordering so results can be
	// reassembled deterministically regardless of which goroutine finishes
	// first (spec §6: "output ordering must not depend on task
	// interleaving").
	Index int
}

// Outcome pairs a Task with its fetch result or error.
type Outcome struct {
	Task   Task
	Result fetch.Result
	Err    error
}

// Pool fans a set of fetch tasks out across a bounded number of workers,
// guarding every call with a circuit breaker.
type Pool struct {
	fetcher fetch.ContentFetcher
	workers int
	breaker *gobreaker.CircuitBreaker
}

// New builds a Pool with the given worker concurrency. workers <= 0 is
// treated as 1.
func New(fetcher fetch.ContentFetcher, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "content-fetch",
		MaxRequests: 1,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &Pool{fetcher: fetcher, workers: workers, breaker: cb}
}

// Run executes every task across the pool's workers and returns outcomes in
// the same order the tasks were submitted, independent of completion order.
func (p *Pool) Run(ctx context.Context, tasks []Task) []Outcome {
	outcomes := make([]Outcome, len(tasks))
	done := make([]bool, len(tasks))
	var mu sync.Mutex
	taskCh := make(chan Task)

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range taskCh {
				res, err := p.breaker.Execute(func() (interface{}, error) {
					return p.fetcher.Fetch(ctx, t.Ref, t.Path)
				})
				mu.Lock()
				if err != nil {
					outcomes[t.Index] = Outcome{Task: t, Err: err}
				} else {
					outcomes[t.Index] = Outcome{Task: t, Result: res.(fetch.Result)}
				}
				done[t.Index] = true
				mu.Unlock()
			}
		}()
	}

	go func() {
		defer close(taskCh)
		for _, t := range tasks {
			select {
			case <-ctx.Done():
				return
			case taskCh <- t:
			}
		}
	}()

	wg.Wait()

	// Any task the submitter loop skipped due to context cancellation never
	// ran; fill those in as canceled so callers see a uniform content-absent
	// result rather than a zero-value Outcome with no error.
	for i, t := range tasks {
		if !done[i] {
			outcomes[i] = Outcome{Task: t, Result: fetch.Result{Path: t.Path, Missing: true}, Err: fetch.ErrCanceled}
		}
	}

	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].Task.Index < outcomes[j].Task.Index })
	return outcomes
}
