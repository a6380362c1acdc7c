package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type testResult struct {
	value int
	err   error
}

func (r *testResult) GetError() error { return r.err }

func TestPool_ResultsInSubmissionOrder(t *testing.T) {
	jobs := make([]Job, 10)
	for i := range jobs {
		i := i
		jobs[i] = func(ctx context.Context) Result {
			// Later jobs finish first to exercise ordering.
			time.Sleep(time.Duration(10-i) * time.Millisecond)
			return &testResult{value: i}
		}
	}

	results := NewPool(4).Run(context.Background(), jobs)

	if len(results) != len(jobs) {
		t.Fatalf("expected %d results, got %d", len(jobs), len(results))
	}
	for i, r := range results {
		tr, ok := r.(*testResult)
		if !ok {
			t.Fatalf("result %d has unexpected type", i)
		}
		if tr.value != i {
			t.Errorf("result %d holds value %d", i, tr.value)
		}
	}
}

func TestPool_BoundedConcurrency(t *testing.T) {
	const workers = 3

	var active, peak int64
	var mu sync.Mutex

	jobs := make([]Job, 20)
	for i := range jobs {
		jobs[i] = func(ctx context.Context) Result {
			n := atomic.AddInt64(&active, 1)
			mu.Lock()
			if n > peak {
				peak = n
			}
			mu.Unlock()
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt64(&active, -1)
			return &testResult{}
		}
	}

	NewPool(workers).Run(context.Background(), jobs)

	if peak > workers {
		t.Errorf("observed %d concurrent jobs, want at most %d", peak, workers)
	}
}

func TestPool_ErrorsSurface(t *testing.T) {
	boom := errors.New("boom")
	jobs := []Job{
		func(ctx context.Context) Result { return &testResult{} },
		func(ctx context.Context) Result { return &testResult{err: boom} },
	}

	results := NewPool(2).Run(context.Background(), jobs)

	if results[0].GetError() != nil {
		t.Errorf("unexpected error: %v", results[0].GetError())
	}
	if !errors.Is(results[1].GetError(), boom) {
		t.Errorf("expected boom, got %v", results[1].GetError())
	}
}

func TestPool_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	jobs := make([]Job, 50)
	var ran int64
	for i := range jobs {
		jobs[i] = func(ctx context.Context) Result {
			atomic.AddInt64(&ran, 1)
			return &testResult{}
		}
	}

	results := NewPool(2).Run(ctx, jobs)

	if len(results) != len(jobs) {
		t.Fatalf("expected %d result slots, got %d", len(jobs), len(results))
	}
	// Cancellation stops dispatch; most slots stay nil.
	if ran == int64(len(jobs)) {
		t.Error("expected cancellation to skip remaining jobs")
	}
}

func TestPool_ZeroWorkersClamped(t *testing.T) {
	results := NewPool(0).Run(context.Background(), []Job{
		func(ctx context.Context) Result { return &testResult{value: 7} },
	})

	if tr := results[0].(*testResult); tr.value != 7 {
		t.Errorf("expected job to run with clamped worker count")
	}
}
