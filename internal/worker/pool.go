// Package worker provides the bounded pool the CLI fans file scans
// over.
package worker

import (
	"context"
	"sync"
)

// Job is one unit of work. Jobs must be safe to run concurrently with
// each other.
type Job func(ctx context.Context) Result

// Result is whatever a job produces.
type Result interface {
	GetError() error
}

// Pool runs jobs across a fixed number of goroutines. Results come
// back in submission order regardless of completion order, so callers
// get deterministic output.
type Pool struct {
	workers int
}

func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{workers: workers}
}

// Run executes all jobs and returns one result slot per job. Jobs not
// started before ctx is cancelled leave a nil slot.
func (p *Pool) Run(ctx context.Context, jobs []Job) []Result {
	results := make([]Result, len(jobs))
	indices := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				results[i] = jobs[i](ctx)
			}
		}()
	}

dispatch:
	for i := range jobs {
		select {
		case <-ctx.Done():
			break dispatch
		case indices <- i:
		}
	}
	close(indices)

	wg.Wait()
	return results
}
