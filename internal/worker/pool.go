// Package worker provides the concurrency primitives shared by the lookup
// fan-out: a bounded worker pool and a per-host rate limiter.
package worker

import (
	"context"
	"sync"
)

// Job is a unit of work executed by the pool. Jobs report failure inside
// their result value; the pool itself never fails.
type Job[R any] interface {
	Execute(ctx context.Context) R
}

// Pool runs jobs on a fixed number of workers and collects their results.
// It is single-use: Start, Submit, then Wait.
type Pool[R any] struct {
	workers  int
	jobQueue chan Job[R]
	results  chan R
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	once     sync.Once
}

// NewPool creates a pool with the given number of workers.
func NewPool[R any](workers int) *Pool[R] {
	if workers <= 0 {
		workers = 1
	}
	return &Pool[R]{
		workers:  workers,
		jobQueue: make(chan Job[R], workers*2),
		results:  make(chan R, workers*2),
	}
}

// Start launches the workers. Jobs execute under a context derived from
// ctx, so the caller cancelling propagates into every in-flight job.
func (p *Pool[R]) Start(ctx context.Context) {
	p.ctx, p.cancel = context.WithCancel(ctx)
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool[R]) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			result := job.Execute(p.ctx)
			select {
			case p.results <- result:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a job for execution.
func (p *Pool[R]) Submit(job Job[R]) {
	select {
	case <-p.ctx.Done():
	case p.jobQueue <- job:
	}
}

// Wait closes the queue, waits for all submitted jobs and returns their
// results. Result order is completion order, not submission order. The
// derived context is released before returning.
func (p *Pool[R]) Wait() []R {
	close(p.jobQueue)

	go func() {
		p.wg.Wait()
		p.closeResults()
	}()

	var results []R
	for result := range p.results {
		results = append(results, result)
	}
	p.cancel()
	return results
}

// Shutdown aborts outstanding work immediately.
func (p *Pool[R]) Shutdown() {
	p.cancel()
	p.wg.Wait()
	p.closeResults()
}

func (p *Pool[R]) closeResults() {
	p.once.Do(func() {
		close(p.results)
	})
}
