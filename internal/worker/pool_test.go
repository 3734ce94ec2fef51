package worker

import (
	"context"
	"sort"
	"sync/atomic"
	"testing"
	"time"
)

type intJob struct {
	value int
	delay time.Duration
}

func (j *intJob) Execute(ctx context.Context) int {
	if j.delay > 0 {
		select {
		case <-time.After(j.delay):
		case <-ctx.Done():
			return -1
		}
	}
	return j.value
}

func TestPool_CollectsAllResults(t *testing.T) {
	pool := NewPool[int](3)
	pool.Start(context.Background())

	for i := 1; i <= 10; i++ {
		pool.Submit(&intJob{value: i})
	}
	results := pool.Wait()

	if len(results) != 10 {
		t.Fatalf("expected 10 results, got %d", len(results))
	}
	sort.Ints(results)
	for i, v := range results {
		if v != i+1 {
			t.Errorf("missing result %d, got %v", i+1, results)
			break
		}
	}
}

func TestPool_BoundsConcurrency(t *testing.T) {
	var active, peak atomic.Int32

	pool := NewPool[int](2)
	pool.Start(context.Background())
	for i := 0; i < 8; i++ {
		pool.Submit(&gaugeJob{active: &active, peak: &peak})
	}
	pool.Wait()

	if got := peak.Load(); got > 2 {
		t.Errorf("observed %d concurrent jobs with 2 workers", got)
	}
}

type gaugeJob struct {
	active *atomic.Int32
	peak   *atomic.Int32
}

func (j *gaugeJob) Execute(ctx context.Context) int {
	n := j.active.Add(1)
	for {
		p := j.peak.Load()
		if n <= p || j.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(10 * time.Millisecond)
	j.active.Add(-1)
	return 0
}

func TestPool_ZeroWorkersDefaultsToOne(t *testing.T) {
	pool := NewPool[int](0)
	pool.Start(context.Background())
	pool.Submit(&intJob{value: 42})
	results := pool.Wait()

	if len(results) != 1 || results[0] != 42 {
		t.Errorf("expected [42], got %v", results)
	}
}

func TestPool_WaitWithNoJobs(t *testing.T) {
	pool := NewPool[int](2)
	pool.Start(context.Background())
	if results := pool.Wait(); len(results) != 0 {
		t.Errorf("expected no results, got %v", results)
	}
}

func TestPool_ParentCancelStopsWork(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	pool := NewPool[int](1)
	pool.Start(ctx)
	pool.Submit(&intJob{value: 1, delay: 5 * time.Second})
	cancel()

	done := make(chan struct{})
	go func() {
		pool.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after the parent context was cancelled")
	}
}

func TestPool_WaitReleasesContext(t *testing.T) {
	pool := NewPool[int](1)
	pool.Start(context.Background())
	pool.Submit(&intJob{value: 1})
	pool.Wait()

	if pool.ctx.Err() == nil {
		t.Error("derived context still live after Wait returned")
	}
}

func TestPool_ShutdownCancelsContext(t *testing.T) {
	pool := NewPool[int](1)
	pool.Start(context.Background())
	pool.Submit(&intJob{value: 1, delay: 5 * time.Second})

	done := make(chan struct{})
	go func() {
		pool.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Shutdown did not return after cancelling work")
	}
}
