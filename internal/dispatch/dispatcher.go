// Package dispatch coalesces rapid successive query intents into a single
// effective query per quiescent period, discarding stale in-flight results.
package dispatch

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/platewatch/platewatch/internal/model"
)

// Executor runs one effective query. The fan-out engine is the usual
// executor, but any single-query source fits.
type Executor interface {
	Execute(ctx context.Context, query string) ([]model.HazardRecord, error)
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(ctx context.Context, query string) ([]model.HazardRecord, error)

func (f ExecutorFunc) Execute(ctx context.Context, query string) ([]model.HazardRecord, error) {
	return f(ctx, query)
}

// Dispatcher owns one session's query flow: a single pending timer and a
// generation counter. Each intent restarts the timer and bumps the
// generation; a completed lookup only applies its result when its
// generation still matches, so a superseded query can never overwrite
// newer results. The in-flight lookup itself is not aborted, only its
// effect is suppressed.
//
// A Dispatcher is safe for concurrent use but models a single session;
// sessions never share one.
type Dispatcher struct {
	quiet time.Duration
	exec  Executor
	log   *slog.Logger

	// onResult, when set, observes every applied result. Called without
	// the lock held.
	onResult func(query string, records []model.HazardRecord)

	mu         sync.Mutex
	timer      *time.Timer
	generation uint64
	query      string               // latest applied query, "" = no active query
	records    []model.HazardRecord // latest applied results
}

// New creates a dispatcher with the given quiet interval.
func New(quiet time.Duration, exec Executor, log *slog.Logger) *Dispatcher {
	if quiet <= 0 {
		quiet = 500 * time.Millisecond
	}
	return &Dispatcher{quiet: quiet, exec: exec, log: log}
}

// SetResultHook registers a callback invoked for every applied result.
// Must be called before the first intent.
func (d *Dispatcher) SetResultHook(hook func(query string, records []model.HazardRecord)) {
	d.onResult = hook
}

// OnIntent records a new query intent. The effective query executes only
// after the quiet interval passes with no further intents; earlier intents
// inside the window are superseded. A blank query resolves immediately to
// the no-active-query state without touching the upstream.
func (d *Dispatcher) OnIntent(query string) {
	query = strings.TrimSpace(query)

	d.mu.Lock()
	defer d.mu.Unlock()

	d.generation++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}

	if query == "" {
		d.query = ""
		d.records = nil
		return
	}

	gen := d.generation
	d.timer = time.AfterFunc(d.quiet, func() {
		d.fire(gen, query)
	})
}

// fire executes the query and applies the result unless a newer intent
// arrived in the meantime.
func (d *Dispatcher) fire(gen uint64, query string) {
	d.mu.Lock()
	if gen != d.generation {
		d.mu.Unlock()
		return
	}
	d.mu.Unlock()

	records, err := d.exec.Execute(context.Background(), query)

	d.mu.Lock()
	if gen != d.generation {
		// A newer intent became due while this one was in flight;
		// applying its late result would flicker stale data.
		d.mu.Unlock()
		return
	}
	if err != nil {
		d.mu.Unlock()
		d.log.Warn("query execution failed", "query", query, "error", err)
		return
	}
	d.query = query
	d.records = records
	hook := d.onResult
	d.mu.Unlock()

	if hook != nil {
		hook(query, records)
	}
}

// Current returns the latest applied query and its results. An empty query
// means no active query.
func (d *Dispatcher) Current() (string, []model.HazardRecord) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.query, d.records
}

// Close cancels any pending timer. In-flight executions finish but their
// results are discarded.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.generation++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
