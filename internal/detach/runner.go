// Package detach runs fire-and-forget work whose outcome must not reach the caller.
package detach

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Sink receives the terminal error of a detached task.
type Sink func(ctx context.Context, name string, err error)

// Runner spawns detached tasks. Tasks outlive the caller's cancellation but
// are bounded by the runner timeout.
type Runner struct {
	wg      sync.WaitGroup
	timeout time.Duration
	sink    Sink
}

// NewRunner creates a Runner. A non-positive timeout disables the bound.
func NewRunner(timeout time.Duration, sink Sink) *Runner {
	return &Runner{timeout: timeout, sink: sink}
}

// Go runs fn on its own goroutine. Values from ctx are kept, its
// cancellation is not. Errors and panics go to the sink and nowhere else.
func (r *Runner) Go(ctx context.Context, name string, fn func(context.Context) error) {
	base := context.WithoutCancel(ctx)
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		taskCtx := base
		if r.timeout > 0 {
			var cancel context.CancelFunc
			taskCtx, cancel = context.WithTimeout(base, r.timeout)
			defer cancel()
		}
		if err := run(taskCtx, fn); err != nil {
			r.report(taskCtx, name, err)
		}
	}()
}

// Wait blocks until every spawned task has finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// WaitContext waits for tasks or until ctx is done.
func (r *Runner) WaitContext(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func run(ctx context.Context, fn func(context.Context) error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("detached task panicked: %v", p)
		}
	}()
	return fn(ctx)
}

func (r *Runner) report(ctx context.Context, name string, err error) {
	if r.sink == nil {
		return
	}
	defer func() { _ = recover() }()
	r.sink(ctx, name, err)
}
