package detach

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type recordingSink struct {
	mu    sync.Mutex
	names []string
	errs  []error
}

func (s *recordingSink) sink(_ context.Context, name string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.names = append(s.names, name)
	s.errs = append(s.errs, err)
}

func TestRunnerSurvivesCallerCancellation(t *testing.T) {
	r := NewRunner(time.Second, nil)
	ctx, cancel := context.WithCancel(context.Background())

	started := make(chan struct{})
	var taskErr error
	r.Go(ctx, "write", func(taskCtx context.Context) error {
		close(started)
		time.Sleep(10 * time.Millisecond)
		taskErr = taskCtx.Err()
		return nil
	})
	<-started
	cancel()
	r.Wait()

	if taskErr != nil {
		t.Fatalf("detached task observed caller cancellation: %v", taskErr)
	}
}

func TestRunnerRoutesErrorsAndPanicsToSink(t *testing.T) {
	s := &recordingSink{}
	r := NewRunner(time.Second, s.sink)

	r.Go(context.Background(), "fails", func(context.Context) error { return errors.New("db down") })
	r.Go(context.Background(), "panics", func(context.Context) error { panic("nil map") })
	r.Go(context.Background(), "ok", func(context.Context) error { return nil })
	r.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.errs) != 2 {
		t.Fatalf("expected 2 sink calls, got %d (%v)", len(s.errs), s.names)
	}
}

func TestRunnerSwallowsSinkPanic(t *testing.T) {
	r := NewRunner(time.Second, func(context.Context, string, error) { panic("sink down") })
	r.Go(context.Background(), "fails", func(context.Context) error { return errors.New("db down") })
	r.Wait()
}

func TestRunnerAppliesTimeout(t *testing.T) {
	s := &recordingSink{}
	r := NewRunner(5*time.Millisecond, s.sink)
	r.Go(context.Background(), "slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	r.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.errs) != 1 || !errors.Is(s.errs[0], context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", s.errs)
	}
}

func TestWaitContextHonoursDeadline(t *testing.T) {
	r := NewRunner(0, nil)
	release := make(chan struct{})
	r.Go(context.Background(), "blocked", func(context.Context) error {
		<-release
		return nil
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	if err := r.WaitContext(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("WaitContext() = %v, want deadline exceeded", err)
	}
	close(release)
	r.Wait()
}
