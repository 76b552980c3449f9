package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/criticaltext/cbgm/internal/cberr"
)

func TestPoolRunsAllTasksSuccessfully(t *testing.T) {
	p := NewPool(3, time.Second, 0)
	var n int32
	tasks := make([]Task, 10)
	for i := range tasks {
		tasks[i] = Task{Kind: TaskGenCoh, Witness: "W", Run: func(ctx context.Context) error {
			atomic.AddInt32(&n, 1)
			return nil
		}}
	}

	results := p.Run(context.Background(), tasks)
	if len(results) != 10 {
		t.Fatalf("expected 10 results, got %d", len(results))
	}
	for _, r := range results {
		if r.Err != nil {
			t.Errorf("unexpected error: %v", r.Err)
		}
	}
	if n != 10 {
		t.Errorf("expected 10 task runs, got %d", n)
	}
}

func TestPoolRequeuesOnWatchdogTimeoutThenSucceeds(t *testing.T) {
	p := NewPool(1, 15*time.Millisecond, 2)
	var attempts int32
	task := Task{Kind: TaskParents, Witness: "W2", Run: func(ctx context.Context) error {
		n := atomic.AddInt32(&attempts, 1)
		if n == 1 {
			<-ctx.Done() // first attempt always times out
			return ctx.Err()
		}
		return nil
	}}

	results := p.Run(context.Background(), []Task{task})
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Err != nil {
		t.Errorf("expected eventual success after requeue, got %v", results[0].Err)
	}
	if attempts != 2 {
		t.Errorf("expected 2 attempts (1 timeout + 1 success), got %d", attempts)
	}
}

func TestPoolPromotesExhaustedRetriesToInvariantError(t *testing.T) {
	p := NewPool(1, 10*time.Millisecond, 1)
	task := Task{Kind: TaskCombAnc, Witness: "W3", Run: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}}

	results := p.Run(context.Background(), []Task{task})
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	e, ok := cberr.As(results[0].Err)
	if !ok || e.Kind != cberr.KindInvariant {
		t.Fatalf("expected a KindInvariant error after exhausting retries, got %v", results[0].Err)
	}
	if e.Witness != "W3" {
		t.Errorf("expected error to carry the witness, got %q", e.Witness)
	}
}

func TestPoolStopsRetryingOnOuterCancellation(t *testing.T) {
	p := NewPool(1, time.Second, 5)
	ctx, cancel := context.WithCancel(context.Background())
	task := Task{Kind: TaskGenCoh, Witness: "W4", Run: func(ctx context.Context) error {
		cancel()
		<-ctx.Done()
		return ctx.Err()
	}}

	results := p.Run(ctx, []Task{task})
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Err == nil {
		t.Fatal("expected an error after outer cancellation")
	}
}
