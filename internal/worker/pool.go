// Package worker runs the three coarse-grained CBGM pipeline tasks
// (genealogical coherence, parent search, combinations-of-ancestors)
// across a fixed pool of goroutines, with a per-task watchdog and a
// bounded requeue-on-timeout policy (spec.md §5).
//
// The pool shape is the teacher's annotate.ParallelAnnotate worker
// pool (fixed goroutines draining a channel of work items), generalized
// from one task kind to three and extended with the watchdog/retry
// behavior spec.md §5 calls for that the teacher's variant annotation
// pipeline never needed.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/criticaltext/cbgm/internal/cberr"
)

// Kind is one of the three coarse-grained task kinds the cbgm
// pipeline queues.
type Kind int

const (
	TaskGenCoh Kind = iota
	TaskParents
	TaskCombAnc
)

func (k Kind) String() string {
	switch k {
	case TaskGenCoh:
		return "GENCOH"
	case TaskParents:
		return "PARENTS"
	case TaskCombAnc:
		return "COMBANC"
	default:
		return "UNKNOWN"
	}
}

// Task is one unit of work submitted to a Pool. Run receives a context
// scoped to this single attempt's watchdog timeout; it should check
// ctx between variant units (or after each emitted row) so a timeout
// or outer cancellation is noticed promptly rather than only at
// completion.
type Task struct {
	Kind    Kind
	Witness string
	Run     func(ctx context.Context) error

	attempt int
}

// Result reports one task's final outcome, after every retry the pool
// allowed has been exhausted (or the task succeeded).
type Result struct {
	Task Task
	Err  error
}

// Pool runs Tasks on a fixed number of worker goroutines.
type Pool struct {
	Workers    int
	Timeout    time.Duration // per-attempt watchdog; default 4h
	MaxRetries int           // requeues allowed before the task is given up on
}

// NewPool returns a Pool with the given worker count, per-task
// watchdog timeout, and retry budget. A non-positive workers count
// becomes 1; a non-positive timeout becomes 4 hours, the original
// MPI handler's mpi_child_timeout.
func NewPool(workers int, timeout time.Duration, maxRetries int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if timeout <= 0 {
		timeout = 4 * time.Hour
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Pool{Workers: workers, Timeout: timeout, MaxRetries: maxRetries}
}

// Run executes every task, returning one Result per task (in
// completion order, not submission order). ctx bounds the whole run:
// once it is cancelled, in-flight attempts are given the chance to
// notice and return, and no task is retried past that point.
func (p *Pool) Run(ctx context.Context, tasks []Task) []Result {
	if len(tasks) == 0 {
		return nil
	}

	// Every task can be requeued at most MaxRetries times, so this
	// capacity bounds the total number of sends to `work` across the
	// whole run: the channel never blocks a requeue.
	capacity := len(tasks) * (p.MaxRetries + 1)
	work := make(chan Task, capacity)
	for _, t := range tasks {
		work <- t
	}

	var tasksWG sync.WaitGroup
	tasksWG.Add(len(tasks))

	var mu sync.Mutex
	results := make([]Result, 0, len(tasks))
	record := func(r Result) {
		mu.Lock()
		results = append(results, r)
		mu.Unlock()
		tasksWG.Done()
	}

	var workersWG sync.WaitGroup
	workersWG.Add(p.Workers)
	for i := 0; i < p.Workers; i++ {
		go func() {
			defer workersWG.Done()
			for t := range work {
				p.runOne(ctx, t, work, record)
			}
		}()
	}

	tasksWG.Wait()
	close(work)
	workersWG.Wait()
	return results
}

func (p *Pool) runOne(ctx context.Context, t Task, work chan<- Task, record func(Result)) {
	attemptCtx, cancel := context.WithTimeout(ctx, p.Timeout)
	err := t.Run(attemptCtx)
	cancel()

	switch {
	case err == nil:
		record(Result{Task: t})
	case ctx.Err() != nil:
		// Outer cancellation: stop immediately, no retry.
		record(Result{Task: t, Err: ctx.Err()})
	case attemptCtx.Err() == context.DeadlineExceeded && t.attempt < p.MaxRetries:
		t.attempt++
		work <- t
	case attemptCtx.Err() == context.DeadlineExceeded:
		record(Result{Task: t, Err: &cberr.Error{
			Kind:    cberr.KindInvariant,
			Witness: t.Witness,
			Err: fmt.Errorf("%s %s: watchdog timeout after %d attempts: %w",
				t.Kind, t.Witness, t.attempt+1, err),
		}})
	default:
		record(Result{Task: t, Err: err})
	}
}
