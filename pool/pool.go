package pool

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/drawbridge-io/drawbridge/future"
)

// Task is a single unit of work: a callable with its arguments already
// captured. Tasks must not retain the context past their return.
//
// Type parameters:
//   - R: The result type produced by the task
type Task[R any] func(ctx context.Context) (R, error)

// Executor is a bounded worker pool. Submitted tasks are queued FIFO,
// executed by min..max worker goroutines, and observed through the
// future returned by Submit.
//
// Lifecycle: New starts the minimum number of workers and the executor
// accepts submissions until Shutdown is called. After shutdown begins,
// Submit fails fast with ErrShutdown.
//
// Type parameters:
//   - R: The result type produced by submitted tasks
type Executor[R any] struct {
	conf  *config
	queue taskQueue[R]
	ctx   context.Context

	mu   sync.Mutex
	live int
	wg   sync.WaitGroup

	// gate orders Submit against Shutdown: a submission holds it for
	// reading across its enqueue, shutdown takes it for writing before
	// closing the queue. An accepted item therefore always lands before
	// the queue closes and can never be stranded.
	gate sync.RWMutex

	down          atomic.Bool
	cancelPending atomic.Bool
	done          chan struct{}

	submitted atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
	cancelled atomic.Int64
	rejected  atomic.Int64
}

// New creates an executor and starts its minimum worker set.
// Configuration errors (zero workers, max below min, negative capacity)
// are fatal at construction time.
//
// Example:
//
//	exec, err := pool.New[int](pool.WithWorkers(4), pool.WithQueueCapacity(64))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer exec.Shutdown(5 * time.Second)
func New[R any](opts ...Option) (*Executor[R], error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	e := &Executor[R]{
		conf:  cfg,
		queue: newTaskQueue[R](cfg.queueCapacity),
		ctx:   context.Background(),
		done:  make(chan struct{}),
	}

	e.mu.Lock()
	for i := 0; i < cfg.minWorkers; i++ {
		e.spawnLocked()
	}
	e.mu.Unlock()

	return e, nil
}

// Submit enqueues a task and immediately returns its future; the task
// runs whenever a worker is free. Submit never fails due to worker
// unavailability. It blocks only when the queue is bounded and full
// (unless WithNonBlockingSubmit was set, in which case it fails with
// ErrQueueFull), and fails with ErrShutdown once shutdown has begun.
func (e *Executor[R]) Submit(task Task[R]) (*future.Future[R], error) {
	e.gate.RLock()
	defer e.gate.RUnlock()

	if e.down.Load() {
		return nil, ErrShutdown
	}

	fut := future.New[R]()
	it := &item[R]{task: task, fut: fut}

	if err := e.queue.put(it, !e.conf.nonBlocking); err != nil {
		if err == ErrQueueFull {
			e.rejected.Add(1)
			return nil, err
		}
		return nil, ErrShutdown
	}

	e.submitted.Add(1)
	e.maybeSpawn()
	return fut, nil
}

// Map submits every task, waits for all of them, and returns the
// results in submission order. The first task error (in submission
// order) is returned alongside the partial results; a ctx error aborts
// the wait without affecting the tasks.
func (e *Executor[R]) Map(ctx context.Context, tasks ...Task[R]) ([]R, error) {
	futs := make([]*future.Future[R], 0, len(tasks))
	for _, t := range tasks {
		f, err := e.Submit(t)
		if err != nil {
			return nil, err
		}
		futs = append(futs, f)
	}

	if err := future.WaitAll(ctx, futs...); err != nil {
		return nil, err
	}

	results := make([]R, len(futs))
	var firstErr error
	for i, f := range futs {
		v, err := f.Get()
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		results[i] = v
	}
	return results, firstErr
}

// Shutdown stops accepting submissions and closes the queue. A Submit
// already in flight is waited out first: it either lands in the queue
// before the close (and is then drained or cancelled like any other
// queued task) or fails with ErrShutdown; an accepted future always
// reaches a terminal state. Queued
// tasks that have not started are either cancelled (see
// WithCancelPendingOnShutdown) or drained and executed; tasks already
// running always run to completion. With shutdown-wait enabled (the
// default) Shutdown blocks until all workers have exited, up to timeout
// (0 = wait forever), returning ErrShutdownTimeout if they do not make
// it. A second call returns ErrShutdown.
func (e *Executor[R]) Shutdown(timeout time.Duration) error {
	if !e.down.CompareAndSwap(false, true) {
		return ErrShutdown
	}

	// Barrier: submissions that saw the executor open still hold the gate
	// for reading across their enqueue. Once the write lock is acquired
	// every accepted item is in the queue and later submissions fail
	// fast, so nothing can slip in after the close below.
	e.gate.Lock()
	e.gate.Unlock() //nolint:staticcheck // empty critical section is the point

	if e.conf.cancelPending {
		e.cancelPending.Store(true)
	}
	e.queue.close()

	if e.conf.cancelPending {
		for _, it := range e.queue.drain() {
			if it.fut.Cancel() {
				e.cancelled.Add(1)
			}
		}
	}

	go func() {
		e.wg.Wait()
		close(e.done)
	}()

	if !e.conf.shutdownWait {
		return nil
	}
	return waitUntil(e.done, timeout)
}

// Done returns a channel closed once shutdown has completed and every
// worker has exited.
func (e *Executor[R]) Done() <-chan struct{} {
	return e.done
}

// Stats is a point-in-time snapshot of executor counters.
type Stats struct {
	Submitted int64 // Tasks accepted by Submit
	Completed int64 // Tasks executed to a result
	Failed    int64 // Tasks executed to an error (including panics)
	Cancelled int64 // Futures cancelled before execution
	Rejected  int64 // Submissions refused with ErrQueueFull
	Queued    int   // Tasks currently waiting in the queue
	Workers   int   // Live worker goroutines
}

// Stats returns current executor statistics.
func (e *Executor[R]) Stats() Stats {
	e.mu.Lock()
	workers := e.live
	e.mu.Unlock()

	return Stats{
		Submitted: e.submitted.Load(),
		Completed: e.completed.Load(),
		Failed:    e.failed.Load(),
		Cancelled: e.cancelled.Load(),
		Rejected:  e.rejected.Load(),
		Queued:    e.queue.len(),
		Workers:   workers,
	}
}

// maybeSpawn adds a worker when submissions are outpacing the pool and
// the maximum has not been reached.
func (e *Executor[R]) maybeSpawn() {
	if e.queue.len() == 0 {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.down.Load() || e.live >= e.conf.maxWorkers {
		return
	}
	e.spawnLocked()
}

// spawnLocked starts one worker goroutine. Caller must hold e.mu.
// The live count never exceeds conf.maxWorkers.
func (e *Executor[R]) spawnLocked() {
	e.live++
	e.wg.Add(1)
	go e.worker()
}
