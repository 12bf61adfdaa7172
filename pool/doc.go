// Package pool provides a bounded worker pool that executes submitted
// tasks asynchronously and exposes each task's eventual outcome through
// a future handle.
//
// The primary type is Executor[R]: a pool of min..max worker goroutines
// fed by a FIFO work queue. Submit enqueues a task and returns a
// *future.Future[R] immediately; a worker dequeues it in submission
// order, executes it, and settles the future with the result, the error,
// or a panic converted to an error. Task failures never crash a worker
// or the pool.
//
// # Basic usage
//
//	exec, err := pool.New[int](pool.WithWorkers(4))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer exec.Shutdown(5 * time.Second)
//
//	f, _ := exec.Submit(func(ctx context.Context) (int, error) {
//	    return compute(), nil
//	})
//	v, err := f.Get()
//
// # Cancellation
//
// Cancellation is cooperative and covers queued work only: f.Cancel()
// succeeds while the task is still waiting in the queue and the task is
// then never executed. Once a worker has claimed the task it runs to
// completion.
//
// # Sizing and backpressure
//
//   - WithWorkers(n): fixed pool of exactly n workers
//   - WithMinWorkers / WithMaxWorkers: scale between bounds; extra
//     workers spawn while the queue is backlogged and retire after
//     WithIdleTimeout
//   - WithQueueCapacity(n): bounded queue; a full queue blocks Submit,
//     or fails it with ErrQueueFull under WithNonBlockingSubmit
//   - WithRateLimit(perSecond, burst): gate task execution throughput
//
// # Shutdown
//
// Shutdown stops intake (later Submits fail fast with ErrShutdown) and
// closes the queue. Not-yet-started tasks are drained and executed by
// default, or cancelled under WithCancelPendingOnShutdown; running tasks
// always finish. With WithShutdownWait (the default) Shutdown blocks
// until the workers have exited, up to its timeout.
//
// # Batch helper
//
//	results, err := exec.Map(ctx,
//	    func(ctx context.Context) (int, error) { return 1, nil },
//	    func(ctx context.Context) (int, error) { return 2, nil },
//	)
//
// Map returns results in submission order and the first task error.
//
// A process-wide default executor backs the package-level Submit for
// top-level convenience use; see Default.
package pool
