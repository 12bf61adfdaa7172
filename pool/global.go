package pool

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/drawbridge-io/drawbridge/future"
)

var (
	defaultOnce sync.Once
	defaultPool *Executor[any]
)

// Default returns the process-wide executor, creating it on first use
// with a fixed GOMAXPROCS-sized worker set and an unbounded queue. It
// is never shut down; it lives until process exit. Prefer passing an
// explicit Executor where practical and reserve the default for
// top-level convenience submissions.
func Default() *Executor[any] {
	defaultOnce.Do(func() {
		e, err := New[any](WithWorkers(runtime.GOMAXPROCS(0)))
		if err != nil {
			// Unreachable with the fixed defaults above.
			panic(fmt.Sprintf("pool: default executor: %v", err))
		}
		defaultPool = e
	})
	return defaultPool
}

// Submit schedules a task on the process-wide default executor.
//
// Example:
//
//	f, _ := pool.Submit(func(ctx context.Context) (any, error) {
//	    return heavyComputation(), nil
//	})
//	v, err := f.Get()
func Submit(task Task[any]) (*future.Future[any], error) {
	return Default().Submit(task)
}
