package pool

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"
)

// worker is the loop run by each pool goroutine: dequeue, claim the
// future, execute, record the outcome, repeat until the queue closes or
// the worker retires idle.
func (e *Executor[R]) worker() {
	defer e.wg.Done()

	idle := time.Duration(0)
	if e.conf.maxWorkers > e.conf.minWorkers {
		idle = e.conf.idleTimeout
	}

	for {
		it, err := e.queue.take(idle)
		switch {
		case err == nil:
			e.runTask(it)

		case errors.Is(err, errQueueIdle):
			if e.tryRetire() {
				return
			}

		case errors.Is(err, errQueueClosed):
			e.mu.Lock()
			e.live--
			e.mu.Unlock()
			return
		}
	}
}

// tryRetire removes this worker from the pool if doing so keeps the
// live count at or above the minimum.
func (e *Executor[R]) tryRetire() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.live > e.conf.minWorkers {
		e.live--
		return true
	}
	return false
}

// runTask executes one dequeued item. A task that was cancelled before
// the worker claimed it is skipped; a task error or panic is captured
// on the future and never escapes the worker.
func (e *Executor[R]) runTask(it *item[R]) {
	if e.cancelPending.Load() {
		if it.fut.Cancel() {
			e.cancelled.Add(1)
			return
		}
	}

	if err := it.fut.SetRunning(); err != nil {
		// Lost the race with Cancel; the task never runs.
		e.cancelled.Add(1)
		return
	}

	if e.conf.rateLimiter != nil {
		if err := e.conf.rateLimiter.Wait(e.ctx); err != nil {
			_ = it.fut.SetError(err)
			e.failed.Add(1)
			return
		}
	}

	v, err := runSafely(e.ctx, it.task)
	if err != nil {
		_ = it.fut.SetError(err)
		e.failed.Add(1)
	} else {
		_ = it.fut.SetResult(v)
		e.completed.Add(1)
	}
}

// runSafely executes a task with panic recovery. A panic is converted
// to an error carrying the stack trace so a single bad task cannot
// crash its worker.
func runSafely[R any](ctx context.Context, task Task[R]) (result R, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			err = fmt.Errorf("task panic: %v\nstack trace:\n%s", r, buf[:n])
		}
	}()

	return task(ctx)
}
