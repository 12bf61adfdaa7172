package future

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Callback is invoked with the future once it reaches a terminal state.
// Callbacks run on whichever goroutine performs the terminal transition,
// or synchronously on the registering goroutine if the future is already
// terminal at registration time.
type Callback[R any] func(*Future[R])

// Future represents the eventual outcome of exactly one task.
//
// A Future is shared between the submitter, the worker executing the task
// and any watchers; all methods are safe for concurrent use. State
// transitions are serialized under the future's own lock and are
// one-directional (see State). The producer side drives the future with
// SetRunning, SetResult and SetError; consumers use Get, TryGet, OnDone
// or select on Done.
//
// Type parameters:
//   - R: The result type produced by the task
type Future[R any] struct {
	mu        sync.Mutex
	state     State
	value     R
	err       error
	done      chan struct{}
	callbacks []Callback[R]
}

// New creates a future in the Pending state.
func New[R any]() *Future[R] {
	return &Future[R]{done: make(chan struct{})}
}

// State returns the current state. The value may be stale by the time the
// caller acts on it unless the state is terminal (terminal states are
// sticky).
func (f *Future[R]) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Done returns a channel that is closed when the future reaches a
// terminal state. It is intended for use in select statements.
func (f *Future[R]) Done() <-chan struct{} {
	return f.done
}

// IsDone reports whether the future is in a terminal state.
func (f *Future[R]) IsDone() bool {
	return f.State().Terminal()
}

// IsCancelled reports whether the future was cancelled.
func (f *Future[R]) IsCancelled() bool {
	return f.State() == Cancelled
}

// SetRunning transitions the future from Pending to Running. It is called
// by the worker that claims the task. If the future is not Pending (most
// commonly because it was cancelled before a worker picked it up) an
// error wrapping ErrInvalidState is returned and the worker must skip
// execution.
func (f *Future[R]) SetRunning() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != Pending {
		return fmt.Errorf("%w: cannot start from %s", ErrInvalidState, f.state)
	}
	f.state = Running
	return nil
}

// SetResult transitions the future from Running to Completed and stores
// the task's result. Returns an error wrapping ErrInvalidState if the
// future is not Running.
func (f *Future[R]) SetResult(v R) error {
	f.mu.Lock()
	if f.state != Running {
		s := f.state
		f.mu.Unlock()
		return fmt.Errorf("%w: cannot complete from %s", ErrInvalidState, s)
	}
	f.state = Completed
	f.value = v
	cbs := f.takeCallbacks()
	close(f.done)
	f.mu.Unlock()

	f.fire(cbs)
	return nil
}

// SetError transitions the future from Running to Failed and stores the
// task's error. Returns an error wrapping ErrInvalidState if the future
// is not Running.
func (f *Future[R]) SetError(err error) error {
	f.mu.Lock()
	if f.state != Running {
		s := f.state
		f.mu.Unlock()
		return fmt.Errorf("%w: cannot fail from %s", ErrInvalidState, s)
	}
	f.state = Failed
	f.err = err
	cbs := f.takeCallbacks()
	close(f.done)
	f.mu.Unlock()

	f.fire(cbs)
	return nil
}

// Cancel attempts to cancel the future. Only a Pending future can be
// cancelled; in-flight work cannot be interrupted. Returns true if the
// future transitioned to Cancelled, false if it was already Running or
// terminal (a no-op, not an error).
func (f *Future[R]) Cancel() bool {
	f.mu.Lock()
	if f.state != Pending {
		f.mu.Unlock()
		return false
	}
	f.state = Cancelled
	cbs := f.takeCallbacks()
	close(f.done)
	f.mu.Unlock()

	f.fire(cbs)
	return true
}

// Get blocks until the future reaches a terminal state and returns the
// outcome: the result for Completed, the captured error for Failed, or
// ErrCancelled for Cancelled.
func (f *Future[R]) Get() (R, error) {
	<-f.done
	return f.outcome()
}

// GetContext is like Get but aborts with ctx.Err() if the context is
// done first. The future itself is unaffected by an aborted wait.
func (f *Future[R]) GetContext(ctx context.Context) (R, error) {
	select {
	case <-f.done:
		return f.outcome()
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	}
}

// GetTimeout is like Get but returns ErrTimeout if the future does not
// reach a terminal state within d. A non-positive d makes the call a
// non-blocking probe. The future itself is unaffected and may still
// complete later.
func (f *Future[R]) GetTimeout(d time.Duration) (R, error) {
	if d <= 0 {
		select {
		case <-f.done:
			return f.outcome()
		default:
			var zero R
			return zero, ErrTimeout
		}
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-f.done:
		return f.outcome()
	case <-timer.C:
		var zero R
		return zero, ErrTimeout
	}
}

// TryGet is a non-blocking probe. The boolean reports whether the future
// was terminal; when false the value and error are zero.
func (f *Future[R]) TryGet() (R, error, bool) {
	select {
	case <-f.done:
		v, err := f.outcome()
		return v, err, true
	default:
		var zero R
		return zero, nil, false
	}
}

// Err returns the terminal error without blocking: the captured task
// error for Failed, ErrCancelled for Cancelled, and nil for Completed or
// any non-terminal state.
func (f *Future[R]) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch f.state {
	case Failed:
		return f.err
	case Cancelled:
		return ErrCancelled
	default:
		return nil
	}
}

// OnDone registers cb to be invoked exactly once when the future reaches
// a terminal state. Callbacks fire in registration order on the goroutine
// that performs the terminal transition. If the future is already
// terminal, cb is invoked synchronously before OnDone returns.
//
// Registration and the terminal transition exclude each other under the
// future's lock; the already-terminal invocation happens outside the
// lock, so a callback may safely call back into the future.
func (f *Future[R]) OnDone(cb Callback[R]) {
	f.mu.Lock()
	if f.state.Terminal() {
		f.mu.Unlock()
		cb(f)
		return
	}
	f.callbacks = append(f.callbacks, cb)
	f.mu.Unlock()
}

// takeCallbacks detaches the registered callbacks. Caller must hold f.mu.
func (f *Future[R]) takeCallbacks() []Callback[R] {
	cbs := f.callbacks
	f.callbacks = nil
	return cbs
}

// fire invokes callbacks in registration order, outside the lock.
func (f *Future[R]) fire(cbs []Callback[R]) {
	for _, cb := range cbs {
		cb(f)
	}
}

// outcome reads the terminal result. Only valid after done is closed.
func (f *Future[R]) outcome() (R, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch f.state {
	case Completed:
		return f.value, nil
	case Failed:
		var zero R
		return zero, f.err
	default:
		var zero R
		return zero, ErrCancelled
	}
}
