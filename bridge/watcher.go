package bridge

import (
	"sync"

	"github.com/drawbridge-io/drawbridge/future"
)

// Kind classifies a terminal notification.
type Kind int

const (
	// ResultReady reports a future that completed with a result.
	ResultReady Kind = iota
	// ExceptionReady reports a future that failed with an error.
	ExceptionReady
	// Cancelled reports a future that was cancelled before it ran.
	Cancelled
)

func (k Kind) String() string {
	switch k {
	case ResultReady:
		return "resultReady"
	case ExceptionReady:
		return "exceptionReady"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Notification is the record posted to the target for each watched
// future that reaches a terminal state.
type Notification[R any] struct {
	Future *future.Future[R]
	Kind   Kind
}

// Watcher observes futures produced on worker goroutines and marshals
// their terminal notifications onto a single-threaded consumer, so the
// consumer never performs any cross-thread synchronization itself.
//
// Terminal transitions are observed on the producer goroutine via the
// future's done callback; the watcher then posts one closure to the
// target per future. The post is the only cross-thread operation. The
// target drains posts in order, so notifications arrive in the order
// the watcher observed the terminal transitions, which with several
// workers is not necessarily submission order.
//
// Delivery is at most once per watched future: re-adding a future that
// this watcher has already seen is a no-op. Watching a future does not
// extend its lifetime or prevent its cancellation.
//
// Type parameters:
//   - R: The result type of the watched futures
type Watcher[R any] struct {
	target Target

	mu          sync.Mutex
	watched     map[*future.Future[R]]bool
	onResult    func(R)
	onError     func(error)
	onCancelled func(*future.Future[R])
	onDone      func(*future.Future[R])
	onFinished  func(*future.Future[R])
}

// NewWatcher creates a watcher delivering to target.
func NewWatcher[R any](target Target) *Watcher[R] {
	return &Watcher[R]{
		target:  target,
		watched: make(map[*future.Future[R]]bool),
	}
}

// OnResult sets the handler for futures that completed with a result.
// Runs on the target's goroutine. Chainable; set handlers before
// watching.
func (w *Watcher[R]) OnResult(fn func(R)) *Watcher[R] {
	w.mu.Lock()
	w.onResult = fn
	w.mu.Unlock()
	return w
}

// OnError sets the handler for futures that failed; it receives the
// captured task error. Runs on the target's goroutine.
func (w *Watcher[R]) OnError(fn func(error)) *Watcher[R] {
	w.mu.Lock()
	w.onError = fn
	w.mu.Unlock()
	return w
}

// OnCancelled sets the handler for futures cancelled before execution.
// Runs on the target's goroutine.
func (w *Watcher[R]) OnCancelled(fn func(*future.Future[R])) *Watcher[R] {
	w.mu.Lock()
	w.onCancelled = fn
	w.mu.Unlock()
	return w
}

// OnDone sets the generic completion handler; it fires for every
// terminal outcome, after the kind-specific handler in the same posted
// batch. Runs on the target's goroutine.
func (w *Watcher[R]) OnDone(fn func(*future.Future[R])) *Watcher[R] {
	w.mu.Lock()
	w.onDone = fn
	w.mu.Unlock()
	return w
}

// OnFinished sets the handler that fires last for every terminal
// outcome regardless of kind. Runs on the target's goroutine.
func (w *Watcher[R]) OnFinished(fn func(*future.Future[R])) *Watcher[R] {
	w.mu.Lock()
	w.onFinished = fn
	w.mu.Unlock()
	return w
}

// Watch registers interest in f. If f is already terminal the
// notification is scheduled immediately, but still through the posting
// mechanism, never inline, so ordering relative to other posted
// notifications is preserved. Watching the same future again is a
// no-op.
func (w *Watcher[R]) Watch(f *future.Future[R]) {
	w.mu.Lock()
	if w.watched[f] {
		w.mu.Unlock()
		return
	}
	w.watched[f] = true
	w.mu.Unlock()

	f.OnDone(w.observe)
}

// observe runs on the goroutine that performed the terminal transition
// (or on the Watch caller when the future was already terminal). Each
// watched future is observed exactly once, so exactly one notification
// is posted per future. A post refused by a stopped target is dropped.
func (w *Watcher[R]) observe(f *future.Future[R]) {
	n := Notification[R]{Future: f, Kind: kindOf(f)}
	_ = w.target.Post(func() {
		w.dispatch(n)
	})
}

// dispatch runs on the target's goroutine: the kind-specific handler
// first, then done, then finished, all within the same posted batch.
func (w *Watcher[R]) dispatch(n Notification[R]) {
	w.mu.Lock()
	onResult := w.onResult
	onError := w.onError
	onCancelled := w.onCancelled
	onDone := w.onDone
	onFinished := w.onFinished
	w.mu.Unlock()

	f := n.Future
	switch n.Kind {
	case ResultReady:
		if onResult != nil {
			v, _ := f.Get()
			onResult(v)
		}
	case ExceptionReady:
		if onError != nil {
			onError(f.Err())
		}
	case Cancelled:
		if onCancelled != nil {
			onCancelled(f)
		}
	}

	if onDone != nil {
		onDone(f)
	}
	if onFinished != nil {
		onFinished(f)
	}
}

func kindOf[R any](f *future.Future[R]) Kind {
	switch f.State() {
	case future.Completed:
		return ResultReady
	case future.Failed:
		return ExceptionReady
	default:
		return Cancelled
	}
}
