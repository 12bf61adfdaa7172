package bridge

import (
	"context"
	"errors"
	"sync/atomic"
)

// ErrStopped is returned by Post after the loop has been stopped.
var ErrStopped = errors.New("bridge: loop is stopped")

// Target is the consumer integration contract: anything that can accept
// a cross-thread post and drain the posted functions, in order, on its
// own single goroutine. Post must be safe to call from any goroutine.
//
// Loop is the default implementation; GUI toolkits and other event-loop
// frameworks can satisfy Target with their own run loops instead.
type Target interface {
	Post(fn func()) error
}

// Loop is a single-goroutine event loop: functions posted from any
// goroutine are executed one at a time, in post order, by whichever
// goroutine calls Run. It is the default notification target for a
// Watcher.
type Loop struct {
	mailbox chan func()
	quit    chan struct{}
	stopped atomic.Bool
}

// NewLoop creates a loop with the given mailbox size. A non-positive
// size selects the default of 256.
func NewLoop(size int) *Loop {
	if size <= 0 {
		size = 256
	}
	return &Loop{
		mailbox: make(chan func(), size),
		quit:    make(chan struct{}),
	}
}

// Post schedules fn to run on the loop goroutine. It blocks while the
// mailbox is full and returns ErrStopped once the loop has been
// stopped. Safe to call from any goroutine.
func (l *Loop) Post(fn func()) error {
	if l.stopped.Load() {
		return ErrStopped
	}

	select {
	case l.mailbox <- fn:
		return nil
	case <-l.quit:
		return ErrStopped
	}
}

// Run drains the mailbox on the calling goroutine until ctx is done or
// Stop is called. On Stop, functions already posted are still executed
// before Run returns. A panicking function is contained; it does not
// take the loop down.
func (l *Loop) Run(ctx context.Context) {
	for {
		select {
		case fn := <-l.mailbox:
			l.invoke(fn)
		case <-ctx.Done():
			return
		case <-l.quit:
			l.drain()
			return
		}
	}
}

// Stop ends the loop. Idempotent; pending posts are drained by Run
// before it returns.
func (l *Loop) Stop() {
	if l.stopped.CompareAndSwap(false, true) {
		close(l.quit)
	}
}

func (l *Loop) drain() {
	for {
		select {
		case fn := <-l.mailbox:
			l.invoke(fn)
		default:
			return
		}
	}
}

// invoke runs a posted function under recover. Consumer callbacks are
// the consumer's responsibility; a panic in one must not kill the loop.
func (l *Loop) invoke(fn func()) {
	defer func() {
		_ = recover()
	}()
	fn()
}
