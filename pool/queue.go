package pool

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/eapache/queue"

	"github.com/drawbridge-io/drawbridge/future"
)

// item pairs a queued task with the future the submitter holds. The
// queue owns the item until a worker takes it; from then on the worker
// owns it for the duration of execution.
type item[R any] struct {
	task Task[R]
	fut  *future.Future[R]
}

// taskQueue is the FIFO handoff between Submit and the workers. Items
// come out in the order they went in.
type taskQueue[R any] interface {
	// put enqueues an item. When the queue is bounded and full, put
	// blocks if block is true and fails with ErrQueueFull otherwise.
	// Fails with errQueueClosed after close.
	put(it *item[R], block bool) error

	// take dequeues the next item, blocking while the queue is empty.
	// A positive idle duration bounds the wait: errQueueIdle is
	// returned when it elapses with no work. After close, take keeps
	// returning buffered items until the queue is empty, then
	// errQueueClosed.
	take(idle time.Duration) (*item[R], error)

	// drain removes and returns everything currently queued without
	// blocking.
	drain() []*item[R]

	// close stops intake and wakes all blocked takers. Idempotent.
	close()

	// len is the number of queued items.
	len() int
}

func newTaskQueue[R any](capacity int) taskQueue[R] {
	if capacity > 0 {
		return newChanQueue[R](capacity)
	}
	return newRingQueue[R]()
}

// chanQueue is the bounded queue: a buffered channel sized to the
// configured capacity, so a full queue exerts backpressure on Submit.
type chanQueue[R any] struct {
	ch     chan *item[R]
	quit   chan struct{}
	closed atomic.Bool
}

func newChanQueue[R any](capacity int) *chanQueue[R] {
	return &chanQueue[R]{
		ch:   make(chan *item[R], capacity),
		quit: make(chan struct{}),
	}
}

func (q *chanQueue[R]) put(it *item[R], block bool) error {
	if q.closed.Load() {
		return errQueueClosed
	}

	if !block {
		select {
		case q.ch <- it:
			return nil
		case <-q.quit:
			return errQueueClosed
		default:
			return ErrQueueFull
		}
	}

	select {
	case q.ch <- it:
		return nil
	case <-q.quit:
		return errQueueClosed
	}
}

func (q *chanQueue[R]) take(idle time.Duration) (*item[R], error) {
	// Buffered work is handed out even while shutting down so that the
	// drain-on-shutdown mode can execute it.
	select {
	case it := <-q.ch:
		return it, nil
	default:
	}

	if idle > 0 {
		timer := time.NewTimer(idle)
		defer timer.Stop()

		select {
		case it := <-q.ch:
			return it, nil
		case <-q.quit:
			return q.takeRemaining()
		case <-timer.C:
			return nil, errQueueIdle
		}
	}

	select {
	case it := <-q.ch:
		return it, nil
	case <-q.quit:
		return q.takeRemaining()
	}
}

// takeRemaining serves the channel buffer after close, then reports the
// queue closed.
func (q *chanQueue[R]) takeRemaining() (*item[R], error) {
	select {
	case it := <-q.ch:
		return it, nil
	default:
		return nil, errQueueClosed
	}
}

func (q *chanQueue[R]) drain() []*item[R] {
	var items []*item[R]
	for {
		select {
		case it := <-q.ch:
			items = append(items, it)
		default:
			return items
		}
	}
}

func (q *chanQueue[R]) close() {
	if q.closed.CompareAndSwap(false, true) {
		close(q.quit)
	}
}

func (q *chanQueue[R]) len() int {
	return len(q.ch)
}

// ringQueue is the unbounded queue: a growable ring buffer guarded by a
// mutex, with a wakeup channel for blocked takers.
type ringQueue[R any] struct {
	mu     sync.Mutex
	buf    *queue.Queue
	closed bool
	notify chan struct{}
	quit   chan struct{}
}

func newRingQueue[R any]() *ringQueue[R] {
	return &ringQueue[R]{
		buf:    queue.New(),
		notify: make(chan struct{}, 1),
		quit:   make(chan struct{}),
	}
}

func (q *ringQueue[R]) put(it *item[R], _ bool) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return errQueueClosed
	}
	q.buf.Add(it)
	q.mu.Unlock()

	q.wake()
	return nil
}

func (q *ringQueue[R]) take(idle time.Duration) (*item[R], error) {
	for {
		q.mu.Lock()
		if q.buf.Length() > 0 {
			it := q.buf.Remove().(*item[R])
			more := q.buf.Length() > 0
			q.mu.Unlock()
			if more {
				// Cascade the wakeup so a single notify cannot strand
				// other waiting workers while the buffer is non-empty.
				q.wake()
			}
			return it, nil
		}
		closed := q.closed
		q.mu.Unlock()

		if closed {
			return nil, errQueueClosed
		}

		if idle > 0 {
			timer := time.NewTimer(idle)
			select {
			case <-q.notify:
				timer.Stop()
			case <-q.quit:
				timer.Stop()
			case <-timer.C:
				return nil, errQueueIdle
			}
		} else {
			select {
			case <-q.notify:
			case <-q.quit:
			}
		}
	}
}

func (q *ringQueue[R]) drain() []*item[R] {
	q.mu.Lock()
	defer q.mu.Unlock()

	items := make([]*item[R], 0, q.buf.Length())
	for q.buf.Length() > 0 {
		items = append(items, q.buf.Remove().(*item[R]))
	}
	return items
}

func (q *ringQueue[R]) close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.mu.Unlock()

	close(q.quit)
}

func (q *ringQueue[R]) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.buf.Length()
}

func (q *ringQueue[R]) wake() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}
