package pool

import "errors"

var (
	// ErrShutdown is returned by Submit once shutdown has begun, and by
	// Shutdown itself when called more than once. Submissions racing
	// with shutdown fail fast rather than queue.
	ErrShutdown = errors.New("pool: executor is shut down")

	// ErrQueueFull is returned by Submit when the queue is bounded,
	// full, and the executor was configured with WithNonBlockingSubmit.
	ErrQueueFull = errors.New("pool: queue is full")

	// ErrShutdownTimeout is returned by Shutdown when workers did not
	// finish within the given timeout.
	ErrShutdownTimeout = errors.New("pool: error in shutting down: timeout reached")

	// errQueueClosed is the internal signal that the queue is closed
	// and fully drained; it makes workers exit.
	errQueueClosed = errors.New("pool: queue is closed")

	// errQueueIdle is the internal signal that a blocking take hit the
	// idle timeout without receiving work.
	errQueueIdle = errors.New("pool: queue idle")
)
