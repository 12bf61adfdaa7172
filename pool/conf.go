package pool

import (
	"fmt"
	"runtime"
	"time"

	"golang.org/x/time/rate"
)

// Option is a functional option for configuring an Executor.
type Option func(*config)

type config struct {
	minWorkers    int
	maxWorkers    int
	queueCapacity int
	idleTimeout   time.Duration
	shutdownWait  bool
	cancelPending bool
	nonBlocking   bool
	rateLimiter   *rate.Limiter
}

func defaultConfig() *config {
	return &config{
		minWorkers:   1,
		maxWorkers:   runtime.GOMAXPROCS(0),
		idleTimeout:  30 * time.Second,
		shutdownWait: true,
	}
}

func (c *config) validate() error {
	if c.minWorkers < 1 {
		return fmt.Errorf("pool: min workers must be at least 1, got %d", c.minWorkers)
	}
	if c.maxWorkers < c.minWorkers {
		return fmt.Errorf("pool: max workers (%d) below min workers (%d)",
			c.maxWorkers, c.minWorkers)
	}
	if c.queueCapacity < 0 {
		return fmt.Errorf("pool: queue capacity must not be negative, got %d", c.queueCapacity)
	}
	return nil
}

// WithWorkers fixes the pool size: exactly n live workers, no scaling.
// Equivalent to setting both WithMinWorkers(n) and WithMaxWorkers(n).
func WithWorkers(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.minWorkers = n
			cfg.maxWorkers = n
		}
	}
}

// WithMinWorkers sets the lower bound on live workers. The executor
// starts this many workers and never shrinks below it.
// If not specified, defaults to 1.
func WithMinWorkers(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.minWorkers = n
		}
	}
}

// WithMaxWorkers sets the upper bound on live workers. Extra workers are
// spawned while queued work is backlogged, up to this bound.
// If not specified, defaults to runtime.GOMAXPROCS(0).
func WithMaxWorkers(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.maxWorkers = n
		}
	}
}

// WithQueueCapacity bounds the work queue. A full bounded queue blocks
// Submit (or fails it, see WithNonBlockingSubmit). Zero means unbounded,
// which is the default.
func WithQueueCapacity(n int) Option {
	return func(cfg *config) {
		if n >= 0 {
			cfg.queueCapacity = n
		}
	}
}

// WithIdleTimeout sets how long a worker above the minimum waits for
// work before exiting. Only relevant when max workers exceeds min
// workers. If not specified, defaults to 30 seconds.
func WithIdleTimeout(d time.Duration) Option {
	return func(cfg *config) {
		if d > 0 {
			cfg.idleTimeout = d
		}
	}
}

// WithShutdownWait controls whether Shutdown blocks until all workers
// have exited (default true).
func WithShutdownWait(wait bool) Option {
	return func(cfg *config) {
		cfg.shutdownWait = wait
	}
}

// WithCancelPendingOnShutdown makes Shutdown cancel every queued task
// that has not started yet instead of draining and executing it.
// Already running tasks run to completion either way.
func WithCancelPendingOnShutdown(cancel bool) Option {
	return func(cfg *config) {
		cfg.cancelPending = cancel
	}
}

// WithNonBlockingSubmit makes Submit fail with ErrQueueFull instead of
// blocking when a bounded queue is full. Has no effect on unbounded
// queues.
func WithNonBlockingSubmit() Option {
	return func(cfg *config) {
		cfg.nonBlocking = true
	}
}

// WithRateLimit gates task execution at tasksPerSecond with the given
// burst. Useful for keeping a pool from overwhelming an external
// service. If not specified, no rate limiting is applied.
func WithRateLimit(tasksPerSecond float64, burst int) Option {
	return func(cfg *config) {
		if tasksPerSecond > 0 && burst > 0 {
			cfg.rateLimiter = rate.NewLimiter(rate.Limit(tasksPerSecond), burst)
		}
	}
}
