// Package future provides a small, generic future: a thread-safe handle
// to the eventual result or error of a task executed on another
// goroutine.
//
// A Future[R] moves through a one-directional state machine:
//
//	Pending -> Running -> Completed (result available)
//	Pending -> Running -> Failed    (error captured)
//	Pending -> Cancelled            (never executed)
//
// The terminal states are sticky: once a future is Completed, Failed or
// Cancelled its state never changes again, and at most one goroutine can
// perform the terminal transition.
//
// # Producer side
//
// The worker executing a task drives the future:
//
//	f := future.New[int]()
//	if err := f.SetRunning(); err != nil {
//	    return // cancelled before it could start
//	}
//	v, err := doWork()
//	if err != nil {
//	    f.SetError(err)
//	} else {
//	    f.SetResult(v)
//	}
//
// # Consumer side
//
// Consumers can block, poll or register callbacks:
//
//	v, err := f.Get()                          // block until terminal
//	v, err = f.GetTimeout(2 * time.Second)     // ErrTimeout if too slow
//	v, err, ok := f.TryGet()                   // non-blocking probe
//	f.OnDone(func(f *future.Future[int]) { ... })
//
// Cancellation is cooperative: Cancel succeeds only while the future is
// still Pending. Running work is never interrupted.
//
// WaitAll and AsCompleted coordinate over several futures at once.
package future
