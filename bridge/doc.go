// Package bridge delivers future-completion notifications from worker
// goroutines to a single designated consumer goroutine, in order,
// without the consumer touching any worker state.
//
// A Watcher[R] subscribes to futures and, when each one reaches a
// terminal state, posts a notification to a Target. The Target contract
// is deliberately small: a thread-safe Post plus an ordered,
// single-goroutine drain. Loop is the built-in Target for programs
// without an event-loop framework of their own; a GUI main loop can
// implement Target instead.
//
//	loop := bridge.NewLoop(0)
//
//	watcher := bridge.NewWatcher[int](loop).
//	    OnResult(func(v int) { fmt.Println("result:", v) }).
//	    OnError(func(err error) { fmt.Println("failed:", err) }).
//	    OnDone(func(*future.Future[int]) { loop.Stop() })
//
//	f, _ := exec.Submit(work)
//	watcher.Watch(f)
//
//	loop.Run(context.Background()) // consumer goroutine drains here
//
// Per watched future the consumer sees the kind-specific handler
// (OnResult, OnError or OnCancelled), then OnDone, then OnFinished, all
// in one posted batch. Across futures, delivery follows the order in
// which the watcher observed the terminal transitions. Each future is
// reported at most once per watcher, even if re-added.
package bridge
