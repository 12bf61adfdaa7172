package bridge

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/drawbridge-io/drawbridge/future"
	"github.com/drawbridge-io/drawbridge/pool"
)

// runLoop starts a loop on its own goroutine and returns a stop
// function that waits for the drain to finish.
func runLoop(t *testing.T, loop *Loop) func() {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		loop.Run(context.Background())
	}()
	return func() {
		loop.Stop()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("loop never stopped")
		}
	}
}

func TestWatcher_ResultReady(t *testing.T) {
	loop := NewLoop(0)
	stop := runLoop(t, loop)

	var mu sync.Mutex
	var events []string

	watcher := NewWatcher[int](loop).
		OnResult(func(v int) {
			mu.Lock()
			events = append(events, "resultReady")
			mu.Unlock()
			if v != 42 {
				t.Errorf("expected 42, got %d", v)
			}
		}).
		OnError(func(error) { t.Error("unexpected exceptionReady") }).
		OnCancelled(func(*future.Future[int]) { t.Error("unexpected cancelled") }).
		OnDone(func(*future.Future[int]) {
			mu.Lock()
			events = append(events, "done")
			mu.Unlock()
		}).
		OnFinished(func(*future.Future[int]) {
			mu.Lock()
			events = append(events, "finished")
			mu.Unlock()
		})

	f := future.New[int]()
	watcher.Watch(f)

	_ = f.SetRunning()
	_ = f.SetResult(42)

	stop()

	mu.Lock()
	defer mu.Unlock()
	want := []string{"resultReady", "done", "finished"}
	if len(events) != len(want) {
		t.Fatalf("expected events %v, got %v", want, events)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("expected events %v, got %v", want, events)
		}
	}
}

func TestWatcher_ExceptionReady(t *testing.T) {
	loop := NewLoop(0)
	stop := runLoop(t, loop)

	boom := errors.New("task exploded")
	var mu sync.Mutex
	var received error
	doneFired := false

	watcher := NewWatcher[int](loop).
		OnResult(func(int) { t.Error("unexpected resultReady") }).
		OnError(func(err error) {
			mu.Lock()
			received = err
			mu.Unlock()
		}).
		OnDone(func(*future.Future[int]) {
			mu.Lock()
			doneFired = true
			mu.Unlock()
		})

	f := future.New[int]()
	watcher.Watch(f)
	_ = f.SetRunning()
	_ = f.SetError(boom)

	stop()

	mu.Lock()
	defer mu.Unlock()
	if !errors.Is(received, boom) {
		t.Errorf("expected %v, got %v", boom, received)
	}
	if !doneFired {
		t.Error("done must fire for a failed future")
	}
}

func TestWatcher_Cancelled(t *testing.T) {
	loop := NewLoop(0)
	stop := runLoop(t, loop)

	var mu sync.Mutex
	cancelledFired := false

	watcher := NewWatcher[int](loop).
		OnResult(func(int) { t.Error("unexpected resultReady") }).
		OnError(func(error) { t.Error("unexpected exceptionReady") }).
		OnCancelled(func(f *future.Future[int]) {
			mu.Lock()
			cancelledFired = true
			mu.Unlock()
			if !f.IsCancelled() {
				t.Error("future must be cancelled in the handler")
			}
		})

	f := future.New[int]()
	watcher.Watch(f)
	f.Cancel()

	stop()

	mu.Lock()
	defer mu.Unlock()
	if !cancelledFired {
		t.Error("cancelled handler never fired")
	}
}

func TestWatcher_AtMostOncePerFuture(t *testing.T) {
	loop := NewLoop(0)
	stop := runLoop(t, loop)

	var mu sync.Mutex
	deliveries := 0

	watcher := NewWatcher[int](loop).
		OnDone(func(*future.Future[int]) {
			mu.Lock()
			deliveries++
			mu.Unlock()
		})

	f := future.New[int]()
	watcher.Watch(f)
	watcher.Watch(f) // second registration of the identical handle

	_ = f.SetRunning()
	_ = f.SetResult(1)

	watcher.Watch(f) // re-added after completion

	stop()

	mu.Lock()
	defer mu.Unlock()
	if deliveries != 1 {
		t.Fatalf("expected exactly 1 delivery, got %d", deliveries)
	}
}

func TestWatcher_AlreadyTerminalGoesThroughTheLoop(t *testing.T) {
	loop := NewLoop(16)

	delivered := make(chan struct{})
	watcher := NewWatcher[int](loop).
		OnResult(func(int) { close(delivered) })

	f := future.New[int]()
	_ = f.SetRunning()
	_ = f.SetResult(5)

	// The loop is not running yet: watching a terminal future must post
	// the notification, never deliver inline.
	watcher.Watch(f)
	select {
	case <-delivered:
		t.Fatal("notification delivered inline instead of through the loop")
	case <-time.After(50 * time.Millisecond):
	}

	stop := runLoop(t, loop)
	select {
	case <-delivered:
	case <-time.After(2 * time.Second):
		t.Fatal("notification never delivered once the loop ran")
	}
	stop()
}

func TestWatcher_DeliveryFollowsObservationOrder(t *testing.T) {
	loop := NewLoop(16)

	var mu sync.Mutex
	var order []int

	watcher := NewWatcher[int](loop).
		OnResult(func(v int) {
			mu.Lock()
			order = append(order, v)
			mu.Unlock()
		})

	first := future.New[int]()
	second := future.New[int]()
	watcher.Watch(first)
	watcher.Watch(second)

	// Terminal transitions observed second-then-first; delivery must
	// match that order, not the watch order.
	_ = second.SetRunning()
	_ = second.SetResult(2)
	_ = first.SetRunning()
	_ = first.SetResult(1)

	stop := runLoop(t, loop)
	stop()

	mu.Lock()
	defer mu.Unlock()
	if len(order) != 2 || order[0] != 2 || order[1] != 1 {
		t.Fatalf("expected delivery order [2 1], got %v", order)
	}
}

func TestWatcher_WithExecutor(t *testing.T) {
	// End to end: worker goroutines complete futures, the consumer
	// observes every outcome on the loop goroutine.
	exec, err := pool.New[int](pool.WithWorkers(3))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = exec.Shutdown(2 * time.Second) }()

	loop := NewLoop(0)
	stop := runLoop(t, loop)

	const n = 20
	var mu sync.Mutex
	seen := make(map[int]bool)
	all := make(chan struct{})

	watcher := NewWatcher[int](loop).
		OnResult(func(v int) {
			mu.Lock()
			seen[v] = true
			if len(seen) == n {
				close(all)
			}
			mu.Unlock()
		}).
		OnError(func(err error) { t.Errorf("unexpected failure: %v", err) })

	for i := 0; i < n; i++ {
		i := i
		f, err := exec.Submit(func(ctx context.Context) (int, error) {
			time.Sleep(time.Duration(i%4) * time.Millisecond)
			return i, nil
		})
		if err != nil {
			t.Fatalf("Submit %d: %v", i, err)
		}
		watcher.Watch(f)
	}

	select {
	case <-all:
	case <-time.After(5 * time.Second):
		t.Fatal("not all completions were delivered")
	}
	stop()

	mu.Lock()
	defer mu.Unlock()
	for i := 0; i < n; i++ {
		if !seen[i] {
			t.Errorf("result %d never delivered", i)
		}
	}
}
