package future

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWaitAll(t *testing.T) {
	t.Run("waits for every future", func(t *testing.T) {
		futs := make([]*Future[int], 5)
		for i := range futs {
			futs[i] = New[int]()
		}

		for i, f := range futs {
			i, f := i, f
			go func() {
				time.Sleep(time.Duration(i) * 10 * time.Millisecond)
				_ = f.SetRunning()
				_ = f.SetResult(i)
			}()
		}

		if err := WaitAll(context.Background(), futs...); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for i, f := range futs {
			if !f.IsDone() {
				t.Errorf("future %d not terminal after WaitAll", i)
			}
		}
	})

	t.Run("context aborts the wait", func(t *testing.T) {
		f := New[int]() // never settled
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		err := WaitAll(ctx, f)
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("expected DeadlineExceeded, got %v", err)
		}
		if f.IsDone() {
			t.Error("aborted wait must not affect the future")
		}
	})

	t.Run("no futures", func(t *testing.T) {
		if err := WaitAll[int](context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestAsCompleted(t *testing.T) {
	t.Run("yields in completion order", func(t *testing.T) {
		fast := New[string]()
		slow := New[string]()

		out := AsCompleted(context.Background(), slow, fast)

		go func() {
			_ = fast.SetRunning()
			_ = fast.SetResult("fast")
			time.Sleep(50 * time.Millisecond)
			_ = slow.SetRunning()
			_ = slow.SetResult("slow")
		}()

		first := <-out
		v, _ := first.Get()
		if v != "fast" {
			t.Errorf("expected fast future first, got %q", v)
		}

		second := <-out
		v, _ = second.Get()
		if v != "slow" {
			t.Errorf("expected slow future second, got %q", v)
		}

		if _, open := <-out; open {
			t.Error("channel must close after all futures are yielded")
		}
	})

	t.Run("context stops the stream", func(t *testing.T) {
		settled := New[string]()
		_ = settled.SetRunning()
		_ = settled.SetResult("done")
		stuck := New[string]() // never settled

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		out := AsCompleted(ctx, settled, stuck)

		yielded := 0
		for range out {
			yielded++
		}
		if yielded != 1 {
			t.Errorf("expected 1 yielded future, got %d", yielded)
		}
	})
}
