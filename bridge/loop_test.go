package bridge

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestLoop_DrainsInPostOrder(t *testing.T) {
	loop := NewLoop(0)

	var mu sync.Mutex
	var got []int

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		loop.Run(context.Background())
	}()

	for i := 0; i < 100; i++ {
		i := i
		if err := loop.Post(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		}); err != nil {
			t.Fatalf("Post %d: %v", i, err)
		}
	}

	loop.Stop()
	select {
	case <-loopDone:
	case <-time.After(2 * time.Second):
		t.Fatal("loop never returned after Stop")
	}

	if len(got) != 100 {
		t.Fatalf("expected 100 executed posts, got %d", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("posts executed out of order: %v...", got[:i+1])
		}
	}
}

func TestLoop_StopDrainsPending(t *testing.T) {
	loop := NewLoop(16)

	var mu sync.Mutex
	count := 0
	for i := 0; i < 10; i++ {
		_ = loop.Post(func() {
			mu.Lock()
			count++
			mu.Unlock()
		})
	}

	loop.Stop()

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		loop.Run(context.Background())
	}()

	select {
	case <-loopDone:
	case <-time.After(2 * time.Second):
		t.Fatal("loop never returned")
	}

	mu.Lock()
	defer mu.Unlock()
	if count != 10 {
		t.Errorf("expected all 10 pending posts executed, got %d", count)
	}
}

func TestLoop_PostAfterStop(t *testing.T) {
	loop := NewLoop(0)
	loop.Stop()
	loop.Stop() // idempotent

	if err := loop.Post(func() {}); !errors.Is(err, ErrStopped) {
		t.Errorf("expected ErrStopped, got %v", err)
	}
}

func TestLoop_SurvivesPanickingCallback(t *testing.T) {
	loop := NewLoop(0)

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		loop.Run(context.Background())
	}()

	survived := make(chan struct{})
	_ = loop.Post(func() { panic("consumer bug") })
	_ = loop.Post(func() { close(survived) })

	select {
	case <-survived:
	case <-time.After(2 * time.Second):
		t.Fatal("loop died on a panicking callback")
	}

	loop.Stop()
	<-loopDone
}

func TestLoop_ContextEndsRun(t *testing.T) {
	loop := NewLoop(0)
	ctx, cancel := context.WithCancel(context.Background())

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		loop.Run(ctx)
	}()

	cancel()
	select {
	case <-loopDone:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return on context cancellation")
	}
}
