package future

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// WaitAll blocks until every given future has reached a terminal state,
// or until ctx is done, in which case the first context error is
// returned. The futures themselves are unaffected by an aborted wait.
func WaitAll[R any](ctx context.Context, futs ...*Future[R]) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, f := range futs {
		f := f
		g.Go(func() error {
			select {
			case <-f.Done():
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}
	return g.Wait()
}

// AsCompleted returns a channel yielding the given futures in the order
// they reach a terminal state. The channel is closed once all futures
// have been yielded or ctx is done; futures still pending when ctx ends
// are never yielded.
func AsCompleted[R any](ctx context.Context, futs ...*Future[R]) <-chan *Future[R] {
	out := make(chan *Future[R], len(futs))

	var wg sync.WaitGroup
	for _, f := range futs {
		f := f
		wg.Add(1)
		go func() {
			defer wg.Done()
			select {
			case <-f.Done():
				out <- f
			case <-ctx.Done():
			}
		}()
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}
