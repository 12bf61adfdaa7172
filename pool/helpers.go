package pool

import "time"

// waitUntil blocks until either the done channel is closed or the
// timeout is reached. A non-positive timeout waits forever. It is used
// during graceful shutdown to wait for workers to finish their tasks.
func waitUntil(done <-chan struct{}, timeout time.Duration) error {
	if timeout <= 0 {
		<-done
		return nil
	}

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return ErrShutdownTimeout
	}
}
