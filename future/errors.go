package future

import "errors"

var (
	// ErrInvalidState is returned when an illegal state transition is
	// attempted, e.g. completing a future twice or marking a cancelled
	// future as running. Errors returned from SetRunning, SetResult and
	// SetError wrap this sentinel; match with errors.Is.
	ErrInvalidState = errors.New("future: invalid state transition")

	// ErrCancelled is returned from Get and its variants when the
	// future was cancelled before it could run.
	ErrCancelled = errors.New("future: cancelled")

	// ErrTimeout is returned from GetTimeout when the timeout elapsed
	// before the future reached a terminal state. The future itself is
	// unaffected and may still complete later.
	ErrTimeout = errors.New("future: wait timed out")
)
