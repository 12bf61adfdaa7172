package future

// State is the lifecycle state of a Future.
//
// The state machine is one-directional:
//
//	Pending --SetRunning--> Running --SetResult--> Completed
//	Pending --SetRunning--> Running --SetError---> Failed
//	Pending --Cancel-----> Cancelled
//
// Completed, Failed and Cancelled are terminal; no transition leaves them.
type State int32

const (
	// Pending means the future has been created but its task has not
	// started executing yet. This is the only state Cancel succeeds from.
	Pending State = iota

	// Running means a worker has claimed the task and is executing it.
	Running

	// Cancelled means the future was cancelled before execution started.
	Cancelled

	// Completed means the task returned normally; the result is available.
	Completed

	// Failed means the task returned an error; the error is available.
	Failed
)

// Terminal reports whether s is one of the terminal states
// (Cancelled, Completed or Failed).
func (s State) Terminal() bool {
	switch s {
	case Cancelled, Completed, Failed:
		return true
	default:
		return false
	}
}

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Running:
		return "running"
	case Cancelled:
		return "cancelled"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}
