package models

// TaskState is the lifecycle state of a tracked agent task. A task is
// created Pending and moves exactly once into one of the terminal states
// during reconciliation.
type TaskState string

const (
	Pending  TaskState = "pending"
	Ready    TaskState = "ready"
	TimedOut TaskState = "timed_out" // dead state, call abandoned
	Failed   TaskState = "failed"    // dead state, gateway error
)

// Terminal reports whether the state is one a task never leaves.
func (s TaskState) Terminal() bool {
	return s == Ready || s == TimedOut || s == Failed
}
