package models

import "time"

// TaskState tracks a generation task through the poller state machine.
// TimedOut is deliberately distinct from Failed: the upstream job may still be
// running after the gateway gives up on it.
type TaskState string

const (
	TaskSubmitted TaskState = "SUBMITTED"
	TaskPolling   TaskState = "POLLING"
	TaskCompleted TaskState = "COMPLETED"
	TaskFailed    TaskState = "FAILED"
	TaskTimedOut  TaskState = "TIMED_OUT"
	TaskCancelled TaskState = "CANCELLED"
)

// Terminal reports whether no further state transitions are possible.
func (s TaskState) Terminal() bool {
	switch s {
	case TaskCompleted, TaskFailed, TaskTimedOut, TaskCancelled:
		return true
	}
	return false
}

// GenerationTask is the gateway-local view of one asynchronous generation job.
// It is owned by the poller invocation that created it and mutated only by
// polling responses.
type GenerationTask struct {
	ID         string     `json:"id"`
	UpstreamID string     `json:"-"`
	State      TaskState  `json:"status"`
	Progress   int        `json:"progress"`
	Message    string     `json:"message"`
	Result     *Timetable `json:"result,omitempty"`
	Error      string     `json:"error,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}
