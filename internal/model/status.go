package model

// TaskStatus represents the status of a download task
type TaskStatus string

const (
	// TaskStatusPending means the task is created but the transfer has not started
	TaskStatusPending TaskStatus = "Pending"

	// TaskStatusInProgress means bytes are being transferred from the device
	TaskStatusInProgress TaskStatus = "InProgress"

	// TaskStatusCompleted means the file is present at the destination path
	TaskStatusCompleted TaskStatus = "Completed"

	// TaskStatusFailed means the transfer failed with an error
	TaskStatusFailed TaskStatus = "Failed"

	// TaskStatusCancelled means the task was cancelled by the caller or superseded
	TaskStatusCancelled TaskStatus = "Cancelled"
)

// String returns the string representation of TaskStatus
func (ts TaskStatus) String() string {
	return string(ts)
}

// IsActive returns true if the task is transferring
func (ts TaskStatus) IsActive() bool {
	return ts == TaskStatusInProgress
}

// IsFinished returns true if the task is in a terminal state (completed, failed, or cancelled)
func (ts TaskStatus) IsFinished() bool {
	return ts == TaskStatusCompleted || ts == TaskStatusFailed || ts == TaskStatusCancelled
}

// CanTransitionTo reports whether a task in status ts may move to next.
// Terminal states never transition.
func (ts TaskStatus) CanTransitionTo(next TaskStatus) bool {
	switch ts {
	case TaskStatusPending:
		return next == TaskStatusInProgress || next.IsFinished()
	case TaskStatusInProgress:
		return next.IsFinished()
	default:
		return false
	}
}
