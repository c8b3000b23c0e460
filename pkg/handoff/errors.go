package handoff

import (
	"errors"
	"fmt"
)

// Standard protocol error types.
var (
	// ErrMissingTaskID indicates a task payload without the required task_id.
	ErrMissingTaskID = errors.New("task_id is required")

	// ErrTaskNotFound indicates no state file exists for the given task.
	ErrTaskNotFound = errors.New("task not found")

	// ErrMalformedState indicates a state file exists but could not be parsed.
	ErrMalformedState = errors.New("malformed state file")

	// ErrMalformedTrigger indicates a trigger file exists but could not be parsed.
	ErrMalformedTrigger = errors.New("malformed trigger file")
)

// TaskError wraps protocol errors with operation and task context.
type TaskError struct {
	Op     string // Operation being performed (e.g. "SaveState", "Publish")
	TaskID string
	Err    error
}

func (e *TaskError) Error() string {
	if e.TaskID == "" {
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	}

	return fmt.Sprintf("%s failed for task %s: %v", e.Op, e.TaskID, e.Err)
}

func (e *TaskError) Unwrap() error {
	return e.Err
}

func (e *TaskError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewTaskError creates a task error with context.
func NewTaskError(op, taskID string, err error) *TaskError {
	return &TaskError{
		Op:     op,
		TaskID: taskID,
		Err:    err,
	}
}

// IsValidationError checks if an error indicates invalid caller input.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrMissingTaskID)
}

// IsTaskNotFound checks if an error indicates a missing task record.
func IsTaskNotFound(err error) bool {
	return errors.Is(err, ErrTaskNotFound)
}
