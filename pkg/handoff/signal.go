package handoff

import (
	"context"
	"os"
	"time"

	"github.com/dukex/agentics/pkg/models"
)

// SignalRepository manages the stop_signal.txt sentinel inside a task
// directory. The sentinel is strictly advisory: writing it guarantees only
// that it becomes durably visible, never that the orchestrator acts on it.
type SignalRepository struct {
	layout Layout
}

func NewSignalRepository(root string) *SignalRepository {
	return &SignalRepository{layout: NewLayout(root)}
}

// RequestStop writes the cancellation sentinel for a task.
func (r *SignalRepository) RequestStop(_ context.Context, taskID string) error {
	if taskID == "" {
		return NewTaskError("RequestStop", taskID, ErrMissingTaskID)
	}

	if _, _, err := EnsureDir(r.layout.AgentsPath(), taskID); err != nil {
		return NewTaskError("RequestStop", taskID, err)
	}

	content := models.FormatStopSignal(time.Now())

	if err := writeFileSync(r.layout.StopSignalPath(taskID), []byte(content)); err != nil {
		return NewTaskError("RequestStop", taskID, err)
	}

	return nil
}

// StopRequested reports whether a cancellation sentinel exists for the
// task, along with the embedded request time when parseable.
func (r *SignalRepository) StopRequested(_ context.Context, taskID string) (time.Time, bool, error) {
	body, err := os.ReadFile(r.layout.StopSignalPath(taskID))
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, false, nil
		}

		return time.Time{}, false, NewTaskError("StopRequested", taskID, err)
	}

	return models.ParseStopSignal(string(body)), true, nil
}
