package handoff

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dukex/agentics/pkg/models"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// StateRepository persists and loads per-task state files under
// agentics/agents/<task_id>/state.json.
type StateRepository struct {
	layout   Layout
	validate *validator.Validate
}

func NewStateRepository(root string) *StateRepository {
	return &StateRepository{
		layout:   NewLayout(root),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Save merges protocol metadata into the caller-supplied record and writes
// it pretty-printed to the task's state file. The file is synced and closed
// before Save returns: trigger publication depends on the record being
// durably visible first.
func (r *StateRepository) Save(ctx context.Context, state *models.TaskState) error {
	if err := r.validate.Struct(state); err != nil {
		return NewTaskError("SaveState", state.TaskID, ErrMissingTaskID)
	}

	r.applyProtocolDefaults(state)

	if _, _, err := EnsureDir(r.layout.AgentsPath(), state.TaskID); err != nil {
		return NewTaskError("SaveState", state.TaskID, err)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return NewTaskError("SaveState", state.TaskID, fmt.Errorf("failed to marshal state: %w", err))
	}

	if err := writeFileSync(r.layout.StateFilePath(state.TaskID), data); err != nil {
		return NewTaskError("SaveState", state.TaskID, err)
	}

	return nil
}

// Load reads a task's state file. A missing file returns (nil, nil); a
// present but unparseable file returns ErrMalformedState so callers can
// report "error" instead of "missing".
func (r *StateRepository) Load(_ context.Context, taskID string) (*models.TaskState, error) {
	body, err := os.ReadFile(r.layout.StateFilePath(taskID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, NewTaskError("LoadState", taskID, err)
	}

	var state models.TaskState
	if err := json.Unmarshal(body, &state); err != nil {
		return nil, NewTaskError("LoadState", taskID, fmt.Errorf("%w: %v", ErrMalformedState, err))
	}

	return &state, nil
}

// ListTaskIDs returns the ids of all task directories under agentics/agents.
func (r *StateRepository) ListTaskIDs(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(r.layout.AgentsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to list agents directory: %w", err)
	}

	ids := make([]string, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() {
			ids = append(ids, entry.Name())
		}
	}

	return ids, nil
}

// applyProtocolDefaults fills the write-once protocol fields the caller
// left empty.
func (r *StateRepository) applyProtocolDefaults(state *models.TaskState) {
	if state.Stages == nil {
		state.Stages = append([]string(nil), models.DefaultStages...)
	}

	if state.ExecutionMode == "" {
		state.ExecutionMode = models.ExecutionModeAutomatic
	}

	if state.TriggeredAt.IsZero() {
		state.TriggeredAt = time.Now().UTC()
	}

	if state.TriggerSource == "" {
		state.TriggerSource = models.TriggerSourceKanbanUI
		state.KanbanIntegration = true
	}

	if state.WorkflowStatus == "" {
		state.WorkflowStatus = models.WorkflowStatusInitialized
	}

	if state.UIMetadata.SessionID == "" {
		state.UIMetadata.SessionID = uuid.New().String()
	}

	if state.UIMetadata.Timestamp == "" {
		state.UIMetadata.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
}

// writeFileSync writes data and fsyncs before closing, so the content is
// durably visible to the polling orchestrator when the call returns.
func writeFileSync(path string, data []byte) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}

	if _, err := file.Write(data); err != nil {
		_ = file.Close()

		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err := file.Sync(); err != nil {
		_ = file.Close()

		return fmt.Errorf("failed to sync %s: %w", path, err)
	}

	return file.Close()
}
