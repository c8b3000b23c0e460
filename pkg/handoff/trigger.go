package handoff

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dukex/agentics/pkg/models"
)

// TriggerRepository publishes and removes the trigger markers under
// agentics/adws that signal outstanding work to the orchestrator.
type TriggerRepository struct {
	layout Layout
}

func NewTriggerRepository(root string) *TriggerRepository {
	return &TriggerRepository{layout: NewLayout(root)}
}

// Publish writes the trigger record for a task. The filename is derived
// from the task id, so republishing overwrites the previous marker: that is
// the retry semantics, re-requesting execution. Publish never checks for a
// pre-existing trigger. The state file must already be written; Publish
// only records the relative path to it.
func (r *TriggerRepository) Publish(_ context.Context, taskID string) (*models.TriggerRecord, error) {
	if taskID == "" {
		return nil, NewTaskError("PublishTrigger", taskID, ErrMissingTaskID)
	}

	if _, _, err := EnsureDir(r.layout.AgenticsPath(), ADWSDir); err != nil {
		return nil, NewTaskError("PublishTrigger", taskID, err)
	}

	record := models.NewTriggerRecord(taskID, TaskFileRelPath(taskID))

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return nil, NewTaskError("PublishTrigger", taskID, fmt.Errorf("failed to marshal trigger: %w", err))
	}

	if err := writeFileSync(r.layout.TriggerFilePath(taskID), data); err != nil {
		return nil, NewTaskError("PublishTrigger", taskID, err)
	}

	return record, nil
}

// Load reads a task's trigger record. A missing trigger returns (nil, nil):
// absence means not yet requested or already picked up, and the two are
// indistinguishable by design.
func (r *TriggerRepository) Load(_ context.Context, taskID string) (*models.TriggerRecord, error) {
	body, err := os.ReadFile(r.layout.TriggerFilePath(taskID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, NewTaskError("LoadTrigger", taskID, err)
	}

	var record models.TriggerRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, NewTaskError("LoadTrigger", taskID, fmt.Errorf("%w: %v", ErrMalformedTrigger, err))
	}

	return &record, nil
}

// Remove deletes a task's trigger marker. A missing marker is success: the
// desired end state, no trigger exists, is already satisfied.
func (r *TriggerRepository) Remove(_ context.Context, taskID string) error {
	err := os.Remove(r.layout.TriggerFilePath(taskID))
	if err != nil && os.IsNotExist(err) {
		return nil
	}

	if err != nil {
		return NewTaskError("RemoveTrigger", taskID, err)
	}

	return nil
}

// List returns the task ids of every trigger currently published.
func (r *TriggerRepository) List(_ context.Context) ([]string, error) {
	root := os.DirFS(r.layout.ADWSPath())

	files, err := fs.Glob(root, TriggerFilePrefix+"*"+TriggerFileSuffix)
	if err != nil {
		return nil, fmt.Errorf("failed to list triggers: %w", err)
	}

	ids := make([]string, 0, len(files))

	for _, file := range files {
		name := strings.TrimSuffix(filepath.Base(file), TriggerFileSuffix)
		ids = append(ids, strings.TrimPrefix(name, TriggerFilePrefix))
	}

	return ids, nil
}
