// Package models defines the records exchanged through the agentics
// directory tree between task producers and the orchestrator.
package models

import (
	"encoding/json"
	"time"
)

// WorkflowStatus is the lifecycle state recorded in a task's state file.
// The producer only ever writes the initial value; every later transition
// belongs to the orchestrator.
type WorkflowStatus string

const (
	WorkflowStatusInitialized   WorkflowStatus = "initialized"
	WorkflowStatusInProgress    WorkflowStatus = "in_progress"
	WorkflowStatusCompleted     WorkflowStatus = "completed"
	WorkflowStatusFailed        WorkflowStatus = "failed"
	WorkflowStatusStopRequested WorkflowStatus = "stop_requested"
)

// Terminal reports whether the status is an end state for the task. A
// stop-requested task counts: the runner abandons it there and never
// moves it further.
func (s WorkflowStatus) Terminal() bool {
	return s == WorkflowStatusCompleted || s == WorkflowStatusFailed || s == WorkflowStatusStopRequested
}

// ExecutionMode selects how a published task is picked up.
type ExecutionMode string

const (
	ExecutionModeAutomatic ExecutionMode = "automatic"
	ExecutionModeManual    ExecutionMode = "manual"
)

// TriggerSourceKanbanUI marks tasks published by the Kanban board producer.
const TriggerSourceKanbanUI = "kanban_ui"

// UIMetadata is an informational snapshot of the producer environment. The
// protocol never reads it back.
type UIMetadata struct {
	Browser   string `json:"browser,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// TaskState is the canonical per-task record persisted to state.json.
// Caller-supplied fields that the protocol does not know about are kept in
// Extra and round-trip unchanged through the state file.
type TaskState struct {
	TaskID            string         `json:"task_id"            validate:"required"`
	Stages            []string       `json:"stages,omitempty"`
	ExecutionMode     ExecutionMode  `json:"execution_mode"`
	TriggeredAt       time.Time      `json:"triggered_at"`
	KanbanIntegration bool           `json:"kanban_integration"`
	TriggerSource     string         `json:"trigger_source"`
	WorkflowStatus    WorkflowStatus `json:"workflow_status"`
	UIMetadata        UIMetadata     `json:"ui_metadata"`
	ErrorMessage      string         `json:"error_message,omitempty"`

	// Extra holds caller fields outside the protocol schema.
	Extra map[string]any `json:"-"`
}

// DefaultStages is the stage list applied when the caller supplies none.
var DefaultStages = []string{"plan", "implement"}

// knownTaskKeys are the JSON keys owned by the protocol schema; everything
// else in a state file belongs to Extra.
var knownTaskKeys = map[string]struct{}{
	"task_id":            {},
	"stages":             {},
	"execution_mode":     {},
	"triggered_at":       {},
	"kanban_integration": {},
	"trigger_source":     {},
	"workflow_status":    {},
	"ui_metadata":        {},
	"error_message":      {},
}

// MarshalJSON flattens Extra into the record. Protocol fields win on key
// collision so a caller cannot overwrite provenance or status.
func (t TaskState) MarshalJSON() ([]byte, error) {
	type taskStateAlias TaskState

	known, err := json.Marshal(taskStateAlias(t))
	if err != nil {
		return nil, err
	}

	var merged map[string]any
	if err := json.Unmarshal(known, &merged); err != nil {
		return nil, err
	}

	for key, value := range t.Extra {
		if _, owned := merged[key]; owned {
			continue
		}

		merged[key] = value
	}

	return json.Marshal(merged)
}

// UnmarshalJSON splits a state file back into protocol fields and Extra.
func (t *TaskState) UnmarshalJSON(data []byte) error {
	type taskStateAlias TaskState

	var alias taskStateAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	extra := make(map[string]any)

	for key, value := range raw {
		if _, owned := knownTaskKeys[key]; owned {
			continue
		}

		var decoded any
		if err := json.Unmarshal(value, &decoded); err != nil {
			return err
		}

		extra[key] = decoded
	}

	*t = TaskState(alias)
	if len(extra) > 0 {
		t.Extra = extra
	}

	return nil
}
