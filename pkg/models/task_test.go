package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskState_MarshalMergesExtraFields(t *testing.T) {
	state := TaskState{
		TaskID:            "abc123",
		ExecutionMode:     ExecutionModeAutomatic,
		TriggeredAt:       time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		KanbanIntegration: true,
		TriggerSource:     TriggerSourceKanbanUI,
		WorkflowStatus:    WorkflowStatusInitialized,
		Extra: map[string]any{
			"title":    "Fix login flow",
			"priority": "high",
		},
	}

	data, err := json.Marshal(state)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "abc123", decoded["task_id"])
	assert.Equal(t, "Fix login flow", decoded["title"])
	assert.Equal(t, "high", decoded["priority"])
	assert.Equal(t, "initialized", decoded["workflow_status"])
}

func TestTaskState_ExtraCannotOverrideProtocolFields(t *testing.T) {
	state := TaskState{
		TaskID:         "abc123",
		WorkflowStatus: WorkflowStatusInitialized,
		Extra: map[string]any{
			"workflow_status": "completed",
			"task_id":         "spoofed",
		},
	}

	data, err := json.Marshal(state)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "abc123", decoded["task_id"])
	assert.Equal(t, "initialized", decoded["workflow_status"])
}

func TestTaskState_RoundTrip(t *testing.T) {
	original := TaskState{
		TaskID:            "task-42",
		Stages:            []string{"plan", "implement"},
		ExecutionMode:     ExecutionModeManual,
		TriggeredAt:       time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		KanbanIntegration: true,
		TriggerSource:     TriggerSourceKanbanUI,
		WorkflowStatus:    WorkflowStatusInProgress,
		UIMetadata: UIMetadata{
			Browser:   "firefox",
			SessionID: "session-1",
		},
		Extra: map[string]any{
			"description": "migrate the database",
		},
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var restored TaskState
	require.NoError(t, json.Unmarshal(data, &restored))

	assert.Equal(t, original.TaskID, restored.TaskID)
	assert.Equal(t, original.Stages, restored.Stages)
	assert.Equal(t, original.ExecutionMode, restored.ExecutionMode)
	assert.True(t, original.TriggeredAt.Equal(restored.TriggeredAt))
	assert.Equal(t, original.WorkflowStatus, restored.WorkflowStatus)
	assert.Equal(t, original.UIMetadata, restored.UIMetadata)
	assert.Equal(t, "migrate the database", restored.Extra["description"])
}

func TestWorkflowStatus_Terminal(t *testing.T) {
	assert.True(t, WorkflowStatusCompleted.Terminal())
	assert.True(t, WorkflowStatusFailed.Terminal())
	assert.False(t, WorkflowStatusInitialized.Terminal())
	assert.False(t, WorkflowStatusInProgress.Terminal())
	assert.True(t, WorkflowStatusStopRequested.Terminal())
}

func TestStopSignal_Format(t *testing.T) {
	requestedAt := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)

	content := FormatStopSignal(requestedAt)
	assert.Equal(t, "STOP_REQUESTED_AT_2025-06-01T12:30:00Z", content)

	parsed := ParseStopSignal(content)
	assert.True(t, requestedAt.Equal(parsed))
}

func TestStopSignal_ParseMalformed(t *testing.T) {
	assert.True(t, ParseStopSignal("garbage").IsZero())
	assert.True(t, ParseStopSignal("STOP_REQUESTED_AT_not-a-time").IsZero())
}

func TestNewTriggerRecord(t *testing.T) {
	record := NewTriggerRecord("abc123", "../agents/abc123/state.json")

	assert.Equal(t, "abc123", record.TaskID)
	assert.Equal(t, TriggerActionExecute, record.Action)
	assert.Equal(t, "../agents/abc123/state.json", record.TaskFile)
	assert.Equal(t, TriggerStatusPending, record.Status)
	assert.False(t, record.CreatedAt.IsZero())
}

func TestDefaultExecutionConfig(t *testing.T) {
	cfg := DefaultExecutionConfig()

	assert.True(t, cfg.AutoExecute)
	assert.True(t, cfg.FallbackToManual)
	assert.True(t, cfg.CleanupAfterCompletion)
	assert.Equal(t, 2000, cfg.PollingInterval)
	assert.Equal(t, 2*time.Second, cfg.PollingDuration())
	assert.True(t, cfg.Valid())
}
