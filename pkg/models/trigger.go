package models

import "time"

// Trigger actions and statuses. The producer side only ever emits
// "execute"/"pending"; the orchestrator deletes the file instead of
// rewriting it.
const (
	TriggerActionExecute = "execute"
	TriggerStatusPending = "pending"
)

// TriggerRecord is the ephemeral marker file published under agentics/adws.
// Its existence is the whole signal: present means work is outstanding,
// absent means not yet requested or already picked up.
type TriggerRecord struct {
	TaskID    string    `json:"task_id"    validate:"required"`
	Action    string    `json:"action"     validate:"required"`
	TaskFile  string    `json:"task_file"  validate:"required"`
	CreatedAt time.Time `json:"created_at"`
	Status    string    `json:"status"`
}

// NewTriggerRecord builds a pending execute trigger pointing at taskFile,
// which must be relative to the trigger's own directory.
func NewTriggerRecord(taskID, taskFile string) *TriggerRecord {
	return &TriggerRecord{
		TaskID:    taskID,
		Action:    TriggerActionExecute,
		TaskFile:  taskFile,
		CreatedAt: time.Now().UTC(),
		Status:    TriggerStatusPending,
	}
}
