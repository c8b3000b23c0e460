package web

import "github.com/dukex/agentics/pkg/models"

// ExecuteRequest is the POST /executions payload. Task id is required;
// every other field rides along into the task record untouched.
type ExecuteRequest struct {
	TaskID string         `json:"task_id" validate:"required"`
	Stages []string       `json:"stages,omitempty"`
	Fields map[string]any `json:"fields,omitempty"`
}

// ExecuteResponse reports the published task.
type ExecuteResponse struct {
	TaskID        string               `json:"task_id"`
	ExecutionMode models.ExecutionMode `json:"execution_mode"`
	Status        string               `json:"status"`
	TriggerFile   string               `json:"trigger_file"`
}
