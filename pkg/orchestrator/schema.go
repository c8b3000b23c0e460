// Package orchestrator implements the out-of-process side of the handoff
// protocol: it polls the agentics tree for trigger files, executes the
// referenced tasks stage by stage, and reports progress back through the
// task state files.
package orchestrator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

var ErrInvalidTrigger = errors.New("trigger file failed schema validation")

// triggerSchema guards the orchestrator against half-written or foreign
// JSON files in the adws directory.
var triggerSchema = map[string]any{
	"type":     "object",
	"required": []string{"task_id", "action", "task_file"},
	"properties": map[string]any{
		"task_id": map[string]any{
			"type":      "string",
			"minLength": 1,
		},
		"action": map[string]any{
			"type": "string",
			"enum": []string{"execute"},
		},
		"task_file": map[string]any{
			"type":      "string",
			"minLength": 1,
		},
		"created_at": map[string]any{
			"type": "string",
		},
		"status": map[string]any{
			"type": "string",
		},
	},
}

func validateTriggerPayload(payload map[string]any) error {
	schemaLoader := gojsonschema.NewGoLoader(triggerSchema)
	dataLoader := gojsonschema.NewGoLoader(payload)

	result, err := gojsonschema.Validate(schemaLoader, dataLoader)
	if err != nil {
		return fmt.Errorf("failed to validate trigger: %w", err)
	}

	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}

		return fmt.Errorf("%w: %s", ErrInvalidTrigger, strings.Join(details, "; "))
	}

	return nil
}
