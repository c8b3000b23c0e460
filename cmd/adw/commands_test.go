package main

import (
	"testing"

	"github.com/dukex/agentics/pkg/handoff"
	"github.com/dukex/agentics/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestWatchDone(t *testing.T) {
	done := []string{
		string(models.WorkflowStatusCompleted),
		string(models.WorkflowStatusFailed),
		string(models.WorkflowStatusStopRequested),
		handoff.StatusError,
	}
	for _, status := range done {
		assert.True(t, watchDone(handoff.ExecutionStatus{Status: status}), status)
	}

	waiting := []string{
		handoff.StatusInitializing,
		string(models.WorkflowStatusInitialized),
		string(models.WorkflowStatusInProgress),
	}
	for _, status := range waiting {
		assert.False(t, watchDone(handoff.ExecutionStatus{Status: status}), status)
	}
}

func TestParseFields(t *testing.T) {
	assert.Nil(t, parseFields(nil))

	fields := parseFields([]string{"ticket=PROJ-7", "notes=a=b"})
	assert.Equal(t, map[string]any{"ticket": "PROJ-7", "notes": "a=b"}, fields)
}
