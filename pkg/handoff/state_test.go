package handoff

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/dukex/agentics/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateRepository_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	repo := NewStateRepository(root)

	state := &models.TaskState{
		TaskID: "abc123",
		Extra:  map[string]any{"title": "Ship the feature"},
	}

	require.NoError(t, repo.Save(ctx, state))

	// Protocol metadata was merged into the record.
	assert.Equal(t, models.ExecutionModeAutomatic, state.ExecutionMode)
	assert.Equal(t, models.WorkflowStatusInitialized, state.WorkflowStatus)
	assert.Equal(t, models.TriggerSourceKanbanUI, state.TriggerSource)
	assert.True(t, state.KanbanIntegration)
	assert.False(t, state.TriggeredAt.IsZero())
	assert.NotEmpty(t, state.UIMetadata.SessionID)
	assert.Equal(t, models.DefaultStages, state.Stages)

	loaded, err := repo.Load(ctx, "abc123")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "abc123", loaded.TaskID)
	assert.Equal(t, "Ship the feature", loaded.Extra["title"])
}

func TestStateRepository_SaveRequiresTaskID(t *testing.T) {
	repo := NewStateRepository(t.TempDir())

	err := repo.Save(context.Background(), &models.TaskState{})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestStateRepository_SaveWritesPrettyPrintedJSON(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	repo := NewStateRepository(root)

	require.NoError(t, repo.Save(ctx, &models.TaskState{TaskID: "abc123"}))

	body, err := os.ReadFile(NewLayout(root).StateFilePath("abc123"))
	require.NoError(t, err)
	assert.Contains(t, string(body), "\n  \"task_id\"")
	assert.True(t, json.Valid(body))
}

func TestStateRepository_LoadMissingReturnsNil(t *testing.T) {
	repo := NewStateRepository(t.TempDir())

	state, err := repo.Load(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestStateRepository_LoadMalformedState(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	layout := NewLayout(root)

	_, _, err := EnsureDir(layout.AgentsPath(), "abc123")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(layout.StateFilePath("abc123"), []byte("{broken"), 0600))

	_, err = NewStateRepository(root).Load(ctx, "abc123")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedState)
}

func TestStateRepository_ListTaskIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewStateRepository(t.TempDir())

	ids, err := repo.ListTaskIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, repo.Save(ctx, &models.TaskState{TaskID: "task-1"}))
	require.NoError(t, repo.Save(ctx, &models.TaskState{TaskID: "task-2"}))

	ids, err = repo.ListTaskIDs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"task-1", "task-2"}, ids)
}

func TestStateRepository_CallerStatusPreserved(t *testing.T) {
	ctx := context.Background()
	repo := NewStateRepository(t.TempDir())

	state := &models.TaskState{
		TaskID:         "abc123",
		WorkflowStatus: models.WorkflowStatusInProgress,
	}
	require.NoError(t, repo.Save(ctx, state))

	loaded, err := repo.Load(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, models.WorkflowStatusInProgress, loaded.WorkflowStatus)
}
