package handoff

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/dukex/agentics/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriggerRepository_PublishAndLoad(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	repo := NewTriggerRepository(root)

	record, err := repo.Publish(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", record.TaskID)
	assert.Equal(t, models.TriggerActionExecute, record.Action)
	assert.Equal(t, "../agents/abc123/state.json", record.TaskFile)
	assert.Equal(t, models.TriggerStatusPending, record.Status)

	loaded, err := repo.Load(ctx, "abc123")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, record.TaskID, loaded.TaskID)
	assert.Equal(t, record.TaskFile, loaded.TaskFile)
}

func TestTriggerRepository_TaskFileResolvesToStateFile(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	layout := NewLayout(root)

	require.NoError(t, NewStateRepository(root).Save(ctx, &models.TaskState{TaskID: "abc123"}))

	record, err := NewTriggerRepository(root).Publish(ctx, "abc123")
	require.NoError(t, err)

	resolved := filepath.Join(layout.ADWSPath(), record.TaskFile)

	body, err := os.ReadFile(resolved)
	require.NoError(t, err)
	assert.True(t, json.Valid(body))
	assert.Equal(t, filepath.Clean(layout.StateFilePath("abc123")), filepath.Clean(resolved))
}

func TestTriggerRepository_RepublishOverwrites(t *testing.T) {
	ctx := context.Background()
	repo := NewTriggerRepository(t.TempDir())

	first, err := repo.Publish(ctx, "abc123")
	require.NoError(t, err)

	second, err := repo.Publish(ctx, "abc123")
	require.NoError(t, err)
	assert.False(t, second.CreatedAt.Before(first.CreatedAt))

	ids, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"abc123"}, ids)
}

func TestTriggerRepository_RemoveIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewTriggerRepository(t.TempDir())

	_, err := repo.Publish(ctx, "abc123")
	require.NoError(t, err)

	require.NoError(t, repo.Remove(ctx, "abc123"))

	// Second removal is a no-op success: the desired end state is
	// already satisfied.
	require.NoError(t, repo.Remove(ctx, "abc123"))

	loaded, err := repo.Load(ctx, "abc123")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestTriggerRepository_ListEmptyTree(t *testing.T) {
	repo := NewTriggerRepository(t.TempDir())

	ids, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}
