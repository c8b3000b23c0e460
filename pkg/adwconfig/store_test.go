package adwconfig

import (
	"context"
	"log/slog"
	"testing"

	"github.com/dukex/agentics/pkg/kv"
	"github.com/dukex/agentics/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, kv.Store) {
	t.Helper()

	fileStore, err := kv.NewFileStore(t.TempDir())
	require.NoError(t, err)

	return NewStore(fileStore, slog.Default()), fileStore
}

func TestStore_GetReturnsDefaultsWhenAbsent(t *testing.T) {
	store, _ := newTestStore(t)

	config := store.Get(context.Background())
	assert.Equal(t, models.DefaultExecutionConfig(), config)
}

func TestStore_GetReturnsDefaultsWhenCorrupt(t *testing.T) {
	ctx := context.Background()
	store, backing := newTestStore(t)

	require.NoError(t, backing.Set(ctx, Key, []byte("{not json")))

	config := store.Get(ctx)
	assert.Equal(t, models.DefaultExecutionConfig(), config)
}

func TestStore_GetReturnsDefaultsWhenInvalid(t *testing.T) {
	ctx := context.Background()
	store, backing := newTestStore(t)

	require.NoError(t, backing.Set(ctx, Key, []byte(`{"pollingInterval":0}`)))

	config := store.Get(ctx)
	assert.Equal(t, models.DefaultExecutionConfig(), config)
}

func TestStore_SetThenGetRoundTrips(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	saved := models.ExecutionConfig{
		AutoExecute:            false,
		FallbackToManual:       true,
		CleanupAfterCompletion: false,
		PollingInterval:        500,
	}

	assert.True(t, store.Set(ctx, saved))
	assert.Equal(t, saved, store.Get(ctx))
}

func TestStore_SetRejectsInvalidConfig(t *testing.T) {
	store, _ := newTestStore(t)

	invalid := models.ExecutionConfig{PollingInterval: -1}
	assert.False(t, store.Set(context.Background(), invalid))
}
