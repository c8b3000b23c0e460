// Package adwconfig persists the protocol's execution configuration in an
// injected key-value store, so lifecycle and tests never depend on ambient
// global state.
package adwconfig

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/dukex/agentics/pkg/kv"
	"github.com/dukex/agentics/pkg/models"
)

// Key is where the serialized ExecutionConfig lives in the store.
const Key = "adw_execution_config"

// Store reads and writes the execution configuration. Get never fails:
// absence and corruption both fall back to defaults. Set reports success
// as a boolean so callers can treat persistence as best-effort.
type Store struct {
	kv     kv.Store
	logger *slog.Logger
}

func NewStore(store kv.Store, logger *slog.Logger) *Store {
	return &Store{
		kv:     store,
		logger: logger.With("module", "adwconfig"),
	}
}

// Get returns the stored configuration or the documented defaults when the
// value is absent, unparseable, or invalid.
func (s *Store) Get(ctx context.Context) models.ExecutionConfig {
	value, err := s.kv.Get(ctx, Key)
	if err != nil {
		if !errors.Is(err, kv.ErrKeyNotFound) {
			s.logger.WarnContext(ctx, "Failed to read execution config, using defaults", "error", err)
		}

		return models.DefaultExecutionConfig()
	}

	var config models.ExecutionConfig
	if err := json.Unmarshal(value, &config); err != nil {
		s.logger.WarnContext(ctx, "Stored execution config is corrupt, using defaults", "error", err)

		return models.DefaultExecutionConfig()
	}

	if !config.Valid() {
		s.logger.WarnContext(ctx, "Stored execution config is invalid, using defaults",
			"pollingInterval", config.PollingInterval)

		return models.DefaultExecutionConfig()
	}

	return config
}

// Set overwrites the stored configuration wholesale.
func (s *Store) Set(ctx context.Context, config models.ExecutionConfig) bool {
	if !config.Valid() {
		s.logger.WarnContext(ctx, "Refusing to persist invalid execution config",
			"pollingInterval", config.PollingInterval)

		return false
	}

	value, err := json.Marshal(config)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to serialize execution config", "error", err)

		return false
	}

	if err := s.kv.Set(ctx, Key, value); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist execution config", "error", err)

		return false
	}

	return true
}
