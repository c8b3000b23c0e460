package orchestrator

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dukex/agentics/pkg/eventbus"
	"github.com/dukex/agentics/pkg/events"
	"github.com/dukex/agentics/pkg/handoff"
	"github.com/dukex/agentics/pkg/models"
)

// Scanner polls the adws directory for trigger files and hands each
// discovered task to the runner over the event bus. Picked-up triggers are
// removed; there is no acknowledgment step between publication and removal,
// which mirrors the producer side's cleanup contract.
type Scanner struct {
	layout   handoff.Layout
	triggers *handoff.TriggerRepository
	states   *handoff.StateRepository
	bus      eventbus.EventBus
	logger   *slog.Logger

	// processed guards against re-publishing a task whose trigger
	// removal failed on a previous pass.
	processed map[string]struct{}
}

func NewScanner(root string, bus eventbus.EventBus, logger *slog.Logger) *Scanner {
	return &Scanner{
		layout:    handoff.NewLayout(root),
		triggers:  handoff.NewTriggerRepository(root),
		states:    handoff.NewStateRepository(root),
		bus:       bus,
		logger:    logger.With("module", "trigger_scanner"),
		processed: make(map[string]struct{}),
	}
}

// Run polls at the given interval until the context is cancelled.
func (s *Scanner) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := s.Scan(ctx); err != nil {
				s.logger.ErrorContext(ctx, "Trigger scan failed", "error", err)
			}
		}
	}
}

// Scan performs a single pass over the trigger directory.
func (s *Scanner) Scan(ctx context.Context) error {
	taskIDs, err := s.triggers.List(ctx)
	if err != nil {
		return err
	}

	for _, taskID := range taskIDs {
		if _, seen := s.processed[taskID]; seen {
			continue
		}

		if err := s.pickUp(ctx, taskID); err != nil {
			s.logger.WarnContext(ctx, "Failed to pick up trigger", "taskId", taskID, "error", err)
		}
	}

	return nil
}

func (s *Scanner) pickUp(ctx context.Context, taskID string) error {
	triggerPath := s.layout.TriggerFilePath(taskID)

	body, err := os.ReadFile(triggerPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return err
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return err
	}

	if err := validateTriggerPayload(payload); err != nil {
		return err
	}

	var record models.TriggerRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return err
	}

	// The trigger's task_file is relative to the trigger's own directory.
	taskFile := filepath.Join(s.layout.ADWSPath(), record.TaskFile)
	if _, err := os.Stat(taskFile); err != nil {
		// State not visible yet; leave the trigger for the next pass.
		return err
	}

	state, err := s.states.Load(ctx, record.TaskID)
	if err != nil {
		return err
	}

	if state == nil {
		return handoff.NewTaskError("PickUp", record.TaskID, handoff.ErrTaskNotFound)
	}

	if record.TaskID != taskID {
		s.logger.WarnContext(ctx, "Trigger filename does not match its task_id",
			"taskId", record.TaskID,
			"triggerFile", handoff.TriggerFileName(taskID))
	}

	discovered := events.TaskDiscovered{
		BaseEvent: events.BaseEvent{
			ID:        s.bus.GenerateID(),
			Type:      events.TaskDiscoveredEvent,
			Timestamp: time.Now().UTC(),
			TaskID:    record.TaskID,
		},
		TriggerFile: handoff.TriggerFileName(taskID),
		State:       state,
	}

	if err := s.bus.Publish(ctx, record.TaskID, discovered); err != nil {
		return err
	}

	// Bookkeeping keys on the filename-derived id, not the embedded one:
	// it names the file that was actually read, so removal targets that
	// file and the guard matches what List returns on the next pass.
	s.processed[taskID] = struct{}{}

	if err := s.triggers.Remove(ctx, taskID); err != nil {
		s.logger.WarnContext(ctx, "Failed to remove picked-up trigger", "taskId", record.TaskID, "error", err)
	} else {
		s.logger.InfoContext(ctx, "Picked up trigger", "taskId", record.TaskID)
	}

	return nil
}
