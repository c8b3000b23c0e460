package orchestrator

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/dukex/agentics/pkg/handoff"
	"github.com/dukex/agentics/pkg/models"
)

// Sweeper removes task directories whose workflow reached completed and
// whose state file has not changed for longer than maxAge. It runs on a
// cron schedule in the orchestrator daemon when cleanupAfterCompletion is
// enabled.
type Sweeper struct {
	layout handoff.Layout
	states *handoff.StateRepository
	maxAge time.Duration
	logger *slog.Logger
}

func NewSweeper(root string, maxAge time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		layout: handoff.NewLayout(root),
		states: handoff.NewStateRepository(root),
		maxAge: maxAge,
		logger: logger.With("module", "task_sweeper"),
	}
}

// Sweep performs one pass and returns how many task directories were
// removed. Failed tasks are kept for inspection; only completed ones age
// out.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	taskIDs, err := s.states.ListTaskIDs(ctx)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-s.maxAge)
	removed := 0

	for _, taskID := range taskIDs {
		state, err := s.states.Load(ctx, taskID)
		if err != nil || state == nil {
			continue
		}

		if state.WorkflowStatus != models.WorkflowStatusCompleted {
			continue
		}

		info, err := os.Stat(s.layout.StateFilePath(taskID))
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}

		if err := os.RemoveAll(s.layout.TaskDir(taskID)); err != nil {
			s.logger.WarnContext(ctx, "Failed to remove aged task directory", "taskId", taskID, "error", err)

			continue
		}

		s.logger.InfoContext(ctx, "Removed aged completed task", "taskId", taskID)

		removed++
	}

	return removed, nil
}
