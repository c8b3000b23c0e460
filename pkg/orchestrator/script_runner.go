package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/dukex/agentics/pkg/models"
)

// ScriptRunner executes stages as pipeline scripts: for stage "plan" it
// looks for <pipelinesDir>/plan.sh and invokes it with the task id as the
// only argument. Tasks naming a stage with no script skip that stage; the
// stage list is caller data, not a contract the tree must satisfy.
type ScriptRunner struct {
	pipelinesDir string
	logger       *slog.Logger
}

func NewScriptRunner(pipelinesDir string, logger *slog.Logger) *ScriptRunner {
	return &ScriptRunner{
		pipelinesDir: pipelinesDir,
		logger:       logger.With("module", "script_runner"),
	}
}

func (r *ScriptRunner) RunStage(ctx context.Context, state *models.TaskState, stage string) error {
	script := filepath.Join(r.pipelinesDir, stage+".sh")

	if _, err := os.Stat(script); err != nil {
		if os.IsNotExist(err) {
			r.logger.WarnContext(ctx, "No pipeline script for stage, skipping",
				"taskId", state.TaskID, "stage", stage)

			return nil
		}

		return fmt.Errorf("failed to stat pipeline script %s: %w", script, err)
	}

	cmd := exec.CommandContext(ctx, script, state.TaskID)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("stage %s failed: %w: %s", stage, err, string(output))
	}

	r.logger.InfoContext(ctx, "Stage finished", "taskId", state.TaskID, "stage", stage)

	return nil
}
