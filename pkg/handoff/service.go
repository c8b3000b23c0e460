package handoff

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dukex/agentics/pkg/adwconfig"
	"github.com/dukex/agentics/pkg/models"
)

// ExecutionStatus is the structured result of a status poll. It is always
// returned, never thrown: a missing tree degrades to "initializing" and a
// half-written record degrades to "error", so polling loops stay alive.
type ExecutionStatus struct {
	Found  bool              `json:"found"`
	Status string            `json:"status"`
	State  *models.TaskState `json:"state,omitempty"`
	Error  string            `json:"error,omitempty"`
}

// StatusInitializing is reported while no task record is visible yet.
// "Not yet started" and "genuinely missing" are indistinguishable without
// an out-of-band signal, so both map here.
const StatusInitializing = "initializing"

// StatusError is reported for a located but unparseable record.
const StatusError = "error"

// StopResult is the structured result of a cancellation request.
type StopResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Service is the producer-side face of the handoff protocol, wired over a
// single root directory with the configuration store injected.
type Service struct {
	layout   Layout
	states   *StateRepository
	triggers *TriggerRepository
	signals  *SignalRepository
	config   *adwconfig.Store
	logger   *slog.Logger
}

func NewService(root string, config *adwconfig.Store, logger *slog.Logger) *Service {
	return &Service{
		layout:   NewLayout(root),
		states:   NewStateRepository(root),
		triggers: NewTriggerRepository(root),
		signals:  NewSignalRepository(root),
		config:   config,
		logger:   logger.With("module", "handoff"),
	}
}

// ExecuteWorkflow publishes a task: it writes the state record, then the
// trigger marker. The state write completes before the trigger is
// published; a trigger must never reference a record that is not yet
// visible. The calls are sequenced, not locked: two producers publishing
// the same task id interleave with last-write-wins on both files.
func (s *Service) ExecuteWorkflow(ctx context.Context, state *models.TaskState) (*models.TaskState, error) {
	config := s.config.Get(ctx)

	if !config.AutoExecute {
		if !config.FallbackToManual {
			return nil, NewTaskError("ExecuteWorkflow", state.TaskID, errors.New("auto execution disabled"))
		}

		state.ExecutionMode = models.ExecutionModeManual
	}

	if err := s.states.Save(ctx, state); err != nil {
		return nil, err
	}

	if _, err := s.triggers.Publish(ctx, state.TaskID); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Published workflow execution request",
		"taskId", state.TaskID,
		"executionMode", state.ExecutionMode)

	return state, nil
}

// AutoExecutionSupported reports whether the root can host the agentics
// tree. Capability problems surface as false, not as an error.
func (s *Service) AutoExecutionSupported(ctx context.Context) bool {
	if _, _, err := EnsureDir(s.layout.Root(), AgenticsDir); err != nil {
		s.logger.WarnContext(ctx, "Root does not support auto execution", "error", err)

		return false
	}

	if _, _, err := EnsureDir(s.layout.AgenticsPath(), ADWSDir); err != nil {
		return false
	}

	if _, _, err := EnsureDir(s.layout.AgenticsPath(), AgentsDir); err != nil {
		return false
	}

	return true
}

// GetExecutionStatus polls the current state of a task.
func (s *Service) GetExecutionStatus(ctx context.Context, taskID string) ExecutionStatus {
	state, err := s.states.Load(ctx, taskID)
	if err != nil {
		if errors.Is(err, ErrMalformedState) {
			// Likely a partial write by the orchestrator; report it
			// without killing the polling loop.
			return ExecutionStatus{Found: true, Status: StatusError, Error: err.Error()}
		}

		s.logger.WarnContext(ctx, "Failed to read task state", "taskId", taskID, "error", err)

		return ExecutionStatus{Found: false, Status: StatusInitializing}
	}

	if state == nil {
		return ExecutionStatus{Found: false, Status: StatusInitializing}
	}

	return ExecutionStatus{
		Found:  true,
		Status: string(state.WorkflowStatus),
		State:  state,
	}
}

// StopExecution writes the cooperative cancellation sentinel. It is
// fire-and-forget: the result says the sentinel is durably visible,
// nothing about when or whether the orchestrator honors it.
func (s *Service) StopExecution(ctx context.Context, taskID string) StopResult {
	if err := s.signals.RequestStop(ctx, taskID); err != nil {
		s.logger.WarnContext(ctx, "Failed to write stop signal", "taskId", taskID, "error", err)

		return StopResult{Success: false, Error: err.Error()}
	}

	return StopResult{Success: true}
}

// CleanupExecution removes the task's trigger marker, best-effort. A
// missing marker is already the desired end state; any other failure is
// logged and swallowed so cleanup never blocks completion flows.
func (s *Service) CleanupExecution(ctx context.Context, taskID string) {
	if err := s.triggers.Remove(ctx, taskID); err != nil {
		s.logger.WarnContext(ctx, "Failed to remove trigger", "taskId", taskID, "error", err)
	}
}

// ExecutionConfig returns the persisted protocol configuration, falling
// back to defaults when nothing usable is stored.
func (s *Service) ExecutionConfig(ctx context.Context) models.ExecutionConfig {
	return s.config.Get(ctx)
}

// SaveExecutionConfig persists the configuration wholesale.
func (s *Service) SaveExecutionConfig(ctx context.Context, config models.ExecutionConfig) bool {
	return s.config.Set(ctx, config)
}

// States exposes the state repository for collaborators that share the
// same tree, such as the orchestrator runner.
func (s *Service) States() *StateRepository {
	return s.states
}

// Triggers exposes the trigger repository.
func (s *Service) Triggers() *TriggerRepository {
	return s.triggers
}

// Signals exposes the stop-signal repository.
func (s *Service) Signals() *SignalRepository {
	return s.signals
}
