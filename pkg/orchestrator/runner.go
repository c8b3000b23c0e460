package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dukex/agentics/pkg/eventbus"
	"github.com/dukex/agentics/pkg/events"
	"github.com/dukex/agentics/pkg/handoff"
	"github.com/dukex/agentics/pkg/models"
	"github.com/dukex/agentics/pkg/otelhelper"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// StageRunner executes a single stage of a task.
type StageRunner interface {
	RunStage(ctx context.Context, state *models.TaskState, stage string) error
}

// StageRunnerFunc adapts a function to the StageRunner interface.
type StageRunnerFunc func(ctx context.Context, state *models.TaskState, stage string) error

func (f StageRunnerFunc) RunStage(ctx context.Context, state *models.TaskState, stage string) error {
	return f(ctx, state, stage)
}

// Runner consumes discovered tasks from the event bus and drives them
// through their stages, checking the stop sentinel between stages and
// recording every status transition in the task's state file.
type Runner struct {
	states  *handoff.StateRepository
	signals *handoff.SignalRepository
	bus     eventbus.EventBus
	stages  StageRunner
	tracer  trace.Tracer
	logger  *slog.Logger
}

func NewRunner(root string, bus eventbus.EventBus, stages StageRunner, logger *slog.Logger) *Runner {
	return &Runner{
		states:  handoff.NewStateRepository(root),
		signals: handoff.NewSignalRepository(root),
		bus:     bus,
		stages:  stages,
		tracer:  noop.NewTracerProvider().Tracer("agentics"),
		logger:  logger.With("module", "task_runner"),
	}
}

// WithTracer replaces the no-op tracer, typically with an OTLP-backed one.
func (r *Runner) WithTracer(tracer trace.Tracer) *Runner {
	r.tracer = tracer

	return r
}

// Register subscribes the runner to task discovery events.
func (r *Runner) Register() {
	r.bus.Handle(events.TaskDiscoveredEvent, r.handleTaskDiscovered)
}

func (r *Runner) handleTaskDiscovered(ctx context.Context, event any) error {
	discovered, ok := event.(*events.TaskDiscovered)
	if !ok {
		return fmt.Errorf("unexpected event payload %T", event)
	}

	return r.Execute(ctx, discovered.State)
}

// Execute runs a task to a terminal status. Stage failures and observed
// stop requests are recorded in the state file, not returned: the message
// is acked either way, since retrying would re-run side effects.
func (r *Runner) Execute(ctx context.Context, state *models.TaskState) error {
	if state == nil || state.TaskID == "" {
		return handoff.NewTaskError("Execute", "", handoff.ErrMissingTaskID)
	}

	ctx, span := otelhelper.StartSpan(ctx, r.tracer, "task.execute",
		attribute.String(otelhelper.TaskIDKey, state.TaskID))
	defer span.End()

	startedAt := time.Now()

	if err := r.transition(ctx, state, models.WorkflowStatusInProgress, ""); err != nil {
		otelhelper.SetError(span, err)

		return err
	}

	r.publish(ctx, state.TaskID, events.TaskStarted{BaseEvent: r.baseEvent(events.TaskStartedEvent, state.TaskID)})

	for _, stage := range state.Stages {
		requestedAt, stopRequested, err := r.signals.StopRequested(ctx, state.TaskID)
		if err != nil {
			r.logger.WarnContext(ctx, "Failed to check stop signal", "taskId", state.TaskID, "error", err)
		}

		if stopRequested {
			r.logger.InfoContext(ctx, "Stop requested, abandoning task", "taskId", state.TaskID, "stage", stage)

			if err := r.transition(ctx, state, models.WorkflowStatusStopRequested, ""); err != nil {
				return err
			}

			r.publish(ctx, state.TaskID, events.TaskStopRequested{
				BaseEvent:   r.baseEvent(events.TaskStopRequestedEvent, state.TaskID),
				RequestedAt: requestedAt,
			})

			return nil
		}

		stageCtx, stageSpan := otelhelper.StartSpan(ctx, r.tracer, "task.stage",
			attribute.String(otelhelper.TaskIDKey, state.TaskID),
			attribute.String(otelhelper.StageKey, stage))

		err = r.stages.RunStage(stageCtx, state, stage)
		if err != nil {
			otelhelper.SetError(stageSpan, err)
			stageSpan.End()

			r.logger.ErrorContext(ctx, "Stage failed", "taskId", state.TaskID, "stage", stage, "error", err)

			if err := r.transition(ctx, state, models.WorkflowStatusFailed, err.Error()); err != nil {
				return err
			}

			r.publish(ctx, state.TaskID, events.TaskFailed{
				BaseEvent: r.baseEvent(events.TaskFailedEvent, state.TaskID),
				Stage:     stage,
				Error:     err.Error(),
			})

			return nil
		}

		stageSpan.End()
	}

	if err := r.transition(ctx, state, models.WorkflowStatusCompleted, ""); err != nil {
		otelhelper.SetError(span, err)

		return err
	}

	r.publish(ctx, state.TaskID, events.TaskCompleted{
		BaseEvent: r.baseEvent(events.TaskCompletedEvent, state.TaskID),
		Duration:  time.Since(startedAt),
	})

	r.logger.InfoContext(ctx, "Task completed", "taskId", state.TaskID, "duration", time.Since(startedAt))

	return nil
}

func (r *Runner) transition(ctx context.Context, state *models.TaskState, status models.WorkflowStatus, errorMessage string) error {
	state.WorkflowStatus = status
	state.ErrorMessage = errorMessage

	return r.states.Save(ctx, state)
}

func (r *Runner) baseEvent(eventType events.EventType, taskID string) events.BaseEvent {
	return events.BaseEvent{
		ID:        r.bus.GenerateID(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		TaskID:    taskID,
	}
}

func (r *Runner) publish(ctx context.Context, taskID string, event eventbus.Event) {
	if err := r.bus.Publish(ctx, taskID, event); err != nil {
		r.logger.WarnContext(ctx, "Failed to publish event",
			"taskId", taskID,
			"eventType", event.GetType(),
			"error", err)
	}
}
