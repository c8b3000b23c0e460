// Package events defines the task lifecycle events exchanged on the
// orchestrator's in-process event bus.
package events

import (
	"time"

	"github.com/dukex/agentics/pkg/models"
)

type EventType string

// Topic carries all task lifecycle events.
const Topic = "agentics.tasks"

const EventKeyMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	TaskDiscoveredEvent    EventType = "task.discovered"
	TaskStartedEvent       EventType = "task.started"
	TaskCompletedEvent     EventType = "task.completed"
	TaskFailedEvent        EventType = "task.failed"
	TaskStopRequestedEvent EventType = "task.stop_requested"
)

type BaseEvent struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	TaskID    string         `json:"task_id"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// TaskDiscovered is published when the scanner picks a trigger file up.
type TaskDiscovered struct {
	BaseEvent

	TriggerFile string            `json:"trigger_file"`
	State       *models.TaskState `json:"state"`
}

func (e TaskDiscovered) GetType() EventType {
	return TaskDiscoveredEvent
}

// TaskStarted is published when the runner moves a task to in_progress.
type TaskStarted struct {
	BaseEvent
}

func (e TaskStarted) GetType() EventType {
	return TaskStartedEvent
}

// TaskCompleted is published after all stages finished successfully.
type TaskCompleted struct {
	BaseEvent

	Duration time.Duration `json:"duration"`
}

func (e TaskCompleted) GetType() EventType {
	return TaskCompletedEvent
}

// TaskFailed is published when a stage returns an error.
type TaskFailed struct {
	BaseEvent

	Stage string `json:"stage"`
	Error string `json:"error"`
}

func (e TaskFailed) GetType() EventType {
	return TaskFailedEvent
}

// TaskStopRequested is published when the runner observes the stop
// sentinel between stages.
type TaskStopRequested struct {
	BaseEvent

	RequestedAt time.Time `json:"requested_at"`
}

func (e TaskStopRequested) GetType() EventType {
	return TaskStopRequestedEvent
}
