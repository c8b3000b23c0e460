// Package handoff implements the file-based task handoff protocol: a
// producer publishes task state and a trigger marker onto a shared
// directory tree, and an out-of-process orchestrator polling that tree
// picks the work up and reports progress back through the same files. The
// filesystem is the only channel between the two sides.
package handoff

import (
	"path/filepath"

	"github.com/dukex/agentics/pkg/models"
)

// Directory and file names that make up the agentics tree:
//
//	agentics/
//	  adws/
//	    trigger_<task_id>.json
//	  agents/
//	    <task_id>/
//	      state.json
//	      stop_signal.txt
const (
	AgenticsDir = "agentics"
	ADWSDir     = "adws"
	AgentsDir   = "agents"

	StateFile         = "state.json"
	TriggerFilePrefix = "trigger_"
	TriggerFileSuffix = ".json"
)

// Layout computes paths inside an agentics tree rooted at a caller-supplied
// directory. It never touches the filesystem.
type Layout struct {
	root string
}

func NewLayout(root string) Layout {
	return Layout{root: root}
}

func (l Layout) Root() string {
	return l.root
}

func (l Layout) AgenticsPath() string {
	return filepath.Join(l.root, AgenticsDir)
}

func (l Layout) ADWSPath() string {
	return filepath.Join(l.root, AgenticsDir, ADWSDir)
}

func (l Layout) AgentsPath() string {
	return filepath.Join(l.root, AgenticsDir, AgentsDir)
}

func (l Layout) TaskDir(taskID string) string {
	return filepath.Join(l.AgentsPath(), taskID)
}

func (l Layout) StateFilePath(taskID string) string {
	return filepath.Join(l.TaskDir(taskID), StateFile)
}

func (l Layout) StopSignalPath(taskID string) string {
	return filepath.Join(l.TaskDir(taskID), models.StopSignalFile)
}

func (l Layout) TriggerFilePath(taskID string) string {
	return filepath.Join(l.ADWSPath(), TriggerFileName(taskID))
}

// TriggerFileName derives the trigger filename for a task. The name is
// deterministic so republishing overwrites the previous trigger instead of
// accumulating markers.
func TriggerFileName(taskID string) string {
	return TriggerFilePrefix + taskID + TriggerFileSuffix
}

// TaskFileRelPath is the state file path relative to the trigger's own
// directory, as recorded in the trigger's task_file field.
func TaskFileRelPath(taskID string) string {
	return "../" + AgentsDir + "/" + taskID + "/" + StateFile
}
