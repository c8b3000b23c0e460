package models

import (
	"strings"
	"time"
)

// StopSignalFile is the sentinel filename inside a task directory. It is
// plain text, not JSON: presence alone requests cancellation and the
// orchestrator is expected to poll for it.
const StopSignalFile = "stop_signal.txt"

const stopSignalPrefix = "STOP_REQUESTED_AT_"

// FormatStopSignal renders the sentinel content for a cancellation
// requested at the given time.
func FormatStopSignal(requestedAt time.Time) string {
	return stopSignalPrefix + requestedAt.UTC().Format(time.RFC3339)
}

// ParseStopSignal extracts the request timestamp from sentinel content.
// Malformed content yields a zero time; the file's presence is what
// matters, the timestamp is informational.
func ParseStopSignal(content string) time.Time {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, stopSignalPrefix) {
		return time.Time{}
	}

	requestedAt, err := time.Parse(time.RFC3339, strings.TrimPrefix(trimmed, stopSignalPrefix))
	if err != nil {
		return time.Time{}
	}

	return requestedAt
}
