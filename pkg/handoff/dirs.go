package handoff

import (
	"fmt"
	"os"
	"path/filepath"
)

// DirOutcome tags how EnsureDir resolved a directory, replacing the
// catch-a-not-found-error control flow with an explicit, exhaustive result.
type DirOutcome int

const (
	// DirFound means the directory already existed.
	DirFound DirOutcome = iota
	// DirCreated means the directory was created by this call.
	DirCreated
)

func (o DirOutcome) String() string {
	switch o {
	case DirFound:
		return "found"
	case DirCreated:
		return "created"
	default:
		return "unknown"
	}
}

// EnsureDir resolves parent/name, creating it when absent. Repeated calls
// with the same arguments converge on the same directory: a concurrent or
// redundant create lands on MkdirAll, which succeeds against an existing
// directory. Failures other than "does not exist" (permission denial and
// the like) propagate so callers can tell expected from environmental
// failure.
func EnsureDir(parent, name string) (string, DirOutcome, error) {
	dir := filepath.Join(parent, name)

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return "", DirFound, fmt.Errorf("path %s exists and is not a directory", dir)
		}

		return dir, DirFound, nil
	}

	if !os.IsNotExist(err) {
		return "", DirFound, fmt.Errorf("failed to stat %s: %w", dir, err)
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", DirFound, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	return dir, DirCreated, nil
}
