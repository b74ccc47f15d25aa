// Package testutil provides testing utilities for the calplan project.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// SetupDataDir creates a temp data directory, resolves symlinks (for macOS),
// and clears any CALPLAN_* environment variables for the duration of the test
// so a developer's own settings cannot leak in.
// Returns the resolved directory path.
func SetupDataDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	// Resolve symlinks for macOS (/var -> /private/var)
	if resolved, err := filepath.EvalSymlinks(dir); err != nil {
		t.Logf("warning: could not resolve symlinks for temp dir: %v", err)
	} else {
		dir = resolved
	}

	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, "CALPLAN_") {
			t.Setenv(name, "")
			os.Unsetenv(name)
		}
	}

	return dir
}

// FixedClock returns a clock that always reports the given local date at
// 09:30.
func FixedClock(y int, m time.Month, d int) func() time.Time {
	at := time.Date(y, m, d, 9, 30, 0, 0, time.Local)
	return func() time.Time { return at }
}
