// Package testutil provides utilities for testing gosetup in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SetupTestEnv creates isolated test directories for each test.
// This ensures gosetup tests never interfere with:
// - The developer's real shell profiles
// - The user's actual gosetup configuration
// - Any installed Go toolchain
//
// The cleanup function is automatically handled by t.TempDir(),
// so callers don't need to manually clean up.
//
// Returns the isolated HOME directory.
func SetupTestEnv(t *testing.T) string {
	t.Helper()

	// Create temp directory (auto-cleaned by testing framework)
	tmpDir := t.TempDir()
	home := filepath.Join(tmpDir, "home")

	// Point HOME and the config file at isolated locations
	t.Setenv("HOME", home)
	t.Setenv("GOSETUP_CONFIG", filepath.Join(tmpDir, "config", "config.yaml"))

	// Create the directories
	dirs := []string{
		home,
		filepath.Join(tmpDir, "config"),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			t.Fatalf("failed to create test directory %s: %v", dir, err)
		}
	}

	return home
}
