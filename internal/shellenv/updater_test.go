package shellenv

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testExportLine = "export PATH=$PATH:$HOME/.local/go/bin"

func newTestUpdater(t *testing.T) (*Updater, string) {
	t.Helper()
	home := t.TempDir()
	u, err := NewUpdater(home)
	if err != nil {
		t.Fatalf("NewUpdater failed: %v", err)
	}
	return u, home
}

func TestUpdateAll(t *testing.T) {
	t.Run("appends_to_existing_profiles", func(t *testing.T) {
		u, home := newTestUpdater(t)
		writeProfile(t, home, ".zshrc", "# my zshrc\n")
		writeProfile(t, home, ".bashrc", "# my bashrc\n")

		result := u.UpdateAll(testExportLine)

		if result.Updated != 2 {
			t.Errorf("Updated = %d, want 2", result.Updated)
		}

		for _, name := range []string{".zshrc", ".bashrc"} {
			content := readProfile(t, home, name)
			if !strings.Contains(content, BlockComment+"\n"+testExportLine+"\n") {
				t.Errorf("%s missing two-line PATH block:\n%s", name, content)
			}
		}
	})

	t.Run("skips_missing_profiles", func(t *testing.T) {
		u, home := newTestUpdater(t)
		writeProfile(t, home, ".bash_profile", "# only this one\n")

		result := u.UpdateAll(testExportLine)

		if result.Updated != 1 {
			t.Errorf("Updated = %d, want 1", result.Updated)
		}
		if len(result.Profiles) != 1 {
			t.Errorf("Profiles = %d entries, want 1", len(result.Profiles))
		}
		if _, err := os.Stat(filepath.Join(home, ".zshrc")); !os.IsNotExist(err) {
			t.Error("missing profiles must not be created")
		}
	})

	t.Run("no_profiles_at_all", func(t *testing.T) {
		u, _ := newTestUpdater(t)

		result := u.UpdateAll(testExportLine)

		if result.Updated != 0 {
			t.Errorf("Updated = %d, want 0", result.Updated)
		}
	})

	t.Run("idempotent_on_rerun", func(t *testing.T) {
		u, home := newTestUpdater(t)
		writeProfile(t, home, ".zshrc", "# my zshrc\n")

		first := u.UpdateAll(testExportLine)
		if first.Updated != 1 {
			t.Fatalf("first run Updated = %d, want 1", first.Updated)
		}

		afterFirst := readProfile(t, home, ".zshrc")

		second := u.UpdateAll(testExportLine)
		if second.Updated != 0 {
			t.Errorf("second run Updated = %d, want 0", second.Updated)
		}
		if len(second.Profiles) != 1 || !second.Profiles[0].AlreadyPresent {
			t.Error("second run should report the line as already present")
		}

		afterSecond := readProfile(t, home, ".zshrc")
		if afterFirst != afterSecond {
			t.Errorf("file changed on second run:\nfirst:  %q\nsecond: %q", afterFirst, afterSecond)
		}
	})

	t.Run("detects_existing_line_with_indentation", func(t *testing.T) {
		u, home := newTestUpdater(t)
		writeProfile(t, home, ".bashrc", "  "+testExportLine+"  \n")

		result := u.UpdateAll(testExportLine)

		if result.Updated != 0 {
			t.Errorf("Updated = %d, want 0 for equivalent existing line", result.Updated)
		}
	})

	t.Run("creates_backup_before_write", func(t *testing.T) {
		u, home := newTestUpdater(t)
		original := "# original content\n"
		writeProfile(t, home, ".zshrc", original)

		result := u.UpdateAll(testExportLine)

		if result.Updated != 1 {
			t.Fatalf("Updated = %d, want 1", result.Updated)
		}

		backup, err := os.ReadFile(filepath.Join(home, ".zshrc"+BackupSuffix))
		if err != nil {
			t.Fatalf("backup not created: %v", err)
		}
		if string(backup) != original {
			t.Errorf("backup content = %q, want %q", backup, original)
		}
	})

	t.Run("appends_newline_when_file_lacks_one", func(t *testing.T) {
		u, home := newTestUpdater(t)
		writeProfile(t, home, ".bashrc", "# no trailing newline")

		u.UpdateAll(testExportLine)

		content := readProfile(t, home, ".bashrc")
		if !strings.Contains(content, "# no trailing newline\n"+BlockComment) {
			t.Errorf("missing separator newline:\n%s", content)
		}
	})

	t.Run("ordered_profile_set", func(t *testing.T) {
		u, home := newTestUpdater(t)
		for _, name := range ProfileNames {
			writeProfile(t, home, name, "#\n")
		}

		result := u.UpdateAll(testExportLine)

		if len(result.Profiles) != len(ProfileNames) {
			t.Fatalf("Profiles = %d entries, want %d", len(result.Profiles), len(ProfileNames))
		}
		for i, name := range ProfileNames {
			if filepath.Base(result.Profiles[i].Path) != name {
				t.Errorf("profile %d = %s, want %s", i, result.Profiles[i].Path, name)
			}
		}
	})
}

func TestUpdateAllPreservesFileMode(t *testing.T) {
	u, home := newTestUpdater(t)
	path := filepath.Join(home, ".bashrc")
	if err := os.WriteFile(path, []byte("# my bashrc\n"), 0644); err != nil {
		t.Fatalf("write profile: %v", err)
	}
	if err := os.Chmod(path, 0644); err != nil {
		t.Fatalf("chmod profile: %v", err)
	}

	result := u.UpdateAll(testExportLine)
	if result.Updated != 1 {
		t.Fatalf("Updated = %d, want 1", result.Updated)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat profile: %v", err)
	}
	if got := info.Mode().Perm(); got != 0644 {
		t.Errorf("profile mode = %o after update, want 644", got)
	}
}

func TestUpdateAllBackupFailure(t *testing.T) {
	// A directory squatting on the backup path makes the backup write
	// fail; that profile is skipped with a warning, not appended.
	u, home := newTestUpdater(t)
	writeProfile(t, home, ".zshrc", "# content\n")
	if err := os.Mkdir(filepath.Join(home, ".zshrc"+BackupSuffix), 0755); err != nil {
		t.Fatal(err)
	}

	result := u.UpdateAll(testExportLine)

	if result.Updated != 0 {
		t.Errorf("Updated = %d, want 0", result.Updated)
	}
	if len(result.Profiles) != 1 {
		t.Fatalf("Profiles = %d entries, want 1", len(result.Profiles))
	}

	var backupErr *BackupError
	if !errors.As(result.Profiles[0].Err, &backupErr) {
		t.Errorf("expected *BackupError, got %v", result.Profiles[0].Err)
	}

	// The profile itself must be untouched.
	if content := readProfile(t, home, ".zshrc"); content != "# content\n" {
		t.Errorf("profile mutated despite backup failure: %q", content)
	}
}

func writeProfile(t *testing.T, home, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(home, name), []byte(content), 0644); err != nil {
		t.Fatalf("write profile %s: %v", name, err)
	}
}

func readProfile(t *testing.T, home, name string) string {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(home, name))
	if err != nil {
		t.Fatalf("read profile %s: %v", name, err)
	}
	return string(content)
}
