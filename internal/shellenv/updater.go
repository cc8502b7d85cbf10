// Package shellenv appends a marked PATH block to recognized shell
// startup files, idempotently and with a backup copy taken before any
// write.
package shellenv

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Updater mutates shell profile files under one home directory.
type Updater struct {
	homeDir string
}

// NewUpdater creates an updater. An empty homeDir resolves to the
// current user's home.
func NewUpdater(homeDir string) (*Updater, error) {
	if homeDir == "" {
		var err error
		homeDir, err = os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
	}
	return &Updater{homeDir: homeDir}, nil
}

// UpdateAll walks the fixed ordered profile set and appends the PATH
// block to each existing file that does not already carry the export
// line. Each file is mutated at most once; a backup sibling is written
// before any append. Per-file failures are recorded in the result and
// never abort the pass.
func (u *Updater) UpdateAll(exportLine string) *UpdateResult {
	result := &UpdateResult{}

	for _, name := range ProfileNames {
		path := filepath.Join(u.homeDir, name)

		exists, err := profileExists(path)
		if err != nil {
			result.Profiles = append(result.Profiles, ProfileResult{Path: path, Err: err})
			continue
		}
		if !exists {
			continue
		}

		pr := u.updateOne(path, exportLine)
		if pr.Updated {
			result.Updated++
		}
		result.Profiles = append(result.Profiles, pr)
	}

	return result
}

// updateOne applies the check-backup-append sequence to a single profile.
func (u *Updater) updateOne(path, exportLine string) ProfileResult {
	pr := ProfileResult{Path: path}

	present, err := hasExportLine(path, exportLine)
	if err != nil {
		pr.Err = err
		return pr
	}
	if present {
		pr.AlreadyPresent = true
		return pr
	}

	backupPath, err := backupProfile(path)
	if err != nil {
		pr.Err = &BackupError{Path: path, Cause: err}
		return pr
	}
	pr.BackupPath = backupPath

	if err := appendBlock(path, exportLine); err != nil {
		pr.Err = err
		return pr
	}

	pr.Updated = true
	return pr
}

// profileExists reports whether path exists as a regular file.
func profileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, &ProfileError{Path: path, Message: "failed to stat file", Cause: err}
	}

	if !info.Mode().IsRegular() {
		return false, &ProfileError{Path: path, Message: "not a regular file"}
	}

	return true, nil
}

// hasExportLine checks whether the exact export line is already present
// (whitespace-trimmed exact match per line).
func hasExportLine(path, exportLine string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, &ProfileError{Path: path, Message: "failed to open file", Cause: err}
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == exportLine {
			return true, nil
		}
	}

	if err := scanner.Err(); err != nil {
		return false, &ProfileError{Path: path, Message: "failed to read file", Cause: err}
	}

	return false, nil
}

// backupProfile copies the profile to a .bak sibling before mutation.
func backupProfile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file for backup: %w", err)
	}

	backupPath := path + BackupSuffix
	if err := os.WriteFile(backupPath, content, 0644); err != nil {
		return "", fmt.Errorf("write backup file: %w", err)
	}

	return backupPath, nil
}

// appendBlock appends the two-line PATH block (marker comment plus export
// line) using a temp file and atomic rename.
func appendBlock(path, exportLine string) error {
	existing, err := os.ReadFile(path)
	if err != nil {
		return &ProfileError{Path: path, Message: "failed to read existing file", Cause: err}
	}

	info, err := os.Stat(path)
	if err != nil {
		return &ProfileError{Path: path, Message: "failed to stat existing file", Cause: err}
	}

	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, ".gosetup-tmp-*")
	if err != nil {
		return &ProfileError{Path: path, Message: "failed to create temporary file", Cause: err}
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if len(existing) > 0 {
		if _, err := tmpFile.Write(existing); err != nil {
			tmpFile.Close()
			return &ProfileError{Path: path, Message: "failed to write existing content", Cause: err}
		}
		if !strings.HasSuffix(string(existing), "\n") {
			if _, err := tmpFile.WriteString("\n"); err != nil {
				tmpFile.Close()
				return &ProfileError{Path: path, Message: "failed to write newline", Cause: err}
			}
		}
	}

	block := fmt.Sprintf("%s\n%s\n", BlockComment, exportLine)
	if _, err := tmpFile.WriteString(block); err != nil {
		tmpFile.Close()
		return &ProfileError{Path: path, Message: "failed to write PATH block", Cause: err}
	}

	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return &ProfileError{Path: path, Message: "failed to sync file", Cause: err}
	}

	// The rename replaces the profile with the temp file, so the temp
	// file must carry the profile's original mode, not CreateTemp's 0600.
	if err := tmpFile.Chmod(info.Mode().Perm()); err != nil {
		tmpFile.Close()
		return &ProfileError{Path: path, Message: "failed to set file mode", Cause: err}
	}

	tmpFile.Close()

	if err := os.Rename(tmpPath, path); err != nil {
		return &ProfileError{Path: path, Message: "failed to rename temp file", Cause: err}
	}

	return nil
}
