package shellenv

import "fmt"

// ProfileNames is the fixed, ordered set of recognized shell startup
// files under the user's home directory.
var ProfileNames = []string{".zshrc", ".bashrc", ".bash_profile"}

// BlockComment is the marker line written above the PATH export so the
// block is recognizable on later reads.
const BlockComment = "# Go toolchain PATH (added by gosetup)"

// BackupSuffix is appended to a profile's name for its backup copy.
const BackupSuffix = ".bak"

// BackupError indicates a profile's backup copy could not be written.
// It is non-fatal and scoped to that one profile: the append is skipped
// and the run continues.
type BackupError struct {
	Path  string
	Cause error
}

func (e *BackupError) Error() string {
	return fmt.Sprintf("backup %s: %v", e.Path, e.Cause)
}

func (e *BackupError) Unwrap() error {
	return e.Cause
}

// ProfileError indicates a read or write failure on one profile file.
// Like BackupError it is non-fatal and per-file.
type ProfileError struct {
	Path    string
	Message string
	Cause   error
}

func (e *ProfileError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("profile %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("profile %s: %s", e.Path, e.Message)
}

func (e *ProfileError) Unwrap() error {
	return e.Cause
}

// ProfileResult records what happened to one profile file.
type ProfileResult struct {
	// Path is the profile's absolute path.
	Path string
	// Updated is true when the PATH block was appended this run.
	Updated bool
	// AlreadyPresent is true when the export line was already there.
	AlreadyPresent bool
	// BackupPath is the backup copy's path, when one was made.
	BackupPath string
	// Err holds the per-file failure, if any. Always non-fatal.
	Err error
}

// UpdateResult summarizes an UpdateAll pass.
type UpdateResult struct {
	// Updated counts files actually modified. Zero means the caller
	// should tell the user to configure PATH manually.
	Updated int
	// Profiles holds one entry per profile file that exists.
	Profiles []ProfileResult
}
