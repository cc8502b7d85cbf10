package installer

import (
	"context"
	"errors"
	"fmt"

	"github.com/mwflint/gosetup/internal/shellenv"
)

// State represents the current phase of an installation run. Plan and
// version resolution happen before Run is entered, so StatePlanReady and
// StateVersionResolved are emitted by the caller that resolves them;
// Run's own transitions begin at StateStart with the resolved values
// already in hand.
type State string

const (
	StatePlanReady       State = "plan_ready"
	StateVersionResolved State = "version_resolved"
	StateStart           State = "start"
	StateLockAcquired    State = "lock_acquired"
	StatePreviousRemoved State = "previous_removed"
	StateDownloaded      State = "downloaded"
	StateVerified        State = "verified"
	StateExtracted       State = "extracted"
	StatePathUpdated     State = "path_updated"
	StateInstallChecked  State = "install_checked"
	StateDone            State = "done"
	StateFailed          State = "failed"
)

// ErrVerificationFailed indicates the installed toolchain did not respond
// correctly to a post-install probe.
var ErrVerificationFailed = errors.New("post-install verification failed")

// RemovalError indicates an existing installation at the target directory
// could not be removed.
type RemovalError struct {
	Path  string
	Cause error
}

func (e *RemovalError) Error() string {
	return fmt.Sprintf("remove previous installation at %s: %v", e.Path, e.Cause)
}

func (e *RemovalError) Unwrap() error {
	return e.Cause
}

// Downloader retrieves a release archive to a local path.
type Downloader interface {
	Download(ctx context.Context, url, destPath string) error
}

// Extractor unpacks a downloaded archive into a destination directory.
type Extractor interface {
	Extract(archivePath, destDir string) error
}

// ChecksumVerifier checks a downloaded archive against an expected digest
// and, optionally, a detached signature.
type ChecksumVerifier interface {
	VerifySHA256(path, expected string) error
	CanVerifyGPG() bool
	VerifyGPG(path, sigPath string) error
}

// ChecksumSource fetches the published digest for an archive. The digest
// is fetched fresh at verification time, never cached from resolution.
type ChecksumSource interface {
	LookupChecksum(ctx context.Context, filename string) (string, error)
}

// ProfileUpdater appends the PATH block to the user's shell profiles.
type ProfileUpdater interface {
	UpdateAll(exportLine string) *shellenv.UpdateResult
}

// ForeignDetector removes a toolchain managed by another package manager.
// Detection and removal are best-effort: a failure here never aborts the
// run. A nil detector disables the step.
type ForeignDetector interface {
	// Name identifies the package manager for log messages.
	Name() string
	// DetectAndRemove reports whether a foreign installation was found,
	// removing it when possible.
	DetectAndRemove(ctx context.Context) (bool, error)
}

// InstallChecker probes the freshly installed toolchain.
type InstallChecker interface {
	Check(ctx context.Context, targetDir string) (*Report, error)
}

// Report holds the output of a successful post-install check.
type Report struct {
	// Version is the toolchain's self-reported version, e.g. "go1.20.12".
	Version string
	// GOROOT is the root reported by the installed binary.
	GOROOT string
	// GOPATH is the workspace path reported by the installed binary.
	GOPATH string
}
