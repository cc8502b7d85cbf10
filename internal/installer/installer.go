// Package installer orchestrates a single toolchain installation run:
// lock, remove, download, verify, extract, PATH update, post-install
// check. Fatal errors abort the run; the lock and the scratch directory
// are released on every exit path.
package installer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/mwflint/gosetup/internal/artifact"
	"github.com/mwflint/gosetup/internal/lock"
	"github.com/mwflint/gosetup/internal/logging"
	"github.com/mwflint/gosetup/internal/plan"
	"github.com/mwflint/gosetup/internal/release"
	"github.com/mwflint/gosetup/internal/shellenv"
)

// Installer drives one installation run to completion.
type Installer struct {
	plan      *plan.Plan
	art       *release.Artifact
	checksums ChecksumSource

	downloader Downloader
	extractor  Extractor
	verifier   ChecksumVerifier
	profiles   ProfileUpdater
	foreign    ForeignDetector
	checker    InstallChecker

	lockPath  string
	verifyGPG bool
	runner    commandRunner

	log zerolog.Logger
}

// Config holds the collaborators for an installation run.
type Config struct {
	// Plan is the resolved install target. Required.
	Plan *plan.Plan
	// Artifact is the release archive to install. Required.
	Artifact *release.Artifact
	// Checksums fetches published digests. Required.
	Checksums ChecksumSource

	// Downloader retrieves the archive (default: artifact.NewDownloader).
	Downloader Downloader
	// Extractor unpacks the archive (default: artifact.NewExtractor).
	Extractor Extractor
	// Verifier checks digests and signatures (default: artifact.NewVerifier
	// with no keyring).
	Verifier ChecksumVerifier
	// Profiles appends the PATH block to shell profiles. Required.
	Profiles ProfileUpdater
	// Foreign removes package-manager-owned installations. Optional.
	Foreign ForeignDetector
	// Checker probes the installed toolchain (default: NewBinaryChecker).
	Checker InstallChecker

	// LockPath overrides the mutual-exclusion lock file (tests).
	LockPath string
	// VerifyGPG enables detached-signature verification.
	VerifyGPG bool
	// Runner overrides privileged command execution (tests).
	Runner commandRunner
}

// New validates the configuration and fills in default collaborators.
func New(cfg Config) (*Installer, error) {
	if cfg.Plan == nil {
		return nil, fmt.Errorf("Plan is required")
	}
	if cfg.Artifact == nil {
		return nil, fmt.Errorf("Artifact is required")
	}
	if cfg.Checksums == nil {
		return nil, fmt.Errorf("Checksums is required")
	}
	if cfg.Profiles == nil {
		return nil, fmt.Errorf("Profiles is required")
	}

	in := &Installer{
		plan:       cfg.Plan,
		art:        cfg.Artifact,
		checksums:  cfg.Checksums,
		downloader: cfg.Downloader,
		extractor:  cfg.Extractor,
		verifier:   cfg.Verifier,
		profiles:   cfg.Profiles,
		foreign:    cfg.Foreign,
		checker:    cfg.Checker,
		lockPath:   cfg.LockPath,
		verifyGPG:  cfg.VerifyGPG,
		runner:     cfg.Runner,
		log:        logging.Component("installer"),
	}

	if in.downloader == nil {
		in.downloader = artifact.NewDownloader()
	}
	if in.extractor == nil {
		in.extractor = artifact.NewExtractor()
	}
	if in.verifier == nil {
		in.verifier = artifact.NewVerifier("")
	}
	if in.checker == nil {
		in.checker = NewBinaryChecker()
	}
	if in.lockPath == "" {
		in.lockPath = lock.DefaultPath()
	}
	if in.runner == nil {
		in.runner = runInteractive
	}

	return in, nil
}

// Run executes the installation. On any fatal error the run stops, the
// scratch directory is deleted, and the lock is released. Non-fatal
// steps (foreign package manager cleanup, individual profile updates)
// log and continue.
func (in *Installer) Run(ctx context.Context) (err error) {
	in.transition(StateStart)

	lk, err := lock.Acquire(in.lockPath)
	if err != nil {
		in.transition(StateFailed)
		return err
	}
	defer func() {
		if relErr := lk.Release(); relErr != nil {
			in.log.Warn().Err(relErr).Msg("failed to release lock")
		}
	}()
	in.transition(StateLockAcquired)

	scratch, err := os.MkdirTemp("", "gosetup-"+lk.RunID()+"-*")
	if err != nil {
		in.transition(StateFailed)
		return fmt.Errorf("create scratch directory: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(scratch); rmErr != nil {
			in.log.Warn().Err(rmErr).Str("dir", scratch).Msg("failed to remove scratch directory")
		}
	}()

	steps := []func(ctx context.Context, scratch string) error{
		in.removePrevious,
		in.download,
		in.verify,
		in.extract,
		in.updatePath,
		in.checkInstall,
	}
	for _, step := range steps {
		if err := step(ctx, scratch); err != nil {
			in.transition(StateFailed)
			return err
		}
	}

	in.transition(StateDone)
	return nil
}

func (in *Installer) transition(s State) {
	in.log.Debug().Str("state", string(s)).Msg("state transition")
}

// removePrevious clears the target directory and, best-effort, any
// toolchain owned by a foreign package manager.
func (in *Installer) removePrevious(ctx context.Context, _ string) error {
	if in.foreign != nil {
		found, err := in.foreign.DetectAndRemove(ctx)
		switch {
		case err != nil:
			in.log.Warn().Err(err).Str("manager", in.foreign.Name()).
				Msg("could not remove package-manager installation, continuing")
		case found:
			in.log.Info().Str("manager", in.foreign.Name()).
				Msg("removed package-manager installation")
		}
	}

	if _, err := os.Lstat(in.plan.TargetDir); os.IsNotExist(err) {
		in.transition(StatePreviousRemoved)
		return nil
	}

	in.log.Info().Str("dir", in.plan.TargetDir).Msg("removing previous installation")
	if err := in.removeTree(ctx, in.plan.TargetDir); err != nil {
		return &RemovalError{Path: in.plan.TargetDir, Cause: err}
	}

	in.transition(StatePreviousRemoved)
	return nil
}

func (in *Installer) download(ctx context.Context, scratch string) error {
	dest := filepath.Join(scratch, in.art.Filename)
	in.log.Info().Str("url", in.art.URL).Msg("downloading release archive")
	if err := in.downloader.Download(ctx, in.art.URL, dest); err != nil {
		return err
	}
	in.transition(StateDownloaded)
	return nil
}

// verify checks the archive against the digest published alongside it.
// The digest is fetched here, not at resolution time, so a listing that
// changed mid-run fails closed.
func (in *Installer) verify(ctx context.Context, scratch string) error {
	archivePath := filepath.Join(scratch, in.art.Filename)

	expected, err := in.checksums.LookupChecksum(ctx, in.art.Filename)
	if err != nil {
		return err
	}
	if err := in.verifier.VerifySHA256(archivePath, expected); err != nil {
		return err
	}
	in.log.Info().Str("file", in.art.Filename).Msg("checksum verified")

	if in.verifyGPG {
		if err := in.verifySignature(ctx, archivePath, scratch); err != nil {
			return err
		}
	}

	in.transition(StateVerified)
	return nil
}

func (in *Installer) verifySignature(ctx context.Context, archivePath, scratch string) error {
	if !in.verifier.CanVerifyGPG() {
		in.log.Warn().Msg("signature verification requested but no keyring is configured, skipping")
		return nil
	}

	sigPath := filepath.Join(scratch, in.art.Filename+".asc")
	if err := in.downloader.Download(ctx, in.art.SignatureURL, sigPath); err != nil {
		return err
	}
	if err := in.verifier.VerifyGPG(archivePath, sigPath); err != nil {
		return err
	}
	in.log.Info().Str("file", in.art.Filename).Msg("signature verified")
	return nil
}

func (in *Installer) extract(ctx context.Context, scratch string) error {
	archivePath := filepath.Join(scratch, in.art.Filename)
	in.log.Info().Str("dir", in.plan.InstallRoot).Msg("extracting archive")
	if err := in.extractTree(ctx, archivePath); err != nil {
		return err
	}
	in.transition(StateExtracted)
	return nil
}

// updatePath appends the PATH block to each shell profile. Per-file
// failures are logged; when no profile could be updated the user gets
// a manual instruction instead of an aborted install.
func (in *Installer) updatePath(_ context.Context, _ string) error {
	line := in.plan.PathExportLine()
	result := in.profiles.UpdateAll(line)

	for _, p := range result.Profiles {
		switch {
		case p.Err != nil:
			in.log.Warn().Err(p.Err).Str("profile", p.Path).Msg("could not update profile")
		case p.AlreadyPresent:
			in.log.Debug().Str("profile", p.Path).Msg("PATH entry already present")
		case p.Updated:
			in.log.Info().Str("profile", p.Path).Str("backup", p.BackupPath).Msg("profile updated")
		}
	}

	if result.Updated == 0 && !anyAlreadyPresent(result) {
		in.log.Warn().Str("line", line).
			Msg("no shell profile could be updated, add the PATH entry manually")
	}

	in.transition(StatePathUpdated)
	return nil
}

func anyAlreadyPresent(result *shellenv.UpdateResult) bool {
	for _, p := range result.Profiles {
		if p.AlreadyPresent {
			return true
		}
	}
	return false
}

func (in *Installer) checkInstall(ctx context.Context, _ string) error {
	report, err := in.checker.Check(ctx, in.plan.TargetDir)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrVerificationFailed, err)
	}
	in.log.Info().
		Str("version", report.Version).
		Str("goroot", report.GOROOT).
		Str("gopath", report.GOPATH).
		Msg("installation verified")
	in.transition(StateInstallChecked)
	return nil
}
