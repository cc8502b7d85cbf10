package installer

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/mwflint/gosetup/internal/plan"
)

// commandRunner executes an external command, wiring the terminal
// through so sudo can prompt for a password.
type commandRunner func(ctx context.Context, name string, args ...string) error

func runInteractive(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// needsSudo reports whether filesystem mutations under the install root
// must go through sudo. Root writes /usr/local directly.
func (in *Installer) needsSudo() bool {
	return in.plan.RequiresPrivilege && os.Geteuid() != 0
}

// removeTree deletes a directory tree, elevating for system installs.
func (in *Installer) removeTree(ctx context.Context, dir string) error {
	if !in.needsSudo() {
		return os.RemoveAll(dir)
	}
	return in.runner(ctx, "sudo", "rm", "-rf", dir)
}

// extractTree unpacks the archive into the install root. System installs
// delegate to the host tar under sudo; everything else uses the in-process
// extractor.
func (in *Installer) extractTree(ctx context.Context, archivePath string) error {
	if !in.needsSudo() {
		return in.extractor.Extract(archivePath, in.plan.InstallRoot)
	}
	if _, err := exec.LookPath("tar"); err != nil {
		return fmt.Errorf("%w: tar", plan.ErrDependencyMissing)
	}
	return in.runner(ctx, "sudo", "tar", "-C", in.plan.InstallRoot, "-xzf", archivePath)
}
