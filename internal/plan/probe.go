package plan

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// probePrivilege confirms elevated privileges are obtainable. Running as
// root passes trivially; otherwise sudo must exist and either hold cached
// credentials or be able to prompt for them.
func probePrivilege(ctx context.Context) error {
	if os.Geteuid() == 0 {
		return nil
	}

	if _, err := exec.LookPath("sudo"); err != nil {
		return fmt.Errorf("%w: sudo", ErrDependencyMissing)
	}

	// Cheap path first: cached credentials or NOPASSWD.
	if err := exec.CommandContext(ctx, "sudo", "-n", "true").Run(); err == nil {
		return nil
	}

	// Interactive validation: lets sudo prompt for a password once, and
	// caches credentials for the privileged steps that follow.
	cmd := exec.CommandContext(ctx, "sudo", "-v")
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %v", ErrPrivilegeRequired, err)
	}

	return nil
}
