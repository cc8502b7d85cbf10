package installer

import (
	"context"
	"fmt"
	"os/exec"
)

// BrewCask detects and removes a Go toolchain installed through the
// Homebrew go cask, which would otherwise shadow or conflict with the
// copy under /usr/local. Absence of brew, or of the cask, is not an
// error.
type BrewCask struct {
	cask string
}

// NewBrewCask returns a detector for the Homebrew go cask.
func NewBrewCask() *BrewCask {
	return &BrewCask{cask: "go"}
}

// Name implements ForeignDetector.
func (b *BrewCask) Name() string {
	return "homebrew"
}

// DetectAndRemove implements ForeignDetector.
func (b *BrewCask) DetectAndRemove(ctx context.Context) (bool, error) {
	brewPath, err := exec.LookPath("brew")
	if err != nil {
		return false, nil
	}

	// Non-zero exit means the cask is not installed.
	list := exec.CommandContext(ctx, brewPath, "list", "--cask", b.cask)
	if err := list.Run(); err != nil {
		return false, nil
	}

	uninstall := exec.CommandContext(ctx, brewPath, "uninstall", "--cask", b.cask)
	if out, err := uninstall.CombinedOutput(); err != nil {
		return true, fmt.Errorf("brew uninstall --cask %s: %w: %s", b.cask, err, out)
	}

	return true, nil
}
