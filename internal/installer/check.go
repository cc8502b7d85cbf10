package installer

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// BinaryChecker probes an installed toolchain by executing its go binary
// directly, bypassing PATH, so a stale toolchain elsewhere on the system
// cannot mask a broken install.
type BinaryChecker struct{}

// NewBinaryChecker creates a post-install checker.
func NewBinaryChecker() *BinaryChecker {
	return &BinaryChecker{}
}

// Check implements InstallChecker. It runs "go version" and
// "go env GOROOT GOPATH" against the binary under targetDir.
func (c *BinaryChecker) Check(ctx context.Context, targetDir string) (*Report, error) {
	goBin := filepath.Join(targetDir, "bin", "go")

	versionOut, err := exec.CommandContext(ctx, goBin, "version").Output()
	if err != nil {
		return nil, fmt.Errorf("go version: %w", err)
	}
	version, err := parseVersion(string(versionOut))
	if err != nil {
		return nil, err
	}

	envOut, err := exec.CommandContext(ctx, goBin, "env", "GOROOT", "GOPATH").Output()
	if err != nil {
		return nil, fmt.Errorf("go env: %w", err)
	}
	goroot, gopath, err := parseEnv(string(envOut))
	if err != nil {
		return nil, err
	}

	return &Report{Version: version, GOROOT: goroot, GOPATH: gopath}, nil
}

// parseVersion extracts the version token from output like
// "go version go1.20.12 linux/amd64".
func parseVersion(out string) (string, error) {
	fields := strings.Fields(out)
	for _, f := range fields {
		if strings.HasPrefix(f, "go") && len(f) > 2 && f[2] >= '0' && f[2] <= '9' {
			return f, nil
		}
	}
	return "", fmt.Errorf("unexpected go version output: %q", strings.TrimSpace(out))
}

// parseEnv reads the two-line GOROOT/GOPATH output.
func parseEnv(out string) (string, string, error) {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) < 2 {
		return "", "", fmt.Errorf("unexpected go env output: %q", strings.TrimSpace(out))
	}
	goroot := strings.TrimSpace(lines[0])
	gopath := strings.TrimSpace(lines[1])
	if goroot == "" || gopath == "" {
		return "", "", fmt.Errorf("go env reported empty GOROOT or GOPATH")
	}
	return goroot, gopath, nil
}
