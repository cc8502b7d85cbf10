// Package plan resolves an installation mode to a concrete target
// directory and privilege requirement before any network or filesystem
// work begins.
package plan

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// SystemRoot is the install root for system-wide installations.
	SystemRoot = "/usr/local"
	// UserRootDir is the install root under $HOME for user installations.
	UserRootDir = ".local"
	// ProductDir is the directory the release archive unpacks to.
	ProductDir = "go"
)

var (
	// ErrPrivilegeRequired indicates a system-wide install was requested
	// but elevated privileges could not be obtained.
	ErrPrivilegeRequired = errors.New("system-wide installation requires elevated privileges")

	// ErrDependencyMissing indicates a required external command (sudo,
	// tar) is not available on this host.
	ErrDependencyMissing = errors.New("required command not found")

	// ErrUnknownMode indicates an unrecognized installation mode.
	ErrUnknownMode = errors.New("unknown installation mode")
)

// DirCreateError indicates the install root's parent directory could not
// be created.
type DirCreateError struct {
	Path  string
	Cause error
}

func (e *DirCreateError) Error() string {
	return fmt.Sprintf("create directory %s: %v", e.Path, e.Cause)
}

func (e *DirCreateError) Unwrap() error {
	return e.Cause
}

// Mode selects between a system-wide and a user-scoped installation.
type Mode int

const (
	// ModeSystem installs under /usr/local (elevated privileges).
	ModeSystem Mode = iota + 1
	// ModeUser installs under $HOME/.local (no privileges).
	ModeUser
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeSystem:
		return "system"
	case ModeUser:
		return "user"
	default:
		return "unknown"
	}
}

// ParseMode maps a mode name to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "system":
		return ModeSystem, nil
	case "user":
		return ModeUser, nil
	default:
		return 0, fmt.Errorf("%w: %q (expected system or user)", ErrUnknownMode, s)
	}
}

// Plan is the resolved installation target for one run. Immutable once
// built.
type Plan struct {
	Mode              Mode
	InstallRoot       string // archive extraction destination
	TargetDir         string // InstallRoot/go, the installed toolchain
	RequiresPrivilege bool
}

// BinDir returns the directory containing the installed go binary.
func (p *Plan) BinDir() string {
	return filepath.Join(p.TargetDir, "bin")
}

// PathExportLine returns the PATH line appended to shell profiles. The
// user-mode line keeps the $HOME reference literal so profiles stay
// portable across home directory moves.
func (p *Plan) PathExportLine() string {
	if p.Mode == ModeUser {
		return fmt.Sprintf("export PATH=$PATH:$HOME/%s/%s/bin", UserRootDir, ProductDir)
	}
	return fmt.Sprintf("export PATH=$PATH:%s/%s/bin", SystemRoot, ProductDir)
}

// Options configures plan construction. Zero values select real
// implementations.
type Options struct {
	// HomeDir overrides the user's home directory (tests).
	HomeDir string
	// PrivilegeProber overrides the sudo probe (tests). It must return
	// nil only when elevated privileges are actually obtainable.
	PrivilegeProber func(ctx context.Context) error
}

// Build derives the install plan for a mode. For system mode it probes
// for elevated privileges rather than assuming them; for user mode it
// ensures the install root exists, creating it if necessary.
func Build(ctx context.Context, mode Mode, opts Options) (*Plan, error) {
	switch mode {
	case ModeSystem:
		probe := opts.PrivilegeProber
		if probe == nil {
			probe = probePrivilege
		}
		if err := probe(ctx); err != nil {
			return nil, err
		}
		return &Plan{
			Mode:              ModeSystem,
			InstallRoot:       SystemRoot,
			TargetDir:         filepath.Join(SystemRoot, ProductDir),
			RequiresPrivilege: true,
		}, nil

	case ModeUser:
		home := opts.HomeDir
		if home == "" {
			var err error
			home, err = os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("get home directory: %w", err)
			}
		}

		root := filepath.Join(home, UserRootDir)
		if err := os.MkdirAll(root, 0755); err != nil {
			return nil, &DirCreateError{Path: root, Cause: err}
		}

		return &Plan{
			Mode:              ModeUser,
			InstallRoot:       root,
			TargetDir:         filepath.Join(root, ProductDir),
			RequiresPrivilege: false,
		}, nil

	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, mode)
	}
}
