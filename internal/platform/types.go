// Package platform detects the host operating system and architecture and
// maps them onto the naming convention used by Go toolchain release
// artifacts (for example "linux-amd64" or "darwin-arm64").
//
// On Linux it additionally collects distribution details via gopsutil,
// which are included in diagnostic output. Distro detection failures are
// tolerated; OS and architecture detection are not.
package platform

import (
	"context"
	"fmt"
)

// Linux distribution family constants.
const (
	FamilyDebian  = "debian"  // Debian, Ubuntu, Linux Mint
	FamilyRHEL    = "rhel"    // RHEL, CentOS, Rocky Linux, AlmaLinux
	FamilyFedora  = "fedora"  // Fedora
	FamilySUSE    = "suse"    // openSUSE, SLES
	FamilyArch    = "arch"    // Arch Linux, Manjaro
	FamilyAlpine  = "alpine"  // Alpine Linux
	FamilyGentoo  = "gentoo"  // Gentoo
	FamilyUnknown = "unknown" // Unrecognized distributions
)

// Info contains platform detection information.
type Info struct {
	OS       string // "linux" or "darwin"
	Arch     string // "amd64", "arm64", "386", "armv6l" (release naming)
	ArchRaw  string // original GOARCH value
	Platform string // distro ID (Linux only, e.g. "ubuntu")
	Family   string // canonical family (e.g. "debian")
	Version  string // distro version (Linux only, e.g. "22.04")
}

// Tag returns the platform portion of a Go release artifact filename,
// e.g. "linux-amd64" in "go1.22.4.linux-amd64.tar.gz".
func (i *Info) Tag() string {
	return fmt.Sprintf("%s-%s", i.OS, i.Arch)
}

// ArchiveName returns the release archive filename for a version string
// such as "1.22.4".
func (i *Info) ArchiveName(version string) string {
	return fmt.Sprintf("go%s.%s.tar.gz", version, i.Tag())
}

// Describe returns a human-readable platform summary for diagnostic
// output, folding in distro details when detection produced them,
// e.g. "linux-amd64 (ubuntu 22.04, debian family)".
func (i *Info) Describe() string {
	d := i.GetDistro()
	if d == nil {
		return i.Tag()
	}
	if d.Version == "" {
		return fmt.Sprintf("%s (%s, %s family)", i.Tag(), d.ID, d.Family)
	}
	return fmt.Sprintf("%s (%s %s, %s family)", i.Tag(), d.ID, d.Version, d.Family)
}

// IsLinux returns true if the platform is Linux.
func (i *Info) IsLinux() bool {
	return i.OS == "linux"
}

// IsMacOS returns true if the platform is macOS.
func (i *Info) IsMacOS() bool {
	return i.OS == "darwin"
}

// Distro contains Linux distribution information.
// This is nil on non-Linux platforms.
type Distro struct {
	ID      string // distro ID (e.g. "ubuntu")
	Family  string // canonical family (e.g. "debian")
	Version string // version (e.g. "22.04")
}

// GetDistro returns distro information if this is a Linux platform.
// Returns nil for non-Linux platforms or if distro detection failed.
func (i *Info) GetDistro() *Distro {
	if i.OS != "linux" || i.Platform == "" {
		return nil
	}
	return &Distro{
		ID:      i.Platform,
		Family:  i.Family,
		Version: i.Version,
	}
}

// Detector is the interface for platform detection.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}
