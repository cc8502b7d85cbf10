// Package release resolves Go toolchain release versions and checksums
// against the upstream download index.
//
// The index is consumed in two forms: the structured JSON manifest
// (?mode=json) is preferred, and the HTML listing page is kept as a
// degraded fallback where the checksum is located as the first
// 64-hex-digit token within a bounded window of text following the
// artifact filename. The positional scrape trusts page layout and is
// inherently fragile; it only runs when the manifest is unavailable.
package release

import (
	"errors"
	"fmt"
)

// ErrInvalidVersionFormat indicates a version string that does not match
// the strict major.minor.patch numeric pattern.
var ErrInvalidVersionFormat = errors.New("invalid version format")

// Version is a validated Go release version ("1.22.4", no "go" prefix).
type Version string

// String returns the version string.
func (v Version) String() string {
	return string(v)
}

// Tarball returns the release archive filename for a platform tag such as
// "linux-amd64".
func (v Version) Tarball(tag string) string {
	return fmt.Sprintf("go%s.%s.tar.gz", v, tag)
}

// Artifact describes a downloadable release archive for one
// version/platform pair. ExpectedChecksum is resolved lazily at
// verification time, never cached from resolution time.
type Artifact struct {
	Version      Version
	Platform     string // platform tag, e.g. "linux-amd64"
	Filename     string
	URL          string
	SignatureURL string
}

// ResolutionError indicates the release index was unreachable or contained
// no artifact matching the target platform.
type ResolutionError struct {
	URL   string
	Cause error
}

func (e *ResolutionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("resolve release index (%s): %v", e.URL, e.Cause)
	}
	return fmt.Sprintf("resolve release index (%s): no matching artifact", e.URL)
}

func (e *ResolutionError) Unwrap() error {
	return e.Cause
}

// ChecksumFetchError indicates the published checksum for an artifact could
// not be obtained or parsed.
type ChecksumFetchError struct {
	Filename string
	Cause    error
}

func (e *ChecksumFetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch checksum for %s: %v", e.Filename, e.Cause)
	}
	return fmt.Sprintf("fetch checksum for %s: no 64-hex digest found", e.Filename)
}

func (e *ChecksumFetchError) Unwrap() error {
	return e.Cause
}
