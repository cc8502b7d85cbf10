// Package artifact fetches release archives into a scratch workspace,
// verifies their integrity, and unpacks them into an install root.
package artifact

import (
	"errors"
	"fmt"
)

// ErrChecksumMismatch indicates the computed digest of a downloaded file
// does not match the published one. The archive must not be extracted.
var ErrChecksumMismatch = errors.New("checksum mismatch")

// DownloadError indicates a network or filesystem failure while fetching
// an artifact. Downloads are never retried automatically; the operator
// re-invokes the installer.
type DownloadError struct {
	URL   string
	Cause error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download %s: %v", e.URL, e.Cause)
}

func (e *DownloadError) Unwrap() error {
	return e.Cause
}

// ExtractError indicates archive extraction failed.
type ExtractError struct {
	Archive string
	Cause   error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Archive, e.Cause)
}

func (e *ExtractError) Unwrap() error {
	return e.Cause
}
