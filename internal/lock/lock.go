// Package lock provides the machine-wide mutual exclusion marker that
// keeps two installer runs from interleaving filesystem mutations.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

const (
	// StaleThreshold is the maximum age of a lock before it is considered
	// abandoned by a crashed run and may be taken over.
	StaleThreshold = 10 * time.Minute

	// DefaultName is the lock marker filename under the system temp dir.
	DefaultName = "gosetup.lock"
)

// ErrAlreadyRunning indicates another installer run holds the lock.
// There is no waiting or retry; a concurrent invocation fails fast.
var ErrAlreadyRunning = errors.New("another installer run is already in progress")

// Lock is a held installation lock. Release must be called on every exit
// path; it is idempotent and nil-safe.
type Lock struct {
	path  string
	runID string
	file  *os.File
}

// DefaultPath returns the well-known lock marker location.
func DefaultPath() string {
	return filepath.Join(os.TempDir(), DefaultName)
}

// Acquire atomically creates the lock marker at path using
// O_CREATE|O_EXCL. If the marker already exists and is not stale, it
// fails with ErrAlreadyRunning.
func Acquire(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0600)
	if err != nil {
		if os.IsExist(err) {
			// A marker left behind by a crashed run may be taken over.
			if stale, _ := isStale(path); stale {
				os.Remove(path)
				file, err = os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0600)
				if err != nil {
					return nil, ErrAlreadyRunning
				}
			} else {
				return nil, ErrAlreadyRunning
			}
		} else {
			return nil, fmt.Errorf("create lock file: %w", err)
		}
	}

	runID := uuid.New().String()
	lockData := fmt.Sprintf("pid=%d\nrun=%s\ntimestamp=%s\n",
		os.Getpid(), runID, time.Now().UTC().Format(time.RFC3339))
	if _, err := file.WriteString(lockData); err != nil {
		file.Close()
		os.Remove(path)
		return nil, fmt.Errorf("write lock data: %w", err)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(path)
		return nil, fmt.Errorf("sync lock file: %w", err)
	}

	return &Lock{
		path:  path,
		runID: runID,
		file:  file,
	}, nil
}

// RunID returns the unique identifier recorded in the lock metadata.
func (l *Lock) RunID() string {
	if l == nil {
		return ""
	}
	return l.runID
}

// Release removes the lock marker. Safe to call multiple times and on a
// nil receiver.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}

	if l.file != nil {
		l.file.Close()
		l.file = nil
	}

	if l.path != "" {
		if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove lock file: %w", err)
		}
		l.path = ""
	}

	return nil
}

// isStale checks whether the lock file is older than StaleThreshold.
func isStale(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}

	return time.Since(info.ModTime()) > StaleThreshold, nil
}
