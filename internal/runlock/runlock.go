// Package runlock keeps two zpdev invocations from using the same run
// directory at once.
package runlock

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/specialistvlad/zpdev/internal/failure"
)

// FileName is the lock file created inside the run directory.
const FileName = ".zpdev.lock"

// ErrInUse is wrapped by the error Acquire returns when another process
// holds the lock.
var ErrInUse = errors.New("run directory is in use")

// Acquire takes the lock for runDir without waiting. The returned release
// function drops it and may be called more than once.
func Acquire(runDir string) (release func(), err error) {
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return nil, failure.New(failure.IO, "lock run directory", err)
	}
	path := filepath.Join(runDir, FileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, failure.New(failure.IO, "lock run directory", err)
	}
	if err := lock(f); err != nil {
		f.Close()
		return nil, failure.New(failure.IO, "lock run directory", err)
	}

	released := false
	return func() {
		if released {
			return
		}
		released = true
		unlock(f)
		f.Close()
	}, nil
}
