// Package filelock provides advisory file locking for coordinating
// concurrent writers to a tasklens workspace.
package filelock

import (
	"errors"
	"fmt"
	"os"
)

const lockFileMode = 0o600

// ErrLocked is returned by TryLock when another holder owns the lock.
var ErrLocked = errors.New("workspace is locked by another process")

// Lock acquires an exclusive advisory lock on the file at path,
// creating it if it does not exist. The returned function releases
// the lock and must be called when the critical section is done.
//
// Only one process can hold the lock at a time; other callers block
// until the lock is available.
func Lock(path string) (unlock func() error, err error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}

	if err := lockFile(f); err != nil {
		_ = f.Close()
		return nil, err
	}
	return release(f), nil
}

// TryLock is like Lock but returns ErrLocked instead of waiting.
func TryLock(path string) (unlock func() error, err error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}

	ok, err := tryLockFile(f)
	if err != nil || !ok {
		_ = f.Close()
		if err == nil {
			err = ErrLocked
		}
		return nil, err
	}
	return release(f), nil
}

// With runs fn while holding the lock at path.
func With(path string, fn func() error) (err error) {
	unlock, err := Lock(path)
	if err != nil {
		return fmt.Errorf("acquiring lock: %w", err)
	}
	defer func() {
		if uerr := unlock(); uerr != nil && err == nil {
			err = fmt.Errorf("releasing lock: %w", uerr)
		}
	}()
	return fn()
}

func open(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_RDWR, lockFileMode) //nolint:gosec // lock file path from trusted source
}

func release(f *os.File) func() error {
	return func() error {
		unlockErr := unlockFile(f)
		closeErr := f.Close()
		if unlockErr != nil {
			return unlockErr
		}
		return closeErr
	}
}
