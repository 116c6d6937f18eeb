package session

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"relief/internal/job"
)

// KindLocker guards submissions of one kind across processes. TryLock never
// blocks: ok is false when another holder already has kind.
type KindLocker interface {
	TryLock(kind job.Kind) (unlock func(), ok bool, err error)
}

// FileKindLocks takes a submit-<kind>.lock file in dir for each submission.
type FileKindLocks struct {
	dir string
}

// NewFileKindLocks returns a locker keeping its lock files in dir.
func NewFileKindLocks(dir string) *FileKindLocks {
	return &FileKindLocks{dir: dir}
}

// Path returns the lock file used for kind.
func (l *FileKindLocks) Path(kind job.Kind) string {
	return filepath.Join(l.dir, fmt.Sprintf("submit-%s.lock", kind))
}

// TryLock implements KindLocker.
func (l *FileKindLocks) TryLock(kind job.Kind) (func(), bool, error) {
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return nil, false, fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(l.Path(kind))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, false, fmt.Errorf("acquire submit lock: %w", err)
	}
	if !locked {
		return nil, false, nil
	}
	return func() { _ = lock.Unlock() }, true, nil
}
