package fileutil

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// LockSuffix names advisory lock files.
const LockSuffix = ".lock"

const lockRetryDelay = 50 * time.Millisecond

// ErrLocked reports that another process held the target's lock until the
// context expired.
var ErrLocked = errors.New("fileutil: target is locked by another process")

// Writer writes output files atomically. Lock files live in LockDir, keyed by
// the target's absolute path; an empty LockDir places them beside the target
// as <path>.lock.
type Writer struct {
	LockDir string
}

// LockPath returns the advisory lock file guarding path.
func (w Writer) LockPath(path string) string {
	if w.LockDir == "" {
		return path + LockSuffix
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	sum := sha256.Sum256([]byte(abs))
	return filepath.Join(w.LockDir, hex.EncodeToString(sum[:8])+LockSuffix)
}

// WriteFileAtomic writes data with a zero Writer.
func WriteFileAtomic(ctx context.Context, path string, data []byte, perm os.FileMode) error {
	return Writer{}.WriteFile(ctx, path, data, perm)
}

// WriteFile writes data to a temporary file beside path and renames it into
// place while holding an exclusive flock on LockPath(path). Readers never
// observe a partially written file and concurrent writers are serialized.
func (w Writer) WriteFile(ctx context.Context, path string, data []byte, perm os.FileMode) error {
	if ctx == nil {
		ctx = context.Background()
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	lockPath := w.LockPath(path)
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}

	lock := flock.New(lockPath)
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: %s: %w", ErrLocked, path, ctxErr)
		}
		return fmt.Errorf("lock %s: %w", path, err)
	}
	if !locked {
		return fmt.Errorf("%w: %s", ErrLocked, path)
	}
	defer func() { _ = lock.Unlock() }()

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		cleanup()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

// SiblingPath returns path with its extension replaced by suffix+ext, for
// example clip.mp4 -> clip.subtitled.mp4.
func SiblingPath(path, suffix, ext string) string {
	base := path[:len(path)-len(filepath.Ext(path))]
	if ext == "" {
		ext = filepath.Ext(path)
	}
	return base + suffix + ext
}
