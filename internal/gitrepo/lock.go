package gitrepo

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

const (
	gitDirectoryNameConstant         = ".git"
	lockFileNameConstant             = "gitcare.lock"
	fallbackLockFileTemplateConstant = "gitcare-%s.lock"
	defaultLockRetryDelayConstant    = 100 * time.Millisecond
	repositoryLockedMessageConstant  = "repository is locked by another gitcare process"
	lockAcquireErrorTemplateConstant = "acquire repository lock %s: %w"
	lockReleaseErrorTemplateConstant = "release repository lock %s: %w"
)

// ErrRepositoryLocked indicates the per-root lock could not be acquired before the context ended.
var ErrRepositoryLocked = errors.New(repositoryLockedMessageConstant)

// UnlockFunc releases a previously acquired repository lock.
type UnlockFunc func() error

// RepositoryLocker serializes mutating routines against one repository root.
type RepositoryLocker interface {
	Lock(executionContext context.Context, root string) (UnlockFunc, error)
}

// FileRepositoryLocker takes an exclusive advisory file lock inside the repository's git directory.
type FileRepositoryLocker struct {
	RetryDelay time.Duration
}

// Lock blocks until the lock for root is held or the context ends.
func (locker FileRepositoryLocker) Lock(executionContext context.Context, root string) (UnlockFunc, error) {
	lockPath := LockFilePath(root)
	fileLock := flock.New(lockPath)

	retryDelay := locker.RetryDelay
	if retryDelay <= 0 {
		retryDelay = defaultLockRetryDelayConstant
	}

	locked, lockError := fileLock.TryLockContext(executionContext, retryDelay)
	if lockError != nil {
		if errors.Is(lockError, context.DeadlineExceeded) || errors.Is(lockError, context.Canceled) {
			return nil, fmt.Errorf(lockAcquireErrorTemplateConstant, lockPath, ErrRepositoryLocked)
		}
		return nil, fmt.Errorf(lockAcquireErrorTemplateConstant, lockPath, lockError)
	}
	if !locked {
		return nil, fmt.Errorf(lockAcquireErrorTemplateConstant, lockPath, ErrRepositoryLocked)
	}

	return func() error {
		if unlockError := fileLock.Unlock(); unlockError != nil {
			return fmt.Errorf(lockReleaseErrorTemplateConstant, lockPath, unlockError)
		}
		return nil
	}, nil
}

// LockFilePath returns the lock file location for root: inside .git when it is a directory,
// otherwise a root-specific file in the temporary directory.
func LockFilePath(root string) string {
	gitDirectory := filepath.Join(root, gitDirectoryNameConstant)
	if directoryInfo, statError := os.Stat(gitDirectory); statError == nil && directoryInfo.IsDir() {
		return filepath.Join(gitDirectory, lockFileNameConstant)
	}
	rootDigest := sha256.Sum256([]byte(filepath.Clean(root)))
	return filepath.Join(os.TempDir(), fmt.Sprintf(fallbackLockFileTemplateConstant, hex.EncodeToString(rootDigest[:8])))
}

// NoopRepositoryLocker grants every lock immediately.
type NoopRepositoryLocker struct{}

// Lock returns a no-op unlock function.
func (NoopRepositoryLocker) Lock(context.Context, string) (UnlockFunc, error) {
	return func() error { return nil }, nil
}
