package gitrepo_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitcare/internal/gitrepo"
)

func TestLockFilePathPrefersGitDirectory(testInstance *testing.T) {
	root := testInstance.TempDir()
	require.NoError(testInstance, os.Mkdir(filepath.Join(root, ".git"), 0o755))

	require.Equal(testInstance, filepath.Join(root, ".git", "gitcare.lock"), gitrepo.LockFilePath(root))
}

func TestLockFilePathFallsBackToTemporaryDirectory(testInstance *testing.T) {
	root := testInstance.TempDir()

	lockPath := gitrepo.LockFilePath(root)
	require.Equal(testInstance, filepath.Clean(os.TempDir()), filepath.Dir(lockPath))
	require.Equal(testInstance, lockPath, gitrepo.LockFilePath(root+string(filepath.Separator)))
}

func TestFileRepositoryLockerIsExclusive(testInstance *testing.T) {
	root := testInstance.TempDir()
	require.NoError(testInstance, os.Mkdir(filepath.Join(root, ".git"), 0o755))

	locker := gitrepo.FileRepositoryLocker{RetryDelay: 5 * time.Millisecond}
	unlock, lockError := locker.Lock(context.Background(), root)
	require.NoError(testInstance, lockError)

	contendedContext, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, contendedError := locker.Lock(contendedContext, root)
	require.ErrorIs(testInstance, contendedError, gitrepo.ErrRepositoryLocked)

	require.NoError(testInstance, unlock())

	relockedUnlock, relockError := locker.Lock(context.Background(), root)
	require.NoError(testInstance, relockError)
	require.NoError(testInstance, relockedUnlock())
}

func TestNoopRepositoryLockerAlwaysGrants(testInstance *testing.T) {
	unlock, lockError := gitrepo.NoopRepositoryLocker{}.Lock(context.Background(), "/anywhere")
	require.NoError(testInstance, lockError)
	require.NoError(testInstance, unlock())
}
