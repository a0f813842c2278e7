// Package dependencies resolves default collaborators for gitcare command builders.
package dependencies

import (
	"time"

	"go.uber.org/zap"

	"github.com/temirov/gitcare/internal/classify"
	"github.com/temirov/gitcare/internal/execshell"
	"github.com/temirov/gitcare/internal/filesystem"
	"github.com/temirov/gitcare/internal/gitrepo"
	"github.com/temirov/gitcare/internal/ui"
)

// ResolveFileSystem returns the provided filesystem or an OS-backed default.
func ResolveFileSystem(existing filesystem.FileSystem) filesystem.FileSystem {
	if existing != nil {
		return existing
	}
	return filesystem.OSFileSystem{}
}

// ResolveGitExecutor returns the provided executor or constructs a shell-backed default.
// Human-readable logging narrates each git invocation through the console event logger.
func ResolveGitExecutor(existing gitrepo.GitExecutor, logger *zap.Logger, humanReadableLogging bool) (gitrepo.GitExecutor, error) {
	if existing != nil {
		return existing, nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	var observer execshell.CommandEventObserver
	if humanReadableLogging {
		observer = ui.NewConsoleCommandEventLogger(logger)
	}

	shellExecutor, creationError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner(), observer)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}

// ResolveRepositoryManager constructs the git-backed gateway over executor.
func ResolveRepositoryManager(executor gitrepo.GitExecutor, fileSystem filesystem.FileSystem, networkTimeout time.Duration) (*gitrepo.RepositoryManager, error) {
	return gitrepo.NewRepositoryManager(executor, ResolveFileSystem(fileSystem), networkTimeout)
}

// ResolveClassifier returns the provided classifier or the mimetype-backed default.
func ResolveClassifier(existing classify.Classifier) classify.Classifier {
	if existing != nil {
		return existing
	}
	return classify.MimeClassifier{}
}

// ResolveRepositoryLocker returns the provided locker or the file-lock default.
func ResolveRepositoryLocker(existing gitrepo.RepositoryLocker) gitrepo.RepositoryLocker {
	if existing != nil {
		return existing
	}
	return gitrepo.FileRepositoryLocker{}
}
