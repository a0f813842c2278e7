package synchronize

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/temirov/gitcare/internal/gitrepo"
)

const (
	// DefaultRemoteName is preferred when a repository has several remotes.
	DefaultRemoteName = "origin"
	// DefaultRestoreTimeout bounds the stash restore that runs after the caller's context ends.
	DefaultRestoreTimeout = 30 * time.Second
)

const (
	gatewayMissingMessageConstant     = "sync repository gateway not configured"
	noRemoteMessageConstant           = "no remote is configured"
	remoteNotFoundMessageConstant     = "remote not found"
	notARepositoryTemplateConstant    = "sync %s: %w"
	remoteNotFoundTemplateConstant    = "%w: %s (available: %s)"
	statusFailureTemplateConstant     = "inspect working tree: %w"
	stashFailureTemplateConstant      = "stash local changes: %w"
	pullFailureTemplateConstant       = "pull %s/%s: %w"
	pushFailureTemplateConstant       = "push %s to %s: %w"
	pushTagsFailureTemplateConstant   = "push tags to %s: %w"
	restoreFailureTemplateConstant    = "restore stashed changes: %w"
	unlockFailureTemplateConstant     = "release lock: %w"
	syncStartedMessageConstant        = "sync started"
	syncCompletedMessageConstant      = "sync completed"
	stashRestoreFailedMessageConstant = "stashed changes could not be restored; recover them with git stash pop"
	logFieldRootConstant              = "root"
	logFieldRemoteConstant            = "remote"
	logFieldBranchConstant            = "branch"
	logFieldHadLocalChangesConstant   = "had_local_changes"
	logFieldStashedConstant           = "stashed"
	remoteListSeparatorConstant       = ", "
)

// ErrGatewayNotConfigured indicates NewService received no repository gateway.
var ErrGatewayNotConfigured = errors.New(gatewayMissingMessageConstant)

// ErrNoRemote indicates the repository has no remote to synchronize with.
var ErrNoRemote = errors.New(noRemoteMessageConstant)

// ErrRemoteNotFound indicates the requested remote is absent and no single remote can stand in for it.
var ErrRemoteNotFound = errors.New(remoteNotFoundMessageConstant)

// Dependencies enumerates the collaborators used by the sync routine.
type Dependencies struct {
	Gateway        RepositoryGateway
	Locker         gitrepo.RepositoryLocker
	Logger         *zap.Logger
	RestoreTimeout time.Duration
}

// Options configures one sync run. Empty Remote and Branch select defaults.
type Options struct {
	Root   string
	Remote string
	Branch string
}

// Result describes what a sync run did.
type Result struct {
	Remote   string
	Branch   string
	Stashed  bool
	Restored bool
}

// Service sequences stash, pull --rebase, push, push --tags, and stash restore.
type Service struct {
	gateway        RepositoryGateway
	locker         gitrepo.RepositoryLocker
	logger         *zap.Logger
	restoreTimeout time.Duration
}

// NewService validates dependencies and constructs a Service.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.Gateway == nil {
		return nil, ErrGatewayNotConfigured
	}
	service := &Service{
		gateway:        dependencies.Gateway,
		locker:         dependencies.Locker,
		logger:         dependencies.Logger,
		restoreTimeout: dependencies.RestoreTimeout,
	}
	if service.locker == nil {
		service.locker = gitrepo.NoopRepositoryLocker{}
	}
	if service.logger == nil {
		service.logger = zap.NewNop()
	}
	if service.restoreTimeout <= 0 {
		service.restoreTimeout = DefaultRestoreTimeout
	}
	return service, nil
}

// Sync brings the branch in line with its remote counterpart.
// Only a stash entry recorded by this run is restored. Once it exists, it is restored on every exit path, and a restore
// failure is reported together with whichever step failed first.
func (service *Service) Sync(executionContext context.Context, options Options) (result Result, syncError error) {
	root := options.Root
	if !service.gateway.IsRepository(executionContext, root) {
		return Result{}, fmt.Errorf(notARepositoryTemplateConstant, root, gitrepo.ErrNotARepository)
	}

	remote, remoteError := service.resolveRemote(executionContext, root, options.Remote)
	if remoteError != nil {
		return Result{}, remoteError
	}
	branch := strings.TrimSpace(options.Branch)
	if len(branch) == 0 {
		currentBranch, branchError := service.gateway.CurrentBranch(executionContext, root)
		if branchError != nil {
			return Result{}, branchError
		}
		branch = currentBranch
	}
	result = Result{Remote: remote, Branch: branch}

	unlock, lockError := service.locker.Lock(executionContext, root)
	if lockError != nil {
		return result, lockError
	}
	defer func() {
		if unlockError := unlock(); unlockError != nil {
			syncError = combine(syncError, fmt.Errorf(unlockFailureTemplateConstant, unlockError))
		}
	}()

	status, statusError := service.gateway.Status(executionContext, root)
	if statusError != nil {
		return result, fmt.Errorf(statusFailureTemplateConstant, statusError)
	}
	hadLocalChanges := len(strings.TrimSpace(status)) > 0
	service.logger.Debug(syncStartedMessageConstant,
		zap.String(logFieldRootConstant, root),
		zap.String(logFieldRemoteConstant, remote),
		zap.String(logFieldBranchConstant, branch),
		zap.Bool(logFieldHadLocalChangesConstant, hadLocalChanges),
	)

	if hadLocalChanges {
		stashed, stashError := service.gateway.Stash(executionContext, root)
		if stashError != nil {
			return result, fmt.Errorf(stashFailureTemplateConstant, stashError)
		}
		result.Stashed = stashed
	}
	if result.Stashed {
		defer func() {
			if restoreError := service.restore(executionContext, root); restoreError != nil {
				service.logger.Error(stashRestoreFailedMessageConstant, zap.String(logFieldRootConstant, root), zap.Error(restoreError))
				syncError = combine(syncError, fmt.Errorf(restoreFailureTemplateConstant, restoreError))
				return
			}
			result.Restored = true
		}()
	}

	if pullError := service.gateway.PullRebase(executionContext, root, remote, branch); pullError != nil {
		return result, fmt.Errorf(pullFailureTemplateConstant, remote, branch, pullError)
	}
	if pushError := service.gateway.Push(executionContext, root, remote, branch); pushError != nil {
		return result, fmt.Errorf(pushFailureTemplateConstant, branch, remote, pushError)
	}
	if pushTagsError := service.gateway.PushTags(executionContext, root, remote); pushTagsError != nil {
		return result, fmt.Errorf(pushTagsFailureTemplateConstant, remote, pushTagsError)
	}

	service.logger.Debug(syncCompletedMessageConstant,
		zap.String(logFieldRootConstant, root),
		zap.Bool(logFieldStashedConstant, result.Stashed),
	)
	return result, nil
}

// restore pops the stash under a context that survives cancellation of the run itself.
func (service *Service) restore(executionContext context.Context, root string) error {
	restoreContext, cancel := context.WithTimeout(context.WithoutCancel(executionContext), service.restoreTimeout)
	defer cancel()
	return service.gateway.StashPop(restoreContext, root)
}

func (service *Service) resolveRemote(executionContext context.Context, root string, requested string) (string, error) {
	remotes, remotesError := service.gateway.Remotes(executionContext, root)
	if remotesError != nil {
		return "", remotesError
	}
	if len(remotes) == 0 {
		return "", ErrNoRemote
	}

	preferred := strings.TrimSpace(requested)
	if len(preferred) == 0 {
		preferred = DefaultRemoteName
	}
	if slices.Contains(remotes, preferred) {
		return preferred, nil
	}
	if len(remotes) == 1 {
		return remotes[0], nil
	}
	return "", fmt.Errorf(remoteNotFoundTemplateConstant, ErrRemoteNotFound, preferred, strings.Join(remotes, remoteListSeparatorConstant))
}

func combine(existing error, additional error) error {
	if existing == nil {
		return additional
	}
	return multierror.Append(existing, additional)
}
