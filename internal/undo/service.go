package undo

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/gitcare/internal/gitrepo"
)

const (
	previousCommitReferenceConstant = "HEAD~1"
	gatewayMissingMessageConstant   = "undo repository gateway not configured"
	nothingToUndoMessageConstant    = "nothing to undo"
	notARepositoryTemplateConstant  = "undo %s: %w"
	commitCountTemplateConstant     = "count commits: %w"
	headMessageTemplateConstant     = "read last commit message: %w"
	unlockFailureTemplateConstant   = "release lock: %w"
	rootCommitRemovedMessage        = "root commit removed"
	commitUndoneMessage             = "commit undone"
	logFieldRootConstant            = "root"
	logFieldMessageConstant         = "message"
)

// ErrGatewayNotConfigured indicates NewService received no repository gateway.
var ErrGatewayNotConfigured = errors.New(gatewayMissingMessageConstant)

// ErrNothingToUndo indicates the branch has no commits.
var ErrNothingToUndo = errors.New(nothingToUndoMessageConstant)

// Dependencies enumerates the collaborators used by the undo routine.
type Dependencies struct {
	Gateway RepositoryGateway
	Locker  gitrepo.RepositoryLocker
	Logger  *zap.Logger
}

// Result describes which undo path ran.
type Result struct {
	RootCommitRemoved bool
	RecoveredMessage  string
}

// Service undoes the most recent commit.
type Service struct {
	gateway RepositoryGateway
	locker  gitrepo.RepositoryLocker
	logger  *zap.Logger
}

// NewService validates dependencies and constructs a Service.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.Gateway == nil {
		return nil, ErrGatewayNotConfigured
	}
	service := &Service{gateway: dependencies.Gateway, locker: dependencies.Locker, logger: dependencies.Logger}
	if service.locker == nil {
		service.locker = gitrepo.NoopRepositoryLocker{}
	}
	if service.logger == nil {
		service.logger = zap.NewNop()
	}
	return service, nil
}

// UndoLastCommit removes HEAD from the branch. The root commit has no parent to reset
// onto, so a single-commit branch is emptied by deleting the HEAD ref instead.
func (service *Service) UndoLastCommit(executionContext context.Context, root string) (result Result, undoError error) {
	if !service.gateway.IsRepository(executionContext, root) {
		return Result{}, fmt.Errorf(notARepositoryTemplateConstant, root, gitrepo.ErrNotARepository)
	}

	unlock, lockError := service.locker.Lock(executionContext, root)
	if lockError != nil {
		return Result{}, lockError
	}
	defer func() {
		if unlockError := unlock(); unlockError != nil && undoError == nil {
			undoError = fmt.Errorf(unlockFailureTemplateConstant, unlockError)
		}
	}()

	commitCount, countError := service.gateway.CommitCount(executionContext, root)
	if countError != nil {
		return Result{}, fmt.Errorf(commitCountTemplateConstant, countError)
	}

	switch commitCount {
	case 0:
		return Result{}, ErrNothingToUndo
	case 1:
		if deleteError := service.gateway.DeleteHeadRef(executionContext, root); deleteError != nil {
			return Result{}, deleteError
		}
		service.logger.Debug(rootCommitRemovedMessage, zap.String(logFieldRootConstant, root))
		return Result{RootCommitRemoved: true}, nil
	}

	message, messageError := service.gateway.HeadMessage(executionContext, root)
	if messageError != nil {
		return Result{}, fmt.Errorf(headMessageTemplateConstant, messageError)
	}
	if resetError := service.gateway.ResetSoft(executionContext, root, previousCommitReferenceConstant); resetError != nil {
		return Result{}, resetError
	}
	service.logger.Debug(commitUndoneMessage, zap.String(logFieldRootConstant, root), zap.String(logFieldMessageConstant, message))
	return Result{RecoveredMessage: message}, nil
}
