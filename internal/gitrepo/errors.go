package gitrepo

import (
	"errors"
	"fmt"
)

const (
	notARepositoryMessageConstant        = "not a git repository"
	detachedHeadMessageConstant          = "repository is in a detached HEAD state"
	operationTimeoutMessageConstant      = "operation timed out"
	executorMissingMessageConstant       = "git executor not configured"
	repositoryPathMissingMessageConstant = "repository path must be provided"
	operationErrorTemplateConstant       = "git %s failed: %v"
	operationErrorWithoutCauseTemplate   = "git %s failed"
)

// ErrNotARepository indicates the supplied root is not inside a Git working tree.
var ErrNotARepository = errors.New(notARepositoryMessageConstant)

// ErrDetachedHead indicates HEAD does not point at a branch.
var ErrDetachedHead = errors.New(detachedHeadMessageConstant)

// ErrOperationTimeout indicates a network operation exceeded its deadline.
var ErrOperationTimeout = errors.New(operationTimeoutMessageConstant)

// ErrGitExecutorNotConfigured indicates NewRepositoryManager received a nil executor.
var ErrGitExecutorNotConfigured = errors.New(executorMissingMessageConstant)

// ErrRepositoryPathRequired indicates an empty repository path.
var ErrRepositoryPathRequired = errors.New(repositoryPathMissingMessageConstant)

// OperationError reports a failed gateway operation together with its cause.
type OperationError struct {
	Operation string
	Cause     error
}

// Error describes the failed operation.
func (operationError *OperationError) Error() string {
	if operationError.Cause == nil {
		return fmt.Sprintf(operationErrorWithoutCauseTemplate, operationError.Operation)
	}
	return fmt.Sprintf(operationErrorTemplateConstant, operationError.Operation, operationError.Cause)
}

// Unwrap exposes the cause for errors.Is and errors.As.
func (operationError *OperationError) Unwrap() error {
	return operationError.Cause
}
