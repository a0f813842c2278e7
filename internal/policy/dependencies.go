package policy

import (
	"context"
)

// RepositoryGateway exposes the repository operations policy evaluation needs.
type RepositoryGateway interface {
	IsRepository(executionContext context.Context, root string) bool
	ConfigValue(executionContext context.Context, root string, key string) (string, bool, error)
	Remotes(executionContext context.Context, root string) ([]string, error)
	CurrentBranch(executionContext context.Context, root string) (string, error)
	SetExecutable(executionContext context.Context, root string, relativePath string) error
	StagePath(executionContext context.Context, root string, relativePath string) error
	CommitPath(executionContext context.Context, root string, message string, relativePath string) error
}

// ConfirmationPrompter asks a yes/no question.
type ConfirmationPrompter interface {
	Confirm(prompt string) (bool, error)
}
