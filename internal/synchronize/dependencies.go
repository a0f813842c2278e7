package synchronize

import "context"

// RepositoryGateway exposes the repository operations the sync routine sequences.
type RepositoryGateway interface {
	IsRepository(executionContext context.Context, root string) bool
	Remotes(executionContext context.Context, root string) ([]string, error)
	CurrentBranch(executionContext context.Context, root string) (string, error)
	Status(executionContext context.Context, root string) (string, error)
	Stash(executionContext context.Context, root string) (bool, error)
	StashPop(executionContext context.Context, root string) error
	PullRebase(executionContext context.Context, root string, remote string, branch string) error
	Push(executionContext context.Context, root string, remote string, branch string) error
	PushTags(executionContext context.Context, root string, remote string) error
}
