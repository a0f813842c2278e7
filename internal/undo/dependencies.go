package undo

import "context"

// RepositoryGateway exposes the repository operations the undo routine uses.
type RepositoryGateway interface {
	IsRepository(executionContext context.Context, root string) bool
	CommitCount(executionContext context.Context, root string) (int, error)
	HeadMessage(executionContext context.Context, root string) (string, error)
	ResetSoft(executionContext context.Context, root string, target string) error
	DeleteHeadRef(executionContext context.Context, root string) error
}
