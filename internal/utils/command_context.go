package utils

import (
	"context"
	"os"
)

const (
	configurationFilePathContextKeyConstant = commandContextKey("configurationFilePath")
	repositoryRootContextKeyConstant        = commandContextKey("repositoryRoot")
)

type commandContextKey string

// CommandContextAccessor manages values stored in command execution contexts.
type CommandContextAccessor struct{}

// NewCommandContextAccessor constructs a CommandContextAccessor instance.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithConfigurationFilePath attaches the configuration file path to the provided context.
func (accessor CommandContextAccessor) WithConfigurationFilePath(parentContext context.Context, configurationFilePath string) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, configurationFilePathContextKeyConstant, configurationFilePath)
}

// ConfigurationFilePath extracts the configuration file path from the provided context.
func (accessor CommandContextAccessor) ConfigurationFilePath(executionContext context.Context) (string, bool) {
	return accessor.stringValue(executionContext, configurationFilePathContextKeyConstant)
}

// WithRepositoryRoot attaches the ambient repository root selected at startup.
func (accessor CommandContextAccessor) WithRepositoryRoot(parentContext context.Context, repositoryRoot string) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, repositoryRootContextKeyConstant, repositoryRoot)
}

// RepositoryRoot extracts the ambient repository root from the provided context.
func (accessor CommandContextAccessor) RepositoryRoot(executionContext context.Context) (string, bool) {
	return accessor.stringValue(executionContext, repositoryRootContextKeyConstant)
}

// RepositoryRootOrWorkingDirectory returns the ambient root, falling back to the process working directory.
func (accessor CommandContextAccessor) RepositoryRootOrWorkingDirectory(executionContext context.Context) (string, error) {
	if repositoryRoot, exists := accessor.RepositoryRoot(executionContext); exists && len(repositoryRoot) > 0 {
		return repositoryRoot, nil
	}
	return os.Getwd()
}

func (accessor CommandContextAccessor) stringValue(executionContext context.Context, key commandContextKey) (string, bool) {
	if executionContext == nil {
		return "", false
	}
	value, available := executionContext.Value(key).(string)
	if !available {
		return "", false
	}
	return value, true
}
