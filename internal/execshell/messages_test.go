package execshell

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildStartedMessageForPullIncludesRemoteAndBranch(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandGit,
		Details: CommandDetails{
			Arguments:        []string{"pull", "--rebase", "origin", "main"},
			WorkingDirectory: "/workspace/repo",
		},
	}

	message := formatter.BuildStartedMessage(command)

	require.Equal(t, "Rebasing /workspace/repo onto main from origin", message)
}

func TestBuildSuccessMessageForPushTags(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandGit,
		Details: CommandDetails{
			Arguments:        []string{"push", "origin", "--tags"},
			WorkingDirectory: "/workspace/repo",
		},
	}

	message := formatter.BuildSuccessMessage(command)

	require.Equal(t, "Pushed tags to origin from /workspace/repo", message)
}

func TestBuildFailureMessageForAddNamesStagedPath(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandGit,
		Details: CommandDetails{
			Arguments:        []string{"add", "--", "scripts/run.sh"},
			WorkingDirectory: "/workspace/repo",
		},
	}

	message := formatter.BuildFailureMessage(command, ExecutionResult{ExitCode: 128, StandardError: "fatal: index locked\n"})

	require.Equal(t, "Failed to stage scripts/run.sh in /workspace/repo (exit code 128: fatal: index locked)", message)
}

func TestBuildStartedMessageForStashPop(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name:    CommandGit,
		Details: CommandDetails{Arguments: []string{"stash", "pop"}},
	}

	message := formatter.BuildStartedMessage(command)

	require.Equal(t, "Restoring stashed changes in current directory", message)
}

func TestBuildCompletionMessageForDetachedHead(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandGit,
		Details: CommandDetails{
			Arguments:        []string{"rev-parse", "--abbrev-ref", "HEAD"},
			WorkingDirectory: "/workspace/repo",
		},
	}

	message := formatter.BuildCompletionMessage(command, ExecutionResult{StandardOutput: "HEAD\n"})

	require.Equal(t, "/workspace/repo is in a detached HEAD state", message)
}

func TestBuildMessageFallsBackToGenericTemplates(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandGit,
		Details: CommandDetails{
			Arguments:        []string{"gc", "--auto"},
			WorkingDirectory: "/workspace/repo",
		},
	}

	require.Equal(t, "Running git gc --auto (in /workspace/repo)", formatter.BuildStartedMessage(command))
	require.Equal(t, "git gc --auto (in /workspace/repo) failed: boom", formatter.BuildExecutionFailureMessage(command, errors.New("boom")))
}
