package undo_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/gitcare/internal/execshell"
	"github.com/temirov/gitcare/internal/gitrepo"
	"github.com/temirov/gitcare/internal/testsupport"
	"github.com/temirov/gitcare/internal/undo"
	"github.com/temirov/gitcare/internal/utils"
)

type stubGateway struct {
	repository  bool
	commitCount int
	headMessage string
	resetError  error
	calls       []string
}

func (gateway *stubGateway) IsRepository(context.Context, string) bool {
	return gateway.repository
}

func (gateway *stubGateway) CommitCount(context.Context, string) (int, error) {
	gateway.calls = append(gateway.calls, "count")
	return gateway.commitCount, nil
}

func (gateway *stubGateway) HeadMessage(context.Context, string) (string, error) {
	gateway.calls = append(gateway.calls, "message")
	return gateway.headMessage, nil
}

func (gateway *stubGateway) ResetSoft(_ context.Context, _ string, target string) error {
	gateway.calls = append(gateway.calls, "reset "+target)
	return gateway.resetError
}

func (gateway *stubGateway) DeleteHeadRef(context.Context, string) error {
	gateway.calls = append(gateway.calls, "delete HEAD")
	return nil
}

func TestUndoLastCommitPaths(testInstance *testing.T) {
	resetFailure := &gitrepo.OperationError{Operation: "reset --soft", Cause: errors.New("exit status 128")}
	testCases := []struct {
		name           string
		gateway        *stubGateway
		expectedResult undo.Result
		expectedError  error
		expectedCalls  []string
	}{
		{
			name:          "not_a_repository",
			gateway:       &stubGateway{repository: false},
			expectedError: gitrepo.ErrNotARepository,
		},
		{
			name:          "no_commits",
			gateway:       &stubGateway{repository: true},
			expectedError: undo.ErrNothingToUndo,
			expectedCalls: []string{"count"},
		},
		{
			name:           "root_commit",
			gateway:        &stubGateway{repository: true, commitCount: 1, headMessage: "Initial commit"},
			expectedResult: undo.Result{RootCommitRemoved: true},
			expectedCalls:  []string{"count", "delete HEAD"},
		},
		{
			name:           "general_case",
			gateway:        &stubGateway{repository: true, commitCount: 4, headMessage: "Fix typo"},
			expectedResult: undo.Result{RecoveredMessage: "Fix typo"},
			expectedCalls:  []string{"count", "message", "reset HEAD~1"},
		},
		{
			name:          "reset_failure",
			gateway:       &stubGateway{repository: true, commitCount: 2, headMessage: "Fix typo", resetError: resetFailure},
			expectedError: resetFailure,
			expectedCalls: []string{"count", "message", "reset HEAD~1"},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			service, creationError := undo.NewService(undo.Dependencies{Gateway: testCase.gateway})
			require.NoError(subtest, creationError)

			result, undoError := service.UndoLastCommit(context.Background(), "/workspace/project")

			if testCase.expectedError != nil {
				require.ErrorIs(subtest, undoError, testCase.expectedError)
			} else {
				require.NoError(subtest, undoError)
			}
			require.Equal(subtest, testCase.expectedResult, result)
			require.Equal(subtest, testCase.expectedCalls, testCase.gateway.calls)
		})
	}
}

func newShellBackedService(testInstance *testing.T) *undo.Service {
	testInstance.Helper()
	shellExecutor, executorError := execshell.NewShellExecutor(zap.NewNop(), execshell.NewOSCommandRunner(), nil)
	require.NoError(testInstance, executorError)
	manager, managerError := gitrepo.NewRepositoryManager(shellExecutor, nil, time.Minute)
	require.NoError(testInstance, managerError)
	service, serviceError := undo.NewService(undo.Dependencies{Gateway: manager, Locker: gitrepo.FileRepositoryLocker{}})
	require.NoError(testInstance, serviceError)
	return service
}

func TestUndoAgainstRealRepository(testInstance *testing.T) {
	testInstance.Run("empty_repository", func(subtest *testing.T) {
		repository := testsupport.NewGitRepository(subtest)

		_, undoError := newShellBackedService(subtest).UndoLastCommit(context.Background(), repository.Root)

		require.ErrorIs(subtest, undoError, undo.ErrNothingToUndo)
	})

	testInstance.Run("root_commit_keeps_files", func(subtest *testing.T) {
		repository := testsupport.NewGitRepository(subtest)
		repository.CommitFile("README.md", "hello\n", "Initial commit")
		repository.WriteFile("draft.txt", "work in progress\n", 0)

		result, undoError := newShellBackedService(subtest).UndoLastCommit(context.Background(), repository.Root)

		require.NoError(subtest, undoError)
		require.True(subtest, result.RootCommitRemoved)
		require.Zero(subtest, repository.CommitCount())
		require.Equal(subtest, "hello\n", repository.ReadFile("README.md"))
		require.Equal(subtest, "work in progress\n", repository.ReadFile("draft.txt"))
		require.Contains(subtest, repository.Git("status", "--porcelain"), "A  README.md")
	})

	testInstance.Run("general_case_preserves_tree_and_index", func(subtest *testing.T) {
		repository := testsupport.NewGitRepository(subtest)
		repository.CommitFile("README.md", "hello\n", "Initial commit")
		repository.CommitFile("notes.txt", "notes\n", "Add notes\n\nLonger description.")
		repository.WriteFile("README.md", "hello, edited\n", 0)
		repository.WriteFile("staged.txt", "staged\n", 0)
		repository.Git("add", "--", "staged.txt")

		result, undoError := newShellBackedService(subtest).UndoLastCommit(context.Background(), repository.Root)

		require.NoError(subtest, undoError)
		require.False(subtest, result.RootCommitRemoved)
		require.Equal(subtest, "Add notes\n\nLonger description.", result.RecoveredMessage)
		require.Equal(subtest, 1, repository.CommitCount())
		require.Equal(subtest, "hello, edited\n", repository.ReadFile("README.md"))
		require.Equal(subtest, "notes\n", repository.ReadFile("notes.txt"))
		stagedNames := repository.Git("diff", "--cached", "--name-only")
		require.Contains(subtest, stagedNames, "notes.txt")
		require.Contains(subtest, stagedNames, "staged.txt")
		require.Contains(subtest, repository.Git("diff", "--name-only"), "README.md")
	})
}

func TestUndoCommandOutput(testInstance *testing.T) {
	testCases := []struct {
		name           string
		gateway        *stubGateway
		expectedOutput string
		expectedError  error
	}{
		{
			name:           "general_case_prints_subject",
			gateway:        &stubGateway{repository: true, commitCount: 3, headMessage: "Add notes\n\nBody"},
			expectedOutput: "✓ Undid commit: Add notes\n",
		},
		{
			name:           "root_commit",
			gateway:        &stubGateway{repository: true, commitCount: 1},
			expectedOutput: "✓ Removed the root commit; its changes remain staged\n",
		},
		{
			name:          "nothing_to_undo",
			gateway:       &stubGateway{repository: true},
			expectedError: undo.ErrNothingToUndo,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			builder := undo.CommandBuilder{Gateway: testCase.gateway, Locker: gitrepo.NoopRepositoryLocker{}}
			command, buildError := builder.Build()
			require.NoError(subtest, buildError)

			output := &bytes.Buffer{}
			command.SetOut(output)
			command.SetErr(&bytes.Buffer{})
			command.SetArgs([]string{})
			command.SetContext(utils.NewCommandContextAccessor().WithRepositoryRoot(context.Background(), "/workspace/project"))

			executionError := command.Execute()

			if testCase.expectedError != nil {
				require.ErrorIs(subtest, executionError, testCase.expectedError)
			} else {
				require.NoError(subtest, executionError)
			}
			require.Equal(subtest, testCase.expectedOutput, output.String())
		})
	}
}
