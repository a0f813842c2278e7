package synchronize_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitcare/internal/gitrepo"
	"github.com/temirov/gitcare/internal/synchronize"
	"github.com/temirov/gitcare/internal/utils"
)

func TestSyncCommand(testInstance *testing.T) {
	pushFailure := errors.New("rejected")
	testCases := []struct {
		name           string
		status         string
		arguments      []string
		configuration  synchronize.CommandConfiguration
		stepErrors     map[string]error
		expectedOutput string
		expectedError  error
		expectedPull   string
	}{
		{
			name:           "clean_tree",
			expectedOutput: "✓ Synchronized main with origin\n",
			expectedPull:   "pull origin main",
		},
		{
			name:           "restores_local_changes",
			status:         " M go.mod",
			expectedOutput: "✓ Synchronized main with origin\n✓ Restored local changes\n",
			expectedPull:   "pull origin main",
		},
		{
			name:           "flags_override_configuration",
			arguments:      []string{"--remote", "fork", "--branch", "feature"},
			configuration:  synchronize.CommandConfiguration{Remote: "origin"},
			expectedOutput: "✓ Synchronized feature with fork\n",
			expectedPull:   "pull fork feature",
		},
		{
			name:           "failed_push_still_restores",
			status:         " M go.mod",
			stepErrors:     map[string]error{"push": pushFailure},
			expectedOutput: "✓ Restored local changes\n",
			expectedError:  pushFailure,
			expectedPull:   "pull origin main",
		},
		{
			name:           "stranded_stash_is_reported",
			status:         " M go.mod",
			stepErrors:     map[string]error{"stash pop": pushFailure},
			expectedOutput: "✓ Synchronized main with origin\n✗ Local changes remain in the stash; restore them with git stash pop\n",
			expectedError:  pushFailure,
			expectedPull:   "pull origin main",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			gateway := newRecordingGateway(testCase.status)
			gateway.remotes = []string{"origin", "fork"}
			for step, stepError := range testCase.stepErrors {
				gateway.stepErrors[step] = stepError
			}
			configuration := testCase.configuration
			builder := synchronize.CommandBuilder{
				Gateway:               gateway,
				Locker:                gitrepo.NoopRepositoryLocker{},
				ConfigurationProvider: func() synchronize.CommandConfiguration { return configuration },
			}
			command, buildError := builder.Build()
			require.NoError(subtest, buildError)

			output := &bytes.Buffer{}
			command.SetOut(output)
			command.SetErr(&bytes.Buffer{})
			command.SetArgs(testCase.arguments)
			command.SetContext(utils.NewCommandContextAccessor().WithRepositoryRoot(context.Background(), testRootConstant))

			executionError := command.Execute()

			if testCase.expectedError != nil {
				require.ErrorIs(subtest, executionError, testCase.expectedError)
			} else {
				require.NoError(subtest, executionError)
			}
			require.Equal(subtest, testCase.expectedOutput, output.String())
			require.Contains(subtest, gateway.calls, testCase.expectedPull)
		})
	}
}

func TestSyncCommandBoundsRestoreByDefaultTimeout(testInstance *testing.T) {
	gateway := newRecordingGateway(" M go.mod")
	configuration := synchronize.CommandConfiguration{NetworkTimeout: 10 * time.Minute}
	builder := synchronize.CommandBuilder{
		Gateway:               gateway,
		Locker:                gitrepo.NoopRepositoryLocker{},
		ConfigurationProvider: func() synchronize.CommandConfiguration { return configuration },
	}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)
	command.SetOut(&bytes.Buffer{})
	command.SetErr(&bytes.Buffer{})
	command.SetArgs([]string{})
	command.SetContext(utils.NewCommandContextAccessor().WithRepositoryRoot(context.Background(), testRootConstant))

	require.NoError(testInstance, command.Execute())

	require.Equal(testInstance, 1, gateway.count("stash pop"))
	require.Positive(testInstance, gateway.popDeadline)
	require.LessOrEqual(testInstance, gateway.popDeadline, synchronize.DefaultRestoreTimeout)
}
