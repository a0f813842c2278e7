package policy_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/gitcare/internal/classify"
	"github.com/temirov/gitcare/internal/gitrepo"
	"github.com/temirov/gitcare/internal/policy"
	"github.com/temirov/gitcare/internal/utils"
)

func executeCheckCommand(testInstance *testing.T, builder policy.CommandBuilder, root string, arguments ...string) (string, error) {
	testInstance.Helper()
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	output := &bytes.Buffer{}
	command.SetOut(output)
	command.SetErr(&bytes.Buffer{})
	command.SetArgs(arguments)
	command.SetContext(utils.NewCommandContextAccessor().WithRepositoryRoot(context.Background(), root))
	executionError := command.Execute()
	return output.String(), executionError
}

func TestCheckCommandRendersYAMLAndFailsForNonRepository(testInstance *testing.T) {
	root := testInstance.TempDir()
	builder := policy.CommandBuilder{
		Gateway:                  &stubGateway{repository: false},
		Classifier:               classify.MimeClassifier{},
		Locker:                   gitrepo.NoopRepositoryLocker{},
		InteractiveInputDetector: func() bool { return false },
	}

	output, executionError := executeCheckCommand(testInstance, builder, root, "--format", "yaml")

	require.ErrorIs(testInstance, executionError, policy.ErrCheckFailed)
	var report policy.Report
	require.NoError(testInstance, yaml.Unmarshal([]byte(output), &report))
	require.Equal(testInstance, root, report.Root)
	require.Len(testInstance, report.Findings, 1)
	require.Equal(testInstance, policy.KindNotARepository, report.Findings[0].Kind)
}

func TestCheckCommandTextOutput(testInstance *testing.T) {
	testCases := []struct {
		name            string
		arguments       []string
		configuration   policy.CommandConfiguration
		expectedOutput  string
		expectChmodCall bool
	}{
		{
			name:           "non_interactive_skips",
			expectedOutput: "! deploy.sh is not executable; left unchanged\n",
		},
		{
			name:            "yes_flag_applies",
			arguments:       []string{"--yes"},
			expectedOutput:  "✓ deploy.sh is not executable; made executable and committed on main\n",
			expectChmodCall: true,
		},
		{
			name:            "configuration_assume_yes_applies",
			configuration:   policy.CommandConfiguration{AssumeYes: true},
			expectedOutput:  "✓ deploy.sh is not executable; made executable and committed on main\n",
			expectChmodCall: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			root := subtest.TempDir()
			writeRequiredFiles(subtest, root)
			writeTreeFile(subtest, root, "deploy.sh", []byte(testScriptContentConstant), 0o644)
			gateway := newConfiguredGateway()
			configuration := testCase.configuration
			builder := policy.CommandBuilder{
				Gateway:                  gateway,
				Classifier:               classify.MimeClassifier{},
				Locker:                   gitrepo.NoopRepositoryLocker{},
				ConfigurationProvider:    func() policy.CommandConfiguration { return configuration },
				InteractiveInputDetector: func() bool { return false },
			}

			output, executionError := executeCheckCommand(subtest, builder, root, testCase.arguments...)

			require.NoError(subtest, executionError)
			require.Equal(subtest, testCase.expectedOutput, output)
			if testCase.expectChmodCall {
				require.Contains(subtest, gateway.mutatingCalls(), "chmod deploy.sh")
			} else {
				require.Empty(subtest, gateway.mutatingCalls())
			}
		})
	}
}

func TestCheckCommandCleanReportWithExplicitDirectory(testInstance *testing.T) {
	root := testInstance.TempDir()
	writeRequiredFiles(testInstance, root)
	builder := policy.CommandBuilder{
		Gateway:                  newConfiguredGateway(),
		Classifier:               classify.MimeClassifier{},
		InteractiveInputDetector: func() bool { return false },
	}

	output, executionError := executeCheckCommand(testInstance, builder, "/", root)

	require.NoError(testInstance, executionError)
	require.Equal(testInstance, "✓ "+root+" passes all checks\n", output)
}

func TestCheckCommandHonorsConfiguredRequiredFiles(testInstance *testing.T) {
	root := testInstance.TempDir()
	configuration := policy.CommandConfiguration{RequiredFiles: []string{" LICENSE ", ""}, Format: policy.OutputFormatYAML}
	builder := policy.CommandBuilder{
		Gateway:                  newConfiguredGateway(),
		Classifier:               classify.MimeClassifier{},
		ConfigurationProvider:    func() policy.CommandConfiguration { return configuration },
		InteractiveInputDetector: func() bool { return false },
	}

	output, executionError := executeCheckCommand(testInstance, builder, root)

	require.NoError(testInstance, executionError)
	var report policy.Report
	require.NoError(testInstance, yaml.Unmarshal([]byte(output), &report))
	require.Len(testInstance, report.Findings, 1)
	require.Equal(testInstance, policy.KindMissingRequiredFile, report.Findings[0].Kind)
	require.Equal(testInstance, "LICENSE", report.Findings[0].Path)
}
