package testsupport

import (
	"context"
	"strings"

	"github.com/temirov/gitcare/internal/execshell"
)

// GitResponse configures the outcome returned for one git argument list.
type GitResponse struct {
	StandardOutput string
	ExitCode       int
	Error          error
}

// GitExecutorStub records git invocations and replays configured responses keyed by the space-joined arguments.
// Unconfigured invocations succeed with empty output.
type GitExecutorStub struct {
	Responses        map[string]GitResponse
	ExecutedCommands []execshell.CommandDetails
	ObservedContexts []context.Context
}

// ExecuteGit records the invocation and returns the configured response.
func (executor *GitExecutorStub) ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.ExecutedCommands = append(executor.ExecutedCommands, details)
	executor.ObservedContexts = append(executor.ObservedContexts, executionContext)

	response, exists := executor.Responses[strings.Join(details.Arguments, " ")]
	if !exists {
		return execshell.ExecutionResult{}, nil
	}
	if response.Error != nil {
		return execshell.ExecutionResult{}, response.Error
	}
	result := execshell.ExecutionResult{StandardOutput: response.StandardOutput, ExitCode: response.ExitCode}
	if response.ExitCode != 0 {
		return execshell.ExecutionResult{}, execshell.CommandFailedError{
			Command: execshell.ShellCommand{Name: execshell.CommandGit, Details: details},
			Result:  result,
		}
	}
	return result, nil
}

// ExecutedArguments returns the space-joined argument lists in invocation order.
func (executor *GitExecutorStub) ExecutedArguments() []string {
	arguments := make([]string, 0, len(executor.ExecutedCommands))
	for _, details := range executor.ExecutedCommands {
		arguments = append(arguments, strings.Join(details.Arguments, " "))
	}
	return arguments
}
