package execshell

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"
)

// DefaultWaitDelay bounds how long a killed process may hold its output pipes open.
const DefaultWaitDelay = 5 * time.Second

// OSCommandRunner starts processes with os/exec. When the context ends the process is killed
// and the context error is returned instead of a partial result.
type OSCommandRunner struct {
	WaitDelay time.Duration
}

// NewOSCommandRunner constructs a runner with DefaultWaitDelay.
func NewOSCommandRunner() *OSCommandRunner {
	return &OSCommandRunner{WaitDelay: DefaultWaitDelay}
}

// Run executes command and reports a non-zero exit through ExecutionResult.ExitCode.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	process := exec.CommandContext(executionContext, string(command.Name), command.Details.Arguments...)
	process.Dir = command.Details.WorkingDirectory
	process.WaitDelay = runner.WaitDelay
	if len(command.Details.EnvironmentVariables) > 0 {
		process.Env = overlayEnvironment(os.Environ(), command.Details.EnvironmentVariables)
	}
	if len(command.Details.StandardInput) > 0 {
		process.Stdin = strings.NewReader(string(command.Details.StandardInput))
	}

	var standardOutput, standardError strings.Builder
	process.Stdout = &standardOutput
	process.Stderr = &standardError

	runError := process.Run()
	if contextError := executionContext.Err(); contextError != nil && runError != nil {
		return ExecutionResult{}, contextError
	}

	result := ExecutionResult{StandardOutput: standardOutput.String(), StandardError: standardError.String()}
	var exitError *exec.ExitError
	switch {
	case runError == nil:
		return result, nil
	case errors.As(runError, &exitError):
		result.ExitCode = exitError.ExitCode()
		return result, nil
	default:
		return ExecutionResult{}, runError
	}
}

// overlayEnvironment replaces inherited variables named in overrides and appends the rest in key order.
func overlayEnvironment(inherited []string, overrides map[string]string) []string {
	merged := make([]string, 0, len(inherited)+len(overrides))
	for _, assignment := range inherited {
		name, _, _ := strings.Cut(assignment, "=")
		if _, overridden := overrides[name]; !overridden {
			merged = append(merged, assignment)
		}
	}
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		merged = append(merged, name+"="+overrides[name])
	}
	return merged
}
