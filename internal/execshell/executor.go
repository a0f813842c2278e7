package execshell

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	gitCommandNameConstant                = "git"
	loggerNotConfiguredMessageConstant    = "shell executor logger not configured"
	runnerNotConfiguredMessageConstant    = "shell executor command runner not configured"
	commandFailedErrorTemplateConstant    = "%s exited with code %d%s"
	commandExecutionErrorTemplateConstant = "%s could not be executed: %v"
	commandFailureStandardErrorTemplate   = ": %s"
	logFieldCommandConstant               = "command"
	logFieldArgumentsConstant             = "arguments"
	logFieldWorkingDirectoryConstant      = "working_directory"
	logFieldExitCodeConstant              = "exit_code"
	logFieldStandardErrorConstant         = "stderr"
	commandFailedDefaultLabelConstant     = "command"
	commandExecutionDefaultCauseMessage   = "unknown cause"
)

// CommandName identifies an executable supported by the shell executor.
type CommandName string

// CommandGit runs the git CLI.
const CommandGit CommandName = CommandName(gitCommandNameConstant)

// CommandDetails describes the arguments and environment for one invocation.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
}

// ShellCommand combines an executable name with invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the observable outcome of a finished process.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner runs shell commands.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// ErrLoggerNotConfigured indicates NewShellExecutor received a nil logger.
var ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)

// ErrCommandRunnerNotConfigured indicates NewShellExecutor received a nil runner.
var ErrCommandRunnerNotConfigured = errors.New(runnerNotConfiguredMessageConstant)

// CommandFailedError reports a command that ran and exited with a non-zero status.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failed command.
func (failure CommandFailedError) Error() string {
	standardErrorSuffix := ""
	trimmedStandardError := strings.TrimSpace(failure.Result.StandardError)
	if len(trimmedStandardError) > 0 {
		standardErrorSuffix = fmt.Sprintf(commandFailureStandardErrorTemplate, trimmedStandardError)
	}
	return fmt.Sprintf(commandFailedErrorTemplateConstant, describeCommandName(failure.Command), failure.Result.ExitCode, standardErrorSuffix)
}

// CommandExecutionError reports a command that could not produce an exit status.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the execution failure.
func (failure CommandExecutionError) Error() string {
	var cause any = commandExecutionDefaultCauseMessage
	if failure.Cause != nil {
		cause = failure.Cause
	}
	return fmt.Sprintf(commandExecutionErrorTemplateConstant, describeCommandName(failure.Command), cause)
}

// Unwrap exposes the underlying cause so context deadlines remain detectable.
func (failure CommandExecutionError) Unwrap() error {
	return failure.Cause
}

// ShellExecutor runs commands through a CommandRunner, logging and notifying observers.
type ShellExecutor struct {
	logger    *zap.Logger
	runner    CommandRunner
	observer  CommandEventObserver
	formatter CommandMessageFormatter
}

// NewShellExecutor validates dependencies and constructs a ShellExecutor.
func NewShellExecutor(logger *zap.Logger, runner CommandRunner, observer CommandEventObserver) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if runner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}
	if observer == nil {
		observer = discardingObserver{}
	}
	return &ShellExecutor{logger: logger, runner: runner, observer: observer, formatter: CommandMessageFormatter{}}, nil
}

// ExecuteGit runs git with the supplied details.
func (executor *ShellExecutor) ExecuteGit(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandGit, Details: details})
}

// Execute runs an arbitrary command. Non-zero exit codes surface as CommandFailedError.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	commandFields := []zap.Field{
		zap.String(logFieldCommandConstant, string(command.Name)),
		zap.Strings(logFieldArgumentsConstant, command.Details.Arguments),
		zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
	}

	executor.observer.CommandStarted(command)
	executor.logger.Debug(executor.formatter.BuildStartedMessage(command), commandFields...)

	executionResult, runError := executor.runner.Run(executionContext, command)
	if runError == nil && executionContext != nil && errors.Is(executionContext.Err(), context.DeadlineExceeded) {
		runError = executionContext.Err()
	}
	if runError != nil {
		executor.observer.CommandExecutionFailed(command, runError)
		executor.logger.Warn(executor.formatter.BuildExecutionFailureMessage(command, runError), append(commandFields, zap.Error(runError))...)
		return ExecutionResult{}, CommandExecutionError{Command: command, Cause: runError}
	}

	executor.observer.CommandCompleted(command, executionResult)
	if executionResult.ExitCode != 0 {
		executor.logger.Debug(
			executor.formatter.BuildFailureMessage(command, executionResult),
			append(commandFields, zap.Int(logFieldExitCodeConstant, executionResult.ExitCode), zap.String(logFieldStandardErrorConstant, executionResult.StandardError))...,
		)
		return ExecutionResult{}, CommandFailedError{Command: command, Result: executionResult}
	}

	executor.logger.Debug(executor.formatter.BuildSuccessMessage(command), commandFields...)
	return executionResult, nil
}

// IsTimeout reports whether the error stems from an expired context deadline.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

func describeCommandName(command ShellCommand) string {
	label := strings.TrimSpace(string(command.Name))
	if len(label) == 0 {
		label = commandFailedDefaultLabelConstant
	}
	if len(command.Details.Arguments) > 0 {
		label = label + " " + command.Details.Arguments[0]
	}
	return label
}
