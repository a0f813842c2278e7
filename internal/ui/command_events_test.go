package ui_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/gitcare/internal/execshell"
	"github.com/temirov/gitcare/internal/ui"
)

const (
	testWorkingDirectoryConstant = "/tmp/project"
	testIndexLockedConstant      = "fatal: index locked"
)

func gitCommand(arguments ...string) execshell.ShellCommand {
	return execshell.ShellCommand{
		Name:    execshell.CommandGit,
		Details: execshell.CommandDetails{Arguments: arguments, WorkingDirectory: testWorkingDirectoryConstant},
	}
}

func TestConsoleCommandEventLoggerLevels(testInstance *testing.T) {
	stash := gitCommand("stash", "push", "--include-untracked")
	status := gitCommand("status", "--porcelain")
	identity := gitCommand("config", "--get", "user.name")

	testCases := []struct {
		name            string
		invoke          func(logger *ui.ConsoleCommandEventLogger)
		expectedLevel   zapcore.Level
		expectedMessage string
	}{
		{
			name:            "mutating_command_started",
			invoke:          func(logger *ui.ConsoleCommandEventLogger) { logger.CommandStarted(stash) },
			expectedLevel:   zapcore.InfoLevel,
			expectedMessage: "Stashing local changes in /tmp/project",
		},
		{
			name: "mutating_command_completed",
			invoke: func(logger *ui.ConsoleCommandEventLogger) {
				logger.CommandCompleted(stash, execshell.ExecutionResult{})
			},
			expectedLevel:   zapcore.InfoLevel,
			expectedMessage: "Stashed local changes in /tmp/project",
		},
		{
			name: "mutating_command_failed",
			invoke: func(logger *ui.ConsoleCommandEventLogger) {
				logger.CommandCompleted(stash, execshell.ExecutionResult{ExitCode: 1, StandardError: testIndexLockedConstant})
			},
			expectedLevel:   zapcore.WarnLevel,
			expectedMessage: "Failed to stash local changes in /tmp/project (exit code 1: " + testIndexLockedConstant + ")",
		},
		{
			name:            "inspection_started",
			invoke:          func(logger *ui.ConsoleCommandEventLogger) { logger.CommandStarted(status) },
			expectedLevel:   zapcore.DebugLevel,
			expectedMessage: "Reviewing working tree status in /tmp/project",
		},
		{
			name: "inspection_absent_value",
			invoke: func(logger *ui.ConsoleCommandEventLogger) {
				logger.CommandCompleted(identity, execshell.ExecutionResult{ExitCode: 1})
			},
			expectedLevel:   zapcore.DebugLevel,
			expectedMessage: "user.name is not configured (exit code 1)",
		},
		{
			name: "execution_failure",
			invoke: func(logger *ui.ConsoleCommandEventLogger) {
				logger.CommandExecutionFailed(stash, errors.New("execution failed"))
			},
			expectedLevel:   zapcore.ErrorLevel,
			expectedMessage: "git stash push --include-untracked (in /tmp/project) failed: execution failed",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			observerCore, observedLogs := observer.New(zapcore.DebugLevel)
			eventLogger := ui.NewConsoleCommandEventLogger(zap.New(observerCore))

			testCase.invoke(eventLogger)

			entries := observedLogs.All()
			require.Len(subtest, entries, 1)
			require.Equal(subtest, testCase.expectedLevel, entries[0].Level)
			require.Equal(subtest, testCase.expectedMessage, entries[0].Message)
		})
	}
}

func TestConsoleCommandEventLoggerHidesInspectionAtInfo(testInstance *testing.T) {
	observerCore, observedLogs := observer.New(zapcore.InfoLevel)
	eventLogger := ui.NewConsoleCommandEventLogger(zap.New(observerCore))

	eventLogger.CommandStarted(gitCommand("rev-parse", "--is-inside-work-tree"))
	eventLogger.CommandCompleted(gitCommand("rev-parse", "--is-inside-work-tree"), execshell.ExecutionResult{StandardOutput: "true\n"})
	eventLogger.CommandStarted(gitCommand("add", "--", "run.sh"))

	require.Equal(testInstance, 1, observedLogs.Len())
	require.Equal(testInstance, "Staging run.sh in /tmp/project", observedLogs.All()[0].Message)
}
