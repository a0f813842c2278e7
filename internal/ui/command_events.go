package ui

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/temirov/gitcare/internal/execshell"
)

var messageFormatter execshell.CommandMessageFormatter

// Git subcommands that only inspect state. Their routine events drop to debug so
// console output shows the steps that change something.
var inspectionSubcommands = map[string]struct{}{
	"rev-parse": {},
	"config":    {},
	"remote":    {},
	"rev-list":  {},
	"log":       {},
	"status":    {},
}

// ConsoleCommandEventLogger narrates git commands through a console-encoded zap logger.
type ConsoleCommandEventLogger struct {
	logger *zap.Logger
}

// NewConsoleCommandEventLogger wraps logger; nil yields a logger that discards everything.
func NewConsoleCommandEventLogger(logger *zap.Logger) *ConsoleCommandEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleCommandEventLogger{logger: logger}
}

// CommandStarted implements execshell.CommandEventObserver.
func (eventLogger *ConsoleCommandEventLogger) CommandStarted(command execshell.ShellCommand) {
	eventLogger.emit(eventLogger.routineLevel(command), messageFormatter.BuildStartedMessage(command))
}

// CommandCompleted logs non-zero exits of mutating commands as warnings. An inspection
// command exiting non-zero usually means "absent" and stays at debug.
func (eventLogger *ConsoleCommandEventLogger) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	if result.ExitCode == 0 {
		eventLogger.emit(eventLogger.routineLevel(command), messageFormatter.BuildCompletionMessage(command, result))
		return
	}
	level := zapcore.WarnLevel
	if isInspection(command) {
		level = zapcore.DebugLevel
	}
	eventLogger.emit(level, messageFormatter.BuildFailureMessage(command, result))
}

func (eventLogger *ConsoleCommandEventLogger) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	eventLogger.emit(zapcore.ErrorLevel, messageFormatter.BuildExecutionFailureMessage(command, failure))
}

func (eventLogger *ConsoleCommandEventLogger) routineLevel(command execshell.ShellCommand) zapcore.Level {
	if isInspection(command) {
		return zapcore.DebugLevel
	}
	return zapcore.InfoLevel
}

func (eventLogger *ConsoleCommandEventLogger) emit(level zapcore.Level, message string) {
	if eventLogger == nil {
		return
	}
	if checked := eventLogger.logger.Check(level, message); checked != nil {
		checked.Write()
	}
}

func isInspection(command execshell.ShellCommand) bool {
	if command.Name != execshell.CommandGit || len(command.Details.Arguments) == 0 {
		return false
	}
	_, inspection := inspectionSubcommands[command.Details.Arguments[0]]
	return inspection
}
