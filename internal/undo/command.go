package undo

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/gitcare/internal/dependencies"
	"github.com/temirov/gitcare/internal/gitrepo"
	"github.com/temirov/gitcare/internal/ui"
	"github.com/temirov/gitcare/internal/utils"
)

const (
	commandUseConstant              = "undo"
	commandShortDescriptionConstant = "Undo the last commit, keeping its changes staged"
	commandLongDescriptionConstant  = "undo moves the branch back by one commit. The working tree and index are left untouched, so the undone changes stay staged."
	rootCommitRemovedTextConstant   = "Removed the root commit; its changes remain staged"
	commitUndoneTemplateConstant    = "Undid commit: %s"
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the undo command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	GitExecutor                  gitrepo.GitExecutor
	Gateway                      RepositoryGateway
	Locker                       gitrepo.RepositoryLocker
	HumanReadableLoggingProvider func() bool
}

// Build constructs the undo command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	return &cobra.Command{
		Use:          commandUseConstant,
		Short:        commandShortDescriptionConstant,
		Long:         commandLongDescriptionConstant,
		Args:         cobra.NoArgs,
		RunE:         builder.run,
		SilenceUsage: true,
	}, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, _ []string) error {
	root, rootError := utils.NewCommandContextAccessor().RepositoryRootOrWorkingDirectory(command.Context())
	if rootError != nil {
		return rootError
	}

	logger := builder.resolveLogger()
	gateway, gatewayError := builder.resolveGateway(logger)
	if gatewayError != nil {
		return gatewayError
	}
	service, serviceError := NewService(Dependencies{
		Gateway: gateway,
		Locker:  dependencies.ResolveRepositoryLocker(builder.Locker),
		Logger:  logger,
	})
	if serviceError != nil {
		return serviceError
	}

	result, undoError := service.UndoLastCommit(command.Context(), root)
	if undoError != nil {
		return undoError
	}

	text := rootCommitRemovedTextConstant
	if !result.RootCommitRemoved {
		text = fmt.Sprintf(commitUndoneTemplateConstant, subjectLine(result.RecoveredMessage))
	}
	return ui.NewReportPrinter(command.OutOrStdout()).PrintLine(ui.Line{Status: ui.StatusSuccess, Text: text})
}

func (builder *CommandBuilder) resolveGateway(logger *zap.Logger) (RepositoryGateway, error) {
	if builder.Gateway != nil {
		return builder.Gateway, nil
	}
	humanReadableLogging := false
	if builder.HumanReadableLoggingProvider != nil {
		humanReadableLogging = builder.HumanReadableLoggingProvider()
	}
	gitExecutor, executorError := dependencies.ResolveGitExecutor(builder.GitExecutor, logger, humanReadableLogging)
	if executorError != nil {
		return nil, executorError
	}
	return dependencies.ResolveRepositoryManager(gitExecutor, nil, gitrepo.DefaultNetworkTimeout)
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func subjectLine(message string) string {
	subject, _, _ := strings.Cut(message, "\n")
	return subject
}
