package synchronize

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/gitcare/internal/dependencies"
	"github.com/temirov/gitcare/internal/gitrepo"
	"github.com/temirov/gitcare/internal/ui"
	"github.com/temirov/gitcare/internal/utils"
)

const (
	commandUseConstant              = "sync"
	commandShortDescriptionConstant = "Rebase onto the remote branch and push, protecting local changes"
	commandLongDescriptionConstant  = "sync stashes uncommitted changes, pulls with rebase, pushes the branch and its tags, and restores the stash even when a step fails."
	remoteFlagNameConstant          = "remote"
	remoteFlagDescriptionConstant   = "Remote to synchronize with (default: origin, or the only configured remote)"
	branchFlagNameConstant          = "branch"
	branchFlagDescriptionConstant   = "Branch to synchronize (default: the checked-out branch)"
	synchronizedTemplateConstant    = "Synchronized %s with %s"
	restoredMessageConstant         = "Restored local changes"
	strandedMessageConstant         = "Local changes remain in the stash; restore them with git stash pop"
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the sync command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	GitExecutor                  gitrepo.GitExecutor
	Gateway                      RepositoryGateway
	Locker                       gitrepo.RepositoryLocker
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
}

// Build constructs the sync command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:          commandUseConstant,
		Short:        commandShortDescriptionConstant,
		Long:         commandLongDescriptionConstant,
		Args:         cobra.NoArgs,
		RunE:         builder.run,
		SilenceUsage: true,
	}

	command.Flags().String(remoteFlagNameConstant, "", remoteFlagDescriptionConstant)
	command.Flags().String(branchFlagNameConstant, "", branchFlagDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, _ []string) error {
	configuration := builder.resolveConfiguration()
	remote := configuration.Remote
	if command.Flags().Changed(remoteFlagNameConstant) {
		remoteFlagValue, flagError := command.Flags().GetString(remoteFlagNameConstant)
		if flagError != nil {
			return flagError
		}
		remote = remoteFlagValue
	}
	branch, branchFlagError := command.Flags().GetString(branchFlagNameConstant)
	if branchFlagError != nil {
		return branchFlagError
	}

	root, rootError := utils.NewCommandContextAccessor().RepositoryRootOrWorkingDirectory(command.Context())
	if rootError != nil {
		return rootError
	}

	logger := builder.resolveLogger()
	gateway, gatewayError := builder.resolveGateway(logger, configuration)
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

	result, syncError := service.Sync(command.Context(), Options{Root: root, Remote: remote, Branch: branch})
	printer := ui.NewReportPrinter(command.OutOrStdout())
	var lines []ui.Line
	if syncError == nil {
		lines = append(lines, ui.Line{Status: ui.StatusSuccess, Text: fmt.Sprintf(synchronizedTemplateConstant, result.Branch, result.Remote)})
	}
	if result.Stashed && result.Restored {
		lines = append(lines, ui.Line{Status: ui.StatusSuccess, Text: restoredMessageConstant})
	}
	if result.Stashed && !result.Restored {
		lines = append(lines, ui.Line{Status: ui.StatusFailure, Text: strandedMessageConstant})
	}
	if printError := printer.PrintLines(lines); printError != nil {
		return printError
	}
	return syncError
}

func (builder *CommandBuilder) resolveGateway(logger *zap.Logger, configuration CommandConfiguration) (RepositoryGateway, error) {
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
	return dependencies.ResolveRepositoryManager(gitExecutor, nil, configuration.NetworkTimeout)
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
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
