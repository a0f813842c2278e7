package policy

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/temirov/gitcare/internal/classify"
	"github.com/temirov/gitcare/internal/dependencies"
	"github.com/temirov/gitcare/internal/filesystem"
	"github.com/temirov/gitcare/internal/gitrepo"
	"github.com/temirov/gitcare/internal/ui"
	"github.com/temirov/gitcare/internal/utils"
)

const (
	commandUseConstant              = "check [DIR]"
	commandShortDescriptionConstant = "Check a working tree against the hygiene policy"
	commandLongDescriptionConstant  = "check verifies identity settings, remote presence, required files, script permissions, and disallowed binary types, offering to fix non-executable scripts."
	yesFlagNameConstant             = "yes"
	yesFlagDescriptionConstant      = "Apply every remediation without prompting"
	formatFlagNameConstant          = "format"
	formatFlagDescriptionConstant   = "Output format: text or yaml"
	checkFailedMessageConstant      = "check reported failures"
)

// ErrCheckFailed indicates the report contained a fatal or failure finding.
var ErrCheckFailed = errors.New(checkFailedMessageConstant)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the check command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	GitExecutor                  gitrepo.GitExecutor
	Gateway                      RepositoryGateway
	Classifier                   classify.Classifier
	FileSystem                   filesystem.FileSystem
	Locker                       gitrepo.RepositoryLocker
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
	NetworkTimeoutProvider       func() time.Duration
	InteractiveInputDetector     func() bool
}

// Build constructs the check command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:          commandUseConstant,
		Short:        commandShortDescriptionConstant,
		Long:         commandLongDescriptionConstant,
		Args:         cobra.MaximumNArgs(1),
		RunE:         builder.run,
		SilenceUsage: true,
	}

	defaults := DefaultCommandConfiguration()
	command.Flags().Bool(yesFlagNameConstant, defaults.AssumeYes, yesFlagDescriptionConstant)
	command.Flags().String(formatFlagNameConstant, defaults.Format, formatFlagDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()
	if command.Flags().Changed(yesFlagNameConstant) {
		assumeYes, flagError := command.Flags().GetBool(yesFlagNameConstant)
		if flagError != nil {
			return flagError
		}
		configuration.AssumeYes = assumeYes
	}
	if command.Flags().Changed(formatFlagNameConstant) {
		format, flagError := command.Flags().GetString(formatFlagNameConstant)
		if flagError != nil {
			return flagError
		}
		configuration.Format = format
		configuration = configuration.Sanitize()
	}

	contextAccessor := utils.NewCommandContextAccessor()
	baseDirectory, baseError := contextAccessor.RepositoryRootOrWorkingDirectory(command.Context())
	if baseError != nil {
		return baseError
	}
	candidate := ""
	if len(arguments) > 0 {
		candidate = arguments[0]
	}
	root, resolveError := gitrepo.NewRepositoryPathResolver(nil).Resolve(candidate, baseDirectory)
	if resolveError != nil {
		return resolveError
	}

	logger := builder.resolveLogger()
	engine, engineError := builder.buildEngine(command, logger, configuration)
	if engineError != nil {
		return engineError
	}

	report, evaluationError := engine.Evaluate(command.Context(), root)
	if renderError := builder.render(command, configuration, report); renderError != nil {
		return renderError
	}
	if evaluationError != nil {
		return evaluationError
	}
	if report.HasFailures() {
		return ErrCheckFailed
	}
	return nil
}

func (builder *CommandBuilder) buildEngine(command *cobra.Command, logger *zap.Logger, configuration CommandConfiguration) (*Engine, error) {
	fileSystem := dependencies.ResolveFileSystem(builder.FileSystem)
	gateway := builder.Gateway
	if gateway == nil {
		gitExecutor, executorError := dependencies.ResolveGitExecutor(builder.GitExecutor, logger, builder.humanReadableLogging())
		if executorError != nil {
			return nil, executorError
		}
		repositoryManager, managerError := dependencies.ResolveRepositoryManager(gitExecutor, fileSystem, builder.networkTimeout())
		if managerError != nil {
			return nil, managerError
		}
		gateway = repositoryManager
	}

	return NewEngine(Dependencies{
		Gateway:    gateway,
		Classifier: dependencies.ResolveClassifier(builder.Classifier),
		FileSystem: fileSystem,
		Decisions:  builder.resolveDecisionSource(command, configuration),
		Locker:     dependencies.ResolveRepositoryLocker(builder.Locker),
		Logger:     logger,
	}, Settings{
		RequiredFiles:   configuration.RequiredFiles,
		DisallowedTypes: configuration.DisallowedTypes,
	})
}

func (builder *CommandBuilder) resolveDecisionSource(command *cobra.Command, configuration CommandConfiguration) DecisionSource {
	if configuration.AssumeYes {
		return StaticDecisionSource{Decision: DecisionApply}
	}
	if !builder.interactiveInput() {
		return StaticDecisionSource{Decision: DecisionSkip}
	}
	return PrompterDecisionSource{Prompter: NewIOConfirmationPrompter(command.InOrStdin(), command.OutOrStdout())}
}

func (builder *CommandBuilder) render(command *cobra.Command, configuration CommandConfiguration, report Report) error {
	if configuration.Format == OutputFormatYAML {
		return ui.WriteYAML(command.OutOrStdout(), report)
	}
	return ui.NewReportPrinter(command.OutOrStdout()).PrintLines(ReportLines(report))
}

func (builder *CommandBuilder) interactiveInput() bool {
	if builder.InteractiveInputDetector != nil {
		return builder.InteractiveInputDetector()
	}
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func (builder *CommandBuilder) humanReadableLogging() bool {
	if builder.HumanReadableLoggingProvider == nil {
		return false
	}
	return builder.HumanReadableLoggingProvider()
}

func (builder *CommandBuilder) networkTimeout() time.Duration {
	if builder.NetworkTimeoutProvider == nil {
		return gitrepo.DefaultNetworkTimeout
	}
	return builder.NetworkTimeoutProvider()
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
