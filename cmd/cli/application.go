package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/gitcare/internal/gitrepo"
	"github.com/temirov/gitcare/internal/history"
	"github.com/temirov/gitcare/internal/policy"
	"github.com/temirov/gitcare/internal/synchronize"
	"github.com/temirov/gitcare/internal/undo"
	"github.com/temirov/gitcare/internal/utils"
)

const (
	applicationNameConstant                 = "gitcare"
	applicationShortDescriptionConstant     = "Repository hygiene and synchronization for a git working tree"
	applicationLongDescriptionConstant      = "gitcare checks a working tree against a hygiene policy, synchronizes it with its remote, undoes the last commit, and summarizes history."
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level (debug, info, warn, error)."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format (structured or console)."
	directoryFlagNameConstant               = "directory"
	directoryFlagShorthandConstant          = "C"
	directoryFlagUsageConstant              = "Run as if gitcare was started in this directory."
	environmentPrefixConstant               = "GITCARE"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	repositoryRootFieldConstant             = "root"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	directoryErrorTemplateConstant          = "resolve --directory: %w"
	commandBuildErrorTemplateConstant       = "build %s command: %w"
	rootCommandDebugMessageConstant         = "gitcare invoked without a subcommand"
	developmentVersionConstant              = "dev"
	errorOutputTemplateConstant             = "%v\n"
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common ApplicationCommonConfiguration `mapstructure:"common"`
	Tools  ApplicationToolsConfiguration  `mapstructure:"tools"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// ApplicationToolsConfiguration holds per-command configuration.
type ApplicationToolsConfiguration struct {
	Check policy.CommandConfiguration      `mapstructure:"check"`
	Sync  synchronize.CommandConfiguration `mapstructure:"sync"`
	Log   history.CommandConfiguration     `mapstructure:"log"`
}

// Application wires the cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand            *cobra.Command
	configurationLoader    *utils.ConfigurationLoader
	loggerFactory          *utils.LoggerFactory
	logger                 *zap.Logger
	configuration          ApplicationConfiguration
	configurationMetadata  utils.LoadedConfiguration
	configurationFilePath  string
	logLevelFlagValue      string
	logFormatFlagValue     string
	directoryFlagValue     string
	commandContextAccessor utils.CommandContextAccessor
	commandBuildError      error
}

// NewApplication assembles a fully wired CLI application whose diagnostics go to diagnosticOutput.
func NewApplication(diagnosticOutput io.Writer) *Application {
	application := &Application{
		configurationLoader: utils.NewConfigurationLoader(utils.ConfigurationSource{
			Name:              configurationNameConstant,
			Type:              configurationTypeConstant,
			EnvironmentPrefix: environmentPrefixConstant,
			SearchPaths:       utils.DefaultSearchPaths(applicationNameConstant),
			Embedded:          EmbeddedDefaultConfiguration(),
		}),
		loggerFactory:          utils.NewLoggerFactory(diagnosticOutput),
		logger:                 zap.NewNop(),
		commandContextAccessor: utils.NewCommandContextAccessor(),
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		Version:       resolveVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, _ []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, _ []string) error {
			application.logger.Debug(rootCommandDebugMessageConstant)
			return command.Help()
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVarP(&application.directoryFlagValue, directoryFlagNameConstant, directoryFlagShorthandConstant, "", directoryFlagUsageConstant)

	loggerProvider := func() *zap.Logger {
		return application.logger
	}

	checkBuilder := policy.CommandBuilder{
		LoggerProvider:               loggerProvider,
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		ConfigurationProvider: func() policy.CommandConfiguration {
			return application.configuration.Tools.Check
		},
		NetworkTimeoutProvider: func() time.Duration {
			return application.configuration.Tools.Sync.Sanitize().NetworkTimeout
		},
	}
	application.addCommand(cobraCommand, "check", checkBuilder.Build)

	logBuilder := history.LogCommandBuilder{
		ConfigurationProvider: func() history.CommandConfiguration {
			return application.configuration.Tools.Log
		},
	}
	application.addCommand(cobraCommand, "log", logBuilder.Build)

	statsBuilder := history.StatsCommandBuilder{}
	application.addCommand(cobraCommand, "stats", statsBuilder.Build)

	undoBuilder := undo.CommandBuilder{
		LoggerProvider:               loggerProvider,
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
	}
	application.addCommand(cobraCommand, "undo", undoBuilder.Build)

	syncBuilder := synchronize.CommandBuilder{
		LoggerProvider:               loggerProvider,
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		ConfigurationProvider: func() synchronize.CommandConfiguration {
			return application.configuration.Tools.Sync
		},
	}
	application.addCommand(cobraCommand, "sync", syncBuilder.Build)

	application.rootCommand = cobraCommand
	return application
}

// addCommand registers a subcommand. A build failure is kept and surfaced by Execute.
func (application *Application) addCommand(rootCommand *cobra.Command, name string, build func() (*cobra.Command, error)) {
	command, buildError := build()
	if buildError != nil {
		application.commandBuildError = multierror.Append(application.commandBuildError, fmt.Errorf(commandBuildErrorTemplateConstant, name, buildError))
		return
	}
	rootCommand.AddCommand(command)
}

// SetArguments replaces the arguments the root command parses. Tests use it in place of os.Args.
func (application *Application) SetArguments(arguments []string) {
	application.rootCommand.SetArgs(arguments)
}

// SetOutput directs command output and cobra's own messages to writer.
func (application *Application) SetOutput(writer io.Writer) {
	application.rootCommand.SetOut(writer)
	application.rootCommand.SetErr(writer)
}

// SetInput replaces the reader interactive prompts consume.
func (application *Application) SetInput(reader io.Reader) {
	application.rootCommand.SetIn(reader)
}

// Execute runs the command tree under executionContext and flushes the logger.
func (application *Application) Execute(executionContext context.Context) error {
	if application.commandBuildError != nil {
		return application.commandBuildError
	}
	executionError := application.rootCommand.ExecuteContext(executionContext)
	if syncError := application.flushLogger(); syncError != nil && executionError == nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application, runs it until completion or SIGINT/SIGTERM, and returns the exit code.
func Execute() int {
	signalContext, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	if executionError := NewApplication(os.Stderr).Execute(signalContext); executionError != nil {
		fmt.Fprintf(os.Stderr, errorOutputTemplateConstant, executionError)
		return 1
	}
	return 0
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	loadedConfiguration, loadError := application.configurationLoader.Load(application.configurationFilePath, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}
	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}
	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	logLevel, levelError := utils.ParseLogLevel(application.configuration.Common.LogLevel)
	if levelError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, levelError)
	}
	logFormat, formatError := utils.ParseLogFormat(application.configuration.Common.LogFormat)
	if formatError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, formatError)
	}
	logger, loggerCreationError := application.loggerFactory.CreateLogger(logLevel, logFormat)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}
	application.logger = logger

	updatedContext := application.commandContextAccessor.WithConfigurationFilePath(command.Context(), application.configurationMetadata.ConfigFileUsed)
	repositoryRoot := ""
	if len(strings.TrimSpace(application.directoryFlagValue)) > 0 {
		workingDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return fmt.Errorf(directoryErrorTemplateConstant, workingDirectoryError)
		}
		resolvedRoot, resolveError := gitrepo.NewRepositoryPathResolver(nil).Resolve(application.directoryFlagValue, workingDirectory)
		if resolveError != nil {
			return fmt.Errorf(directoryErrorTemplateConstant, resolveError)
		}
		repositoryRoot = resolvedRoot
		updatedContext = application.commandContextAccessor.WithRepositoryRoot(updatedContext, repositoryRoot)
	}
	command.SetContext(updatedContext)

	application.logger.Info(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, string(logLevel)),
		zap.String(configurationLogFormatFieldConstant, string(logFormat)),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
		zap.String(repositoryRootFieldConstant, repositoryRoot),
	)
	return nil
}

func (application *Application) humanReadableLoggingEnabled() bool {
	logFormatValue := strings.TrimSpace(application.configuration.Common.LogFormat)
	return strings.EqualFold(logFormatValue, string(utils.LogFormatConsole))
}

func (application *Application) flushLogger() error {
	if application.logger == nil {
		return nil
	}
	syncError := application.logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	case errors.Is(syncError, syscall.ENOTTY):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}
	if rootCommand := command.Root(); rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}
	for _, flagSet := range flagSetsToInspect {
		if flagSet != nil && flagSet.Changed(flagName) {
			return true
		}
	}
	return false
}

func resolveVersion() string {
	buildInformation, available := debug.ReadBuildInfo()
	if !available || len(buildInformation.Main.Version) == 0 || buildInformation.Main.Version == "(devel)" {
		return developmentVersionConstant
	}
	return buildInformation.Main.Version
}
