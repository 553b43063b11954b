package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/gitagg/cmd/cli/resolve"
	"github.com/temirov/gitagg/internal/utils"
	flagutils "github.com/temirov/gitagg/internal/utils/flags"
)

const (
	applicationNameConstant                 = "gitagg"
	applicationShortDescriptionConstant     = "Resolve multi-repository aggregation configurations"
	applicationLongDescriptionConstant      = "gitagg reads declarative aggregation files describing remotes, merges and targets per directory and turns them into validated repository specs."
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to an application configuration file."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format."
	commonConfigurationKeyConstant          = "common"
	commonLogLevelConfigKeyConstant         = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant        = commonConfigurationKeyConstant + ".log_format"
	toolsConfigurationKeyConstant           = "tools"
	resolveConfigurationKeyConstant         = toolsConfigurationKeyConstant + ".resolve"
	environmentPrefixConstant               = "GITAGG"
	configurationSearchPathEnvironmentName  = "GITAGG_CONFIG_SEARCH_PATH"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	userConfigurationDirectoryNameConstant  = ".gitagg"
	defaultConfigurationSearchPathConstant  = "."
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	commandBuildErrorTemplateConstant       = "unable to build %s command: %w"
	resolveCommandNameConstant              = "resolve"
	loggerNotInitializedMessageConstant     = "logger not initialized"
	rootCommandInfoMessageConstant          = "gitagg CLI executed"
	logFieldCommandNameConstant             = "command_name"
	logFieldArgumentCountConstant           = "argument_count"
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

// ApplicationToolsConfiguration holds configuration for CLI subcommands.
type ApplicationToolsConfiguration struct {
	Resolve resolve.CommandConfiguration `mapstructure:"resolve"`
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand           *cobra.Command
	configurationLoader   *utils.ConfigurationLoader
	loggerFactory         *utils.LoggerFactory
	logger                *zap.Logger
	toggleSet             *flagutils.ToggleSet
	configuration         ApplicationConfiguration
	configurationMetadata utils.LoadedConfiguration
	configurationFilePath string
	logLevelFlagValue     string
	logFormatFlagValue    string
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	configurationLoader := utils.NewConfigurationLoader(applicationConfigurationSource())

	application := &Application{
		configurationLoader: configurationLoader,
		loggerFactory:       utils.NewLoggerFactory(),
		logger:              zap.NewNop(),
		toggleSet:           flagutils.NewToggleSet(),
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runRootCommand(command, arguments)
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	flagutils.AddChoiceFlag(cobraCommand.PersistentFlags(), &application.logLevelFlagValue, logLevelFlagNameConstant, string(utils.LogLevelInfo), utils.LogLevelChoices(), logLevelFlagUsageConstant)
	flagutils.AddChoiceFlag(cobraCommand.PersistentFlags(), &application.logFormatFlagValue, logFormatFlagNameConstant, string(utils.LogFormatConsole), utils.LogFormatChoices(), logFormatFlagUsageConstant)

	application.rootCommand = cobraCommand

	return application
}

// RootCommand exposes the root command so callers can register additional subcommands.
func (application *Application) RootCommand() *cobra.Command {
	return application.rootCommand
}

// RegisterResolveCommand attaches the resolve command built from builder. The
// builder receives the application logger, configuration, and toggle set.
func (application *Application) RegisterResolveCommand(builder resolve.CommandBuilder) error {
	builder.LoggerProvider = func() *zap.Logger {
		return application.logger
	}
	builder.HumanReadableLoggingProvider = application.humanReadableLoggingEnabled
	builder.ConfigurationProvider = func() resolve.CommandConfiguration {
		return application.configuration.Tools.Resolve
	}
	builder.ToggleSet = application.toggleSet

	resolveCommand, buildError := builder.Build()
	if buildError != nil {
		return fmt.Errorf(commandBuildErrorTemplateConstant, resolveCommandNameConstant, buildError)
	}
	application.rootCommand.AddCommand(resolveCommand)
	return nil
}

// ExecuteWithArguments runs the command hierarchy with arguments and ensures logger flushing.
func (application *Application) ExecuteWithArguments(arguments []string) error {
	application.rootCommand.SetArgs(application.toggleSet.NormalizeArguments(arguments))
	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil && executionError == nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute runs the command hierarchy against the process arguments.
func (application *Application) Execute() error {
	return application.ExecuteWithArguments(os.Args[1:])
}

// Execute builds a fresh application with the default command set and runs it.
func Execute() error {
	application := NewApplication()
	if registrationError := application.RegisterResolveCommand(resolve.CommandBuilder{}); registrationError != nil {
		return registrationError
	}
	return application.Execute()
}

// Configuration returns the configuration loaded for the last executed command.
func (application *Application) Configuration() ApplicationConfiguration {
	return application.configuration
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatConsole),
	}
	for configurationKey, configurationValue := range resolve.DefaultConfigurationValues(resolveConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
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

	logger, loggerCreationError := application.loggerFactory.CreateLogger(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = logger

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	return nil
}

func (application *Application) humanReadableLoggingEnabled() bool {
	logFormatValue := strings.TrimSpace(application.configuration.Common.LogFormat)
	return strings.EqualFold(logFormatValue, string(utils.LogFormatConsole))
}

func (application *Application) runRootCommand(command *cobra.Command, arguments []string) error {
	if application.logger == nil {
		return errors.New(loggerNotInitializedMessageConstant)
	}

	application.logger.Debug(
		rootCommandInfoMessageConstant,
		zap.String(logFieldCommandNameConstant, command.Name()),
		zap.Int(logFieldArgumentCountConstant, len(arguments)),
	)

	return command.Help()
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
	if command == nil {
		return false
	}

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
