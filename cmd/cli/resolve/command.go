package resolve

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/gitagg/internal/aggregate"
	"github.com/temirov/gitagg/internal/execshell"
	"github.com/temirov/gitagg/internal/filesystem"
	"github.com/temirov/gitagg/internal/gitrepo"
	"github.com/temirov/gitagg/internal/manifest"
	flagutils "github.com/temirov/gitagg/internal/utils/flags"
	pathutils "github.com/temirov/gitagg/internal/utils/path"
)

const (
	commandUseConstant                 = "resolve [config.yaml]"
	commandShortDescriptionConstant    = "Resolve and validate an aggregation configuration"
	commandLongDescriptionConstant     = "resolve loads an aggregation file, validates remotes, merges, target, fetch scope and post-merge commands for every directory, optionally checks merge refs against the live remotes, and prints the resolved repository specs."
	forceFlagNameConstant              = "force"
	forceFlagUsageConstant             = "Mark every resolved repository as forced."
	skipMergeCheckFlagNameConstant     = "skip-merge-check"
	skipMergeCheckFlagUsageConstant    = "Do not update remotes or query merge refs."
	expandEnvironmentFlagNameConstant  = "expand-env"
	expandEnvironmentFlagUsageConstant = "Substitute $NAME and ${NAME} from the environment before parsing."
	environmentFileFlagNameConstant    = "env-file"
	environmentFileFlagUsageConstant   = "Environment file consulted by --expand-env."
	concurrencyFlagNameConstant        = "concurrency"
	concurrencyFlagUsageConstant       = "Number of directories resolved in parallel."
	outputFlagNameConstant             = "output"
	outputFlagUsageConstant            = "Output format."
	resolutionStartedMessageConstant   = "resolving aggregation configuration"
	resolutionCompletedMessageConstant = "aggregation configuration resolved"
	logFieldConfigurationPathConstant  = "configuration_path"
	logFieldRepositoryCountConstant    = "repository_count"
	logFieldDiagnosticCountConstant    = "diagnostic_count"
	logFieldConcurrencyConstant        = "concurrency"
	logFieldGitCommandCountConstant    = "git_command_count"
	logFieldGitFailureCountConstant    = "git_failure_count"
	absolutePathErrorTemplateConstant  = "unable to resolve path %s: %w"
	tooManyArgumentsErrorConstant      = "resolve accepts at most one configuration file"
	maximumPositionalArgumentsConstant = 1
)

var homeDirectoryExpander = pathutils.NewHomeExpander()

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the resolve command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
	// ToggleSet collects the boolean flags so the caller can normalize "--flag value" arguments.
	ToggleSet *flagutils.ToggleSet
	// RemoteQuerier replaces the git-backed querier.
	RemoteQuerier aggregate.RemoteQuerier
	// CommandRunner replaces the operating system runner behind the git-backed querier.
	CommandRunner execshell.CommandRunner
	// DiagnosticSink receives diagnostics in addition to the logger.
	DiagnosticSink aggregate.DiagnosticSink
}

type commandFlags struct {
	force             bool
	skipMergeCheck    bool
	expandEnvironment bool
	environmentFile   string
	concurrency       int
	output            string
}

// Build constructs the resolve command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	flagValues := &commandFlags{}
	command := &cobra.Command{
		Use:           commandUseConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(command *cobra.Command, arguments []string) error {
			if len(arguments) > maximumPositionalArgumentsConstant {
				return errors.New(tooManyArgumentsErrorConstant)
			}
			return nil
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return builder.run(command, arguments, flagValues)
		},
	}

	toggleSet := builder.ToggleSet
	if toggleSet == nil {
		toggleSet = flagutils.NewToggleSet()
	}

	defaults := DefaultCommandConfiguration()
	flagSet := command.Flags()
	toggleSet.Add(flagSet, &flagValues.force, forceFlagNameConstant, "f", defaults.Force, forceFlagUsageConstant)
	toggleSet.Add(flagSet, &flagValues.skipMergeCheck, skipMergeCheckFlagNameConstant, "", defaults.SkipMergeCheck, skipMergeCheckFlagUsageConstant)
	toggleSet.Add(flagSet, &flagValues.expandEnvironment, expandEnvironmentFlagNameConstant, "e", defaults.ExpandEnvironment, expandEnvironmentFlagUsageConstant)
	flagSet.StringVar(&flagValues.environmentFile, environmentFileFlagNameConstant, defaults.EnvironmentFile, environmentFileFlagUsageConstant)
	flagSet.IntVarP(&flagValues.concurrency, concurrencyFlagNameConstant, "j", defaults.Concurrency, concurrencyFlagUsageConstant)
	flagutils.AddChoiceFlag(flagSet, &flagValues.output, outputFlagNameConstant, defaults.Output, OutputFormatChoices(), outputFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string, flagValues *commandFlags) error {
	configuration := builder.resolveConfiguration(command, arguments, flagValues)
	logger := builder.resolveLogger()

	configurationPath, pathError := absolutePath(homeDirectoryExpander.Expand(configuration.ConfigurationPath))
	if pathError != nil {
		return pathError
	}

	environmentFile := ""
	if configuration.ExpandEnvironment && len(configuration.EnvironmentFile) > 0 {
		environmentFile = homeDirectoryExpander.Expand(configuration.EnvironmentFile)
	}

	logger.Info(
		resolutionStartedMessageConstant,
		zap.String(logFieldConfigurationPathConstant, configurationPath),
		zap.Int(logFieldConcurrencyConstant, configuration.Concurrency),
	)

	rawConfiguration, loadError := manifest.Load(manifest.LoadOptions{
		Path:              configurationPath,
		ExpandEnvironment: configuration.ExpandEnvironment,
		EnvironmentFile:   environmentFile,
	})
	if loadError != nil {
		return loadError
	}

	gitStatistics := &execshell.CommandStatistics{}
	remoteQuerier, querierError := builder.resolveRemoteQuerier(logger, gitStatistics)
	if querierError != nil {
		return querierError
	}

	recorder := &aggregate.DiagnosticRecorder{}
	diagnosticSinks := aggregate.MultiDiagnosticSink{aggregate.NewLoggingDiagnosticSink(logger), recorder}
	if builder.DiagnosticSink != nil {
		diagnosticSinks = append(diagnosticSinks, builder.DiagnosticSink)
	}

	resolver := aggregate.NewResolver(aggregate.Dependencies{
		RemoteQuerier: remoteQuerier,
		FileSystem:    filesystem.OSFileSystem{},
		Diagnostics:   diagnosticSinks,
	})

	specs, resolveError := resolver.Resolve(command.Context(), rawConfiguration, aggregate.Options{
		Force:          configuration.Force,
		SkipMergeCheck: configuration.SkipMergeCheck,
		Concurrency:    configuration.Concurrency,
	})
	if resolveError != nil {
		return resolveError
	}

	logger.Info(
		resolutionCompletedMessageConstant,
		zap.String(logFieldConfigurationPathConstant, configurationPath),
		zap.Int(logFieldRepositoryCountConstant, len(specs)),
		zap.Int(logFieldDiagnosticCountConstant, len(recorder.Diagnostics())),
		zap.Int(logFieldGitCommandCountConstant, gitStatistics.Started()),
		zap.Int(logFieldGitFailureCountConstant, gitStatistics.Failed()),
	)

	return renderSpecs(command.OutOrStdout(), OutputFormat(configuration.Output), specs)
}

// resolveConfiguration layers changed flags and the positional path over the configured section.
func (builder *CommandBuilder) resolveConfiguration(command *cobra.Command, arguments []string, flagValues *commandFlags) CommandConfiguration {
	configuration := DefaultCommandConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}

	flagSet := command.Flags()
	if flagSet.Changed(forceFlagNameConstant) {
		configuration.Force = flagValues.force
	}
	if flagSet.Changed(skipMergeCheckFlagNameConstant) {
		configuration.SkipMergeCheck = flagValues.skipMergeCheck
	}
	if flagSet.Changed(expandEnvironmentFlagNameConstant) {
		configuration.ExpandEnvironment = flagValues.expandEnvironment
	}
	if flagSet.Changed(environmentFileFlagNameConstant) {
		configuration.EnvironmentFile = flagValues.environmentFile
	}
	if flagSet.Changed(concurrencyFlagNameConstant) {
		configuration.Concurrency = flagValues.concurrency
	}
	if flagSet.Changed(outputFlagNameConstant) {
		configuration.Output = flagValues.output
	}
	if len(arguments) > 0 {
		configuration.ConfigurationPath = arguments[0]
	}

	return configuration.sanitize()
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

func (builder *CommandBuilder) resolveRemoteQuerier(logger *zap.Logger, statistics *execshell.CommandStatistics) (aggregate.RemoteQuerier, error) {
	if builder.RemoteQuerier != nil {
		return builder.RemoteQuerier, nil
	}

	commandRunner := builder.CommandRunner
	if commandRunner == nil {
		commandRunner = execshell.NewOSCommandRunner()
	}

	humanReadableLogging := false
	if builder.HumanReadableLoggingProvider != nil {
		humanReadableLogging = builder.HumanReadableLoggingProvider()
	}

	shellExecutor, executorError := execshell.NewShellExecutor(
		logger,
		commandRunner,
		execshell.WithHumanReadableLogging(humanReadableLogging),
		execshell.WithCommandEventObserver(statistics),
	)
	if executorError != nil {
		return nil, executorError
	}

	repositoryManager, managerError := gitrepo.NewRepositoryManager(shellExecutor)
	if managerError != nil {
		return nil, managerError
	}
	return repositoryManager, nil
}

func absolutePath(candidatePath string) (string, error) {
	resolvedPath, resolveError := filepath.Abs(candidatePath)
	if resolveError != nil {
		return "", fmt.Errorf(absolutePathErrorTemplateConstant, candidatePath, resolveError)
	}
	return resolvedPath, nil
}
