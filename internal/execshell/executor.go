package execshell

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// CommandName identifies an executable invoked by ShellExecutor.
type CommandName string

// CommandGit invokes the git executable.
const CommandGit CommandName = CommandName("git")

const (
	commandStartedLogMessageConstant      = "shell command started"
	commandCompletedLogMessageConstant    = "shell command completed"
	commandFailedLogMessageConstant       = "shell command failed"
	commandErroredLogMessageConstant      = "shell command could not run"
	logFieldCommandConstant               = "command"
	logFieldArgumentsConstant             = "arguments"
	logFieldWorkingDirectoryConstant      = "working_directory"
	logFieldExitCodeConstant              = "exit_code"
	logFieldStandardErrorConstant         = "stderr"
	commandFailedErrorTemplateConstant    = "%s %s exited with code %d"
	commandFailedStderrTemplateConstant   = "%s: %s"
	commandExecutionErrorTemplateConstant = "%s %s: %v"
	argumentsJoinSeparatorConstant        = " "
)

// ErrLoggerNotConfigured indicates that no logger was supplied to NewShellExecutor.
var ErrLoggerNotConfigured = errors.New("execshell: logger not configured")

// ErrCommandRunnerNotConfigured indicates that no runner was supplied to NewShellExecutor.
var ErrCommandRunnerNotConfigured = errors.New("execshell: command runner not configured")

// CommandDetails describes arguments and process settings for a command.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
}

// ShellCommand pairs an executable with its details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures process output.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner executes shell commands.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// CommandFailedError reports a command that exited with a non-zero code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failed command.
func (failure CommandFailedError) Error() string {
	message := fmt.Sprintf(commandFailedErrorTemplateConstant, failure.Command.Name, strings.Join(failure.Command.Details.Arguments, argumentsJoinSeparatorConstant), failure.Result.ExitCode)
	standardError := strings.TrimSpace(failure.Result.StandardError)
	if len(standardError) == 0 {
		return message
	}
	return fmt.Sprintf(commandFailedStderrTemplateConstant, message, standardError)
}

// CommandExecutionError reports a command that could not be started or awaited.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the execution failure.
func (failure CommandExecutionError) Error() string {
	return fmt.Sprintf(commandExecutionErrorTemplateConstant, failure.Command.Name, strings.Join(failure.Command.Details.Arguments, argumentsJoinSeparatorConstant), failure.Cause)
}

// Unwrap exposes the underlying cause.
func (failure CommandExecutionError) Unwrap() error {
	return failure.Cause
}

// ShellExecutorOption customizes a ShellExecutor.
type ShellExecutorOption func(*ShellExecutor)

// WithHumanReadableLogging switches log messages to the CommandMessageFormatter wording.
func WithHumanReadableLogging(enabled bool) ShellExecutorOption {
	return func(executor *ShellExecutor) {
		executor.humanReadableLogging = enabled
	}
}

// WithCommandEventObserver registers an observer notified of command lifecycle events.
func WithCommandEventObserver(observer CommandEventObserver) ShellExecutorOption {
	return func(executor *ShellExecutor) {
		if observer != nil {
			executor.observer = observer
		}
	}
}

// ShellExecutor runs commands through a CommandRunner and logs each execution.
type ShellExecutor struct {
	logger               *zap.Logger
	runner               CommandRunner
	formatter            CommandMessageFormatter
	observer             CommandEventObserver
	humanReadableLogging bool
}

// NewShellExecutor constructs a ShellExecutor.
func NewShellExecutor(logger *zap.Logger, runner CommandRunner, options ...ShellExecutorOption) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if runner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}
	executor := &ShellExecutor{
		logger:   logger,
		runner:   runner,
		observer: noopCommandEventObserver{},
	}
	for _, option := range options {
		option(executor)
	}
	return executor, nil
}

// Execute runs command. A non-zero exit code yields CommandFailedError and a
// runner failure yields CommandExecutionError; both return an empty result.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	executor.logStarted(command)
	executor.observer.CommandStarted(command)

	result, runError := executor.runner.Run(executionContext, command)
	if runError != nil {
		executor.logExecutionFailure(command, runError)
		executor.observer.CommandExecutionFailed(command, runError)
		return ExecutionResult{}, CommandExecutionError{Command: command, Cause: runError}
	}

	executor.observer.CommandCompleted(command, result)
	if result.ExitCode != 0 {
		executor.logFailure(command, result)
		return ExecutionResult{}, CommandFailedError{Command: command, Result: result}
	}

	executor.logCompleted(command)
	return result, nil
}

// ExecuteGit runs git with details.
func (executor *ShellExecutor) ExecuteGit(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandGit, Details: details})
}

func (executor *ShellExecutor) commandFields(command ShellCommand) []zap.Field {
	return []zap.Field{
		zap.String(logFieldCommandConstant, string(command.Name)),
		zap.Strings(logFieldArgumentsConstant, command.Details.Arguments),
		zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
	}
}

func (executor *ShellExecutor) logStarted(command ShellCommand) {
	if executor.humanReadableLogging {
		executor.logger.Debug(executor.formatter.BuildStartedMessage(command))
		return
	}
	executor.logger.Debug(commandStartedLogMessageConstant, executor.commandFields(command)...)
}

func (executor *ShellExecutor) logCompleted(command ShellCommand) {
	if executor.humanReadableLogging {
		executor.logger.Debug(executor.formatter.BuildSuccessMessage(command))
		return
	}
	executor.logger.Debug(commandCompletedLogMessageConstant, executor.commandFields(command)...)
}

func (executor *ShellExecutor) logFailure(command ShellCommand, result ExecutionResult) {
	if executor.humanReadableLogging {
		executor.logger.Debug(executor.formatter.BuildFailureMessage(command, result))
		return
	}
	fields := append(executor.commandFields(command),
		zap.Int(logFieldExitCodeConstant, result.ExitCode),
		zap.String(logFieldStandardErrorConstant, strings.TrimSpace(result.StandardError)),
	)
	executor.logger.Debug(commandFailedLogMessageConstant, fields...)
}

func (executor *ShellExecutor) logExecutionFailure(command ShellCommand, failure error) {
	if executor.humanReadableLogging {
		executor.logger.Warn(executor.formatter.BuildExecutionFailureMessage(command, failure))
		return
	}
	executor.logger.Warn(commandErroredLogMessageConstant, append(executor.commandFields(command), zap.Error(failure))...)
}
