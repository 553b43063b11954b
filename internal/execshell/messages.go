package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s %s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
	flagPrefixConstant                      = "-"
)

const (
	gitRemoteSubcommandNameConstant       = "remote"
	gitRemoteVerboseFlagConstant          = "-v"
	gitRemoteAddSubcommandNameConstant    = "add"
	gitRemoteSetURLSubcommandNameConstant = "set-url"
	gitLSRemoteSubcommandNameConstant     = "ls-remote"
)

const (
	gitRemoteListStartTemplateConstant            = "Listing remotes in %s"
	gitRemoteListSuccessTemplateConstant          = "Listed remotes in %s"
	gitRemoteListFailureTemplateConstant          = "Failed to list remotes in %s (exit code %d%s)"
	gitRemoteListExecutionFailureTemplateConstant = "Unable to list remotes in %s: %s"

	gitRemoteAddStartTemplateConstant            = "Adding remote %s -> %s in %s"
	gitRemoteAddSuccessTemplateConstant          = "Added remote %s -> %s in %s"
	gitRemoteAddFailureTemplateConstant          = "Failed to add remote %s -> %s in %s (exit code %d%s)"
	gitRemoteAddExecutionFailureTemplateConstant = "Unable to add remote %s -> %s in %s: %s"

	gitRemoteUpdateStartTemplateConstant            = "Updating remote %s -> %s in %s"
	gitRemoteUpdateSuccessTemplateConstant          = "Updated remote %s -> %s in %s"
	gitRemoteUpdateFailureTemplateConstant          = "Failed to update remote %s -> %s in %s (exit code %d%s)"
	gitRemoteUpdateExecutionFailureTemplateConstant = "Unable to update remote %s -> %s in %s: %s"

	gitLSRemoteStartTemplateConstant            = "Looking up %s on %s from %s"
	gitLSRemoteSuccessTemplateConstant          = "Looked up %s on %s from %s"
	gitLSRemoteFailureTemplateConstant          = "Failed to look up %s on %s from %s (exit code %d%s)"
	gitLSRemoteExecutionFailureTemplateConstant = "Unable to look up %s on %s from %s: %s"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if command.Name != CommandGit || len(command.Details.Arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	switch strings.TrimSpace(command.Details.Arguments[0]) {
	case gitRemoteSubcommandNameConstant:
		return formatter.describeGitRemoteMessage(command, result, failure, stage)
	case gitLSRemoteSubcommandNameConstant:
		return formatter.describeGitLSRemoteMessage(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitRemoteMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	workingDirectory := formatter.describeWorkingDirectory(command)

	subcommand := strings.TrimSpace(formatter.argumentAtIndex(arguments, 1))
	switch subcommand {
	case gitRemoteVerboseFlagConstant:
		return formatter.selectMessage(stage, result, failure, stageTemplates{
			start:            gitRemoteListStartTemplateConstant,
			success:          gitRemoteListSuccessTemplateConstant,
			failure:          gitRemoteListFailureTemplateConstant,
			executionFailure: gitRemoteListExecutionFailureTemplateConstant,
		}, workingDirectory)
	case gitRemoteAddSubcommandNameConstant, gitRemoteSetURLSubcommandNameConstant:
		remoteName := formatter.ensureValue(formatter.argumentAtIndex(arguments, 2))
		remoteURL := formatter.ensureValue(formatter.argumentAtIndex(arguments, 3))
		templates := stageTemplates{
			start:            gitRemoteUpdateStartTemplateConstant,
			success:          gitRemoteUpdateSuccessTemplateConstant,
			failure:          gitRemoteUpdateFailureTemplateConstant,
			executionFailure: gitRemoteUpdateExecutionFailureTemplateConstant,
		}
		if subcommand == gitRemoteAddSubcommandNameConstant {
			templates = stageTemplates{
				start:            gitRemoteAddStartTemplateConstant,
				success:          gitRemoteAddSuccessTemplateConstant,
				failure:          gitRemoteAddFailureTemplateConstant,
				executionFailure: gitRemoteAddExecutionFailureTemplateConstant,
			}
		}
		return formatter.selectMessage(stage, result, failure, templates, remoteName, remoteURL, workingDirectory)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitLSRemoteMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	positional := formatter.positionalArguments(command.Details.Arguments[1:])
	remoteName := formatter.ensureIndexedValue(positional, 0)
	reference := formatter.ensureIndexedValue(positional, 1)
	return formatter.selectMessage(stage, result, failure, stageTemplates{
		start:            gitLSRemoteStartTemplateConstant,
		success:          gitLSRemoteSuccessTemplateConstant,
		failure:          gitLSRemoteFailureTemplateConstant,
		executionFailure: gitLSRemoteExecutionFailureTemplateConstant,
	}, reference, remoteName, formatter.describeWorkingDirectory(command))
}

type stageTemplates struct {
	start            string
	success          string
	failure          string
	executionFailure string
}

// selectMessage appends exit code and stderr for failures, or the failure cause for execution failures.
func (formatter CommandMessageFormatter) selectMessage(stage messageStage, result ExecutionResult, failure error, templates stageTemplates, arguments ...any) string {
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(templates.start, arguments...)
	case messageStageSuccess:
		return fmt.Sprintf(templates.success, arguments...)
	case messageStageFailure:
		return fmt.Sprintf(templates.failure, append(arguments, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))...)
	case messageStageExecutionFailure:
		return fmt.Sprintf(templates.executionFailure, append(arguments, formatter.describeFailure(failure))...)
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLabel := string(command.Name)
	if len(command.Details.Arguments) > 0 {
		commandLabel = fmt.Sprintf(commandLabelTemplateConstant, commandLabel, strings.Join(command.Details.Arguments, argumentsJoinSeparatorConstant))
	}
	return commandLabel + formatter.formatWorkingDirectorySuffix(command)
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) argumentAtIndex(arguments []string, index int) string {
	if index >= 0 && index < len(arguments) {
		return arguments[index]
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmed
}

func (formatter CommandMessageFormatter) ensureIndexedValue(values []string, index int) string {
	return formatter.ensureValue(formatter.argumentAtIndex(values, index))
}

func (formatter CommandMessageFormatter) positionalArguments(arguments []string) []string {
	positional := make([]string, 0, len(arguments))
	for _, argument := range arguments {
		trimmed := strings.TrimSpace(argument)
		if len(trimmed) == 0 || strings.HasPrefix(trimmed, flagPrefixConstant) {
			continue
		}
		positional = append(positional, trimmed)
	}
	return positional
}
