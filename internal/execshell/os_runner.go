package execshell

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"sort"
)

const (
	environmentAssignmentSeparatorConstant = "="
	gitTerminalPromptVariableConstant      = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptDisabledConstant      = "0"
)

// OSCommandRunner executes commands using os/exec. Git runs with terminal
// prompts disabled so a remote asking for credentials fails instead of
// blocking; CommandDetails.EnvironmentVariables can still override it.
type OSCommandRunner struct{}

// NewOSCommandRunner constructs a runner backed by os/exec.
func NewOSCommandRunner() *OSCommandRunner {
	return &OSCommandRunner{}
}

// Run executes command. A non-zero exit status is reported through
// ExecutionResult.ExitCode; a cancelled context is reported as its error.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	executable := exec.CommandContext(executionContext, string(command.Name), command.Details.Arguments...)
	executable.Dir = command.Details.WorkingDirectory
	executable.Env = commandEnvironment(command)

	var standardOutputBuffer bytes.Buffer
	var standardErrorBuffer bytes.Buffer
	executable.Stdout = &standardOutputBuffer
	executable.Stderr = &standardErrorBuffer
	if len(command.Details.StandardInput) > 0 {
		executable.Stdin = bytes.NewReader(command.Details.StandardInput)
	}

	runError := executable.Run()
	result := ExecutionResult{
		StandardOutput: standardOutputBuffer.String(),
		StandardError:  standardErrorBuffer.String(),
	}

	var exitError *exec.ExitError
	switch {
	case runError == nil:
		return result, nil
	case executionContext.Err() != nil:
		return ExecutionResult{}, executionContext.Err()
	case errors.As(runError, &exitError):
		result.ExitCode = exitError.ExitCode()
		return result, nil
	default:
		return ExecutionResult{}, runError
	}
}

// commandEnvironment returns the process environment followed by the command
// overrides in key order. Later entries win in os/exec.
func commandEnvironment(command ShellCommand) []string {
	overrides := make(map[string]string, len(command.Details.EnvironmentVariables)+1)
	if command.Name == CommandGit {
		overrides[gitTerminalPromptVariableConstant] = gitTerminalPromptDisabledConstant
	}
	for variableName, variableValue := range command.Details.EnvironmentVariables {
		overrides[variableName] = variableValue
	}

	variableNames := make([]string, 0, len(overrides))
	for variableName := range overrides {
		variableNames = append(variableNames, variableName)
	}
	sort.Strings(variableNames)

	environment := append([]string{}, os.Environ()...)
	for _, variableName := range variableNames {
		environment = append(environment, variableName+environmentAssignmentSeparatorConstant+overrides[variableName])
	}
	return environment
}
