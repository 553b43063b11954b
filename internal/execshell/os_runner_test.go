package execshell

import (
	"context"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	testShellExecutableConstant   = "sh"
	testProbeVariableConstant     = "GITAGG_RUNNER_PROBE"
	testProbeValueConstant        = "probe-value"
	testMissingExecutableConstant = "gitagg-missing-executable"
)

func TestCommandEnvironmentDisablesGitPrompts(testInstance *testing.T) {
	testCases := []struct {
		name             string
		command          ShellCommand
		expectedAppended []string
	}{
		{
			name:             "git_disables_prompt",
			command:          ShellCommand{Name: CommandGit},
			expectedAppended: []string{"GIT_TERMINAL_PROMPT=0"},
		},
		{
			name: "explicit_override_wins",
			command: ShellCommand{Name: CommandGit, Details: CommandDetails{EnvironmentVariables: map[string]string{
				gitTerminalPromptVariableConstant: "1",
				testProbeVariableConstant:         testProbeValueConstant,
			}}},
			expectedAppended: []string{"GITAGG_RUNNER_PROBE=probe-value", "GIT_TERMINAL_PROMPT=1"},
		},
		{
			name:             "other_commands_unchanged",
			command:          ShellCommand{Name: CommandName(testShellExecutableConstant)},
			expectedAppended: []string{},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			environment := commandEnvironment(testCase.command)
			appended := environment[len(environment)-len(testCase.expectedAppended):]
			require.Equal(testInstance, testCase.expectedAppended, append([]string{}, appended...))
		})
	}
}

func TestOSCommandRunnerRun(testInstance *testing.T) {
	if _, lookupError := exec.LookPath(testShellExecutableConstant); lookupError != nil {
		testInstance.Skip("sh not available")
	}

	testCases := []struct {
		name             string
		script           string
		expectedOutput   string
		expectedError    string
		expectedExitCode int
	}{
		{
			name:           "captures_standard_output_and_environment",
			script:         "printf %s \"$" + testProbeVariableConstant + "\"",
			expectedOutput: testProbeValueConstant,
		},
		{
			name:             "reports_exit_code",
			script:           "printf oops >&2; exit 3",
			expectedError:    "oops",
			expectedExitCode: 3,
		},
	}

	runner := NewOSCommandRunner()
	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			result, runError := runner.Run(context.Background(), ShellCommand{
				Name: CommandName(testShellExecutableConstant),
				Details: CommandDetails{
					Arguments:            []string{"-c", testCase.script},
					WorkingDirectory:     testInstance.TempDir(),
					EnvironmentVariables: map[string]string{testProbeVariableConstant: testProbeValueConstant},
				},
			})
			require.NoError(testInstance, runError)
			require.Equal(testInstance, testCase.expectedOutput, result.StandardOutput)
			require.Equal(testInstance, testCase.expectedError, strings.TrimSpace(result.StandardError))
			require.Equal(testInstance, testCase.expectedExitCode, result.ExitCode)
		})
	}
}

func TestOSCommandRunnerReportsMissingExecutable(testInstance *testing.T) {
	_, runError := NewOSCommandRunner().Run(context.Background(), ShellCommand{Name: CommandName(testMissingExecutableConstant)})
	require.ErrorIs(testInstance, runError, exec.ErrNotFound)
}

func TestOSCommandRunnerReportsCancellation(testInstance *testing.T) {
	executionContext, cancel := context.WithCancel(context.Background())
	cancel()

	_, runError := NewOSCommandRunner().Run(executionContext, ShellCommand{
		Name:    CommandName(testShellExecutableConstant),
		Details: CommandDetails{Arguments: []string{"-c", "exit 0"}},
	})
	require.ErrorIs(testInstance, runError, context.Canceled)
}
