package flags

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func TestFormatChoiceUsage(t *testing.T) {
	testCases := []struct {
		name           string
		defaultChoice  string
		choices        []string
		description    string
		expectedOutput string
	}{
		{
			name:           "DefaultFirstChoice",
			defaultChoice:  "local",
			choices:        []string{"local", "user"},
			description:    "Write configuration to LOCAL or user scope.",
			expectedOutput: "`<LOCAL|user>` Write configuration to LOCAL or user scope.",
		},
		{
			name:           "DefaultSecondChoice",
			defaultChoice:  "user",
			choices:        []string{"local", "user"},
			description:    "Persist configuration for the selected scope.",
			expectedOutput: "`<local|USER>` Persist configuration for the selected scope.",
		},
		{
			name:           "EmptyDescription",
			defaultChoice:  "alpha",
			choices:        []string{"alpha", "beta"},
			description:    "",
			expectedOutput: "`<ALPHA|beta>`",
		},
		{
			name:           "DuplicateChoicesIgnored",
			defaultChoice:  "beta",
			choices:        []string{"beta", "beta", "alpha", "alpha"},
			description:    "Select between options.",
			expectedOutput: "`<BETA|alpha>` Select between options.",
		},
		{
			name:           "WhitespaceTrimmed",
			defaultChoice:  "primary",
			choices:        []string{" primary ", " secondary "},
			description:    "Pick a palette.",
			expectedOutput: "`<PRIMARY|secondary>` Pick a palette.",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			actual := FormatChoiceUsage(testCase.defaultChoice, testCase.choices, testCase.description)
			require.Equal(t, testCase.expectedOutput, actual)
		})
	}
}

func TestAddChoiceFlag(t *testing.T) {
	testCases := []struct {
		name          string
		arguments     []string
		expectedValue string
		expectError   bool
	}{
		{name: "Default", arguments: []string{}, expectedValue: "yaml"},
		{name: "Explicit", arguments: []string{"--output", "json"}, expectedValue: "json"},
		{name: "CaseInsensitive", arguments: []string{"--output=JSON"}, expectedValue: "json"},
		{name: "Rejected", arguments: []string{"--output", "xml"}, expectedValue: "yaml", expectError: true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
			var output string
			AddChoiceFlag(flagSet, &output, "output", "yaml", []string{"yaml", "json"}, "Output format.")

			parseError := flagSet.Parse(testCase.arguments)
			if testCase.expectError {
				require.Error(t, parseError)
				require.ErrorContains(t, parseError, "expected one of yaml, json")
			} else {
				require.NoError(t, parseError)
			}
			require.Equal(t, testCase.expectedValue, output)
			require.Equal(t, "`<YAML|json>` Output format.", flagSet.Lookup("output").Usage)
		})
	}
}
