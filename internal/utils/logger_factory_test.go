package utils_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitagg/internal/utils"
)

const (
	testLogMessageConstant = "logger_factory_test_message"
)

func TestLoggerFactoryCreateLogger(testInstance *testing.T) {
	testCases := []struct {
		name                string
		requestedLogLevel   utils.LogLevel
		requestedLogFormat  utils.LogFormat
		expectError         bool
		expectStructuredLog bool
		expectSuppressed    bool
	}{
		{
			name:                "debug_structured",
			requestedLogLevel:   utils.LogLevelDebug,
			requestedLogFormat:  utils.LogFormatStructured,
			expectStructuredLog: true,
		},
		{
			name:                "info_structured_mixed_case",
			requestedLogLevel:   utils.LogLevel("INFO"),
			requestedLogFormat:  utils.LogFormat("Structured"),
			expectStructuredLog: true,
		},
		{
			name:               "info_console",
			requestedLogLevel:  utils.LogLevelInfo,
			requestedLogFormat: utils.LogFormatConsole,
		},
		{
			name:               "error_level_suppresses_info",
			requestedLogLevel:  utils.LogLevelError,
			requestedLogFormat: utils.LogFormatConsole,
			expectSuppressed:   true,
		},
		{
			name:               "unsupported_log_level",
			requestedLogLevel:  utils.LogLevel("verbose"),
			requestedLogFormat: utils.LogFormatStructured,
			expectError:        true,
		},
		{
			name:               "unsupported_log_format",
			requestedLogLevel:  utils.LogLevelInfo,
			requestedLogFormat: utils.LogFormat("xml"),
			expectError:        true,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(testSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			var output bytes.Buffer
			logger, creationError := utils.NewLoggerFactoryWithOutput(&output).CreateLogger(testCase.requestedLogLevel, testCase.requestedLogFormat)

			if testCase.expectError {
				require.Error(testInstance, creationError)
				require.Nil(testInstance, logger)
				return
			}

			require.NoError(testInstance, creationError)
			require.NotNil(testInstance, logger)

			logger.Info(testLogMessageConstant)
			require.NoError(testInstance, logger.Sync())

			trimmedOutput := bytes.TrimSpace(output.Bytes())
			if testCase.expectSuppressed {
				require.Empty(testInstance, trimmedOutput)
				return
			}

			require.Contains(testInstance, string(trimmedOutput), testLogMessageConstant)
			require.Equal(testInstance, testCase.expectStructuredLog, json.Valid(trimmedOutput))
		})
	}
}
