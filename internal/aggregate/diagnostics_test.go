package aggregate_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/gitagg/internal/aggregate"
)

const (
	testDiagnosticDirectoryConstant = "/srv/odoo"
)

func TestDiagnosticMessages(testInstance *testing.T) {
	testCases := []struct {
		name            string
		diagnostic      aggregate.Diagnostic
		expectedMessage string
	}{
		{
			name: "reference_not_found",
			diagnostic: aggregate.Diagnostic{
				Directory: testDiagnosticDirectoryConstant,
				Kind:      aggregate.DiagnosticReferenceNotFound,
				Remote:    testOriginRemoteName,
				Ref:       testMissingReference,
			},
			expectedMessage: "/srv/odoo - Ref: missing-branch does not exists in remote origin",
		},
		{
			name: "reference_query_failed",
			diagnostic: aggregate.Diagnostic{
				Directory: testDiagnosticDirectoryConstant,
				Kind:      aggregate.DiagnosticReferenceQueryFailed,
				Remote:    testOriginRemoteName,
				Ref:       testFeatureReference,
				Cause:     errors.New("timeout"),
			},
			expectedMessage: "/srv/odoo - Ref: feature could not be queried on remote origin: timeout",
		},
		{
			name: "remote_update_failed",
			diagnostic: aggregate.Diagnostic{
				Directory: testDiagnosticDirectoryConstant,
				Kind:      aggregate.DiagnosticRemoteUpdateFailed,
				Remote:    testOriginRemoteName,
				URL:       testOriginRemoteURL,
				Cause:     errors.New("locked"),
			},
			expectedMessage: "/srv/odoo - Remote origin could not be updated to https://example.com/origin.git: locked",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedMessage, testCase.diagnostic.Message())
		})
	}
}

func TestLoggingDiagnosticSinkEmitsWarnings(testInstance *testing.T) {
	core, observedLogs := observer.New(zapcore.DebugLevel)
	sink := aggregate.NewLoggingDiagnosticSink(zap.New(core))

	sink.Warn(aggregate.Diagnostic{
		Directory: testDiagnosticDirectoryConstant,
		Kind:      aggregate.DiagnosticReferenceNotFound,
		Remote:    testOriginRemoteName,
		Ref:       testMissingReference,
	})

	entries := observedLogs.All()
	require.Len(testInstance, entries, 1)
	require.Equal(testInstance, zapcore.WarnLevel, entries[0].Level)
	require.Contains(testInstance, entries[0].Message, "does not exists in remote origin")

	contextMap := entries[0].ContextMap()
	require.Equal(testInstance, "ref-not-found", contextMap["diagnostic"])
	require.Equal(testInstance, testDiagnosticDirectoryConstant, contextMap["directory"])
	require.Equal(testInstance, testOriginRemoteName, contextMap["remote"])
	require.Equal(testInstance, testMissingReference, contextMap["ref"])
	require.NotContains(testInstance, contextMap, "url")
	require.NotContains(testInstance, contextMap, "error")
}

func TestLoggingDiagnosticSinkLogsRemoteURL(testInstance *testing.T) {
	core, observedLogs := observer.New(zapcore.DebugLevel)
	sink := aggregate.NewLoggingDiagnosticSink(zap.New(core))

	sink.Warn(aggregate.Diagnostic{
		Directory: testDiagnosticDirectoryConstant,
		Kind:      aggregate.DiagnosticRemoteUpdateFailed,
		Remote:    testOriginRemoteName,
		URL:       testOriginRemoteURL,
		Cause:     errors.New("locked"),
	})

	entries := observedLogs.All()
	require.Len(testInstance, entries, 1)

	contextMap := entries[0].ContextMap()
	require.Equal(testInstance, "remote-update-failed", contextMap["diagnostic"])
	require.Equal(testInstance, testOriginRemoteURL, contextMap["url"])
	require.NotContains(testInstance, contextMap, "ref")
	require.Equal(testInstance, "locked", contextMap["error"])
}

func TestMultiDiagnosticSinkFansOut(testInstance *testing.T) {
	firstRecorder := &aggregate.DiagnosticRecorder{}
	secondRecorder := &aggregate.DiagnosticRecorder{}
	sinks := aggregate.MultiDiagnosticSink{firstRecorder, nil, secondRecorder}

	diagnostic := aggregate.Diagnostic{Directory: testDiagnosticDirectoryConstant, Kind: aggregate.DiagnosticReferenceNotFound}
	sinks.Warn(diagnostic)

	require.Equal(testInstance, []aggregate.Diagnostic{diagnostic}, firstRecorder.Diagnostics())
	require.Equal(testInstance, []aggregate.Diagnostic{diagnostic}, secondRecorder.Diagnostics())
}
