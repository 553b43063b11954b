package aggregate

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

const (
	refNotFoundMessageTemplateConstant        = "%s - Ref: %s does not exists in remote %s"
	refQueryFailedMessageTemplateConstant     = "%s - Ref: %s could not be queried on remote %s: %v"
	remoteUpdateFailedMessageTemplateConstant = "%s - Remote %s could not be updated to %s: %v"
	unknownDiagnosticMessageTemplateConstant  = "%s - %s"
	logFieldDirectoryConstant                 = "directory"
	logFieldRemoteConstant                    = "remote"
	logFieldReferenceConstant                 = "ref"
	logFieldURLConstant                       = "url"
	logFieldDiagnosticKindConstant            = "diagnostic"
)

// DiagnosticKind classifies non-fatal resolution findings.
type DiagnosticKind string

// Supported diagnostic kinds.
const (
	DiagnosticReferenceNotFound    DiagnosticKind = DiagnosticKind("ref-not-found")
	DiagnosticReferenceQueryFailed DiagnosticKind = DiagnosticKind("ref-query-failed")
	DiagnosticRemoteUpdateFailed   DiagnosticKind = DiagnosticKind("remote-update-failed")
)

// Diagnostic describes a warning emitted while resolving a directory.
type Diagnostic struct {
	Directory string
	Kind      DiagnosticKind
	Remote    string
	Ref       string
	URL       string
	Cause     error
}

// Message renders the diagnostic as a human-readable warning.
func (diagnostic Diagnostic) Message() string {
	switch diagnostic.Kind {
	case DiagnosticReferenceNotFound:
		return fmt.Sprintf(refNotFoundMessageTemplateConstant, diagnostic.Directory, diagnostic.Ref, diagnostic.Remote)
	case DiagnosticReferenceQueryFailed:
		return fmt.Sprintf(refQueryFailedMessageTemplateConstant, diagnostic.Directory, diagnostic.Ref, diagnostic.Remote, diagnostic.Cause)
	case DiagnosticRemoteUpdateFailed:
		return fmt.Sprintf(remoteUpdateFailedMessageTemplateConstant, diagnostic.Directory, diagnostic.Remote, diagnostic.URL, diagnostic.Cause)
	default:
		return fmt.Sprintf(unknownDiagnosticMessageTemplateConstant, diagnostic.Directory, diagnostic.Kind)
	}
}

// DiagnosticSink receives non-fatal findings.
type DiagnosticSink interface {
	Warn(diagnostic Diagnostic)
}

// LoggingDiagnosticSink forwards diagnostics to a zap logger at warn level.
type LoggingDiagnosticSink struct {
	logger *zap.Logger
}

// NewLoggingDiagnosticSink constructs a sink around logger; a nil logger discards diagnostics.
func NewLoggingDiagnosticSink(logger *zap.Logger) *LoggingDiagnosticSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingDiagnosticSink{logger: logger}
}

// Warn logs the diagnostic.
func (sink *LoggingDiagnosticSink) Warn(diagnostic Diagnostic) {
	fields := []zap.Field{
		zap.String(logFieldDiagnosticKindConstant, string(diagnostic.Kind)),
		zap.String(logFieldDirectoryConstant, diagnostic.Directory),
		zap.String(logFieldRemoteConstant, diagnostic.Remote),
	}
	if len(diagnostic.Ref) > 0 {
		fields = append(fields, zap.String(logFieldReferenceConstant, diagnostic.Ref))
	}
	if len(diagnostic.URL) > 0 {
		fields = append(fields, zap.String(logFieldURLConstant, diagnostic.URL))
	}
	if diagnostic.Cause != nil {
		fields = append(fields, zap.Error(diagnostic.Cause))
	}
	sink.logger.Warn(diagnostic.Message(), fields...)
}

// DiagnosticRecorder collects diagnostics in emission order.
type DiagnosticRecorder struct {
	mutex       sync.Mutex
	diagnostics []Diagnostic
}

// Warn records the diagnostic.
func (recorder *DiagnosticRecorder) Warn(diagnostic Diagnostic) {
	recorder.mutex.Lock()
	defer recorder.mutex.Unlock()
	recorder.diagnostics = append(recorder.diagnostics, diagnostic)
}

// Diagnostics returns a copy of the recorded diagnostics.
func (recorder *DiagnosticRecorder) Diagnostics() []Diagnostic {
	recorder.mutex.Lock()
	defer recorder.mutex.Unlock()
	return append([]Diagnostic{}, recorder.diagnostics...)
}

// MultiDiagnosticSink fans diagnostics out to several sinks.
type MultiDiagnosticSink []DiagnosticSink

// Warn forwards the diagnostic to every non-nil sink.
func (sinks MultiDiagnosticSink) Warn(diagnostic Diagnostic) {
	for _, sink := range sinks {
		if sink == nil {
			continue
		}
		sink.Warn(diagnostic)
	}
}

type discardDiagnosticSink struct{}

func (discardDiagnosticSink) Warn(Diagnostic) {}
