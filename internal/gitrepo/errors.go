package gitrepo

import (
	"errors"
	"fmt"
)

const (
	executorNotConfiguredMessageConstant    = "git executor not configured"
	requiredValueMessageConstant            = "value required"
	invalidInputErrorTemplateConstant       = "%s: %s"
	operationErrorWithCauseTemplateConstant = "%s operation failed: %s"
	operationErrorMessageTemplateConstant   = "%s operation failed"
)

// OperationName describes a named git workflow supported by RepositoryManager.
type OperationName string

// Supported operations.
const (
	listRemotesOperationNameConstant    = OperationName("ListRemotes")
	setRemoteOperationNameConstant      = OperationName("SetRemote")
	queryRemoteRefOperationNameConstant = OperationName("QueryRemoteRef")
)

var (
	// ErrExecutorNotConfigured indicates the manager was constructed without an executor.
	ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)
)

// InvalidInputError surfaces validation issues for operation inputs.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf(invalidInputErrorTemplateConstant, inputError.FieldName, inputError.Message)
}

// OperationError wraps execution issues for git operations.
type OperationError struct {
	Operation OperationName
	Cause     error
}

// Error describes the failure.
func (operationError OperationError) Error() string {
	if operationError.Cause == nil {
		return fmt.Sprintf(operationErrorMessageTemplateConstant, operationError.Operation)
	}
	return fmt.Sprintf(operationErrorWithCauseTemplateConstant, operationError.Operation, operationError.Cause)
}

// Unwrap exposes the underlying error.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}
