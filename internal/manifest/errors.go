package manifest

import (
	"errors"
	"fmt"
)

const (
	configurationFileErrorTemplateConstant = "%s: %s"
)

// ErrConfigurationFile is matched by every ConfigurationFileError through errors.Is.
var ErrConfigurationFile = errors.New("configuration file error")

// ConfigurationFileError reports a configuration file that cannot be read or parsed.
type ConfigurationFileError struct {
	Path    string
	Message string
	Cause   error
}

// Error describes the failure.
func (fileError ConfigurationFileError) Error() string {
	if fileError.Cause == nil {
		return fileError.Message
	}
	return fmt.Sprintf(configurationFileErrorTemplateConstant, fileError.Message, fileError.Cause)
}

// Unwrap exposes the underlying error.
func (fileError ConfigurationFileError) Unwrap() error {
	return fileError.Cause
}

// Is reports whether target is ErrConfigurationFile.
func (fileError ConfigurationFileError) Is(target error) bool {
	return target == ErrConfigurationFile
}
