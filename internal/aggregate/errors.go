package aggregate

import (
	"errors"
	"fmt"
)

const (
	configurationErrorTemplateConstant = "%s: %s"
)

// ErrConfiguration matches every ConfigurationError through errors.Is.
var ErrConfiguration = errors.New("configuration error")

// ConfigurationError reports a structurally invalid directory entry.
type ConfigurationError struct {
	Directory string
	Message   string
}

// Error describes the failure prefixed with the offending directory.
func (configurationError ConfigurationError) Error() string {
	return fmt.Sprintf(configurationErrorTemplateConstant, configurationError.Directory, configurationError.Message)
}

// Is makes ConfigurationError values match ErrConfiguration.
func (configurationError ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

func newConfigurationError(directory string, messageTemplate string, arguments ...any) ConfigurationError {
	return ConfigurationError{Directory: directory, Message: fmt.Sprintf(messageTemplate, arguments...)}
}
