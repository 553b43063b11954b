package cli

import (
	"bytes"
	_ "embed"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/gitagg/internal/utils"
)

//go:embed default_config.yaml
var embeddedDefaultConfigurationContent []byte

// EmbeddedDefaultConfiguration returns a copy of the built-in application
// configuration and its Viper type.
func EmbeddedDefaultConfiguration() ([]byte, string) {
	return bytes.Clone(embeddedDefaultConfigurationContent), configurationTypeConstant
}

// applicationConfigurationSource layers the embedded defaults, a config.yaml
// found in the search paths, and GITAGG_* environment variables.
func applicationConfigurationSource() utils.ConfigurationSource {
	embeddedConfiguration, embeddedConfigurationType := EmbeddedDefaultConfiguration()
	return utils.ConfigurationSource{
		Name:              configurationNameConstant,
		Type:              embeddedConfigurationType,
		EnvironmentPrefix: environmentPrefixConstant,
		SearchPaths:       configurationSearchPaths(),
		Embedded:          embeddedConfiguration,
	}
}

// configurationSearchPaths returns the working directory and ~/.gitagg, or
// the entries of GITAGG_CONFIG_SEARCH_PATH when it is set.
func configurationSearchPaths() []string {
	if override := strings.TrimSpace(os.Getenv(configurationSearchPathEnvironmentName)); len(override) > 0 {
		searchPaths := make([]string, 0)
		for _, candidate := range filepath.SplitList(override) {
			if trimmed := strings.TrimSpace(candidate); len(trimmed) > 0 {
				searchPaths = append(searchPaths, trimmed)
			}
		}
		return searchPaths
	}

	searchPaths := []string{defaultConfigurationSearchPathConstant}
	if homeDirectory, homeError := os.UserHomeDir(); homeError == nil {
		searchPaths = append(searchPaths, filepath.Join(homeDirectory, userConfigurationDirectoryNameConstant))
	}
	return searchPaths
}
