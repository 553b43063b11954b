package utils

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	configurationReadErrorTemplateConstant          = "failed to read configuration: %w"
	configurationUnmarshalErrorTemplateConstant     = "failed to parse configuration: %w"
	embeddedConfigurationMergeErrorTemplateConstant = "failed to merge embedded configuration: %w"
	environmentKeySeparatorConstant                 = "_"
)

var environmentKeyReplacer = strings.NewReplacer(".", environmentKeySeparatorConstant, "-", environmentKeySeparatorConstant)

// ConfigurationSource describes where application configuration comes from.
type ConfigurationSource struct {
	// Name is the configuration file name without extension searched in SearchPaths.
	Name string
	// Type is the Viper configuration type, such as yaml.
	Type string
	// EnvironmentPrefix scopes environment overrides: PREFIX_SECTION_KEY.
	EnvironmentPrefix string
	SearchPaths       []string
	// Embedded is merged first and supplies defaults for every key it names.
	Embedded []byte
}

// ConfigurationLoader wraps Viper to load application configuration from
// embedded defaults, configuration files and environment overrides, in that
// order of increasing precedence.
type ConfigurationLoader struct {
	source ConfigurationSource
}

// LoadedConfiguration surfaces metadata about the resolved configuration.
type LoadedConfiguration struct {
	ConfigFileUsed string
}

// NewConfigurationLoader creates a loader for source.
func NewConfigurationLoader(source ConfigurationSource) *ConfigurationLoader {
	source.SearchPaths = append([]string{}, source.SearchPaths...)
	source.Embedded = append([]byte{}, source.Embedded...)
	return &ConfigurationLoader{source: source}
}

// LoadConfiguration populates targetConfiguration. An explicit
// configurationFilePath must exist; otherwise the search paths are consulted
// and a missing file is not an error.
func (loader *ConfigurationLoader) LoadConfiguration(configurationFilePath string, defaultValues map[string]any, targetConfiguration any) (LoadedConfiguration, error) {
	viperInstance := viper.New()
	viperInstance.SetConfigName(loader.source.Name)
	viperInstance.SetConfigType(loader.source.Type)

	if len(loader.source.Embedded) > 0 {
		if mergeError := viperInstance.MergeConfig(bytes.NewReader(loader.source.Embedded)); mergeError != nil {
			return LoadedConfiguration{}, fmt.Errorf(embeddedConfigurationMergeErrorTemplateConstant, mergeError)
		}
	}

	for _, searchPath := range loader.source.SearchPaths {
		viperInstance.AddConfigPath(searchPath)
	}

	viperInstance.SetEnvPrefix(loader.source.EnvironmentPrefix)
	viperInstance.SetEnvKeyReplacer(environmentKeyReplacer)
	viperInstance.AutomaticEnv()

	for defaultKey, defaultValue := range defaultValues {
		viperInstance.SetDefault(defaultKey, defaultValue)
	}

	if len(configurationFilePath) > 0 {
		viperInstance.SetConfigFile(configurationFilePath)
	}

	if readError := viperInstance.MergeInConfig(); readError != nil {
		var notFoundError viper.ConfigFileNotFoundError
		if !errors.As(readError, &notFoundError) {
			return LoadedConfiguration{}, fmt.Errorf(configurationReadErrorTemplateConstant, readError)
		}
	}

	if unmarshalError := viperInstance.Unmarshal(targetConfiguration); unmarshalError != nil {
		return LoadedConfiguration{}, fmt.Errorf(configurationUnmarshalErrorTemplateConstant, unmarshalError)
	}

	return LoadedConfiguration{ConfigFileUsed: viperInstance.ConfigFileUsed()}, nil
}
