package resolve

import (
	"strings"
)

const (
	configurationPathKeyConstant           = "config"
	configurationForceKeyConstant          = "force"
	configurationSkipMergeCheckKeyConstant = "skip_merge_check"
	configurationExpandEnvKeyConstant      = "expand_env"
	configurationEnvFileKeyConstant        = "env_file"
	configurationConcurrencyKeyConstant    = "concurrency"
	configurationOutputKeyConstant         = "output"
	configurationKeySeparatorConstant      = "."
	defaultAggregationFileConstant         = "repos.yaml"
	defaultEnvironmentFileConstant         = ".env"
	defaultConcurrencyConstant             = 1
)

// CommandConfiguration captures the tools.resolve configuration section.
type CommandConfiguration struct {
	ConfigurationPath string `mapstructure:"config"`
	Force             bool   `mapstructure:"force"`
	SkipMergeCheck    bool   `mapstructure:"skip_merge_check"`
	ExpandEnvironment bool   `mapstructure:"expand_env"`
	EnvironmentFile   string `mapstructure:"env_file"`
	Concurrency       int    `mapstructure:"concurrency"`
	Output            string `mapstructure:"output"`
}

// DefaultCommandConfiguration returns the baseline resolve configuration.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		ConfigurationPath: defaultAggregationFileConstant,
		EnvironmentFile:   defaultEnvironmentFileConstant,
		Concurrency:       defaultConcurrencyConstant,
		Output:            string(OutputFormatYAML),
	}
}

// DefaultConfigurationValues produces Viper defaults for the section stored under rootKey.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	prefix := rootKey + configurationKeySeparatorConstant
	return map[string]any{
		prefix + configurationPathKeyConstant:           defaults.ConfigurationPath,
		prefix + configurationForceKeyConstant:          defaults.Force,
		prefix + configurationSkipMergeCheckKeyConstant: defaults.SkipMergeCheck,
		prefix + configurationExpandEnvKeyConstant:      defaults.ExpandEnvironment,
		prefix + configurationEnvFileKeyConstant:        defaults.EnvironmentFile,
		prefix + configurationConcurrencyKeyConstant:    defaults.Concurrency,
		prefix + configurationOutputKeyConstant:         defaults.Output,
	}
}

func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	defaults := DefaultCommandConfiguration()
	sanitized := configuration
	sanitized.ConfigurationPath = strings.TrimSpace(configuration.ConfigurationPath)
	if len(sanitized.ConfigurationPath) == 0 {
		sanitized.ConfigurationPath = defaults.ConfigurationPath
	}
	sanitized.EnvironmentFile = strings.TrimSpace(configuration.EnvironmentFile)
	if sanitized.Concurrency < 1 {
		sanitized.Concurrency = defaults.Concurrency
	}
	sanitized.Output = strings.ToLower(strings.TrimSpace(configuration.Output))
	if len(sanitized.Output) == 0 {
		sanitized.Output = defaults.Output
	}
	return sanitized
}
