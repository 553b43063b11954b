package aggregate

import (
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

const (
	defaultsKeyConstant               = "defaults"
	skipDryRunKeyConstant             = "skip_dry_run"
	applyPatchKeyConstant             = "apply_patch"
	skipRepoInitKeyConstant           = "skip_repo_init"
	flagsDecodeErrorTemplateConstant  = "invalid repository flags: %v"
	defaultsNotMappingMessageConstant = "defaults must be a mapping."
)

// repositoryFlags are the per-directory toggles passed through to downstream tooling.
type repositoryFlags struct {
	SkipDryRun   bool `mapstructure:"skip_dry_run"`
	ApplyPatch   bool `mapstructure:"apply_patch"`
	SkipRepoInit bool `mapstructure:"skip_repo_init"`
}

func decodeRepositoryFlags(directory string, repositoryData *Mapping) (repositoryFlags, error) {
	flags := repositoryFlags{}
	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "mapstructure",
		DecodeHook:       booleanWordHook,
		WeaklyTypedInput: true,
		ZeroFields:       true,
		Result:           &flags,
	})
	if decoderError != nil {
		return repositoryFlags{}, newConfigurationError(directory, flagsDecodeErrorTemplateConstant, decoderError)
	}

	flagKeys := []string{skipDryRunKeyConstant, applyPatchKeyConstant, skipRepoInitKeyConstant}
	source := make(map[string]any, len(flagKeys))
	for _, flagKey := range flagKeys {
		rawValue, defined := repositoryData.Get(flagKey)
		if !defined || rawValue == nil {
			continue
		}
		source[flagKey] = plainValue(rawValue)
	}

	if decodeError := decoder.Decode(source); decodeError != nil {
		return repositoryFlags{}, newConfigurationError(directory, flagsDecodeErrorTemplateConstant, decodeError)
	}
	return flags, nil
}

var booleanWords = map[string]bool{
	"yes": true,
	"y":   true,
	"on":  true,
	"no":  false,
	"n":   false,
	"off": false,
}

// booleanWordHook accepts the YAML 1.1 boolean words that yaml.v3 leaves as strings.
func booleanWordHook(sourceType reflect.Type, targetType reflect.Type, data any) (any, error) {
	if sourceType.Kind() != reflect.String || targetType.Kind() != reflect.Bool {
		return data, nil
	}
	word := strings.ToLower(strings.TrimSpace(reflect.ValueOf(data).String()))
	if value, known := booleanWords[word]; known {
		return value, nil
	}
	return data, nil
}

func normalizeDefaults(directory string, repositoryData *Mapping) (map[string]any, error) {
	rawDefaults, _ := repositoryData.Get(defaultsKeyConstant)
	if rawDefaults == nil {
		return map[string]any{}, nil
	}
	defaultsMapping, isMapping := asMapping(rawDefaults)
	if !isMapping {
		return nil, newConfigurationError(directory, defaultsNotMappingMessageConstant)
	}
	return defaultsMapping.Plain(), nil
}
