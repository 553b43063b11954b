package manifest

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/temirov/gitagg/internal/aggregate"
	"github.com/temirov/gitagg/internal/filesystem"
)

const (
	missingFileTemplateConstant          = "Unable to find configuration file: %s"
	unsupportedExtensionTemplateConstant = "Only .yaml and .yml configuration files are supported (got %s)"
	readFailureTemplateConstant          = "unable to read configuration file %s"
	environmentFileTemplateConstant      = "unable to read environment file %s"
	expansionFailureTemplateConstant     = "unable to expand environment in %s"
	parseFailureTemplateConstant         = "unable to parse configuration file %s"
	topLevelNotMappingTemplateConstant   = "configuration file %s must contain a mapping of directories"
	yamlExtensionConstant                = "yaml"
	ymlExtensionConstant                 = "yml"
	extensionSeparatorConstant           = "."
)

// FileSystem is the file access Load needs.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	ReadFile(path string) ([]byte, error)
}

// LoadOptions configures Load.
type LoadOptions struct {
	Path              string
	ExpandEnvironment bool
	// EnvironmentFile supplies KEY=VALUE pairs for expansion. A missing file is ignored.
	EnvironmentFile string
	// FileSystem defaults to the operating system.
	FileSystem FileSystem
	// Environment lists KEY=VALUE pairs and defaults to os.Environ(). It wins over EnvironmentFile entries.
	Environment []string
}

// Load reads the aggregation file at options.Path and returns its top-level
// mapping with directory order preserved. An empty file yields an empty mapping.
func Load(options LoadOptions) (*aggregate.Mapping, error) {
	fileSystem := options.FileSystem
	if fileSystem == nil {
		fileSystem = filesystem.OSFileSystem{}
	}

	if _, statError := fileSystem.Stat(options.Path); statError != nil {
		return nil, newFileError(options.Path, nil, missingFileTemplateConstant, options.Path)
	}

	extension := strings.TrimPrefix(filepath.Ext(options.Path), extensionSeparatorConstant)
	if extension != yamlExtensionConstant && extension != ymlExtensionConstant {
		return nil, newFileError(options.Path, nil, unsupportedExtensionTemplateConstant, extension)
	}

	contents, readError := fileSystem.ReadFile(options.Path)
	if readError != nil {
		return nil, newFileError(options.Path, readError, readFailureTemplateConstant, options.Path)
	}

	if options.ExpandEnvironment {
		expanded, expansionError := expandEnvironment(string(contents), options, fileSystem)
		if expansionError != nil {
			return nil, expansionError
		}
		contents = []byte(expanded)
	}

	return Parse(options.Path, contents)
}

// Parse converts YAML contents into a Mapping. source names the contents in errors.
func Parse(source string, contents []byte) (*aggregate.Mapping, error) {
	if len(bytes.TrimSpace(contents)) == 0 {
		return aggregate.NewMapping(), nil
	}

	var document yaml.Node
	if decodeError := yaml.Unmarshal(contents, &document); decodeError != nil {
		return nil, newFileError(source, decodeError, parseFailureTemplateConstant, source)
	}
	if document.Kind == 0 {
		return aggregate.NewMapping(), nil
	}

	converted, conversionError := convertNode(&document)
	if conversionError != nil {
		return nil, newFileError(source, conversionError, parseFailureTemplateConstant, source)
	}

	switch typed := converted.(type) {
	case nil:
		return aggregate.NewMapping(), nil
	case *aggregate.Mapping:
		return typed, nil
	default:
		return nil, newFileError(source, nil, topLevelNotMappingTemplateConstant, source)
	}
}

func expandEnvironment(contents string, options LoadOptions, fileSystem FileSystem) (string, error) {
	fileVariables := map[string]string{}
	if len(options.EnvironmentFile) > 0 {
		if fileInfo, statError := fileSystem.Stat(options.EnvironmentFile); statError == nil && !fileInfo.IsDir() {
			rawEnvironment, readError := fileSystem.ReadFile(options.EnvironmentFile)
			if readError != nil {
				return "", newFileError(options.EnvironmentFile, readError, environmentFileTemplateConstant, options.EnvironmentFile)
			}
			parsed, parseError := godotenv.Parse(bytes.NewReader(rawEnvironment))
			if parseError != nil {
				return "", newFileError(options.EnvironmentFile, parseError, environmentFileTemplateConstant, options.EnvironmentFile)
			}
			fileVariables = parsed
		}
	}

	processEnvironment := options.Environment
	if processEnvironment == nil {
		processEnvironment = os.Environ()
	}

	expanded, expansionError := expandTemplate(contents, mergeEnvironment(fileVariables, processEnvironment))
	if expansionError != nil {
		return "", newFileError(options.Path, expansionError, expansionFailureTemplateConstant, options.Path)
	}
	return expanded, nil
}

func newFileError(path string, cause error, messageTemplate string, arguments ...any) ConfigurationFileError {
	return ConfigurationFileError{Path: path, Message: fmt.Sprintf(messageTemplate, arguments...), Cause: cause}
}
