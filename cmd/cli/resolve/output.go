package resolve

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/temirov/gitagg/internal/aggregate"
)

// OutputFormat selects how resolved specs are printed.
type OutputFormat string

// Supported output formats.
const (
	OutputFormatYAML OutputFormat = OutputFormat("yaml")
	OutputFormatJSON OutputFormat = OutputFormat("json")
)

const (
	unsupportedOutputTemplateConstant = "unsupported output format %q"
	renderErrorTemplateConstant       = "unable to render resolved repositories: %w"
	yamlIndentConstant                = 2
	jsonIndentConstant                = "  "
)

// OutputFormatChoices lists the accepted --output values.
func OutputFormatChoices() []string {
	return []string{string(OutputFormatYAML), string(OutputFormatJSON)}
}

func renderSpecs(output io.Writer, format OutputFormat, specs []aggregate.RepoSpec) error {
	if specs == nil {
		specs = []aggregate.RepoSpec{}
	}

	switch format {
	case OutputFormatYAML:
		encoder := yaml.NewEncoder(output)
		encoder.SetIndent(yamlIndentConstant)
		if encodeError := encoder.Encode(specs); encodeError != nil {
			return fmt.Errorf(renderErrorTemplateConstant, encodeError)
		}
		if closeError := encoder.Close(); closeError != nil {
			return fmt.Errorf(renderErrorTemplateConstant, closeError)
		}
		return nil
	case OutputFormatJSON:
		encoder := json.NewEncoder(output)
		encoder.SetIndent("", jsonIndentConstant)
		if encodeError := encoder.Encode(specs); encodeError != nil {
			return fmt.Errorf(renderErrorTemplateConstant, encodeError)
		}
		return nil
	default:
		return fmt.Errorf(unsupportedOutputTemplateConstant, string(format))
	}
}
