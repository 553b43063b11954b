package manifest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/a8m/envsubst/parse"
)

const (
	templateDelimiterConstant               = '$'
	templateOpenBraceConstant               = '{'
	templateCloseBraceConstant              = '}'
	templateParserNameConstant              = "aggregation"
	environmentPairSeparatorConstant        = "="
	invalidPlaceholderTemplateConstant      = "invalid placeholder at line %d, column %d"
	unterminatedPlaceholderTemplateConstant = "unterminated placeholder at line %d, column %d"
)

// expandTemplate substitutes $NAME and ${NAME} from environment, a list of
// KEY=VALUE pairs. $$ yields a literal $. Undefined names are errors.
func expandTemplate(text string, environment []string) (string, error) {
	if placeholderError := validatePlaceholders(text); placeholderError != nil {
		return "", placeholderError
	}
	restrictions := &parse.Restrictions{NoUnset: true, NoDigit: true}
	return parse.New(templateParserNameConstant, environment, restrictions).Parse(text)
}

// validatePlaceholders accepts only $$, $NAME and ${NAME}.
func validatePlaceholders(text string) error {
	for index := 0; index < len(text); index++ {
		if text[index] != templateDelimiterConstant {
			continue
		}
		if index+1 >= len(text) {
			line, column := position(text, index)
			return fmt.Errorf(invalidPlaceholderTemplateConstant, line, column)
		}

		next := text[index+1]
		switch {
		case next == templateDelimiterConstant:
			index++
		case next == templateOpenBraceConstant:
			closing := strings.IndexByte(text[index+2:], templateCloseBraceConstant)
			if closing < 0 {
				line, column := position(text, index)
				return fmt.Errorf(unterminatedPlaceholderTemplateConstant, line, column)
			}
			name := text[index+2 : index+2+closing]
			if len(name) == 0 || identifierLength(name) != len(name) {
				line, column := position(text, index)
				return fmt.Errorf(invalidPlaceholderTemplateConstant, line, column)
			}
			index += 2 + closing
		default:
			nameLength := identifierLength(text[index+1:])
			if nameLength == 0 {
				line, column := position(text, index)
				return fmt.Errorf(invalidPlaceholderTemplateConstant, line, column)
			}
			index += nameLength
		}
	}
	return nil
}

// mergeEnvironment returns KEY=VALUE pairs from fileVariables overlaid by
// processEnvironment, one entry per key.
func mergeEnvironment(fileVariables map[string]string, processEnvironment []string) []string {
	merged := make(map[string]string, len(fileVariables)+len(processEnvironment))
	for name, value := range fileVariables {
		merged[name] = value
	}
	for _, pair := range processEnvironment {
		name, value, hasSeparator := strings.Cut(pair, environmentPairSeparatorConstant)
		if !hasSeparator || len(name) == 0 {
			continue
		}
		merged[name] = value
	}

	names := make([]string, 0, len(merged))
	for name := range merged {
		names = append(names, name)
	}
	sort.Strings(names)

	environment := make([]string, 0, len(names))
	for _, name := range names {
		environment = append(environment, name+environmentPairSeparatorConstant+merged[name])
	}
	return environment
}

// identifierLength returns the length of the leading [_A-Za-z][_A-Za-z0-9]* run.
func identifierLength(text string) int {
	for index := 0; index < len(text); index++ {
		character := text[index]
		isLetter := character == '_' || (character >= 'a' && character <= 'z') || (character >= 'A' && character <= 'Z')
		isDigit := character >= '0' && character <= '9'
		if isLetter || (index > 0 && isDigit) {
			continue
		}
		return index
	}
	return len(text)
}

func position(text string, offset int) (int, int) {
	line := strings.Count(text[:offset], "\n") + 1
	column := offset - strings.LastIndexByte(text[:offset], '\n')
	return line, column
}
