package flags

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

const (
	choicePlaceholderPrefix  = "<"
	choicePlaceholderSuffix  = ">"
	choiceSeparatorLiteral   = "|"
	choiceUsageEmptyTemplate = "`%s`"
	choiceUsageFullTemplate  = "`%s` %s"
	choiceParseErrorTemplate = "invalid value %q (expected one of %s)"
	choiceListSeparator      = ", "
	choiceTypeName           = "string"
)

// FormatChoiceUsage builds a usage string where the default option is capitalized inside a placeholder.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	placeholder := choicePlaceholderPrefix + strings.Join(highlightDefaultChoice(defaultChoice, choices), choiceSeparatorLiteral) + choicePlaceholderSuffix
	if len(strings.TrimSpace(description)) == 0 {
		return fmt.Sprintf(choiceUsageEmptyTemplate, placeholder)
	}
	return fmt.Sprintf(choiceUsageFullTemplate, placeholder, description)
}

// AddChoiceFlag registers a string flag restricted to choices. Values are
// matched case-insensitively and stored lower-cased.
func AddChoiceFlag(flagSet *pflag.FlagSet, target *string, name string, defaultChoice string, choices []string, description string) {
	if flagSet == nil || len(name) == 0 {
		return
	}
	value := &choiceValue{target: target, choices: normalizeChoices(choices)}
	if target != nil {
		*target = strings.ToLower(strings.TrimSpace(defaultChoice))
	}
	flagSet.Var(value, name, FormatChoiceUsage(defaultChoice, choices, description))
}

type choiceValue struct {
	target  *string
	choices []string
}

func (value *choiceValue) Set(rawValue string) error {
	normalized := strings.ToLower(strings.TrimSpace(rawValue))
	for _, choice := range value.choices {
		if choice == normalized {
			if value.target != nil {
				*value.target = normalized
			}
			return nil
		}
	}
	return fmt.Errorf(choiceParseErrorTemplate, rawValue, strings.Join(value.choices, choiceListSeparator))
}

func (value *choiceValue) String() string {
	if value == nil || value.target == nil {
		return ""
	}
	return *value.target
}

func (value *choiceValue) Type() string {
	return choiceTypeName
}

func normalizeChoices(choices []string) []string {
	normalized := make([]string, 0, len(choices))
	seen := make(map[string]struct{}, len(choices))
	for _, choice := range choices {
		trimmed := strings.ToLower(strings.TrimSpace(choice))
		if len(trimmed) == 0 {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		normalized = append(normalized, trimmed)
	}
	return normalized
}

func highlightDefaultChoice(defaultChoice string, choices []string) []string {
	normalizedDefault := strings.ToLower(strings.TrimSpace(defaultChoice))
	highlighted := make([]string, 0, len(choices))
	for _, choice := range normalizeChoices(choices) {
		if choice == normalizedDefault {
			highlighted = append(highlighted, strings.ToUpper(choice))
			continue
		}
		highlighted = append(highlighted, choice)
	}
	return highlighted
}
