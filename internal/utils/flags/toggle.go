package flags

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

const (
	toggleTrueCanonicalValue               = "true"
	toggleFalseCanonicalValue              = "false"
	toggleParseErrorTemplate               = "invalid toggle value %q"
	toggleArgumentTruePlaceholderConstant  = "<YES|no>"
	toggleArgumentFalsePlaceholderConstant = "<yes|NO>"
	toggleUsageEmptyTemplate               = "`%s`"
	toggleUsageFullTemplate                = "`%s` %s"
	toggleTypeName                         = "bool"
	longFlagPrefix                         = "--"
	shortFlagPrefix                        = "-"
	flagValueSeparator                     = "="
)

var (
	trueLiterals  = []string{toggleTrueCanonicalValue, "yes", "on", "1", "t", "y"}
	falseLiterals = []string{toggleFalseCanonicalValue, "no", "off", "0", "f", "n"}
)

// ToggleSet registers boolean flags that accept yes/no style values and
// rewrites "--flag value" into "--flag=value" for the flags it registered.
type ToggleSet struct {
	names      map[string]struct{}
	shorthands map[string]struct{}
}

// NewToggleSet constructs an empty ToggleSet.
func NewToggleSet() *ToggleSet {
	return &ToggleSet{names: map[string]struct{}{}, shorthands: map[string]struct{}{}}
}

// Add registers a toggle flag on flagSet writing to target.
func (set *ToggleSet) Add(flagSet *pflag.FlagSet, target *bool, name string, shorthand string, defaultValue bool, usage string) {
	if set == nil || flagSet == nil || len(name) == 0 {
		return
	}

	toggleValue := newToggleFlagValue(defaultValue, target)
	flagSet.VarP(toggleValue, name, shorthand, formatToggleUsage(usage, defaultValue))
	flagSet.Lookup(name).NoOptDefVal = toggleTrueCanonicalValue

	set.names[name] = struct{}{}
	if len(shorthand) > 0 {
		set.shorthands[shorthand] = struct{}{}
	}
}

// NormalizeArguments joins a registered toggle with a following value argument.
// The result is never nil so cobra does not fall back to os.Args.
func (set *ToggleSet) NormalizeArguments(arguments []string) []string {
	if len(arguments) == 0 {
		return []string{}
	}

	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		current := arguments[index]
		if current == longFlagPrefix {
			normalized = append(normalized, arguments[index:]...)
			break
		}

		if set.expectsValue(current) && index+1 < len(arguments) && !strings.HasPrefix(arguments[index+1], shortFlagPrefix) {
			if _, parseError := parseToggleValue(arguments[index+1]); parseError == nil {
				normalized = append(normalized, current+flagValueSeparator+arguments[index+1])
				index++
				continue
			}
		}

		normalized = append(normalized, current)
	}
	return normalized
}

// expectsValue reports whether argument is a registered toggle written without "=value".
func (set *ToggleSet) expectsValue(argument string) bool {
	if set == nil || strings.Contains(argument, flagValueSeparator) {
		return false
	}
	if strings.HasPrefix(argument, longFlagPrefix) {
		_, registered := set.names[strings.TrimPrefix(argument, longFlagPrefix)]
		return registered
	}
	if strings.HasPrefix(argument, shortFlagPrefix) {
		shorthand := strings.TrimPrefix(argument, shortFlagPrefix)
		if len(shorthand) != 1 {
			return false
		}
		_, registered := set.shorthands[shorthand]
		return registered
	}
	return false
}

func formatToggleUsage(description string, defaultValue bool) string {
	placeholder := toggleArgumentFalsePlaceholderConstant
	if defaultValue {
		placeholder = toggleArgumentTruePlaceholderConstant
	}
	trimmed := strings.TrimSpace(description)
	if len(trimmed) == 0 {
		return fmt.Sprintf(toggleUsageEmptyTemplate, placeholder)
	}
	return fmt.Sprintf(toggleUsageFullTemplate, placeholder, trimmed)
}

type toggleFlagValue struct {
	currentValue bool
	target       *bool
}

func newToggleFlagValue(defaultValue bool, target *bool) *toggleFlagValue {
	if target != nil {
		*target = defaultValue
	}
	return &toggleFlagValue{currentValue: defaultValue, target: target}
}

func (value *toggleFlagValue) Set(rawValue string) error {
	parsedValue, parseError := parseToggleValue(rawValue)
	if parseError != nil {
		return parseError
	}
	value.currentValue = parsedValue
	if value.target != nil {
		*value.target = parsedValue
	}
	return nil
}

func (value *toggleFlagValue) String() string {
	if value == nil || !value.currentValue {
		return toggleFalseCanonicalValue
	}
	return toggleTrueCanonicalValue
}

func (value *toggleFlagValue) Type() string {
	return toggleTypeName
}

func parseToggleValue(rawValue string) (bool, error) {
	normalizedValue := strings.ToLower(strings.TrimSpace(rawValue))
	if len(normalizedValue) == 0 {
		return true, nil
	}
	for _, literal := range trueLiterals {
		if normalizedValue == literal {
			return true, nil
		}
	}
	for _, literal := range falseLiterals {
		if normalizedValue == literal {
			return false, nil
		}
	}
	return false, fmt.Errorf(toggleParseErrorTemplate, rawValue)
}
