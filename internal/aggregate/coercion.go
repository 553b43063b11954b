package aggregate

import (
	"fmt"
	"sort"
	"strconv"
)

const (
	booleanTrueTextConstant  = "true"
	booleanFalseTextConstant = "false"
)

// textValue coerces a configuration scalar to text. Mappings and sequences are
// not scalars and report false.
func textValue(value any) (string, bool) {
	switch typed := value.(type) {
	case nil:
		return "", true
	case string:
		return typed, true
	case Number:
		return string(typed), true
	case bool:
		if typed {
			return booleanTrueTextConstant, true
		}
		return booleanFalseTextConstant, true
	case int:
		return strconv.Itoa(typed), true
	case int64:
		return strconv.FormatInt(typed, 10), true
	case uint64:
		return strconv.FormatUint(typed, 10), true
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(typed), 'f', -1, 32), true
	case *Mapping, map[string]any, []any, []string:
		return "", false
	case fmt.Stringer:
		return typed.String(), true
	default:
		return fmt.Sprintf("%v", typed), true
	}
}

func asMapping(value any) (*Mapping, bool) {
	switch typed := value.(type) {
	case *Mapping:
		if typed == nil {
			return NewMapping(), true
		}
		return typed, true
	case map[string]any:
		return MappingFromMap(typed), true
	default:
		return nil, false
	}
}

func asSequence(value any) ([]any, bool) {
	switch typed := value.(type) {
	case []any:
		return typed, true
	case []string:
		converted := make([]any, 0, len(typed))
		for _, item := range typed {
			converted = append(converted, item)
		}
		return converted, true
	default:
		return nil, false
	}
}

// isEmptyValue mirrors configuration truthiness: nil, empty text, false, and
// empty collections count as absent.
func isEmptyValue(value any) bool {
	switch typed := value.(type) {
	case nil:
		return true
	case string:
		return len(typed) == 0
	case bool:
		return !typed
	case *Mapping:
		return typed.Len() == 0
	case map[string]any:
		return len(typed) == 0
	case []any:
		return len(typed) == 0
	case []string:
		return len(typed) == 0
	default:
		return false
	}
}

func sortedKeys(source map[string]any) []string {
	keys := make([]string, 0, len(source))
	for key := range source {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
