package aggregate

import orderedmap "github.com/wk8/go-ordered-map/v2"

// Number holds the source text of a numeric configuration scalar so values such
// as 8.0 or 14.10 survive without float truncation.
type Number string

// String returns the source text of the number.
func (number Number) String() string {
	return string(number)
}

// Mapping is a string-keyed mapping that remembers key insertion order.
type Mapping struct {
	pairs *orderedmap.OrderedMap[string, any]
}

// NewMapping constructs an empty Mapping.
func NewMapping() *Mapping {
	return &Mapping{pairs: orderedmap.New[string, any]()}
}

// Set stores value under key. A key that is already present keeps its original
// position and receives the new value.
func (mapping *Mapping) Set(key string, value any) {
	if mapping.pairs == nil {
		mapping.pairs = orderedmap.New[string, any]()
	}
	mapping.pairs.Set(key, value)
}

// Get returns the value stored under key.
func (mapping *Mapping) Get(key string) (any, bool) {
	if mapping == nil || mapping.pairs == nil {
		return nil, false
	}
	return mapping.pairs.Get(key)
}

// Has reports whether key is present, including keys holding a nil value.
func (mapping *Mapping) Has(key string) bool {
	_, exists := mapping.Get(key)
	return exists
}

// Keys returns the keys in insertion order.
func (mapping *Mapping) Keys() []string {
	if mapping == nil || mapping.pairs == nil {
		return nil
	}
	keys := make([]string, 0, mapping.pairs.Len())
	for pair := mapping.pairs.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Len returns the number of keys.
func (mapping *Mapping) Len() int {
	if mapping == nil || mapping.pairs == nil {
		return 0
	}
	return mapping.pairs.Len()
}

// Plain converts the mapping and every nested Mapping into map[string]any values.
func (mapping *Mapping) Plain() map[string]any {
	if mapping == nil {
		return nil
	}
	plain := make(map[string]any, mapping.Len())
	if mapping.pairs == nil {
		return plain
	}
	for pair := mapping.pairs.Oldest(); pair != nil; pair = pair.Next() {
		plain[pair.Key] = plainValue(pair.Value)
	}
	return plain
}

func plainValue(value any) any {
	switch typed := value.(type) {
	case *Mapping:
		return typed.Plain()
	case map[string]any:
		converted := make(map[string]any, len(typed))
		for key, nested := range typed {
			converted[key] = plainValue(nested)
		}
		return converted
	case []any:
		converted := make([]any, 0, len(typed))
		for _, nested := range typed {
			converted = append(converted, plainValue(nested))
		}
		return converted
	case Number:
		return string(typed)
	default:
		return typed
	}
}

// MappingFromMap builds a Mapping from a plain map with keys in sorted order.
// Callers that care about directory order should build the Mapping with Set.
func MappingFromMap(source map[string]any) *Mapping {
	mapping := NewMapping()
	for _, key := range sortedKeys(source) {
		mapping.Set(key, source[key])
	}
	return mapping
}
