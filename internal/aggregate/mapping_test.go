package aggregate_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitagg/internal/aggregate"
)

func TestMappingPreservesInsertionOrder(testInstance *testing.T) {
	mapping := aggregate.NewMapping()
	mapping.Set("zeta", 1)
	mapping.Set("alpha", 2)
	mapping.Set("zeta", 3)

	require.Equal(testInstance, []string{"zeta", "alpha"}, mapping.Keys())
	require.Equal(testInstance, 2, mapping.Len())

	value, exists := mapping.Get("zeta")
	require.True(testInstance, exists)
	require.Equal(testInstance, 3, value)
}

func TestMappingHasNilValues(testInstance *testing.T) {
	mapping := mappingOf("remotes", nil)
	require.True(testInstance, mapping.Has("remotes"))
	require.False(testInstance, mapping.Has("merges"))

	var missing *aggregate.Mapping
	require.False(testInstance, missing.Has("remotes"))
	require.Zero(testInstance, missing.Len())
}

func TestMappingPlainConvertsNestedValues(testInstance *testing.T) {
	mapping := mappingOf(
		"depth", aggregate.Number("8.0"),
		"nested", mappingOf("list", []any{aggregate.Number("1"), mappingOf("key", "value")}),
	)

	expected := map[string]any{
		"depth": "8.0",
		"nested": map[string]any{
			"list": []any{"1", map[string]any{"key": "value"}},
		},
	}
	require.Equal(testInstance, expected, mapping.Plain())
}

func TestMappingZeroValueAcceptsSet(testInstance *testing.T) {
	var mapping aggregate.Mapping
	require.Nil(testInstance, mapping.Keys())
	require.Equal(testInstance, map[string]any{}, mapping.Plain())

	mapping.Set("merges", []any{"origin 14.0"})
	require.Equal(testInstance, []string{"merges"}, mapping.Keys())
	require.Equal(testInstance, 1, mapping.Len())
}

func TestMappingFromMapSortsKeys(testInstance *testing.T) {
	mapping := aggregate.MappingFromMap(map[string]any{"b": 1, "a": 2, "c": 3})
	require.Equal(testInstance, []string{"a", "b", "c"}, mapping.Keys())
}
