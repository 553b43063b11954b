package aggregate_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitagg/internal/aggregate"
)

func TestIsHexReference(testInstance *testing.T) {
	testCases := []struct {
		name      string
		reference string
		expected  bool
	}{
		{name: "abbreviated", reference: "deadbeef", expected: true},
		{name: "full_sha1", reference: testFoundHashConstant, expected: true},
		{name: "uppercase", reference: "DEADBEEF", expected: true},
		{name: "sha256_length", reference: strings.Repeat("a", 64), expected: true},
		{name: "too_long", reference: strings.Repeat("a", 65), expected: false},
		{name: "empty", reference: "", expected: false},
		{name: "branch_name", reference: "feature", expected: false},
		{name: "version", reference: "14.0", expected: false},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expected, aggregate.IsHexReference(testCase.reference))
		})
	}
}
