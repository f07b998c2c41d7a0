package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/xrq/internal/testutil"
	"github.com/roach88/xrq/internal/xr"
)

func TestEvaluateAssertions(t *testing.T) {
	p := testutil.PersonID("p")
	tree := testutil.NamesOf(testutil.AdultsOf(testutil.People(), p), p)

	tests := []struct {
		name      string
		assertion Assertion
		pass      bool
	}{
		{"contains present", Assertion{Type: AssertContainsKind, Kind: "Filter"}, true},
		{"contains missing", Assertion{Type: AssertContainsKind, Kind: "FlatMap"}, false},
		{"absent missing", Assertion{Type: AssertAbsentKind, Kind: "FunctionApply"}, true},
		{"absent present", Assertion{Type: AssertAbsentKind, Kind: "Map"}, false},
		{"count exact", Assertion{Type: AssertCountKind, Kind: "Property", Count: 2}, true},
		{"count wrong", Assertion{Type: AssertCountKind, Kind: "Property", Count: 1}, false},
		{"count zero", Assertion{Type: AssertCountKind, Kind: "When", Count: 0}, true},
		{"unknown type", Assertion{Type: "nope", Kind: "Map"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := EvaluateAssertions(tree, []Assertion{tt.assertion})
			if tt.pass {
				assert.Empty(t, errs)
			} else {
				assert.Len(t, errs, 1)
			}
		})
	}
}

func TestAssertionError_ErrorFormat(t *testing.T) {
	errs := EvaluateAssertions(xr.Int(1), []Assertion{{Type: AssertContainsKind, Kind: "Map"}})
	require.Len(t, errs, 1)

	assert.Contains(t, errs[0], "Assertion failed: contains_kind")
	assert.Contains(t, errs[0], "Expected: a Map node")
	assert.Contains(t, errs[0], "Actual: none")
	assert.Contains(t, errs[0], "Tree:")
}
