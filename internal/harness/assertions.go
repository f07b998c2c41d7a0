package harness

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/roach88/xrq/internal/transform"
	"github.com/roach88/xrq/internal/xr"
)

// AssertionError is returned when an assertion fails.
// It includes the reduced tree to help debug the failure.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
	Tree     string // Formatted tree for context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	fmt.Fprintf(&buf, "\nTree:\n  %s\n", e.Tree)
	return buf.String()
}

// kindOf returns the kind name of a node, as used by the canonical
// encoding.
func kindOf(x xr.XR) string {
	return reflect.TypeOf(x).Name()
}

// countKind counts the nodes of tree named kind.
func countKind(tree xr.XR, kind string) int {
	return len(transform.CollectWhere(tree, func(x xr.XR) bool {
		return kindOf(x) == kind
	}))
}

func assertContainsKind(tree xr.XR, a Assertion) error {
	if countKind(tree, a.Kind) > 0 {
		return nil
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("a %s node", a.Kind),
		Actual:   "none",
		Tree:     xr.Format(tree),
	}
}

func assertAbsentKind(tree xr.XR, a Assertion) error {
	n := countKind(tree, a.Kind)
	if n == 0 {
		return nil
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("no %s node", a.Kind),
		Actual:   fmt.Sprintf("%d", n),
		Tree:     xr.Format(tree),
	}
}

func assertCountKind(tree xr.XR, a Assertion) error {
	n := countKind(tree, a.Kind)
	if n == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("%d %s nodes", a.Count, a.Kind),
		Actual:   fmt.Sprintf("%d", n),
		Tree:     xr.Format(tree),
	}
}

// EvaluateAssertions evaluates all assertions against a reduced tree.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(tree xr.XR, assertions []Assertion) []string {
	var errs []string
	for _, a := range assertions {
		var err error
		switch a.Type {
		case AssertContainsKind:
			err = assertContainsKind(tree, a)
		case AssertAbsentKind:
			err = assertAbsentKind(tree, a)
		case AssertCountKind:
			err = assertCountKind(tree, a)
		default:
			err = fmt.Errorf("unknown assertion type: %s", a.Type)
		}
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}
