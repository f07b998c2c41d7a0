package canonical

import (
	"fmt"

	"github.com/roach88/xrq/internal/transform"
	"github.com/roach88/xrq/internal/xr"
)

// ValidationResult contains the canonical-form analysis of a tree.
type ValidationResult struct {
	// IsCanonical indicates the tree is ready for SQL generation.
	IsCanonical bool

	// Warnings lists the leftover constructs. Empty when IsCanonical is true.
	Warnings []string
}

// Validate checks a tree against the canonical form.
func Validate(tree xr.XR) ValidationResult {
	v := &validator{warnings: []string{}}
	v.visit(tree, false)

	return ValidationResult{
		IsCanonical: len(v.warnings) == 0,
		Warnings:    v.warnings,
	}
}

// IsCanonical reports whether Validate finds nothing to warn about.
func IsCanonical(tree xr.XR) bool {
	return Validate(tree).IsCanonical
}

// validator accumulates warnings during traversal.
type validator struct {
	warnings []string
}

func (v *validator) addWarning(x xr.XR, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if loc := x.Source(); !loc.IsSynthetic() {
		msg = fmt.Sprintf("%s: %s", loc.Position(), msg)
	}
	v.warnings = append(v.warnings, msg)
}

// visit checks x. flatOK is true where a flat statement may stand: the body
// of a FlatMap, and the head of a Map or FlatMap standing there.
func (v *validator) visit(x xr.XR, flatOK bool) {
	if x == nil {
		return
	}
	v.check(x, flatOK)

	switch n := x.(type) {
	case xr.FlatMap:
		v.visit(n.Head, flatOK)
		v.visit(n.ID, false)
		v.visit(n.Body, true)
	case xr.Map:
		v.visit(n.Head, flatOK)
		v.visit(n.ID, false)
		v.visit(n.Body, false)
	case xr.CustomQueryRef:
		if n.Custom != nil {
			for _, c := range n.Custom.Children() {
				v.visit(c, false)
			}
		}
	default:
		transform.Children(x, func(c xr.XR) xr.XR {
			v.visit(c, false)
			return c
		})
	}
}

func (v *validator) check(x xr.XR, flatOK bool) {
	switch n := x.(type) {
	case xr.FunctionApply:
		v.addWarning(x, "function application not inlined: %s", xr.Format(n))
	case xr.FunctionN:
		v.addWarning(x, "lambda left in tree: %s", xr.Format(n))
	case xr.Block:
		v.addWarning(x, "let block not flattened: %s", xr.Format(n))
	case xr.CustomQueryRef:
		v.addWarning(x, "custom query not lowered: %s", xr.Format(n))
	case xr.ExprToQuery:
		if _, ok := xr.MatchWrappedQuery(n); ok {
			v.addWarning(x, "wrapper pair not cancelled: %s", xr.Format(n))
		}
	case xr.QueryToExpr:
		if _, ok := xr.MatchWrappedExpr(n); ok {
			v.addWarning(x, "wrapper pair not cancelled: %s", xr.Format(n))
		}
	case xr.When:
		for _, b := range n.Branches {
			if _, literal := b.Cond.(xr.ConstBool); literal {
				v.addWarning(x, "conditional on a literal: %s", xr.Format(n))
				break
			}
		}
	case xr.Property:
		switch n.Of.(type) {
		case xr.Product, xr.When:
			v.addWarning(x, "property access not distributed: %s", xr.Format(n))
		}
	case xr.FlatFilter, xr.FlatGroupBy, xr.FlatSortBy, xr.FlatJoin:
		if !flatOK {
			v.addWarning(x, "flat statement outside a FlatMap chain: %s", xr.Format(x))
		}
	}
}
