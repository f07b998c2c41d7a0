package canonical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/xrq/internal/testutil"
	"github.com/roach88/xrq/internal/xr"
)

func TestValidate_CanonicalQuery(t *testing.T) {
	p := testutil.PersonID("p")
	tree := testutil.NamesOf(testutil.AdultsOf(testutil.People(), p), p)

	result := Validate(tree)

	assert.True(t, result.IsCanonical)
	assert.Empty(t, result.Warnings)
	assert.True(t, IsCanonical(tree))
}

func TestValidate_FlatChain(t *testing.T) {
	p := testutil.PersonID("p")
	cond := xr.Binary(xr.Prop(p, "age"), xr.OpGt, xr.Int(18))

	// The shape select-clause lowering produces.
	tree := xr.FlatMap{Head: testutil.People(), ID: p, Body: xr.Map{
		Head: xr.FlatFilter{By: cond}, ID: xr.Unused, Body: xr.Prop(p, "name"),
	}}

	assert.True(t, IsCanonical(tree))
}

func TestValidate_Leftovers(t *testing.T) {
	p := testutil.PersonID("p")
	n := testutil.ValueID("n")
	people := testutil.People()

	tests := []struct {
		name string
		tree xr.XR
		want string
	}{
		{"apply", xr.Apply(xr.Fn(n, n), xr.Int(1)), "function application"},
		{"lambda", xr.Fn(n, n), "lambda"},
		{"block", xr.Block{Stmts: []xr.Variable{xr.Let(n, xr.Int(1))}, Output: n}, "let block"},
		{"query wrappers", xr.ExprToQuery{Head: xr.QueryToExpr{Head: people}}, "wrapper pair"},
		{"expr wrappers", xr.QueryToExpr{Head: xr.ExprToQuery{Head: n}}, "wrapper pair"},
		{"literal condition", xr.IfThenElse(xr.Bool(true), n, xr.Int(1)), "literal"},
		{"record projection", xr.Prop(xr.Record("R", xr.PF("a", n)), "a"), "property access"},
		{"stray flat filter", xr.Filter{Head: xr.FlatFilter{By: xr.Bool(true)}, ID: p, Body: xr.Bool(true)}, "flat statement"},
		{"flat map head", xr.FlatMap{Head: xr.FlatFilter{By: xr.Bool(true)}, ID: xr.Unused, Body: people}, "flat statement"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.tree)
			assert.False(t, result.IsCanonical)
			require.NotEmpty(t, result.Warnings)
			assert.Contains(t, result.Warnings[0], tt.want)
		})
	}
}

func TestValidate_NestedLeftoversAreAllReported(t *testing.T) {
	n := testutil.ValueID("n")
	p := testutil.PersonID("p")
	tree := xr.Filter{
		Head: testutil.People(),
		ID:   p,
		Body: xr.And(
			xr.Apply(xr.Fn(n, n), xr.Bool(true)),
			xr.IfThenElse(xr.Bool(false), xr.Bool(true), xr.Bool(false)),
		),
	}

	result := Validate(tree)

	assert.Len(t, result.Warnings, 3) // apply, the lambda inside it, the conditional
}

func TestValidate_WarningCarriesPosition(t *testing.T) {
	n := testutil.ValueID("n")
	fn := xr.Fn(n, n)
	fn.Location = xr.Location{File: "q.cue", Line: 3, Column: 7}

	result := Validate(fn)

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "q.cue:3:7")
}
