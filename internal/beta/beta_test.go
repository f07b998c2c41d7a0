package beta

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/xrq/internal/testutil"
	"github.com/roach88/xrq/internal/xr"
	"github.com/roach88/xrq/internal/xrtype"
)

// assertXR compares trees structurally and prints both on mismatch.
func assertXR(t *testing.T, want, got xr.XR) {
	t.Helper()
	assert.True(t, xr.Equal(want, got), "want %s\n got %s", xr.Format(want), xr.Format(got))
}

func mustReduce(t *testing.T, tree xr.XR, subst Substitutions, opts ...Option) xr.XR {
	t.Helper()
	out, err := Reduce(tree, subst, opts...)
	require.NoError(t, err)
	return out
}

func TestReduce_Rules(t *testing.T) {
	x := testutil.BoolID("x")
	v := testutil.ValueID("v")
	p := testutil.PersonID("p")
	a, b := testutil.ValueID("a"), testutil.ValueID("b")

	tests := []struct {
		name string
		in   xr.XR
		want xr.XR
	}{
		{"if true", xr.IfThenElse(xr.Bool(true), a, b), a},
		{"if false", xr.IfThenElse(xr.Bool(false), a, b), b},
		{"null check false else true", xr.IfThenElse(xr.IsNull(v), xr.Bool(false), xr.Bool(true)), xr.IsNotNull(v)},
		{"null check true else false", xr.IfThenElse(xr.IsNull(v), xr.Bool(true), xr.Bool(false)), xr.IsNull(v)},
		{"null else self", xr.IfThenElse(xr.IsNull(v), xr.Null(), v), v},
		{"null else other is kept", xr.IfThenElse(xr.IsNull(v), xr.Null(), a), xr.IfThenElse(xr.IsNull(v), xr.Null(), a)},
		{"product null check", xr.IfThenElse(xr.IsNull(p), xr.Int(1), xr.Int(2)), xr.Int(2)},
		{"product null check with null branch", xr.IfThenElse(xr.IsNull(p), xr.Null(), xr.Prop(p, "name")), xr.Prop(p, "name")},
		{"not equals", xr.Not(xr.Eq(a, b)), xr.NotEq(a, b)},
		{"true == x", xr.Eq(xr.Bool(true), x), x},
		{"x == true", xr.Eq(x, xr.Bool(true)), x},
		{"true == false", xr.Eq(xr.Bool(true), xr.Bool(false)), xr.Bool(false)},
		{"false == false", xr.Eq(xr.Bool(false), xr.Bool(false)), xr.Bool(true)},
		{"true || x", xr.Or(xr.Bool(true), x), xr.Bool(true)},
		{"x || true", xr.Or(x, xr.Bool(true)), xr.Bool(true)},
		{"true && x", xr.And(xr.Bool(true), x), x},
		{"x && true", xr.And(x, xr.Bool(true)), x},
		{"false || x", xr.Or(xr.Bool(false), x), x},
		{"false && x", xr.And(x, xr.Bool(false)), xr.Bool(false)},
		{"nested laws", xr.And(xr.Or(xr.Bool(false), x), xr.Bool(true)), x},
		{"fold", xr.Binary(xr.Int(6), xr.OpMult, xr.Binary(xr.Int(3), xr.OpMinus, xr.Int(1))), xr.Int(12)},
		{"no fold across widths", xr.Binary(xr.Int(1), xr.OpPlus, xr.Long(1)), xr.Binary(xr.Int(1), xr.OpPlus, xr.Long(1))},
		{"no fold on zero division", xr.Binary(xr.Int(1), xr.OpDiv, xr.Int(0)), xr.Binary(xr.Int(1), xr.OpDiv, xr.Int(0))},
		{"record projection", xr.Prop(xr.Record("R", xr.PF("a", xr.Int(1)), xr.PF("b", xr.Int(2))), "b"), xr.Int(2)},
		{
			"property over conditional",
			xr.Prop(xr.IfThenElse(x,
				xr.Record("R", xr.PF("a", xr.Int(1))),
				xr.Record("R", xr.PF("a", xr.Int(2)))), "a"),
			xr.IfThenElse(x, xr.Int(1), xr.Int(2)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertXR(t, tt.want, mustReduce(t, tt.in, Substitutions{}))
		})
	}
}

func TestReduce_WrappersCancel(t *testing.T) {
	people := testutil.People()
	e := testutil.ValueID("e")

	assertXR(t, people, mustReduce(t, xr.ExprToQuery{Head: xr.QueryToExpr{Head: people}}, Substitutions{}))
	assertXR(t, e, mustReduce(t, xr.QueryToExpr{Head: xr.ExprToQuery{Head: e}}, Substitutions{}))
}

func TestReduce_Identity(t *testing.T) {
	p := testutil.PersonID("p")
	tree := testutil.NamesOf(testutil.AdultsOf(testutil.People(), p), p)

	res, err := ReduceWithResult(tree, Substitutions{})
	require.NoError(t, err)
	assertXR(t, tree, res.Tree)
	assert.Equal(t, 1, res.Iterations)
}

func TestReduce_Idempotent(t *testing.T) {
	p := testutil.PersonID("p")
	x := testutil.PersonID("x")
	v := testutil.ValueID("v")

	tests := []struct {
		name  string
		tree  xr.XR
		subst Substitutions
	}{
		{"query", testutil.NamesOf(testutil.AdultsOf(testutil.People(), p), p), Substitutions{}},
		{"apply", xr.Apply(xr.Fn(xr.Binary(xr.Prop(p, "age"), xr.OpGt, v), p), x), NewSubstitutions(Sub(v, xr.Int(18)))},
		{"block", xr.Block{
			Stmts:  []xr.Variable{xr.Let(xr.Id("n", nil), xr.Int(1))},
			Output: xr.Binary(xr.Id("n", nil), xr.OpPlus, v),
		}, Substitutions{}},
		{"lambda", xr.Fn(xr.And(xr.Bool(true), xr.Eq(xr.Prop(p, "age"), v)), p), Substitutions{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			once := mustReduce(t, tt.tree, tt.subst)
			twice := mustReduce(t, once, Substitutions{})
			assertXR(t, once, twice)
		})
	}
}

func TestReduce_InlinesApply(t *testing.T) {
	p := testutil.PersonID("p")
	x := xr.Id("x", xrtype.NewProduct("Row", xrtype.F("person", testutil.PersonType)))

	tree := xr.Apply(xr.Fn(xr.Binary(xr.Prop(p, "age"), xr.OpGt, xr.Int(18)), p), xr.Prop(x, "person"))
	want := xr.Binary(xr.Prop(xr.Prop(x, "person"), "age"), xr.OpGt, xr.Int(18))

	assertXR(t, want, mustReduce(t, tree, Substitutions{}))
}

func TestReduce_ApplyAvoidsCapture(t *testing.T) {
	a, b := testutil.ValueID("a"), testutil.ValueID("b")

	// { (a, b) -> a + b }(b, a) must not collapse to b + b.
	tree := xr.Apply(xr.Fn(xr.Binary(a, xr.OpPlus, b), a, b), b, a)

	assertXR(t, xr.Binary(b, xr.OpPlus, a), mustReduce(t, tree, Substitutions{}))
}

func TestReduce_ApplyFoldsAfterInlining(t *testing.T) {
	n := testutil.ValueID("n")

	tree := xr.Apply(xr.Fn(xr.Binary(n, xr.OpPlus, xr.Int(1)), n), xr.Int(2))
	assertXR(t, xr.Int(3), mustReduce(t, tree, Substitutions{}))
}

func TestReduce_ApplyStripsWrappers(t *testing.T) {
	n := testutil.ValueID("n")

	t.Run("wrapped function", func(t *testing.T) {
		fn := xr.Fn(xr.Binary(n, xr.OpPlus, xr.Int(1)), n)
		tree := xr.Apply(xr.ExprToQuery{Head: fn}, xr.Int(2))
		assertXR(t, xr.Int(3), mustReduce(t, tree, Substitutions{}))
	})

	t.Run("wrapped body", func(t *testing.T) {
		fn := xr.Fn(xr.ExprToQuery{Head: n}, n)
		tree := xr.Apply(fn, xr.Int(1))
		assertXR(t, xr.ExprToQuery{Head: xr.Int(1)}, mustReduce(t, tree, Substitutions{}))
	})
}

func TestReduce_ApplyArityMismatch(t *testing.T) {
	a, b := testutil.ValueID("a"), testutil.ValueID("b")
	tree := xr.Apply(xr.Fn(xr.Binary(a, xr.OpPlus, b), a, b), xr.Int(1))

	_, err := Reduce(tree, Substitutions{})
	require.Error(t, err)
	assert.True(t, IsInvalidApply(err))
}

func TestReduce_RenamesLambdaParams(t *testing.T) {
	p, q := testutil.PersonID("p"), testutil.PersonID("q")

	tree := xr.Fn(xr.Prop(p, "age"), p)
	out := mustReduce(t, tree, NewSubstitutions(Sub(p, q)))

	assertXR(t, xr.Fn(xr.Prop(q, "age"), q), out)
}

func TestReduce_ShadowingInBinders(t *testing.T) {
	x := testutil.PersonID("x")
	w := testutil.PersonID("w")
	z := testutil.PersonID("z")
	people := testutil.People()

	// x is rebound by the filter, so only the free x in the outer body is
	// replaced.
	tree := xr.FlatMap{
		Head: xr.Filter{Head: people, ID: x, Body: xr.Eq(xr.Prop(x, "age"), xr.Int(1))},
		ID:   w,
		Body: xr.ExprToQuery{Head: xr.Eq(xr.Prop(x, "age"), xr.Prop(w, "age"))},
	}
	want := xr.FlatMap{
		Head: xr.Filter{Head: people, ID: x, Body: xr.Eq(xr.Prop(x, "age"), xr.Int(1))},
		ID:   w,
		Body: xr.ExprToQuery{Head: xr.Eq(xr.Prop(z, "age"), xr.Prop(w, "age"))},
	}

	assertXR(t, want, mustReduce(t, tree, NewSubstitutions(Sub(x, z))))
}

func TestReduce_BinderRenamedToAvoidCapture(t *testing.T) {
	x := testutil.PersonID("x")
	y := testutil.PersonID("y")
	x1 := testutil.PersonID("x1")
	people := testutil.People()

	tree := xr.Filter{Head: people, ID: x, Body: xr.Eq(xr.Prop(x, "age"), xr.Prop(y, "age"))}
	want := xr.Filter{Head: people, ID: x1, Body: xr.Eq(xr.Prop(x1, "age"), xr.Prop(x, "age"))}

	assertXR(t, want, mustReduce(t, tree, NewSubstitutions(Sub(y, x))))
}

func TestReduce_Block(t *testing.T) {
	n := func(name string) xr.Ident { return xr.Id(name, nil) }

	tests := []struct {
		name string
		in   xr.Block
		want xr.XR
	}{
		{
			name: "sequential",
			in: xr.Block{
				Stmts: []xr.Variable{
					xr.Let(n("x"), xr.Int(1)),
					xr.Let(n("y"), xr.Binary(n("x"), xr.OpPlus, xr.Int(1))),
				},
				Output: xr.Binary(n("x"), xr.OpPlus, n("y")),
			},
			want: xr.Int(3),
		},
		{
			name: "rebinding",
			in: xr.Block{
				Stmts: []xr.Variable{
					xr.Let(n("x"), xr.Int(1)),
					xr.Let(n("x"), xr.Binary(n("x"), xr.OpPlus, xr.Int(1))),
				},
				Output: n("x"),
			},
			want: xr.Int(2),
		},
		{
			name: "later binding does not capture",
			in: xr.Block{
				Stmts: []xr.Variable{
					xr.Let(n("y"), xr.Binary(n("z"), xr.OpPlus, xr.Int(1))),
					xr.Let(n("z"), xr.Int(5)),
				},
				Output: n("y"),
			},
			want: xr.Binary(n("z"), xr.OpPlus, xr.Int(1)),
		},
		{
			name: "empty",
			in:   xr.Block{Output: xr.Str("done")},
			want: xr.Str("done"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertXR(t, tt.want, mustReduce(t, tt.in, Substitutions{}))
		})
	}
}

func TestReduce_BlockAppliesOuterSubstitutionsOnce(t *testing.T) {
	a := testutil.ValueID("a")
	x := testutil.ValueID("x")
	subst := NewSubstitutions(Sub(a, xr.Prop(a, "f")))
	opts := WithTypeBehavior(ReplaceWithReduction)

	direct := mustReduce(t, xr.Prop(a, "name"), subst, opts)
	assertXR(t, xr.Prop(xr.Prop(a, "f"), "name"), direct)

	// The let-bound value already carries the substitution; inlining it must
	// not apply it again.
	block := xr.Block{
		Stmts:  []xr.Variable{xr.Let(x, a)},
		Output: xr.Prop(x, "name"),
	}
	assertXR(t, direct, mustReduce(t, block, subst, opts))
}

func TestReduce_ActionAliases(t *testing.T) {
	p := testutil.PersonID("p")
	x := testutil.ValueID("x")

	t.Run("assignment values are substituted", func(t *testing.T) {
		tree := xr.Returning{
			Action: xr.Insert{
				Entity:      testutil.People(),
				Alias:       p,
				Assignments: []xr.Assignment{{Property: xr.Prop(p, "age"), Value: x}},
			},
			Alias:  p,
			Output: xr.Prop(p, "name"),
		}
		want := tree
		want.Action = xr.Insert{
			Entity:      testutil.People(),
			Alias:       p,
			Assignments: []xr.Assignment{{Property: xr.Prop(p, "age"), Value: xr.Int(30)}},
		}

		assertXR(t, want, mustReduce(t, tree, NewSubstitutions(Sub(x, xr.Int(30)))))
	})

	t.Run("alias is renamed around a replacement that mentions it", func(t *testing.T) {
		p1 := testutil.PersonID("p1")
		tree := xr.Insert{
			Entity:      testutil.People(),
			Alias:       p,
			Assignments: []xr.Assignment{{Property: xr.Prop(p, "age"), Value: x}},
		}
		want := xr.Insert{
			Entity:      testutil.People(),
			Alias:       p1,
			Assignments: []xr.Assignment{{Property: xr.Prop(p1, "age"), Value: xr.Prop(p, "age")}},
		}

		assertXR(t, want, mustReduce(t, tree, NewSubstitutions(Sub(x, xr.Prop(p, "age")))))
	})
}

// lowered is a custom query that lowers to a fixed tree.
type lowered struct {
	q xr.Query
}

func (l lowered) ToQueryXR() xr.Query     { return l.q }
func (l lowered) CustomType() xrtype.Type { return l.q.XRType() }
func (l lowered) Children() []xr.XR       { return []xr.XR{l.q} }
func (l lowered) WithChildren(f func(xr.XR) xr.XR) xr.CustomQuery {
	return lowered{q: f(l.q).(xr.Query)}
}

func TestReduce_CustomQueryLowers(t *testing.T) {
	people := testutil.People()
	tree := xr.CustomQueryRef{Custom: lowered{q: xr.ExprToQuery{Head: xr.QueryToExpr{Head: people}}}}

	assertXR(t, people, mustReduce(t, tree, Substitutions{}))
}

func TestReduce_TypeCorrection(t *testing.T) {
	x := testutil.ValueID("x")

	t.Run("bottom replacement takes the slot type", func(t *testing.T) {
		h := xr.Id("h", xrtype.Unknown{})
		out := mustReduce(t, xr.Not(x), NewSubstitutions(Sub(x, h)))
		assertXR(t, xr.Not(xr.Id("h", xrtype.Value{})), out)
	})

	t.Run("concrete replacement is widened to the meet", func(t *testing.T) {
		c := testutil.BoolID("c")
		out := mustReduce(t, xr.Not(x), NewSubstitutions(Sub(x, c)))
		assertXR(t, xr.Not(xr.Id("c", xrtype.Value{})), out)
	})

	t.Run("replace with reduction keeps the replacement type", func(t *testing.T) {
		c := testutil.BoolID("c")
		out := mustReduce(t, xr.Not(x), NewSubstitutions(Sub(x, c)), WithTypeBehavior(ReplaceWithReduction))
		assertXR(t, xr.Not(c), out)
	})

	t.Run("speculative meet failure logs and falls back to Unknown", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))

		p := testutil.PersonID("p")
		v := testutil.ValueID("v")
		out := mustReduce(t, xr.Apply(xr.Fn(p, p), v), Substitutions{}, WithLogger(logger))

		assertXR(t, xr.Id("v", xrtype.Unknown{}), out)
		assert.Contains(t, buf.String(), "no meet")
		assert.Contains(t, buf.String(), "level=WARN")
	})
}

func TestReduce_Errors(t *testing.T) {
	p := testutil.PersonID("p")
	a := testutil.AddressID("a")

	t.Run("type mismatch", func(t *testing.T) {
		_, err := Reduce(xr.Prop(p, "name"), NewSubstitutions(Sub(p, xr.Int(1))))
		require.Error(t, err)
		assert.True(t, IsTypeMismatch(err))

		var rerr *ReductionError
		require.ErrorAs(t, err, &rerr)
		assertXR(t, p, rerr.Original)
		assertXR(t, xr.Int(1), rerr.Replacement)
	})

	t.Run("empty product", func(t *testing.T) {
		_, err := Reduce(xr.Prop(p, "name"), NewSubstitutions(Sub(p, a)))
		require.Error(t, err)
		assert.True(t, IsEmptyProduct(err))
	})

	t.Run("empty product ignored", func(t *testing.T) {
		out, err := Reduce(xr.Prop(p, "name"), NewSubstitutions(Sub(p, a)),
			WithEmptyProductBehavior(EmptyProductIgnore))
		require.NoError(t, err)
		assertXR(t, xr.Prop(xr.Id("a", xrtype.NewProduct("Address")), "name"), out)
	})

	t.Run("field not found", func(t *testing.T) {
		_, err := Reduce(xr.Prop(xr.Record("R", xr.PF("a", xr.Int(1))), "zzz"), Substitutions{})
		require.Error(t, err)
		assert.True(t, IsFieldNotFound(err))
		assert.Contains(t, err.Error(), "zzz")
	})

	t.Run("iteration bound", func(t *testing.T) {
		tree := xr.Binary(xr.Int(1), xr.OpPlus, xr.Int(1))
		_, err := Reduce(tree, Substitutions{}, WithMaxIterations(1))
		require.Error(t, err)
		assert.True(t, IsNotConverged(err))
	})

	t.Run("divergent application", func(t *testing.T) {
		f := xr.Id("f", nil)
		omega := xr.Fn(xr.Apply(f, f), f)
		_, err := Reduce(xr.Apply(omega, omega), Substitutions{})
		require.Error(t, err)
		assert.True(t, IsNotConverged(err))
	})
}

func TestSubstitutions(t *testing.T) {
	x, y := testutil.ValueID("x"), testutil.ValueID("y")

	s := NewSubstitutions(Sub(x, xr.Int(1)), Sub(y, xr.Int(2)), Sub(x, xr.Int(3)))
	require.Equal(t, 2, s.Len())

	got, ok := s.Lookup(x)
	require.True(t, ok)
	assertXR(t, xr.Int(3), got)

	// Keys match on name and type.
	_, ok = s.Lookup(xr.Id("x", xrtype.BooleanValue{}))
	assert.False(t, ok)

	// Relaxed keys match any type.
	relaxed := NewSubstitutions(ByName(x, xr.Int(4)))
	got, ok = relaxed.Lookup(xr.Id("x", xrtype.BooleanValue{}))
	require.True(t, ok)
	assertXR(t, xr.Int(4), got)

	assert.Equal(t, 1, s.Without(x).Len())
	assert.Equal(t, 1, s.Shadow("y").Len())
	assert.Equal(t, 2, s.Len(), "updates never modify the receiver")
}
