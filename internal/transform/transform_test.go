package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/xrq/internal/xr"
	"github.com/roach88/xrq/internal/xrtype"
)

var (
	person = xrtype.NewProduct("Person",
		xrtype.F("name", xrtype.Value{}),
		xrtype.F("age", xrtype.Value{}),
	)
	people = xr.Entity{Name: "person", Type: person}
	p      = xr.Id("p", person)
	q      = xr.Id("q", person)
)

// incrementInts adds one to every ConstInt and leaves everything else alone.
type incrementInts struct{}

func (t incrementInts) Expr(e xr.Expression) xr.Expression {
	if c, ok := e.(xr.ConstInt); ok {
		return xr.Int(c.Value + 1)
	}
	return DefaultExpr(t, e)
}

func (t incrementInts) Query(q xr.Query) xr.Query    { return DefaultQuery(t, q) }
func (t incrementInts) Action(a xr.Action) xr.Action { return DefaultAction(t, a) }

func TestStatelessDefaultRecursion(t *testing.T) {
	tree := xr.Filter{
		Head: xr.Take{Head: people, Num: xr.Int(10)},
		ID:   p,
		Body: xr.IfThenElse(xr.Bool(true), xr.Int(1), xr.Block{
			Stmts:  []xr.Variable{xr.Let(xr.Id("x", nil), xr.Int(2))},
			Output: xr.Int(3),
		}),
	}
	out := Invoke(incrementInts{}, tree)

	expected := xr.Filter{
		Head: xr.Take{Head: people, Num: xr.Int(11)},
		ID:   p,
		Body: xr.IfThenElse(xr.Bool(true), xr.Int(2), xr.Block{
			Stmts:  []xr.Variable{xr.Let(xr.Id("x", nil), xr.Int(3))},
			Output: xr.Int(4),
		}),
	}
	assert.True(t, xr.Equal(expected, out), "got %s", xr.Format(out))
}

func TestStatelessKeepsShape(t *testing.T) {
	tree := xr.Returning{
		Action: xr.Insert{
			Entity:      people,
			Alias:       p,
			Assignments: []xr.Assignment{{Property: xr.Prop(p, "age"), Value: xr.Int(1)}},
		},
		Alias:  p,
		Output: xr.Prop(p, "name"),
	}
	out := Invoke(Funcs{}, tree)
	assert.True(t, xr.Equal(tree, out))
}

func TestFuncsOverride(t *testing.T) {
	upper := Funcs{OnExpr: func(self Stateless, e xr.Expression) xr.Expression {
		if s, ok := e.(xr.ConstString); ok {
			return xr.Str(s.Value + "!")
		}
		return DefaultExpr(self, e)
	}}
	out := Invoke(upper, xr.Map{Head: people, ID: p, Body: xr.Binary(xr.Str("a"), xr.OpStrPlus, xr.Str("b"))})
	assert.Equal(t, `Table(person).map { p -> ("a!" ++ "b!") }`, xr.Format(out))
}

func TestRootRenamesEverywhere(t *testing.T) {
	it := xr.Id("it", person)
	rename := Root(func(x xr.XR, descend func(xr.XR) xr.XR) xr.XR {
		if id, ok := x.(xr.Ident); ok && id.Name == "it" {
			id.Name = "p"
			return id
		}
		return descend(x)
	})

	tree := xr.Map{
		Head: xr.Filter{Head: people, ID: it, Body: xr.Eq(xr.Prop(it, "age"), xr.Int(1))},
		ID:   it,
		Body: xr.Prop(it, "name"),
	}
	out := rename.Apply(tree)
	assert.Equal(t, "Table(person).filter { p -> (p.age == 1) }.map { p -> p.name }", xr.Format(out))

	// Root also satisfies Stateless.
	e := Invoke(rename, xr.Prop(it, "name"))
	assert.Equal(t, "p.name", xr.Format(e))
}

func TestChildrenCoercesPositions(t *testing.T) {
	// Replacing an expression child with a query wraps it in QueryToExpr.
	out := Children(xr.Prop(p, "name"), func(xr.XR) xr.XR { return people })
	assert.Equal(t, xr.Prop(xr.QueryToExpr{Head: people}, "name"), out)

	out = Children(xr.Nested{Head: people}, func(xr.XR) xr.XR { return xr.Int(1) })
	assert.Equal(t, xr.Nested{Head: xr.ExprToQuery{Head: xr.Int(1)}}, out)

	assert.Panics(t, func() {
		Children(xr.Map{Head: people, ID: p, Body: p}, func(x xr.XR) xr.XR {
			if _, ok := x.(xr.Ident); ok {
				return xr.Int(1)
			}
			return x
		})
	})
}

// counter numbers every identifier it sees, threading the next number.
type counter struct{}

func (c counter) Expr(e xr.Expression, n int) (xr.Expression, int) {
	if id, ok := e.(xr.Ident); ok {
		id.Name = id.Name + "_" + string(rune('0'+n))
		return id, n + 1
	}
	return DefaultStatefulExpr[int](c, e, n)
}

func (c counter) Query(q xr.Query, n int) (xr.Query, int) {
	return DefaultStatefulQuery[int](c, q, n)
}

func (c counter) Action(a xr.Action, n int) (xr.Action, int) {
	return DefaultStatefulAction[int](c, a, n)
}

func TestStatefulThreadsLeftToRight(t *testing.T) {
	a, b, c := xr.Id("a", nil), xr.Id("b", nil), xr.Id("c", nil)
	tree := xr.And(xr.Eq(a, b), xr.Not(c))
	out, n := InvokeStateful[int](counter{}, tree, 0)
	require.Equal(t, 3, n)
	assert.Equal(t, "((a_0 == b_1) && !c_2)", xr.Format(out))
}

func TestStatefulRoot(t *testing.T) {
	var seen []string
	root := StatefulRoot[[]string](func(x xr.XR, s []string, descend func(xr.XR, []string) (xr.XR, []string)) (xr.XR, []string) {
		if id, ok := x.(xr.Ident); ok {
			return x, append(s, id.Name)
		}
		return descend(x, s)
	})
	_, seen = root.Apply(xr.FunctionApply{
		Function: xr.Fn(xr.Id("x", nil), xr.Id("x", nil)),
		Args:     []xr.QueryOrExpression{xr.Id("y", nil)},
	}, seen)
	assert.Equal(t, []string{"x", "x", "y"}, seen)
}

func TestExistsStopsEarly(t *testing.T) {
	visited := 0
	tree := xr.And(xr.Bool(true), xr.Or(xr.Id("x", nil), xr.Id("y", nil)))
	found := Exists(tree, func(x xr.XR) bool {
		visited++
		return xr.IsTrue(x)
	})
	assert.True(t, found)
	assert.Equal(t, 2, visited, "the And node and its first child")

	assert.False(t, Exists(tree, func(x xr.XR) bool {
		_, ok := x.(xr.ConstInt)
		return ok
	}))
}

func TestCollect(t *testing.T) {
	tree := xr.Map{
		Head: xr.Filter{Head: people, ID: p, Body: xr.Eq(xr.Prop(p, "age"), xr.Int(1))},
		ID:   q,
		Body: xr.Record("R", xr.PF("a", xr.Int(2)), xr.PF("b", xr.Prop(q, "name"))),
	}
	ints := Collect[xr.ConstInt](tree)
	assert.Equal(t, []xr.ConstInt{xr.Int(1), xr.Int(2)}, ints)

	props := CollectWhere(tree, func(x xr.XR) bool {
		_, ok := x.(xr.Property)
		return ok
	})
	assert.Len(t, props, 2)
	assert.Equal(t, 13, Count(tree))
}

func TestFreeIdents(t *testing.T) {
	x := xr.Id("x", xrtype.Value{})
	y := xr.Id("y", xrtype.Value{})

	tests := []struct {
		name     string
		tree     xr.XR
		expected []string
	}{
		{"bare ident", x, []string{"x"}},
		{"filter binds its id", xr.Filter{Head: people, ID: p, Body: xr.Eq(xr.Prop(p, "age"), x)}, []string{"x"}},
		{"head is outside the scope", xr.Map{Head: xr.ExprToQuery{Head: p}, ID: p, Body: p}, []string{"p"}},
		{"lambda params", xr.Fn(xr.Binary(x, xr.OpPlus, y), x), []string{"y"}},
		{"block is sequential", xr.Block{
			Stmts:  []xr.Variable{xr.Let(x, y), xr.Let(y, x)},
			Output: xr.Binary(x, xr.OpPlus, y),
		}, []string{"y"}},
		{"duplicates once", xr.And(x, x), []string{"x"}},
		{"returning binds alias", xr.Returning{
			Action: xr.Delete{Entity: people, Alias: q},
			Alias:  p,
			Output: xr.Binary(xr.Prop(p, "age"), xr.OpPlus, y),
		}, []string{"y"}},
		{"sort criteria see the id", xr.SortBy{
			Head:     people,
			ID:       p,
			Criteria: []xr.OrderField{{Field: xr.Prop(p, "age"), Ordering: xr.Asc}, {Field: y, Ordering: xr.Desc}},
		}, []string{"y"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var names []string
			for _, id := range FreeIdents(tt.tree) {
				names = append(names, id.Name)
			}
			assert.Equal(t, tt.expected, names)
		})
	}

	assert.True(t, IsFree(xr.Prop(p, "age"), "p"))
	assert.False(t, IsFree(xr.Filter{Head: people, ID: p, Body: p}, "p"))
}
