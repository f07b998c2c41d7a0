package xr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/xrq/internal/xrtype"
)

func TestAsExprAsQuery(t *testing.T) {
	q := Entity{Name: "t", Type: xrtype.NewProduct("T")}
	e := AsExpr(q)
	assert.Equal(t, QueryToExpr{Head: q}, e)
	assert.Equal(t, q, AsQuery(q))

	i := Int(1)
	assert.Equal(t, i, AsExpr(i))
	assert.Equal(t, ExprToQuery{Head: i}, AsQuery(i))

	free := Free{Parts: []string{"now()"}}
	assert.Equal(t, free, AsExpr(free))
	assert.Equal(t, free, AsQuery(free))
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(Id("x", nil)))
	assert.True(t, IsTerminal(Int(1)))
	assert.True(t, IsTerminal(Entity{Name: "t"}))
	assert.True(t, IsTerminal(TagForParam{ID: "a"}))
	assert.False(t, IsTerminal(Prop(Id("x", nil), "a")))
	assert.False(t, IsTerminal(ExprToQuery{Head: Int(1)}))
}

func TestRetype(t *testing.T) {
	x, ok := Retype(Id("x", xrtype.Unknown{}), xrtype.Value{})
	require.True(t, ok)
	assert.Equal(t, xrtype.Value{}, x.XRType())

	_, ok = Retype(Int(1), xrtype.Value{})
	assert.False(t, ok, "constants have no type slot")

	_, ok = Retype(Entity{Name: "t"}, xrtype.Value{})
	assert.False(t, ok, "tables only take product types")

	e, ok := Retype(Entity{Name: "t"}, xrtype.NewProduct("T"))
	require.True(t, ok)
	assert.Equal(t, xrtype.NewProduct("T"), e.XRType())
}

func TestPatterns(t *testing.T) {
	x := Id("x", xrtype.Value{})

	got, ok := MatchIsNull(IsNull(x))
	require.True(t, ok)
	assert.Equal(t, x, got)

	got, ok = MatchIsNull(Eq(Null(), x))
	require.True(t, ok)
	assert.Equal(t, x, got)

	_, ok = MatchIsNull(IsNotNull(x))
	assert.False(t, ok)

	cond, then, orElse, ok := MatchIf(IfThenElse(Bool(true), Int(1), Int(2)))
	require.True(t, ok)
	assert.Equal(t, Bool(true), cond)
	assert.Equal(t, Int(1), then)
	assert.Equal(t, Int(2), orElse)

	_, _, _, ok = MatchIf(When{Branches: []Branch{{Cond: Bool(true), Then: Int(1)}, {Cond: Bool(false), Then: Int(2)}}, OrElse: Int(3)})
	assert.False(t, ok)

	assert.True(t, IsTrue(Bool(true)))
	assert.False(t, IsTrue(Bool(false)))
	assert.True(t, IsFalse(Bool(false)))
	assert.False(t, IsFalse(Int(0)))

	other, ok := OneSideIs(And(x, Bool(true)), OpAnd, IsTrue)
	require.True(t, ok)
	assert.Equal(t, x, other)
}

func TestWrapperPatterns(t *testing.T) {
	q := Entity{Name: "t"}
	got, ok := MatchWrappedQuery(ExprToQuery{Head: QueryToExpr{Head: q}})
	require.True(t, ok)
	assert.Equal(t, q, got)

	e := Int(7)
	ge, ok := MatchWrappedExpr(QueryToExpr{Head: ExprToQuery{Head: e}})
	require.True(t, ok)
	assert.Equal(t, e, ge)

	inner, ok := Unwrap(QueryToExpr{Head: q})
	require.True(t, ok)
	assert.Equal(t, q, inner)
}

func TestDerivedTypes(t *testing.T) {
	person := xrtype.NewProduct("Person", xrtype.F("name", xrtype.Value{}), xrtype.F("active", xrtype.BooleanValue{}))
	p := Id("p", person)

	assert.Equal(t, xrtype.BooleanValue{}, Prop(p, "active").XRType())
	assert.Equal(t, xrtype.Unknown{}, Prop(p, "missing").XRType())
	assert.Equal(t, xrtype.BooleanExpression{}, Eq(p, p).XRType())
	assert.Equal(t, xrtype.Value{}, Binary(Int(1), OpPlus, Int(2)).XRType())
	assert.Equal(t, xrtype.Null{}, Null().XRType())
	assert.Equal(t, xrtype.Unknown{}, Id("u", nil).XRType())
	assert.Equal(t,
		xrtype.NewProduct("R", xrtype.F("a", xrtype.Value{})),
		Record("R", PF("a", Int(1))).XRType())
	assert.Equal(t, xrtype.BooleanValue{}, Block{Output: Bool(true)}.XRType())
}

func TestFormat(t *testing.T) {
	p := Id("p", xrtype.Value{})
	q := Map{
		Head: Filter{Head: Entity{Name: "person"}, ID: p, Body: Eq(Prop(p, "age"), Int(42))},
		ID:   p,
		Body: Prop(p, "name"),
	}
	assert.Equal(t, "Table(person).filter { p -> (p.age == 42) }.map { p -> p.name }", Format(q))
	assert.Equal(t, `{ val x = 1; (x + "a") }`, Format(Block{
		Stmts:  []Variable{Let(Id("x", nil), Int(1))},
		Output: Binary(Id("x", nil), OpPlus, Str("a")),
	}))
	assert.Equal(t, "<nil>", Format(nil))
}

func TestRegistry(t *testing.T) {
	names := KindNames()
	assert.Contains(t, names, "Ident")
	assert.Contains(t, names, "Product")
	assert.Contains(t, names, "Unknown")
}
