package xr

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/xrq/internal/xrtype"
)

func TestEqualIgnoresLocation(t *testing.T) {
	a := Ident{Location: Location{File: "a.cue", Line: 1, Column: 2}, Name: "x", Type: xrtype.Value{}}
	b := Ident{Location: Location{File: "b.cue", Line: 9, Column: 9}, Name: "x", Type: xrtype.Value{}}
	assert.True(t, Equal(a, b))

	nested := Eq(a, Int(1))
	other := Eq(b, Int(1))
	assert.True(t, Equal(nested, other))
}

func TestEqualIdentComparesType(t *testing.T) {
	assert.False(t, Equal(Id("x", xrtype.Value{}), Id("x", xrtype.BooleanValue{})))
	assert.False(t, Equal(Id("x", xrtype.Value{}), Id("y", xrtype.Value{})))
}

func TestEqualDistinguishesNodeKinds(t *testing.T) {
	assert.False(t, Equal(Int(1), Long(1)))
	assert.False(t, Equal(ExprToQuery{Head: Int(1)}, Nested{Head: ExprToQuery{Head: Int(1)}}))
}

func TestEqualNilAndEmptySlices(t *testing.T) {
	a := Block{Stmts: nil, Output: Int(1)}
	b := Block{Stmts: []Variable{}, Output: Int(1)}
	assert.True(t, Equal(a, b))
}

func TestEqualNil(t *testing.T) {
	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(nil, Int(1)))
	assert.False(t, Equal(When{Branches: nil, OrElse: nil}, When{OrElse: Int(1)}))
}

func TestEqualAll(t *testing.T) {
	assert.True(t, EqualAll([]Expression{Int(1), Str("a")}, []Expression{Int(1), Str("a")}))
	assert.False(t, EqualAll([]Expression{Int(1)}, []Expression{Int(1), Int(2)}))
}

func TestWithLocation(t *testing.T) {
	loc := Location{File: "q.cue", Line: 3, Column: 4}
	x := WithLocation(Id("x", xrtype.Value{}), loc)
	assert.Equal(t, loc, x.Source())
	assert.Equal(t, "q.cue:3:4", x.Source().Position())
	assert.True(t, Synthetic.IsSynthetic())
	assert.Equal(t, "<synthetic>", Synthetic.Position())
}
