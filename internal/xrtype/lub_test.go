package xrtype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var person = NewProduct("Person",
	F("name", Value{}),
	F("age", Value{}),
	F("active", BooleanValue{}),
)

func TestLeastUpperType_Bottoms(t *testing.T) {
	all := []Type{Value{}, BooleanValue{}, BooleanExpression{}, Null{}, Generic{}, Unknown{}, person}

	for _, other := range all {
		got, ok := LeastUpperType(Generic{}, other)
		require.True(t, ok, "Generic ⊔ %s", other)
		assert.True(t, Equal(other, got), "Generic ⊔ %s = %s", other, got)
	}

	got, ok := LeastUpperType(Null{}, Value{})
	require.True(t, ok)
	assert.Equal(t, Value{}, got)

	got, ok = LeastUpperType(Unknown{}, Null{})
	require.True(t, ok)
	assert.Equal(t, Null{}, got)
}

func TestLeastUpperType_Scalars(t *testing.T) {
	testCases := []struct {
		name string
		a, b Type
		want Type
	}{
		{"value/value", Value{}, Value{}, Value{}},
		{"value/boolean value", Value{}, BooleanValue{}, Value{}},
		{"value/boolean expression", Value{}, BooleanExpression{}, Value{}},
		{"boolean value/boolean expression", BooleanValue{}, BooleanExpression{}, BooleanValue{}},
		{"boolean expression/boolean expression", BooleanExpression{}, BooleanExpression{}, BooleanExpression{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := LeastUpperType(tc.a, tc.b)
			require.True(t, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLeastUpperType_Commutative(t *testing.T) {
	all := []Type{
		Value{}, BooleanValue{}, BooleanExpression{}, Null{}, Generic{}, Unknown{}, person,
		NewProduct("Person", F("name", Value{}), F("age", Generic{}), F("active", BooleanExpression{})),
	}

	for _, a := range all {
		for _, b := range all {
			ab, okAB := LeastUpperType(a, b)
			ba, okBA := LeastUpperType(b, a)
			assert.Equal(t, okAB, okBA, "%s ⊔ %s defined on one side only", a, b)
			if okAB && okBA {
				assert.True(t, Equal(ab, ba), "%s ⊔ %s: %s != %s", a, b, ab, ba)
			}
		}
	}
}

func TestLeastUpperType_CommutativeAcrossFieldOrder(t *testing.T) {
	xy := NewProduct("R", F("x", Value{}), F("y", Value{}), F("z", Value{}))
	yx := NewProduct("R", F("y", BooleanValue{}), F("x", Value{}), F("w", Value{}))

	ab, ok := LeastUpperType(xy, yx)
	require.True(t, ok)
	ba, ok := LeastUpperType(yx, xy)
	require.True(t, ok)

	want := NewProduct("R", F("x", Value{}), F("y", Value{}))
	assert.True(t, Equal(want, ab), "got %s", ab)
	assert.True(t, Equal(ab, ba), "%s != %s", ab, ba)
}

func TestLeastUpperType_KeepsAgreedFieldOrder(t *testing.T) {
	a := NewProduct("R", F("b", Value{}), F("a", Value{}), F("c", Value{}))
	b := NewProduct("R", F("c", Value{}), F("b", Value{}), F("a", Value{}))

	// c comes last on one side and first on the other, so the meet falls
	// back to name order.
	got, ok := LeastUpperType(a, b)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b", "c"}, got.(Product).FieldNames())

	// Shared fields in the same relative order keep it.
	d := NewProduct("R", F("b", Value{}), F("x", Value{}), F("a", Value{}))
	got, ok = LeastUpperType(a, d)
	require.True(t, ok)
	assert.Equal(t, []string{"b", "a"}, got.(Product).FieldNames())
}

func TestLeastUpperType_ProductScalarIncompatible(t *testing.T) {
	_, ok := LeastUpperType(person, Value{})
	assert.False(t, ok)

	_, ok = LeastUpperType(BooleanExpression{}, person)
	assert.False(t, ok)
}

func TestLeastUpperType_ProductFieldWise(t *testing.T) {
	generic := NewProduct("Person", F("name", Generic{}), F("age", Value{}), F("nickname", Value{}))

	got, ok := LeastUpperType(person, generic)
	require.True(t, ok)

	want := NewProduct("Person", F("name", Value{}), F("age", Value{}))
	assert.True(t, Equal(want, got), "got %s", got)
}

func TestLeastUpperType_ProductDisjointIsEmpty(t *testing.T) {
	address := NewProduct("Address", F("street", Value{}), F("zip", Value{}))

	got, ok := LeastUpperType(person, address)
	require.True(t, ok)
	assert.True(t, IsEmptyProduct(got))
	assert.Equal(t, "Address", got.(Product).Name)
}

func TestLeastUpperType_NestedProductDropsIncompatibleField(t *testing.T) {
	a := NewProduct("Row", F("p", person), F("id", Value{}))
	b := NewProduct("Row", F("p", Value{}), F("id", Value{}))

	got, ok := LeastUpperType(a, b)
	require.True(t, ok)
	assert.True(t, Equal(NewProduct("Row", F("id", Value{})), got))
}

func TestProduct_Field(t *testing.T) {
	typ, ok := person.Field("age")
	require.True(t, ok)
	assert.Equal(t, Value{}, typ)

	_, ok = person.Field("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"name", "age", "active"}, person.FieldNames())
	assert.Equal(t, "Person(name:Value, age:Value, active:BooleanValue)", person.String())
}

func TestIsBottom(t *testing.T) {
	assert.True(t, IsBottom(nil))
	assert.True(t, IsBottom(Generic{}))
	assert.True(t, IsBottom(Unknown{}))
	assert.True(t, IsBottom(Null{}))
	assert.False(t, IsBottom(Value{}))
	assert.False(t, IsBottom(person))
}
