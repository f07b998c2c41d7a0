package xrcue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/xrq/internal/beta"
	"github.com/roach88/xrq/internal/testutil"
	"github.com/roach88/xrq/internal/xr"
	"github.com/roach88/xrq/internal/xrtype"
)

const adultsSrc = `
#Person: {kind: "Product", name: "Person", fields: [{name: "name", type: {kind: "Value"}}, {name: "age", type: {kind: "Value"}}]}
_p: {kind: "Ident", name: "p", type: #Person}

tree: {
	kind: "Filter"
	head: {kind: "Entity", name: "person", type: #Person}
	id:   _p
	body: {
		kind: "BinaryOp"
		a: {kind: "Property", of: _p, name: "age"}
		op: ">"
		b: {kind: "ConstInt", value: 18}
	}
}
`

func TestDecodeDocument(t *testing.T) {
	v, err := Compile([]byte(adultsSrc), "adults.cue")
	require.NoError(t, err)

	doc, err := DecodeDocument(v)
	require.NoError(t, err)

	want := testutil.AdultsOf(testutil.People(), testutil.PersonID("p"))
	assert.True(t, xr.Equal(want, doc.Tree), "got %s", xr.Format(doc.Tree))
	assert.Equal(t, 0, doc.Substitutions.Len())
}

func TestDecode_AttachesPositions(t *testing.T) {
	v, err := Compile([]byte(adultsSrc), "adults.cue")
	require.NoError(t, err)

	doc, err := DecodeDocument(v)
	require.NoError(t, err)

	f, ok := doc.Tree.(xr.Filter)
	require.True(t, ok)
	assert.Equal(t, "adults.cue", f.Location.File)
	assert.Equal(t, 5, f.Location.Line)

	body, ok := f.Body.(xr.BinaryOp)
	require.True(t, ok)
	assert.Equal(t, 9, body.Location.Line)
	assert.False(t, body.Location.IsSynthetic())
}

func TestDecode_JSONIsCUE(t *testing.T) {
	src := `{"kind":"BinaryOp","a":{"kind":"Ident","name":"x","type":{"kind":"Value"}},"op":"+","b":{"kind":"ConstLong","value":2}}`
	v, err := Compile([]byte(src), "x.json")
	require.NoError(t, err)

	got, err := Decode(v)
	require.NoError(t, err)
	assert.True(t, xr.Equal(xr.Binary(testutil.ValueID("x"), xr.OpPlus, xr.Long(2)), got))
}

func TestDecode_RoundTripsCanonicalJSON(t *testing.T) {
	tree := testutil.NamesOf(
		testutil.AdultsOf(testutil.People(), testutil.PersonID("p")),
		testutil.PersonID("q"),
	)
	data, err := xr.MarshalCanonical(tree)
	require.NoError(t, err)

	v, err := Compile(data, "names.json")
	require.NoError(t, err)
	got, err := Decode(v)
	require.NoError(t, err)
	assert.True(t, xr.Equal(tree, got))
}

func TestDecodeSubstitutions(t *testing.T) {
	src := `
_x: {kind: "Ident", name: "x", type: {kind: "Value"}}
tree: {kind: "BinaryOp", a: _x, op: "+", b: {kind: "Ident", name: "y", type: {kind: "Value"}}}
substitutions: [
	{from: _x, to: {kind: "ConstInt", value: 1}},
	{from: {kind: "Ident", name: "y"}, to: {kind: "ConstInt", value: 2}, by_name: true},
]
`
	v, err := Compile([]byte(src), "subst.cue")
	require.NoError(t, err)

	doc, err := DecodeDocument(v)
	require.NoError(t, err)
	require.Equal(t, 2, doc.Substitutions.Len())

	got, err := beta.Reduce(doc.Tree, doc.Substitutions)
	require.NoError(t, err)
	assert.True(t, xr.Equal(xr.Binary(xr.Int(1), xr.OpPlus, xr.Int(2)), got), "got %s", xr.Format(got))
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "missing kind",
			src:  `tree: {name: "x"}`,
			want: "missing kind",
		},
		{
			name: "unknown kind",
			src:  `tree: {kind: "Nope"}`,
			want: `kind "Nope"`,
		},
		{
			name: "action in expression slot",
			src: `tree: {kind: "Property", name: "a", of: {kind: "Delete",
				entity: {kind: "Entity", name: "t", type: {kind: "Product", name: "T", fields: []}},
				alias: {kind: "Ident", name: "t"}}}`,
			want: `kind "Delete"`,
		},
		{
			name: "int overflow",
			src:  `tree: {kind: "ConstByte", value: 1000}`,
			want: "overflows",
		},
		{
			name: "by_name needs ident",
			src: `tree: {kind: "ConstInt", value: 1}
substitutions: [{from: {kind: "ConstInt", value: 1}, to: {kind: "ConstInt", value: 2}, by_name: true}]`,
			want: "by_name substitution needs an Ident",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Compile([]byte(tt.src), "bad.cue")
			require.NoError(t, err)
			_, err = DecodeDocument(v)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDecodeError_Position(t *testing.T) {
	v, err := Compile([]byte("tree: {\n\tkind: \"Nope\"\n}\n"), "q.cue")
	require.NoError(t, err)

	_, err = DecodeDocument(v)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "tree", de.Path)
	assert.Contains(t, de.Error(), "q.cue:1:")
}

func TestCompile_SyntaxError(t *testing.T) {
	_, err := Compile([]byte("tree: {kind: "), "broken.cue")
	require.Error(t, err)

	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Contains(t, de.Error(), "broken.cue")
}

func TestDecodeInto_Type(t *testing.T) {
	v, err := Compile([]byte(`{kind: "Product", name: "P", fields: [{name: "a", type: {kind: "BooleanValue"}}]}`), "t.cue")
	require.NoError(t, err)

	var typ xrtype.Type
	require.NoError(t, DecodeInto(v, &typ))
	assert.True(t, xrtype.Equal(xrtype.NewProduct("P", xrtype.F("a", xrtype.BooleanValue{})), typ))
}
