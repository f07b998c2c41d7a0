package xrtype

import (
	"fmt"
	"strings"
)

// Type is a sealed interface implemented by every member of the lattice.
type Type interface {
	xrType() // Sealed

	// String renders the type for diagnostics.
	String() string
}

// Value is a plain scalar (numbers, strings, dates, ...).
type Value struct{}

// BooleanValue is a boolean that may be selected as a column.
type BooleanValue struct{}

// BooleanExpression is a boolean that is only valid as a predicate.
type BooleanExpression struct{}

// Null is the type of the null literal.
type Null struct{}

// Generic is the type of a value whose type is a free type parameter.
type Generic struct{}

// Unknown is used when no type information is available.
type Unknown struct{}

// Field is one named column of a Product.
type Field struct {
	Name string `json:"name"`
	Type Type   `json:"type"`
}

// Product is a record type (a table row, a tuple, a case class).
// Field order is significant: it is the column order.
type Product struct {
	Name   string  `json:"name"`
	Fields []Field `json:"fields"`
}

func (Value) xrType()             {}
func (BooleanValue) xrType()      {}
func (BooleanExpression) xrType() {}
func (Null) xrType()              {}
func (Generic) xrType()           {}
func (Unknown) xrType()           {}
func (Product) xrType()           {}

func (Value) String() string             { return "Value" }
func (BooleanValue) String() string      { return "BooleanValue" }
func (BooleanExpression) String() string { return "BooleanExpression" }
func (Null) String() string              { return "Null" }
func (Generic) String() string           { return "Generic" }
func (Unknown) String() string           { return "Unknown" }

func (p Product) String() string {
	parts := make([]string, len(p.Fields))
	for i, f := range p.Fields {
		parts[i] = fmt.Sprintf("%s:%s", f.Name, typeString(f.Type))
	}
	return fmt.Sprintf("%s(%s)", p.Name, strings.Join(parts, ", "))
}

// NewProduct builds a Product from alternating field names and types.
func NewProduct(name string, fields ...Field) Product {
	return Product{Name: name, Fields: fields}
}

// F is shorthand for a Field.
func F(name string, t Type) Field {
	return Field{Name: name, Type: t}
}

// Field returns the type of the named field.
func (p Product) Field(name string) (Type, bool) {
	for _, f := range p.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return nil, false
}

// FieldNames returns the field names in column order.
func (p Product) FieldNames() []string {
	names := make([]string, len(p.Fields))
	for i, f := range p.Fields {
		names[i] = f.Name
	}
	return names
}

// IsBottom reports whether t is one of the bottom sentinels (Generic,
// Unknown, Null). A nil type counts as Unknown.
func IsBottom(t Type) bool {
	switch t.(type) {
	case nil, Generic, Unknown, Null:
		return true
	default:
		return false
	}
}

// IsBoolean reports whether t is BooleanValue or BooleanExpression.
func IsBoolean(t Type) bool {
	switch t.(type) {
	case BooleanValue, BooleanExpression:
		return true
	default:
		return false
	}
}

// IsProduct reports whether t is a Product.
func IsProduct(t Type) bool {
	_, ok := t.(Product)
	return ok
}

// IsEmptyProduct reports whether t is a Product with no fields.
func IsEmptyProduct(t Type) bool {
	p, ok := t.(Product)
	return ok && len(p.Fields) == 0
}

// OrUnknown replaces a nil type with Unknown.
func OrUnknown(t Type) Type {
	if t == nil {
		return Unknown{}
	}
	return t
}

// Equal compares two types structurally. Product fields are compared in order.
func Equal(a, b Type) bool {
	a, b = OrUnknown(a), OrUnknown(b)
	pa, aok := a.(Product)
	pb, bok := b.(Product)
	if aok != bok {
		return false
	}
	if !aok {
		return a == b
	}
	if pa.Name != pb.Name || len(pa.Fields) != len(pb.Fields) {
		return false
	}
	for i := range pa.Fields {
		if pa.Fields[i].Name != pb.Fields[i].Name || !Equal(pa.Fields[i].Type, pb.Fields[i].Type) {
			return false
		}
	}
	return true
}

func typeString(t Type) string {
	return OrUnknown(t).String()
}
