package xrtype

import (
	"slices"
	"strings"
)

// bottomRank orders the bottom sentinels so that the meet of two bottoms is
// commutative. Generic is the lowest: it meets anything to the other side.
func bottomRank(t Type) int {
	switch t.(type) {
	case Generic:
		return 0
	case nil, Unknown:
		return 1
	case Null:
		return 2
	default:
		return 3
	}
}

// LeastUpperType computes the least upper bound of two types.
//
// Rules:
//   - Generic, Unknown and Null are absorbed by the other side
//     (Generic < Unknown < Null when both sides are bottoms)
//   - Value meets any scalar to Value
//   - BooleanValue meets BooleanExpression to BooleanValue
//   - two Products meet field-wise on the fields they share; fields with no
//     meet are dropped, so the result can be an empty Product; shared
//     fields keep their order when both sides agree on it and are sorted by
//     name otherwise
//   - a Product never meets a scalar
//
// The second return value is false when no meet exists.
func LeastUpperType(a, b Type) (Type, bool) {
	a, b = OrUnknown(a), OrUnknown(b)

	if IsBottom(a) || IsBottom(b) {
		if bottomRank(a) >= bottomRank(b) {
			return a, true
		}
		return b, true
	}

	switch at := a.(type) {
	case Value:
		switch b.(type) {
		case Value, BooleanValue, BooleanExpression:
			return Value{}, true
		}
		return nil, false
	case BooleanValue:
		switch b.(type) {
		case Value:
			return Value{}, true
		case BooleanValue, BooleanExpression:
			return BooleanValue{}, true
		}
		return nil, false
	case BooleanExpression:
		switch b.(type) {
		case Value:
			return Value{}, true
		case BooleanValue:
			return BooleanValue{}, true
		case BooleanExpression:
			return BooleanExpression{}, true
		}
		return nil, false
	case Product:
		bt, ok := b.(Product)
		if !ok {
			return nil, false
		}
		return productMeet(at, bt), true
	}
	return nil, false
}

func productMeet(a, b Product) Product {
	name := a.Name
	if b.Name < name {
		name = b.Name
	}
	fields := make([]Field, 0, len(a.Fields))
	for _, fa := range a.Fields {
		tb, ok := b.Field(fa.Name)
		if !ok {
			continue
		}
		t, ok := LeastUpperType(fa.Type, tb)
		if !ok {
			continue
		}
		fields = append(fields, Field{Name: fa.Name, Type: t})
	}
	if !sameOrder(fields, b.Fields) {
		slices.SortFunc(fields, func(x, y Field) int { return strings.Compare(x.Name, y.Name) })
	}
	return Product{Name: name, Fields: fields}
}

// sameOrder reports whether the fields appear in from in the same relative
// order. The meet keeps that order, or falls back to name order when the
// two sides disagree.
func sameOrder(fields, from []Field) bool {
	i := 0
	for _, f := range from {
		if i < len(fields) && f.Name == fields[i].Name {
			i++
		}
	}
	return i == len(fields)
}
