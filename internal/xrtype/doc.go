// Package xrtype defines the small closed type lattice carried by every XR node.
//
// The lattice has three kinds of members:
//
//	Bottom:   Generic, Unknown, Null   (absorbed by any other type)
//	Scalar:   Value, BooleanValue, BooleanExpression
//	Record:   Product{Name, Fields}
//
// LeastUpperType computes the meet used by beta-reduction to validate that a
// substitution keeps the tree well typed. An absent meet means the two sides
// are incompatible.
//
// Type is a sealed interface; only types in this package implement it, so
// consumers can switch exhaustively:
//
//	switch t := typ.(type) {
//	case xrtype.Product:
//	    // record
//	case xrtype.Value, xrtype.BooleanValue, xrtype.BooleanExpression:
//	    // scalar
//	default:
//	    // bottom
//	}
package xrtype
