package xr

import "github.com/roach88/xrq/internal/xrtype"

// XR is any node of the tree.
type XR interface {
	xrNode() // Marker method - provided by the embedded Location

	// XRType returns the type of the node, derived from children where the
	// node has no type slot of its own.
	XRType() xrtype.Type

	// Source returns the node's source location.
	Source() Location
}

// QueryOrExpression is any node that is either a Query or an Expression.
// Use AsExpr and AsQuery to move between the two positions.
type QueryOrExpression interface {
	XR
	queryOrExprNode()
}

// Expression is a scalar-valued node.
type Expression interface {
	QueryOrExpression
	exprNode()
}

// Query is a relation-valued node.
type Query interface {
	QueryOrExpression
	queryNode()
}

// Action is a data-modifying node.
type Action interface {
	XR
	actionNode()
}

// Const is a literal expression.
type Const interface {
	Expression
	constNode()
}

// HasHead is the family of single-source combinators (Filter, Map,
// ConcatMap, FlatMap) that share a head query.
type HasHead interface {
	Query
	HeadQuery() Query
	ReplaceHead(head Query) HasHead
}

// CustomQuery is an escape hatch for higher level constructs (such as the
// select-clause builder) that are not part of the canonical tree. A custom
// query must be convertible to canonical form.
type CustomQuery interface {
	// ToQueryXR lowers the construct into canonical XR.
	ToQueryXR() Query

	// CustomType is the type of the query the construct produces.
	CustomType() xrtype.Type

	// Children lists the construct's XR sub-trees in traversal order.
	Children() []XR

	// WithChildren rebuilds the construct with f applied to every child,
	// left to right, in the same order as Children.
	WithChildren(f func(XR) XR) CustomQuery
}
