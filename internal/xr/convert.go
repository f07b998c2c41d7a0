package xr

import "github.com/roach88/xrq/internal/xrtype"

// Unused is the placeholder identifier bound by flat statements that
// introduce no variable (FlatFilter, FlatGroupBy, FlatSortBy).
var Unused = Ident{Name: "unused", Type: xrtype.Unknown{}}

// AsExpr puts x in expression position: queries are wrapped in QueryToExpr,
// expressions are returned unchanged. Free is already an expression.
func AsExpr(x QueryOrExpression) Expression {
	switch v := x.(type) {
	case Expression:
		return v
	case Query:
		return QueryToExpr{Location: v.Source(), Head: v}
	default:
		return nil
	}
}

// AsQuery puts x in query position: expressions are wrapped in ExprToQuery,
// queries are returned unchanged. Free is already a query.
func AsQuery(x QueryOrExpression) Query {
	switch v := x.(type) {
	case Query:
		return v
	case Expression:
		return ExprToQuery{Location: v.Source(), Head: v}
	default:
		return nil
	}
}

// IsTerminal reports whether x is a leaf: an identifier, a constant, a table
// or a placeholder.
func IsTerminal(x XR) bool {
	switch x.(type) {
	case Ident, Const, Entity, TagForParam, TagForSqlExpression, TagForSqlQuery,
		TagForSqlAction, PlaceholderParam:
		return true
	default:
		return false
	}
}

// Retype returns x with its type slot set to t. Only terminals that carry a
// type slot can be retyped; the second result is false otherwise.
// An Entity only accepts a Product.
func Retype(x XR, t xrtype.Type) (XR, bool) {
	switch v := x.(type) {
	case Ident:
		v.Type = t
		return v, true
	case TagForParam:
		v.Type = t
		return v, true
	case TagForSqlExpression:
		v.Type = t
		return v, true
	case TagForSqlQuery:
		v.Type = t
		return v, true
	case TagForSqlAction:
		v.Type = t
		return v, true
	case PlaceholderParam:
		v.Type = t
		return v, true
	case Entity:
		p, ok := t.(xrtype.Product)
		if !ok {
			return x, false
		}
		v.Type = p
		return v, true
	default:
		return x, false
	}
}

// WithLocation returns x with its location replaced. It is used by decoders
// and by rewrites that want to keep the position of the node they replace.
func WithLocation(x XR, loc Location) XR {
	return setLocation(x, loc)
}
