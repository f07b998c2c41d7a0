package xr

import "github.com/roach88/xrq/internal/xrtype"

// Constructors for the nodes tests and rewrites build most often.

// Id builds an identifier.
func Id(name string, t xrtype.Type) Ident {
	return Ident{Name: name, Type: t}
}

// Bool builds a boolean constant.
func Bool(b bool) ConstBool { return ConstBool{Value: b} }

// Int builds a 32-bit integer constant.
func Int(i int32) ConstInt { return ConstInt{Value: i} }

// Long builds a 64-bit integer constant.
func Long(i int64) ConstLong { return ConstLong{Value: i} }

// Str builds a string constant.
func Str(s string) ConstString { return ConstString{Value: s} }

// Null builds the null constant.
func Null() ConstNull { return ConstNull{} }

// Prop builds a property access.
func Prop(of Expression, name string) Property {
	return Property{Of: of, Name: name}
}

// Binary builds a binary operation.
func Binary(a Expression, op BinaryOperator, b Expression) BinaryOp {
	return BinaryOp{A: a, Op: op, B: b}
}

// Eq builds a == b.
func Eq(a, b Expression) BinaryOp { return Binary(a, OpEq, b) }

// NotEq builds a != b.
func NotEq(a, b Expression) BinaryOp { return Binary(a, OpNotEq, b) }

// And builds a && b.
func And(a, b Expression) BinaryOp { return Binary(a, OpAnd, b) }

// Or builds a || b.
func Or(a, b Expression) BinaryOp { return Binary(a, OpOr, b) }

// Not builds !e.
func Not(e Expression) UnaryOp { return UnaryOp{Op: OpNot, Expr: e} }

// IsNull builds x == null.
func IsNull(x Expression) BinaryOp { return Eq(x, Null()) }

// IsNotNull builds x != null.
func IsNotNull(x Expression) BinaryOp { return NotEq(x, Null()) }

// IfThenElse builds a single-branch When.
func IfThenElse(cond, then, orElse Expression) When {
	return When{Branches: []Branch{{Cond: cond, Then: then}}, OrElse: orElse}
}

// Fn builds a lambda.
func Fn(body QueryOrExpression, params ...Ident) FunctionN {
	return FunctionN{Params: params, Body: body}
}

// Apply builds a function application.
func Apply(f QueryOrExpression, args ...QueryOrExpression) FunctionApply {
	return FunctionApply{Function: f, Args: args}
}

// Let builds a let-binding.
func Let(name Ident, rhs Expression) Variable {
	return Variable{Name: name, RHS: rhs}
}

// Record builds a Product construction from name/value pairs.
func Record(name string, fields ...ProductField) Product {
	return Product{Name: name, Fields: fields}
}

// PF is shorthand for a ProductField.
func PF(name string, value Expression) ProductField {
	return ProductField{Name: name, Value: value}
}

// Field returns the value bound to name in a Product construction.
func (p Product) Field(name string) (Expression, bool) {
	for _, f := range p.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Pattern helpers. Each returns the matched components and whether the
// shape matched.

// IsTrue reports whether e is the literal true.
func IsTrue(e XR) bool {
	c, ok := e.(ConstBool)
	return ok && c.Value
}

// IsFalse reports whether e is the literal false.
func IsFalse(e XR) bool {
	c, ok := e.(ConstBool)
	return ok && !c.Value
}

// IsNullConst reports whether e is the null literal.
func IsNullConst(e XR) bool {
	_, ok := e.(ConstNull)
	return ok
}

// MatchIf matches a single-branch When with an else arm.
func MatchIf(e XR) (cond, then, orElse Expression, ok bool) {
	w, isWhen := e.(When)
	if !isWhen || len(w.Branches) != 1 || w.OrElse == nil {
		return nil, nil, nil, false
	}
	return w.Branches[0].Cond, w.Branches[0].Then, w.OrElse, true
}

// OneSideIs matches a binary operation with operator op where one side
// satisfies pred, returning the other side.
func OneSideIs(e XR, op BinaryOperator, pred func(XR) bool) (Expression, bool) {
	b, ok := e.(BinaryOp)
	if !ok || b.Op != op {
		return nil, false
	}
	if pred(b.A) {
		return b.B, true
	}
	if pred(b.B) {
		return b.A, true
	}
	return nil, false
}

// MatchIsNull matches x == null (or null == x) and returns x.
func MatchIsNull(e XR) (Expression, bool) {
	return OneSideIs(e, OpEq, IsNullConst)
}

// MatchWrappedQuery matches ExprToQuery(QueryToExpr(q)) and returns q.
func MatchWrappedQuery(q XR) (Query, bool) {
	outer, ok := q.(ExprToQuery)
	if !ok {
		return nil, false
	}
	inner, ok := outer.Head.(QueryToExpr)
	if !ok {
		return nil, false
	}
	return inner.Head, true
}

// MatchWrappedExpr matches QueryToExpr(ExprToQuery(e)) and returns e.
func MatchWrappedExpr(e XR) (Expression, bool) {
	outer, ok := e.(QueryToExpr)
	if !ok {
		return nil, false
	}
	inner, ok := outer.Head.(ExprToQuery)
	if !ok {
		return nil, false
	}
	return inner.Head, true
}

// Unwrap strips a single ExprToQuery or QueryToExpr wrapper.
func Unwrap(x QueryOrExpression) (QueryOrExpression, bool) {
	switch v := x.(type) {
	case ExprToQuery:
		return v.Head, true
	case QueryToExpr:
		return v.Head, true
	default:
		return x, false
	}
}
