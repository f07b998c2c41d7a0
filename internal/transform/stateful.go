package transform

import "github.com/roach88/xrq/internal/xr"

// Stateful rewrites a tree while threading a state value. Implementations
// handle the kinds they care about and call the DefaultStateful* functions
// for the rest.
type Stateful[S any] interface {
	Expr(e xr.Expression, s S) (xr.Expression, S)
	Query(q xr.Query, s S) (xr.Query, S)
	Action(a xr.Action, s S) (xr.Action, S)
}

// InvokeStateful dispatches x to the matching method of t.
func InvokeStateful[S any](t Stateful[S], x xr.XR, s S) (xr.XR, S) {
	switch v := x.(type) {
	case nil:
		return nil, s
	case xr.Expression:
		return t.Expr(v, s)
	case xr.Query:
		return t.Query(v, s)
	case xr.Action:
		return t.Action(v, s)
	default:
		return DefaultStateful(t, x, s)
	}
}

// DefaultStateful rebuilds x with t applied to every child. The state
// produced by each child is handed to the next one.
func DefaultStateful[S any](t Stateful[S], x xr.XR, s S) (xr.XR, S) {
	out := Children(x, func(c xr.XR) xr.XR {
		var r xr.XR
		r, s = InvokeStateful(t, c, s)
		return r
	})
	return out, s
}

// DefaultStatefulExpr is DefaultStateful for expressions.
func DefaultStatefulExpr[S any](t Stateful[S], e xr.Expression, s S) (xr.Expression, S) {
	out, s := DefaultStateful(t, e, s)
	return ToExpr(out), s
}

// DefaultStatefulQuery is DefaultStateful for queries.
func DefaultStatefulQuery[S any](t Stateful[S], q xr.Query, s S) (xr.Query, S) {
	out, s := DefaultStateful(t, q, s)
	return ToQuery(out), s
}

// DefaultStatefulAction is DefaultStateful for actions.
func DefaultStatefulAction[S any](t Stateful[S], a xr.Action, s S) (xr.Action, S) {
	out, s := DefaultStateful(t, a, s)
	return as[xr.Action](out, "action"), s
}

// StatefulRoot is the stateful counterpart of Root.
type StatefulRoot[S any] func(x xr.XR, s S, descend func(xr.XR, S) (xr.XR, S)) (xr.XR, S)

// Apply runs the hook over the whole tree rooted at x.
func (r StatefulRoot[S]) Apply(x xr.XR, s S) (xr.XR, S) {
	if x == nil {
		return nil, s
	}
	return r(x, s, r.descend)
}

func (r StatefulRoot[S]) descend(x xr.XR, s S) (xr.XR, S) {
	out := Children(x, func(c xr.XR) xr.XR {
		var next xr.XR
		next, s = r.Apply(c, s)
		return next
	})
	return out, s
}

func (r StatefulRoot[S]) Expr(e xr.Expression, s S) (xr.Expression, S) {
	out, s := r.Apply(e, s)
	return ToExpr(out), s
}

func (r StatefulRoot[S]) Query(q xr.Query, s S) (xr.Query, S) {
	out, s := r.Apply(q, s)
	return ToQuery(out), s
}

func (r StatefulRoot[S]) Action(a xr.Action, s S) (xr.Action, S) {
	out, s := r.Apply(a, s)
	return as[xr.Action](out, "action"), s
}
