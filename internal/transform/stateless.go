package transform

import "github.com/roach88/xrq/internal/xr"

// Stateless rewrites a tree without threading state. Implementations handle
// the kinds they care about and call the Default* functions for the rest.
type Stateless interface {
	Expr(e xr.Expression) xr.Expression
	Query(q xr.Query) xr.Query
	Action(a xr.Action) xr.Action
}

// Invoke dispatches x to the matching method of t. Nodes that are neither
// queries, expressions nor actions (Branch, Variable, Assignment, Batching)
// recurse through their children. Free dispatches as an expression.
func Invoke(t Stateless, x xr.XR) xr.XR {
	switch v := x.(type) {
	case nil:
		return nil
	case xr.Expression:
		return t.Expr(v)
	case xr.Query:
		return t.Query(v)
	case xr.Action:
		return t.Action(v)
	default:
		return Default(t, x)
	}
}

// Default rebuilds x with t applied to every child.
func Default(t Stateless, x xr.XR) xr.XR {
	return Children(x, func(c xr.XR) xr.XR { return Invoke(t, c) })
}

// DefaultExpr is Default for expressions.
func DefaultExpr(t Stateless, e xr.Expression) xr.Expression {
	return ToExpr(Default(t, e))
}

// DefaultQuery is Default for queries.
func DefaultQuery(t Stateless, q xr.Query) xr.Query {
	return ToQuery(Default(t, q))
}

// DefaultAction is Default for actions.
func DefaultAction(t Stateless, a xr.Action) xr.Action {
	return as[xr.Action](Default(t, a), "action")
}

// Funcs adapts optional functions into a Stateless. A nil function falls
// back to the default recursion.
type Funcs struct {
	OnExpr   func(self Stateless, e xr.Expression) xr.Expression
	OnQuery  func(self Stateless, q xr.Query) xr.Query
	OnAction func(self Stateless, a xr.Action) xr.Action
}

func (f Funcs) Expr(e xr.Expression) xr.Expression {
	if f.OnExpr != nil {
		return f.OnExpr(f, e)
	}
	return DefaultExpr(f, e)
}

func (f Funcs) Query(q xr.Query) xr.Query {
	if f.OnQuery != nil {
		return f.OnQuery(f, q)
	}
	return DefaultQuery(f, q)
}

func (f Funcs) Action(a xr.Action) xr.Action {
	if f.OnAction != nil {
		return f.OnAction(f, a)
	}
	return DefaultAction(f, a)
}

// Root is a hook that every dispatch path funnels through. The hook receives
// each node and a descend function that rebuilds the node's children through
// the hook again; a hook that only rewrites some nodes returns descend(x)
// for the others.
//
//	rename := transform.Root(func(x xr.XR, descend func(xr.XR) xr.XR) xr.XR {
//		if id, ok := x.(xr.Ident); ok && id.Name == "it" {
//			id.Name = "p"
//			return id
//		}
//		return descend(x)
//	})
type Root func(x xr.XR, descend func(xr.XR) xr.XR) xr.XR

// Apply runs the hook over the whole tree rooted at x.
func (r Root) Apply(x xr.XR) xr.XR {
	if x == nil {
		return nil
	}
	return r(x, r.descend)
}

func (r Root) descend(x xr.XR) xr.XR {
	return Children(x, r.Apply)
}

func (r Root) Expr(e xr.Expression) xr.Expression { return ToExpr(r.Apply(e)) }
func (r Root) Query(q xr.Query) xr.Query           { return ToQuery(r.Apply(q)) }
func (r Root) Action(a xr.Action) xr.Action {
	return as[xr.Action](r.Apply(a), "action")
}
