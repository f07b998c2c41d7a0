package transform

import (
	"fmt"

	"github.com/roach88/xrq/internal/xr"
)

// Children rebuilds x with f applied to every direct child, left to right in
// field order, keeping the node kind. Leaves are returned unchanged.
//
// Results are coerced back into the position they came from: a Query
// returned for an Expression slot is wrapped in QueryToExpr and vice versa.
// Returning a non-identifier for a binder (or a non-property for an
// assignment target) is a programming error and panics.
func Children(x xr.XR, f func(xr.XR) xr.XR) xr.XR {
	switch v := x.(type) {
	case nil:
		return nil

	// Leaves
	case xr.Ident, xr.ConstBool, xr.ConstChar, xr.ConstByte, xr.ConstShort, xr.ConstInt,
		xr.ConstLong, xr.ConstString, xr.ConstFloat, xr.ConstDouble, xr.ConstNull,
		xr.Entity, xr.TagForParam, xr.TagForSqlExpression, xr.TagForSqlQuery,
		xr.TagForSqlAction, xr.PlaceholderParam:
		return x

	case xr.Free:
		v.Params = mapXR(v.Params, f)
		return v

	// Expressions
	case xr.Property:
		v.Of = expr(f, v.Of)
		return v
	case xr.BinaryOp:
		v.A = expr(f, v.A)
		v.B = expr(f, v.B)
		return v
	case xr.UnaryOp:
		v.Expr = expr(f, v.Expr)
		return v
	case xr.FunctionN:
		v.Params = idents(f, v.Params)
		v.Body = queryOrExpr(f, v.Body)
		return v
	case xr.FunctionApply:
		v.Function = queryOrExpr(f, v.Function)
		args := make([]xr.QueryOrExpression, len(v.Args))
		for i, a := range v.Args {
			args[i] = queryOrExpr(f, a)
		}
		v.Args = args
		return v
	case xr.When:
		branches := make([]xr.Branch, len(v.Branches))
		for i, b := range v.Branches {
			branches[i] = as[xr.Branch](f(b), "branch")
		}
		v.Branches = branches
		v.OrElse = expr(f, v.OrElse)
		return v
	case xr.Branch:
		v.Cond = expr(f, v.Cond)
		v.Then = expr(f, v.Then)
		return v
	case xr.Variable:
		v.Name = ident(f, v.Name)
		v.RHS = expr(f, v.RHS)
		return v
	case xr.Block:
		stmts := make([]xr.Variable, len(v.Stmts))
		for i, s := range v.Stmts {
			stmts[i] = as[xr.Variable](f(s), "statement")
		}
		v.Stmts = stmts
		v.Output = expr(f, v.Output)
		return v
	case xr.Product:
		fields := make([]xr.ProductField, len(v.Fields))
		for i, pf := range v.Fields {
			fields[i] = xr.ProductField{Name: pf.Name, Value: expr(f, pf.Value)}
		}
		v.Fields = fields
		return v
	case xr.MethodCall:
		v.Head = expr(f, v.Head)
		v.Args = exprs(f, v.Args)
		return v
	case xr.GlobalCall:
		v.Args = exprs(f, v.Args)
		return v
	case xr.QueryToExpr:
		v.Head = query(f, v.Head)
		return v
	case xr.Window:
		v.PartitionBy = exprs(f, v.PartitionBy)
		v.OrderBy = orderFields(f, v.OrderBy)
		v.Over = expr(f, v.Over)
		return v

	// Queries
	case xr.Map:
		v.Head = query(f, v.Head)
		v.ID = ident(f, v.ID)
		v.Body = expr(f, v.Body)
		return v
	case xr.FlatMap:
		v.Head = query(f, v.Head)
		v.ID = ident(f, v.ID)
		v.Body = query(f, v.Body)
		return v
	case xr.ConcatMap:
		v.Head = query(f, v.Head)
		v.ID = ident(f, v.ID)
		v.Body = expr(f, v.Body)
		return v
	case xr.Filter:
		v.Head = query(f, v.Head)
		v.ID = ident(f, v.ID)
		v.Body = expr(f, v.Body)
		return v
	case xr.SortBy:
		v.Head = query(f, v.Head)
		v.ID = ident(f, v.ID)
		v.Criteria = orderFields(f, v.Criteria)
		return v
	case xr.FlatJoin:
		v.Head = query(f, v.Head)
		v.ID = ident(f, v.ID)
		v.On = expr(f, v.On)
		return v
	case xr.FlatGroupBy:
		v.By = expr(f, v.By)
		return v
	case xr.FlatSortBy:
		v.Criteria = orderFields(f, v.Criteria)
		return v
	case xr.FlatFilter:
		v.By = expr(f, v.By)
		return v
	case xr.Union:
		v.A = query(f, v.A)
		v.B = query(f, v.B)
		return v
	case xr.UnionAll:
		v.A = query(f, v.A)
		v.B = query(f, v.B)
		return v
	case xr.Distinct:
		v.Head = query(f, v.Head)
		return v
	case xr.DistinctOn:
		v.Head = query(f, v.Head)
		v.ID = ident(f, v.ID)
		v.By = expr(f, v.By)
		return v
	case xr.Take:
		v.Head = query(f, v.Head)
		v.Num = expr(f, v.Num)
		return v
	case xr.Drop:
		v.Head = query(f, v.Head)
		v.Num = expr(f, v.Num)
		return v
	case xr.Nested:
		v.Head = query(f, v.Head)
		return v
	case xr.ExprToQuery:
		v.Head = expr(f, v.Head)
		return v
	case xr.CustomQueryRef:
		if v.Custom != nil {
			v.Custom = v.Custom.WithChildren(f)
		}
		return v

	// Actions
	case xr.Assignment:
		v.Property = as[xr.Property](f(v.Property), "assignment target")
		v.Value = expr(f, v.Value)
		return v
	case xr.Insert:
		v.Entity = as[xr.Entity](f(v.Entity), "table")
		v.Alias = ident(f, v.Alias)
		v.Assignments = assignments(f, v.Assignments)
		v.Exclusions = properties(f, v.Exclusions)
		return v
	case xr.Update:
		v.Entity = as[xr.Entity](f(v.Entity), "table")
		v.Alias = ident(f, v.Alias)
		v.Assignments = assignments(f, v.Assignments)
		v.Exclusions = properties(f, v.Exclusions)
		return v
	case xr.Delete:
		v.Entity = as[xr.Entity](f(v.Entity), "table")
		v.Alias = ident(f, v.Alias)
		return v
	case xr.OnConflict:
		v.Insert = as[xr.Insert](f(v.Insert), "insert")
		v.Target = properties(f, v.Target)
		v.Excluded = ident(f, v.Excluded)
		v.Existing = ident(f, v.Existing)
		v.Assignments = assignments(f, v.Assignments)
		return v
	case xr.FilteredAction:
		v.Action = action(f, v.Action)
		v.Alias = ident(f, v.Alias)
		v.Filter = expr(f, v.Filter)
		return v
	case xr.Returning:
		v.Action = action(f, v.Action)
		v.Alias = ident(f, v.Alias)
		v.Output = expr(f, v.Output)
		return v
	case xr.Batching:
		v.Alias = ident(f, v.Alias)
		v.Action = action(f, v.Action)
		return v

	default:
		panic(fmt.Sprintf("transform: unhandled node %T", x))
	}
}

// ToExpr coerces a rewritten node into expression position.
func ToExpr(x xr.XR) xr.Expression {
	switch v := x.(type) {
	case nil:
		return nil
	case xr.QueryOrExpression:
		return xr.AsExpr(v)
	default:
		panic(fmt.Sprintf("transform: %T in expression position", x))
	}
}

// ToQuery coerces a rewritten node into query position.
func ToQuery(x xr.XR) xr.Query {
	switch v := x.(type) {
	case nil:
		return nil
	case xr.QueryOrExpression:
		return xr.AsQuery(v)
	default:
		panic(fmt.Sprintf("transform: %T in query position", x))
	}
}

func as[T xr.XR](x xr.XR, what string) T {
	v, ok := x.(T)
	if !ok {
		panic(fmt.Sprintf("transform: %T in %s position", x, what))
	}
	return v
}

func expr(f func(xr.XR) xr.XR, e xr.Expression) xr.Expression {
	if e == nil {
		return nil
	}
	return ToExpr(f(e))
}

func query(f func(xr.XR) xr.XR, q xr.Query) xr.Query {
	if q == nil {
		return nil
	}
	return ToQuery(f(q))
}

func queryOrExpr(f func(xr.XR) xr.XR, x xr.QueryOrExpression) xr.QueryOrExpression {
	if x == nil {
		return nil
	}
	return as[xr.QueryOrExpression](f(x), "query or expression")
}

func action(f func(xr.XR) xr.XR, a xr.Action) xr.Action {
	if a == nil {
		return nil
	}
	return as[xr.Action](f(a), "action")
}

func ident(f func(xr.XR) xr.XR, id xr.Ident) xr.Ident {
	return as[xr.Ident](f(id), "identifier")
}

func idents(f func(xr.XR) xr.XR, ids []xr.Ident) []xr.Ident {
	out := make([]xr.Ident, len(ids))
	for i, id := range ids {
		out[i] = ident(f, id)
	}
	return out
}

func exprs(f func(xr.XR) xr.XR, es []xr.Expression) []xr.Expression {
	out := make([]xr.Expression, len(es))
	for i, e := range es {
		out[i] = expr(f, e)
	}
	return out
}

func orderFields(f func(xr.XR) xr.XR, fields []xr.OrderField) []xr.OrderField {
	out := make([]xr.OrderField, len(fields))
	for i, o := range fields {
		out[i] = xr.OrderField{Field: expr(f, o.Field), Ordering: o.Ordering}
	}
	return out
}

func assignments(f func(xr.XR) xr.XR, assigns []xr.Assignment) []xr.Assignment {
	out := make([]xr.Assignment, len(assigns))
	for i, a := range assigns {
		out[i] = as[xr.Assignment](f(a), "assignment")
	}
	return out
}

func properties(f func(xr.XR) xr.XR, ps []xr.Property) []xr.Property {
	out := make([]xr.Property, len(ps))
	for i, p := range ps {
		out[i] = as[xr.Property](f(p), "property")
	}
	return out
}

func mapXR(xs []xr.XR, f func(xr.XR) xr.XR) []xr.XR {
	out := make([]xr.XR, len(xs))
	for i, x := range xs {
		if x != nil {
			out[i] = f(x)
		}
	}
	return out
}
