package selectclause

import (
	"errors"
	"fmt"

	"github.com/roach88/xrq/internal/transform"
	"github.com/roach88/xrq/internal/xr"
)

// itVariable is the default variable name of a join condition.
const itVariable = "it"

// ErrNoFrom is returned for a non-empty clause list that does not start
// with a From clause.
var ErrNoFrom = errors.New("select clause must start with a from clause")

// Nest lowers a clause list and select expression into a query. The first
// clause must be a From; an empty list lowers to ExprToQuery(sel).
func Nest(clauses []Clause, sel xr.Expression, outermost bool) (xr.Query, error) {
	if len(clauses) == 0 {
		return xr.ExprToQuery{Location: locOf(sel), Head: sel}, nil
	}
	from, ok := clauses[0].(From)
	if !ok {
		return nil, fmt.Errorf("%w, got %s", ErrNoFrom, clauseName(clauses[0]))
	}
	return Desugar(from.Head, from.Var, clauses[1:], sel, outermost)
}

// Desugar lowers the clauses following an initial From(fromHead, fromVar).
//
// When the query is not outermost and the clauses group or sort, the result
// is wrapped in Nested.
func Desugar(fromHead xr.Query, fromVar xr.Ident, clauses []Clause, sel xr.Expression, outermost bool) (xr.Query, error) {
	if fromHead == nil {
		return nil, errors.New("from clause has no source")
	}
	if sel == nil {
		return nil, errors.New("select clause has no select expression")
	}
	for i, c := range clauses {
		if err := checkClause(c); err != nil {
			return nil, fmt.Errorf("clause %d: %w", i+1, err)
		}
	}

	q := nest(fromHead, fromVar, clauses, sel)
	if !outermost && groupsOrSorts(clauses) {
		q = xr.Nested{Location: q.Source(), Head: q}
	}
	return q, nil
}

func nest(prev xr.Query, prevVar xr.Ident, rest []Clause, sel xr.Expression) xr.Query {
	if len(rest) == 0 {
		return xr.Map{Location: prev.Source(), Head: prev, ID: prevVar, Body: sel}
	}
	flatMap := func(next xr.Query, nextVar xr.Ident) xr.Query {
		return xr.FlatMap{Location: prev.Source(), Head: prev, ID: prevVar, Body: nest(next, nextVar, rest[1:], sel)}
	}

	switch c := rest[0].(type) {
	case From:
		return flatMap(c.Head, c.Var)
	case Join:
		j := SwapItVariableForOuter(c)
		return flatMap(xr.FlatJoin{Location: j.On.Source(), JoinType: j.JoinType, Head: j.On, ID: j.CondVar, On: j.Cond}, j.Var)
	case ArbitraryAssignment:
		inner := nest(prev, prevVar, rest[1:], sel)
		block := xr.Block{
			Location: locOf(c.Expr),
			Stmts:    []xr.Variable{{Location: c.Var.Location, Name: c.Var, RHS: c.Expr}},
			Output:   xr.AsExpr(inner),
		}
		return xr.ExprToQuery{Location: block.Location, Head: block}
	case Where:
		return flatMap(xr.FlatFilter{Location: locOf(c.Cond), By: c.Cond}, xr.Unused)
	case GroupBy:
		return flatMap(xr.FlatGroupBy{Location: locOf(c.By), By: c.By}, xr.Unused)
	case SortBy:
		return flatMap(xr.FlatSortBy{Criteria: c.Criteria}, xr.Unused)
	default:
		panic(fmt.Sprintf("selectclause: unhandled clause %T", c))
	}
}

// SwapItVariableForOuter renames a join condition variable named "it" to
// the join's own variable, in the condition as well. Later aliasing prefers
// the outer name, so a condition left on "it" would be rendered against the
// wrong alias. The join is returned unchanged when the variable is already
// "it" or when the new name occurs free in the condition.
func SwapItVariableForOuter(j Join) Join {
	if j.CondVar.Name != itVariable || j.Var.Name == "" || j.Var.Name == itVariable {
		return j
	}
	if transform.IsFree(j.Cond, j.Var.Name) {
		return j
	}
	name := j.Var.Name
	rename := transform.Root(func(x xr.XR, descend func(xr.XR) xr.XR) xr.XR {
		if id, ok := x.(xr.Ident); ok && id.Name == itVariable {
			id.Name = name
			return id
		}
		return descend(x)
	})
	j.CondVar.Name = name
	if j.Cond != nil {
		j.Cond = rename.Expr(j.Cond)
	}
	return j
}

func checkClause(c Clause) error {
	switch c := c.(type) {
	case nil:
		return errors.New("nil clause")
	case From:
		if c.Head == nil {
			return errors.New("from clause has no source")
		}
	case Join:
		if c.On == nil {
			return errors.New("join clause has no source")
		}
	case ArbitraryAssignment:
		if c.Expr == nil {
			return fmt.Errorf("assignment to %s has no value", c.Var.Name)
		}
	case Where:
		if c.Cond == nil {
			return errors.New("where clause has no condition")
		}
	case GroupBy:
		if c.By == nil {
			return errors.New("group by clause has no expression")
		}
	}
	return nil
}

func groupsOrSorts(clauses []Clause) bool {
	for _, c := range clauses {
		switch c.(type) {
		case GroupBy, SortBy:
			return true
		}
	}
	return false
}

func clauseName(c Clause) string {
	switch c.(type) {
	case nil:
		return "nil"
	case From:
		return "from"
	case Join:
		return "join"
	case ArbitraryAssignment:
		return "assignment"
	case Where:
		return "where"
	case GroupBy:
		return "group by"
	case SortBy:
		return "sort by"
	default:
		return fmt.Sprintf("%T", c)
	}
}

func locOf(x xr.XR) xr.Location {
	if x == nil {
		return xr.Location{}
	}
	return x.Source()
}
