package beta

import (
	"fmt"
	"log/slog"

	"github.com/roach88/xrq/internal/transform"
	"github.com/roach88/xrq/internal/xr"
	"github.com/roach88/xrq/internal/xrtype"
)

// Result describes a finished reduction.
type Result struct {
	Tree       xr.XR
	Iterations int
}

// Reduce beta-reduces tree under subst to a fixpoint.
//
// Under SubstituteSubtypes every supplied pair is validated first: a pair
// whose types have no meet is a TYPE_MISMATCH error, and under
// EmptyProductFail a pair whose meet is a product with no fields is an
// EMPTY_PRODUCT error. The first pass applies subst; later passes run with
// an empty map until the tree stops changing.
func Reduce(tree xr.XR, subst Substitutions, opts ...Option) (xr.XR, error) {
	res, err := ReduceWithResult(tree, subst, opts...)
	if err != nil {
		return nil, err
	}
	return res.Tree, nil
}

// ReduceWithResult is Reduce reporting the number of passes taken.
func ReduceWithResult(tree xr.XR, subst Substitutions, opts ...Option) (res Result, err error) {
	o := newOptions(opts)
	defer recoverAbort(&err)

	if o.TypeBehavior == SubstituteSubtypes {
		if err := validate(subst, o.EmptyProductBehavior); err != nil {
			return Result{}, err
		}
	}

	limit := o.MaxIterations
	if limit <= 0 {
		limit = DefaultIterationBase + DefaultIterationPerNode*transform.Count(tree)
	}

	r := &reducer{behavior: o.TypeBehavior, logger: o.Logger}
	cur, m := tree, subst
	for i := 1; ; i++ {
		if i > limit {
			return Result{}, &ReductionError{
				Code:     ErrCodeNotConverged,
				Message:  fmt.Sprintf("reduction did not converge after %d iterations", limit),
				Original: tree,
			}
		}
		next := r.reduce(cur, m)
		changed := !xr.Equal(next, cur)
		o.Logger.Debug("beta iteration", "iteration", i, "changed", changed)
		if !changed {
			return Result{Tree: next, Iterations: i}, nil
		}
		cur, m = next, Substitutions{}
	}
}

// ReduceQuery is Reduce for a query root.
func ReduceQuery(q xr.Query, subst Substitutions, opts ...Option) (xr.Query, error) {
	out, err := Reduce(q, subst, opts...)
	if err != nil {
		return nil, err
	}
	return transform.ToQuery(out), nil
}

// ReduceExpr is Reduce for an expression root.
func ReduceExpr(e xr.Expression, subst Substitutions, opts ...Option) (xr.Expression, error) {
	out, err := Reduce(e, subst, opts...)
	if err != nil {
		return nil, err
	}
	return transform.ToExpr(out), nil
}

// validate checks every supplied pair for a usable type meet.
func validate(subst Substitutions, empty EmptyProductBehavior) error {
	for _, p := range subst.pairs {
		from, to := p.From.XRType(), p.To.XRType()
		meet, ok := xrtype.LeastUpperType(to, from)
		if !ok {
			return &ReductionError{
				Code: ErrCodeTypeMismatch,
				Message: fmt.Sprintf("replacement is not type-compatible with the original (%s vs %s)",
					to, from),
				Original:    p.From,
				Replacement: p.To,
			}
		}
		if empty == EmptyProductFail && xrtype.IsEmptyProduct(meet) {
			return &ReductionError{
				Code: ErrCodeEmptyProduct,
				Message: fmt.Sprintf("type meet of %s and %s has no fields",
					to, from),
				Original:    p.From,
				Replacement: p.To,
			}
		}
	}
	return nil
}

// reducer runs one pass. It is immutable apart from the depth counter.
type reducer struct {
	behavior TypeBehavior
	logger   *slog.Logger
	depth    int
}

// withBehavior returns a reducer sharing the depth counter budget of r.
func (r *reducer) withBehavior(b TypeBehavior) *reducer {
	if b == r.behavior {
		return r
	}
	return &reducer{behavior: b, logger: r.logger, depth: r.depth}
}

func (r *reducer) reduce(x xr.XR, m Substitutions) xr.XR {
	if x == nil {
		return nil
	}
	r.depth++
	defer func() { r.depth-- }()
	if r.depth > maxDepth {
		fail(ErrCodeNotConverged, fmt.Sprintf("reduction exceeded depth %d", maxDepth), x, nil)
	}

	switch v := x.(type) {
	case xr.QueryOrExpression:
		return r.replaceAtHead(v, m)
	case xr.Action:
		return r.action(v, m)
	default:
		// Branch, Variable, Assignment, Batching
		return r.other(x, m)
	}
}

func (r *reducer) expr(e xr.Expression, m Substitutions) xr.Expression {
	return transform.ToExpr(r.reduce(e, m))
}

func (r *reducer) query(q xr.Query, m Substitutions) xr.Query {
	return transform.ToQuery(r.reduce(q, m))
}

// replaceAtHead substitutes x when it is a key of m, and otherwise applies
// the rule catalogue or descends.
func (r *reducer) replaceAtHead(x xr.QueryOrExpression, m Substitutions) xr.XR {
	if p, ok := m.lookup(x); ok {
		if p.settled {
			return r.correctType(x, p.To)
		}
		inner := m.Without(x, p.To).withoutRenames()
		reduced := r.reduce(p.To, inner)
		return r.correctType(x, reduced)
	}
	if out, ok := r.simplify(x, m); ok {
		return out
	}
	return r.descend(x, m)
}

// correctType fixes up the type of a replacement. It never fails.
func (r *reducer) correctType(original, replacement xr.XR) xr.XR {
	if r.behavior == ReplaceWithReduction || !xr.IsTerminal(replacement) {
		return replacement
	}
	ot, rt := original.XRType(), replacement.XRType()
	if xrtype.IsBottom(rt) {
		if out, ok := xr.Retype(replacement, ot); ok {
			return out
		}
		return replacement
	}
	meet, ok := xrtype.LeastUpperType(ot, rt)
	if !ok {
		r.logger.Warn("replacement type has no meet with the original; using Unknown",
			"original", xr.Format(original),
			"original_type", ot.String(),
			"replacement", xr.Format(replacement),
			"replacement_type", rt.String())
		meet = xrtype.Unknown{}
	}
	if out, ok := xr.Retype(replacement, meet); ok {
		return out
	}
	return replacement
}

// descend reduces the children of x under m. Binders reduce their bodies
// under m shadowed by the bound name.
func (r *reducer) descend(x xr.QueryOrExpression, m Substitutions) xr.XR {
	switch v := x.(type) {
	case xr.Map:
		v.Head = r.query(v.Head, m)
		id, inner := r.enter(v.ID, m, v.Body)
		v.ID, v.Body = id, r.expr(v.Body, inner)
		return v
	case xr.FlatMap:
		v.Head = r.query(v.Head, m)
		id, inner := r.enter(v.ID, m, v.Body)
		v.ID, v.Body = id, r.query(v.Body, inner)
		return v
	case xr.ConcatMap:
		v.Head = r.query(v.Head, m)
		id, inner := r.enter(v.ID, m, v.Body)
		v.ID, v.Body = id, r.expr(v.Body, inner)
		return v
	case xr.Filter:
		v.Head = r.query(v.Head, m)
		id, inner := r.enter(v.ID, m, v.Body)
		v.ID, v.Body = id, r.expr(v.Body, inner)
		return v
	case xr.SortBy:
		v.Head = r.query(v.Head, m)
		id, inner := r.enter(v.ID, m, orderExprs(v.Criteria)...)
		v.ID, v.Criteria = id, r.criteria(v.Criteria, inner)
		return v
	case xr.FlatJoin:
		v.Head = r.query(v.Head, m)
		id, inner := r.enter(v.ID, m, v.On)
		v.ID, v.On = id, r.expr(v.On, inner)
		return v
	case xr.DistinctOn:
		v.Head = r.query(v.Head, m)
		id, inner := r.enter(v.ID, m, v.By)
		v.ID, v.By = id, r.expr(v.By, inner)
		return v
	default:
		return transform.Children(x, func(c xr.XR) xr.XR { return r.reduce(c, m) })
	}
}

// enter returns the substitutions in effect under a binder for id, and the
// identifier the binder should use. Pairs keyed on id's name are dropped.
// When a remaining replacement mentions the name, the binder is renamed to a
// fresh name so the replacement is not captured.
func (r *reducer) enter(id xr.Ident, m Substitutions, scope ...xr.XR) (xr.Ident, Substitutions) {
	inner := m.Shadow(id.Name)
	if !inner.valuesMention(id.Name) {
		return id, inner
	}
	taken := usedNames(scope...)
	for _, p := range inner.pairs {
		for name := range usedNames(p.From, p.To) {
			taken[name] = true
		}
	}
	fresh := id
	fresh.Name = freshName(id.Name, taken)
	return fresh, inner.With(renameTo(id, fresh))
}

// action reduces an action. Aliases are binders for the parts that refer to
// the affected row.
func (r *reducer) action(a xr.Action, m Substitutions) xr.XR {
	switch v := a.(type) {
	case xr.Insert:
		alias, inner := r.enter(v.Alias, m, assignmentNodes(v.Assignments)...)
		v.Assignments = r.assignments(v.Assignments, inner)
		v.Assignments, v.Exclusions = retarget(v.Assignments, v.Exclusions, v.Alias, alias)
		v.Alias = alias
		return v
	case xr.Update:
		alias, inner := r.enter(v.Alias, m, assignmentNodes(v.Assignments)...)
		v.Assignments = r.assignments(v.Assignments, inner)
		v.Assignments, v.Exclusions = retarget(v.Assignments, v.Exclusions, v.Alias, alias)
		v.Alias = alias
		return v
	case xr.Delete:
		return v
	case xr.OnConflict:
		v.Insert = r.action(v.Insert, m).(xr.Insert)
		v.Assignments = r.assignments(v.Assignments, m.Shadow(v.Excluded.Name, v.Existing.Name))
		return v
	case xr.FilteredAction:
		v.Action = r.action(v.Action, m).(xr.Action)
		alias, inner := r.enter(v.Alias, m, v.Filter)
		v.Alias, v.Filter = alias, r.expr(v.Filter, inner)
		return v
	case xr.Returning:
		v.Action = r.action(v.Action, m).(xr.Action)
		alias, inner := r.enter(v.Alias, m, v.Output)
		v.Alias, v.Output = alias, r.expr(v.Output, inner)
		return v
	default:
		// TagForSqlAction is a leaf; Free is reduced as an expression.
		return transform.Children(a, func(c xr.XR) xr.XR { return r.reduce(c, m) })
	}
}

// other reduces the nodes that are neither queries, expressions nor
// actions.
func (r *reducer) other(x xr.XR, m Substitutions) xr.XR {
	switch v := x.(type) {
	case xr.Batching:
		v.Action = r.action(v.Action, m.Shadow(v.Alias.Name)).(xr.Action)
		return v
	case xr.Assignment:
		v.Value = r.expr(v.Value, m)
		return v
	case xr.Variable:
		v.RHS = r.expr(v.RHS, m)
		return v
	case xr.Branch:
		v.Cond = r.expr(v.Cond, m)
		v.Then = r.expr(v.Then, m)
		return v
	default:
		return transform.Children(x, func(c xr.XR) xr.XR { return r.reduce(c, m) })
	}
}

func (r *reducer) assignments(assigns []xr.Assignment, m Substitutions) []xr.Assignment {
	out := make([]xr.Assignment, len(assigns))
	for i, a := range assigns {
		out[i] = r.other(a, m).(xr.Assignment)
	}
	return out
}

func (r *reducer) criteria(criteria []xr.OrderField, m Substitutions) []xr.OrderField {
	out := make([]xr.OrderField, len(criteria))
	for i, c := range criteria {
		out[i] = xr.OrderField{Field: r.expr(c.Field, m), Ordering: c.Ordering}
	}
	return out
}

// reduceQE reduces x keeping its position: a query stays a query.
func (r *reducer) reduceQE(x xr.QueryOrExpression, m Substitutions) xr.QueryOrExpression {
	if x == nil {
		return nil
	}
	out := r.reduce(x, m)
	if _, isQuery := x.(xr.Query); isQuery {
		return transform.ToQuery(out)
	}
	return transform.ToExpr(out)
}

// retarget points assignment targets and exclusions at a renamed alias.
func retarget(assigns []xr.Assignment, exclusions []xr.Property, from, to xr.Ident) ([]xr.Assignment, []xr.Property) {
	if from.Name == to.Name {
		return assigns, exclusions
	}
	rename := func(p xr.Property) xr.Property {
		if id, ok := p.Of.(xr.Ident); ok && id.Name == from.Name {
			p.Of = to
		}
		return p
	}
	outA := make([]xr.Assignment, len(assigns))
	for i, a := range assigns {
		a.Property = rename(a.Property)
		outA[i] = a
	}
	outE := make([]xr.Property, len(exclusions))
	for i, e := range exclusions {
		outE[i] = rename(e)
	}
	return outA, outE
}

func assignmentNodes(assigns []xr.Assignment) []xr.XR {
	out := make([]xr.XR, len(assigns))
	for i, a := range assigns {
		out[i] = a
	}
	return out
}

func orderExprs(criteria []xr.OrderField) []xr.XR {
	out := make([]xr.XR, len(criteria))
	for i, c := range criteria {
		out[i] = c.Field
	}
	return out
}

func paramNames(params []xr.Ident) []string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return names
}
