package selectclause

import "github.com/roach88/xrq/internal/xr"

// Clause is one statement of a select clause.
type Clause interface {
	clause() // Sealed

	// children lists the clause's sub-trees in field order.
	children() []xr.XR

	// withChildren rebuilds the clause with f applied to each child.
	withChildren(f func(xr.XR) xr.XR) Clause
}

// From introduces a source and binds Var to each of its rows.
type From struct {
	Head xr.Query `json:"head"`
	Var  xr.Ident `json:"var"`
}

// Join joins On, binding Var to each joined row. CondVar is bound in Cond.
type Join struct {
	JoinType xr.JoinType   `json:"join_type"`
	Var      xr.Ident      `json:"var"`
	On       xr.Query      `json:"on"`
	CondVar  xr.Ident      `json:"cond_var"`
	Cond     xr.Expression `json:"cond"`
}

// ArbitraryAssignment binds Var to Expr for the rest of the clauses.
type ArbitraryAssignment struct {
	Var  xr.Ident      `json:"var"`
	Expr xr.Expression `json:"expr"`
}

// Where keeps the rows for which Cond holds.
type Where struct {
	Cond xr.Expression `json:"cond"`
}

// GroupBy groups the rows by By.
type GroupBy struct {
	By xr.Expression `json:"by"`
}

// SortBy orders the rows.
type SortBy struct {
	Criteria []xr.OrderField `json:"criteria"`
}

func (From) clause()                {}
func (Join) clause()                {}
func (ArbitraryAssignment) clause() {}
func (Where) clause()               {}
func (GroupBy) clause()             {}
func (SortBy) clause()              {}

func (c From) children() []xr.XR { return []xr.XR{c.Head, c.Var} }
func (c Join) children() []xr.XR { return []xr.XR{c.Var, c.On, c.CondVar, c.Cond} }
func (c ArbitraryAssignment) children() []xr.XR {
	return []xr.XR{c.Var, c.Expr}
}
func (c Where) children() []xr.XR   { return []xr.XR{c.Cond} }
func (c GroupBy) children() []xr.XR { return []xr.XR{c.By} }
func (c SortBy) children() []xr.XR {
	out := make([]xr.XR, len(c.Criteria))
	for i, o := range c.Criteria {
		out[i] = o.Field
	}
	return out
}

func (c From) withChildren(f func(xr.XR) xr.XR) Clause {
	c.Head = query(f, c.Head)
	c.Var = ident(f, c.Var)
	return c
}

func (c Join) withChildren(f func(xr.XR) xr.XR) Clause {
	c.Var = ident(f, c.Var)
	c.On = query(f, c.On)
	c.CondVar = ident(f, c.CondVar)
	c.Cond = expr(f, c.Cond)
	return c
}

func (c ArbitraryAssignment) withChildren(f func(xr.XR) xr.XR) Clause {
	c.Var = ident(f, c.Var)
	c.Expr = expr(f, c.Expr)
	return c
}

func (c Where) withChildren(f func(xr.XR) xr.XR) Clause {
	c.Cond = expr(f, c.Cond)
	return c
}

func (c GroupBy) withChildren(f func(xr.XR) xr.XR) Clause {
	c.By = expr(f, c.By)
	return c
}

func (c SortBy) withChildren(f func(xr.XR) xr.XR) Clause {
	criteria := make([]xr.OrderField, len(c.Criteria))
	for i, o := range c.Criteria {
		criteria[i] = xr.OrderField{Field: expr(f, o.Field), Ordering: o.Ordering}
	}
	c.Criteria = criteria
	return c
}

func init() {
	xr.RegisterKind(From{}, Join{}, ArbitraryAssignment{}, Where{}, GroupBy{}, SortBy{}, SelectClause{})
}
