package xr

import "github.com/roach88/xrq/internal/xrtype"

// Entity is a table.
type Entity struct {
	Location `json:"-"`
	Name     string         `json:"name"`
	Type     xrtype.Product `json:"type"`
}

// Map projects every row of Head through Body with ID bound to the row.
type Map struct {
	Location `json:"-"`
	Head     Query      `json:"head"`
	ID       Ident      `json:"id"`
	Body     Expression `json:"body"`
}

// FlatMap binds ID to every row of Head and concatenates the Body queries.
type FlatMap struct {
	Location `json:"-"`
	Head     Query `json:"head"`
	ID       Ident `json:"id"`
	Body     Query `json:"body"`
}

// ConcatMap binds ID to every row of Head and unnests the Body collection.
type ConcatMap struct {
	Location `json:"-"`
	Head     Query      `json:"head"`
	ID       Ident      `json:"id"`
	Body     Expression `json:"body"`
}

// Filter keeps the rows of Head for which Body holds.
type Filter struct {
	Location `json:"-"`
	Head     Query      `json:"head"`
	ID       Ident      `json:"id"`
	Body     Expression `json:"body"`
}

// SortBy orders the rows of Head.
type SortBy struct {
	Location `json:"-"`
	Head     Query        `json:"head"`
	ID       Ident        `json:"id"`
	Criteria []OrderField `json:"criteria"`
}

// FlatJoin joins Head into the enclosing FlatMap chain with ID bound in On.
type FlatJoin struct {
	Location `json:"-"`
	JoinType JoinType   `json:"join_type"`
	Head     Query      `json:"head"`
	ID       Ident      `json:"id"`
	On       Expression `json:"on"`
}

// FlatGroupBy is a GROUP BY statement inside a FlatMap chain.
type FlatGroupBy struct {
	Location `json:"-"`
	By       Expression `json:"by"`
}

// FlatSortBy is an ORDER BY statement inside a FlatMap chain.
type FlatSortBy struct {
	Location `json:"-"`
	Criteria []OrderField `json:"criteria"`
}

// FlatFilter is a WHERE statement inside a FlatMap chain.
type FlatFilter struct {
	Location `json:"-"`
	By       Expression `json:"by"`
}

// Union is UNION (set semantics).
type Union struct {
	Location `json:"-"`
	A        Query `json:"a"`
	B        Query `json:"b"`
}

// UnionAll is UNION ALL (bag semantics).
type UnionAll struct {
	Location `json:"-"`
	A        Query `json:"a"`
	B        Query `json:"b"`
}

// Distinct removes duplicate rows.
type Distinct struct {
	Location `json:"-"`
	Head     Query `json:"head"`
}

// DistinctOn keeps one row per value of By, with ID bound in By.
type DistinctOn struct {
	Location `json:"-"`
	Head     Query      `json:"head"`
	ID       Ident      `json:"id"`
	By       Expression `json:"by"`
}

// Take is LIMIT.
type Take struct {
	Location `json:"-"`
	Head     Query      `json:"head"`
	Num      Expression `json:"num"`
}

// Drop is OFFSET.
type Drop struct {
	Location `json:"-"`
	Head     Query      `json:"head"`
	Num      Expression `json:"num"`
}

// Nested forces Head to be materialized as a subquery.
type Nested struct {
	Location `json:"-"`
	Head     Query `json:"head"`
}

// ExprToQuery wraps a scalar as a one-row query. It is the inverse of
// QueryToExpr.
type ExprToQuery struct {
	Location `json:"-"`
	Head     Expression `json:"head"`
}

// CustomQueryRef holds a higher level construct that lowers to canonical XR.
type CustomQueryRef struct {
	Location `json:"-"`
	Custom   CustomQuery `json:"custom"`
}

// TagForSqlQuery stands in for a dynamic query fragment.
type TagForSqlQuery struct {
	Location `json:"-"`
	ID       string      `json:"id"`
	Type     xrtype.Type `json:"type"`
}

func (e Entity) XRType() xrtype.Type      { return e.Type }
func (m Map) XRType() xrtype.Type         { return typeOf(m.Body) }
func (f FlatMap) XRType() xrtype.Type     { return typeOf(f.Body) }
func (c ConcatMap) XRType() xrtype.Type   { return typeOf(c.Body) }
func (f Filter) XRType() xrtype.Type      { return typeOf(f.Head) }
func (s SortBy) XRType() xrtype.Type      { return typeOf(s.Head) }
func (f FlatJoin) XRType() xrtype.Type    { return f.ID.XRType() }
func (f FlatGroupBy) XRType() xrtype.Type { return typeOf(f.By) }
func (FlatSortBy) XRType() xrtype.Type    { return xrtype.Value{} }
func (FlatFilter) XRType() xrtype.Type    { return xrtype.Value{} }
func (u Union) XRType() xrtype.Type       { return typeOf(u.A) }
func (u UnionAll) XRType() xrtype.Type    { return typeOf(u.A) }
func (d Distinct) XRType() xrtype.Type    { return typeOf(d.Head) }
func (d DistinctOn) XRType() xrtype.Type  { return typeOf(d.Head) }
func (t Take) XRType() xrtype.Type        { return typeOf(t.Head) }
func (d Drop) XRType() xrtype.Type        { return typeOf(d.Head) }
func (n Nested) XRType() xrtype.Type      { return typeOf(n.Head) }
func (e ExprToQuery) XRType() xrtype.Type { return typeOf(e.Head) }
func (t TagForSqlQuery) XRType() xrtype.Type {
	return xrtype.OrUnknown(t.Type)
}

func (c CustomQueryRef) XRType() xrtype.Type {
	if c.Custom == nil {
		return xrtype.Unknown{}
	}
	return xrtype.OrUnknown(c.Custom.CustomType())
}

func (f Filter) HeadQuery() Query    { return f.Head }
func (m Map) HeadQuery() Query       { return m.Head }
func (c ConcatMap) HeadQuery() Query { return c.Head }
func (f FlatMap) HeadQuery() Query   { return f.Head }

func (f Filter) ReplaceHead(head Query) HasHead {
	f.Head = head
	return f
}

func (m Map) ReplaceHead(head Query) HasHead {
	m.Head = head
	return m
}

func (c ConcatMap) ReplaceHead(head Query) HasHead {
	c.Head = head
	return c
}

func (f FlatMap) ReplaceHead(head Query) HasHead {
	f.Head = head
	return f
}

func (Entity) queryNode()         {}
func (Map) queryNode()            {}
func (FlatMap) queryNode()        {}
func (ConcatMap) queryNode()      {}
func (Filter) queryNode()         {}
func (SortBy) queryNode()         {}
func (FlatJoin) queryNode()       {}
func (FlatGroupBy) queryNode()    {}
func (FlatSortBy) queryNode()     {}
func (FlatFilter) queryNode()     {}
func (Union) queryNode()          {}
func (UnionAll) queryNode()       {}
func (Distinct) queryNode()       {}
func (DistinctOn) queryNode()     {}
func (Take) queryNode()           {}
func (Drop) queryNode()           {}
func (Nested) queryNode()         {}
func (ExprToQuery) queryNode()    {}
func (CustomQueryRef) queryNode() {}
func (TagForSqlQuery) queryNode() {}

func (Entity) queryOrExprNode()         {}
func (Map) queryOrExprNode()            {}
func (FlatMap) queryOrExprNode()        {}
func (ConcatMap) queryOrExprNode()      {}
func (Filter) queryOrExprNode()         {}
func (SortBy) queryOrExprNode()         {}
func (FlatJoin) queryOrExprNode()       {}
func (FlatGroupBy) queryOrExprNode()    {}
func (FlatSortBy) queryOrExprNode()     {}
func (FlatFilter) queryOrExprNode()     {}
func (Union) queryOrExprNode()          {}
func (UnionAll) queryOrExprNode()       {}
func (Distinct) queryOrExprNode()       {}
func (DistinctOn) queryOrExprNode()     {}
func (Take) queryOrExprNode()           {}
func (Drop) queryOrExprNode()           {}
func (Nested) queryOrExprNode()         {}
func (ExprToQuery) queryOrExprNode()    {}
func (CustomQueryRef) queryOrExprNode() {}
func (TagForSqlQuery) queryOrExprNode() {}
