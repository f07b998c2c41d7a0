package xr

import "github.com/roach88/xrq/internal/xrtype"

// Ident is a named reference. Identity for substitution is the name AND the
// type, so the same name at two types is two different keys.
type Ident struct {
	Location `json:"-"`
	Name     string      `json:"name"`
	Type     xrtype.Type `json:"type"`
}

// Property is a field access.
type Property struct {
	Location `json:"-"`
	Of       Expression `json:"of"`
	Name     string     `json:"name"`
}

// BinaryOp applies an infix operator.
type BinaryOp struct {
	Location `json:"-"`
	A        Expression     `json:"a"`
	Op       BinaryOperator `json:"op"`
	B        Expression     `json:"b"`
}

// UnaryOp applies a prefix operator.
type UnaryOp struct {
	Location `json:"-"`
	Op       UnaryOperator `json:"op"`
	Expr     Expression    `json:"expr"`
}

// FunctionN is a lambda with len(Params) parameters.
type FunctionN struct {
	Location `json:"-"`
	Params   []Ident           `json:"params"`
	Body     QueryOrExpression `json:"body"`
}

// FunctionApply applies a function to arguments. Applying a FunctionN whose
// parameter count differs from len(Args) is a caller error.
type FunctionApply struct {
	Location `json:"-"`
	Function QueryOrExpression   `json:"function"`
	Args     []QueryOrExpression `json:"args"`
}

// Branch is one arm of a When.
type Branch struct {
	Location `json:"-"`
	Cond     Expression `json:"cond"`
	Then     Expression `json:"then"`
}

// When is a multi-way conditional.
type When struct {
	Location `json:"-"`
	Branches []Branch   `json:"branches"`
	OrElse   Expression `json:"or_else"`
}

// Variable is a let-binding inside a Block.
type Variable struct {
	Location `json:"-"`
	Name     Ident      `json:"name"`
	RHS      Expression `json:"rhs"`
}

// Block is a let-sequence terminating in Output.
type Block struct {
	Location `json:"-"`
	Stmts    []Variable `json:"stmts"`
	Output   Expression `json:"output"`
}

// ProductField is one named field of a Product construction.
type ProductField struct {
	Name  string     `json:"name"`
	Value Expression `json:"value"`
}

// Product constructs a record.
type Product struct {
	Location `json:"-"`
	Name     string         `json:"name"`
	Fields   []ProductField `json:"fields"`
}

// MethodCall invokes a named operator on a head expression.
type MethodCall struct {
	Location `json:"-"`
	Head     Expression   `json:"head"`
	Name     string       `json:"name"`
	Args     []Expression `json:"args"`
	CallType CallType     `json:"call_type"`
	Type     xrtype.Type  `json:"type"`
}

// GlobalCall invokes a named function or UDF.
type GlobalCall struct {
	Location `json:"-"`
	Name     string       `json:"name"`
	Args     []Expression `json:"args"`
	CallType CallType     `json:"call_type"`
	Type     xrtype.Type  `json:"type"`
}

// QueryToExpr wraps a query in scalar position (e.g. an aggregation
// subquery). It is the inverse of ExprToQuery.
type QueryToExpr struct {
	Location `json:"-"`
	Head     Query `json:"head"`
}

// OrderField is one sort criterion.
type OrderField struct {
	Field    Expression `json:"field"`
	Ordering Ordering   `json:"ordering"`
}

// Window is a windowed aggregation.
type Window struct {
	Location    `json:"-"`
	PartitionBy []Expression `json:"partition_by"`
	OrderBy     []OrderField `json:"order_by"`
	Over        Expression   `json:"over"`
}

// TagForParam stands in for a runtime parameter not yet bound.
type TagForParam struct {
	Location `json:"-"`
	ID       string      `json:"id"`
	Type     xrtype.Type `json:"type"`
}

// TagForSqlExpression stands in for a dynamic expression fragment.
type TagForSqlExpression struct {
	Location `json:"-"`
	ID       string      `json:"id"`
	Type     xrtype.Type `json:"type"`
}

// PlaceholderParam is a named parameter slot.
type PlaceholderParam struct {
	Location `json:"-"`
	Name     string      `json:"name"`
	Type     xrtype.Type `json:"type"`
}

func (i Ident) XRType() xrtype.Type { return xrtype.OrUnknown(i.Type) }

func (p Property) XRType() xrtype.Type {
	if p.Of == nil {
		return xrtype.Unknown{}
	}
	if prod, ok := p.Of.XRType().(xrtype.Product); ok {
		if t, ok := prod.Field(p.Name); ok {
			return xrtype.OrUnknown(t)
		}
	}
	return xrtype.Unknown{}
}

func (b BinaryOp) XRType() xrtype.Type {
	if b.Op.IsBoolean() {
		return xrtype.BooleanExpression{}
	}
	return xrtype.Value{}
}

func (u UnaryOp) XRType() xrtype.Type {
	if u.Op == OpNot {
		return xrtype.BooleanExpression{}
	}
	return xrtype.Value{}
}

func (f FunctionN) XRType() xrtype.Type { return typeOf(f.Body) }

func (a FunctionApply) XRType() xrtype.Type { return typeOf(a.Function) }

func (b Branch) XRType() xrtype.Type { return typeOf(b.Then) }

func (w When) XRType() xrtype.Type {
	if len(w.Branches) > 0 {
		return typeOf(w.Branches[0].Then)
	}
	return typeOf(w.OrElse)
}

func (v Variable) XRType() xrtype.Type { return typeOf(v.RHS) }

func (b Block) XRType() xrtype.Type { return typeOf(b.Output) }

func (p Product) XRType() xrtype.Type {
	fields := make([]xrtype.Field, len(p.Fields))
	for i, f := range p.Fields {
		fields[i] = xrtype.Field{Name: f.Name, Type: typeOf(f.Value)}
	}
	return xrtype.Product{Name: p.Name, Fields: fields}
}

func (m MethodCall) XRType() xrtype.Type          { return xrtype.OrUnknown(m.Type) }
func (g GlobalCall) XRType() xrtype.Type          { return xrtype.OrUnknown(g.Type) }
func (q QueryToExpr) XRType() xrtype.Type         { return typeOf(q.Head) }
func (w Window) XRType() xrtype.Type              { return typeOf(w.Over) }
func (t TagForParam) XRType() xrtype.Type         { return xrtype.OrUnknown(t.Type) }
func (t TagForSqlExpression) XRType() xrtype.Type { return xrtype.OrUnknown(t.Type) }
func (p PlaceholderParam) XRType() xrtype.Type    { return xrtype.OrUnknown(p.Type) }

// typeOf is XRType with a nil guard for optional children.
func typeOf(x XR) xrtype.Type {
	if x == nil {
		return xrtype.Unknown{}
	}
	return xrtype.OrUnknown(x.XRType())
}

func (Ident) exprNode()               {}
func (Property) exprNode()            {}
func (BinaryOp) exprNode()            {}
func (UnaryOp) exprNode()             {}
func (FunctionN) exprNode()           {}
func (FunctionApply) exprNode()       {}
func (When) exprNode()                {}
func (Block) exprNode()               {}
func (Product) exprNode()             {}
func (MethodCall) exprNode()          {}
func (GlobalCall) exprNode()          {}
func (QueryToExpr) exprNode()         {}
func (Window) exprNode()              {}
func (TagForParam) exprNode()         {}
func (TagForSqlExpression) exprNode() {}
func (PlaceholderParam) exprNode()    {}

func (Ident) queryOrExprNode()               {}
func (Property) queryOrExprNode()            {}
func (BinaryOp) queryOrExprNode()            {}
func (UnaryOp) queryOrExprNode()             {}
func (FunctionN) queryOrExprNode()           {}
func (FunctionApply) queryOrExprNode()       {}
func (When) queryOrExprNode()                {}
func (Block) queryOrExprNode()               {}
func (Product) queryOrExprNode()             {}
func (MethodCall) queryOrExprNode()          {}
func (GlobalCall) queryOrExprNode()          {}
func (QueryToExpr) queryOrExprNode()         {}
func (Window) queryOrExprNode()              {}
func (TagForParam) queryOrExprNode()         {}
func (TagForSqlExpression) queryOrExprNode() {}
func (PlaceholderParam) queryOrExprNode()    {}
