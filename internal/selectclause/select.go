package selectclause

import (
	"errors"
	"fmt"

	"github.com/roach88/xrq/internal/transform"
	"github.com/roach88/xrq/internal/xr"
	"github.com/roach88/xrq/internal/xrtype"
)

// SelectClause is a query in select-clause form. It is carried through the
// tree as an xr.CustomQueryRef until Lower replaces it.
//
// Build one with New; ToQueryXR panics on a clause list New would reject.
type SelectClause struct {
	Clauses []Clause      `json:"clauses"`
	Select  xr.Expression `json:"select"`
}

// New checks the clause list and returns the select clause.
func New(clauses []Clause, sel xr.Expression) (SelectClause, error) {
	s := SelectClause{Clauses: clauses, Select: sel}
	if err := s.Validate(); err != nil {
		return SelectClause{}, err
	}
	return s, nil
}

// Ref wraps s for use in a tree.
func (s SelectClause) Ref() xr.CustomQueryRef {
	return xr.CustomQueryRef{Location: locOf(s.Select), Custom: s}
}

// Validate reports whether the clauses can be lowered.
func (s SelectClause) Validate() error {
	_, err := s.lower(true)
	return err
}

// ToQueryXR lowers s as a nested (not outermost) query.
func (s SelectClause) ToQueryXR() xr.Query {
	q, err := s.lower(false)
	if err != nil {
		panic(fmt.Sprintf("selectclause: %v", err))
	}
	return q
}

// CustomType is the type of the select expression.
func (s SelectClause) CustomType() xrtype.Type {
	if s.Select == nil {
		return xrtype.Unknown{}
	}
	return xrtype.OrUnknown(s.Select.XRType())
}

// Children lists the sub-trees of every clause in order, then the select
// expression.
func (s SelectClause) Children() []xr.XR {
	var out []xr.XR
	for _, c := range s.Clauses {
		if c != nil {
			out = append(out, c.children()...)
		}
	}
	return append(out, s.Select)
}

// WithChildren rebuilds s with f applied to every child in Children order.
func (s SelectClause) WithChildren(f func(xr.XR) xr.XR) xr.CustomQuery {
	clauses := make([]Clause, len(s.Clauses))
	for i, c := range s.Clauses {
		if c != nil {
			c = c.withChildren(f)
		}
		clauses[i] = c
	}
	s.Clauses = clauses
	s.Select = expr(f, s.Select)
	return s
}

func (s SelectClause) lower(outermost bool) (xr.Query, error) {
	return Nest(s.Clauses, s.Select, outermost)
}

// Lower replaces every select clause in tree by its canonical query. Select
// clauses nested inside another are lowered first. A select clause at the
// root of tree is lowered as the outermost query.
func Lower(tree xr.XR) (xr.XR, error) {
	var errs []error
	transform.Walk(tree, func(x xr.XR) bool {
		if sc, ok := selectOf(x); ok {
			if err := sc.Validate(); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", x.Source().Position(), err))
			}
		}
		return true
	})
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	atRoot := true
	lower := transform.Root(func(x xr.XR, descend func(xr.XR) xr.XR) xr.XR {
		outermost := atRoot
		atRoot = false
		if _, ok := selectOf(x); !ok {
			return descend(x)
		}
		ref := descend(x).(xr.CustomQueryRef)
		q, _ := ref.Custom.(SelectClause).lower(outermost)
		return xr.WithLocation(q, ref.Location)
	})
	return lower.Apply(tree), nil
}

func selectOf(x xr.XR) (SelectClause, bool) {
	ref, ok := x.(xr.CustomQueryRef)
	if !ok {
		return SelectClause{}, false
	}
	sc, ok := ref.Custom.(SelectClause)
	return sc, ok
}

func expr(f func(xr.XR) xr.XR, e xr.Expression) xr.Expression {
	if e == nil {
		return nil
	}
	return transform.ToExpr(f(e))
}

func query(f func(xr.XR) xr.XR, q xr.Query) xr.Query {
	if q == nil {
		return nil
	}
	return transform.ToQuery(f(q))
}

func ident(f func(xr.XR) xr.XR, id xr.Ident) xr.Ident {
	x := f(id)
	out, ok := x.(xr.Ident)
	if !ok {
		panic(fmt.Sprintf("selectclause: %T in identifier position", x))
	}
	return out
}
