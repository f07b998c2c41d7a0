package beta

import (
	"fmt"

	"github.com/roach88/xrq/internal/xr"
	"github.com/roach88/xrq/internal/xrtype"
)

// simplify applies the first matching rule of the catalogue. The rule's
// result is reduced again under m.
func (r *reducer) simplify(x xr.QueryOrExpression, m Substitutions) (xr.XR, bool) {
	switch v := x.(type) {
	case xr.When:
		return r.simplifyWhen(v, m)

	case xr.UnaryOp:
		// !(a == b) -> a != b
		if b, ok := v.Expr.(xr.BinaryOp); ok && v.Op == xr.OpNot && b.Op == xr.OpEq {
			return r.reduce(xr.BinaryOp{Location: v.Location, A: b.A, Op: xr.OpNotEq, B: b.B}, m), true
		}

	case xr.BinaryOp:
		return r.simplifyBinary(v, m)

	case xr.Property:
		return r.simplifyProperty(v, m)

	case xr.ExprToQuery:
		if inner, ok := v.Head.(xr.QueryToExpr); ok {
			return r.reduce(inner.Head, m), true
		}

	case xr.QueryToExpr:
		if inner, ok := v.Head.(xr.ExprToQuery); ok {
			return r.reduce(inner.Head, m), true
		}

	case xr.FunctionApply:
		return r.simplifyApply(v, m)

	case xr.FunctionN:
		return r.renameParams(v, m), true

	case xr.Block:
		return r.simplifyBlock(v, m), true

	case xr.CustomQueryRef:
		if v.Custom != nil {
			return r.reduce(v.Custom.ToQueryXR(), m), true
		}
	}
	return nil, false
}

// simplifyWhen handles single-branch conditionals.
func (r *reducer) simplifyWhen(w xr.When, m Substitutions) (xr.XR, bool) {
	cond, then, orElse, ok := xr.MatchIf(w)
	if !ok {
		return nil, false
	}
	switch {
	// if (true) a else _ -> a
	case xr.IsTrue(cond):
		return r.reduce(then, m), true

	// if (false) _ else b -> b
	case xr.IsFalse(cond):
		return r.reduce(orElse, m), true
	}

	subject, isNullCheck := xr.MatchIsNull(cond)
	if !isNullCheck {
		return nil, false
	}
	switch {
	// if (x == null) false else true -> x != null
	case xr.IsFalse(then) && xr.IsTrue(orElse):
		return r.reduce(xr.IsNotNull(subject), m), true

	// if (x == null) true else false -> x == null
	case xr.IsTrue(then) && xr.IsFalse(orElse):
		return r.reduce(xr.IsNull(subject), m), true

	// if (x == null) null else x -> x
	case xr.IsNullConst(then) && xr.Equal(r.reduce(subject, m), r.reduce(orElse, m)):
		return r.reduce(orElse, m), true

	// Whole-row null checks collapse to the else branch.
	case xrtype.IsProduct(subject.XRType()):
		return r.reduce(orElse, m), true
	}
	return nil, false
}

// simplifyBinary implements the boolean laws and constant folding.
func (r *reducer) simplifyBinary(b xr.BinaryOp, m Substitutions) (xr.XR, bool) {
	switch b.Op {
	case xr.OpEq:
		// true == false -> false (and the other literal pairs)
		if lhs, ok := b.A.(xr.ConstBool); ok {
			if rhs, ok := b.B.(xr.ConstBool); ok {
				return xr.Bool(lhs.Value == rhs.Value), true
			}
		}
		// true == x -> x
		if other, ok := xr.OneSideIs(b, xr.OpEq, xr.IsTrue); ok {
			return r.reduce(other, m), true
		}

	case xr.OpOr:
		// true || x -> true
		if _, ok := xr.OneSideIs(b, xr.OpOr, xr.IsTrue); ok {
			return xr.Bool(true), true
		}
		// false || x -> x
		if other, ok := xr.OneSideIs(b, xr.OpOr, xr.IsFalse); ok {
			return r.reduce(other, m), true
		}

	case xr.OpAnd:
		// true && x -> x
		if other, ok := xr.OneSideIs(b, xr.OpAnd, xr.IsTrue); ok {
			return r.reduce(other, m), true
		}
		// false && x -> false
		if _, ok := xr.OneSideIs(b, xr.OpAnd, xr.IsFalse); ok {
			return xr.Bool(false), true
		}
	}
	if folded, ok := foldConstants(b); ok {
		return folded, true
	}
	return nil, false
}

// simplifyProperty distributes a field access over a conditional and
// projects a field out of a record construction.
func (r *reducer) simplifyProperty(p xr.Property, m Substitutions) (xr.XR, bool) {
	switch of := p.Of.(type) {
	case xr.When:
		return r.reduce(nestProperty(of, p.Name), m), true
	case xr.Product:
		value, ok := of.Field(p.Name)
		if !ok {
			fail(ErrCodeFieldNotFound,
				fmt.Sprintf("field %q not found in %s", p.Name, of.XRType()), p, of)
		}
		return r.reduce(value, m), true
	}
	return nil, false
}

// nestProperty pushes a field access into every branch of w.
func nestProperty(w xr.When, name string) xr.When {
	branches := make([]xr.Branch, len(w.Branches))
	for i, b := range w.Branches {
		branches[i] = xr.Branch{Location: b.Location, Cond: b.Cond, Then: xr.Property{Location: b.Then.Source(), Of: b.Then, Name: name}}
	}
	var orElse xr.Expression
	if w.OrElse != nil {
		orElse = xr.Property{Location: w.OrElse.Source(), Of: w.OrElse, Name: name}
	}
	return xr.When{Location: w.Location, Branches: branches, OrElse: orElse}
}
