package beta

import "github.com/roach88/xrq/internal/xr"

// simplifyBlock collapses a let-block into its output with every bound name
// inlined. Statements are sequential: each right-hand side sees the
// bindings before it, and a later statement may rebind an earlier name.
// Each right-hand side is reduced under the enclosing substitutions once.
func (r *reducer) simplifyBlock(b xr.Block, m Substitutions) xr.XR {
	out := r.flatten(b.Stmts, b.Output, m)
	return r.reduce(out, Substitutions{})
}

func (r *reducer) flatten(stmts []xr.Variable, output xr.Expression, m Substitutions) xr.XR {
	if len(stmts) == 0 {
		return r.reduce(output, m)
	}
	stmt, rest := stmts[0], stmts[1:]
	rhs := r.expr(stmt.RHS, m)
	name := stmt.Name

	inner := m.Shadow(name.Name)
	if inner.valuesMention(name.Name) {
		// A replacement refers to the outer binding of this name. Rename
		// the new binding in the rest of the block so it is not captured.
		scope := []xr.XR{output}
		for _, s := range rest {
			scope = append(scope, s)
		}
		taken := usedNames(scope...)
		for _, p := range inner.pairs {
			for n := range usedNames(p.From, p.To) {
				taken[n] = true
			}
		}
		fresh := name
		fresh.Name = freshName(name.Name, taken)
		rest, output = r.renameIn(rest, output, name, fresh)
		name = fresh
	}
	return r.flatten(rest, output, inner.With(letBinding(name, rhs)))
}

// renameIn renames free uses of from to to in the remaining statements and
// output of a block, stopping at the statement that rebinds from.
func (r *reducer) renameIn(stmts []xr.Variable, output xr.Expression, from, to xr.Ident) ([]xr.Variable, xr.Expression) {
	rename := NewSubstitutions(ByName(from, to))
	plain := r.withBehavior(ReplaceWithReduction)
	out := make([]xr.Variable, len(stmts))
	for i, s := range stmts {
		s.RHS = plain.expr(s.RHS, rename)
		out[i] = s
		if s.Name.Name == from.Name {
			copy(out[i+1:], stmts[i+1:])
			return out, output
		}
	}
	return out, plain.expr(output, rename)
}
