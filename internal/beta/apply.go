package beta

import (
	"fmt"
	"strconv"

	"github.com/roach88/xrq/internal/transform"
	"github.com/roach88/xrq/internal/xr"
)

// simplifyApply handles FunctionApply: wrappers around the function are
// stripped, wrappers around a lambda body are carried over the inlined
// result, and a lambda applied to arguments is inlined.
func (r *reducer) simplifyApply(a xr.FunctionApply, m Substitutions) (xr.XR, bool) {
	if fn, wrapped := xr.Unwrap(a.Function); wrapped {
		a.Function = fn
		return r.reduce(a, m), true
	}
	if f, ok := a.Function.(xr.FunctionN); ok {
		switch body := f.Body.(type) {
		case xr.ExprToQuery:
			f.Body = body.Head
			inlined := r.inline(f, a.Args, m)
			return r.reduce(xr.AsQuery(transform.ToExpr(inlined)), Substitutions{}), true
		case xr.QueryToExpr:
			f.Body = body.Head
			inlined := r.inline(f, a.Args, m)
			return r.reduce(xr.AsExpr(transform.ToQuery(inlined)), Substitutions{}), true
		}
		return r.inline(f, a.Args, m), true
	}
	return nil, false
}

// inline substitutes args for the parameters of f without capturing any
// identifier free in args, then reduces the result under the outer map.
func (r *reducer) inline(f xr.FunctionN, args []xr.QueryOrExpression, m Substitutions) xr.XR {
	if len(f.Params) != len(args) {
		fail(ErrCodeInvalidApply,
			fmt.Sprintf("function of %d parameters applied to %d arguments", len(f.Params), len(args)),
			f, nil)
	}

	argFree := map[string]bool{}
	for _, a := range args {
		for _, id := range transform.FreeIdents(a) {
			argFree[id.Name] = true
		}
	}

	// Parameters reused by the arguments are renamed to temporaries first.
	taken := usedNames(append([]xr.XR{f}, qeToXR(args)...)...)
	var conflicts Substitutions
	newParams := make([]xr.Ident, len(f.Params))
	for i, p := range f.Params {
		if !argFree[p.Name] {
			newParams[i] = p
			continue
		}
		tmp := xr.Ident{Location: p.Location, Name: freshName("tmp_"+p.Name, taken), Type: p.Type}
		taken[tmp.Name] = true
		conflicts = conflicts.With(ByName(p, tmp))
		newParams[i] = tmp
	}

	body := f.Body
	if !conflicts.IsEmpty() {
		body = r.withBehavior(ReplaceWithReduction).reduceQE(body, conflicts)
	}

	var apply Substitutions
	for i, p := range newParams {
		apply = apply.With(ByName(p, args[i]))
	}
	body = r.reduceQE(body, apply)

	return r.reduce(body, m)
}

// renameParams reduces a lambda that is not applied. Parameters mapped to an
// identifier in m are renamed to it; the others are binders for the body.
func (r *reducer) renameParams(f xr.FunctionN, m Substitutions) xr.XR {
	params := make([]xr.Ident, len(f.Params))
	renamed := make([]bool, len(f.Params))
	var bound []xr.Ident
	for i, p := range f.Params {
		if repl, ok := m.Lookup(p); ok {
			if id, isIdent := repl.(xr.Ident); isIdent {
				params[i], renamed[i] = id, true
				continue
			}
		}
		bound = append(bound, p)
	}
	inner := m.Shadow(paramNames(bound)...)
	for i, p := range f.Params {
		if !renamed[i] {
			params[i], inner = r.enter(p, inner, f.Body)
		}
	}
	f.Params = params
	f.Body = r.reduceQE(f.Body, inner)
	return f
}

// usedNames collects every identifier name in the given trees.
func usedNames(trees ...xr.XR) map[string]bool {
	names := map[string]bool{}
	for _, t := range trees {
		for _, id := range transform.Collect[xr.Ident](t) {
			names[id.Name] = true
		}
	}
	return names
}

// freshName returns base, or base with the smallest numeric suffix, that is
// not in taken.
func freshName(base string, taken map[string]bool) string {
	if !taken[base] {
		return base
	}
	for i := 1; ; i++ {
		candidate := base + strconv.Itoa(i)
		if !taken[candidate] {
			return candidate
		}
	}
}

func qeToXR(xs []xr.QueryOrExpression) []xr.XR {
	out := make([]xr.XR, len(xs))
	for i, x := range xs {
		out[i] = x
	}
	return out
}
