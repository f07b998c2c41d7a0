package transform

import (
	"slices"

	"github.com/roach88/xrq/internal/xr"
)

type freeState struct {
	bound []string
	found []xr.Ident
}

func (s freeState) bind(names ...string) freeState {
	s.bound = append(slices.Clone(s.bound), names...)
	return s
}

// FreeIdents returns the identifiers of x that are not bound by an enclosing
// binder, in order of first occurrence. Binding is by name: a binder shadows
// every identifier with its name regardless of type.
func FreeIdents(x xr.XR) []xr.Ident {
	var root StatefulRoot[freeState]

	// scoped visits xs with names bound and keeps only what was found.
	scoped := func(s freeState, names []string, xs ...xr.XR) freeState {
		inner := s.bind(names...)
		for _, c := range xs {
			_, inner = root.Apply(c, inner)
		}
		s.found = inner.found
		return s
	}
	visit := func(s freeState, xs ...xr.XR) freeState {
		for _, c := range xs {
			_, s = root.Apply(c, s)
		}
		return s
	}

	root = func(x xr.XR, s freeState, descend func(xr.XR, freeState) (xr.XR, freeState)) (xr.XR, freeState) {
		switch v := x.(type) {
		case xr.Ident:
			if !slices.Contains(s.bound, v.Name) && !slices.ContainsFunc(s.found, func(f xr.Ident) bool { return xr.Equal(f, v) }) {
				s.found = append(s.found, v)
			}
			return x, s
		case xr.FunctionN:
			return x, scoped(s, identNames(v.Params), v.Body)
		case xr.Block:
			inner := s
			for _, stmt := range v.Stmts {
				inner = visit(inner, stmt.RHS)
				inner = inner.bind(stmt.Name.Name)
			}
			inner = visit(inner, v.Output)
			s.found = inner.found
			return x, s
		case xr.Map:
			return x, scoped(visit(s, v.Head), []string{v.ID.Name}, v.Body)
		case xr.FlatMap:
			return x, scoped(visit(s, v.Head), []string{v.ID.Name}, v.Body)
		case xr.ConcatMap:
			return x, scoped(visit(s, v.Head), []string{v.ID.Name}, v.Body)
		case xr.Filter:
			return x, scoped(visit(s, v.Head), []string{v.ID.Name}, v.Body)
		case xr.DistinctOn:
			return x, scoped(visit(s, v.Head), []string{v.ID.Name}, v.By)
		case xr.FlatJoin:
			return x, scoped(visit(s, v.Head), []string{v.ID.Name}, v.On)
		case xr.SortBy:
			return x, scoped(visit(s, v.Head), []string{v.ID.Name}, orderExprs(v.Criteria)...)
		case xr.Insert:
			return x, scoped(s, []string{v.Alias.Name}, assignmentNodes(v.Assignments, v.Exclusions)...)
		case xr.Update:
			return x, scoped(s, []string{v.Alias.Name}, assignmentNodes(v.Assignments, v.Exclusions)...)
		case xr.Delete:
			return x, s
		case xr.OnConflict:
			s = visit(s, v.Insert)
			s = scoped(s, []string{v.Insert.Alias.Name}, propertyNodes(v.Target)...)
			return x, scoped(s, []string{v.Excluded.Name, v.Existing.Name}, assignmentNodes(v.Assignments, nil)...)
		case xr.FilteredAction:
			return x, scoped(visit(s, v.Action), []string{v.Alias.Name}, v.Filter)
		case xr.Returning:
			return x, scoped(visit(s, v.Action), []string{v.Alias.Name}, v.Output)
		case xr.Batching:
			return x, scoped(s, []string{v.Alias.Name}, v.Action)
		default:
			return descend(x, s)
		}
	}

	_, s := root.Apply(x, freeState{})
	return s.found
}

// IsFree reports whether an identifier named name occurs free in x.
func IsFree(x xr.XR, name string) bool {
	for _, id := range FreeIdents(x) {
		if id.Name == name {
			return true
		}
	}
	return false
}

func identNames(ids []xr.Ident) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = id.Name
	}
	return names
}

func orderExprs(criteria []xr.OrderField) []xr.XR {
	out := make([]xr.XR, 0, len(criteria))
	for _, c := range criteria {
		out = append(out, c.Field)
	}
	return out
}

func assignmentNodes(assigns []xr.Assignment, exclusions []xr.Property) []xr.XR {
	out := make([]xr.XR, 0, len(assigns)+len(exclusions))
	for _, a := range assigns {
		out = append(out, a)
	}
	return append(out, propertyNodes(exclusions)...)
}

func propertyNodes(ps []xr.Property) []xr.XR {
	out := make([]xr.XR, 0, len(ps))
	for _, p := range ps {
		out = append(out, p)
	}
	return out
}
