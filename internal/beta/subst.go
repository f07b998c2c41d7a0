package beta

import (
	"slices"

	"github.com/roach88/xrq/internal/transform"
	"github.com/roach88/xrq/internal/xr"
)

// Pair maps one sub-tree to another.
//
// A pair normally matches nodes structurally equal to From, so an
// identifier key matches on both name and type. A relaxed pair (built with
// ByName) matches any identifier with From's name whatever its type; the
// engine uses these for let-bound and parameter names.
type Pair struct {
	From xr.QueryOrExpression
	To   xr.QueryOrExpression

	byName  bool
	rename  bool
	settled bool
}

// Sub builds a structural pair.
func Sub(from, to xr.QueryOrExpression) Pair {
	return Pair{From: from, To: to}
}

// ByName builds a relaxed pair keyed on an identifier's name.
func ByName(from xr.Ident, to xr.QueryOrExpression) Pair {
	return Pair{From: from, To: to, byName: true}
}

// renameTo builds the relaxed pair that alpha-renames a binder. Rename
// pairs never apply inside a replacement: a replacement comes from outside
// the binder's scope.
func renameTo(from, to xr.Ident) Pair {
	return Pair{From: from, To: to, byName: true, rename: true}
}

// letBinding builds the relaxed pair for a let-bound name. Its value has
// already been reduced under the enclosing substitutions and is inserted as
// is.
func letBinding(from xr.Ident, to xr.QueryOrExpression) Pair {
	return Pair{From: from, To: to, byName: true, settled: true}
}

// IsByName reports whether p matches identifiers by name only.
func (p Pair) IsByName() bool { return p.byName }

func (p Pair) matches(x xr.XR) bool {
	if p.byName {
		id, ok := x.(xr.Ident)
		from, _ := p.From.(xr.Ident)
		return ok && id.Name == from.Name
	}
	return xr.Equal(p.From, x)
}

// Substitutions is an ordered, immutable map from sub-trees to sub-trees.
// The first matching pair wins. Every update returns a new value.
type Substitutions struct {
	pairs []Pair
}

// NewSubstitutions builds a map from pairs. A later pair for the same key
// replaces an earlier one.
func NewSubstitutions(pairs ...Pair) Substitutions {
	var s Substitutions
	for _, p := range pairs {
		s = s.With(p)
	}
	return s
}

// Len returns the number of pairs.
func (s Substitutions) Len() int { return len(s.pairs) }

// IsEmpty reports whether there are no pairs.
func (s Substitutions) IsEmpty() bool { return len(s.pairs) == 0 }

// Pairs returns a copy of the pairs in order.
func (s Substitutions) Pairs() []Pair { return slices.Clone(s.pairs) }

// Lookup returns the replacement for x.
func (s Substitutions) Lookup(x xr.XR) (xr.QueryOrExpression, bool) {
	p, ok := s.lookup(x)
	return p.To, ok
}

func (s Substitutions) lookup(x xr.XR) (Pair, bool) {
	for _, p := range s.pairs {
		if p.matches(x) {
			return p, true
		}
	}
	return Pair{}, false
}

// With adds p, replacing any pair with the same key.
func (s Substitutions) With(p Pair) Substitutions {
	out := make([]Pair, 0, len(s.pairs)+1)
	for _, existing := range s.pairs {
		if existing.byName == p.byName && xr.Equal(existing.From, p.From) {
			continue
		}
		out = append(out, existing)
	}
	return Substitutions{pairs: append(out, p)}
}

// Without removes every pair matching one of keys. Relaxed pairs are removed
// by any identifier with their name.
func (s Substitutions) Without(keys ...xr.XR) Substitutions {
	return s.filter(func(p Pair) bool {
		for _, k := range keys {
			if k != nil && (p.matches(k) || xr.Equal(p.From, k)) {
				return false
			}
		}
		return true
	})
}

// Shadow removes every pair whose key mentions one of names free. It is
// applied when entering the scope of a binder for those names.
func (s Substitutions) Shadow(names ...string) Substitutions {
	if len(names) == 0 || s.IsEmpty() {
		return s
	}
	return s.filter(func(p Pair) bool {
		for _, n := range names {
			if transform.IsFree(p.From, n) {
				return false
			}
		}
		return true
	})
}

// withoutRenames drops the binder renames.
func (s Substitutions) withoutRenames() Substitutions {
	return s.filter(func(p Pair) bool { return !p.rename })
}

// valuesMention reports whether a replacement mentions name free.
func (s Substitutions) valuesMention(name string) bool {
	for _, p := range s.pairs {
		if transform.IsFree(p.To, name) {
			return true
		}
	}
	return false
}

func (s Substitutions) filter(keep func(Pair) bool) Substitutions {
	if s.IsEmpty() {
		return s
	}
	out := make([]Pair, 0, len(s.pairs))
	for _, p := range s.pairs {
		if keep(p) {
			out = append(out, p)
		}
	}
	return Substitutions{pairs: out}
}
