package xr

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/roach88/xrq/internal/xrtype"
)

// The kind registry maps the "kind" discriminator used by the canonical
// encoding back to concrete Go types. Several packages may register the same
// kind name (xr.Product and xrtype.Product); decoders pick the candidate that
// is assignable to the interface they are filling.
var (
	kindsMu sync.RWMutex
	kinds   = map[string][]reflect.Type{}
)

// RegisterKind registers the concrete type of each sample under its type
// name. Registering the same type twice is a no-op.
func RegisterKind(samples ...any) {
	kindsMu.Lock()
	defer kindsMu.Unlock()
	for _, s := range samples {
		t := reflect.TypeOf(s)
		if t == nil || t.Kind() != reflect.Struct || t.Name() == "" {
			panic(fmt.Sprintf("xr: cannot register kind %T", s))
		}
		name := t.Name()
		dup := false
		for _, existing := range kinds[name] {
			if existing == t {
				dup = true
				break
			}
		}
		if !dup {
			kinds[name] = append(kinds[name], t)
		}
	}
}

// LookupKind returns the registered type named kind that is assignable to
// target. Target is normally an interface type such as Expression.
func LookupKind(kind string, target reflect.Type) (reflect.Type, bool) {
	kindsMu.RLock()
	defer kindsMu.RUnlock()
	for _, t := range kinds[kind] {
		if t.AssignableTo(target) {
			return t, true
		}
	}
	return nil, false
}

// IsKind reports whether t has been registered.
func IsKind(t reflect.Type) bool {
	kindsMu.RLock()
	defer kindsMu.RUnlock()
	for _, existing := range kinds[t.Name()] {
		if existing == t {
			return true
		}
	}
	return false
}

// KindNames lists every registered kind, sorted.
func KindNames() []string {
	kindsMu.RLock()
	defer kindsMu.RUnlock()
	names := make([]string, 0, len(kinds))
	for name := range kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	RegisterKind(
		// types
		xrtype.Value{}, xrtype.BooleanValue{}, xrtype.BooleanExpression{},
		xrtype.Null{}, xrtype.Generic{}, xrtype.Unknown{}, xrtype.Product{},

		// expressions
		Ident{}, Property{}, BinaryOp{}, UnaryOp{}, FunctionN{}, FunctionApply{},
		Branch{}, When{}, Variable{}, Block{}, Product{}, MethodCall{}, GlobalCall{},
		QueryToExpr{}, Window{}, TagForParam{}, TagForSqlExpression{}, PlaceholderParam{},

		// constants
		ConstBool{}, ConstChar{}, ConstByte{}, ConstShort{}, ConstInt{}, ConstLong{},
		ConstString{}, ConstFloat{}, ConstDouble{}, ConstNull{},

		// queries
		Entity{}, Map{}, FlatMap{}, ConcatMap{}, Filter{}, SortBy{}, FlatJoin{},
		FlatGroupBy{}, FlatSortBy{}, FlatFilter{}, Union{}, UnionAll{}, Distinct{},
		DistinctOn{}, Take{}, Drop{}, Nested{}, ExprToQuery{}, CustomQueryRef{}, TagForSqlQuery{},

		// actions
		Assignment{}, Insert{}, Update{}, Delete{}, OnConflict{}, FilteredAction{},
		Returning{}, TagForSqlAction{}, Batching{}, Free{},
	)
}
