// Package selectclause lowers the imperative select-clause form of a query
// (from, join, let, where, groupBy, sortBy, then a select expression) into
// the canonical nested comprehension built from Map, FlatMap, FlatJoin,
// FlatFilter, FlatGroupBy and FlatSortBy.
//
// ARCHITECTURE:
//
//	SelectClause            - a CustomQuery holding the clause list
//	  ToQueryXR             - lowers as a nested (non-outermost) query
//	Lower(tree)             - lowers every SelectClause in a tree; the root
//	                          one as the outermost query
//	Nest / Desugar          - the right fold over the clause list
//
// Lowering shapes (prev and v are the source and variable so far):
//
//	[]                         Map(prev, v, select)
//	From(h, x)                 FlatMap(prev, v, nest(h, x, rest))
//	Join(t, x, on, c, cond)    FlatMap(prev, v, nest(FlatJoin(t, on, c, cond), x, rest))
//	ArbitraryAssignment(x, e)  ExprToQuery(Block([x = e], nest(prev, v, rest)))
//	Where(cond)                FlatMap(prev, v, nest(FlatFilter(cond), unused, rest))
//	GroupBy(e)                 FlatMap(prev, v, nest(FlatGroupBy(e), unused, rest))
//	SortBy(criteria)           FlatMap(prev, v, nest(FlatSortBy(criteria), unused, rest))
//
// CRITICAL PATTERNS:
//
//   - A nested select with a GroupBy or SortBy is wrapped in Nested so the
//     grouping or ordering is not merged into the enclosing query.
//   - Join conditions written against the default variable "it" are renamed
//     to the join's variable before nesting (SwapItVariableForOuter).
package selectclause
