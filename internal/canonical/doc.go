// Package canonical checks that an XR tree is in the canonical form handed
// to SQL generation: fully beta-reduced, with no sugar left over.
//
// CANONICAL FORM:
//
// A canonical tree contains none of:
//   - FunctionApply, FunctionN or Block (beta-reduction inlines them)
//   - ExprToQuery(QueryToExpr(x)) or QueryToExpr(ExprToQuery(x))
//   - CustomQueryRef (select clauses are lowered first)
//   - a conditional on a literal condition
//   - Property over a record construction or a conditional
//   - a flat statement (FlatFilter, FlatGroupBy, FlatSortBy, FlatJoin)
//     outside a FlatMap chain
//
// Non-canonical trees are reported, not rejected: the result lists a
// warning per offending node. Validate is a pure function.
package canonical
