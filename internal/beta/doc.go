// Package beta implements beta-reduction of XR trees: substitution of
// identifiers (or whole sub-trees) by value, inlining of function
// applications, collapse of let-blocks and a fixed catalogue of algebraic
// simplifications, iterated to a fixpoint.
//
// ARCHITECTURE:
//
//	Reduce(tree, subst, opts...)
//	  validate supplied pairs (type meet)     -> TYPE_MISMATCH / EMPTY_PRODUCT
//	  loop:
//	    pass(tree, subst)                      -> replaceAtHead at every node
//	    tree unchanged?                        -> done
//	    iterations > bound?                    -> NOT_CONVERGED
//	    subst = {}                             -> later passes only simplify
//
// replaceAtHead:
//
//	node is a key of subst  -> replacement, reduced without that key or its
//	                           value, then type-corrected
//	a rule matches          -> rule result, reduced under the same subst
//	otherwise               -> children reduced; binders shadow their names
//
// CRITICAL PATTERNS:
//
//   - Binders (Map, FlatMap, ConcatMap, Filter, SortBy, FlatJoin,
//     DistinctOn, FunctionN, Block statements and action aliases) remove
//     every substitution whose key mentions the bound name before their
//     body is reduced.
//   - Function application is capture-avoiding: parameters whose names occur
//     free in the arguments are first renamed to fresh temporaries.
//   - Type correction during substitution never fails; only the supplied
//     pairs are validated strictly.
//   - Reduction is pure. Separate calls share no state and may run in
//     parallel.
package beta
