// Package xr defines XR, the algebraic intermediate representation of queries,
// expressions and actions.
//
// This package contains node definitions and pure helpers only. Every other
// internal package imports xr; xr imports nothing internal except xrtype.
//
// ARCHITECTURE:
//
// XR is a closed, tagged union made of three sealed families:
//
//	Expression  Ident, Const*, Property, BinaryOp, UnaryOp, FunctionN,
//	            FunctionApply, When, Block, Product, MethodCall, GlobalCall,
//	            QueryToExpr, Window, TagForParam, TagForSqlExpression,
//	            PlaceholderParam
//	Query       Entity, Map, FlatMap, ConcatMap, Filter, SortBy, FlatJoin,
//	            FlatGroupBy, FlatSortBy, FlatFilter, Union, UnionAll,
//	            Distinct, DistinctOn, Take, Drop, Nested, ExprToQuery,
//	            CustomQueryRef, TagForSqlQuery
//	Action      Insert, Update, Delete, OnConflict, FilteredAction,
//	            Returning, TagForSqlAction
//
// Free is a raw SQL fragment and belongs to all three families. Branch,
// Variable, Assignment and Batching are helper nodes that are XR but not
// members of any family.
//
// CRITICAL PATTERNS:
//
// Immutable value trees:
// Nodes are plain structs held by value. Rewrites build new trees; nothing is
// shared-and-mutated. There are no back references and no cycles.
//
// Location is not identity:
// Every node embeds Location. Equal, MarshalCanonical and Hash ignore it, so
// two trees that differ only in source location are the same tree.
//
// Derived types:
// XRType() is computed from children for most nodes (Map.XRType() is the body
// type, Filter.XRType() is the head type). Only leaves carry a type slot.
//
// Sealed families:
// Expression, Query and Action use unexported marker methods, so type switches
// in this module can be exhaustive:
//
//	switch q := query.(type) {
//	case xr.Map:
//	    // ...
//	case xr.Filter:
//	    // ...
//	}
package xr
