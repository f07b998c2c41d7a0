// Package splice fills tag placeholders in an XR tree with the runtime
// fragments they stand for.
//
// A front end that cannot build part of a query statically leaves a tag
// node (TagForSqlExpression, TagForSqlQuery, TagForSqlAction or
// TagForParam) carrying a fresh ID, and records the fragment under that ID.
// Splice replaces every tag by its fragment before the tree is reduced.
//
// CRITICAL PATTERNS:
//
//   - Tag IDs are UUIDv7 strings from an IDGenerator; tests inject a
//     deterministic generator.
//   - A tag whose ID has no fragment is a MissingCaptureError, never a
//     silent pass-through.
//   - Fragments are coerced into the tag's position: a query fragment for
//     an expression tag is wrapped in QueryToExpr and vice versa.
package splice
