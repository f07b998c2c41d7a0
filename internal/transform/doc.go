// Package transform provides generic traversal over XR trees.
//
// ARCHITECTURE:
//
//	Children          - rebuild one node with f applied to each child (the
//	                    single exhaustive switch over every node kind)
//	Stateless         - tree -> tree rewrites with per-kind overrides
//	Stateful[S]       - tree, state -> tree, state with left-to-right threading
//	Root / StatefulRoot - one hook every dispatch path funnels through
//	Walk / Exists     - read-only pre-order traversal with early exit
//	Collect / FreeIdents - gather sub-trees into a flat list
//
// CRITICAL PATTERNS:
//
//   - Overrides call DefaultExpr/DefaultQuery/DefaultAction (passing
//     themselves) for the cases they do not handle, so recursion keeps
//     dispatching through the override.
//   - State is threaded strictly left to right in field order: each child
//     sees the state produced by the previous child.
//   - Nodes are values. Rewrites return new trees; nothing is mutated.
package transform
