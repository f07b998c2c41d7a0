// Package xrcue decodes XR trees and substitution maps from CUE sources.
//
// The format mirrors canonical JSON: every node and type is a struct with a
// "kind" discriminator naming its Go type, fields use the snake_case JSON
// names, and absent children are null or omitted. Since JSON is valid CUE,
// canonical JSON files decode too. CUE adds comments, references and
// definitions, so hand-written trees can share sub-trees:
//
//	#Person: {kind: "Product", name: "Person", fields: [{name: "age", type: {kind: "Value"}}]}
//	_p: {kind: "Ident", name: "p", type: #Person}
//
//	tree: {
//		kind: "Filter"
//		head: {kind: "Entity", name: "person", type: #Person}
//		id:   _p
//		body: {kind: "BinaryOp", a: {kind: "Property", of: _p, name: "age"}, op: ">", b: {kind: "ConstInt", value: 18}}
//	}
//	substitutions: [...]
//
// Every decoded node carries the CUE position of the struct it came from as
// its xr.Location.
package xrcue
