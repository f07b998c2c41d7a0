package xr

import "fmt"

// Location is the source position a node was produced from.
// The zero Location is synthetic (produced by a rewrite).
//
// Location is embedded in every node. It is used for diagnostics only and
// never participates in equality or hashing.
type Location struct {
	File   string
	Line   int
	Column int
}

// Synthetic is the location of nodes created by rewrites.
var Synthetic = Location{}

// xrNode marks every struct embedding Location as an XR node.
func (Location) xrNode() {}

// Source returns the location itself; promoted to every node.
func (l Location) Source() Location { return l }

// IsSynthetic reports whether the location is unknown.
func (l Location) IsSynthetic() bool {
	return l == Synthetic
}

// Position renders the location as file:line:column.
func (l Location) Position() string {
	if l.IsSynthetic() {
		return "<synthetic>"
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}
