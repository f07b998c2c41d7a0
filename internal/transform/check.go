package transform

import "github.com/roach88/xrq/internal/xr"

// Walk visits x and its descendants in pre-order. Returning false from visit
// stops the walk. Custom queries are walked through their Children.
func Walk(x xr.XR, visit func(xr.XR) bool) {
	walk(x, visit)
}

func walk(x xr.XR, visit func(xr.XR) bool) bool {
	if x == nil {
		return true
	}
	if !visit(x) {
		return false
	}
	if ref, ok := x.(xr.CustomQueryRef); ok {
		if ref.Custom == nil {
			return true
		}
		for _, c := range ref.Custom.Children() {
			if !walk(c, visit) {
				return false
			}
		}
		return true
	}
	keepGoing := true
	Children(x, func(c xr.XR) xr.XR {
		if keepGoing {
			keepGoing = walk(c, visit)
		}
		return c
	})
	return keepGoing
}

// Exists reports whether any node of the tree satisfies pred. The traversal
// stops at the first match.
func Exists(x xr.XR, pred func(xr.XR) bool) bool {
	found := false
	Walk(x, func(n xr.XR) bool {
		if pred(n) {
			found = true
			return false
		}
		return true
	})
	return found
}

// Collect gathers every node of type T in pre-order.
func Collect[T xr.XR](x xr.XR) []T {
	var out []T
	Walk(x, func(n xr.XR) bool {
		if v, ok := n.(T); ok {
			out = append(out, v)
		}
		return true
	})
	return out
}

// CollectWhere gathers every node satisfying pred in pre-order.
func CollectWhere(x xr.XR, pred func(xr.XR) bool) []xr.XR {
	var out []xr.XR
	Walk(x, func(n xr.XR) bool {
		if pred(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Count returns the number of nodes in the tree.
func Count(x xr.XR) int {
	n := 0
	Walk(x, func(xr.XR) bool {
		n++
		return true
	})
	return n
}
