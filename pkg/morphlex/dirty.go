package morphlex

import "github.com/morphlex/morphlex/pkg/morphnode"

// markDirty walks the current tree before any mutation and sets the
// morphlex-dirty marker on any form-state element whose live
// value/checked/selected differs from its declared default. Elements
// without a "name" attribute are skipped; a name (or equivalent identifier)
// is required for the dirty marker to apply.
func markDirty(root *morphnode.Node) {
	var walk func(n *morphnode.Node)

	walk = func(n *morphnode.Node) {
		if n == nil {
			return
		}

		if n.IsElement() && n.IsFormStateElement() && n.HasAttribute("name") && isDirty(n) {
			n.SetAttribute(morphnode.DirtyAttr, "")
		}

		for _, c := range n.Children {
			walk(c)
		}
	}

	walk(root)
}

// isDirty reports whether n's live state has diverged from its declared
// default.
func isDirty(n *morphnode.Node) bool {
	if n.PropString(morphnode.PropValue) != n.PropString(morphnode.PropDefaultValue) {
		return true
	}

	if n.PropBool(morphnode.PropChecked) != n.PropBool(morphnode.PropDefaultChecked) {
		return true
	}

	if n.PropBool(morphnode.PropSelected) != n.PropBool(morphnode.PropDefaultSelected) {
		return true
	}

	return false
}
