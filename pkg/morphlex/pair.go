package morphlex

import "github.com/morphlex/morphlex/pkg/morphnode"

// pairMorph updates a in place, recursing into children as needed, so that
// a becomes structurally and attributively equivalent to b while
// preserving a's identity wherever possible.
func pairMorph(opts *Options, idx idIndex, a, b *morphnode.Node) {
	if a == b {
		return
	}

	if morphnode.DeepEqual(a, b) {
		return
	}

	if !opts.beforeNodeVisited(a, b) {
		return
	}

	switch {
	case isMatchingPair(a, b):
		wasDirty := a.HasAttribute(morphnode.DirtyAttr)

		morphAttributes(opts, a, b)

		if a.LocalName() == "textarea" {
			morphTextarea(opts, a, b, wasDirty)
		} else if len(a.Children) > 0 || len(b.Children) > 0 {
			childrenPass(opts, idx, a, b)
		}
	case a.Kind == b.Kind && isTextualKind(a.Kind):
		a.SetTextValue(b.TextValue())
	default:
		replaceNode(opts, a, b)
	}

	opts.afterNodeVisited(a, b)
}

func isTextualKind(k morphnode.Kind) bool {
	return k == morphnode.KindText || k == morphnode.KindComment || k == morphnode.KindCDATA
}

// replaceNode replaces a with a deep clone of b in a's parent. Both
// beforeNodeRemoved(a) and beforeNodeAdded(parent, b, anchor) must approve
// or the replacement is cancelled entirely; a veto from either hook leaves
// a untouched.
func replaceNode(opts *Options, a, b *morphnode.Node) {
	parent := a.Parent
	if parent == nil {
		return
	}

	anchor := nextSibling(a)

	if !opts.beforeNodeRemoved(a) {
		return
	}

	if !opts.beforeNodeAdded(parent, b, anchor) {
		return
	}

	a.Remove()
	opts.afterNodeRemoved(a)

	clone := morphnode.CloneDeep(b)
	parent.InsertBefore(clone, anchor)
	opts.afterNodeAdded(clone)
}

// childrenPass runs the seven-pass matcher and the reorder-and-commit walk
// for parent's children against refParent's children, gated by
// beforeChildrenVisited/afterChildrenVisited.
func childrenPass(opts *Options, idx idIndex, parent, refParent *morphnode.Node) {
	if !opts.beforeChildrenVisited(parent) {
		return
	}

	snapshot := append([]*morphnode.Node(nil), parent.Children...)
	result := matchChildren(idx, snapshot, refParent.Children)

	reorderAndCommit(opts, idx, parent, snapshot, refParent.Children, result)

	opts.afterChildrenVisited(parent)
}

// reorderAndCommit removes every unmatched candidate first, computes the
// LIS of the matched-index sequence to find the fixed points that do not
// move, then walks reference order moving/inserting/recursing so that
// parent's children end up in exactly reference's order and count.
//
// The walk's insertion point starts at parent's first surviving child,
// read only after the unmatched-removal loop below has run: that loop
// removes from parent's own children, so reading the anchor beforehand
// risks starting the walk from a node it just detached.
func reorderAndCommit(
	opts *Options,
	idx idIndex,
	parent *morphnode.Node,
	snapshot []*morphnode.Node,
	reference []*morphnode.Node,
	result matchResult,
) {
	for _, i := range result.unmatched {
		node := snapshot[i]

		if !opts.beforeNodeRemoved(node) {
			continue
		}

		node.Remove()
		opts.afterNodeRemoved(node)
	}

	fixed := longestIncreasingIndices(result.match)

	var insertionPoint *morphnode.Node
	if len(parent.Children) > 0 {
		insertionPoint = parent.Children[0]
	}

	for j, ref := range reference {
		matchedIdx := result.match[j]

		if matchedIdx == absent {
			if !opts.beforeNodeAdded(parent, ref, insertionPoint) {
				continue
			}

			clone := morphnode.CloneDeep(ref)
			parent.InsertBefore(clone, insertionPoint)
			opts.afterNodeAdded(clone)
			insertionPoint = nextSibling(clone)

			continue
		}

		node := snapshot[matchedIdx]

		if _, isFixed := fixed[matchedIdx]; !isFixed {
			parent.MoveBefore(node, insertionPoint)
		}

		pairMorph(opts, idx, node, ref)
		insertionPoint = nextSibling(node)
	}
}

// nextSibling returns the child immediately after node in its parent, or
// nil if node is last or has no parent.
func nextSibling(node *morphnode.Node) *morphnode.Node {
	if node.Parent == nil {
		return nil
	}

	siblings := node.Parent.Children

	for i, c := range siblings {
		if c == node {
			if i+1 < len(siblings) {
				return siblings[i+1]
			}

			return nil
		}
	}

	return nil
}
