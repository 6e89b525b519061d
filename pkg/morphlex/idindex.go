package morphlex

import "github.com/morphlex/morphlex/pkg/morphnode"

// idIndex maps a parent node to the set of non-empty IDs occurring anywhere
// in its descendant subtree (inclusive of itself). Entries are omitted for
// nodes whose subtree contributes no IDs, as an absent index entry and an
// empty set are equivalent for lookup purposes.
type idIndex map[*morphnode.Node]map[string]struct{}

// buildIDIndex walks every element carrying a non-empty ID under root and,
// for each one, adds that ID to the set of every ancestor up to and
// including root. Duplicate IDs within one tree collapse harmlessly into
// the same set; no uniqueness check is performed.
func buildIDIndex(root *morphnode.Node) idIndex {
	idx := make(idIndex)

	var walk func(ancestors []*morphnode.Node, n *morphnode.Node)

	walk = func(ancestors []*morphnode.Node, n *morphnode.Node) {
		if n == nil {
			return
		}

		path := ancestors
		if n.IsParent() {
			path = append(ancestors, n)
		}

		if n.IsElement() {
			if id, ok := n.GetAttribute("id"); ok && id != "" {
				for _, anc := range path {
					set, exists := idx[anc]
					if !exists {
						set = make(map[string]struct{})
						idx[anc] = set
					}

					set[id] = struct{}{}
				}
			}
		}

		for _, c := range n.Children {
			walk(path, c)
		}
	}

	walk(nil, root)

	return idx
}

// merge folds other's entries into idx in place and returns idx. Used to
// combine the current tree's index with the reference tree's index into a
// single per-call ID index over both trees.
func (idx idIndex) merge(other idIndex) idIndex {
	for node, set := range other {
		idx[node] = set
	}

	return idx
}

// overlaps reports whether the ID sets recorded for a and b (as tracked by
// idx) intersect in at least one member. Both sides must have an index
// entry.
func (idx idIndex) overlaps(a, b *morphnode.Node) bool {
	setA, okA := idx[a]
	if !okA {
		return false
	}

	setB, okB := idx[b]
	if !okB {
		return false
	}

	for id := range setA {
		if _, ok := setB[id]; ok {
			return true
		}
	}

	return false
}
