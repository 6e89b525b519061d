package morphlex

import "github.com/morphlex/morphlex/pkg/morphnode"

// matchResult is the outcome of matchChildren: match[j] gives the current
// index paired with reference index j, or absent if R[j] has no match;
// unmatched lists the current indices that were never claimed, for removal.
type matchResult struct {
	match     []int
	unmatched []int
}

// matchChildren runs the seven-pass matcher over current's children C and
// reference's children R, producing a partial function
// match: {0..len(R)-1} -> {0..len(C)-1} with each C index used at most
// once.
func matchChildren(idx idIndex, current, reference []*morphnode.Node) matchResult {
	claimed := make([]bool, len(current))
	match := make([]int, len(reference))

	for j := range match {
		match[j] = absent
	}

	passes := []func(idx idIndex, r *morphnode.Node, c *morphnode.Node) bool{
		passElementDeepEqual,
		passExactID,
		passIDSetOverlap,
		passStableAttribute,
		passTagName,
		passNonElementDeepEqual,
		passKindEquality,
	}

	for _, pass := range passes {
		for j, ref := range reference {
			if match[j] != absent {
				continue
			}

			for i, cand := range current {
				if claimed[i] {
					continue
				}

				if pass(idx, ref, cand) {
					match[j] = i
					claimed[i] = true

					break
				}
			}
		}
	}

	unmatched := make([]int, 0, len(current))

	for i, isClaimed := range claimed {
		if !isClaimed {
			unmatched = append(unmatched, i)
		}
	}

	return matchResult{match: match, unmatched: unmatched}
}

// isMatchingPair reports whether from/to form a matching pair: both elements
// with equal local name, and equal input type if either is a form control
// input.
func isMatchingPair(from, to *morphnode.Node) bool {
	if !from.IsElement() || !to.IsElement() {
		return false
	}

	if from.LocalName() != to.LocalName() {
		return false
	}

	if from.LocalName() == "input" && from.InputType() != to.InputType() {
		return false
	}

	return true
}

// pass 1: element deep-equality.
func passElementDeepEqual(_ idIndex, ref, cand *morphnode.Node) bool {
	return cand.IsElement() && ref.IsElement() && morphnode.DeepEqual(cand, ref)
}

// pass 2: exact, non-empty, equal id with equal local name.
func passExactID(_ idIndex, ref, cand *morphnode.Node) bool {
	if !cand.IsElement() || !ref.IsElement() || cand.LocalName() != ref.LocalName() {
		return false
	}

	refID, refOK := ref.GetAttribute("id")
	candID, candOK := cand.GetAttribute("id")

	return refOK && candOK && refID != "" && refID == candID
}

// pass 3: ID-set overlap between two elements that each have an ID-set
// index entry.
func passIDSetOverlap(idx idIndex, ref, cand *morphnode.Node) bool {
	if !cand.IsElement() || !ref.IsElement() {
		return false
	}

	return idx.overlaps(cand, ref)
}

// stableAttrs is the ordered list of attributes pass 4 checks for a shared,
// non-empty value.
var stableAttrs = []string{"name", "href", "src"}

// pass 4: equal local name and a shared non-empty name/href/src attribute.
func passStableAttribute(_ idIndex, ref, cand *morphnode.Node) bool {
	if !cand.IsElement() || !ref.IsElement() || cand.LocalName() != ref.LocalName() {
		return false
	}

	for _, attrName := range stableAttrs {
		refVal, refOK := ref.GetAttribute(attrName)
		if !refOK || refVal == "" {
			continue
		}

		if candVal, candOK := cand.GetAttribute(attrName); candOK && candVal == refVal {
			return true
		}
	}

	return false
}

// pass 5: equal local name (and equal input type for form controls).
func passTagName(_ idIndex, ref, cand *morphnode.Node) bool {
	return isMatchingPair(cand, ref)
}

// pass 6: non-element deep-equality. Whitespace-only text on the current
// side is excluded from kind-equality (pass 7) but remains eligible here,
// an asymmetry with pass 7, which never matches whitespace by kind alone.
func passNonElementDeepEqual(_ idIndex, ref, cand *morphnode.Node) bool {
	if cand.IsElement() || ref.IsElement() {
		return false
	}

	return morphnode.DeepEqual(cand, ref)
}

// pass 7: same non-element kind. Whitespace-only current text nodes are
// first-class removal candidates and are skipped here.
func passKindEquality(_ idIndex, ref, cand *morphnode.Node) bool {
	if cand.IsElement() || ref.IsElement() {
		return false
	}

	if cand.IsWhitespaceText() {
		return false
	}

	return cand.Kind == ref.Kind
}
