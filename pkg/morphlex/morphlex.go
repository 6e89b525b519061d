// Package morphlex morphs an existing tree of nodes in place to match a
// reference tree, preserving the identity of every node it can reuse and
// issuing the minimal set of structural edits needed to reach the
// reference shape.
package morphlex

import (
	"fmt"

	"github.com/morphlex/morphlex/pkg/morphnode"
)

// resolveSequence normalizes a Morph/MorphInner "to" argument into an
// ordered slice of detached reference nodes. Accepted shapes are a single
// *morphnode.Node, a []*morphnode.Node, or a markup string to be parsed.
func resolveSequence(to any) ([]*morphnode.Node, error) {
	switch v := to.(type) {
	case *morphnode.Node:
		if v == nil {
			return nil, nil
		}

		return []*morphnode.Node{v}, nil
	case []*morphnode.Node:
		return v, nil
	case string:
		nodes, err := morphnode.ParseFragment(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}

		return nodes, nil
	default:
		return nil, fmt.Errorf("%w: unsupported reference type %T", ErrParse, to)
	}
}

func root(n *morphnode.Node) *morphnode.Node {
	for n.Parent != nil {
		n = n.Parent
	}

	return n
}

// buildMorphIndex populates the ID index over both the current node's tree
// and every reference node's tree.
func buildMorphIndex(from *morphnode.Node, refs []*morphnode.Node) idIndex {
	idx := buildIDIndex(root(from))

	for _, r := range refs {
		idx = idx.merge(buildIDIndex(r))
	}

	return idx
}

// Morph updates from in place so that it (and, when to describes more than
// one node, its following siblings) matches to. from must already be
// attached to a parent when to resolves to zero or more than one node,
// since those cases add or remove siblings around from.
//
// to may be a *morphnode.Node, a []*morphnode.Node, or a markup string.
func Morph(from *morphnode.Node, to any, options *Options) error {
	if from == nil {
		return fmt.Errorf("%w: from is nil", ErrParse)
	}

	refs, err := resolveSequence(to)
	if err != nil {
		return err
	}

	markDirty(root(from))

	idx := buildMorphIndex(from, refs)

	switch len(refs) {
	case 0:
		if !options.beforeNodeRemoved(from) {
			return nil
		}

		from.Remove()
		options.afterNodeRemoved(from)
	case 1:
		pairMorph(options, idx, from, refs[0])
	default:
		parent := from.Parent
		if parent == nil {
			return fmt.Errorf("%w: from has no parent for a multi-node morph", ErrParse)
		}

		pairMorph(options, idx, from, refs[0])

		anchor := nextSibling(from)

		for _, ref := range refs[1:] {
			if !options.beforeNodeAdded(parent, ref, anchor) {
				continue
			}

			clone := morphnode.CloneDeep(ref)
			parent.InsertBefore(clone, anchor)
			options.afterNodeAdded(clone)
		}
	}

	return nil
}

// MorphInner morphs from's children to match to's children, without
// touching from itself, provided from and to are a matching element pair.
// to may be a *morphnode.Node or a markup string that must parse to
// exactly one element; any other shape, or a non-matching pair, fails with
// ErrInvalidInnerMorph.
func MorphInner(from *morphnode.Node, to any, options *Options) error {
	if from == nil || !from.IsElement() {
		return fmt.Errorf("%w: from is not an element", ErrInvalidInnerMorph)
	}

	var ref *morphnode.Node

	switch v := to.(type) {
	case *morphnode.Node:
		ref = v
	case string:
		parsed, err := morphnode.ParseElement(v)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInnerMorph, err)
		}

		ref = parsed
	default:
		return fmt.Errorf("%w: unsupported reference type %T", ErrInvalidInnerMorph, to)
	}

	if !isMatchingPair(from, ref) {
		return fmt.Errorf("%w: from and to are not a matching element pair", ErrInvalidInnerMorph)
	}

	markDirty(root(from))

	idx := buildIDIndex(root(from)).merge(buildIDIndex(ref))

	childrenPass(options, idx, from, ref)

	return nil
}

// MorphDocument morphs from, the root <html> element of the current
// document, to match to, the root <html> element of a full reference
// document. to may be a *morphnode.Node or a full HTML document string.
func MorphDocument(from *morphnode.Node, to any, options *Options) error {
	if from == nil {
		return fmt.Errorf("%w: from is nil", ErrParse)
	}

	var ref *morphnode.Node

	switch v := to.(type) {
	case *morphnode.Node:
		ref = v
	case string:
		parsed, err := morphnode.ParseDocument(v)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrParse, err)
		}

		ref = parsed
	default:
		return fmt.Errorf("%w: unsupported reference type %T", ErrParse, to)
	}

	markDirty(from)

	idx := buildIDIndex(from).merge(buildIDIndex(ref))

	pairMorph(options, idx, from, ref)

	return nil
}
