package morphlex

import "github.com/morphlex/morphlex/pkg/morphnode"

// Options configures a single Morph/MorphInner/MorphDocument call. Every
// callback field is optional: an absent callback behaves as if it returned
// true (for veto hooks) or was a no-op (for notification hooks).
type Options struct {
	// PreserveChanges keeps dirty form-control state during both attribute
	// passes and the text-area morph. Default false.
	PreserveChanges bool

	BeforeNodeVisited func(from, to *morphnode.Node) bool
	AfterNodeVisited  func(from, to *morphnode.Node)

	BeforeNodeAdded func(parent, node, insertionPoint *morphnode.Node) bool
	AfterNodeAdded  func(node *morphnode.Node)

	BeforeNodeRemoved func(node *morphnode.Node) bool
	AfterNodeRemoved  func(node *morphnode.Node)

	BeforeAttributeUpdated func(element *morphnode.Node, name string, newValue *string) bool
	AfterAttributeUpdated  func(element *morphnode.Node, name string, previousValue *string)

	BeforeChildrenVisited func(parent *morphnode.Node) bool
	AfterChildrenVisited  func(parent *morphnode.Node)
}

func (o *Options) preserveChanges() bool {
	return o != nil && o.PreserveChanges
}

func (o *Options) beforeNodeVisited(from, to *morphnode.Node) bool {
	if o == nil || o.BeforeNodeVisited == nil {
		return true
	}

	return o.BeforeNodeVisited(from, to)
}

func (o *Options) afterNodeVisited(from, to *morphnode.Node) {
	if o != nil && o.AfterNodeVisited != nil {
		o.AfterNodeVisited(from, to)
	}
}

func (o *Options) beforeNodeAdded(parent, node, insertionPoint *morphnode.Node) bool {
	if o == nil || o.BeforeNodeAdded == nil {
		return true
	}

	return o.BeforeNodeAdded(parent, node, insertionPoint)
}

func (o *Options) afterNodeAdded(node *morphnode.Node) {
	if o != nil && o.AfterNodeAdded != nil {
		o.AfterNodeAdded(node)
	}
}

func (o *Options) beforeNodeRemoved(node *morphnode.Node) bool {
	if o == nil || o.BeforeNodeRemoved == nil {
		return true
	}

	return o.BeforeNodeRemoved(node)
}

func (o *Options) afterNodeRemoved(node *morphnode.Node) {
	if o != nil && o.AfterNodeRemoved != nil {
		o.AfterNodeRemoved(node)
	}
}

func (o *Options) beforeAttributeUpdated(element *morphnode.Node, name string, newValue *string) bool {
	if o == nil || o.BeforeAttributeUpdated == nil {
		return true
	}

	return o.BeforeAttributeUpdated(element, name, newValue)
}

func (o *Options) afterAttributeUpdated(element *morphnode.Node, name string, previousValue *string) {
	if o != nil && o.AfterAttributeUpdated != nil {
		o.AfterAttributeUpdated(element, name, previousValue)
	}
}

func (o *Options) beforeChildrenVisited(parent *morphnode.Node) bool {
	if o == nil || o.BeforeChildrenVisited == nil {
		return true
	}

	return o.BeforeChildrenVisited(parent)
}

func (o *Options) afterChildrenVisited(parent *morphnode.Node) {
	if o != nil && o.AfterChildrenVisited != nil {
		o.AfterChildrenVisited(parent)
	}
}
