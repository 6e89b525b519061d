// Package morphnode provides the concrete tree node structure and the
// primitive operations morphlex's core engine requires of a host tree:
// kind/name inspection, attribute and property access, child insertion,
// state-preserving repositioning, structural equality, and deep cloning.
package morphnode

import (
	"sort"
	"strings"
	"sync"
)

// Kind identifies the category of a Node, mirroring the numeric kind tag
// a host tree exposes via kind(node).
type Kind int

// Node kinds the engine distinguishes.
const (
	KindElement Kind = iota
	KindText
	KindComment
	KindCDATA
	KindDocument
	KindFragment
)

// String returns a human-readable label for the kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "element"
	case KindText:
		return "text"
	case KindComment:
		return "comment"
	case KindCDATA:
		return "cdata"
	case KindDocument:
		return "document"
	case KindFragment:
		return "fragment"
	default:
		return "unknown"
	}
}

// formStateElements is the set of local names whose elements are
// form-state elements.
var formStateElements = map[string]bool{
	"input":    true,
	"option":   true,
	"textarea": true,
	"select":   true,
}

// DirtyAttr is the transient marker morphlex-dirty.
const DirtyAttr = "morphlex-dirty"

// attr is one ordered (name, value) pair. Order is preserved the way
// attributes(element) requires.
type attr struct {
	name  string
	value string
}

// Node is the concrete tree node implementation the morph engine operates
// on. It is a parent node when Kind is KindElement, KindDocument, or
// KindFragment.
type Node struct {
	Kind      Kind
	Name      string // local_name(element); empty for non-elements.
	Value     string // text_value(node) for text/comment/CDATA.
	Parent    *Node
	Children  []*Node
	attrs     []attr
	props     map[string]any
}

// nodePool reduces allocation overhead for nodes created and discarded
// during fragment parsing and cloning.
var nodePool = sync.Pool{
	New: func() any { return &Node{} },
}

// NewElement creates a new element node with the given local name.
func NewElement(name string) *Node {
	n, ok := nodePool.Get().(*Node)
	if !ok {
		n = &Node{}
	}

	n.Kind = KindElement
	n.Name = strings.ToLower(name)
	n.Value = ""
	n.Parent = nil
	n.Children = nil
	n.attrs = nil
	n.props = nil

	return n
}

// NewText creates a new text node.
func NewText(value string) *Node {
	return &Node{Kind: KindText, Value: value}
}

// NewComment creates a new comment node.
func NewComment(value string) *Node {
	return &Node{Kind: KindComment, Value: value}
}

// NewCDATA creates a new CDATA node.
func NewCDATA(value string) *Node {
	return &Node{Kind: KindCDATA, Value: value}
}

// NewFragment creates an empty fragment (a parent node with no tag name).
func NewFragment() *Node {
	return &Node{Kind: KindFragment}
}

// Release returns a node to the pool. Callers must not use n afterward.
// Only elements created via NewElement should be released; text/comment
// nodes are cheap enough that pooling them is not worthwhile.
func (n *Node) Release() {
	if n == nil || n.Kind != KindElement {
		return
	}

	n.Name = ""
	n.Parent = nil
	n.Children = nil
	n.attrs = nil
	n.props = nil
	nodePool.Put(n)
}

// IsParent reports whether n can own children.
func (n *Node) IsParent() bool {
	return n.Kind == KindElement || n.Kind == KindDocument || n.Kind == KindFragment
}

// IsElement reports whether n is an element.
func (n *Node) IsElement() bool {
	return n.Kind == KindElement
}

// IsWhitespaceText reports whether n is a text node whose value is only
// whitespace.
func (n *Node) IsWhitespaceText() bool {
	return n.Kind == KindText && strings.TrimSpace(n.Value) == ""
}

// IsFormStateElement reports whether n is an input/option/textarea/select
// element.
func (n *Node) IsFormStateElement() bool {
	return n.Kind == KindElement && formStateElements[n.Name]
}

// InputType returns the normalized "type" attribute of an <input>, defaulting
// to "text" as HTML does, used by the form-control matching rule in pass 5
// of the child matcher.
func (n *Node) InputType() string {
	if n.Kind != KindElement || n.Name != "input" {
		return ""
	}

	if t, ok := n.GetAttribute("type"); ok && t != "" {
		return strings.ToLower(t)
	}

	return "text"
}

// LocalName returns the lowercased tag name; kind(node) == KindElement is a
// precondition of this being meaningful, but it is safe to call on any node.
func (n *Node) LocalName() string {
	return n.Name
}

// Attributes returns the ordered (name, value) pairs. The returned slice is
// a copy; mutating it does not affect n.
func (n *Node) Attributes() []struct{ Name, Value string } {
	out := make([]struct{ Name, Value string }, len(n.attrs))
	for i, a := range n.attrs {
		out[i] = struct{ Name, Value string }{a.name, a.value}
	}

	return out
}

// HasAttribute reports whether the named attribute is present.
func (n *Node) HasAttribute(name string) bool {
	return n.indexOfAttr(name) >= 0
}

// GetAttribute returns the attribute's value and whether it is present.
func (n *Node) GetAttribute(name string) (string, bool) {
	i := n.indexOfAttr(name)
	if i < 0 {
		return "", false
	}

	return n.attrs[i].value, true
}

// SetAttribute adds or updates an attribute, preserving its existing
// position when updating, appending when adding.
func (n *Node) SetAttribute(name, value string) {
	if i := n.indexOfAttr(name); i >= 0 {
		n.attrs[i].value = value

		return
	}

	n.attrs = append(n.attrs, attr{name: name, value: value})
}

// RemoveAttribute removes the named attribute if present.
func (n *Node) RemoveAttribute(name string) {
	i := n.indexOfAttr(name)
	if i < 0 {
		return
	}

	n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
}

func (n *Node) indexOfAttr(name string) int {
	for i, a := range n.attrs {
		if a.name == name {
			return i
		}
	}

	return -1
}

// Property names the engine reads/writes as typed properties.
const (
	PropValue          = "value"
	PropChecked        = "checked"
	PropSelected       = "selected"
	PropIndeterminate  = "indeterminate"
	PropDisabled       = "disabled"
	PropDefaultValue   = "defaultValue"
	PropDefaultChecked = "defaultChecked"
	PropDefaultSelected = "defaultSelected"
)

// GetProperty reads a typed property (value/checked/selected/... ), returning
// nil if unset.
func (n *Node) GetProperty(name string) any {
	if n.props == nil {
		return nil
	}

	return n.props[name]
}

// SetProperty sets a typed property.
func (n *Node) SetProperty(name string, value any) {
	if n.props == nil {
		n.props = make(map[string]any)
	}

	n.props[name] = value
}

// PropString reads a string-valued property, defaulting to "".
func (n *Node) PropString(name string) string {
	v, _ := n.GetProperty(name).(string)

	return v
}

// PropBool reads a bool-valued property, defaulting to false.
func (n *Node) PropBool(name string) bool {
	v, _ := n.GetProperty(name).(bool)

	return v
}

// TextValue returns the string value of a text/comment/CDATA node.
func (n *Node) TextValue() string {
	return n.Value
}

// SetTextValue sets the string value of a text/comment/CDATA node.
func (n *Node) SetTextValue(s string) {
	n.Value = s
}

// InsertBefore inserts node as a child of n immediately before anchor. If
// anchor is nil, node is appended. node is detached from any prior parent
// first.
func (n *Node) InsertBefore(node, anchor *Node) {
	node.detach()
	node.Parent = n

	if anchor == nil {
		n.Children = append(n.Children, node)

		return
	}

	idx := n.indexOfChild(anchor)
	if idx < 0 {
		n.Children = append(n.Children, node)

		return
	}

	n.Children = append(n.Children, nil)
	copy(n.Children[idx+1:], n.Children[idx:])
	n.Children[idx] = node
}

// MoveBefore repositions node, already a child of n, to sit immediately
// before anchor, without detach/attach semantics: any state associated with
// node's identity (as tracked by the caller) survives. If node is not
// already a child of n, this behaves like InsertBefore.
func (n *Node) MoveBefore(node, anchor *Node) {
	from := n.indexOfChild(node)
	if from < 0 {
		n.InsertBefore(node, anchor)

		return
	}

	n.Children = append(n.Children[:from], n.Children[from+1:]...)

	if anchor == nil {
		n.Children = append(n.Children, node)

		return
	}

	idx := n.indexOfChild(anchor)
	if idx < 0 {
		n.Children = append(n.Children, node)

		return
	}

	n.Children = append(n.Children, nil)
	copy(n.Children[idx+1:], n.Children[idx:])
	n.Children[idx] = node
}

// Remove detaches n from its parent.
func (n *Node) Remove() {
	n.detach()
}

func (n *Node) detach() {
	if n.Parent == nil {
		return
	}

	idx := n.Parent.indexOfChild(n)
	if idx >= 0 {
		n.Parent.Children = append(n.Parent.Children[:idx], n.Parent.Children[idx+1:]...)
	}

	n.Parent = nil
}

func (n *Node) indexOfChild(child *Node) int {
	for i, c := range n.Children {
		if c == child {
			return i
		}
	}

	return -1
}

// sortedAttrs returns a copy of n's attributes sorted by name, used only by
// DeepEqual so that attribute order does not affect structural equality:
// deep_equal is structural equality across attribute order and children.
func sortedAttrs(n *Node) []attr {
	out := make([]attr, len(n.attrs))
	copy(out, n.attrs)
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })

	return out
}

// DeepEqual reports whether a and b are structurally equal: same kind, same
// name/value, same attributes (order-independent), and recursively equal
// children (order-dependent). Parent links and node identity are ignored.
func DeepEqual(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}

	if a.Kind != b.Kind {
		return false
	}

	switch a.Kind {
	case KindText, KindComment, KindCDATA:
		return a.Value == b.Value
	case KindElement:
		if a.Name != b.Name {
			return false
		}

		if !attrsEqual(sortedAttrs(a), sortedAttrs(b)) {
			return false
		}
	case KindDocument, KindFragment:
	}

	if len(a.Children) != len(b.Children) {
		return false
	}

	for i := range a.Children {
		if !DeepEqual(a.Children[i], b.Children[i]) {
			return false
		}
	}

	return true
}

func attrsEqual(a, b []attr) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

// CloneDeep returns a deep, detached copy of n: new node objects throughout,
// no shared identity with n, no parent. Used when inserting a reference
// node that must not be moved out of the reference tree.
func CloneDeep(n *Node) *Node {
	if n == nil {
		return nil
	}

	clone := &Node{
		Kind:  n.Kind,
		Name:  n.Name,
		Value: n.Value,
		attrs: append([]attr(nil), n.attrs...),
	}

	if n.props != nil {
		clone.props = make(map[string]any, len(n.props))
		for k, v := range n.props {
			clone.props[k] = v
		}
	}

	if len(n.Children) > 0 {
		clone.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			child := CloneDeep(c)
			child.Parent = clone
			clone.Children[i] = child
		}
	}

	return clone
}
