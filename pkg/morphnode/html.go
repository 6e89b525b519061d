package morphnode

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrNoRoot is returned when parsing a string yields no usable fragment
// root; it is one of the conditions a ParseError wraps.
var ErrNoRoot = errors.New("morphnode: parsed fragment has no root")

// ParseFragment parses s as an HTML fragment and returns its children as an
// ordered slice of detached *Node values. An empty string yields a
// zero-length, non-nil slice: a sequence of length 0 means "remove from". A
// whitespace-only string yields a single whitespace text node.
func ParseFragment(s string) ([]*Node, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}

	nodes, err := html.ParseFragment(strings.NewReader(s), context)
	if err != nil {
		return nil, fmt.Errorf("parse html fragment: %w", err)
	}

	out := make([]*Node, 0, len(nodes))

	for _, n := range nodes {
		converted := fromHTML(n)
		if converted != nil {
			out = append(out, converted)
		}
	}

	return out, nil
}

// ParseElement parses s and requires it to yield exactly one element node,
// the precondition MorphInner enforces.
func ParseElement(s string) (*Node, error) {
	nodes, err := ParseFragment(s)
	if err != nil {
		return nil, err
	}

	var elementCount int

	var only *Node

	for _, n := range nodes {
		if n.Kind == KindElement {
			elementCount++
			only = n
		} else if !n.IsWhitespaceText() {
			elementCount += 2 // force failure below; non-whitespace, non-element content present
		}
	}

	if elementCount != 1 || only == nil {
		return nil, fmt.Errorf("%w: expected exactly one element", ErrNoRoot)
	}

	return only, nil
}

// ParseDocument parses s as a full HTML document and returns its root
// element (<html>), used by MorphDocument.
func ParseDocument(s string) (*Node, error) {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return nil, fmt.Errorf("parse html document: %w", err)
	}

	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Html {
			return fromHTML(c), nil
		}
	}

	return nil, ErrNoRoot
}

// fromHTML converts an *html.Node (and its subtree) into a detached *Node.
// Doctype and unknown node kinds are dropped (they have no morphlex-kind
// analogue); everything else maps 1:1.
func fromHTML(n *html.Node) *Node {
	switch n.Type {
	case html.ElementNode:
		el := NewElement(n.Data)
		for _, a := range n.Attr {
			el.SetAttribute(a.Key, a.Val)
		}

		seedFormProperties(el)

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			child := fromHTML(c)
			if child != nil {
				el.InsertBefore(child, nil)
			}
		}

		return el
	case html.TextNode:
		return NewText(n.Data)
	case html.CommentNode:
		return NewComment(n.Data)
	case html.DoctypeNode, html.DocumentNode:
		return nil
	default:
		return nil
	}
}

// seedFormProperties initializes the typed properties of a freshly parsed
// form-state element from its declared attributes, so that "defaultValue"
// etc. reflect the markup the element was parsed from until live user
// interaction diverges them.
func seedFormProperties(el *Node) {
	if !el.IsFormStateElement() {
		return
	}

	if v, ok := el.GetAttribute("value"); ok {
		el.SetProperty(PropValue, v)
		el.SetProperty(PropDefaultValue, v)
	}

	if el.HasAttribute("checked") {
		el.SetProperty(PropChecked, true)
		el.SetProperty(PropDefaultChecked, true)
	}

	if el.HasAttribute("selected") {
		el.SetProperty(PropSelected, true)
		el.SetProperty(PropDefaultSelected, true)
	}

	if el.HasAttribute("disabled") {
		el.SetProperty(PropDisabled, true)
	}
}

// Render serializes n back to an HTML string, used for CLI output and by
// morphcache to store reference trees.
func Render(n *Node) string {
	var b strings.Builder

	renderInto(&b, n)

	return b.String()
}

func renderInto(b *strings.Builder, n *Node) {
	if n == nil {
		return
	}

	switch n.Kind {
	case KindText:
		b.WriteString(html.EscapeString(n.Value))
	case KindComment:
		b.WriteString("<!--")
		b.WriteString(n.Value)
		b.WriteString("-->")
	case KindCDATA:
		b.WriteString("<![CDATA[")
		b.WriteString(n.Value)
		b.WriteString("]]>")
	case KindElement:
		b.WriteByte('<')
		b.WriteString(n.Name)

		for _, a := range n.attrs {
			b.WriteByte(' ')
			b.WriteString(a.name)
			b.WriteString(`="`)
			b.WriteString(html.EscapeString(a.value))
			b.WriteByte('"')
		}

		b.WriteByte('>')

		for _, c := range n.Children {
			renderInto(b, c)
		}

		b.WriteString("</")
		b.WriteString(n.Name)
		b.WriteByte('>')
	case KindDocument, KindFragment:
		for _, c := range n.Children {
			renderInto(b, c)
		}
	}
}
