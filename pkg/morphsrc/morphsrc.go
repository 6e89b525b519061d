// Package morphsrc adapts source code into morphnode trees, so morphlex can
// morph one parsed revision of a file into another the same way it morphs
// markup: matching syntax nodes by structure and position, and reporting
// the minimal edit instead of a flat line diff.
package morphsrc

import (
	"context"
	"fmt"

	forest "github.com/alexaandru/go-sitter-forest"
	golang "github.com/alexaandru/go-sitter-forest/go"
	"github.com/alexaandru/go-sitter-forest/html"
	"github.com/alexaandru/go-sitter-forest/javascript"
	"github.com/alexaandru/go-sitter-forest/json"
	"github.com/alexaandru/go-sitter-forest/python"
	sitter "github.com/alexaandru/go-tree-sitter-bare"
	"github.com/src-d/enry/v2"

	"github.com/morphlex/morphlex/pkg/morphnode"
)

// PropStartByte and PropEndByte are the node properties a parsed syntax
// node carries its original source span under, kept only for reporting
// (morphlex's matching and morph passes never read them).
const (
	PropStartByte = "srcStartByte"
	PropEndByte   = "srcEndByte"
)

// grammars maps an enry language name to its tree-sitter grammar, covering
// the languages this module itself and its sibling packages are written in
// or consume. Extending this set to the rest of go-sitter-forest's catalog
// is a matter of adding entries, not changing the adapter.
var grammars = map[string]func() *sitter.Language{
	"Go":         func() *sitter.Language { return sitter.NewLanguage(golang.GetLanguage()) },
	"Python":     func() *sitter.Language { return sitter.NewLanguage(python.GetLanguage()) },
	"JavaScript": func() *sitter.Language { return sitter.NewLanguage(javascript.GetLanguage()) },
	"JSON":       func() *sitter.Language { return sitter.NewLanguage(json.GetLanguage()) },
	"HTML":       func() *sitter.Language { return sitter.NewLanguage(html.GetLanguage()) },
}

// DetectLanguage reports the enry language name for a file given its path
// and content.
func DetectLanguage(path string, content []byte) string {
	return enry.GetLanguage(path, content)
}

// SupportsLanguage reports whether Parse has a grammar for the given enry
// language name.
func SupportsLanguage(language string) bool {
	_, ok := grammars[language]

	return ok
}

// Parse detects path's language from its name and content and parses it into a
// detached morphnode tree rooted at the grammar's translation-unit node.
// Each tree-sitter node becomes a KindElement node named after its grammar
// type; leaf (zero-child) nodes additionally carry their source text as a
// single KindText child, so deep_equal and the matching passes see textual
// content the way they see an HTML element's rendered text.
func Parse(path string, content []byte) (*morphnode.Node, error) {
	language := DetectLanguage(path, content)

	return ParseAs(language, content)
}

// ParseAs parses content using the grammar registered for the given enry
// language name.
func ParseAs(language string, content []byte) (*morphnode.Node, error) {
	newLang, ok := grammars[language]
	if !ok {
		return nil, fmt.Errorf("morphsrc: no grammar registered for language %q", language)
	}

	lang := newLang()

	parser := sitter.NewParser()
	parser.SetLanguage(lang)

	tree, err := parser.ParseString(context.Background(), nil, content)
	if err != nil {
		return nil, fmt.Errorf("morphsrc: parse: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.IsNull() {
		return nil, fmt.Errorf("morphsrc: parse produced no root node")
	}

	return convert(root, content), nil
}

// convert recursively converts a tree-sitter node and its named children
// into a morphnode tree. Only named nodes are kept (tree-sitter's anonymous
// punctuation/keyword tokens add no structural information morphlex's
// matcher would use and would only inflate the child-matching cost).
func convert(n sitter.Node, source []byte) *morphnode.Node {
	el := morphnode.NewElement(n.Type())
	el.SetProperty(PropStartByte, fmt.Sprintf("%d", n.StartByte()))
	el.SetProperty(PropEndByte, fmt.Sprintf("%d", n.EndByte()))

	count := n.NamedChildCount()

	for i := range count {
		child := n.NamedChild(i)
		el.InsertBefore(convert(child, source), nil)
	}

	if count == 0 {
		start, end := n.StartByte(), n.EndByte()
		if int(end) <= len(source) && start <= end {
			el.InsertBefore(morphnode.NewText(string(source[start:end])), nil)
		}
	}

	return el
}
