package morphlex

import "github.com/morphlex/morphlex/pkg/morphnode"

// morphTextarea replaces element's textual child content with ref's, which
// also re-seeds the control's default value. If PreserveChanges is set and
// wasDirty reports element was dirty before the attribute pass cleared its
// marker, the live value is left untouched; otherwise it is reset to the
// new default.
func morphTextarea(opts *Options, element, ref *morphnode.Node, wasDirty bool) {
	newValue := textContent(ref)

	element.Children = nil

	if newValue != "" {
		text := morphnode.NewText(newValue)
		element.InsertBefore(text, nil)
	}

	element.SetProperty(morphnode.PropDefaultValue, newValue)

	if opts.preserveChanges() && wasDirty {
		return
	}

	element.SetProperty(morphnode.PropValue, newValue)
}

// textContent concatenates the text of n's direct text children, the only
// kind of content a <textarea> reference element is expected to carry.
func textContent(n *morphnode.Node) string {
	var out string

	for _, c := range n.Children {
		if c.Kind == morphnode.KindText {
			out += c.TextValue()
		}
	}

	return out
}
