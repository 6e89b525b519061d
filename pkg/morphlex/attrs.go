package morphlex

import "github.com/morphlex/morphlex/pkg/morphnode"

// formStateAttrs are the attributes singled out as "form-state
// attributes": their presence also drives a live property update, not just
// the declarative attribute.
var formStateAttrs = map[string]bool{
	"value":    true,
	"checked":  true,
	"selected": true,
}

// morphAttributes reconciles element's attributes to match ref's: a forward
// (add/update) pass in reference order, then a backward (remove) pass in
// reverse current order. The morphlex-dirty marker, if present, is removed
// at the start of the pass.
func morphAttributes(opts *Options, element, ref *morphnode.Node) {
	element.RemoveAttribute(morphnode.DirtyAttr)

	forwardPass(opts, element, ref)
	backwardPass(opts, element, ref)
}

func forwardPass(opts *Options, element, ref *morphnode.Node) {
	for _, a := range ref.Attributes() {
		name, value := a.Name, a.Value

		if formStateAttrs[name] {
			applyFormStateAttribute(opts, element, name, value)
		}

		previous, hadPrevious := element.GetAttribute(name)
		if hadPrevious && previous == value {
			continue
		}

		newValue := value
		if !opts.beforeAttributeUpdated(element, name, &newValue) {
			continue
		}

		element.SetAttribute(name, value)

		var prevPtr *string
		if hadPrevious {
			prevPtr = &previous
		}

		opts.afterAttributeUpdated(element, name, prevPtr)
	}
}

// applyFormStateAttribute updates the live property behind a form-state
// attribute (value/checked/selected), honoring PreserveChanges: the live
// property is only overwritten when preserveChanges is off, or the current
// value already equals its default (i.e. not dirty).
func applyFormStateAttribute(opts *Options, element *morphnode.Node, name, refValue string) {
	switch name {
	case "value":
		if !element.IsFormStateElement() {
			return
		}

		live := element.PropString(morphnode.PropValue)
		if live == refValue {
			return
		}

		if !opts.preserveChanges() || live == element.PropString(morphnode.PropDefaultValue) {
			element.SetProperty(morphnode.PropValue, refValue)
		}

		element.SetProperty(morphnode.PropDefaultValue, refValue)
	case "checked":
		if !element.IsFormStateElement() {
			return
		}

		if !opts.preserveChanges() || element.PropBool(morphnode.PropChecked) == element.PropBool(morphnode.PropDefaultChecked) {
			element.SetProperty(morphnode.PropChecked, true)
		}

		element.SetProperty(morphnode.PropDefaultChecked, true)
	case "selected":
		if !element.IsFormStateElement() {
			return
		}

		if !opts.preserveChanges() || element.PropBool(morphnode.PropSelected) == element.PropBool(morphnode.PropDefaultSelected) {
			element.SetProperty(morphnode.PropSelected, true)
		}

		element.SetProperty(morphnode.PropDefaultSelected, true)
	}
}

func backwardPass(opts *Options, element, ref *morphnode.Node) {
	attrs := element.Attributes()

	for i := len(attrs) - 1; i >= 0; i-- {
		name := attrs[i].Name

		if _, stillWanted := ref.GetAttribute(name); stillWanted {
			continue
		}

		if formStateAttrs[name] && name != "value" {
			clearLiveBoolean(opts, element, name)
		}

		previous := attrs[i].Value

		if !opts.beforeAttributeUpdated(element, name, nil) {
			continue
		}

		element.RemoveAttribute(name)
		opts.afterAttributeUpdated(element, name, &previous)
	}
}

// clearLiveBoolean resets the live checked/selected property to its
// default, unless preserveChanges is on and the live value is already
// dirty relative to that default.
func clearLiveBoolean(opts *Options, element *morphnode.Node, name string) {
	if !element.IsFormStateElement() {
		return
	}

	var live, def string

	switch name {
	case "checked":
		live, def = morphnode.PropChecked, morphnode.PropDefaultChecked
	case "selected":
		live, def = morphnode.PropSelected, morphnode.PropDefaultSelected
	default:
		return
	}

	if opts.preserveChanges() && element.PropBool(live) != element.PropBool(def) {
		return
	}

	element.SetProperty(live, false)
}
