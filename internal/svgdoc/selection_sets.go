package svgdoc

import (
	"strings"

	"github.com/beevik/etree"
)

// Inkscape stores selection sets as <inkscape:tag> elements inside <defs>,
// each referencing its members through <inkscape:tagref xlink:href="#id"/>.
// Inkscape crashes on reload when a tagref points at a deleted element.

// HasSelectionSets reports whether the document defines any selection set members.
func (d *Document) HasSelectionSets() bool {
	return len(d.tagrefs()) > 0
}

// PurgeSelectionSets removes tagrefs whose target no longer exists and
// returns the number removed.
func (d *Document) PurgeSelectionSets() int {
	removed := 0
	for _, ref := range d.tagrefs() {
		target := strings.TrimPrefix(tagrefTarget(ref), "#")
		if target != "" && d.Has(target) {
			continue
		}
		if parent := ref.Parent(); parent != nil {
			parent.RemoveChild(ref)
			removed++
		}
	}
	if removed > 0 {
		d.reindex()
	}
	return removed
}

func (d *Document) tagrefs() []*etree.Element {
	defs := d.firstDefs()
	if defs == nil {
		return nil
	}
	var refs []*etree.Element
	for _, tag := range defs.ChildElements() {
		if tag.Tag != "tag" {
			continue
		}
		for _, ref := range tag.ChildElements() {
			if ref.Tag == "tagref" {
				refs = append(refs, ref)
			}
		}
	}
	return refs
}

// firstDefs returns the first <defs> element in document order.
func (d *Document) firstDefs() *etree.Element {
	var found *etree.Element
	var walk func(el *etree.Element) bool
	walk = func(el *etree.Element) bool {
		if el.Tag == "defs" && isSVGElement(el) {
			found = el
			return true
		}
		for _, child := range el.ChildElements() {
			if walk(child) {
				return true
			}
		}
		return false
	}
	walk(d.doc.Root())
	return found
}

func tagrefTarget(ref *etree.Element) string {
	for _, a := range ref.Attr {
		if a.Key == "href" && (a.Space == "xlink" || a.Space == "" || a.NamespaceURI() == NSXLink) {
			return a.Value
		}
	}
	return ""
}
