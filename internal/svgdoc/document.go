// Package svgdoc implements the host document over an Inkscape SVG file.
//
// The whole element tree is loaded once. Every element carrying an id is
// indexed by its depth-first position, which is the SVG paint order: later
// elements are painted on top of earlier ones.
package svgdoc

import (
	"fmt"
	"io"
	"slices"

	"github.com/beevik/etree"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/pathops/pathops/internal/host"
)

// Namespaces used by Inkscape documents.
const (
	NSSVG      = "http://www.w3.org/2000/svg"
	NSSodipodi = "http://sodipodi.sourceforge.net/DTD/sodipodi-0.dtd"
	NSInkscape = "http://www.inkscape.org/namespaces/inkscape"
	NSXLink    = "http://www.w3.org/1999/xlink"
)

var basicShapes = []string{"rect", "circle", "ellipse", "line", "polyline", "polygon"}

// Document is a parsed SVG document. It implements host.Document.
type Document struct {
	doc       *etree.Document
	byID      map[string]*etree.Element
	position  map[string]int
	selection []string
}

var _ host.Document = (*Document)(nil)

// Load reads and indexes the SVG file at path.
func Load(path string) (*Document, error) {
	doc := newEtreeDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, fmt.Errorf("failed to read SVG document %s: %w", path, err)
	}
	return fromEtree(doc)
}

// Parse reads and indexes an SVG document from r.
func Parse(r io.Reader) (*Document, error) {
	doc := newEtreeDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("failed to parse SVG document: %w", err)
	}
	return fromEtree(doc)
}

func newEtreeDocument() *etree.Document {
	doc := etree.NewDocument()
	doc.ReadSettings.PreserveCData = true
	return doc
}

func fromEtree(doc *etree.Document) (*Document, error) {
	root := doc.Root()
	if root == nil || root.Tag != "svg" {
		return nil, fmt.Errorf("not an SVG document: missing <svg> root element")
	}
	d := &Document{doc: doc}
	d.reindex()
	return d, nil
}

// reindex rebuilds the id and position maps in a single depth-first pass.
func (d *Document) reindex() {
	d.byID = make(map[string]*etree.Element)
	d.position = make(map[string]int)

	n := 0
	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		if id := el.SelectAttrValue("id", ""); id != "" {
			if _, dup := d.byID[id]; !dup {
				d.byID[id] = el
				d.position[id] = n
			}
		}
		n++
		for _, child := range el.ChildElements() {
			walk(child)
		}
	}
	walk(d.doc.Root())
}

// Select sets the selection to the given ids. Ids that are not in the
// document are ignored. The selection is kept in document order.
func (d *Document) Select(ids ...string) {
	seen := make(map[string]bool, len(d.selection)+len(ids))
	for _, id := range d.selection {
		seen[id] = true
	}
	for _, id := range ids {
		if _, ok := d.byID[id]; ok && !seen[id] {
			seen[id] = true
			d.selection = append(d.selection, id)
		}
	}
	d.sortSelection()
}

// SelectMatching adds every id matching one of the glob patterns to the selection.
func (d *Document) SelectMatching(patterns ...string) error {
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid id pattern %q", pattern)
		}
	}

	var matched []string
	for id := range d.byID {
		for _, pattern := range patterns {
			ok, err := doublestar.Match(pattern, id)
			if err != nil {
				return fmt.Errorf("failed to match id pattern %q: %w", pattern, err)
			}
			if ok {
				matched = append(matched, id)
				break
			}
		}
	}
	d.Select(matched...)
	return nil
}

func (d *Document) sortSelection() {
	slices.SortFunc(d.selection, func(a, b string) int {
		return d.position[a] - d.position[b]
	})
}

// Selection returns the selected ids in document order.
func (d *Document) Selection() []string {
	return slices.Clone(d.selection)
}

// Kind classifies the element with the given id.
func (d *Document) Kind(id string) (host.Kind, bool) {
	el, ok := d.byID[id]
	if !ok {
		return host.KindOther, false
	}
	return classify(el), true
}

func classify(el *etree.Element) host.Kind {
	if !isSVGElement(el) {
		return host.KindOther
	}
	// Custom shapes are stored as <path> elements with a sodipodi:type.
	if hasAttrNS(el, NSSodipodi, "sodipodi", "type") {
		return host.KindShape
	}
	switch {
	case el.Tag == "path":
		return host.KindPath
	case slices.Contains(basicShapes, el.Tag):
		return host.KindShape
	case el.Tag == "text":
		return host.KindText
	case el.Tag == "g":
		return host.KindGroup
	case el.Tag == "image":
		return host.KindImage
	default:
		return host.KindOther
	}
}

// Children returns the ids of the direct child elements of id.
// Children without an id cannot be addressed by the host and are skipped.
func (d *Document) Children(id string) []string {
	el, ok := d.byID[id]
	if !ok {
		return nil
	}
	var ids []string
	for _, child := range el.ChildElements() {
		if cid := child.SelectAttrValue("id", ""); cid != "" {
			ids = append(ids, cid)
		}
	}
	return ids
}

// Position returns the depth-first index of the element.
func (d *Document) Position(id string) (int, bool) {
	p, ok := d.position[id]
	return p, ok
}

// Remove deletes the element and its subtree from the document.
func (d *Document) Remove(id string) error {
	el, ok := d.byID[id]
	if !ok {
		return fmt.Errorf("element %q not found", id)
	}
	parent := el.Parent()
	if parent == nil {
		return fmt.Errorf("cannot remove root element %q", id)
	}
	parent.RemoveChild(el)
	d.reindex()
	d.selection = slices.DeleteFunc(d.selection, func(s string) bool {
		_, ok := d.byID[s]
		return !ok
	})
	return nil
}

// Has reports whether an element with the given id exists.
func (d *Document) Has(id string) bool {
	_, ok := d.byID[id]
	return ok
}

// Attr returns the value of an attribute of the element with the given id.
func (d *Document) Attr(id, key string) (string, bool) {
	el, ok := d.byID[id]
	if !ok {
		return "", false
	}
	attr := el.SelectAttr(key)
	if attr == nil {
		return "", false
	}
	return attr.Value, true
}

// SetAttr creates or replaces an attribute of the element with the given id.
func (d *Document) SetAttr(id, key, value string) error {
	el, ok := d.byID[id]
	if !ok {
		return fmt.Errorf("element %q not found", id)
	}
	el.CreateAttr(key, value)
	return nil
}

// WriteTo serialises the document.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	return d.doc.WriteTo(w)
}

// Save writes the document to path.
func (d *Document) Save(path string) error {
	if err := d.doc.WriteToFile(path); err != nil {
		return fmt.Errorf("failed to write SVG document %s: %w", path, err)
	}
	return nil
}

// Bytes serialises the document into memory.
func (d *Document) Bytes() ([]byte, error) {
	return d.doc.WriteToBytes()
}

func isSVGElement(el *etree.Element) bool {
	if el.Space == "" {
		return true
	}
	return el.Space == "svg" || el.NamespaceURI() == NSSVG
}

// hasAttrNS reports whether el carries the attribute key in namespace ns.
// The conventional prefix is accepted when the document does not declare ns.
func hasAttrNS(el *etree.Element, ns, prefix, key string) bool {
	for _, a := range el.Attr {
		if a.Key != key || a.Space == "" {
			continue
		}
		if a.Space == prefix || a.NamespaceURI() == ns {
			return true
		}
	}
	return false
}
