// Package host describes the editor document that pathops operates on.
//
// The pipeline never touches the SVG tree directly. It asks the host for the
// current selection, the kind of each object, the children of groups, the
// document-order position of objects, and for object removal. svgdoc provides
// the real implementation; FakeDocument is used in tests.
package host

import (
	"fmt"
	"slices"
)

// Kind classifies a document object.
type Kind int

const (
	KindOther Kind = iota
	KindPath
	KindShape
	KindText
	KindGroup
	KindImage
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindPath:
		return "path"
	case KindShape:
		return "shape"
	case KindText:
		return "text"
	case KindGroup:
		return "group"
	case KindImage:
		return "image"
	default:
		return "other"
	}
}

// SupportsPathOps reports whether the host's path operations accept objects of this kind.
func (k Kind) SupportsPathOps() bool {
	return k == KindPath || k == KindShape || k == KindText
}

// Document provides an abstraction over the host's object model.
type Document interface {
	// Selection returns the ids selected when the effect was invoked.
	Selection() []string

	// Kind returns the type tag of the object with the given id.
	Kind(id string) (Kind, bool)

	// Children returns the direct children of a group in document order.
	Children(id string) []string

	// Position returns the depth-first document-order index of an object.
	// Objects with a higher position paint later and are nearer the top.
	Position(id string) (int, bool)

	// Remove deletes the object from the document.
	Remove(id string) error
}

// FakeDocument implements Document with an in-memory object tree for testing.
type FakeDocument struct {
	selection []string
	objects   map[string]*fakeObject
	order     []string
	removed   []string
	err       error
}

type fakeObject struct {
	kind     Kind
	children []string
}

// NewFakeDocument creates an empty FakeDocument.
func NewFakeDocument() *FakeDocument {
	return &FakeDocument{objects: make(map[string]*fakeObject)}
}

// Add appends an object at the top of the document (or at the end of its parent
// group when parent is non-empty). Objects are positioned in the order they are added,
// so children must be added after their parent.
func (d *FakeDocument) Add(id string, kind Kind, parent string) *FakeDocument {
	d.objects[id] = &fakeObject{kind: kind}
	d.order = append(d.order, id)
	if parent != "" {
		if p, ok := d.objects[parent]; ok {
			p.children = append(p.children, id)
		}
	}
	return d
}

// Select sets the selection.
func (d *FakeDocument) Select(ids ...string) *FakeDocument {
	d.selection = slices.Clone(ids)
	return d
}

// SetError makes Remove fail with err.
func (d *FakeDocument) SetError(err error) {
	d.err = err
}

// Removed returns the ids passed to Remove, in call order.
func (d *FakeDocument) Removed() []string {
	return slices.Clone(d.removed)
}

// Selection returns the configured selection.
func (d *FakeDocument) Selection() []string {
	return slices.Clone(d.selection)
}

// Kind returns the kind recorded by Add.
func (d *FakeDocument) Kind(id string) (Kind, bool) {
	obj, ok := d.objects[id]
	if !ok {
		return KindOther, false
	}
	return obj.kind, true
}

// Children returns the ids added with this parent.
func (d *FakeDocument) Children(id string) []string {
	obj, ok := d.objects[id]
	if !ok {
		return nil
	}
	return slices.Clone(obj.children)
}

// Position returns the insertion index of the object.
func (d *FakeDocument) Position(id string) (int, bool) {
	i := slices.Index(d.order, id)
	return i, i >= 0
}

// Remove deletes the object and records the call.
func (d *FakeDocument) Remove(id string) error {
	if d.err != nil {
		return d.err
	}
	if _, ok := d.objects[id]; !ok {
		return fmt.Errorf("object %q not found", id)
	}
	delete(d.objects, id)
	d.order = slices.DeleteFunc(d.order, func(s string) bool { return s == id })
	d.removed = append(d.removed, id)
	return nil
}
