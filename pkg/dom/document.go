package dom

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/vango-dev/nodeview/pkg/html"
	"github.com/vango-dev/nodeview/pkg/vdom"
)

// ChangeOp describes what happened to an element's content.
type ChangeOp uint8

const (
	ChangeInsert ChangeOp = iota + 1
	ChangePatch
	ChangeRemove
)

// String returns the wire name of the change.
func (op ChangeOp) String() string {
	switch op {
	case ChangeInsert:
		return "insert"
	case ChangePatch:
		return "patch"
	case ChangeRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// Change is delivered to observers after the document was modified.
type Change struct {
	Op      ChangeOp
	Element Element
	Tree    *vdom.VNode  // nil for ChangeRemove
	Patches []vdom.Patch // only for ChangePatch
}

// Observer receives document changes.
type Observer func(Change)

type entry struct {
	tree    *vdom.VNode
	paints  int
	patches int
}

// Document is an in-memory host. Like the renderer that drives it, it is
// confined to a single goroutine.
type Document struct {
	entries    map[Element]*entry
	observers  []Observer
	serializer *html.Serializer
}

// NewDocument creates an empty Document.
func NewDocument() *Document {
	return &Document{
		entries:    make(map[Element]*entry),
		serializer: html.New(html.Config{}),
	}
}

// Observe registers fn for every later change.
func (d *Document) Observe(fn Observer) {
	d.observers = append(d.observers, fn)
}

// Insert places a freshly painted tree under el.
func (d *Document) Insert(el Element, tree *vdom.VNode) {
	d.entries[el] = &entry{tree: tree, paints: 1}
	d.notify(Change{Op: ChangeInsert, Element: el, Tree: tree})
}

// Patch replaces el's tree after a repaint. Patches are recorded for
// observers; the stored tree is always the full next tree.
func (d *Document) Patch(el Element, tree *vdom.VNode, patches []vdom.Patch) {
	e, ok := d.entries[el]
	if !ok {
		e = &entry{}
		d.entries[el] = e
	}
	e.tree = tree
	e.paints++
	e.patches += len(patches)
	d.notify(Change{Op: ChangePatch, Element: el, Tree: tree, Patches: patches})
}

// Remove detaches whatever is mounted at el. Removing an empty element is a no-op.
func (d *Document) Remove(el Element) {
	if _, ok := d.entries[el]; !ok {
		return
	}
	delete(d.entries, el)
	d.notify(Change{Op: ChangeRemove, Element: el})
}

func (d *Document) notify(c Change) {
	for _, fn := range d.observers {
		fn(c)
	}
}

// Has reports whether el currently holds content.
func (d *Document) Has(el Element) bool {
	_, ok := d.entries[el]
	return ok
}

// Tree returns the latest tree painted at el.
func (d *Document) Tree(el Element) *vdom.VNode {
	if e, ok := d.entries[el]; ok {
		return e.tree
	}
	return nil
}

// Paints returns how many times el was painted since its last insert.
func (d *Document) Paints(el Element) int {
	if e, ok := d.entries[el]; ok {
		return e.paints
	}
	return 0
}

// PatchCount returns the number of patches applied to el since its last insert.
func (d *Document) PatchCount(el Element) int {
	if e, ok := d.entries[el]; ok {
		return e.patches
	}
	return 0
}

// Elements returns every element holding content, in ascending order.
func (d *Document) Elements() []Element {
	out := make([]Element, 0, len(d.entries))
	for el := range d.entries {
		out = append(out, el)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// HTML serializes the content of el. Empty elements yield "".
func (d *Document) HTML(el Element) (string, error) {
	return d.serializer.String(d.Tree(el))
}

// WriteTo writes every element as a <section data-element="n"> block.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	for _, el := range d.Elements() {
		inner, err := d.HTML(el)
		if err != nil {
			return 0, fmt.Errorf("element %d: %w", el, err)
		}
		fmt.Fprintf(&b, "<section data-element=\"%d\">%s</section>\n", el, inner)
	}
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}
