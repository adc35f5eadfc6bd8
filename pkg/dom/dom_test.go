package dom

import (
	"strings"
	"testing"

	"github.com/vango-dev/nodeview/pkg/vdom"
)

func TestAllocator(t *testing.T) {
	a := NewAllocator()
	first, second := a.Next(), a.Next()
	if first != 1 || second != 2 {
		t.Errorf("Next() = %d, %d, want 1, 2", first, second)
	}

	a.Observe(10)
	if got := a.Next(); got != 11 {
		t.Errorf("Next() after Observe(10) = %d, want 11", got)
	}
	a.Observe(3)
	if got := a.Next(); got != 12 {
		t.Errorf("Observe of a lower ID must not rewind, got %d", got)
	}
}

func TestElementZero(t *testing.T) {
	if !Element(0).IsZero() || Element(4).IsZero() {
		t.Error("IsZero mismatch")
	}
	if Element(42).String() != "42" {
		t.Errorf("String() = %q", Element(42).String())
	}
}

func TestDocumentLifecycle(t *testing.T) {
	doc := NewDocument()
	var changes []ChangeOp
	doc.Observe(func(c Change) { changes = append(changes, c.Op) })

	doc.Insert(7, vdom.Div(vdom.Class("node"), "A"))
	if !doc.Has(7) || doc.Paints(7) != 1 {
		t.Fatalf("after Insert: Has=%v Paints=%d", doc.Has(7), doc.Paints(7))
	}

	doc.Patch(7, vdom.Div(vdom.Class("node"), "B"), []vdom.Patch{{Op: vdom.PatchSetText}})
	if doc.Paints(7) != 2 || doc.PatchCount(7) != 1 {
		t.Errorf("Paints=%d PatchCount=%d, want 2, 1", doc.Paints(7), doc.PatchCount(7))
	}

	got, err := doc.HTML(7)
	if err != nil {
		t.Fatalf("HTML() error = %v", err)
	}
	if got != `<div class="node">B</div>` {
		t.Errorf("HTML() = %q", got)
	}

	doc.Remove(7)
	doc.Remove(7)
	if doc.Has(7) || doc.Tree(7) != nil {
		t.Error("element should be empty after Remove")
	}

	want := []ChangeOp{ChangeInsert, ChangePatch, ChangeRemove}
	if len(changes) != len(want) {
		t.Fatalf("changes = %v, want %v", changes, want)
	}
	for i := range want {
		if changes[i] != want[i] {
			t.Errorf("changes[%d] = %v, want %v", i, changes[i], want[i])
		}
	}
}

func TestDocumentWriteTo(t *testing.T) {
	doc := NewDocument()
	doc.Insert(2, vdom.Span("two"))
	doc.Insert(1, vdom.Span("one"))

	var b strings.Builder
	if _, err := doc.WriteTo(&b); err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}
	want := "<section data-element=\"1\"><span>one</span></section>\n" +
		"<section data-element=\"2\"><span>two</span></section>\n"
	if b.String() != want {
		t.Errorf("WriteTo() = %q, want %q", b.String(), want)
	}
}

func TestChangeOpString(t *testing.T) {
	if ChangeInsert.String() != "insert" || ChangeRemove.String() != "remove" || ChangeOp(0).String() != "unknown" {
		t.Error("ChangeOp.String mismatch")
	}
}
