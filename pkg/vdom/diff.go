package vdom

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
)

// Diff returns the patches turning prev into next. Matched nodes in next
// inherit their HIDs from prev; inserted nodes have none until AssignHIDs
// runs on the tree. Attribute patches of one element are ordered by key.
func Diff(prev, next *VNode) []Patch {
	d := &differ{}
	d.node(prev, next, "")
	return d.patches
}

type differ struct {
	patches []Patch
}

func (d *differ) emit(p Patch) {
	d.patches = append(d.patches, p)
}

// node compares one position. owner is the nearest element HID, used when a
// text node carries none of its own.
func (d *differ) node(prev, next *VNode, owner string) {
	switch {
	case prev == nil:
		// Insertions are emitted by the parent.
		return
	case next == nil:
		d.emit(Patch{Op: PatchRemoveNode, HID: prev.HID})
		return
	case prev.Kind != next.Kind, prev.Kind == KindElement && prev.Tag != next.Tag:
		d.emit(Patch{Op: PatchReplaceNode, HID: prev.HID, Node: next})
		return
	}

	next.HID = prev.HID
	switch prev.Kind {
	case KindText:
		if prev.Text == next.Text {
			return
		}
		target := prev.HID
		if target == "" {
			target = owner
		}
		if target != "" {
			d.emit(Patch{Op: PatchSetText, HID: target, Value: next.Text})
		}
	case KindElement:
		d.attrs(prev, next)
		d.children(prev, next, prev.HID)
	case KindFragment:
		d.children(prev, next, owner)
	}
}

func (d *differ) attrs(prev, next *VNode) {
	keys := make([]string, 0, len(prev.Props)+len(next.Props))
	for k := range prev.Props {
		keys = append(keys, k)
	}
	for k := range next.Props {
		if _, ok := prev.Props[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		old, had := prev.Props[k]
		cur, has := next.Props[k]
		switch {
		case !has:
			d.emit(Patch{Op: PatchRemoveAttr, HID: prev.HID, Key: k})
		case !had || !sameProp(old, cur):
			d.emit(Patch{Op: PatchSetAttr, HID: prev.HID, Key: k, Value: PropToString(cur)})
		}
	}
}

func (d *differ) children(prev, next *VNode, owner string) {
	if keyed(prev.Children) || keyed(next.Children) {
		d.keyedChildren(prev.HID, prev.Children, next.Children, owner)
		return
	}

	n := max(len(prev.Children), len(next.Children))
	for i := 0; i < n; i++ {
		switch {
		case i >= len(prev.Children):
			d.emit(Patch{Op: PatchInsertNode, ParentID: prev.HID, Index: i, Node: next.Children[i]})
		case i >= len(next.Children):
			d.emit(Patch{Op: PatchRemoveNode, HID: prev.Children[i].HID})
		default:
			d.node(prev.Children[i], next.Children[i], owner)
		}
	}
}

// keyedChildren matches children by key. Unkeyed or new children are
// inserted, matched ones moved when their index changed, and leftovers
// removed.
func (d *differ) keyedChildren(parent string, prev, next []*VNode, owner string) {
	index := make(map[string]int, len(prev))
	for i, c := range prev {
		if k := keyOf(c); k != "" {
			index[k] = i
		}
	}

	used := make([]bool, len(prev))
	for to, c := range next {
		from, ok := index[keyOf(c)]
		if !ok || keyOf(c) == "" {
			d.emit(Patch{Op: PatchInsertNode, ParentID: parent, Index: to, Node: c})
			continue
		}
		used[from] = true
		if from != to {
			d.emit(Patch{Op: PatchMoveNode, HID: prev[from].HID, ParentID: parent, Index: to})
		}
		d.node(prev[from], c, owner)
	}

	for i, c := range prev {
		if !used[i] {
			d.emit(Patch{Op: PatchRemoveNode, HID: c.HID})
		}
	}
}

func keyOf(n *VNode) string {
	if n == nil {
		return ""
	}
	return n.Key
}

func keyed(nodes []*VNode) bool {
	for _, n := range nodes {
		if keyOf(n) != "" {
			return true
		}
	}
	return false
}

func sameProp(a, b any) bool {
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case int:
		bv, ok := b.(int)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case nil:
		return b == nil
	}
	return reflect.DeepEqual(a, b)
}

// PropToString renders an attribute value.
func PropToString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}
