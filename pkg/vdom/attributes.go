package vdom

import (
	"fmt"
	"strings"
)

func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// A returns an arbitrary attribute.
func A(key string, value any) Attr { return attr(key, value) }

func ID(id string) Attr               { return attr("id", id) }
func Class(classes ...string) Attr    { return attr("class", joinClasses(classes)) }
func StyleAttr(style string) Attr     { return attr("style", style) }
func TitleAttr(title string) Attr     { return attr("title", title) }
func Type(t string) Attr              { return attr("type", t) }
func Value(value string) Attr         { return attr("value", value) }
func Readonly() Attr                  { return attr("readonly", true) }
func Data(key, value string) Attr     { return attr("data-"+key, value) }
func Key(key any) Attr                { return attr("key", fmt.Sprint(key)) }
func D(path string) Attr              { return attr("d", path) }
func ViewBox(x, y, w, h float64) Attr { return attr("viewBox", fmt.Sprintf("%g %g %g %g", x, y, w, h)) }

// Style builds a style attribute from property/value pairs, skipping empty values.
//
//	Style("left", "10px", "top", "4px")
func Style(pairs ...string) Attr {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("; ")
		}
		b.WriteString(pairs[i])
		b.WriteString(": ")
		b.WriteString(pairs[i+1])
	}
	return attr("style", b.String())
}

// ClassIf returns a class attribute only when cond holds.
func ClassIf(cond bool, classes ...string) Attr {
	if !cond {
		return Attr{}
	}
	return Class(classes...)
}

func joinClasses(classes []string) string {
	out := classes[:0:0]
	for _, c := range classes {
		if c != "" {
			out = append(out, c)
		}
	}
	return strings.Join(out, " ")
}
