// Package html serializes vdom trees to HTML for snapshots, the CLI and the bridge.
package html

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/vango-dev/nodeview/pkg/vdom"
)

// Config configures the serializer.
type Config struct {
	// HIDs emits data-hid attributes so a remote host can address patches.
	HIDs bool
}

// Serializer writes vdom trees as HTML.
type Serializer struct {
	config Config
}

// New creates a Serializer.
func New(config Config) *Serializer {
	return &Serializer{config: config}
}

// String renders node to an HTML string.
func (s *Serializer) String(node *vdom.VNode) (string, error) {
	var buf bytes.Buffer
	if err := s.Write(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Write streams node to w.
func (s *Serializer) Write(w io.Writer, node *vdom.VNode) error {
	if node == nil {
		return nil
	}

	switch node.Kind {
	case vdom.KindElement:
		return s.writeElement(w, node)
	case vdom.KindText:
		_, err := io.WriteString(w, escapeHTML(node.Text))
		return err
	case vdom.KindFragment:
		for _, child := range node.Children {
			if err := s.Write(w, child); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("html: unknown node kind: %d", node.Kind)
	}
}

func (s *Serializer) writeElement(w io.Writer, node *vdom.VNode) error {
	if _, err := io.WriteString(w, "<"+node.Tag); err != nil {
		return err
	}
	if err := s.writeAttributes(w, node); err != nil {
		return err
	}
	if s.config.HIDs && node.HID != "" {
		if _, err := fmt.Fprintf(w, ` data-hid="%s"`, escapeAttr(node.HID)); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}
	if vdom.IsVoidElement(node.Tag) {
		return nil
	}

	for _, child := range node.Children {
		if err := s.Write(w, child); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, "</"+node.Tag+">")
	return err
}

func (s *Serializer) writeAttributes(w io.Writer, node *vdom.VNode) error {
	if len(node.Props) == 0 {
		return nil
	}

	// Sort keys for deterministic output
	keys := make([]string, 0, len(node.Props))
	for key := range node.Props {
		if strings.HasPrefix(key, "_") {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := node.Props[key]

		if b, ok := value.(bool); ok && isBooleanAttr(key) {
			if b {
				if _, err := io.WriteString(w, " "+key); err != nil {
					return err
				}
			}
			continue
		}

		if value == nil {
			continue
		}
		str := vdom.PropToString(value)
		if str == "" {
			continue
		}
		if _, err := fmt.Fprintf(w, ` %s="%s"`, key, escapeAttr(str)); err != nil {
			return err
		}
	}
	return nil
}

var booleanAttrs = map[string]bool{
	"readonly": true,
	"disabled": true,
	"checked":  true,
	"hidden":   true,
}

func isBooleanAttr(key string) bool {
	return booleanAttrs[key]
}
