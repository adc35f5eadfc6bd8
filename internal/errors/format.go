package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// style is an ANSI SGR parameter.
type style string

const (
	styleBold  style = "1"
	styleRed   style = "31"
	styleBlue  style = "34"
	styleCyan  style = "36"
	styleWhite style = "37"
	styleGray  style = "90"
)

// detailWidth is the column at which details are wrapped.
const detailWidth = 70

var colorEnabled = true

// DisableColors turns off ANSI escapes, e.g. when stderr is not a terminal.
func DisableColors() { colorEnabled = false }

// EnableColors turns ANSI escapes back on.
func EnableColors() { colorEnabled = true }

func paint(text string, styles ...style) string {
	if !colorEnabled || len(styles) == 0 {
		return text
	}
	codes := make([]string, len(styles))
	for i, s := range styles {
		codes[i] = string(s)
	}
	return "\033[" + strings.Join(codes, ";") + "m" + text + "\033[0m"
}

// Format renders the error as a multi-line block for the terminal:
// headline, wrapped detail, then cause, hint and docs link when present.
func (e *Error) Format() string {
	var b strings.Builder

	head := "ERROR: "
	if e.Code != "" {
		head = "ERROR " + e.Code + ": "
	}
	fmt.Fprintf(&b, "\n%s%s\n\n", paint(head, styleRed, styleBold), paint(e.Message, styleWhite))

	if lines := wrapText(e.Detail, detailWidth); len(lines) > 0 {
		for _, line := range lines {
			fmt.Fprintf(&b, "  %s\n", line)
		}
		b.WriteString("\n")
	}

	labeled := func(label string, labelStyle style, value string) {
		fmt.Fprintf(&b, "  %s%s\n", paint(label+": ", labelStyle), value)
	}
	if e.Wrapped != nil {
		labeled("Cause", styleGray, e.Wrapped.Error())
		b.WriteString("\n")
	}
	if e.Suggestion != "" {
		labeled("Hint", styleCyan, e.Suggestion)
		b.WriteString("\n")
	}
	if e.DocURL != "" {
		labeled("Learn more", styleGray, paint(e.DocURL, styleBlue))
	}

	return b.String()
}

// FormatCompact returns "CODE: message", or just the message.
func (e *Error) FormatCompact() string {
	if e.Code == "" {
		return e.Message
	}
	return e.Code + ": " + e.Message
}

// wrapText breaks text on spaces into lines of at most width columns.
// Words longer than width get a line of their own.
func wrapText(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	lines := []string{words[0]}
	for _, w := range words[1:] {
		last := &lines[len(lines)-1]
		if len(*last)+1+len(w) > width {
			lines = append(lines, w)
			continue
		}
		*last += " " + w
	}
	return lines
}

// Fprint writes err to w. Coded errors get the full block; anything else a
// single headline.
func Fprint(w io.Writer, err error) {
	var e *Error
	if stderrors.As(err, &e) {
		io.WriteString(w, e.Format())
		return
	}
	fmt.Fprintf(w, "\n%s %s\n\n", paint("ERROR:", styleRed, styleBold), err)
}

// PrintError writes err to stderr.
func PrintError(err error) {
	Fprint(os.Stderr, err)
}
