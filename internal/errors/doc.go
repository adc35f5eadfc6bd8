// Package errors provides coded, actionable errors for nodeview.
//
// Every error carries a stable code (e.g., "E201") that maps to a category,
// a short message, a longer explanation and a documentation URL. Library
// packages return these errors; only the CLI formats them for a terminal.
//
// # Categories
//
//   - preset: a preset was misconfigured or received an unusable payload
//   - config: nodeview.json could not be loaded or failed validation
//   - render: misuse of the renderer (e.g., mounting twice)
//   - protocol: malformed signals or bridge messages
//   - dataflow: input/output subscription misuse
//   - storage: snapshot persistence failures
//
// # Usage
//
//	err := errors.New("E201").WithDetailf("element %d", el)
//	if errors.HasCode(err, "E201") {
//	    ...
//	}
//
// Two coded errors compare equal under errors.Is when their codes match.
package errors
