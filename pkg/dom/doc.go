// Package dom models attachment points and the default in-memory host.
//
// An attachment point is an Element: a synthetic, caller-issued ID rather
// than a live object handle. Registries key on it and release entries
// explicitly on unmount, so nothing depends on garbage collection to clean up.
//
// Document is the host the renderer paints into when no remote client is
// involved. It keeps the latest tree per element and can serialize any
// element, or the whole document, to HTML.
package dom
