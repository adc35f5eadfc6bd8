// Package plugin implements the reconciliation plugin.
//
// The plugin is a scope.Scope attached under the editor's area scope. It
// intercepts "render" and "unmount" signals and drives the renderer so each
// attachment point ends up in the right state:
//
//   - "unmount": the instance and its owner entry are released. Always succeeds.
//   - "render" already filled: passed through untouched.
//   - "render" at a mounted element: routed to the preset that mounted it.
//     A nil patch means the preset declined; the signal is still filled.
//   - "render" at an empty element: presets are probed in registration
//     order and the first one producing a Mount wins. If none does, the
//     signal passes through unfilled.
//
// Every other signal type passes through unchanged.
//
// Presets are plain values implementing Preset plus any of the optional
// capabilities Producer, Updater and Attacher:
//
//	p := plugin.New()
//	p.AddPreset(classic.New(classic.WithPath(classic.StraightPath)))
//	if err := area.Use(p); err != nil { // attaches presets
//	    return err
//	}
package plugin
