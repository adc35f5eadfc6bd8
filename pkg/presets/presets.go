// Package presets is the catalog of built-in presets. It builds presets by
// name and decodes wire payloads into the types each preset expects.
package presets

import (
	"encoding/json"
	"log/slog"
	"sort"
	"time"

	"github.com/vango-dev/nodeview/internal/errors"
	"github.com/vango-dev/nodeview/pkg/plugin"
	"github.com/vango-dev/nodeview/pkg/presets/classic"
	"github.com/vango-dev/nodeview/pkg/presets/contextmenu"
	"github.com/vango-dev/nodeview/pkg/presets/minimap"
	"github.com/vango-dev/nodeview/pkg/presets/reroute"
)

// Connection path styles understood by Options.ConnectionPath.
const (
	PathCurved   = "curved"
	PathStraight = "straight"
	PathNone     = ""
)

// DefaultCurvature is used for curved paths when none is set.
const DefaultCurvature = 0.3

// Options tunes the built-in presets.
type Options struct {
	Logger         *slog.Logger
	ConnectionPath string
	Curvature      float64
	MinimapSize    float64
	MenuDelay      time.Duration
}

// Constructor builds a preset.
type Constructor func(opts Options) (plugin.Preset, error)

// Decoder turns a JSON payload into the value a preset expects for kind.
// ok is false when the decoder does not know the kind.
type Decoder func(kind string, raw json.RawMessage) (payload any, ok bool, err error)

var constructors = map[string]Constructor{
	classic.Name:     newClassic,
	contextmenu.Name: newContextMenu,
	minimap.Name:     newMinimap,
	reroute.Name:     func(Options) (plugin.Preset, error) { return reroute.New(), nil },
}

var decoders = []Decoder{
	classic.Decode,
	contextmenu.Decode,
	minimap.Decode,
	reroute.Decode,
}

// Names returns the catalog names in sorted order.
func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build constructs the preset registered under name.
func Build(name string, opts Options) (plugin.Preset, error) {
	ctor, ok := constructors[name]
	if !ok {
		return nil, errors.New("E102").
			WithDetailf("preset %q", name).
			WithSuggestion("Available presets: classic, contextmenu, minimap, reroute")
	}
	return ctor(opts)
}

// BuildAll constructs every named preset, keeping the given order.
func BuildAll(names []string, opts Options) ([]plugin.Preset, error) {
	out := make([]plugin.Preset, 0, len(names))
	for _, name := range names {
		p, err := Build(name, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Install builds the named presets and adds them to p in order.
func Install(p *plugin.Plugin, names []string, opts Options) error {
	built, err := BuildAll(names, opts)
	if err != nil {
		return err
	}
	for _, preset := range built {
		p.AddPreset(preset)
	}
	return nil
}

// Decode converts a wire payload for kind. Kinds no built-in preset knows
// decode to a generic JSON value so custom presets can still read them.
func Decode(kind string, raw json.RawMessage) (any, error) {
	for _, dec := range decoders {
		payload, ok, err := dec(kind, raw)
		if !ok {
			continue
		}
		return payload, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, errors.New("E103").WithDetailf("kind %q", kind).Wrap(err)
	}
	return v, nil
}

func newClassic(opts Options) (plugin.Preset, error) {
	var classicOpts []classic.Option
	if opts.Logger != nil {
		classicOpts = append(classicOpts, classic.WithLogger(opts.Logger))
	}

	switch opts.ConnectionPath {
	case PathCurved:
		curvature := opts.Curvature
		if curvature <= 0 {
			curvature = DefaultCurvature
		}
		classicOpts = append(classicOpts, classic.WithPath(classic.CurvedPath(curvature)))
	case PathStraight:
		classicOpts = append(classicOpts, classic.WithPath(classic.StraightPath))
	case PathNone:
	default:
		return nil, errors.New("E122").
			WithDetailf("unknown connection path %q", opts.ConnectionPath).
			WithSuggestion(`Use "curved" or "straight"`)
	}
	return classic.New(classicOpts...), nil
}

func newContextMenu(opts Options) (plugin.Preset, error) {
	if opts.MenuDelay > 0 {
		return contextmenu.New(contextmenu.WithDelay(opts.MenuDelay)), nil
	}
	return contextmenu.New(), nil
}

func newMinimap(opts Options) (plugin.Preset, error) {
	return minimap.New(minimap.WithSize(opts.MinimapSize)), nil
}
