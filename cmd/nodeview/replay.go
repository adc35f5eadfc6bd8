package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/nodeview/internal/config"
	"github.com/vango-dev/nodeview/internal/errors"
	"github.com/vango-dev/nodeview/pkg/dom"
	"github.com/vango-dev/nodeview/pkg/plugin"
	"github.com/vango-dev/nodeview/pkg/presets"
	"github.com/vango-dev/nodeview/pkg/render"
	"github.com/vango-dev/nodeview/pkg/scope"
	"github.com/vango-dev/nodeview/pkg/snapshot"
)

// Script is a recorded sequence of requests from an editor core.
type Script struct {
	Steps []Step `yaml:"steps"`
}

// Step is one request. Type is "render", "unmount" or any custom signal.
type Step struct {
	Type    string      `yaml:"type"`
	Element dom.Element `yaml:"element"`
	Kind    string      `yaml:"kind"`
	Payload any         `yaml:"payload"`
}

// ParseScript decodes a YAML replay script.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.New("E302").WithDetail("replay script").Wrap(err)
	}
	for i, step := range s.Steps {
		if step.Type == "" {
			return nil, errors.New("E302").WithDetailf("step %d has no type", i+1)
		}
	}
	return &s, nil
}

func replayCmd(load func() (*config.Config, error)) *cobra.Command {
	var snapshotKey string

	cmd := &cobra.Command{
		Use:   "replay <script.yaml>",
		Short: "Render a recorded script and print the resulting HTML",
		Long: `Replay feeds every step of a YAML script through a plugin built from
nodeview.json, paints after each step and prints the HTML of every
attachment point.

Example script:
  steps:
    - type: render
      element: 1
      kind: node
      payload: {id: n1, label: Add}
    - type: unmount
      element: 1

Examples:
  nodeview replay graph.yaml
  nodeview replay graph.yaml --snapshot runs/graph`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			script, err := ParseScript(data)
			if err != nil {
				return err
			}
			return runReplay(cmd.Context(), cmd.OutOrStdout(), cfg, newLogger(cfg), script, snapshotKey)
		},
	}

	cmd.Flags().StringVar(&snapshotKey, "snapshot", "", "Save the final document under this key")

	return cmd
}

// replayer drives a plugin from script steps.
type replayer struct {
	root   *scope.Scope
	plugin *plugin.Plugin
	doc    *dom.Document
	queue  *render.Queue
	logger *slog.Logger
}

func newReplayer(cfg *config.Config, logger *slog.Logger) (*replayer, error) {
	opts, err := presetOptions(cfg, logger)
	if err != nil {
		return nil, err
	}

	r := &replayer{
		root:   scope.New("editor"),
		doc:    dom.NewDocument(),
		logger: logger,
	}
	var scheduler render.Scheduler = render.Immediate{}
	if cfg.Render.Scheduler == config.SchedulerQueue {
		r.queue = render.NewQueue()
		scheduler = r.queue
	}
	mws, _ := instrumentation(cfg, nil)

	r.plugin = plugin.New(
		plugin.WithHost(r.doc),
		plugin.WithScheduler(scheduler),
		plugin.WithLogger(logger),
		plugin.WithMiddleware(mws...),
	)
	if err := presets.Install(r.plugin, cfg.Render.Presets, opts); err != nil {
		return nil, err
	}
	if err := r.root.Use(r.plugin); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *replayer) run(ctx context.Context, script *Script) error {
	for i, step := range script.Steps {
		sig, err := step.signal()
		if err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
		out, err := r.root.Emit(ctx, sig)
		if err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
		if r.queue != nil {
			r.queue.Flush()
		}
		if f, ok := signalData(out).(scope.Filler); ok && step.Type == plugin.TypeRender && !f.IsFilled() {
			r.logger.Warn("render not handled", "step", i+1, "element", step.Element, "kind", step.Kind)
		}
	}
	return nil
}

func signalData(s *scope.Signal) any {
	if s == nil {
		return nil
	}
	return s.Data
}

func (s Step) signal() (*scope.Signal, error) {
	switch s.Type {
	case plugin.TypeRender:
		raw, err := json.Marshal(s.Payload)
		if err != nil {
			return nil, errors.New("E103").WithDetailf("kind %q", s.Kind).Wrap(err)
		}
		if s.Payload == nil {
			raw = nil
		}
		payload, err := presets.Decode(s.Kind, raw)
		if err != nil {
			return nil, err
		}
		return plugin.Render(s.Element, s.Kind, payload), nil
	case plugin.TypeUnmount:
		return plugin.Unmount(s.Element), nil
	default:
		return &scope.Signal{Type: s.Type, Data: s.Payload}, nil
	}
}

func runReplay(ctx context.Context, w io.Writer, cfg *config.Config, logger *slog.Logger, script *Script, snapshotKey string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	r, err := newReplayer(cfg, logger)
	if err != nil {
		return err
	}
	if err := r.run(ctx, script); err != nil {
		return err
	}
	if _, err := r.doc.WriteTo(w); err != nil {
		return err
	}

	if snapshotKey == "" {
		return nil
	}
	store, err := openSnapshots(cfg)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("E501").
			WithDetail("no snapshot store configured").
			WithSuggestion("Set snapshot.dir or snapshot.s3.bucket in nodeview.json")
	}
	saved, err := snapshot.Write(ctx, store, snapshotKey, r.doc)
	if err != nil {
		return err
	}
	logger.Info("snapshot saved", "key", saved.Key, "size", saved.Size)
	return nil
}
