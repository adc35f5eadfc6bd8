package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/nodeview/internal/errors"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Server.Port != DefaultPort {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, DefaultPort)
	}
	if cfg.Server.Host != DefaultHost {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, DefaultHost)
	}
	if !reflect.DeepEqual(cfg.Render.Presets, DefaultPresets) {
		t.Errorf("Render.Presets = %v, want %v", cfg.Render.Presets, DefaultPresets)
	}
	if cfg.Render.Scheduler != SchedulerQueue {
		t.Errorf("Render.Scheduler = %q, want %q", cfg.Render.Scheduler, SchedulerQueue)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Namespace != DefaultNamespace {
		t.Errorf("Metrics = %+v", cfg.Metrics)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}

	cfg.Render.Presets[0] = "changed"
	if DefaultPresets[0] != "classic" {
		t.Error("New() must copy DefaultPresets")
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := Load(tmpDir)
	if !errors.HasCode(err, "E141") {
		t.Errorf("Load(missing) error = %v, want E141", err)
	}

	configJSON := `{
  "logLevel": "debug",
  "render": {
    "presets": ["minimap", "classic"],
    "scheduler": "immediate",
    "connectionPath": "straight",
    "menuDelay": "250ms"
  },
  "server": {"host": "0.0.0.0", "port": 8080},
  "metrics": {"enabled": false},
  "snapshot": {"dir": "snaps", "s3": {"bucket": "b", "region": "eu-west-1"}}
}
`
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte(configJSON), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Address() != "0.0.0.0:8080" {
		t.Errorf("Address() = %q", cfg.Address())
	}
	if want := []string{"minimap", "classic"}; !reflect.DeepEqual(cfg.Render.Presets, want) {
		t.Errorf("Render.Presets = %v, want %v", cfg.Render.Presets, want)
	}
	if cfg.Render.Scheduler != SchedulerImmediate {
		t.Errorf("Render.Scheduler = %q", cfg.Render.Scheduler)
	}
	if cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled should be false")
	}
	if cfg.Metrics.Namespace != DefaultNamespace {
		t.Errorf("Metrics.Namespace = %q, want default", cfg.Metrics.Namespace)
	}
	if cfg.Level() != slog.LevelDebug {
		t.Errorf("Level() = %v", cfg.Level())
	}
	if d, err := cfg.MenuDelay(); err != nil || d != 250*time.Millisecond {
		t.Errorf("MenuDelay() = %v, %v", d, err)
	}
	if cfg.SnapshotDir() != filepath.Join(tmpDir, "snaps") {
		t.Errorf("SnapshotDir() = %q", cfg.SnapshotDir())
	}
	if cfg.Snapshot.S3.Bucket != "b" || cfg.Snapshot.S3.Region != "eu-west-1" {
		t.Errorf("Snapshot.S3 = %+v", cfg.Snapshot.S3)
	}
	if cfg.Dir() != tmpDir {
		t.Errorf("Dir() = %q, want %q", cfg.Dir(), tmpDir)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, []byte("{invalid"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadFile(path)
	if !errors.HasCode(err, "E120") {
		t.Errorf("LoadFile() error = %v, want E120", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)

	cfg := New()
	cfg.Name = "editor"
	cfg.Render.Presets = []string{"classic"}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo error: %v", err)
	}
	if cfg.Path() != path {
		t.Errorf("Path() = %q", cfg.Path())
	}

	data, _ := os.ReadFile(path)
	if !strings.HasSuffix(string(data), "}\n") {
		t.Error("saved file should end with a newline")
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Name != "editor" || !reflect.DeepEqual(loaded.Render.Presets, []string{"classic"}) {
		t.Errorf("loaded = %+v", loaded)
	}

	if err := New().Save(); err == nil {
		t.Error("Save() without a path should fail")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"port", func(c *Config) { c.Server.Port = 70000 }},
		{"log level", func(c *Config) { c.LogLevel = "verbose" }},
		{"scheduler", func(c *Config) { c.Render.Scheduler = "lazy" }},
		{"curvature", func(c *Config) { c.Render.Curvature = -1 }},
		{"menu delay", func(c *Config) { c.Render.MenuDelay = "soon" }},
		{"empty preset", func(c *Config) { c.Render.Presets = []string{"classic", " "} }},
		{"duplicate preset", func(c *Config) { c.Render.Presets = []string{"classic", "classic"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.HasCode(err, "E122") {
				t.Errorf("Validate() error = %v, want E122", err)
			}
		})
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	if err := New().SaveTo(filepath.Join(root, ConfigFileName)); err != nil {
		t.Fatal(err)
	}

	got, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := filepath.Abs(root)
	if got != want {
		t.Errorf("FindProjectRoot() = %q, want %q", got, want)
	}
	if !Exists(root) || Exists(nested) {
		t.Error("Exists() mismatch")
	}
}
