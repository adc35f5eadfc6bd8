package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vango-dev/nodeview/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "nodeview.json"

	// DefaultPort is the default bridge server port.
	DefaultPort = 7420

	// DefaultHost is the default bridge server host.
	DefaultHost = "localhost"

	// DefaultNamespace is the default metrics namespace and tracer name.
	DefaultNamespace = "nodeview"
)

// Scheduler modes.
const (
	SchedulerQueue     = "queue"
	SchedulerImmediate = "immediate"
)

// DefaultPresets is the preset chain used when none is configured.
var DefaultPresets = []string{"classic", "contextmenu", "minimap", "reroute"}

// Config represents the complete nodeview.json configuration.
type Config struct {
	// Name labels the deployment in logs.
	Name string `json:"name,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"logLevel,omitempty"`

	// Render configures the plugin and its presets.
	Render RenderConfig `json:"render"`

	// Server configures the bridge server.
	Server ServerConfig `json:"server"`

	// Metrics configures Prometheus instrumentation.
	Metrics MetricsConfig `json:"metrics"`

	// Tracing configures OpenTelemetry spans.
	Tracing TracingConfig `json:"tracing"`

	// Snapshot configures where document snapshots are stored.
	Snapshot SnapshotConfig `json:"snapshot"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// RenderConfig configures the preset chain.
type RenderConfig struct {
	// Presets are catalog names in chain order.
	Presets []string `json:"presets,omitempty"`

	// Scheduler is "queue" (paints deferred until flushed) or "immediate".
	Scheduler string `json:"scheduler,omitempty"`

	// ConnectionPath is "curved", "straight" or empty. Empty leaves the
	// classic preset without a path function.
	ConnectionPath string `json:"connectionPath,omitempty"`

	// Curvature applies to curved paths.
	Curvature float64 `json:"curvature,omitempty"`

	// MinimapSize is the minimap width in pixels.
	MinimapSize float64 `json:"minimapSize,omitempty"`

	// MenuDelay is how long the context menu lingers (e.g., "1s").
	MenuDelay string `json:"menuDelay,omitempty"`
}

// ServerConfig contains bridge server settings.
type ServerConfig struct {
	Host string `json:"host,omitempty"`
	Port int    `json:"port,omitempty"`

	// AllowedOrigins restricts websocket origins. Empty allows same-origin only.
	AllowedOrigins []string `json:"allowedOrigins,omitempty"`

	// ReadBufferSize and WriteBufferSize are websocket buffer sizes in bytes.
	ReadBufferSize  int `json:"readBufferSize,omitempty"`
	WriteBufferSize int `json:"writeBufferSize,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled"`
	Namespace string `json:"namespace,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	Enabled    bool   `json:"enabled"`
	TracerName string `json:"tracerName,omitempty"`
}

// SnapshotConfig selects a snapshot store. S3 wins when a bucket is set.
type SnapshotConfig struct {
	Dir string   `json:"dir,omitempty"`
	S3  S3Config `json:"s3,omitempty"`
}

// S3Config contains S3 snapshot store settings.
type S3Config struct {
	Bucket       string `json:"bucket,omitempty"`
	Prefix       string `json:"prefix,omitempty"`
	Region       string `json:"region,omitempty"`
	Endpoint     string `json:"endpoint,omitempty"`
	UsePathStyle bool   `json:"usePathStyle,omitempty"`
}

// New returns a configuration with defaults.
func New() *Config {
	cfg := &Config{
		LogLevel: "info",
		Render: RenderConfig{
			Presets:        append([]string(nil), DefaultPresets...),
			Scheduler:      SchedulerQueue,
			ConnectionPath: "curved",
			Curvature:      0.3,
		},
		Server: ServerConfig{
			Host: DefaultHost,
			Port: DefaultPort,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultNamespace,
		},
		Tracing: TracingConfig{
			TracerName: DefaultNamespace,
		},
	}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from the specified directory.
// It looks for nodeview.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E141").
				WithDetail("No " + ConfigFileName + " found at " + path).
				WithSuggestion("Run 'nodeview config init' to create one")
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E120").
			WithDetail("Failed to parse " + ConfigFileName + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E120").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E120").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Render.Presets == nil {
		c.Render.Presets = append([]string(nil), DefaultPresets...)
	}
	if c.Render.Scheduler == "" {
		c.Render.Scheduler = SchedulerQueue
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.ReadBufferSize == 0 {
		c.Server.ReadBufferSize = 4096
	}
	if c.Server.WriteBufferSize == 0 {
		c.Server.WriteBufferSize = 4096
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = DefaultNamespace
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("E122").
			WithDetail("Port must be between 0 and 65535")
	}
	if _, ok := parseLevel(c.LogLevel); !ok {
		return errors.New("E122").
			WithDetailf("logLevel %q is not one of debug, info, warn, error", c.LogLevel)
	}
	switch c.Render.Scheduler {
	case SchedulerQueue, SchedulerImmediate:
	default:
		return errors.New("E122").
			WithDetailf("render.scheduler %q must be %q or %q", c.Render.Scheduler, SchedulerQueue, SchedulerImmediate)
	}
	if c.Render.Curvature < 0 || c.Render.MinimapSize < 0 {
		return errors.New("E122").WithDetail("render.curvature and render.minimapSize must not be negative")
	}
	if _, err := c.MenuDelay(); err != nil {
		return err
	}

	seen := make(map[string]bool, len(c.Render.Presets))
	for _, name := range c.Render.Presets {
		if strings.TrimSpace(name) == "" {
			return errors.New("E122").WithDetail("render.presets contains an empty name")
		}
		if seen[name] {
			return errors.New("E122").WithDetailf("render.presets lists %q twice", name)
		}
		seen[name] = true
	}
	return nil
}

// Address returns the listen address of the bridge server.
func (c *Config) Address() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// Level returns the slog level for LogLevel, defaulting to info.
func (c *Config) Level() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

// MenuDelay parses Render.MenuDelay. An empty value yields zero.
func (c *Config) MenuDelay() (time.Duration, error) {
	if c.Render.MenuDelay == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Render.MenuDelay)
	if err != nil || d < 0 {
		return 0, errors.New("E122").
			WithDetailf("render.menuDelay %q is not a valid duration", c.Render.MenuDelay).
			WithSuggestion(`Use a Go duration such as "500ms" or "1s"`)
	}
	return d, nil
}

// SnapshotDir returns the snapshot directory resolved against the config
// directory, or "" when disk snapshots are off.
func (c *Config) SnapshotDir() string {
	dir := c.Snapshot.Dir
	if dir == "" || filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(c.Dir(), dir)
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "", "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the directory holding
// nodeview.json.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E141").
				WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory").
				WithSuggestion("Run 'nodeview config init' to create one")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the working directory or
// its nearest ancestor holding nodeview.json.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}
