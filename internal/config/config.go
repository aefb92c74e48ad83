package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables the launcher reads at startup. EnvRoot is also
// re-exported to the spawned service so it derives the same paths.
const (
	// EnvRoot overrides working-root resolution with a verbatim path.
	EnvRoot = "OLDPHOTOS_ROOT"

	// EnvDevServer, when set to anything, marks an external dev server as
	// already serving the UI. The launcher then skips process supervision.
	EnvDevServer = "OLDPHOTOS_DEV_SERVER"
)

// FileName is the optional per-project config file, read from the working root.
const FileName = "launcher.yaml"

// Config holds all launcher settings, resolved once at startup.
// Values come from Default(), overlaid by the project config file,
// overlaid by environment variables.
type Config struct {
	Port            int      `yaml:"port"`
	StatusPath      string   `yaml:"status_path"`
	PollInterval    Duration `yaml:"poll_interval"`
	ReadyTimeout    Duration `yaml:"ready_timeout"`
	MonitorInterval Duration `yaml:"monitor_interval"`
	StopGrace       Duration `yaml:"stop_grace"`
	MarkerDir       string   `yaml:"marker_dir"`
	EntryScript     string   `yaml:"entry_script"`
	WindowWidth     int      `yaml:"window_width"`
	WindowHeight    int      `yaml:"window_height"`

	// Env-only fields, never read from the config file.
	RootOverride string `yaml:"-"`
	SkipServer   bool   `yaml:"-"`
}

// Default returns the launcher defaults. The port, poll cadence, status
// path, entry script and marker directory match what the service core
// expects; overriding them only makes sense for tests.
func Default() Config {
	return Config{
		Port:            3001,
		StatusPath:      "/api/status",
		PollInterval:    Duration{300 * time.Millisecond},
		ReadyTimeout:    Duration{30 * time.Second},
		MonitorInterval: Duration{5 * time.Second},
		StopGrace:       Duration{3 * time.Second},
		MarkerDir:       "ai",
		EntryScript:     "packages/core/index.js",
		WindowWidth:     1280,
		WindowHeight:    850,
	}
}

// FromEnv fills the env-driven fields using lookup (usually os.LookupEnv).
// Taking the lookup as a parameter keeps tests off the real environment.
func (c *Config) FromEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvRoot); ok && v != "" {
		c.RootOverride = v
	}
	if _, ok := lookup(EnvDevServer); ok {
		c.SkipServer = true
	}
}

// MergeFile overlays values from the YAML file at path onto c. A missing
// file leaves c unchanged and returns no error. Keys absent from the file
// keep their current values.
func (c *Config) MergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// ServiceURL returns the base URL the service UI is reachable at.
func (c Config) ServiceURL() string {
	return fmt.Sprintf("http://localhost:%d", c.Port)
}

// StatusURL returns the readiness endpoint URL.
func (c Config) StatusURL() string {
	return fmt.Sprintf("http://localhost:%d%s", c.Port, c.StatusPath)
}

// Duration wraps time.Duration for YAML unmarshaling from strings like "300ms", "30s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return d.Duration.String(), nil
}
