// Package config loads the edgeunity configuration from YAML with
// environment overrides. Loading order: .env file, config file with
// ${VAR} expansion, EDGEUNITY_* environment overrides, defaults,
// validation.
package config

import (
	"os"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailinx/edgeunity/internal/errors"
	"github.com/kailinx/edgeunity/internal/kernel"
)

// Config represents the application configuration
type Config struct {
	Operator OperatorConfig `yaml:"operator"`
	Output   OutputConfig   `yaml:"output"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	History  HistoryConfig  `yaml:"history"`
	Watch    WatchConfig    `yaml:"watch"`
}

// OperatorConfig selects and parameterizes the gradient operator.
type OperatorConfig struct {
	Name       string  `yaml:"name"`        // registry name, e.g. "parallel-sobel"
	KernelSize int     `yaml:"kernel_size"` // kernel side length; 0 means the family default
	Scale      float64 `yaml:"scale"`
	Delta      float64 `yaml:"delta"`
	Workers    int     `yaml:"workers"` // parallel variants; 0 means NumCPU
}

// OutputConfig controls where edge maps are written.
type OutputConfig struct {
	Directory string `yaml:"directory"` // empty means next to the input
	Suffix    string `yaml:"suffix"`    // inserted before the extension
}

// MetricsConfig controls the Prometheus recorder.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"` // /metrics listen address for the watch service
}

// HistoryConfig controls the SQLite run store.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// WatchConfig controls the directory watch service.
type WatchConfig struct {
	DebounceSeconds int      `yaml:"debounce_seconds"`
	RescanMinutes   int      `yaml:"rescan_minutes"` // periodic full rescan interval
	Extensions      []string `yaml:"extensions"`     // input extensions to pick up
}

// Load loads configuration from the specified file.
func Load(configPath string) (*Config, error) {
	loadEnvFile()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, errors.ConfigNotFound(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryConfig, errors.SeverityFatal, "failed to read config file").
			WithContext("path", configPath)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, errors.Wrap(err, errors.CategoryConfig, errors.SeverityFatal, "failed to unmarshal config").
			WithContext("path", configPath)
	}

	applyEnvOverrides(&config)
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Default returns a configuration with every field at its default, used
// when no config file is given.
func Default() *Config {
	config := &Config{}
	config.applyDefaults()
	return config
}

func (c *Config) applyDefaults() {
	if c.Operator.Name == "" {
		c.Operator.Name = "sobel"
	}
	if c.Operator.Scale == 0 {
		c.Operator.Scale = 1.0
	}
	if c.Operator.Workers == 0 {
		c.Operator.Workers = runtime.NumCPU()
	}
	if c.Output.Suffix == "" {
		c.Output.Suffix = "_edges"
	}
	if c.Metrics.Listen == "" {
		c.Metrics.Listen = ":9464"
	}
	if c.History.Path == "" {
		c.History.Path = "edgeunity.db"
	}
	if c.Watch.DebounceSeconds == 0 {
		c.Watch.DebounceSeconds = 2
	}
	if c.Watch.RescanMinutes == 0 {
		c.Watch.RescanMinutes = 10
	}
}

// Validate rejects configurations no operator can serve.
func (c *Config) Validate() error {
	name := c.Operator.Name
	base := name
	for _, prefix := range []string{"parallel-", "opencv-"} {
		if rest, ok := strings.CutPrefix(name, prefix); ok {
			base = rest
		}
	}
	if _, ok := kernel.ParseFamily(base); !ok {
		return errors.ValidationFailed("operator.name", "unknown operator "+name)
	}
	if c.Operator.Workers < 0 {
		return errors.ValidationFailed("operator.workers", "must not be negative")
	}
	if c.Operator.Scale < 0 {
		return errors.ValidationFailed("operator.scale", "must not be negative")
	}
	if c.Watch.DebounceSeconds < 0 {
		return errors.ValidationFailed("watch.debounce_seconds", "must not be negative")
	}
	return nil
}
