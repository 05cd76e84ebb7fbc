// Package config loads flowsearch settings from defaults, a YAML file, the
// environment and command-line flags, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBackendURL = "http://localhost:8000/api"
	DefaultTimeout    = 30 * time.Second
	DefaultOutput     = "table"
	DefaultLogLevel   = "warn"
	DefaultLogFormat  = "text"

	envPrefix = "FLOWSEARCH"
)

// FlagKeys maps command-line flag names to the config keys they override.
var FlagKeys = map[string]string{
	"url":          "backend.url",
	"timeout":      "backend.timeout",
	"output":       "output",
	"log-level":    "logging.level",
	"log-format":   "logging.format",
	"metrics-file": "metrics.file",
}

type Config struct {
	Backend BackendConfig `mapstructure:"backend" yaml:"backend"`
	Output  string        `mapstructure:"output" yaml:"output"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
	path    string
}

type BackendConfig struct {
	URL     string        `mapstructure:"url" yaml:"url"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// MarshalYAML writes the timeout as a duration string such as "30s".
func (b BackendConfig) MarshalYAML() (interface{}, error) {
	return struct {
		URL     string `yaml:"url"`
		Timeout string `yaml:"timeout"`
	}{b.URL, b.Timeout.String()}, nil
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// MetricsConfig controls the optional Prometheus textfile dump written on exit.
type MetricsConfig struct {
	File string `mapstructure:"file" yaml:"file,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			URL:     DefaultBackendURL,
			Timeout: DefaultTimeout,
		},
		Output: DefaultOutput,
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// DefaultPath returns $FLOWSEARCH_CONFIG_DIR/config.yaml, falling back to
// ~/.flowsearch/config.yaml.
func DefaultPath() (string, error) {
	dir := os.Getenv(envPrefix + "_CONFIG_DIR")
	if dir == "" {
		home, err := homedir.Dir()
		if err != nil {
			return "", fmt.Errorf("failed to determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".flowsearch")
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the configuration. An empty cfgFile means DefaultPath; a missing
// file is not an error. flags may be nil.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	if cfgFile == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		cfgFile = p
	}

	v := viper.New()
	def := Default()
	v.SetDefault("backend.url", def.Backend.URL)
	v.SetDefault("backend.timeout", def.Backend.Timeout)
	v.SetDefault("output", def.Output)
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.format", def.Logging.Format)
	v.SetDefault("metrics.file", "")

	v.SetConfigFile(cfgFile)
	v.SetConfigType("yaml")

	// FLOWSEARCH_BACKEND_URL, FLOWSEARCH_LOGGING_LEVEL, ...
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("backend.url", envPrefix+"_BACKEND_URL", envPrefix+"_URL")

	if _, err := os.Stat(cfgFile); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", cfgFile, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config %s: %w", cfgFile, err)
	}

	if flags != nil {
		for name, key := range FlagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := Default()
	cfg.path = cfgFile
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings no command can work with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Backend.URL) == "" {
		return fmt.Errorf("backend.url must not be empty")
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("backend.timeout must be positive, got %s", c.Backend.Timeout)
	}
	switch c.Output {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("unsupported output format %q (want table, json or yaml)", c.Output)
	}
	return nil
}

// Path returns the file the configuration was loaded from or will be saved to.
func (c *Config) Path() string {
	return c.path
}

// Save writes the configuration as YAML, creating the directory if needed.
func (c *Config) Save() error {
	if c.path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		c.path = p
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(c.path, data, 0600)
}

// SetBackendURL updates the backend URL and persists the change.
func (c *Config) SetBackendURL(url string) error {
	url = strings.TrimRight(strings.TrimSpace(url), "/")
	if url == "" {
		return fmt.Errorf("backend URL must not be empty")
	}
	c.Backend.URL = url
	return c.Save()
}
