// Package config provides configuration management for mintconv.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Defaults applied when a field is left empty.
const (
	DefaultOutputExt = ".mdx"
	DefaultJobs      = 4
)

// DefaultLinkSuffixes are the link suffixes dropped when none are configured.
var DefaultLinkSuffixes = []string{".md", ".mdx"}

// Config holds the mintconv configuration.
type Config struct {
	SourceDir        string   `yaml:"source_dir"`
	OutputDir        string   `yaml:"output_dir"`
	Include          []string `yaml:"include,omitempty"`
	Exclude          []string `yaml:"exclude,omitempty"`
	OutputExt        string   `yaml:"output_ext,omitempty"`
	DropLinkSuffixes []string `yaml:"drop_link_suffixes,omitempty"`
	Jobs             int      `yaml:"jobs,omitempty"`
	OutputFormat     string   `yaml:"output_format,omitempty"`
}

// Validate checks that all required fields are present and valid.
func (c *Config) Validate() error {
	if c.SourceDir == "" {
		return errors.New("source_dir is required")
	}
	if c.OutputDir == "" {
		return errors.New("output_dir is required")
	}
	if filepath.Clean(c.SourceDir) == filepath.Clean(c.OutputDir) {
		return errors.New("output_dir must differ from source_dir")
	}
	return c.ValidateOptions()
}

// ValidateOptions checks the fields that shape a run, leaving the
// directories alone. Commands that take their paths from arguments use it.
func (c *Config) ValidateOptions() error {
	if c.Jobs < 0 {
		return errors.New("jobs must be positive")
	}
	if c.OutputExt != "" && !strings.HasPrefix(c.OutputExt, ".") {
		return errors.New("output_ext must start with a dot")
	}
	switch c.OutputFormat {
	case "", "table", "json", "plain":
	default:
		return fmt.Errorf("unknown output_format %q", c.OutputFormat)
	}
	for _, pattern := range append(append([]string{}, c.Include...), c.Exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid glob %q", pattern)
		}
	}
	return nil
}

// ApplyDefaults fills unset fields with their default values.
func (c *Config) ApplyDefaults() {
	if c.OutputExt == "" {
		c.OutputExt = DefaultOutputExt
	}
	if c.Jobs == 0 {
		c.Jobs = DefaultJobs
	}
	if len(c.DropLinkSuffixes) == 0 {
		c.DropLinkSuffixes = append([]string(nil), DefaultLinkSuffixes...)
	}
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables override existing values only if set and non-empty.
// An unparsable MINTCONV_JOBS is ignored.
func (c *Config) LoadFromEnv() {
	if dir := os.Getenv("MINTCONV_SOURCE_DIR"); dir != "" {
		c.SourceDir = dir
	}
	if dir := os.Getenv("MINTCONV_OUTPUT_DIR"); dir != "" {
		c.OutputDir = dir
	}
	if jobs := os.Getenv("MINTCONV_JOBS"); jobs != "" {
		if n, err := strconv.Atoi(jobs); err == nil && n > 0 {
			c.Jobs = n
		}
	}
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "mintconv", "config.yml")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".mintconv", "config.yml")
	}

	return filepath.Join(home, ".config", "mintconv", "config.yml")
}

// ResolvePath returns override when set, else DefaultConfigPath.
func ResolvePath(override string) string {
	if override != "" {
		return override
	}
	return DefaultConfigPath()
}

// Save writes the configuration to the specified path.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Load reads the configuration from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// LoadWithEnv loads configuration from file, overrides it with environment
// variables and fills in defaults. A missing file is not an error; a file
// that exists but cannot be parsed is.
func LoadWithEnv(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		cfg = &Config{}
	}

	cfg.LoadFromEnv()
	cfg.ApplyDefaults()
	return cfg, nil
}
