package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LogFormat selects how internal/log renders output.
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// Config holds all configuration for the rewrite pipeline and CLI.
type Config struct {
	// SourceSuffix is the input language's file extension, including the dot.
	SourceSuffix string `yaml:"source_suffix" env:"MODSPLIT_SOURCE_SUFFIX"`

	// PackageMarker is the filename (minus suffix) inserted into every
	// directory that receives an emitted file but has no marker of its own.
	PackageMarker string `yaml:"package_marker" env:"MODSPLIT_PACKAGE_MARKER"`

	// Formatter is the subprocess invoked once over the whole emitted tree
	// after every file has been written. Empty disables formatting.
	Formatter []string `yaml:"formatter" env:"MODSPLIT_FORMATTER"`

	// EnableSingletonRescue toggles the post-optimisation pass that merges
	// singleton communities back into a sibling sharing their source
	// directory. Disabling it is useful when comparing raw modularity
	// output against the rescued result.
	EnableSingletonRescue bool `yaml:"enable_singleton_rescue" env:"MODSPLIT_SINGLETON_RESCUE"`

	// ParseConcurrency is loaded and validated (it must be non-negative),
	// but no command passes it to the pipeline: the parse stage always
	// sizes its worker pool by GOMAXPROCS.
	ParseConcurrency int `yaml:"parse_concurrency" env:"MODSPLIT_PARSE_CONCURRENCY"`

	// CacheDir, when non-empty, enables on-disk caching of parse results
	// keyed by file content hash.
	CacheDir string `yaml:"cache_dir" env:"MODSPLIT_CACHE_DIR"`

	// LogLevel and LogFormat configure internal/log's output.
	LogLevel  string    `yaml:"log_level" env:"MODSPLIT_LOG_LEVEL"`
	LogFormat LogFormat `yaml:"log_format" env:"MODSPLIT_LOG_FORMAT"`

	Verbose bool `yaml:"verbose" env:"MODSPLIT_VERBOSE"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		SourceSuffix:          ".py",
		PackageMarker:         "__init__",
		Formatter:             []string{"ruff", "format"},
		EnableSingletonRescue: true,
		ParseConcurrency:      0,
		CacheDir:              "",
		LogLevel:              "info",
		LogFormat:             LogFormatText,
		Verbose:               false,
	}
}

// configFilePath returns the default config file path.
func configFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".modsplit/config.yaml"
	}
	return filepath.Join(home, ".modsplit", "config.yaml")
}

// Load reads configuration from YAML file and applies environment variable overrides.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	configPath := configFilePath()
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromFile reads configuration from a specific YAML file path.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	if data, err := os.ReadFile(path); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MODSPLIT_SOURCE_SUFFIX"); v != "" {
		cfg.SourceSuffix = v
	}
	if v := os.Getenv("MODSPLIT_PACKAGE_MARKER"); v != "" {
		cfg.PackageMarker = v
	}
	if v := os.Getenv("MODSPLIT_CACHE_DIR"); v != "" {
		cfg.CacheDir = v
	}
	if v := os.Getenv("MODSPLIT_PARSE_CONCURRENCY"); v != "" {
		if i := parseInt(v); i > 0 {
			cfg.ParseConcurrency = i
		}
	}
	if v := os.Getenv("MODSPLIT_SINGLETON_RESCUE"); v != "" {
		cfg.EnableSingletonRescue = v == "true" || v == "1" || v == "yes"
	}
	if v := os.Getenv("MODSPLIT_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("MODSPLIT_LOG_FORMAT"); v != "" {
		cfg.LogFormat = LogFormat(v)
	}
	if v := os.Getenv("MODSPLIT_VERBOSE"); v != "" {
		cfg.Verbose = v == "true" || v == "1" || v == "yes"
	}
}

// Validate checks that the configuration has valid required fields.
func (c *Config) Validate() error {
	if c.SourceSuffix == "" || c.SourceSuffix[0] != '.' {
		return fmt.Errorf("source_suffix must be non-empty and start with '.', got %q", c.SourceSuffix)
	}
	if c.PackageMarker == "" {
		return fmt.Errorf("package_marker must be non-empty")
	}
	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("invalid log_format: %s (must be 'text' or 'json')", c.LogFormat)
	}
	if c.ParseConcurrency < 0 {
		return fmt.Errorf("parse_concurrency must be non-negative")
	}
	return nil
}

// parseInt attempts to parse a string as int.
func parseInt(s string) int {
	var i int
	if _, err := fmt.Sscanf(s, "%d", &i); err != nil {
		return 0
	}
	return i
}
