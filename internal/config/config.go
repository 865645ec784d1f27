package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/hookdoc/internal/foundation/errors"
	"git.home.luguber.info/inful/hookdoc/internal/logfields"
)

// CurrentVersion is the only configuration schema version understood by Load.
const CurrentVersion = "1.0"

// Config is the hookdoc configuration file (hookdoc.yaml).
type Config struct {
	Version  string         `yaml:"version"`
	Hooks    HooksConfig    `yaml:"hooks"`
	Output   OutputConfig   `yaml:"output"`
	Document DocumentConfig `yaml:"document"`
	Watch    WatchConfig    `yaml:"watch,omitempty"`
	Metrics  MetricsConfig  `yaml:"metrics,omitempty"`
}

// HooksConfig describes where hook directories live.
type HooksConfig struct {
	Directory  string   `yaml:"directory"`         // Root holding one directory per hook
	SourceFile string   `yaml:"source_file"`       // File name read from each hook directory
	Exclude    []string `yaml:"exclude,omitempty"` // Directory names to skip
}

// OutputConfig describes the generated document.
type OutputConfig struct {
	Path string `yaml:"path"`
}

// DocumentConfig controls the static parts of the generated README.
type DocumentConfig struct {
	Title        string       `yaml:"title"`
	CodeLanguage string       `yaml:"code_language"`
	Template     string       `yaml:"template,omitempty"` // Optional text/template override
	Native       NativeConfig `yaml:"native"`
	References   []Reference  `yaml:"references"`
}

// NativeConfig lists the framework's built-in hooks linked from the README.
type NativeConfig struct {
	BaseURL string   `yaml:"base_url"`
	Hooks   []string `yaml:"hooks"`
}

// Reference is an external link listed at the end of the README.
type Reference struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// WatchConfig tunes the watch command.
type WatchConfig struct {
	Debounce string `yaml:"debounce,omitempty"` // Quiet period after the last change
	Interval string `yaml:"interval,omitempty"` // Optional periodic regeneration, empty disables
}

// MetricsConfig controls Prometheus export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"` // node_exporter textfile written after each run
	Listen   string `yaml:"listen,omitempty"`   // host:port serving /metrics in watch mode
}

// DebounceDuration returns the parsed watch debounce. Validation guarantees it parses.
func (w WatchConfig) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(w.Debounce)
	if err != nil {
		return 0
	}
	return d
}

// IntervalDuration returns the parsed periodic interval, zero when disabled.
func (w WatchConfig) IntervalDuration() time.Duration {
	if w.Interval == "" {
		return 0
	}
	d, err := time.ParseDuration(w.Interval)
	if err != nil {
		return 0
	}
	return d
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	if err := applyDefaults(cfg); err != nil {
		panic(fmt.Sprintf("default configuration invalid: %v", err))
	}
	return cfg
}

// Load reads, defaults and validates the configuration at configPath.
func Load(configPath string) (*Config, error) {
	if envFile, err := loadEnvFile(); err == nil {
		slog.Debug("Loaded environment file", logfields.Path(envFile))
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ferrors.ConfigError("configuration file not found").
				WithContext("path", configPath).
				Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "read configuration file").
			WithContext("path", configPath).
			Fatal().
			Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		if c, ok := ferrors.AsClassified(err); ok {
			return nil, c.WithContext("path", configPath)
		}
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML configuration bytes, expanding ${VAR} references first.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "decode configuration").Fatal().Build()
	}

	if cfg.Version != "" && cfg.Version != CurrentVersion {
		return nil, ferrors.ConfigError(fmt.Sprintf("unsupported configuration version %q (expected %s)", cfg.Version, CurrentVersion)).Build()
	}

	if err := applyDefaults(&cfg); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "apply defaults").Fatal().Build()
	}
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Resolve loads configPath when given. Without a path it uses DefaultConfigFile when
// present in the working directory and falls back to Default otherwise. The returned
// string is the file actually loaded, empty for built-in defaults.
func Resolve(configPath string) (*Config, string, error) {
	if configPath != "" {
		cfg, err := Load(configPath)
		return cfg, configPath, err
	}
	if _, err := os.Stat(DefaultConfigFile); err == nil {
		cfg, err := Load(DefaultConfigFile)
		return cfg, DefaultConfigFile, err
	}
	return Default(), "", nil
}

func applyDefaults(cfg *Config) error {
	return NewDefaultApplier().ApplyDefaults(cfg)
}
