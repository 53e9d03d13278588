// Package config loads the CLI configuration file (minddump.yaml or minddump.toml).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config is the file-level configuration. Zero values mean "use the default".
type Config struct {
	Data     DataConfig     `yaml:"data" toml:"data"`
	Autosave AutosaveConfig `yaml:"autosave" toml:"autosave"`
	Backup   BackupConfig   `yaml:"backup" toml:"backup"`
	Log      LogConfig      `yaml:"log" toml:"log"`
}

type DataConfig struct {
	Path       string `yaml:"path" toml:"path"`
	Adapter    string `yaml:"adapter" toml:"adapter"` // fs | sqlite
	Format     string `yaml:"format" toml:"format"`   // json | yaml (fs only)
	Versioning bool   `yaml:"versioning" toml:"versioning"`
}

type AutosaveConfig struct {
	Window string `yaml:"window" toml:"window"` // e.g. "1.5s"
}

type BackupConfig struct {
	Dir string   `yaml:"dir" toml:"dir"`
	S3  S3Config `yaml:"s3" toml:"s3"`
}

type S3Config struct {
	Endpoint  string `yaml:"endpoint" toml:"endpoint"`
	Region    string `yaml:"region" toml:"region"`
	Bucket    string `yaml:"bucket" toml:"bucket"`
	AccessKey string `yaml:"access_key" toml:"access_key"`
	SecretKey string `yaml:"secret_key" toml:"secret_key"`
	Prefix    string `yaml:"prefix" toml:"prefix"`
}

type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"` // text | json
}

// Autosave window bounds accepted from configuration.
const (
	MinAutosaveWindow = time.Second
	MaxAutosaveWindow = 2 * time.Second
)

// FileNames are looked up, in order, by Discover.
var FileNames = []string{"minddump.yaml", "minddump.yml", "minddump.toml"}

// Discover returns the first config file found in dir, or "" if none.
func Discover(dir string) string {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Load reads config from path, expanding ${VAR} environment references.
// The format is chosen by extension.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(filepath.Ext(path), data)
}

// Parse decodes config data of the given extension (".yaml", ".yml" or ".toml").
func Parse(ext string, data []byte) (*Config, error) {
	expanded := expandEnvVars(string(data))

	var cfg Config
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	case ".toml":
		if _, err := toml.Decode(expanded, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %q", ext)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

var envPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR} with environment variable values.
func expandEnvVars(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})
}

// Validate checks field values that have a closed set of options.
func (c *Config) Validate() error {
	switch c.Data.Adapter {
	case "", "fs", "sqlite":
	default:
		return fmt.Errorf("data.adapter must be fs or sqlite, got %q", c.Data.Adapter)
	}
	switch c.Data.Format {
	case "", "json", "yaml":
	default:
		return fmt.Errorf("data.format must be json or yaml, got %q", c.Data.Format)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	if _, err := c.AutosaveWindow(); err != nil {
		return err
	}
	return nil
}

// AutosaveWindow parses autosave.window. Empty returns 0 (use the default).
func (c *Config) AutosaveWindow() (time.Duration, error) {
	if c.Autosave.Window == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Autosave.Window)
	if err != nil {
		return 0, fmt.Errorf("autosave.window: %w", err)
	}
	if d < MinAutosaveWindow || d > MaxAutosaveWindow {
		return 0, fmt.Errorf("autosave.window must be between %s and %s, got %s", MinAutosaveWindow, MaxAutosaveWindow, d)
	}
	return d, nil
}
