// Package config loads the xitem CLI settings.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/xitem/pkg/adapters/fs"
	"github.com/aretw0/xitem/pkg/adapters/httpapi"
	"github.com/aretw0/xitem/pkg/codec"
)

// DefaultPath is read when neither --config nor XITEM_CONFIG names a file.
const DefaultPath = "xitem.yaml"

// Config is the root configuration structure.
// It is read-only after Load returns.
type Config struct {
	Format string       `yaml:"format"`
	Outbox OutboxConfig `yaml:"outbox"`
	Inbox  InboxConfig  `yaml:"inbox"`
	HTTP   HTTPConfig   `yaml:"http"`
	Log    LogConfig    `yaml:"log"`
}

// OutboxConfig contains the directory items are sent to.
type OutboxConfig struct {
	Dir string `yaml:"dir"`
}

// InboxConfig contains the watched directory settings.
type InboxConfig struct {
	Dir      string   `yaml:"dir"`
	Pattern  string   `yaml:"pattern"`
	Debounce Duration `yaml:"debounce"`
}

// HTTPConfig contains relay server settings.
type HTTPConfig struct {
	Addr         string `yaml:"addr"`
	MaxBodyBytes int64  `yaml:"max_body_bytes"`
	History      int    `yaml:"history"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Duration is a wrapper around time.Duration that supports YAML string parsing.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Default returns a Config with all default values.
func Default() *Config {
	return &Config{
		Format: "json",
		Outbox: OutboxConfig{Dir: "outbox"},
		Inbox: InboxConfig{
			Dir:      "inbox",
			Pattern:  fs.DefaultPattern,
			Debounce: Duration(50 * time.Millisecond),
		},
		HTTP: HTTPConfig{
			Addr:         ":8080",
			MaxBodyBytes: httpapi.DefaultMaxBodyBytes,
			History:      httpapi.DefaultHistory,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load builds the configuration with precedence defaults → YAML file → env vars.
//
// An explicit path must exist. Without one, XITEM_CONFIG is tried, then
// DefaultPath; a missing default file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	mustExist := true
	if path == "" {
		path = os.Getenv("XITEM_CONFIG")
	}
	if path == "" {
		path = DefaultPath
		mustExist = false
	}

	if err := loadYAMLFile(cfg, path, mustExist); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadYAMLFile(cfg *Config, path string, mustExist bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Only non-empty env vars override config values.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("XITEM_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("XITEM_OUTBOX"); v != "" {
		cfg.Outbox.Dir = v
	}
	if v := os.Getenv("XITEM_INBOX"); v != "" {
		cfg.Inbox.Dir = v
	}
	if v := os.Getenv("XITEM_PATTERN"); v != "" {
		cfg.Inbox.Pattern = v
	}
	if v := os.Getenv("XITEM_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("XITEM_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("XITEM_MAX_BODY"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("XITEM_MAX_BODY: %w", err)
		}
		cfg.HTTP.MaxBodyBytes = n
	}
	return nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if _, err := codec.ByName(c.Format); err != nil {
		errs = append(errs, fmt.Errorf("format: %w (want one of %s)", err, strings.Join(codec.Names(), ", ")))
	}
	if c.Inbox.Pattern == "" {
		errs = append(errs, errors.New("inbox.pattern: must not be empty"))
	} else if !doublestar.ValidatePattern(c.Inbox.Pattern) {
		errs = append(errs, fmt.Errorf("inbox.pattern: invalid pattern %q", c.Inbox.Pattern))
	}
	if c.Inbox.Debounce < 0 {
		errs = append(errs, errors.New("inbox.debounce: must not be negative"))
	}
	if c.HTTP.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("http.max_body_bytes: must be positive"))
	}
	if c.HTTP.History <= 0 {
		errs = append(errs, errors.New("http.history: must be positive"))
	}
	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// Codec returns the codec named by Format.
func (c *Config) Codec() codec.Codec {
	cd, err := codec.ByName(c.Format)
	if err != nil {
		return codec.NewJSON()
	}
	return cd
}
