// Package config handles configuration loading and validation for pathsense.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ayusman/pathsense/internal/gesture"
	"github.com/ayusman/pathsense/internal/logging"
	"github.com/ayusman/pathsense/internal/plugin"
	"github.com/ayusman/pathsense/internal/tracker"
	"github.com/ayusman/pathsense/internal/trajectory"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Environment variables that override file settings.
const (
	EnvDBPath   = "PATHSENSE_DB"
	EnvLogLevel = "PATHSENSE_LOG_LEVEL"
	EnvPlugins  = "PATHSENSE_PLUGINS"
)

// Config is the top-level configuration.
type Config struct {
	Tracker    TrackerConfig    `toml:"tracker"`
	Recognizer RecognizerConfig `toml:"recognizer"`
	Store      StoreConfig      `toml:"store"`
	Log        LogConfig        `toml:"log"`
	Plugins    PluginsConfig    `toml:"plugins"`
}

// TrackerConfig holds sample filtering and trajectory settings.
type TrackerConfig struct {
	SamplingHz        int     `toml:"sampling_hz"`
	MinDistancePx     float64 `toml:"min_distance_px"`
	SmoothingWindow   int     `toml:"smoothing_window"`
	ResampleSpacingPx float64 `toml:"resample_spacing_px"`
	MaxPoints         int     `toml:"max_points"`
}

// RecognizerConfig holds gesture recognition settings.
type RecognizerConfig struct {
	Threshold    float64 `toml:"threshold"`
	EnableDTW    bool    `toml:"enable_dtw"`
	DTWTolerance float64 `toml:"dtw_tolerance"`
}

// StoreConfig holds template database settings.
type StoreConfig struct {
	Path string `toml:"path"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// PluginsConfig holds gesture hook settings. An empty Dir disables hooks.
type PluginsConfig struct {
	Dir       string `toml:"dir"`
	TimeoutMs int    `toml:"timeout_ms"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Tracker: TrackerConfig{
			SamplingHz:        tracker.DefaultSamplingHz,
			MinDistancePx:     tracker.DefaultMinDistancePx,
			SmoothingWindow:   tracker.DefaultSmoothingWindow,
			ResampleSpacingPx: tracker.DefaultResampleSpacingPx,
			MaxPoints:         trajectory.DefaultCapacity,
		},
		Recognizer: RecognizerConfig{
			Threshold:    gesture.DefaultThreshold,
			EnableDTW:    false,
			DTWTolerance: gesture.DefaultDTWTolerance,
		},
		Store: StoreConfig{
			Path: filepath.Join("~", ".pathsense", "pathsense.db"),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Plugins: PluginsConfig{
			TimeoutMs: plugin.DefaultTimeoutMs,
		},
	}
}

// Load reads the TOML file at path over the defaults, applies environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("%w: unknown key %q", ErrInvalid, undecoded[0].String())
		}
	}

	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnvOverrides replaces settings that have an environment variable set.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv(EnvDBPath); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvPlugins); v != "" {
		c.Plugins.Dir = v
	}
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	if c.Tracker.SamplingHz <= 0 {
		return fmt.Errorf("%w: tracker.sampling_hz must be positive, got %d", ErrInvalid, c.Tracker.SamplingHz)
	}
	if c.Tracker.MinDistancePx < 0 {
		return fmt.Errorf("%w: tracker.min_distance_px must not be negative", ErrInvalid)
	}
	if c.Recognizer.Threshold < 0 || c.Recognizer.Threshold > 1 {
		return fmt.Errorf("%w: recognizer.threshold must be within [0, 1], got %g", ErrInvalid, c.Recognizer.Threshold)
	}
	if c.Recognizer.DTWTolerance < 0 {
		return fmt.Errorf("%w: recognizer.dtw_tolerance must not be negative", ErrInvalid)
	}
	if c.Plugins.TimeoutMs <= 0 {
		return fmt.Errorf("%w: plugins.timeout_ms must be positive, got %d", ErrInvalid, c.Plugins.TimeoutMs)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// TrackerConfig converts the tracker and recognizer settings.
func (c *Config) TrackerConfig() tracker.Config {
	return tracker.Config{
		SamplingHz:           c.Tracker.SamplingHz,
		MinDistancePx:        c.Tracker.MinDistancePx,
		SmoothingWindow:      c.Tracker.SmoothingWindow,
		ResampleSpacingPx:    c.Tracker.ResampleSpacingPx,
		MaxPoints:            c.Tracker.MaxPoints,
		RecognitionThreshold: c.Recognizer.Threshold,
	}
}

// LoggingConfig converts the log settings. Validate must have passed.
func (c *Config) LoggingConfig() logging.Config {
	level, _ := logging.ParseLevel(c.Log.Level)
	format, _ := logging.ParseFormat(c.Log.Format)
	return logging.Config{Level: level, Format: format}
}

// StorePath returns the database path with a leading ~ expanded.
func (c *Config) StorePath() (string, error) {
	return expandHome(c.Store.Path)
}

// PluginDir returns the plugin directory with a leading ~ expanded, or ""
// when hooks are disabled.
func (c *Config) PluginDir() (string, error) {
	return expandHome(c.Plugins.Dir)
}

func expandHome(p string) (string, error) {
	if p == "~" || strings.HasPrefix(p, "~/") || strings.HasPrefix(p, "~"+string(filepath.Separator)) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
	}
	return p, nil
}
