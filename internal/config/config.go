// Package config loads the homecoming YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ayusman/homecoming/internal/detector"
	"github.com/ayusman/homecoming/internal/gesture"
	"github.com/ayusman/homecoming/internal/logger"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Config is the full service configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Store     StoreConfig     `yaml:"store"`
	Camera    CameraConfig    `yaml:"camera"`
	Detector  detector.Config `yaml:"detector"`
	Stability StabilityConfig `yaml:"stability"`
	Swipe     SwipeConfig     `yaml:"swipe"`
	Plugins   PluginsConfig   `yaml:"plugins"`
	Log       logger.Config   `yaml:"log"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr      string `yaml:"addr"`
	StaticDir string `yaml:"static_dir"`
}

// StoreConfig configures the SQLite database.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// CameraConfig configures frame acquisition and motion gating.
type CameraConfig struct {
	Device          int           `yaml:"device"`
	Width           int           `yaml:"width"`
	Height          int           `yaml:"height"`
	IdleFPS         int           `yaml:"idle_fps"`
	ActiveFPS       int           `yaml:"active_fps"`
	MotionThreshold float64       `yaml:"motion_threshold"` // percent of changed pixels
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
}

// StabilityConfig mirrors gesture.FilterConfig in YAML form.
type StabilityConfig struct {
	HistorySize         int           `yaml:"history_size"`
	MinSamples          int           `yaml:"min_samples"`
	MajorityRatio       float64       `yaml:"majority_ratio"`
	ConfidenceThreshold float64       `yaml:"confidence_threshold"`
	Debounce            time.Duration `yaml:"debounce"`
}

// FilterConfig converts to the filter's own type.
func (s StabilityConfig) FilterConfig() gesture.FilterConfig {
	return gesture.FilterConfig{
		HistorySize:         s.HistorySize,
		MinSamples:          s.MinSamples,
		MajorityRatio:       s.MajorityRatio,
		ConfidenceThreshold: s.ConfidenceThreshold,
		DebounceInterval:    s.Debounce,
	}
}

// SwipeConfig configures swipe recognition. A zero cooldown lets swipes
// follow each other as fast as the hand travels.
type SwipeConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Window      time.Duration `yaml:"window"`
	MinDistance float64       `yaml:"min_distance"` // frame widths
	MaxDrift    float64       `yaml:"max_drift"`    // frame heights
	Cooldown    time.Duration `yaml:"cooldown"`
}

// TrackerConfig converts to the tracker's own type, or nil when swipes
// are disabled.
func (s SwipeConfig) TrackerConfig() *gesture.SwipeConfig {
	if !s.Enabled {
		return nil
	}
	return &gesture.SwipeConfig{
		HistorySize: gesture.DefaultSwipeHistorySize,
		Window:      s.Window,
		MinDistance: s.MinDistance,
		MaxDrift:    s.MaxDrift,
		Cooldown:    s.Cooldown,
	}
}

// PluginsConfig configures plugin discovery and execution.
type PluginsConfig struct {
	Dir     string        `yaml:"dir"`
	Timeout time.Duration `yaml:"timeout"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	home := DataDir()
	fc := gesture.DefaultFilterConfig()
	sc := gesture.DefaultSwipeConfig()
	return &Config{
		Server: ServerConfig{
			Addr: ":8080",
		},
		Store: StoreConfig{
			Path: filepath.Join(home, "homecoming.db"),
		},
		Camera: CameraConfig{
			Device:          0,
			Width:           640,
			Height:          480,
			IdleFPS:         5,
			ActiveFPS:       15,
			MotionThreshold: 1.0,
			IdleTimeout:     2 * time.Second,
		},
		Detector: detector.DefaultConfig(),
		Stability: StabilityConfig{
			HistorySize:         fc.HistorySize,
			MinSamples:          fc.MinSamples,
			MajorityRatio:       fc.MajorityRatio,
			ConfidenceThreshold: fc.ConfidenceThreshold,
			Debounce:            fc.DebounceInterval,
		},
		Swipe: SwipeConfig{
			Enabled:     true,
			Window:      sc.Window,
			MinDistance: sc.MinDistance,
			MaxDrift:    sc.MaxDrift,
			Cooldown:    sc.Cooldown,
		},
		Plugins: PluginsConfig{
			Dir:     filepath.Join(home, "plugins"),
			Timeout: 5 * time.Second,
		},
		Log: logger.Config{
			Level: "info",
		},
	}
}

// DataDir returns ~/.homecoming, or a relative .homecoming when the home
// directory cannot be resolved.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".homecoming"
	}
	return filepath.Join(home, ".homecoming")
}

// Load reads path over the defaults. An empty path or a missing file
// yields the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the pipeline cannot run with. Zero is never a
// valid stability value: the filter would read it as "use the default".
func (c *Config) Validate() error {
	s := c.Stability
	switch {
	case s.HistorySize <= 0:
		return fmt.Errorf("%w: stability.history_size must be positive", ErrInvalid)
	case s.MinSamples <= 0 || s.MinSamples > s.HistorySize:
		return fmt.Errorf("%w: stability.min_samples must be in [1, history_size]", ErrInvalid)
	case s.MajorityRatio <= 0 || s.MajorityRatio > 1:
		return fmt.Errorf("%w: stability.majority_ratio must be in (0, 1]", ErrInvalid)
	case s.ConfidenceThreshold <= 0 || s.ConfidenceThreshold > 1:
		return fmt.Errorf("%w: stability.confidence_threshold must be in (0, 1]", ErrInvalid)
	case s.Debounce <= 0:
		return fmt.Errorf("%w: stability.debounce must be positive", ErrInvalid)
	}

	if w := c.Swipe; w.Enabled {
		switch {
		case w.Window <= 0:
			return fmt.Errorf("%w: swipe.window must be positive", ErrInvalid)
		case w.MinDistance <= 0 || w.MinDistance > 1:
			return fmt.Errorf("%w: swipe.min_distance must be in (0, 1]", ErrInvalid)
		case w.MaxDrift <= 0:
			return fmt.Errorf("%w: swipe.max_drift must be positive", ErrInvalid)
		case w.Cooldown < 0:
			return fmt.Errorf("%w: swipe.cooldown must not be negative", ErrInvalid)
		}
	}

	if c.Camera.IdleFPS <= 0 || c.Camera.ActiveFPS <= 0 {
		return fmt.Errorf("%w: camera fps must be positive", ErrInvalid)
	}
	if c.Detector.MaxHands <= 0 {
		return fmt.Errorf("%w: detector.max_hands must be positive", ErrInvalid)
	}
	if c.Plugins.Timeout <= 0 {
		return fmt.Errorf("%w: plugins.timeout must be positive", ErrInvalid)
	}
	return nil
}
