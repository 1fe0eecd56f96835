package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/homecoming/internal/gesture"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "homecoming.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 5, cfg.Camera.IdleFPS)
	assert.Equal(t, 15, cfg.Camera.ActiveFPS)
	assert.Equal(t, 1, cfg.Detector.MaxHands)
	assert.Equal(t, gesture.DefaultFilterConfig(), cfg.Stability.FilterConfig())
	swipe := gesture.DefaultSwipeConfig()
	assert.Equal(t, &swipe, cfg.Swipe.TrackerConfig())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverlaysFile(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: 127.0.0.1:9000
stability:
  debounce: 500ms
  majority_ratio: 0.8
plugins:
  timeout: 2s
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, 500*time.Millisecond, cfg.Stability.Debounce)
	assert.Equal(t, 0.8, cfg.Stability.MajorityRatio)
	assert.Equal(t, 2*time.Second, cfg.Plugins.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)

	// Untouched keys keep their defaults.
	assert.Equal(t, 5, cfg.Stability.HistorySize)
	assert.Equal(t, 640, cfg.Camera.Width)
}

func TestLoad_RejectsMalformedYAML(t *testing.T) {
	path := writeConfig(t, "server: [unclosed")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero history", func(c *Config) { c.Stability.HistorySize = 0 }},
		{"min samples above history", func(c *Config) { c.Stability.MinSamples = 6 }},
		{"ratio above one", func(c *Config) { c.Stability.MajorityRatio = 1.5 }},
		{"zero ratio", func(c *Config) { c.Stability.MajorityRatio = 0 }},
		{"confidence above one", func(c *Config) { c.Stability.ConfidenceThreshold = 2 }},
		{"negative debounce", func(c *Config) { c.Stability.Debounce = -time.Millisecond }},
		{"zero debounce", func(c *Config) { c.Stability.Debounce = 0 }},
		{"zero confidence", func(c *Config) { c.Stability.ConfidenceThreshold = 0 }},
		{"zero min samples", func(c *Config) { c.Stability.MinSamples = 0 }},
		{"zero swipe window", func(c *Config) { c.Swipe.Window = 0 }},
		{"swipe distance above one", func(c *Config) { c.Swipe.MinDistance = 1.5 }},
		{"zero swipe drift", func(c *Config) { c.Swipe.MaxDrift = 0 }},
		{"negative swipe cooldown", func(c *Config) { c.Swipe.Cooldown = -time.Second }},
		{"zero fps", func(c *Config) { c.Camera.ActiveFPS = 0 }},
		{"no hands", func(c *Config) { c.Detector.MaxHands = 0 }},
		{"zero plugin timeout", func(c *Config) { c.Plugins.Timeout = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestLoad_ValidatesFile(t *testing.T) {
	path := writeConfig(t, "stability:\n  min_samples: 9\n")
	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestValidate_DisabledSwipeIgnoresTuning(t *testing.T) {
	cfg := Default()
	cfg.Swipe = SwipeConfig{}
	assert.NoError(t, cfg.Validate())
	assert.Nil(t, cfg.Swipe.TrackerConfig())
}

// Every value a file can set must reach the filter unchanged.
func TestLoad_StabilityReachesFilter(t *testing.T) {
	path := writeConfig(t, `
stability:
  history_size: 2
  min_samples: 2
  majority_ratio: 0.5
  confidence_threshold: 0.05
  debounce: 1ms
swipe:
  window: 250ms
  min_distance: 0.4
  max_drift: 0.05
  cooldown: 0s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	want := gesture.FilterConfig{
		HistorySize:         2,
		MinSamples:          2,
		MajorityRatio:       0.5,
		ConfidenceThreshold: 0.05,
		DebounceInterval:    time.Millisecond,
	}
	assert.Equal(t, want, gesture.NewFilter(cfg.Stability.FilterConfig()).Config())

	sc := cfg.Swipe.TrackerConfig()
	require.NotNil(t, sc)
	got := gesture.NewSwipeTracker(*sc).Config()
	assert.Equal(t, 250*time.Millisecond, got.Window)
	assert.Equal(t, 0.4, got.MinDistance)
	assert.Equal(t, 0.05, got.MaxDrift)
	assert.Zero(t, got.Cooldown)
}

func TestLoad_RejectsZeroStability(t *testing.T) {
	for _, body := range []string{
		"stability:\n  confidence_threshold: 0\n",
		"stability:\n  debounce: 0s\n",
	} {
		_, err := Load(writeConfig(t, body))
		assert.ErrorIs(t, err, ErrInvalid, body)
	}
}
