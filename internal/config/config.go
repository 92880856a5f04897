// Package config loads the YAML configuration and fills in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ayusman/airtouch/internal/audio"
	"github.com/ayusman/airtouch/internal/capture"
	"github.com/ayusman/airtouch/internal/detector"
	"github.com/ayusman/airtouch/internal/gesture"
	"github.com/ayusman/airtouch/internal/logging"
	"github.com/ayusman/airtouch/internal/plugin"
	"github.com/ayusman/airtouch/internal/render"
	"github.com/ayusman/airtouch/internal/surface"
	"github.com/ayusman/airtouch/internal/tracking"
	"gopkg.in/yaml.v3"
)

// DefaultSource marks a configuration built from defaults only.
const DefaultSource = "<defaults>"

// Config is the full set of user-adjustable settings.
type Config struct {
	Camera     capture.Config   `yaml:"camera"`
	Detector   detector.Config  `yaml:"detector"`
	Display    DisplayConfig    `yaml:"display"`
	Tracking   TrackingConfig   `yaml:"tracking"`
	Gesture    gesture.Config   `yaml:"gesture"`
	Surface    surface.Layout   `yaml:"surface"`
	Audio      audio.Config     `yaml:"audio"`
	Actions    []plugin.Binding `yaml:"actions"`
	PluginsDir string           `yaml:"plugins_dir"`
	Monitor    MonitorConfig    `yaml:"monitor"`
	Tray       TrayConfig       `yaml:"tray"`
	Log        LogConfig        `yaml:"log"`

	// Source is the file the configuration came from, or DefaultSource.
	Source string `yaml:"-"`
}

// DisplayConfig controls the output surface.
type DisplayConfig struct {
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	FPS     int    `yaml:"fps"`
	Backend string `yaml:"backend"`
	Title   string `yaml:"title"`

	render.Style `yaml:",inline"`
}

// TrackingConfig controls fingertip smoothing.
type TrackingConfig struct {
	Window int                 `yaml:"window"`
	OnLoss tracking.LossPolicy `yaml:"on_loss"`
}

// MonitorConfig controls the optional HTTP monitor.
type MonitorConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// TrayConfig controls the optional system tray.
type TrayConfig struct {
	Enabled bool `yaml:"enabled"`
}

// LogConfig defines log verbosity and formatting.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the baseline configuration used when no overrides are supplied.
func Default() Config {
	return Config{
		Camera:   capture.DefaultConfig(),
		Detector: detector.DefaultConfig(),
		Display: DisplayConfig{
			Width:   1280,
			Height:  720,
			FPS:     30,
			Backend: string(render.BackendWindow),
			Title:   "Interactive Projection System",
			Style:   render.DefaultStyle(),
		},
		Tracking: TrackingConfig{
			Window: tracking.DefaultWindow,
			OnLoss: tracking.HoldLast,
		},
		Gesture:    gesture.DefaultConfig(),
		Surface:    surface.DefaultLayout(),
		Audio:      audio.Config{Click: "click.wav"},
		PluginsDir: "plugins",
		Monitor: MonitorConfig{
			Addr: ":8080",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Source: DefaultSource,
	}
}

// Load overlays the YAML file at path on the defaults and validates the
// result. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	path = strings.TrimSpace(path)
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("config file %q not found", path)
		}
		return cfg, fmt.Errorf("read config file %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file %q: %w", path, err)
	}
	cfg.Source = path

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate ensures the configuration values are present and sensible.
func (c Config) Validate() error {
	if c.Display.Width <= 0 || c.Display.Height <= 0 {
		return fmt.Errorf("display size must be positive, got %dx%d", c.Display.Width, c.Display.Height)
	}
	if c.Display.FPS <= 0 {
		return errors.New("display.fps must be positive")
	}
	if _, err := render.ParseBackend(c.Display.Backend); err != nil {
		return fmt.Errorf("display.backend: %w", err)
	}
	if c.Display.CursorRadius < 0 {
		return errors.New("display.cursor_radius must not be negative")
	}

	if c.Camera.Device < 0 {
		return errors.New("camera.device must not be negative")
	}
	if c.Camera.Width < 0 || c.Camera.Height < 0 {
		return errors.New("camera resolution must not be negative")
	}

	if c.Detector.MaxHands < 1 {
		return errors.New("detector.max_hands must be at least 1")
	}
	if !unit(c.Detector.MinConfidence) || !unit(c.Detector.MinTrackingConf) {
		return errors.New("detector confidences must be within [0, 1]")
	}

	if c.Tracking.Window < 1 {
		return errors.New("tracking.window must be at least 1")
	}
	if _, err := tracking.ParseLossPolicy(string(c.Tracking.OnLoss)); err != nil {
		return fmt.Errorf("tracking.on_loss: %w", err)
	}

	if c.Gesture.PinchThreshold <= 0 {
		return errors.New("gesture.pinch_threshold must be positive")
	}
	if c.Gesture.SwipeThreshold < 0 {
		return errors.New("gesture.swipe_threshold must not be negative")
	}
	if _, err := gesture.ParseGapPolicy(string(c.Gesture.OnGap)); err != nil {
		return fmt.Errorf("gesture.on_gap: %w", err)
	}

	if err := c.Surface.Validate(); err != nil {
		return fmt.Errorf("surface: %w", err)
	}

	buttons := c.Surface.Cols * c.Surface.Rows
	seen := make(map[int]bool, len(c.Actions))
	for i, a := range c.Actions {
		if a.Button < 0 || a.Button >= buttons {
			return fmt.Errorf("actions[%d]: button %d outside grid of %d", i, a.Button, buttons)
		}
		if seen[a.Button] {
			return fmt.Errorf("actions[%d]: button %d bound twice", i, a.Button)
		}
		seen[a.Button] = true
		if a.Plugin == "" || a.Action == "" {
			return fmt.Errorf("actions[%d]: plugin and action are required", i)
		}
	}

	if c.Monitor.Enabled && strings.TrimSpace(c.Monitor.Addr) == "" {
		return errors.New("monitor.addr must not be empty when the monitor is enabled")
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "console", "json":
	default:
		return fmt.Errorf("log.format: unsupported format %q", c.Log.Format)
	}

	return nil
}

func unit(v float64) bool {
	return v >= 0 && v <= 1
}
