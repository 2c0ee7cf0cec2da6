// Package config defines the airsketch configuration and its loader.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ayusman/airsketch/internal/detector"
	"github.com/ayusman/airsketch/internal/gesture"
	"github.com/ayusman/airsketch/internal/recorder"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// DataDir holds the database and the default template file.
	DataDir string `koanf:"data_dir"`

	// TemplatesFile optionally points at a YAML template definition file
	// loaded on top of the built-in shapes.
	TemplatesFile string `koanf:"templates_file"`

	// Builtin registers the built-in shapes at startup.
	Builtin bool `koanf:"builtin"`

	Engine   gesture.Config  `koanf:"engine"`
	Recorder recorder.Policy `koanf:"recorder"`
	Server   ServerConfig    `koanf:"server"`
	Capture  CaptureConfig   `koanf:"capture"`
	Detector detector.Config `koanf:"detector"`
	Plugins  PluginConfig    `koanf:"plugins"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr      string `koanf:"addr"`
	StaticDir string `koanf:"static_dir"`
}

// CaptureConfig configures the camera and keypoint projection.
type CaptureConfig struct {
	CameraID     int     `koanf:"camera_id"`
	FPS          int     `koanf:"fps"`
	Mirror       bool    `koanf:"mirror"`
	MotionThresh float64 `koanf:"motion_threshold"`
	// AutoRecord starts a stroke when motion opens the gate and the
	// keypoint is visible. Without it only explicit signals record.
	AutoRecord bool `koanf:"auto_record"`
	// Landmark is the index of the tracked keypoint in a pose.
	Landmark int `koanf:"landmark"`
	ScreenW  int `koanf:"screen_width"`
	ScreenH  int `koanf:"screen_height"`
}

// PluginConfig configures action plugins.
type PluginConfig struct {
	Dir     string        `koanf:"dir"`
	Timeout time.Duration `koanf:"timeout"`
}

// New creates a Config with defaults. Context is accepted for symmetry
// with Load and is currently unused.
func New(_ context.Context) *Config {
	dataDir := defaultDataDir()
	return &Config{
		LogLevel: "info",
		DataDir:  dataDir,
		Builtin:  true,
		Engine:   gesture.DefaultConfig(),
		Recorder: recorder.Policy{
			MaxPoints:   100,
			MaxDuration: 3 * time.Second,
			MinDistance: 2,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Capture: CaptureConfig{
			FPS:          15,
			Mirror:       true,
			MotionThresh: 1.0,
			AutoRecord:   true,
			Landmark:     19,
			ScreenW:      1920,
			ScreenH:      1080,
		},
		Detector: detector.DefaultConfig(),
		Plugins: PluginConfig{
			Dir:     filepath.Join(dataDir, "plugins"),
			Timeout: 5 * time.Second,
		},
	}
}

// DBPath returns the SQLite database location.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "airsketch.db")
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch {
	case c.Server.Addr == "":
		return fmt.Errorf("%w: server.addr must not be empty", ErrInvalidConfig)
	case c.Engine.ResampleCount != 0 && c.Engine.ResampleCount < gesture.MinStrokePoints:
		return fmt.Errorf("%w: engine.resample_count must be at least %d", ErrInvalidConfig, gesture.MinStrokePoints)
	case c.Engine.MinScore > 1:
		return fmt.Errorf("%w: engine.min_score must not exceed 1", ErrInvalidConfig)
	case c.Engine.BoxSize < 0:
		return fmt.Errorf("%w: engine.box_size must be positive", ErrInvalidConfig)
	case c.Recorder.MaxPoints < 0 || c.Recorder.MaxDuration < 0 || c.Recorder.MinDistance < 0:
		return fmt.Errorf("%w: recorder limits must not be negative", ErrInvalidConfig)
	case c.Capture.FPS < 0:
		return fmt.Errorf("%w: capture.fps must not be negative", ErrInvalidConfig)
	case c.Capture.Landmark < 0:
		return fmt.Errorf("%w: capture.landmark must not be negative", ErrInvalidConfig)
	case c.Capture.ScreenW <= 0 || c.Capture.ScreenH <= 0:
		return fmt.Errorf("%w: capture screen size must be positive", ErrInvalidConfig)
	case c.Plugins.Timeout <= 0:
		return fmt.Errorf("%w: plugins.timeout must be positive", ErrInvalidConfig)
	}
	return nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".airsketch"
	}
	return filepath.Join(home, ".airsketch")
}
