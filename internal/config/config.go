// Package config loads the kinectmask YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ayusman/kinectmask/internal/calibration"
	"github.com/ayusman/kinectmask/internal/sensor"
)

// Sensor backends.
const (
	BackendMock   = "mock"
	BackendWebcam = "webcam"
)

// Config represents the complete kinectmask configuration.
type Config struct {
	Sensor  SensorConfig  `yaml:"sensor"`
	Overlay OverlayConfig `yaml:"overlay"`
	Server  ServerConfig  `yaml:"server"`
	Store   StoreConfig   `yaml:"store"`
	MQTT    MQTTConfig    `yaml:"mqtt"`
	Display DisplayConfig `yaml:"display"`
	Tray    TrayConfig    `yaml:"tray"`
	Log     LogConfig     `yaml:"log"`
}

// SensorConfig selects and tunes the frame source.
type SensorConfig struct {
	Backend     string                  `yaml:"backend"` // mock, webcam
	DeviceID    int                     `yaml:"device_id"`
	ColorFormat sensor.ColorImageFormat `yaml:"color_format"`
	Calibration calibration.Pinhole     `yaml:"calibration"` // zero: nominal intrinsics
	Pose        PoseConfig              `yaml:"pose"`
}

// PoseConfig tunes the webcam skeleton estimator.
type PoseConfig struct {
	MaxBodies     int     `yaml:"max_bodies"`
	MinVisibility float64 `yaml:"min_visibility"`
	ShoulderWidth float64 `yaml:"shoulder_width"` // meters
	DefaultDepth  float64 `yaml:"default_depth"`  // meters
}

// OverlayConfig describes the mask drawn at each head.
type OverlayConfig struct {
	Path    string `yaml:"path"`
	Width   int    `yaml:"width"`  // 0 keeps the asset's size
	Height  int    `yaml:"height"` // 0 keeps the asset's size
	Enabled bool   `yaml:"enabled"`
}

// ServerConfig contains HTTP settings.
type ServerConfig struct {
	Addr      string `yaml:"addr"` // empty disables the server
	StaticDir string `yaml:"static_dir"`
}

// StoreConfig contains the SQLite database location.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// MQTTConfig contains MQTT broker settings. An empty broker disables publishing.
type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	Topic    string `yaml:"topic"`
	ClientID string `yaml:"client_id"`
	QoS      byte   `yaml:"qos"`
}

// DisplayConfig controls the local preview window.
type DisplayConfig struct {
	Window bool   `yaml:"window"`
	Title  string `yaml:"title"`
}

// TrayConfig controls the system tray menu.
type TrayConfig struct {
	Enabled bool `yaml:"enabled"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Sensor: SensorConfig{
			Backend:     BackendMock,
			ColorFormat: sensor.DefaultColorFormat,
			Pose: PoseConfig{
				MaxBodies:     6,
				MinVisibility: 0.5,
				ShoulderWidth: 0.36,
				DefaultDepth:  2.0,
			},
		},
		Overlay: OverlayConfig{
			Path:    filepath.Join("images", "mask.png"),
			Enabled: true,
		},
		Server: ServerConfig{
			Addr:      ":8080",
			StaticDir: "web",
		},
		Store: StoreConfig{
			Path: defaultStorePath(),
		},
		MQTT: MQTTConfig{
			Topic: "kinectmask/heads",
		},
		Display: DisplayConfig{
			Title: "Kinect Mask",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "kinectmask.db"
	}
	return filepath.Join(home, ".kinectmask", "kinectmask.db")
}

// Load reads a YAML configuration file on top of Default. A missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Save writes cfg as YAML to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
