package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ayusman/kinectmask/internal/sensor"
)

// Validate checks the configuration and fills in derived defaults.
func Validate(cfg *Config) error {
	switch cfg.Sensor.Backend {
	case BackendMock, BackendWebcam:
	case "":
		cfg.Sensor.Backend = BackendMock
	default:
		return fmt.Errorf("sensor.backend must be %q or %q, got %q", BackendMock, BackendWebcam, cfg.Sensor.Backend)
	}

	if cfg.Sensor.ColorFormat == sensor.ColorFormatUndefined {
		cfg.Sensor.ColorFormat = sensor.DefaultColorFormat
	}
	if cfg.Sensor.DeviceID < 0 {
		return fmt.Errorf("sensor.device_id must be >= 0")
	}

	c := cfg.Sensor.Calibration
	if !c.IsZero() && (c.Fx <= 0 || c.Fy <= 0) {
		return fmt.Errorf("sensor.calibration focal lengths must be > 0")
	}

	p := cfg.Sensor.Pose
	if p.MinVisibility < 0 || p.MinVisibility > 1 {
		return fmt.Errorf("sensor.pose.min_visibility must be within [0, 1]")
	}
	if p.ShoulderWidth <= 0 || p.DefaultDepth <= 0 {
		return fmt.Errorf("sensor.pose.shoulder_width and sensor.pose.default_depth must be > 0")
	}

	if cfg.Overlay.Width < 0 || cfg.Overlay.Height < 0 {
		return fmt.Errorf("overlay size must be >= 0")
	}
	if (cfg.Overlay.Width == 0) != (cfg.Overlay.Height == 0) {
		return fmt.Errorf("overlay.width and overlay.height must be set together")
	}

	if cfg.Store.Path == "" {
		return fmt.Errorf("store.path is required")
	}
	cfg.Store.Path = expandHome(cfg.Store.Path)
	cfg.Overlay.Path = expandHome(cfg.Overlay.Path)

	if cfg.MQTT.Broker != "" && cfg.MQTT.Topic == "" {
		return fmt.Errorf("mqtt.topic is required when mqtt.broker is set")
	}
	if cfg.MQTT.QoS > 2 {
		return fmt.Errorf("mqtt.qos must be 0, 1 or 2")
	}

	// systray and HighGUI both need the main thread.
	if cfg.Display.Window && cfg.Tray.Enabled {
		return fmt.Errorf("display.window and tray.enabled cannot both be set")
	}

	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	case "":
		cfg.Log.Level = "info"
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", cfg.Log.Level)
	}

	switch cfg.Log.Format {
	case "text", "json":
	case "":
		cfg.Log.Format = "text"
	default:
		return fmt.Errorf("log.format must be text or json, got %q", cfg.Log.Format)
	}

	return nil
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
