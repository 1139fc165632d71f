package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/ayusman/kinectmask/internal/compositor"
	"github.com/ayusman/kinectmask/internal/config"
	"github.com/ayusman/kinectmask/internal/sensor"
	"github.com/ayusman/kinectmask/internal/tray"
)

func TestNewLogger(t *testing.T) {
	t.Run("json at warn", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newLogger(config.LogConfig{Level: "warn", Format: "json"}, &buf)

		logger.Info("hidden")
		logger.Warn("shown", "heads", 2)

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 1 {
			t.Fatalf("logged %d lines, want 1: %q", len(lines), buf.String())
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
			t.Fatalf("not JSON: %v", err)
		}
		if entry["msg"] != "shown" || entry["heads"] != float64(2) {
			t.Errorf("entry = %v", entry)
		}
	})

	t.Run("text at debug", func(t *testing.T) {
		var buf bytes.Buffer
		newLogger(config.LogConfig{Level: "debug", Format: "text"}, &buf).Debug("tick")

		if !strings.Contains(buf.String(), "msg=tick") {
			t.Errorf("output = %q", buf.String())
		}
	})
}

func TestViewerURL(t *testing.T) {
	tests := map[string]string{
		":8080":          "http://localhost:8080/",
		"0.0.0.0:9000":   "http://localhost:9000/",
		"127.0.0.1:8081": "http://127.0.0.1:8081/",
		"bogus":          "http://localhost:8080/",
	}
	for addr, want := range tests {
		if got := viewerURL(addr); got != want {
			t.Errorf("viewerURL(%q) = %q, want %q", addr, got, want)
		}
	}
}

func TestNewSensor(t *testing.T) {
	cfg := config.Default().Sensor

	src, err := newSensor(cfg)
	if err != nil {
		t.Fatalf("newSensor(mock) error = %v", err)
	}
	if _, ok := src.(*sensor.MockSensor); !ok {
		t.Errorf("mock backend built %T", src)
	}

	cfg.Backend = "kinect2"
	if _, err := newSensor(cfg); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestNewSensor_MockUnavailableIsReported(t *testing.T) {
	src, _ := newSensor(config.Default().Sensor)
	src.(*sensor.MockSensor).SetAvailable(false)

	if err := src.EnableColorStream(sensor.DefaultColorFormat); !errors.Is(err, sensor.ErrSensorUnavailable) {
		t.Errorf("error = %v, want ErrSensorUnavailable", err)
	}
}

type stubOverlays struct {
	enabled bool
}

func (s *stubOverlays) SetOverlay(*compositor.Overlay) {}
func (s *stubOverlays) SetOverlayEnabled(enabled bool) { s.enabled = enabled }
func (s *stubOverlays) OverlayEnabled() bool { return s.enabled }

func TestTrayControl_SyncsToggle(t *testing.T) {
	live := &stubOverlays{enabled: true}
	menu := tray.New(true)
	menu.EnabledFrom(live.OverlayEnabled)

	var toggles []bool
	menu.OnToggle(func(enabled bool) {
		live.SetOverlayEnabled(enabled)
		toggles = append(toggles, enabled)
	})

	ctrl := trayControl{OverlayController: live, tray: menu}
	ctrl.SetOverlayEnabled(false)

	if live.OverlayEnabled() || menu.IsEnabled() {
		t.Fatalf("after disable: session=%v tray=%v, want both false", live.OverlayEnabled(), menu.IsEnabled())
	}
	if ctrl.OverlayEnabled() != live.OverlayEnabled() {
		t.Error("OverlayEnabled should come from the session")
	}
	if len(toggles) != 0 {
		t.Errorf("API change fired tray callback: %v", toggles)
	}
}
