package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ayusman/kinectmask/internal/compositor"
	"github.com/ayusman/kinectmask/internal/config"
	"github.com/ayusman/kinectmask/internal/display"
	"github.com/ayusman/kinectmask/internal/pose"
	"github.com/ayusman/kinectmask/internal/publish"
	"github.com/ayusman/kinectmask/internal/sensor"
	"github.com/ayusman/kinectmask/internal/server"
	"github.com/ayusman/kinectmask/internal/server/api"
	"github.com/ayusman/kinectmask/internal/session"
	"github.com/ayusman/kinectmask/internal/store"
	"github.com/ayusman/kinectmask/internal/tray"
)

// syntheticLoopTicks is the length of the mock backend's demo loop.
const syntheticLoopTicks = 120

func main() {
	configPath := flag.String("config", "kinectmask.yaml", "path to the YAML config file")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "kinectmask: %v\n", err)
		os.Exit(1)
	}
	if *debug {
		cfg.Log.Level = "debug"
	}

	slog.SetDefault(newLogger(cfg.Log, os.Stdout))

	if err := run(cfg); err != nil {
		slog.Error("kinectmask stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	st, err := store.New(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer st.Close()

	src, err := newSensor(cfg.Sensor)
	if err != nil {
		return err
	}

	overlay, err := compositor.LoadOverlay(cfg.Overlay.Path, cfg.Overlay.Width, cfg.Overlay.Height)
	if err != nil {
		slog.Warn("overlay not loaded, showing plain color feed", "path", cfg.Overlay.Path, "error", err)
	}

	hub := server.NewFrameHub()
	surfaces := []session.Surface{hub}

	var window *display.Window
	if cfg.Display.Window {
		window = display.NewWindow(cfg.Display.Title)
		surfaces = append(surfaces, window)
	}

	var menu *tray.Tray
	if cfg.Tray.Enabled {
		menu = tray.New(cfg.Overlay.Enabled)
		surfaces = append(surfaces, menu)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var publisher session.Publisher
	if cfg.MQTT.Broker != "" {
		mq := publish.NewMQTTPublisher(publish.Config{
			Broker:   cfg.MQTT.Broker,
			Topic:    cfg.MQTT.Topic,
			ClientID: cfg.MQTT.ClientID,
			QoS:      cfg.MQTT.QoS,
		})
		if err := mq.Connect(ctx); err != nil {
			slog.Warn("mqtt disabled", "error", err)
		} else {
			defer mq.Close()
			publisher = mq
		}
	}

	sess, err := session.Open(src, session.Config{
		Format:         cfg.Sensor.ColorFormat,
		Overlay:        overlay,
		DisableOverlay: !cfg.Overlay.Enabled,
		Surfaces:       surfaces,
		Publisher:      publisher,
	})
	if err != nil {
		if errors.Is(err, sensor.ErrSensorUnavailable) {
			return fmt.Errorf("no sensor available: %w", err)
		}
		return err
	}
	defer sess.Close()

	var overlays api.OverlayController = sess
	if menu != nil {
		menu.EnabledFrom(sess.OverlayEnabled)
		overlays = trayControl{OverlayController: sess, tray: menu}
	}

	if ok, err := api.Restore(st, overlays); err != nil {
		slog.Warn("saved overlay not restored", "error", err)
	} else if ok {
		slog.Info("restored saved overlay")
	}

	if err := sess.Start(ctx); err != nil {
		return err
	}

	if cfg.Server.Addr != "" {
		srv := server.New(server.Config{
			StaticDir: cfg.Server.StaticDir,
			Store:     st,
			Hub:       hub,
			Stats:     sess,
			Overlays:  overlays,
		})
		go func() {
			if err := srv.ListenAndServe(ctx, cfg.Server.Addr); err != nil {
				slog.Error("http server failed", "error", err)
				stop()
			}
		}()
	}

	switch {
	case menu != nil:
		menu.OnToggle(func(enabled bool) {
			sess.SetOverlayEnabled(enabled)
			if err := st.Settings().SetBool(store.SettingOverlayEnabled, enabled); err != nil {
				slog.Warn("overlay setting not saved", "error", err)
			}
		})
		menu.OnViewer(func() { openBrowser(viewerURL(cfg.Server.Addr)) })
		menu.OnQuit(stop)
		go func() {
			<-ctx.Done()
			menu.Quit()
		}()
		menu.Run()
	case window != nil:
		window.Run(ctx)
	default:
		<-ctx.Done()
	}

	stop()
	stats := sess.Stats()
	slog.Info("shutting down", "frames", stats.Frames, "dropped", stats.Dropped)
	return nil
}

// trayControl mirrors overlay on/off changes made through the API or at
// restore into the tray toggle.
type trayControl struct {
	api.OverlayController
	tray *tray.Tray
}

func (c trayControl) SetOverlayEnabled(enabled bool) {
	c.OverlayController.SetOverlayEnabled(enabled)
	c.tray.SetEnabled(enabled)
}

// newSensor builds the configured frame source.
func newSensor(cfg config.SensorConfig) (sensor.Sensor, error) {
	switch cfg.Backend {
	case config.BackendWebcam:
		poseCfg := pose.Config{
			MaxBodies:     cfg.Pose.MaxBodies,
			MinVisibility: cfg.Pose.MinVisibility,
			ShoulderWidth: cfg.Pose.ShoulderWidth,
			DefaultDepth:  cfg.Pose.DefaultDepth,
			Calibration:   cfg.Calibration,
		}

		var detector pose.Detector
		if mp, err := pose.NewMediaPipeDetector(poseCfg); err == nil {
			detector = mp
			slog.Info("using MediaPipe pose tracking")
		} else {
			slog.Warn("MediaPipe not available, no skeletons will be tracked", "error", err)
			detector = pose.NewMockDetector()
		}
		return sensor.NewWebcamSensor(cfg.DeviceID, detector, cfg.Calibration), nil

	case config.BackendMock, "":
		slog.Info("using synthetic mock sensor")
		return sensor.NewMockSensor(sensor.SyntheticTicks(cfg.ColorFormat, syntheticLoopTicks), true), nil

	default:
		return nil, fmt.Errorf("unknown sensor backend %q", cfg.Backend)
	}
}
