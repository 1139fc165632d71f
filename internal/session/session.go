// Package session drives the head-mask overlay: it owns the per-session frame
// buffers and turns each AllFramesReady event from the sensor into a
// composite frame for the display surfaces.
package session

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/ayusman/kinectmask/internal/compositor"
	"github.com/ayusman/kinectmask/internal/sensor"
	"github.com/ayusman/kinectmask/internal/skeleton"
)

// Surface receives every composite frame together with the projected head
// positions it was drawn at.
type Surface interface {
	Present(frame *image.RGBA, heads []image.Point)
}

// Publisher forwards head positions to an external consumer.
type Publisher interface {
	Publish(heads []skeleton.Point3D, points []image.Point) error
}

// Config holds configuration options for a Session.
type Config struct {
	Format         sensor.ColorImageFormat
	Overlay        *compositor.Overlay
	DisableOverlay bool
	Surfaces       []Surface
	Publisher      Publisher
	Logger         *slog.Logger
}

// Stats is a point-in-time view of a running session.
type Stats struct {
	Frames  uint64 `json:"frames"`
	Dropped uint64 `json:"dropped"`
	Heads   int    `json:"heads"`
}

// Session is the context object for one sensor run.
type Session struct {
	sensor    sensor.Sensor
	format    sensor.ColorImageFormat
	surfaces  []Surface
	publisher Publisher
	logger    *slog.Logger

	// Fixed at Open; only touched from the sensor's delivery goroutine.
	width     int
	height    int
	pixels    []byte
	skeletons []skeleton.Skeleton

	mu             sync.RWMutex
	overlay        *compositor.Overlay
	overlayEnabled bool

	frames  atomic.Uint64
	dropped atomic.Uint64
	heads   atomic.Int64
}

// Open enables the sensor's color and skeleton streams, sizes the session
// buffers from the color stream and registers the session as the sensor's
// frame handler.
func Open(s sensor.Sensor, config Config) (*Session, error) {
	format := config.Format
	if format == sensor.ColorFormatUndefined {
		format = sensor.DefaultColorFormat
	}

	if err := s.EnableColorStream(format); err != nil {
		return nil, fmt.Errorf("enable color stream: %w", err)
	}
	if err := s.EnableSkeletonStream(); err != nil {
		return nil, fmt.Errorf("enable skeleton stream: %w", err)
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	info := s.ColorStream()
	sess := &Session{
		sensor:         s,
		format:         info.Format,
		surfaces:       config.Surfaces,
		publisher:      config.Publisher,
		logger:         logger,
		width:          info.FrameWidth,
		height:         info.FrameHeight,
		pixels:         make([]byte, info.FramePixelDataLength()),
		skeletons:      make([]skeleton.Skeleton, s.SkeletonArrayLength()),
		overlay:        config.Overlay,
		overlayEnabled: !config.DisableOverlay,
	}

	s.OnAllFramesReady(sess)

	logger.Info("session opened",
		"format", info.Format.String(),
		"width", info.FrameWidth,
		"height", info.FrameHeight,
		"skeleton_slots", len(sess.skeletons))

	return sess, nil
}

// Start begins frame delivery.
func (s *Session) Start(ctx context.Context) error {
	if err := s.sensor.Start(ctx); err != nil {
		return fmt.Errorf("start sensor: %w", err)
	}
	return nil
}

// Close stops the sensor.
func (s *Session) Close() error {
	return s.sensor.Stop()
}

// Size returns the fixed color frame size of the session.
func (s *Session) Size() image.Point {
	return image.Pt(s.width, s.height)
}

// Format returns the color format the session was opened with.
func (s *Session) Format() sensor.ColorImageFormat {
	return s.format
}

// SetOverlay replaces the overlay drawn at each head. A nil overlay draws
// the background only.
func (s *Session) SetOverlay(o *compositor.Overlay) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlay = o
}

// SetOverlayEnabled switches overlay drawing on or off.
func (s *Session) SetOverlayEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlayEnabled = enabled
}

// OverlayEnabled reports whether overlays are drawn.
func (s *Session) OverlayEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.overlayEnabled
}

// activeOverlay returns the overlay to draw this tick, or nil.
func (s *Session) activeOverlay() *compositor.Overlay {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.overlayEnabled {
		return nil
	}
	return s.overlay
}

// Stats returns the session counters.
func (s *Session) Stats() Stats {
	return Stats{
		Frames:  s.frames.Load(),
		Dropped: s.dropped.Load(),
		Heads:   int(s.heads.Load()),
	}
}
