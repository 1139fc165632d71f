// Package sensor provides the depth camera platform: stream setup, combined
// frame-ready events and skeleton-to-color coordinate mapping.
package sensor

import (
	"context"
	"errors"
	"image"

	"github.com/ayusman/kinectmask/internal/skeleton"
)

var (
	// ErrSensorUnavailable is returned when no sensor device can be opened.
	ErrSensorUnavailable = errors.New("sensor unavailable")
	// ErrStreamNotEnabled is returned when starting a sensor without an enabled color stream.
	ErrStreamNotEnabled = errors.New("color stream is not enabled")
	// ErrFrameClosed is returned when copying from a frame that was already released.
	ErrFrameClosed = errors.New("frame already closed")
)

// StreamInfo describes the enabled color stream.
type StreamInfo struct {
	Format      ColorImageFormat
	FrameWidth  int
	FrameHeight int
}

// FramePixelDataLength returns the byte length of one color frame.
func (s StreamInfo) FramePixelDataLength() int {
	return s.FrameWidth * s.FrameHeight * BytesPerPixel
}

// ColorFrame is a color image owned by the sensor. It must be closed once the
// caller has copied what it needs.
type ColorFrame interface {
	Width() int
	Height() int
	PixelDataLength() int
	// CopyPixelDataTo copies the BGR32 pixels into dst, which must be exactly
	// PixelDataLength bytes long.
	CopyPixelDataTo(dst []byte) error
	Close() error
}

// SkeletonFrame is a skeleton snapshot owned by the sensor. It must be closed
// once the caller has copied what it needs.
type SkeletonFrame interface {
	SkeletonArrayLength() int
	// CopySkeletonDataTo copies every skeleton slot into dst, which must be
	// exactly SkeletonArrayLength long.
	CopySkeletonDataTo(dst []skeleton.Skeleton) error
	Close() error
}

// AllFramesReadyEvent carries the frames delivered on one sensor tick.
// Either frame may be unavailable for the tick.
type AllFramesReadyEvent interface {
	OpenColorFrame() (ColorFrame, bool)
	OpenSkeletonFrame() (SkeletonFrame, bool)
}

// FrameHandler receives combined frame-ready events. Implementations of Sensor
// never invoke a handler concurrently with itself.
type FrameHandler interface {
	HandleAllFramesReady(ev AllFramesReadyEvent)
}

// FrameHandlerFunc adapts a function to a FrameHandler.
type FrameHandlerFunc func(ev AllFramesReadyEvent)

// HandleAllFramesReady calls f(ev).
func (f FrameHandlerFunc) HandleAllFramesReady(ev AllFramesReadyEvent) {
	f(ev)
}

// Sensor defines the interface for depth camera implementations.
type Sensor interface {
	EnableColorStream(format ColorImageFormat) error
	EnableSkeletonStream() error
	ColorStream() StreamInfo
	SkeletonArrayLength() int
	OnAllFramesReady(h FrameHandler)
	Start(ctx context.Context) error
	Stop() error
	MapSkeletonPointToColor(p skeleton.Point3D, format ColorImageFormat) image.Point
}
