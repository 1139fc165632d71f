package sensor

import (
	"context"
	"image"
	"sync"
	"time"

	"github.com/ayusman/kinectmask/internal/calibration"
	"github.com/ayusman/kinectmask/internal/skeleton"
)

// Tick is one scripted delivery of a MockSensor.
// A nil Color or Skeletons makes that frame unavailable for the tick.
type Tick struct {
	Color     []byte
	Skeletons []skeleton.Skeleton
}

// MockSensor plays back scripted ticks for testing and headless runs.
type MockSensor struct {
	ticks     []Tick
	index     int
	loop      bool
	available bool

	format          ColorImageFormat
	colorEnabled    bool
	skeletonEnabled bool
	handler         FrameHandler

	mu          sync.Mutex
	deliverMu   sync.Mutex
	running     bool
	cancel      context.CancelFunc
	done        chan struct{}
	outstanding int
	delivered   int
}

// NewMockSensor creates a MockSensor that plays back ticks, optionally looping.
func NewMockSensor(ticks []Tick, loop bool) *MockSensor {
	return &MockSensor{
		ticks:     ticks,
		loop:      loop,
		available: true,
	}
}

// SetAvailable simulates a missing device when false.
func (s *MockSensor) SetAvailable(available bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.available = available
}

func (s *MockSensor) EnableColorStream(format ColorImageFormat) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.available {
		return ErrSensorUnavailable
	}
	if format == ColorFormatUndefined {
		format = DefaultColorFormat
	}
	s.format = format
	s.colorEnabled = true
	return nil
}

func (s *MockSensor) EnableSkeletonStream() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.available {
		return ErrSensorUnavailable
	}
	s.skeletonEnabled = true
	return nil
}

func (s *MockSensor) ColorStream() StreamInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	return StreamInfo{
		Format:      s.format,
		FrameWidth:  s.format.Width(),
		FrameHeight: s.format.Height(),
	}
}

func (s *MockSensor) SkeletonArrayLength() int {
	return skeleton.MaxSkeletons
}

func (s *MockSensor) OnAllFramesReady(h FrameHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = h
}

// Start delivers ticks at the color format's frame rate until the script is
// exhausted, ctx is done or Stop is called.
func (s *MockSensor) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.available {
		return ErrSensorUnavailable
	}
	if !s.colorEnabled {
		return ErrStreamNotEnabled
	}
	if s.running {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true

	interval := time.Second / time.Duration(s.format.FPS())
	go s.run(ctx, interval, s.done)

	return nil
}

func (s *MockSensor) run(ctx context.Context, interval time.Duration, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !s.Deliver() {
				return
			}
		}
	}
}

// Stop halts playback and waits for the delivery goroutine to exit.
func (s *MockSensor) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	cancel, done := s.cancel, s.done
	s.running = false
	s.mu.Unlock()

	cancel()
	<-done
	return nil
}

// Deliver synchronously hands the next tick to the registered handler.
// It returns false once a non-looping script is exhausted.
func (s *MockSensor) Deliver() bool {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	s.mu.Lock()
	if len(s.ticks) == 0 {
		s.mu.Unlock()
		return false
	}
	if s.index >= len(s.ticks) {
		if !s.loop {
			s.mu.Unlock()
			return false
		}
		s.index = 0
	}
	tick := s.ticks[s.index]
	s.index++
	handler := s.handler
	ev := s.buildEvent(tick)
	s.mu.Unlock()

	if handler != nil {
		handler.HandleAllFramesReady(ev)
	}

	s.mu.Lock()
	s.delivered++
	s.mu.Unlock()

	return true
}

// buildEvent must be called with s.mu held.
func (s *MockSensor) buildEvent(tick Tick) *frameSet {
	ev := &frameSet{}

	if s.colorEnabled && tick.Color != nil {
		pixels := append([]byte(nil), tick.Color...)
		s.outstanding++
		ev.color = newColorFrame(pixels, s.format.Width(), s.format.Height(), s.release)
	}

	if s.skeletonEnabled && tick.Skeletons != nil {
		s.outstanding++
		ev.skeleton = newSkeletonFrame(padSkeletons(tick.Skeletons, skeleton.MaxSkeletons), s.release)
	}

	return ev
}

func (s *MockSensor) release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outstanding--
}

// OutstandingFrames returns the number of delivered frames not yet closed.
func (s *MockSensor) OutstandingFrames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outstanding
}

// Delivered returns the number of ticks handed to the handler.
func (s *MockSensor) Delivered() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delivered
}

// SetTicks replaces the script and restarts playback from the beginning.
func (s *MockSensor) SetTicks(ticks []Tick) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ticks = ticks
	s.index = 0
}

func (s *MockSensor) MapSkeletonPointToColor(p skeleton.Point3D, format ColorImageFormat) image.Point {
	return calibration.Default(format.Width(), format.Height()).Project(p)
}
