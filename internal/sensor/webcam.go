package sensor

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/kinectmask/internal/calibration"
	"github.com/ayusman/kinectmask/internal/pose"
	"github.com/ayusman/kinectmask/internal/skeleton"
)

// WebcamSensor is a Sensor built from a regular camera: the color stream comes
// from a GoCV video capture and the skeleton stream from a pose.Detector.
type WebcamSensor struct {
	deviceID int
	detector pose.Detector
	calib    calibration.Pinhole

	mu              sync.Mutex
	capture         *gocv.VideoCapture
	format          ColorImageFormat
	colorEnabled    bool
	skeletonEnabled bool
	handler         FrameHandler
	running         bool
	cancel          context.CancelFunc
	done            chan struct{}
}

// NewWebcamSensor creates a WebcamSensor for the given capture device.
// A nil detector leaves the skeleton stream without frames. A zero calib
// selects calibration.Default for the enabled format.
func NewWebcamSensor(deviceID int, detector pose.Detector, calib calibration.Pinhole) *WebcamSensor {
	return &WebcamSensor{
		deviceID: deviceID,
		detector: detector,
		calib:    calib,
	}
}

// EnableColorStream opens the capture device at the format's resolution.
// It returns ErrSensorUnavailable if the device cannot be opened.
func (w *WebcamSensor) EnableColorStream(format ColorImageFormat) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if format == ColorFormatUndefined {
		format = DefaultColorFormat
	}

	if w.capture == nil {
		capture, err := gocv.OpenVideoCapture(w.deviceID)
		if err != nil {
			return fmt.Errorf("%w: device %d: %v", ErrSensorUnavailable, w.deviceID, err)
		}
		if !capture.IsOpened() {
			capture.Close()
			return fmt.Errorf("%w: device %d did not open", ErrSensorUnavailable, w.deviceID)
		}
		w.capture = capture
	}

	w.capture.Set(gocv.VideoCaptureFrameWidth, float64(format.Width()))
	w.capture.Set(gocv.VideoCaptureFrameHeight, float64(format.Height()))
	w.capture.Set(gocv.VideoCaptureFPS, float64(format.FPS()))

	w.format = format
	w.colorEnabled = true
	if w.calib.IsZero() {
		w.calib = calibration.Default(format.Width(), format.Height())
	}

	return nil
}

func (w *WebcamSensor) EnableSkeletonStream() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.skeletonEnabled = true
	return nil
}

func (w *WebcamSensor) ColorStream() StreamInfo {
	w.mu.Lock()
	defer w.mu.Unlock()

	return StreamInfo{
		Format:      w.format,
		FrameWidth:  w.format.Width(),
		FrameHeight: w.format.Height(),
	}
}

func (w *WebcamSensor) SkeletonArrayLength() int {
	return skeleton.MaxSkeletons
}

func (w *WebcamSensor) OnAllFramesReady(h FrameHandler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handler = h
}

// Start begins delivering frames on a single goroutine at the format's frame rate.
func (w *WebcamSensor) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.colorEnabled || w.capture == nil {
		return ErrStreamNotEnabled
	}
	if w.running {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.done = make(chan struct{})
	w.running = true

	go w.run(ctx, time.Second/time.Duration(w.format.FPS()), w.done)

	return nil
}

func (w *WebcamSensor) run(ctx context.Context, interval time.Duration, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.tick()
		}
	}
}

// tick reads one frame and dispatches it to the handler.
func (w *WebcamSensor) tick() {
	w.mu.Lock()
	capture := w.capture
	handler := w.handler
	format := w.format
	skeletonEnabled := w.skeletonEnabled
	w.mu.Unlock()

	if capture == nil || handler == nil {
		return
	}

	frame := gocv.NewMat()
	defer frame.Close()

	ev := &frameSet{}

	if ok := capture.Read(&frame); !ok || frame.Empty() {
		slog.Debug("webcam frame unavailable", "device", w.deviceID)
	} else {
		if frame.Cols() != format.Width() || frame.Rows() != format.Height() {
			gocv.Resize(frame, &frame, image.Pt(format.Width(), format.Height()), 0, 0, gocv.InterpolationLinear)
		}

		ev.color = newColorFrame(toBGR32(frame), format.Width(), format.Height(), nil)

		if skeletonEnabled && w.detector != nil {
			skeletons, err := w.detector.Detect(&frame)
			if err != nil {
				slog.Warn("pose detection failed", "error", err)
			} else {
				ev.skeleton = newSkeletonFrame(padSkeletons(skeletons, skeleton.MaxSkeletons), nil)
			}
		}
	}

	handler.HandleAllFramesReady(ev)
}

// toBGR32 converts a BGR frame into packed BGR32 bytes.
func toBGR32(frame gocv.Mat) []byte {
	bgra := gocv.NewMat()
	defer bgra.Close()

	gocv.CvtColor(frame, &bgra, gocv.ColorBGRToBGRA)
	return bgra.ToBytes()
}

// Stop halts frame delivery and releases the capture device.
func (w *WebcamSensor) Stop() error {
	w.mu.Lock()
	cancel, done, running := w.cancel, w.done, w.running
	w.running = false
	w.mu.Unlock()

	if running {
		cancel()
		<-done
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	var err error
	if w.capture != nil {
		err = w.capture.Close()
		w.capture = nil
	}
	w.colorEnabled = false

	if w.detector != nil {
		if cerr := w.detector.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}

	return err
}

func (w *WebcamSensor) MapSkeletonPointToColor(p skeleton.Point3D, format ColorImageFormat) image.Point {
	w.mu.Lock()
	calib := w.calib
	current := w.format
	w.mu.Unlock()

	if format != current || calib.IsZero() {
		calib = calibration.Default(format.Width(), format.Height())
	}
	return calib.Project(p)
}
