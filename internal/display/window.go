// Package display shows composites in a local OpenCV window.
package display

import (
	"context"
	"image"
	"log/slog"
	"sync"

	"gocv.io/x/gocv"
)

const keyEscape = 27

// Window is a display surface backed by an OpenCV HighGUI window.
// Present may be called from any goroutine; Run must own the main thread.
type Window struct {
	title string

	mu     sync.Mutex
	latest *image.RGBA
	heads  int
	dirty  bool
}

// NewWindow creates a window surface with the given title.
func NewWindow(title string) *Window {
	return &Window{title: title}
}

// Present stores the composite for the next redraw.
func (w *Window) Present(frame *image.RGBA, heads []image.Point) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.latest = frame
	w.heads = len(heads)
	w.dirty = true
}

// next returns the composite to draw, or nil when nothing changed.
func (w *Window) next() (*image.RGBA, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.dirty {
		return nil, 0
	}
	w.dirty = false
	return w.latest, w.heads
}

// Run shows composites until ctx is done, ESC is pressed or the window is
// closed.
func (w *Window) Run(ctx context.Context) {
	win := gocv.NewWindow(w.title)
	defer win.Close()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if frame, heads := w.next(); frame != nil {
			mat, err := gocv.ImageToMatRGB(frame)
			if err != nil {
				slog.Warn("convert composite failed", "error", err)
			} else {
				win.IMShow(mat)
				mat.Close()
				slog.Debug("composite shown", "heads", heads)
			}
		}

		if win.WaitKey(15) == keyEscape {
			return
		}
		if win.GetWindowProperty(gocv.WindowPropertyVisible) < 1 {
			return
		}
	}
}
