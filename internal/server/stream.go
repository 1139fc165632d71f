package server

import (
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"time"

	"gocv.io/x/gocv"
)

// minFrameInterval caps the MJPEG rate at ~15 FPS.
const minFrameInterval = 66 * time.Millisecond

// StreamHandler serves the latest composites as MJPEG.
type StreamHandler struct {
	hub *FrameHub
}

// NewStreamHandler creates a new StreamHandler reading from hub.
func NewStreamHandler(hub *FrameHub) *StreamHandler {
	return &StreamHandler{hub: hub}
}

// ServeHTTP streams MJPEG frames until the client disconnects.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	updates, cancel := h.hub.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// Send what we already have so new viewers don't wait for the next tick.
	if snap := h.hub.Latest(); snap.Frame != nil {
		if err := writePart(w, snap.Frame); err != nil {
			return
		}
	}

	var last time.Time
	for {
		select {
		case <-r.Context().Done():
			return
		case snap := <-updates:
			if time.Since(last) < minFrameInterval {
				continue
			}
			if err := writePart(w, snap.Frame); err != nil {
				slog.Debug("mjpeg client gone", "error", err)
				return
			}
			last = time.Now()
		}
	}
}

func writePart(w http.ResponseWriter, frame *image.RGBA) error {
	data, err := encodeJPEG(frame)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "--frame\r\n")
	fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
	fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(data))
	if _, err := w.Write(data); err != nil {
		return err
	}
	fmt.Fprintf(w, "\r\n")

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
	return nil
}

// encodeJPEG encodes a composite with OpenCV.
func encodeJPEG(frame *image.RGBA) ([]byte, error) {
	mat, err := gocv.ImageToMatRGB(frame)
	if err != nil {
		return nil, fmt.Errorf("convert frame: %w", err)
	}
	defer mat.Close()

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, mat)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	return append([]byte(nil), buf.GetBytes()...), nil
}
