// Package compositor builds the displayed raster: the color frame as background
// with the overlay asset drawn at every projected head position.
package compositor

import (
	"errors"
	"fmt"
	"image"
)

// BytesPerPixel is the packed size of one color frame pixel (B, G, R, unused).
const BytesPerPixel = 4

// ErrSizeMismatch is returned when a pixel buffer does not match the frame dimensions.
var ErrSizeMismatch = errors.New("pixel buffer size does not match frame dimensions")

// ColorFrame is a snapshot of one color image in BGR32 layout.
type ColorFrame struct {
	Pixels []byte
	Width  int
	Height int
}

// FrameLength returns the expected pixel buffer length for the given dimensions.
func FrameLength(width, height int) int {
	return width * height * BytesPerPixel
}

// Validate checks that the pixel buffer holds exactly Width x Height pixels.
func (f ColorFrame) Validate() error {
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("%w: invalid dimensions %dx%d", ErrSizeMismatch, f.Width, f.Height)
	}
	if want := FrameLength(f.Width, f.Height); len(f.Pixels) != want {
		return fmt.Errorf("%w: got %d bytes, want %d for %dx%d",
			ErrSizeMismatch, len(f.Pixels), want, f.Width, f.Height)
	}
	return nil
}

// Background decodes the frame into a new opaque RGBA image of the frame's
// native resolution.
func Background(f ColorFrame) (*image.RGBA, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	dst := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for i := 0; i < len(f.Pixels); i += BytesPerPixel {
		dst.Pix[i] = f.Pixels[i+2]
		dst.Pix[i+1] = f.Pixels[i+1]
		dst.Pix[i+2] = f.Pixels[i]
		dst.Pix[i+3] = 0xff
	}

	return dst, nil
}
