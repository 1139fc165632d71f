package compositor

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"golang.org/x/image/draw"
)

// Overlay is the decorative image drawn over each head. It is immutable once
// created and safe to share between goroutines.
type Overlay struct {
	img *image.RGBA
}

// NewOverlay copies img into a new Overlay anchored at the origin.
func NewOverlay(img image.Image) *Overlay {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return &Overlay{img: dst}
}

// LoadOverlay decodes a PNG or JPEG overlay from path.
// When width and height are both positive the image is resized to that size
// once, at load time.
func LoadOverlay(path string, width, height int) (*Overlay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open overlay: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode overlay %s: %w", path, err)
	}

	if width > 0 && height > 0 {
		return NewOverlay(Resize(img, width, height)), nil
	}
	return NewOverlay(img), nil
}

// Resize scales img to width x height with bilinear interpolation.
func Resize(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// Size returns the overlay dimensions.
func (o *Overlay) Size() image.Point {
	return o.img.Bounds().Size()
}

// Image returns the overlay pixels. Callers must not modify the result.
func (o *Overlay) Image() image.Image {
	return o.img
}

// rectAt returns the destination rectangle of the overlay centered on p.
func (o *Overlay) rectAt(p image.Point) image.Rectangle {
	size := o.Size()
	origin := p.Sub(size.Div(2))
	return image.Rectangle{Min: origin, Max: origin.Add(size)}
}
