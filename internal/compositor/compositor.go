package compositor

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/ayusman/kinectmask/internal/skeleton"
)

// Projector maps a sensor-space point to color image pixel coordinates.
type Projector func(skeleton.Point3D) image.Point

// Project maps every head through project, keeping the input order.
func Project(heads []skeleton.Point3D, project Projector) []image.Point {
	points := make([]image.Point, len(heads))
	for i, h := range heads {
		points[i] = project(h)
	}
	return points
}

// Composite draws the color frame as background and the overlay centered on
// the projection of every head, in order. Later heads draw over earlier ones.
//
// The result is a new image; neither the frame nor the overlay is modified.
// A frame whose pixel buffer does not match its dimensions fails with
// ErrSizeMismatch and no image is returned.
func Composite(f ColorFrame, heads []skeleton.Point3D, overlay *Overlay, project Projector) (*image.RGBA, error) {
	if len(heads) == 0 || overlay == nil {
		return Background(f)
	}
	return CompositeAt(f, Project(heads, project), overlay)
}

// CompositeAt is Composite with the head positions already projected.
func CompositeAt(f ColorFrame, points []image.Point, overlay *Overlay) (*image.RGBA, error) {
	dst, err := Background(f)
	if err != nil {
		return nil, err
	}

	if overlay == nil {
		return dst, nil
	}

	for _, p := range points {
		r := overlay.rectAt(p)
		draw.Draw(dst, r, overlay.img, image.Point{}, draw.Over)
	}

	return dst, nil
}
