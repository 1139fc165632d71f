// Package calibration maps between sensor space and color image pixels.
package calibration

import (
	"image"
	"math"

	"github.com/ayusman/kinectmask/internal/skeleton"
)

// Nominal color camera intrinsics at 640x480.
const (
	NominalFocalLength = 525.0
	nominalWidth       = 640
)

// Pinhole is a pinhole camera model for the color stream.
type Pinhole struct {
	Fx float64 `yaml:"fx"`
	Fy float64 `yaml:"fy"`
	Cx float64 `yaml:"cx"`
	Cy float64 `yaml:"cy"`
}

// Default returns the nominal intrinsics scaled to the given resolution.
func Default(width, height int) Pinhole {
	scale := float64(width) / nominalWidth
	return Pinhole{
		Fx: NominalFocalLength * scale,
		Fy: NominalFocalLength * scale,
		Cx: float64(width-1) / 2,
		Cy: float64(height-1) / 2,
	}
}

// IsZero reports whether no intrinsics are set.
func (c Pinhole) IsZero() bool {
	return c == Pinhole{}
}

// Project maps a sensor-space point to color pixel coordinates.
// Points at or behind the sensor plane map to the principal point.
func (c Pinhole) Project(p skeleton.Point3D) image.Point {
	if p.Z <= 0 {
		return image.Pt(int(math.Round(c.Cx)), int(math.Round(c.Cy)))
	}
	x := c.Cx + c.Fx*p.X/p.Z
	y := c.Cy - c.Fy*p.Y/p.Z
	return image.Pt(int(math.Round(x)), int(math.Round(y)))
}

// Unproject returns the sensor-space point seen at pixel (px, py) at depth z.
func (c Pinhole) Unproject(px, py, z float64) skeleton.Point3D {
	return skeleton.Point3D{
		X: (px - c.Cx) * z / c.Fx,
		Y: (c.Cy - py) * z / c.Fy,
		Z: z,
	}
}
