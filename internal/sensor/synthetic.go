package sensor

import (
	"math"

	"github.com/ayusman/kinectmask/internal/skeleton"
)

// SyntheticTicks builds n ticks of a demo scene for the mock sensor: a
// gradient background, one tracked person walking left to right at two
// meters and one position-only body standing further back.
func SyntheticTicks(format ColorImageFormat, n int) []Tick {
	if format == ColorFormatUndefined {
		format = DefaultColorFormat
	}
	width, height := format.Width(), format.Height()

	ticks := make([]Tick, n)
	for i := range ticks {
		phase := 2 * math.Pi * float64(i) / float64(n)
		head := skeleton.Point3D{X: 0.5 * math.Sin(phase), Y: 0.3, Z: 2.0}

		ticks[i] = Tick{
			Color: gradient(width, height, uint8(i*255/n)),
			Skeletons: []skeleton.Skeleton{
				skeleton.StandingSkeleton(1, head),
				skeleton.PositionOnlySkeleton(2, skeleton.Point3D{X: -0.8, Y: 0, Z: 3.5}),
			},
		}
	}
	return ticks
}

// gradient returns a BGR32 frame shading blue left to right and green top
// to bottom, with red set to shift.
func gradient(width, height int, shift uint8) []byte {
	pixels := make([]byte, width*height*BytesPerPixel)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := (y*width + x) * BytesPerPixel
			pixels[i] = uint8(x * 255 / width)
			pixels[i+1] = uint8(y * 255 / height)
			pixels[i+2] = shift
		}
	}
	return pixels
}
