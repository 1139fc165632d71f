// Package pose provides skeleton tracking backends that turn color frames into
// sensor-space skeletons.
package pose

import (
	"gocv.io/x/gocv"

	"github.com/ayusman/kinectmask/internal/calibration"
	"github.com/ayusman/kinectmask/internal/skeleton"
)

// Detector defines the interface for skeleton tracking implementations.
type Detector interface {
	// Detect analyzes a BGR video frame and returns the skeletons found in it.
	// Returns an empty slice if nobody is in view.
	Detect(frame *gocv.Mat) ([]skeleton.Skeleton, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for pose tracking.
type Config struct {
	// MaxBodies is the maximum number of skeletons to report (default: skeleton.MaxSkeletons).
	MaxBodies int

	// MinVisibility is the landmark visibility at which a joint counts as tracked (0.0-1.0).
	// Joints above half this value are reported as inferred.
	MinVisibility float64

	// ShoulderWidth is the assumed shoulder width in meters, used to estimate depth.
	ShoulderWidth float64

	// DefaultDepth is the depth in meters used when shoulders are not visible.
	DefaultDepth float64

	// Calibration maps pixels back to sensor space. A zero value selects
	// calibration.Default for the frame size.
	Calibration calibration.Pinhole
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxBodies:     skeleton.MaxSkeletons,
		MinVisibility: 0.5,
		ShoulderWidth: 0.36,
		DefaultDepth:  2.0,
	}
}
