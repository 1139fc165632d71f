package pose

import (
	"gocv.io/x/gocv"

	"github.com/ayusman/kinectmask/internal/skeleton"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	skeletons []skeleton.Skeleton
	err       error
	calls     int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetSkeletons sets the skeletons that will be returned by Detect.
func (m *MockDetector) SetSkeletons(skeletons []skeleton.Skeleton) {
	m.skeletons = skeletons
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Calls returns how many times Detect was called.
func (m *MockDetector) Calls() int {
	return m.calls
}

// Detect returns the pre-configured skeletons or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]skeleton.Skeleton, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.skeletons, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}
