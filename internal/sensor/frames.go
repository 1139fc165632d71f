package sensor

import (
	"fmt"
	"sync"

	"github.com/ayusman/kinectmask/internal/compositor"
	"github.com/ayusman/kinectmask/internal/skeleton"
)

// colorFrame is a ColorFrame backed by a byte slice.
type colorFrame struct {
	pixels  []byte
	width   int
	height  int
	mu      sync.Mutex
	closed  bool
	onClose func()
}

func newColorFrame(pixels []byte, width, height int, onClose func()) *colorFrame {
	return &colorFrame{
		pixels:  pixels,
		width:   width,
		height:  height,
		onClose: onClose,
	}
}

func (f *colorFrame) Width() int           { return f.width }
func (f *colorFrame) Height() int          { return f.height }
func (f *colorFrame) PixelDataLength() int { return len(f.pixels) }

func (f *colorFrame) CopyPixelDataTo(dst []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrFrameClosed
	}
	if len(dst) != len(f.pixels) {
		return fmt.Errorf("%w: destination %d bytes, frame %d bytes",
			compositor.ErrSizeMismatch, len(dst), len(f.pixels))
	}

	copy(dst, f.pixels)
	return nil
}

// Close releases the frame. Closing twice is a no-op.
func (f *colorFrame) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}
	f.closed = true
	f.pixels = nil
	if f.onClose != nil {
		f.onClose()
	}
	return nil
}

// skeletonFrame is a SkeletonFrame backed by a skeleton slice.
type skeletonFrame struct {
	skeletons []skeleton.Skeleton
	mu        sync.Mutex
	closed    bool
	onClose   func()
}

func newSkeletonFrame(skeletons []skeleton.Skeleton, onClose func()) *skeletonFrame {
	return &skeletonFrame{
		skeletons: skeletons,
		onClose:   onClose,
	}
}

func (f *skeletonFrame) SkeletonArrayLength() int { return len(f.skeletons) }

func (f *skeletonFrame) CopySkeletonDataTo(dst []skeleton.Skeleton) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrFrameClosed
	}
	if len(dst) != len(f.skeletons) {
		return fmt.Errorf("%w: destination %d slots, frame %d slots",
			compositor.ErrSizeMismatch, len(dst), len(f.skeletons))
	}

	copy(dst, f.skeletons)
	return nil
}

// Close releases the frame. Closing twice is a no-op.
func (f *skeletonFrame) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}
	f.closed = true
	f.skeletons = nil
	if f.onClose != nil {
		f.onClose()
	}
	return nil
}

// frameSet is the AllFramesReadyEvent for one tick.
type frameSet struct {
	color    *colorFrame
	skeleton *skeletonFrame
}

func (s *frameSet) OpenColorFrame() (ColorFrame, bool) {
	if s.color == nil {
		return nil, false
	}
	return s.color, true
}

func (s *frameSet) OpenSkeletonFrame() (SkeletonFrame, bool) {
	if s.skeleton == nil {
		return nil, false
	}
	return s.skeleton, true
}

// padSkeletons returns a slice of exactly n slots holding the given skeletons
// in order. Extra skeletons are dropped.
func padSkeletons(skeletons []skeleton.Skeleton, n int) []skeleton.Skeleton {
	slots := make([]skeleton.Skeleton, n)
	copy(slots, skeletons)
	return slots
}
