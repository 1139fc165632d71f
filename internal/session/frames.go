package session

import (
	"fmt"
	"image"

	"github.com/ayusman/kinectmask/internal/compositor"
	"github.com/ayusman/kinectmask/internal/sensor"
	"github.com/ayusman/kinectmask/internal/skeleton"
)

// HandleAllFramesReady processes one combined frame event:
//
//  1. Copy the skeleton snapshot and extract the tracked heads
//  2. Copy the color snapshot
//  3. Project the heads and composite the overlay over the background
//  4. Present the composite and publish the heads
//
// A missing skeleton frame composites with no heads; a missing color frame
// skips the tick. Size mismatches are logged and the tick is dropped. Every
// opened frame is closed before returning.
func (s *Session) HandleAllFramesReady(ev sensor.AllFramesReadyEvent) {
	sf, hasSkeleton := ev.OpenSkeletonFrame()
	if hasSkeleton {
		defer sf.Close()
	}
	cf, hasColor := ev.OpenColorFrame()
	if hasColor {
		defer cf.Close()
	}

	heads := []skeleton.Point3D{}
	if hasSkeleton {
		var err error
		if heads, err = s.readHeads(sf); err != nil {
			s.drop("skeleton frame", err)
			return
		}
	}

	if !hasColor {
		return
	}
	frame, err := s.readColor(cf)
	if err != nil {
		s.drop("color frame", err)
		return
	}

	points := compositor.Project(heads, func(p skeleton.Point3D) image.Point {
		return s.sensor.MapSkeletonPointToColor(p, s.format)
	})

	out, err := compositor.CompositeAt(frame, points, s.activeOverlay())
	if err != nil {
		s.drop("composite", err)
		return
	}

	s.frames.Add(1)
	s.heads.Store(int64(len(heads)))

	for _, surface := range s.surfaces {
		surface.Present(out, points)
	}

	if s.publisher != nil && len(heads) > 0 {
		if err := s.publisher.Publish(heads, points); err != nil {
			s.logger.Warn("publish heads failed", "error", err)
		}
	}
}

func (s *Session) readHeads(sf sensor.SkeletonFrame) ([]skeleton.Point3D, error) {
	if err := sf.CopySkeletonDataTo(s.skeletons); err != nil {
		return nil, fmt.Errorf("copy skeleton data: %w", err)
	}
	return skeleton.ExtractHeads(s.skeletons), nil
}

// readColor copies the color frame into the session pixel buffer. The
// returned frame aliases that buffer and is only valid for this tick.
func (s *Session) readColor(cf sensor.ColorFrame) (compositor.ColorFrame, error) {
	if cf.Width() != s.width || cf.Height() != s.height {
		return compositor.ColorFrame{}, fmt.Errorf("%w: frame %dx%d, session %dx%d",
			compositor.ErrSizeMismatch, cf.Width(), cf.Height(), s.width, s.height)
	}
	if err := cf.CopyPixelDataTo(s.pixels); err != nil {
		return compositor.ColorFrame{}, fmt.Errorf("copy pixel data: %w", err)
	}

	return compositor.ColorFrame{Pixels: s.pixels, Width: s.width, Height: s.height}, nil
}

func (s *Session) drop(stage string, err error) {
	s.dropped.Add(1)
	s.logger.Warn("frame dropped", "stage", stage, "error", err)
}
