package skeleton

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExtractHeads(t *testing.T) {
	withHeadState := func(s Skeleton, state JointTrackingState) Skeleton {
		s.Joints[Head].State = state
		return s
	}

	tests := []struct {
		name     string
		snapshot []Skeleton
		want     []Point3D
	}{
		{
			name:     "empty snapshot",
			snapshot: EmptySnapshot(),
			want:     []Point3D{},
		},
		{
			name:     "nil snapshot",
			snapshot: nil,
			want:     []Point3D{},
		},
		{
			name: "tracked slot followed by not tracked slot",
			snapshot: []Skeleton{
				withHeadState(Skeleton{State: Tracked, Joints: [NumJoints]Joint{
					Head: {Position: Point3D{X: 0.1, Y: 0.2, Z: 1.5}},
				}}, JointTracked),
				{State: NotTracked},
			},
			want: []Point3D{{X: 0.1, Y: 0.2, Z: 1.5}},
		},
		{
			name: "inferred head is kept",
			snapshot: []Skeleton{
				withHeadState(StandingSkeleton(1, Point3D{X: -0.3, Y: 0.4, Z: 2.0}), JointInferred),
			},
			want: []Point3D{{X: -0.3, Y: 0.4, Z: 2.0}},
		},
		{
			name: "not tracked head is skipped",
			snapshot: []Skeleton{
				withHeadState(StandingSkeleton(1, Point3D{X: 0, Y: 0.4, Z: 2.0}), JointNotTracked),
			},
			want: []Point3D{},
		},
		{
			name: "position only skeleton is skipped",
			snapshot: []Skeleton{
				PositionOnlySkeleton(3, Point3D{X: 0.5, Y: 0, Z: 2.5}),
			},
			want: []Point3D{},
		},
		{
			name: "heads keep slot order",
			snapshot: []Skeleton{
				{},
				StandingSkeleton(7, Point3D{X: 0.6, Y: 0.3, Z: 2.2}),
				PositionOnlySkeleton(8, Point3D{X: 0, Y: 0, Z: 3}),
				StandingSkeleton(9, Point3D{X: -0.6, Y: 0.3, Z: 1.8}),
				{},
				{},
			},
			want: []Point3D{
				{X: 0.6, Y: 0.3, Z: 2.2},
				{X: -0.6, Y: 0.3, Z: 1.8},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractHeads(tt.snapshot)

			if got == nil {
				t.Fatal("ExtractHeads returned nil, want empty slice")
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ExtractHeads() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtractHeads_Deterministic(t *testing.T) {
	snapshot := EmptySnapshot()
	snapshot[0] = StandingSkeleton(1, Point3D{X: 0.2, Y: 0.5, Z: 2.1})
	snapshot[4] = StandingSkeleton(2, Point3D{X: -0.4, Y: 0.45, Z: 2.6})

	first := ExtractHeads(snapshot)
	second := ExtractHeads(snapshot)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated ExtractHeads differ (-first +second):\n%s", diff)
	}
}

func TestExtractHeads_DoesNotMutateInput(t *testing.T) {
	snapshot := EmptySnapshot()
	snapshot[2] = StandingSkeleton(5, Point3D{X: 0.1, Y: 0.6, Z: 2.0})

	before := make([]Skeleton, len(snapshot))
	copy(before, snapshot)

	ExtractHeads(snapshot)

	if diff := cmp.Diff(before, snapshot); diff != "" {
		t.Errorf("snapshot mutated (-before +after):\n%s", diff)
	}
}

func TestSkeleton_Joint(t *testing.T) {
	s := StandingSkeleton(1, Point3D{X: 0, Y: 0.5, Z: 2})

	t.Run("head joint", func(t *testing.T) {
		head := s.Joint(Head)
		if head.State != JointTracked {
			t.Errorf("head state = %v, want %v", head.State, JointTracked)
		}
		if head.Position != (Point3D{X: 0, Y: 0.5, Z: 2}) {
			t.Errorf("head position = %+v", head.Position)
		}
	})

	t.Run("out of range joint", func(t *testing.T) {
		for _, jt := range []JointType{-1, NumJoints, NumJoints + 3} {
			if got := s.Joint(jt); got != (Joint{}) {
				t.Errorf("Joint(%d) = %+v, want zero joint", jt, got)
			}
		}
	})
}

func TestStandingSkeleton(t *testing.T) {
	head := Point3D{X: 0.2, Y: 0.4, Z: 2.5}
	s := StandingSkeleton(4, head)

	if s.State != Tracked {
		t.Errorf("state = %v, want %v", s.State, Tracked)
	}
	if s.TrackingID != 4 {
		t.Errorf("tracking id = %d, want 4", s.TrackingID)
	}
	for i, j := range s.Joints {
		if j.State != JointTracked {
			t.Errorf("joint %d state = %v, want tracked", i, j.State)
		}
	}
	if s.Joints[FootLeft].Position.Y >= s.Joints[Head].Position.Y {
		t.Error("feet should be below the head")
	}
	if s.Joints[HandLeft].Position.X >= s.Joints[HandRight].Position.X {
		t.Error("left hand should have a smaller X than the right hand")
	}
}

func TestTrackingState_String(t *testing.T) {
	tests := []struct {
		state fmtStringer
		want  string
	}{
		{NotTracked, "not-tracked"},
		{PositionOnly, "position-only"},
		{Tracked, "tracked"},
		{JointNotTracked, "not-tracked"},
		{JointInferred, "inferred"},
		{JointTracked, "tracked"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

type fmtStringer interface {
	String() string
}
