package pose

import (
	"math"

	"github.com/ayusman/kinectmask/internal/calibration"
	"github.com/ayusman/kinectmask/internal/skeleton"
)

// Pose landmark indices following the MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/pose_landmarker
const (
	Nose           = 0
	LeftEar        = 7
	RightEar       = 8
	LeftShoulder   = 11
	RightShoulder  = 12
	LeftElbow      = 13
	RightElbow     = 14
	LeftWrist      = 15
	RightWrist     = 16
	LeftIndex      = 19
	RightIndex     = 20
	LeftHip        = 23
	RightHip       = 24
	LeftKnee       = 25
	RightKnee      = 26
	LeftAnkle      = 27
	RightAnkle     = 28
	LeftFootIndex  = 31
	RightFootIndex = 32
	NumLandmarks   = 33
)

// Landmark is one normalized pose landmark. X and Y are fractions of the image
// width and height; Visibility is in 0.0-1.0.
type Landmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility"`
}

// Body is the set of landmarks for one person.
type Body struct {
	Landmarks []Landmark `json:"landmarks"`
}

// directJoints maps skeleton joints onto a single pose landmark.
// Left and right refer to the tracked person's own sides.
var directJoints = map[skeleton.JointType]int{
	skeleton.ShoulderLeft:  LeftShoulder,
	skeleton.ElbowLeft:     LeftElbow,
	skeleton.WristLeft:     LeftWrist,
	skeleton.HandLeft:      LeftIndex,
	skeleton.ShoulderRight: RightShoulder,
	skeleton.ElbowRight:    RightElbow,
	skeleton.WristRight:    RightWrist,
	skeleton.HandRight:     RightIndex,
	skeleton.HipLeft:       LeftHip,
	skeleton.KneeLeft:      LeftKnee,
	skeleton.AnkleLeft:     LeftAnkle,
	skeleton.FootLeft:      LeftFootIndex,
	skeleton.HipRight:      RightHip,
	skeleton.KneeRight:     RightKnee,
	skeleton.AnkleRight:    RightAnkle,
	skeleton.FootRight:     RightFootIndex,
}

// ToSkeleton converts a body seen in a width x height frame into a
// sensor-space skeleton. Depth is estimated from the apparent shoulder width.
func ToSkeleton(b Body, trackingID, width, height int, cfg Config) skeleton.Skeleton {
	s := skeleton.Skeleton{TrackingID: trackingID}
	if len(b.Landmarks) < NumLandmarks {
		return s
	}

	calib := cfg.Calibration
	if calib.IsZero() {
		calib = calibration.Default(width, height)
	}

	px := func(l Landmark) (float64, float64) {
		return l.X * float64(width), l.Y * float64(height)
	}

	depth := cfg.DefaultDepth
	ls, rs := b.Landmarks[LeftShoulder], b.Landmarks[RightShoulder]
	if ls.Visibility >= cfg.MinVisibility && rs.Visibility >= cfg.MinVisibility {
		lx, ly := px(ls)
		rx, ry := px(rs)
		if d := math.Hypot(lx-rx, ly-ry); d > 1 {
			depth = cfg.ShoulderWidth * calib.Fx / d
		}
	}

	joint := func(l Landmark) skeleton.Joint {
		x, y := px(l)
		return skeleton.Joint{
			Position: calib.Unproject(x, y, depth),
			State:    jointState(l.Visibility, cfg.MinVisibility),
		}
	}

	for jt, idx := range directJoints {
		s.Joints[jt] = joint(b.Landmarks[idx])
	}

	le, re := b.Landmarks[LeftEar], b.Landmarks[RightEar]
	if le.Visibility >= cfg.MinVisibility && re.Visibility >= cfg.MinVisibility {
		s.Joints[skeleton.Head] = midJoint(joint(le), joint(re))
	} else {
		s.Joints[skeleton.Head] = joint(b.Landmarks[Nose])
	}

	s.Joints[skeleton.ShoulderCenter] = midJoint(s.Joints[skeleton.ShoulderLeft], s.Joints[skeleton.ShoulderRight])
	s.Joints[skeleton.HipCenter] = midJoint(s.Joints[skeleton.HipLeft], s.Joints[skeleton.HipRight])
	s.Joints[skeleton.Spine] = midJoint(s.Joints[skeleton.ShoulderCenter], s.Joints[skeleton.HipCenter])
	s.Position = s.Joints[skeleton.HipCenter].Position

	switch {
	case s.Joints[skeleton.ShoulderLeft].State != skeleton.JointNotTracked &&
		s.Joints[skeleton.ShoulderRight].State != skeleton.JointNotTracked:
		s.State = skeleton.Tracked
	case anyTracked(s.Joints[:]):
		s.State = skeleton.PositionOnly
	default:
		s.State = skeleton.NotTracked
	}

	return s
}

func jointState(visibility, minVisibility float64) skeleton.JointTrackingState {
	switch {
	case visibility >= minVisibility:
		return skeleton.JointTracked
	case visibility >= minVisibility/2:
		return skeleton.JointInferred
	default:
		return skeleton.JointNotTracked
	}
}

// midJoint returns the midpoint of a and b with the weaker of their states.
func midJoint(a, b skeleton.Joint) skeleton.Joint {
	return skeleton.Joint{
		Position: skeleton.Point3D{
			X: (a.Position.X + b.Position.X) / 2,
			Y: (a.Position.Y + b.Position.Y) / 2,
			Z: (a.Position.Z + b.Position.Z) / 2,
		},
		State: min(a.State, b.State),
	}
}

func anyTracked(joints []skeleton.Joint) bool {
	for _, j := range joints {
		if j.State == skeleton.JointTracked {
			return true
		}
	}
	return false
}
