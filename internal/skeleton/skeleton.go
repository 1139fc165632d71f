// Package skeleton provides skeleton tracking types and head extraction for kinectmask.
package skeleton

// MaxSkeletons is the number of skeleton slots delivered per skeleton frame.
const MaxSkeletons = 6

// JointType identifies a joint within a Skeleton.
type JointType int

// Joint indices following the depth-sensor skeleton convention.
const (
	HipCenter JointType = iota
	Spine
	ShoulderCenter
	Head
	ShoulderLeft
	ElbowLeft
	WristLeft
	HandLeft
	ShoulderRight
	ElbowRight
	WristRight
	HandRight
	HipLeft
	KneeLeft
	AnkleLeft
	FootLeft
	HipRight
	KneeRight
	AnkleRight
	FootRight
	NumJoints
)

// TrackingState is the overall tracking state of a skeleton.
type TrackingState int

const (
	// NotTracked means the slot holds no body.
	NotTracked TrackingState = iota
	// PositionOnly means only the body's overall position is known.
	PositionOnly
	// Tracked means every joint carries its own state.
	Tracked
)

func (s TrackingState) String() string {
	switch s {
	case PositionOnly:
		return "position-only"
	case Tracked:
		return "tracked"
	default:
		return "not-tracked"
	}
}

// JointTrackingState is the confidence attached to a single joint.
type JointTrackingState int

const (
	JointNotTracked JointTrackingState = iota
	JointInferred
	JointTracked
)

func (s JointTrackingState) String() string {
	switch s {
	case JointInferred:
		return "inferred"
	case JointTracked:
		return "tracked"
	default:
		return "not-tracked"
	}
}

// Point3D is a position in sensor space, in meters.
// X grows toward the right edge of the color image, Y grows up and Z grows
// away from the sensor.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Joint is a single tracked joint.
type Joint struct {
	Position Point3D            `json:"position"`
	State    JointTrackingState `json:"state"`
}

// Skeleton is one skeleton slot of a skeleton frame.
type Skeleton struct {
	TrackingID int              `json:"tracking_id"`
	State      TrackingState    `json:"state"`
	Position   Point3D          `json:"position"`
	Joints     [NumJoints]Joint `json:"joints"`
}

// Joint returns the joint of the given type.
// Out of range types return a zero, not tracked joint.
func (s *Skeleton) Joint(t JointType) Joint {
	if t < 0 || t >= NumJoints {
		return Joint{}
	}
	return s.Joints[t]
}
