package skeleton

// StandingSkeleton returns a fully tracked skeleton standing upright with its
// head at the given sensor-space position. Every joint is Tracked.
func StandingSkeleton(trackingID int, head Point3D) Skeleton {
	s := Skeleton{
		TrackingID: trackingID,
		State:      Tracked,
	}

	// Offsets from the head in meters for an adult facing the sensor.
	offsets := [NumJoints]Point3D{
		HipCenter:      {X: 0, Y: -0.65, Z: 0.05},
		Spine:          {X: 0, Y: -0.55, Z: 0.05},
		ShoulderCenter: {X: 0, Y: -0.20, Z: 0.02},
		Head:           {X: 0, Y: 0, Z: 0},
		ShoulderLeft:   {X: -0.18, Y: -0.22, Z: 0.03},
		ElbowLeft:      {X: -0.25, Y: -0.48, Z: 0.05},
		WristLeft:      {X: -0.27, Y: -0.70, Z: 0.02},
		HandLeft:       {X: -0.28, Y: -0.78, Z: 0},
		ShoulderRight:  {X: 0.18, Y: -0.22, Z: 0.03},
		ElbowRight:     {X: 0.25, Y: -0.48, Z: 0.05},
		WristRight:     {X: 0.27, Y: -0.70, Z: 0.02},
		HandRight:      {X: 0.28, Y: -0.78, Z: 0},
		HipLeft:        {X: -0.09, Y: -0.72, Z: 0.05},
		KneeLeft:       {X: -0.10, Y: -1.15, Z: 0.04},
		AnkleLeft:      {X: -0.10, Y: -1.55, Z: 0.06},
		FootLeft:       {X: -0.10, Y: -1.60, Z: -0.05},
		HipRight:       {X: 0.09, Y: -0.72, Z: 0.05},
		KneeRight:      {X: 0.10, Y: -1.15, Z: 0.04},
		AnkleRight:     {X: 0.10, Y: -1.55, Z: 0.06},
		FootRight:      {X: 0.10, Y: -1.60, Z: -0.05},
	}

	for i := JointType(0); i < NumJoints; i++ {
		s.Joints[i] = Joint{
			Position: Point3D{
				X: head.X + offsets[i].X,
				Y: head.Y + offsets[i].Y,
				Z: head.Z + offsets[i].Z,
			},
			State: JointTracked,
		}
	}
	s.Position = s.Joints[HipCenter].Position

	return s
}

// PositionOnlySkeleton returns a skeleton whose body position is known but
// whose joints are not tracked.
func PositionOnlySkeleton(trackingID int, position Point3D) Skeleton {
	return Skeleton{
		TrackingID: trackingID,
		State:      PositionOnly,
		Position:   position,
	}
}

// EmptySnapshot returns a snapshot of MaxSkeletons untracked slots.
func EmptySnapshot() []Skeleton {
	return make([]Skeleton, MaxSkeletons)
}
