package skeleton

// ExtractHeads returns the head position of every tracked skeleton in the snapshot.
//
// A slot contributes a head only when the skeleton itself is Tracked and its
// head joint is Tracked or Inferred. Heads are returned in slot order. The
// result is never nil; a snapshot without qualifying slots yields an empty slice.
func ExtractHeads(snapshot []Skeleton) []Point3D {
	heads := make([]Point3D, 0, len(snapshot))

	for i := range snapshot {
		s := &snapshot[i]

		if s.State != Tracked {
			continue
		}

		head := s.Joint(Head)
		if head.State != JointTracked && head.State != JointInferred {
			continue
		}

		heads = append(heads, head.Position)
	}

	return heads
}
