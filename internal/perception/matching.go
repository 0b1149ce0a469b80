package perception

// MatchingMode is the geometric criterion used to decide whether a prediction
// corresponds to a ground-truth object. Each mode owns its threshold
// semantics: distance-like scores match when at or below the threshold,
// overlap-like scores when at or above it.
type MatchingMode string

const (
	ModeCenterDistance MatchingMode = "center_distance"
	ModeIoU3D          MatchingMode = "iou_3d"
	ModePlaneDistance  MatchingMode = "plane_distance"
)

// Modes lists the supported matching modes in reporting order.
var Modes = []MatchingMode{ModeCenterDistance, ModeIoU3D, ModePlaneDistance}

// Valid reports whether m is a supported matching mode.
func (m MatchingMode) Valid() bool {
	switch m {
	case ModeCenterDistance, ModeIoU3D, ModePlaneDistance:
		return true
	}
	return false
}

// DistanceLike reports whether lower scores are better under this mode.
func (m MatchingMode) DistanceLike() bool {
	return m != ModeIoU3D
}

// Passes applies the mode's threshold predicate to a match score.
func (m MatchingMode) Passes(score, threshold float64) bool {
	if m.DistanceLike() {
		return score <= threshold
	}
	return score >= threshold
}

func (m MatchingMode) String() string {
	return string(m)
}
