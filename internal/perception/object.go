package perception

import (
	"math"

	"github.com/google/uuid"
)

// GroundTruth is one annotated object. Coordinates are the object center in
// the ego frame, meters. Instances are read-only for the duration of an
// evaluation call.
type GroundTruth struct {
	ID    uuid.UUID `json:"id"`
	Label Label     `json:"label"`
	X     float64   `json:"x"`
	Y     float64   `json:"y"`
	Z     float64   `json:"z"`
}

// EgoDistance returns the ground-plane distance from the ego vehicle origin.
func (g GroundTruth) EgoDistance() float64 {
	return math.Hypot(g.X, g.Y)
}

// Prediction is one detector output. Confidence is in [0,1].
type Prediction struct {
	Label      Label   `json:"label"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Confidence float64 `json:"confidence"`
}

// MatchRecord pairs one prediction with its best-matching ground truth, as
// produced by the external matcher. GroundTruth is nil when no candidate was
// found. The per-mode scores are all precomputed by the matcher so the same
// record can be evaluated under every configured (mode, threshold) pair.
type MatchRecord struct {
	Prediction     Prediction   `json:"prediction"`
	GroundTruth    *GroundTruth `json:"ground_truth,omitempty"`
	CenterDistance float64      `json:"center_distance"`
	IoU3D          float64      `json:"iou_3d"`
	PlaneDistance  float64      `json:"plane_distance"`
	// LabelMatch is true when the matched ground truth exists and carries the
	// same label as the prediction.
	LabelMatch bool `json:"label_match"`
}

// Score returns the match score computed under the given mode.
func (r MatchRecord) Score(mode MatchingMode) float64 {
	switch mode {
	case ModeIoU3D:
		return r.IoU3D
	case ModePlaneDistance:
		return r.PlaneDistance
	default:
		return r.CenterDistance
	}
}

// IsCorrect reports whether the record counts as a true positive under the
// given mode and threshold: the labels must match and the mode's score must
// pass the threshold predicate.
func (r MatchRecord) IsCorrect(mode MatchingMode, threshold float64) bool {
	if r.GroundTruth == nil || !r.LabelMatch {
		return false
	}
	return mode.Passes(r.Score(mode), threshold)
}
