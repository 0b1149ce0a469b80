package metrics

import (
	"log/slog"

	"github.com/argos-av/scorecard/internal/perception"
)

// MeanAveragePrecision averages per-label AP values for one (mode, threshold)
// pair. The divisor is the number of configured labels, not the number of
// labels with ground truth present: a label with zero ground truth scores
// AP 0 and drags the mean down. That is the intended scoring behavior.
type MeanAveragePrecision struct {
	TargetLabels []perception.Label      `json:"target_labels"`
	Mode         perception.MatchingMode `json:"matching_mode"`
	Threshold    float64                 `json:"matching_threshold"`
	APs          []*AveragePrecision     `json:"aps"`
	Value        float64                 `json:"map"`
}

// NewMeanAveragePrecision runs one single-label AP per target label and
// averages the results. An empty label list is a configuration warning, not
// an error: it returns (nil, nil) so sparse configurations skip cleanly.
func NewMeanAveragePrecision(
	records []perception.MatchRecord,
	groundTruths []perception.GroundTruth,
	targetLabels []perception.Label,
	mode perception.MatchingMode,
	threshold float64,
	logger *slog.Logger,
) (*MeanAveragePrecision, error) {
	if len(targetLabels) == 0 {
		logger.Warn("mean average precision skipped: empty target label list",
			"mode", mode, "threshold", threshold)
		return nil, nil
	}

	m := &MeanAveragePrecision{
		TargetLabels: targetLabels,
		Mode:         mode,
		Threshold:    threshold,
		APs:          make([]*AveragePrecision, 0, len(targetLabels)),
	}

	var sum float64
	for _, label := range targetLabels {
		ap, err := NewAveragePrecision(records, groundTruths,
			[]perception.Label{label}, mode, threshold, logger)
		if err != nil {
			return nil, err
		}
		m.APs = append(m.APs, ap)
		sum += ap.Value
	}
	m.Value = sum / float64(len(targetLabels))
	return m, nil
}

// GroundTruthCount sums the ground-truth counts over all per-label runs.
func (m *MeanAveragePrecision) GroundTruthCount() int {
	var n int
	for _, ap := range m.APs {
		n += ap.GroundTruthCount
	}
	return n
}
