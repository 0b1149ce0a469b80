package metrics

import (
	"testing"

	"github.com/argos-av/scorecard/internal/perception"
)

func TestNewMeanAveragePrecision(t *testing.T) {
	// Car scores AP 0.625; pedestrian has no ground truth and no predictions,
	// so it scores 0 and drags the mean down to 0.3125.
	records := recordsFromCorrectness([]bool{true, false, true, true})
	gts := carGroundTruths(4)
	labels := []perception.Label{perception.LabelCar, perception.LabelPedestrian}

	m, err := NewMeanAveragePrecision(records, gts, labels,
		perception.ModeCenterDistance, 1.0, discardLogger())
	if err != nil {
		t.Fatalf("NewMeanAveragePrecision failed: %v", err)
	}
	if m == nil {
		t.Fatal("expected a result for a nonempty label list")
	}

	if len(m.APs) != 2 {
		t.Fatalf("expected 2 per-label APs, got %d", len(m.APs))
	}
	if m.APs[0].Value != 0.625 {
		t.Errorf("car AP = %v, want 0.625", m.APs[0].Value)
	}
	if m.APs[1].Value != 0 {
		t.Errorf("pedestrian AP = %v, want 0", m.APs[1].Value)
	}
	if m.Value != 0.3125 {
		t.Errorf("mAP = %v, want exactly 0.3125", m.Value)
	}
	if m.GroundTruthCount() != 4 {
		t.Errorf("ground truth count = %d, want 4", m.GroundTruthCount())
	}
}

func TestNewMeanAveragePrecisionEmptyLabels(t *testing.T) {
	m, err := NewMeanAveragePrecision(nil, nil, nil,
		perception.ModeCenterDistance, 1.0, discardLogger())
	if err != nil {
		t.Fatalf("empty label list must not be fatal: %v", err)
	}
	if m != nil {
		t.Error("expected no result for an empty label list")
	}
}
