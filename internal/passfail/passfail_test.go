package passfail

import (
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"github.com/argos-av/scorecard/internal/filter"
	"github.com/argos-av/scorecard/internal/perception"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() Config {
	return Config{
		TargetLabels: []perception.Label{perception.LabelCar, perception.LabelPedestrian},
		Mode:         perception.ModeCenterDistance,
		Thresholds: map[perception.Label]float64{
			perception.LabelCar:        1.0,
			perception.LabelPedestrian: 0.5,
		},
	}
}

func nearGT(label perception.Label) perception.GroundTruth {
	return perception.GroundTruth{ID: uuid.New(), Label: label, X: 1, Y: 1}
}

func matchedRecord(gt perception.GroundTruth, confidence, dist float64) perception.MatchRecord {
	return perception.MatchRecord{
		Prediction:     perception.Prediction{Label: gt.Label, Confidence: confidence},
		GroundTruth:    &gt,
		CenterDistance: dist,
		LabelMatch:     true,
	}
}

func unmatchedRecord(label perception.Label, confidence float64) perception.MatchRecord {
	return perception.MatchRecord{
		Prediction:     perception.Prediction{Label: label, Confidence: confidence},
		CenterDistance: 100,
	}
}

func TestConfigValidate(t *testing.T) {
	if err := testConfig().Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	bad := testConfig()
	bad.Mode = "bogus"
	if err := bad.Validate(); err == nil {
		t.Error("unknown mode accepted")
	}

	bad = testConfig()
	delete(bad.Thresholds, perception.LabelPedestrian)
	if err := bad.Validate(); err == nil {
		t.Error("missing per-label threshold accepted")
	}

	bad = testConfig()
	bad.Thresholds[perception.LabelCar] = 0
	if err := bad.Validate(); err == nil {
		t.Error("zero threshold accepted")
	}
}

func TestEvaluateSplitsTPFPFN(t *testing.T) {
	cls, err := NewClassifier(testConfig(), filter.CriticalConfig{}, discardLogger())
	if err != nil {
		t.Fatalf("NewClassifier failed: %v", err)
	}

	detected := nearGT(perception.LabelCar)
	missed := nearGT(perception.LabelPedestrian)

	records := []perception.MatchRecord{
		matchedRecord(detected, 0.9, 0.4),                    // TP
		unmatchedRecord(perception.LabelCar, 0.8),            // FP, no ground truth
		matchedRecord(nearGT(perception.LabelCar), 0.7, 3.0), // FP, too far
	}

	res := cls.Evaluate(records, []perception.GroundTruth{detected, missed})

	if len(res.TP) != 1 {
		t.Errorf("TP = %d, want 1", len(res.TP))
	}
	if len(res.FP) != 2 {
		t.Errorf("FP = %d, want 2", len(res.FP))
	}
	if len(res.FN) != 1 || res.FN[0].ID != missed.ID {
		t.Fatalf("FN = %v, want exactly the missed pedestrian", res.FN)
	}
	if res.FailCount() != 3 {
		t.Errorf("FailCount = %d, want 3", res.FailCount())
	}
	if res.Passed() {
		t.Error("frame with failures reported as passed")
	}
}

func TestEvaluateRestrictFPToCritical(t *testing.T) {
	cfg := testConfig()
	cfg.RestrictFPToCritical = true
	cls, err := NewClassifier(cfg, filter.CriticalConfig{MaxEgoDistance: 10}, discardLogger())
	if err != nil {
		t.Fatalf("NewClassifier failed: %v", err)
	}

	criticalGT := nearGT(perception.LabelCar) // ego distance ~1.4
	farGT := perception.GroundTruth{ID: uuid.New(), Label: perception.LabelCar, X: 50, Y: 50}

	records := []perception.MatchRecord{
		matchedRecord(criticalGT, 0.9, 3.0),       // FP matched to critical GT: kept
		matchedRecord(farGT, 0.8, 3.0),            // FP matched to non-critical GT: dropped
		unmatchedRecord(perception.LabelCar, 0.7), // unmatched FP: dropped
	}

	res := cls.Evaluate(records, []perception.GroundTruth{criticalGT, farGT})

	if len(res.CriticalGroundTruth) != 1 {
		t.Fatalf("critical set = %d, want 1", len(res.CriticalGroundTruth))
	}
	if len(res.FP) != 1 || res.FP[0].GroundTruth.ID != criticalGT.ID {
		t.Fatalf("FP = %d records, want only the critical-matched one", len(res.FP))
	}
}

func TestEvaluateEmptyCriticalSet(t *testing.T) {
	// Restriction with an empty critical set drops every FP, and the FN set
	// is empty too: fail safe toward no false alarm.
	cfg := testConfig()
	cfg.RestrictFPToCritical = true
	cls, err := NewClassifier(cfg, filter.CriticalConfig{MaxEgoDistance: 0.001}, discardLogger())
	if err != nil {
		t.Fatalf("NewClassifier failed: %v", err)
	}

	records := []perception.MatchRecord{
		unmatchedRecord(perception.LabelCar, 0.9),
		unmatchedRecord(perception.LabelPedestrian, 0.8),
	}

	res := cls.Evaluate(records, []perception.GroundTruth{nearGT(perception.LabelCar)})

	if len(res.CriticalGroundTruth) != 0 {
		t.Fatalf("critical set = %d, want 0", len(res.CriticalGroundTruth))
	}
	if len(res.FP) != 0 {
		t.Errorf("FP = %d, want 0 when critical set is empty", len(res.FP))
	}
	if len(res.FN) != 0 {
		t.Errorf("FN = %d, want 0 when critical set is empty", len(res.FN))
	}
	if !res.Passed() {
		t.Error("expected pass with empty critical set and restricted FPs")
	}
}

func TestEvaluateNoCarryOverBetweenFrames(t *testing.T) {
	cls, err := NewClassifier(testConfig(), filter.CriticalConfig{}, discardLogger())
	if err != nil {
		t.Fatalf("NewClassifier failed: %v", err)
	}

	missed := nearGT(perception.LabelCar)
	first := cls.Evaluate(nil, []perception.GroundTruth{missed})
	if first.FailCount() != 1 {
		t.Fatalf("first frame FailCount = %d, want 1", first.FailCount())
	}

	second := cls.Evaluate(nil, nil)
	if second.FailCount() != 0 {
		t.Errorf("second frame FailCount = %d, want 0 (no carried state)", second.FailCount())
	}
}
