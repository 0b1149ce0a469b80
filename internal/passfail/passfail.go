// Package passfail gates individual frames on safety-critical detection
// outcomes: every missed critical object and every surviving false positive
// counts as a failure.
package passfail

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/argos-av/scorecard/internal/filter"
	"github.com/argos-av/scorecard/internal/perception"
)

// Config holds the per-label matching thresholds used to split match records
// into TP and FP, and the FP restriction flag.
type Config struct {
	TargetLabels []perception.Label
	Mode         perception.MatchingMode
	// Thresholds maps each target label to its matching threshold.
	Thresholds map[perception.Label]float64
	// RestrictFPToCritical keeps only false positives whose matched ground
	// truth is in the critical set. Unmatched false positives are dropped in
	// this mode; with an empty critical set every FP is dropped.
	RestrictFPToCritical bool
}

// Validate checks that every target label has a positive threshold.
func (c Config) Validate() error {
	if !c.Mode.Valid() {
		return fmt.Errorf("passfail config: unknown matching mode %q", c.Mode)
	}
	if len(c.TargetLabels) == 0 {
		return fmt.Errorf("passfail config: no target labels")
	}
	for _, l := range c.TargetLabels {
		if !l.Valid() {
			return fmt.Errorf("passfail config: unknown label %q", l)
		}
		threshold, ok := c.Thresholds[l]
		if !ok {
			return fmt.Errorf("passfail config: label %q has no matching threshold", l)
		}
		if threshold <= 0 {
			return fmt.Errorf("passfail config: threshold for %q must be positive, got %v", l, threshold)
		}
	}
	return nil
}

// Classifier splits one frame's match records into TP/FP/FN sets against the
// critical ground-truth subset. It carries no state across frames.
type Classifier struct {
	cfg      Config
	critical filter.CriticalConfig
	logger   *slog.Logger
}

// NewClassifier validates the configuration and returns a Classifier.
func NewClassifier(cfg Config, critical filter.CriticalConfig, logger *slog.Logger) (*Classifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Classifier{cfg: cfg, critical: critical, logger: logger}, nil
}

// Result is the outcome of one frame's pass/fail evaluation. Recomputed in
// full on every Evaluate call.
type Result struct {
	CriticalGroundTruth []perception.GroundTruth `json:"critical_ground_truth"`
	TP                  []perception.MatchRecord `json:"tp"`
	FP                  []perception.MatchRecord `json:"fp"`
	FN                  []perception.GroundTruth `json:"fn"`
}

// FailCount is the number of failing objects: missed critical ground truths
// plus surviving false positives.
func (r Result) FailCount() int {
	return len(r.FN) + len(r.FP)
}

// Passed reports whether the frame had no failing objects.
func (r Result) Passed() bool {
	return r.FailCount() == 0
}

// Evaluate classifies one frame. criticalCandidates is the full ground-truth
// set the critical filter selects from, normally every annotation in the
// frame.
func (c *Classifier) Evaluate(records []perception.MatchRecord, criticalCandidates []perception.GroundTruth) Result {
	critical := filter.Critical(criticalCandidates, c.critical)

	tp, fp := filter.DivideTPFP(records, c.cfg.TargetLabels, c.cfg.Mode, c.cfg.Thresholds)
	fn := filter.FNGroundTruths(critical, tp)

	if c.cfg.RestrictFPToCritical {
		fp = criticalFPs(fp, critical)
	}

	result := Result{
		CriticalGroundTruth: critical,
		TP:                  tp,
		FP:                  fp,
		FN:                  fn,
	}
	if result.FailCount() > 0 {
		c.logger.Warn("frame failed safety gate",
			"fn", len(fn), "fp", len(fp), "critical", len(critical))
	}
	return result
}

// criticalFPs keeps only the false positives matched against a critical
// ground truth. Unmatched false positives never survive restriction.
func criticalFPs(fps []perception.MatchRecord, critical []perception.GroundTruth) []perception.MatchRecord {
	ids := make(map[uuid.UUID]bool, len(critical))
	for _, gt := range critical {
		ids[gt.ID] = true
	}
	kept := make([]perception.MatchRecord, 0, len(fps))
	for _, r := range fps {
		if r.GroundTruth != nil && ids[r.GroundTruth.ID] {
			kept = append(kept, r)
		}
	}
	return kept
}
