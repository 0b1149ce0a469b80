package metrics

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/argos-av/scorecard/internal/perception"
)

// Config enumerates the (mode, threshold) combinations one Score evaluates.
// A mode with no thresholds is simply not evaluated.
type Config struct {
	TargetLabels             []perception.Label
	CenterDistanceThresholds []float64
	IoU3DThresholds          []float64
	PlaneDistanceThresholds  []float64
}

// Validate checks labels and thresholds. An empty label list is allowed here
// (it degrades to a logged warning at evaluation time).
func (c Config) Validate() error {
	for _, l := range c.TargetLabels {
		if !l.Valid() {
			return fmt.Errorf("metrics config: unknown label %q", l)
		}
	}
	for _, group := range []struct {
		mode       perception.MatchingMode
		thresholds []float64
	}{
		{perception.ModeCenterDistance, c.CenterDistanceThresholds},
		{perception.ModeIoU3D, c.IoU3DThresholds},
		{perception.ModePlaneDistance, c.PlaneDistanceThresholds},
	} {
		for _, t := range group.thresholds {
			if t <= 0 {
				return fmt.Errorf("metrics config: %s threshold must be positive, got %v", group.mode, t)
			}
		}
	}
	return nil
}

// thresholdsFor returns the configured thresholds for a mode, in the order
// they were configured.
func (c Config) thresholdsFor(mode perception.MatchingMode) []float64 {
	switch mode {
	case perception.ModeCenterDistance:
		return c.CenterDistanceThresholds
	case perception.ModeIoU3D:
		return c.IoU3DThresholds
	case perception.ModePlaneDistance:
		return c.PlaneDistanceThresholds
	}
	return nil
}

// Score orchestrates one MeanAveragePrecision per configured (mode,
// threshold) pair. Results accumulate in configuration order: center
// distance thresholds first, then IoU, then plane distance.
type Score struct {
	cfg    Config
	logger *slog.Logger

	MAPs []*MeanAveragePrecision
}

// NewScore validates the configuration and returns an empty Score.
func NewScore(cfg Config, logger *slog.Logger) (*Score, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Score{cfg: cfg, logger: logger}, nil
}

// Evaluate computes all configured detection metrics over one batch of match
// records and ground truths. Tracking and prediction evaluation are named
// extension points that currently compute nothing.
func (s *Score) Evaluate(records []perception.MatchRecord, groundTruths []perception.GroundTruth) error {
	if err := s.evaluateDetection(records, groundTruths); err != nil {
		return err
	}
	s.evaluateTracking(records)
	s.evaluatePrediction(records)
	return nil
}

func (s *Score) evaluateDetection(records []perception.MatchRecord, groundTruths []perception.GroundTruth) error {
	for _, mode := range perception.Modes {
		for _, threshold := range s.cfg.thresholdsFor(mode) {
			m, err := NewMeanAveragePrecision(records, groundTruths,
				s.cfg.TargetLabels, mode, threshold, s.logger)
			if err != nil {
				return fmt.Errorf("evaluate %s @ %v: %w", mode, threshold, err)
			}
			if m == nil {
				continue
			}
			s.MAPs = append(s.MAPs, m)
		}
	}
	return nil
}

// evaluateTracking is a placeholder for tracking metrics (MOTA/MOTP).
func (s *Score) evaluateTracking(_ []perception.MatchRecord) {}

// evaluatePrediction is a placeholder for trajectory-prediction metrics.
func (s *Score) evaluatePrediction(_ []perception.MatchRecord) {}

// Result returns the structured, caller-owned view of all computed metrics.
func (s *Score) Result() Result {
	res := Result{MAPs: make([]MAPResult, 0, len(s.MAPs))}
	for _, m := range s.MAPs {
		mr := MAPResult{
			Mode:             m.Mode,
			Threshold:        m.Threshold,
			Value:            m.Value,
			GroundTruthCount: m.GroundTruthCount(),
			APs:              make([]APResult, 0, len(m.APs)),
		}
		for _, ap := range m.APs {
			label := perception.LabelUnknown
			if len(ap.TargetLabels) > 0 {
				label = ap.TargetLabels[0]
			}
			mr.APs = append(mr.APs, APResult{
				Label:            label,
				Value:            ap.Value,
				GroundTruthCount: ap.GroundTruthCount,
			})
		}
		res.MAPs = append(res.MAPs, mr)
	}
	return res
}

// String renders the flat human-readable summary, one line per (mode,
// threshold) pair, in configuration order.
func (s *Score) String() string {
	var b strings.Builder
	b.WriteString("\n")
	for _, m := range s.MAPs {
		fmt.Fprintf(&b, "%s %v mAP: %.4f (object num %d)", m.Mode, m.Threshold, m.Value, m.GroundTruthCount())
		for _, ap := range m.APs {
			fmt.Fprintf(&b, ", AP %s: %.4f", joinLabels(ap.TargetLabels), ap.Value)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func joinLabels(labels []perception.Label) string {
	return strings.Join(labelNames(labels), "_")
}

// Result is the output aggregate handed to reporting. Read-only after
// construction.
type Result struct {
	MAPs []MAPResult `json:"maps"`
}

// MAPResult is one (mode, threshold) entry with its per-label constituents.
type MAPResult struct {
	Mode             perception.MatchingMode `json:"matching_mode"`
	Threshold        float64                 `json:"matching_threshold"`
	Value            float64                 `json:"map"`
	GroundTruthCount int                     `json:"ground_truth_count"`
	APs              []APResult              `json:"aps"`
}

// APResult is one label's AP under one (mode, threshold) pair.
type APResult struct {
	Label            perception.Label `json:"label"`
	Value            float64          `json:"ap"`
	GroundTruthCount int              `json:"ground_truth_count"`
}
