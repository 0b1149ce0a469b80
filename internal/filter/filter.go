// Package filter holds the object-selection helpers consumed by the metrics
// and pass/fail engines. All functions are pure: they never mutate their
// inputs and always return fresh slices.
package filter

import (
	"sort"

	"github.com/google/uuid"

	"github.com/argos-av/scorecard/internal/perception"
)

// GroundTruths returns the ground-truth objects whose label is in targetLabels.
func GroundTruths(objects []perception.GroundTruth, targetLabels []perception.Label) []perception.GroundTruth {
	filtered := make([]perception.GroundTruth, 0, len(objects))
	for _, obj := range objects {
		if perception.ContainsLabel(targetLabels, obj.Label) {
			filtered = append(filtered, obj)
		}
	}
	return filtered
}

// MatchRecords returns the records whose predicted label is in targetLabels,
// ordered by descending prediction confidence. The sort is stable: records
// with equal confidence keep their input order, since no tie-break rule is
// defined for them.
func MatchRecords(records []perception.MatchRecord, targetLabels []perception.Label) []perception.MatchRecord {
	filtered := make([]perception.MatchRecord, 0, len(records))
	for _, r := range records {
		if perception.ContainsLabel(targetLabels, r.Prediction.Label) {
			filtered = append(filtered, r)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Prediction.Confidence > filtered[j].Prediction.Confidence
	})
	return filtered
}

// CriticalConfig selects which ground-truth objects are safety-relevant for
// pass/fail gating.
type CriticalConfig struct {
	// TargetLabels restricts the critical set by label. Empty means all labels.
	TargetLabels []perception.Label
	// MaxEgoDistance is the ground-plane radius, in meters, around the ego
	// vehicle inside which objects count as critical. Zero or negative
	// disables the distance gate.
	MaxEgoDistance float64
}

// Critical returns the subset of candidates that pass the critical-object
// filter.
func Critical(candidates []perception.GroundTruth, cfg CriticalConfig) []perception.GroundTruth {
	critical := make([]perception.GroundTruth, 0, len(candidates))
	for _, obj := range candidates {
		if len(cfg.TargetLabels) > 0 && !perception.ContainsLabel(cfg.TargetLabels, obj.Label) {
			continue
		}
		if cfg.MaxEgoDistance > 0 && obj.EgoDistance() > cfg.MaxEgoDistance {
			continue
		}
		critical = append(critical, obj)
	}
	return critical
}

// DivideTPFP splits records into true positives and false positives under the
// per-label thresholds. Records whose predicted label is outside targetLabels
// or has no configured threshold are ignored entirely.
func DivideTPFP(
	records []perception.MatchRecord,
	targetLabels []perception.Label,
	mode perception.MatchingMode,
	thresholds map[perception.Label]float64,
) (tp, fp []perception.MatchRecord) {
	tp = make([]perception.MatchRecord, 0, len(records))
	fp = make([]perception.MatchRecord, 0, len(records))
	for _, r := range records {
		label := r.Prediction.Label
		if !perception.ContainsLabel(targetLabels, label) {
			continue
		}
		threshold, ok := thresholds[label]
		if !ok {
			continue
		}
		if r.IsCorrect(mode, threshold) {
			tp = append(tp, r)
		} else {
			fp = append(fp, r)
		}
	}
	return tp, fp
}

// FNGroundTruths returns the ground-truth objects that are not the matched
// ground truth of any true-positive record.
func FNGroundTruths(groundTruths []perception.GroundTruth, tpRecords []perception.MatchRecord) []perception.GroundTruth {
	matched := make(map[uuid.UUID]bool, len(tpRecords))
	for _, r := range tpRecords {
		if r.GroundTruth != nil {
			matched[r.GroundTruth.ID] = true
		}
	}
	fn := make([]perception.GroundTruth, 0, len(groundTruths))
	for _, gt := range groundTruths {
		if !matched[gt.ID] {
			fn = append(fn, gt)
		}
	}
	return fn
}
