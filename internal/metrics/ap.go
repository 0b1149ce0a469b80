package metrics

import (
	"fmt"
	"log/slog"

	"github.com/argos-av/scorecard/internal/filter"
	"github.com/argos-av/scorecard/internal/perception"
)

// AveragePrecision holds one (label set, mode, threshold) scoring run. All
// fields are computed once at construction and never mutated afterward.
type AveragePrecision struct {
	TargetLabels     []perception.Label      `json:"target_labels"`
	Mode             perception.MatchingMode `json:"matching_mode"`
	Threshold        float64                 `json:"matching_threshold"`
	GroundTruthCount int                     `json:"ground_truth_count"`
	Value            float64                 `json:"ap"`

	tpList    []int
	fpList    []int
	precision []float64
	recall    []float64
}

// NewAveragePrecision scores one label set under one (mode, threshold) pair.
// records and groundTruths are the full frame or dataset contents; filtering
// to the target labels happens here. Zero scoring records against nonzero
// ground truth is a warning, not an error, and yields AP 0.
func NewAveragePrecision(
	records []perception.MatchRecord,
	groundTruths []perception.GroundTruth,
	targetLabels []perception.Label,
	mode perception.MatchingMode,
	threshold float64,
	logger *slog.Logger,
) (*AveragePrecision, error) {
	if len(targetLabels) == 0 {
		return nil, fmt.Errorf("average precision: no target labels")
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("average precision: unknown matching mode %q", mode)
	}
	if threshold <= 0 {
		return nil, fmt.Errorf("average precision: matching threshold must be positive, got %v", threshold)
	}

	ap := &AveragePrecision{
		TargetLabels: targetLabels,
		Mode:         mode,
		Threshold:    threshold,
	}

	scored := filter.MatchRecords(records, targetLabels)
	ap.GroundTruthCount = len(filter.GroundTruths(groundTruths, targetLabels))

	if len(scored) == 0 && ap.GroundTruthCount != 0 {
		logger.Warn("no predictions to score against nonzero ground truth",
			"labels", labelNames(targetLabels),
			"mode", mode,
			"threshold", threshold,
			"ground_truth_count", ap.GroundTruthCount,
		)
	}

	ap.tpList, ap.fpList = cumulativeTPFP(scored, mode, threshold)
	ap.precision, ap.recall = precisionRecall(ap.tpList, ap.GroundTruthCount)
	ap.Value = interpolatedAP(ap.precision, ap.recall)
	return ap, nil
}

// PrecisionRecall returns copies of the precision and recall curves, for
// reporting and plot export.
func (ap *AveragePrecision) PrecisionRecall() (precision, recall []float64) {
	precision = append([]float64(nil), ap.precision...)
	recall = append([]float64(nil), ap.recall...)
	return precision, recall
}

// TPFP returns copies of the cumulative TP and FP counts.
func (ap *AveragePrecision) TPFP() (tp, fp []int) {
	tp = append([]int(nil), ap.tpList...)
	fp = append([]int(nil), ap.fpList...)
	return tp, fp
}

// interpolatedAP integrates the interpolated-precision envelope of the
// precision/recall curve. Walking backward from the lowest-confidence sample,
// precision values are kept only when they exceed the running maximum, which
// yields a precision envelope that is non-increasing as recall grows. The
// envelope is anchored down to recall zero and integrated as a step function.
func interpolatedAP(precision, recall []float64) float64 {
	if len(precision) == 0 {
		return 0.0
	}

	envelope := []float64{precision[len(precision)-1]}
	envelopeRecall := []float64{recall[len(recall)-1]}

	for i := len(recall) - 2; i >= 0; i-- {
		if precision[i] > envelope[len(envelope)-1] {
			envelope = append(envelope, precision[i])
			envelopeRecall = append(envelopeRecall, recall[i])
		}
	}

	envelope = append(envelope, envelope[len(envelope)-1])
	envelopeRecall = append(envelopeRecall, 0.0)

	var ap float64
	for i := 0; i < len(envelope)-1; i++ {
		ap += envelope[i] * (envelopeRecall[i] - envelopeRecall[i+1])
	}
	return ap
}

func labelNames(labels []perception.Label) []string {
	names := make([]string, len(labels))
	for i, l := range labels {
		names[i] = string(l)
	}
	return names
}
