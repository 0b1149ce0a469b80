package metrics

import "github.com/argos-av/scorecard/internal/perception"

// cumulativeTPFP walks records in order and returns the cumulative true- and
// false-positive counts at each rank. The input must already be ordered by
// descending prediction confidence (filter.MatchRecords guarantees this).
// Both outputs have the same length as records, and tp[i]+fp[i] == i+1.
//
// Example: correctness [T, F, T, T] -> tp [1, 1, 2, 3], fp [0, 1, 1, 1].
func cumulativeTPFP(records []perception.MatchRecord, mode perception.MatchingMode, threshold float64) (tp, fp []int) {
	if len(records) == 0 {
		return nil, nil
	}
	tp = make([]int, len(records))
	fp = make([]int, len(records))

	if records[0].IsCorrect(mode, threshold) {
		tp[0] = 1
	} else {
		fp[0] = 1
	}
	for i := 1; i < len(records); i++ {
		tp[i] = tp[i-1]
		if records[i].IsCorrect(mode, threshold) {
			tp[i]++
		}
		fp[i] = i + 1 - tp[i]
	}
	return tp, fp
}

// precisionRecall converts cumulative TP counts into precision and recall
// curves. precision[i] = tp[i]/(i+1); recall[i] = tp[i]/groundTruthCount,
// or 0 when there is no ground truth.
func precisionRecall(tp []int, groundTruthCount int) (precision, recall []float64) {
	precision = make([]float64, len(tp))
	recall = make([]float64, len(tp))
	for i := range tp {
		precision[i] = float64(tp[i]) / float64(i+1)
		if groundTruthCount > 0 {
			recall[i] = float64(tp[i]) / float64(groundTruthCount)
		}
	}
	return precision, recall
}
