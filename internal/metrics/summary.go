package metrics

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary condenses the mAP values across all evaluated (mode, threshold)
// pairs into headline numbers for reporting.
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	StdDev float64 `json:"std_dev"`
}

// Summarize computes summary statistics over a Score's mAP values. An empty
// score yields the zero Summary.
func Summarize(s *Score) Summary {
	if len(s.MAPs) == 0 {
		return Summary{}
	}
	values := make([]float64, len(s.MAPs))
	for i, m := range s.MAPs {
		values[i] = m.Value
	}
	sum := Summary{
		Count: len(values),
		Mean:  stat.Mean(values, nil),
		Min:   floats.Min(values),
		Max:   floats.Max(values),
	}
	if len(values) > 1 {
		sum.StdDev = stat.StdDev(values, nil)
	}
	return sum
}
