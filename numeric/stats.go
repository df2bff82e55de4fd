package numeric

import "gonum.org/v1/gonum/stat"

// WindowStats summarizes the residual potential sampled far from the
// defect. The spread doubles as an uncertainty estimate for the alignment
// constant.
type WindowStats struct {
	N          int     `json:"n"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	Mean       float64 `json:"mean"`
	Variance   float64 `json:"variance"` // sample variance (n-1)
	Skewness   float64 `json:"skewness"`
	ExKurtosis float64 `json:"ex_kurtosis"`
}

// Describe computes descriptive statistics of xs. An empty slice yields a
// zero-valued summary.
func Describe(xs []float64) WindowStats {
	if len(xs) == 0 {
		return WindowStats{}
	}
	s := WindowStats{
		N:    len(xs),
		Min:  xs[0],
		Max:  xs[0],
		Mean: stat.Mean(xs, nil),
	}
	for _, x := range xs[1:] {
		if x < s.Min {
			s.Min = x
		}
		if x > s.Max {
			s.Max = x
		}
	}
	if len(xs) > 1 {
		s.Variance = stat.Variance(xs, nil)
		s.Skewness = stat.Skew(xs, nil)
		s.ExKurtosis = stat.ExKurtosis(xs, nil)
	}
	return s
}
