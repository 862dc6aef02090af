package grid

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Stats summarises the finite cells of a field.
type Stats struct {
	Valid   int
	Missing int
	Min     float64
	Max     float64
	Mean    float64
	StdDev  float64
	RMS     float64
}

// Summarize computes Stats over the finite cells of z. NaN and infinite
// cells count as missing. With no finite cell every statistic is NaN.
func Summarize(z *mat.Dense) Stats {
	all := values(z)
	vals := make([]float64, 0, len(all))
	for _, v := range all {
		if finite(v) {
			vals = append(vals, v)
		}
	}
	s := Stats{Valid: len(vals), Missing: len(all) - len(vals)}
	if len(vals) == 0 {
		nan := math.NaN()
		s.Min, s.Max, s.Mean, s.StdDev, s.RMS = nan, nan, nan, nan, nan
		return s
	}
	s.Min = floats.Min(vals)
	s.Max = floats.Max(vals)
	s.Mean, s.StdDev = stat.PopMeanStdDev(vals, nil)
	s.RMS = floats.Norm(vals, 2) / math.Sqrt(float64(len(vals)))
	return s
}
