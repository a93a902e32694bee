package roi

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Summary describes the distribution of annualized ROI across a record set.
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
	Max    float64 `json:"max"`
}

// Summarize computes sample statistics over the annualized ROI column.
func Summarize(records []Record) Summary {
	if len(records) == 0 {
		return Summary{}
	}
	xs := make([]float64, len(records))
	for i, r := range records {
		xs[i] = r.AnnualizedROI
	}
	sort.Float64s(xs)

	s := Summary{
		Count:  len(xs),
		Mean:   round2(stat.Mean(xs, nil)),
		Median: round2(stat.Quantile(0.5, stat.Empirical, xs, nil)),
		Max:    xs[len(xs)-1],
	}
	if len(xs) > 1 {
		s.Std = round2(stat.StdDev(xs, nil))
	}
	return s
}
