package roi

import (
	"math"
	"time"
)

const Layout = "2006-01-02"

// DaysToExpiry returns the whole days between now and an ISO expiry date,
// floored at 0. An unparseable date also yields 0, the same exclude signal
// as an expired contract.
func DaysToExpiry(expiry string, now time.Time) int {
	t, err := time.Parse(Layout, expiry)
	if err != nil {
		return 0
	}
	days := int(t.Sub(now).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// AnnualizedROI approximates the yearly percentage yield of selling an
// option: premium relative to the strike as capital at risk, scaled linearly
// to a 365-day year. Any non-positive input yields 0, the exclude signal.
func AnnualizedROI(premium, strike float64, days int) float64 {
	if premium <= 0 || strike <= 0 || days <= 0 {
		return 0
	}
	raw := (premium / strike) * 100
	annualized := (raw * 365) / float64(days)
	if math.IsNaN(annualized) || math.IsInf(annualized, 0) {
		return 0
	}
	return round2(annualized)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
