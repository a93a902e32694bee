package roi

import (
	"time"

	"github.com/banachtech/optionsroi/marketdata"
)

// Record is one row of the analytical output, derived 1:1 from a surviving
// option contract.
type Record struct {
	StrikePrice       float64               `json:"strike_price"`
	ExpiryDate        string                `json:"expiry_date"`
	Premium           float64               `json:"premium"`
	Bid               float64               `json:"bid"`
	Ask               float64               `json:"ask"`
	DaysToExpiry      int                   `json:"days_to_expiry"`
	Volume            int64                 `json:"volume"`
	OpenInterest      int64                 `json:"open_interest"`
	ImpliedVolPercent float64               `json:"implied_volatility_pct"`
	AnnualizedROI     float64               `json:"annualized_roi_pct"`
	OptionType        marketdata.OptionType `json:"option_type"`
}

// Process turns a fetched chain into analytical records, in input order.
// Contracts are kept only when they sit on the assignment-risk side of the
// current price (puts at or below, calls at or above), have time left,
// carry a tradable bid/ask and yield a strictly positive annualized ROI.
// The premium is the lower of bid and ask. An empty or nil chain yields an
// empty result, not an error.
func Process(currentPrice float64, chain []marketdata.OptionContract, now time.Time) []Record {
	var out []Record
	for _, c := range chain {
		if c.Type == marketdata.Put && c.Strike > currentPrice {
			continue
		}
		if c.Type == marketdata.Call && c.Strike < currentPrice {
			continue
		}

		days := DaysToExpiry(c.Expiration, now)
		if days == 0 {
			continue
		}

		if c.Bid <= 0 || c.Ask <= 0 {
			continue
		}
		premium := c.Bid
		if c.Ask < premium {
			premium = c.Ask
		}
		if premium <= 0 {
			continue
		}

		annualized := AnnualizedROI(premium, c.Strike, days)
		if annualized <= 0 {
			continue
		}

		out = append(out, Record{
			StrikePrice:       c.Strike,
			ExpiryDate:        c.Expiration,
			Premium:           premium,
			Bid:               c.Bid,
			Ask:               c.Ask,
			DaysToExpiry:      days,
			Volume:            c.Volume,
			OpenInterest:      c.OpenInterest,
			ImpliedVolPercent: round2(c.ImpliedVolatility * 100),
			AnnualizedROI:     annualized,
			OptionType:        c.Type,
		})
	}
	return out
}
