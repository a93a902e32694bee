package roi

import (
	"testing"
	"time"

	"github.com/banachtech/optionsroi/marketdata"
	"github.com/banachtech/optionsroi/util"
	"github.com/stretchr/testify/require"
)

func TestProcessPutExample(t *testing.T) {
	now, _ := time.Parse(Layout, "2025-03-10")
	chain := []marketdata.OptionContract{
		{
			Strike:            140.00,
			Type:              marketdata.Put,
			Expiration:        "2025-03-25",
			Bid:               1.00,
			Ask:               1.20,
			LastPrice:         1.10,
			Volume:            120,
			OpenInterest:      450,
			ImpliedVolatility: 0.3512,
		},
	}

	records := Process(150.00, chain, now)
	require.Len(t, records, 1)

	rec := records[0]
	require.Equal(t, 140.00, rec.StrikePrice)
	require.Equal(t, "2025-03-25", rec.ExpiryDate)
	require.Equal(t, 1.00, rec.Premium)
	require.Equal(t, 1.00, rec.Bid)
	require.Equal(t, 1.20, rec.Ask)
	require.Equal(t, 15, rec.DaysToExpiry)
	require.Equal(t, int64(120), rec.Volume)
	require.Equal(t, int64(450), rec.OpenInterest)
	require.Equal(t, 35.12, rec.ImpliedVolPercent)
	require.Equal(t, 17.38, rec.AnnualizedROI)
	require.Equal(t, marketdata.Put, rec.OptionType)
}

func TestProcessEmptyChain(t *testing.T) {
	require.Empty(t, Process(150.00, nil, time.Now()))
	require.Empty(t, Process(150.00, []marketdata.OptionContract{}, time.Now()))
}

func TestProcessExclusions(t *testing.T) {
	now, _ := time.Parse(Layout, "2025-03-10")
	future := "2025-04-10"

	base := marketdata.OptionContract{
		Strike:     140.00,
		Type:       marketdata.Put,
		Expiration: future,
		Bid:        1.00,
		Ask:        1.20,
		LastPrice:  1.10,
	}

	type testCases struct {
		name   string
		mutate func(c *marketdata.OptionContract)
	}

	for _, test := range []testCases{
		{
			name:   "put above current price",
			mutate: func(c *marketdata.OptionContract) { c.Strike = 160.00 },
		},
		{
			name: "call below current price",
			mutate: func(c *marketdata.OptionContract) {
				c.Type = marketdata.Call
				c.Strike = 140.00
			},
		},
		{
			name:   "expired",
			mutate: func(c *marketdata.OptionContract) { c.Expiration = "2025-03-01" },
		},
		{
			name:   "expiring today",
			mutate: func(c *marketdata.OptionContract) { c.Expiration = "2025-03-10" },
		},
		{
			name:   "unparseable expiry",
			mutate: func(c *marketdata.OptionContract) { c.Expiration = "soon" },
		},
		{
			name:   "zero bid",
			mutate: func(c *marketdata.OptionContract) { c.Bid = 0 },
		},
		{
			name:   "zero ask",
			mutate: func(c *marketdata.OptionContract) { c.Ask = 0 },
		},
		{
			name: "negative bid",
			mutate: func(c *marketdata.OptionContract) { c.Bid = -0.5 },
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			c := base
			test.mutate(&c)
			require.Empty(t, Process(150.00, []marketdata.OptionContract{c}, now))
		})
	}

	// the untouched base contract survives
	require.Len(t, Process(150.00, []marketdata.OptionContract{base}, now), 1)
}

func TestProcessProperties(t *testing.T) {
	const spot = 100.0
	now := time.Now()

	chain := make([]marketdata.OptionContract, 0, 500)
	for i := 0; i < 500; i++ {
		chain = append(chain, util.RandomContract(spot))
	}

	records := Process(spot, chain, now)
	for _, rec := range records {
		if rec.OptionType == marketdata.Put {
			require.LessOrEqual(t, rec.StrikePrice, spot)
		} else {
			require.GreaterOrEqual(t, rec.StrikePrice, spot)
		}
		require.Positive(t, rec.DaysToExpiry)
		require.Positive(t, rec.AnnualizedROI)
		require.Positive(t, rec.Premium)
		require.LessOrEqual(t, rec.Premium, rec.Bid)
		require.LessOrEqual(t, rec.Premium, rec.Ask)
	}
}

func TestProcessPreservesOrder(t *testing.T) {
	now, _ := time.Parse(Layout, "2025-03-10")
	chain := []marketdata.OptionContract{
		{Strike: 120, Type: marketdata.Put, Expiration: "2025-04-10", Bid: 0.50, Ask: 0.60, LastPrice: 0.55},
		{Strike: 130, Type: marketdata.Put, Expiration: "2025-04-10", Bid: 1.00, Ask: 1.10, LastPrice: 1.05},
		{Strike: 140, Type: marketdata.Put, Expiration: "2025-04-10", Bid: 2.00, Ask: 2.10, LastPrice: 2.05},
	}

	records := Process(150.00, chain, now)
	require.Len(t, records, 3)
	require.Equal(t, 120.00, records[0].StrikePrice)
	require.Equal(t, 130.00, records[1].StrikePrice)
	require.Equal(t, 140.00, records[2].StrikePrice)
}
