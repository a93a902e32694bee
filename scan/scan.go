// Package scan walks a ticker worklist and collects put-selling candidates
// filtered by preset income-strategy thresholds.
package scan

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/banachtech/optionsroi/marketdata"
	"github.com/banachtech/optionsroi/roi"
	"github.com/schollz/progressbar/v3"
)

// DefaultTickers is the standing worklist for the put scan.
var DefaultTickers = []string{
	"MSTY", "PLTY", "TSLA", "SMCI", "SOFI", "NVDA", "AMZN", "MSFT",
	"AAPL", "HIMS", "HOOD", "META", "INTC", "OKTA", "AVGO", "GOOG",
	"T", "O", "LLY", "NFLX", "MSTR",
}

// Params are the preset filters applied to every ticker in a scan.
type Params struct {
	MaxDays         int     `json:"max_days"`
	BelowPricePct   float64 `json:"below_price_pct"`
	MinVolume       int64   `json:"min_volume"`
	MinOpenInterest int64   `json:"min_open_interest"`
	MinPremium      float64 `json:"min_premium"`
}

// DefaultParams mirrors the stock presets: 51 days out at most, strikes at
// least 10% below spot, minimal liquidity and premium floors.
func DefaultParams() Params {
	return Params{
		MaxDays:         51,
		BelowPricePct:   10.0,
		MinVolume:       5,
		MinOpenInterest: 5,
		MinPremium:      0.05,
	}
}

// Result is the outcome for a single ticker. Err is set when the fetch
// failed; the scan carries on with the remaining tickers either way.
type Result struct {
	Ticker  string            `json:"ticker"`
	Quote   *marketdata.Quote `json:"quote,omitempty"`
	Records []roi.Record      `json:"records,omitempty"`
	Summary roi.Summary       `json:"summary"`
	Err     *marketdata.Error `json:"error,omitempty"`
}

// Normalize uppercases, dedupes and sorts a ticker list.
func Normalize(tickers []string) []string {
	if len(tickers) == 0 {
		return []string{}
	}
	seen := map[string]bool{}
	var out []string
	for _, t := range tickers {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Run scans each ticker in order: quote, then put chain, then the ROI
// pipeline and preset filters. Tickers are fetched one at a time; a failed
// ticker is recorded and the scan moves on.
func Run(ctx context.Context, f *marketdata.Fetcher, tickers []string, p Params, showProgress bool) []Result {
	tickers = Normalize(tickers)
	var bar *progressbar.ProgressBar
	if showProgress {
		bar = progressBar(len(tickers))
	}

	now := time.Now()
	results := make([]Result, 0, len(tickers))
	for _, ticker := range tickers {
		if bar != nil {
			bar.Describe("Scanning " + ticker)
		}
		results = append(results, scanTicker(ctx, f, ticker, p, bar, now))
		if bar != nil {
			bar.Add(1)
		}
	}
	return results
}

func scanTicker(ctx context.Context, f *marketdata.Fetcher, ticker string, p Params, bar *progressbar.ProgressBar, now time.Time) Result {
	progress := progressSink(bar)

	quote, err := f.Quote(ctx, ticker, progress)
	if err != nil {
		return Result{Ticker: ticker, Err: asError(err)}
	}

	chain, err := f.Chain(ctx, ticker, marketdata.Put, progress)
	if err != nil {
		return Result{Ticker: ticker, Quote: quote, Err: asError(err)}
	}

	records := Filter(roi.Process(quote.CurrentPrice, chain, now), quote.CurrentPrice, p)
	return Result{
		Ticker:  ticker,
		Quote:   quote,
		Records: records,
		Summary: roi.Summarize(records),
	}
}

// Filter applies the preset thresholds and sorts by annualized ROI
// descending. Ranking is a presentation choice layered on top of the
// pipeline, which itself preserves input order.
func Filter(records []roi.Record, currentPrice float64, p Params) []roi.Record {
	maxStrike := currentPrice * (1 - p.BelowPricePct/100)
	var out []roi.Record
	for _, r := range records {
		if r.StrikePrice > maxStrike {
			continue
		}
		if p.MaxDays > 0 && r.DaysToExpiry > p.MaxDays {
			continue
		}
		if r.Volume < p.MinVolume || r.OpenInterest < p.MinOpenInterest {
			continue
		}
		if r.Premium < p.MinPremium {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AnnualizedROI > out[j].AnnualizedROI })
	return out
}

// progressSink bridges fetcher retry updates into the bar description.
func progressSink(bar *progressbar.ProgressBar) marketdata.ProgressFunc {
	if bar == nil {
		return nil
	}
	return func(u marketdata.ProgressUpdate) {
		bar.Describe(u.Message)
	}
}

func asError(err error) *marketdata.Error {
	if e, ok := err.(*marketdata.Error); ok {
		return e
	}
	return &marketdata.Error{Kind: marketdata.Transient, Message: err.Error()}
}

// progress bar initialization
func progressBar(length int) *progressbar.ProgressBar {
	bar := progressbar.NewOptions(
		length,
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(20),
		progressbar.OptionSetVisibility(true),
		progressbar.OptionShowDescriptionAtLineEnd(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
	return bar
}
