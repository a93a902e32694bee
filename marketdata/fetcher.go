package marketdata

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"
)

const (
	DefaultMaxRetries   = 5
	DefaultInitialDelay = 10 * time.Second
)

// ProgressUpdate is delivered to the progress sink before each retry wait.
// Fraction never reaches 1.0 from the retry loop; full completion belongs to
// the caller.
type ProgressUpdate struct {
	Message          string
	LastErrorSummary string
	LastErrorDetail  string
	Fraction         float64
}

// ProgressFunc receives retry progress. It may be called zero or many times.
type ProgressFunc func(ProgressUpdate)

// Fetcher acquires quotes and options chains from a Provider with bounded
// retry and exponential backoff. Only rate-limit failures are retried; any
// other failure terminates immediately. The last-error state feeding the
// progress sink is scoped to a single call, so concurrent fetches over the
// same Fetcher do not interfere.
type Fetcher struct {
	provider     Provider
	maxRetries   int
	initialDelay time.Duration
	sleep        func(ctx context.Context, d time.Duration) error
}

// Option configures a Fetcher.
type Option func(*Fetcher)

func WithMaxRetries(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxRetries = n
		}
	}
}

func WithInitialDelay(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.initialDelay = d
		}
	}
}

// withSleep replaces the backoff wait, for tests.
func withSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(f *Fetcher) { f.sleep = fn }
}

func NewFetcher(p Provider, opts ...Option) *Fetcher {
	f := &Fetcher{
		provider:     p,
		maxRetries:   DefaultMaxRetries,
		initialDelay: DefaultInitialDelay,
		sleep:        sleepContext,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Quote fetches the current quote for symbol. The returned error, when
// non-nil, is always a *Error carrying the taxonomy kind; no panic or raw
// provider error crosses this boundary.
func (f *Fetcher) Quote(ctx context.Context, symbol string, progress ProgressFunc) (*Quote, error) {
	if symbol == "" {
		return nil, errEmptySymbol()
	}
	var quote *Quote
	ferr := f.withRetry(ctx, symbol, "quote", progress, func() *Error {
		info, err := f.provider.Info(ctx, symbol)
		if err != nil {
			return classify(symbol, err)
		}
		if info == nil {
			return &Error{
				Kind:    NotFound,
				Message: fmt.Sprintf("no data found for %s", symbol),
				Details: "the provider returned no information for this symbol",
			}
		}
		price, ok := resolvePrice(info)
		if !ok {
			return &Error{
				Kind:    MissingField,
				Message: fmt.Sprintf("no price available for %s", symbol),
				Details: "none of regularMarketPrice, currentPrice or previousClose were present",
			}
		}
		quote = &Quote{
			Name:         info.LongName,
			CurrentPrice: price,
			Currency:     info.Currency,
			MarketCap:    info.MarketCap,
		}
		return nil
	})
	if ferr != nil {
		return nil, ferr
	}
	return quote, nil
}

// errEmptySymbol is the only local validation; anything beyond non-emptiness
// is the provider's call.
func errEmptySymbol() *Error {
	return &Error{
		Kind:    NotFound,
		Message: "ticker symbol is empty",
		Details: "a non-empty ticker symbol is required",
	}
}

// resolvePrice walks the ordered price-source candidates.
func resolvePrice(info *Info) (float64, bool) {
	for _, p := range []*float64{info.RegularMarketPrice, info.CurrentPrice, info.PreviousClose} {
		if p != nil && !math.IsNaN(*p) {
			return *p, true
		}
	}
	return 0, false
}

// Chain fetches every expiration date's option tables for symbol and returns
// the concatenated, validated contracts in provider order. The retry policy
// wraps the whole operation; a single bad expiration date is logged and
// skipped, not retried.
func (f *Fetcher) Chain(ctx context.Context, symbol string, optionType OptionType, progress ProgressFunc) ([]OptionContract, error) {
	if symbol == "" {
		return nil, errEmptySymbol()
	}
	var contracts []OptionContract
	ferr := f.withRetry(ctx, symbol, "options chain", progress, func() *Error {
		expirations, err := f.provider.Expirations(ctx, symbol)
		if err != nil {
			return classify(symbol, err)
		}
		if len(expirations) == 0 {
			return &Error{
				Kind:    NoData,
				Message: fmt.Sprintf("no option expirations for %s", symbol),
				Details: "the provider lists no expiration dates for this symbol",
			}
		}

		var raw []taggedContract
		for _, expiry := range expirations {
			page, err := f.provider.Chain(ctx, symbol, expiry)
			if err != nil {
				log.Printf("skipping expiration %s for %s: %v", expiry, symbol, err)
				continue
			}
			if optionType == Call || optionType == Both {
				raw = append(raw, collect(page.Calls, Call, expiry)...)
			}
			if optionType == Put || optionType == Both {
				raw = append(raw, collect(page.Puts, Put, expiry)...)
			}
		}
		if len(raw) == 0 {
			return &Error{
				Kind:    NoData,
				Message: fmt.Sprintf("no options found for %s", symbol),
				Details: "no traded contracts were returned across any expiration date",
			}
		}
		valid := validate(raw)
		if len(valid) == 0 {
			return &Error{
				Kind:    NoData,
				Message: fmt.Sprintf("no valid options for %s after filtering", symbol),
				Details: "every contract was missing strike, last price, bid or ask",
			}
		}
		contracts = valid
		return nil
	})
	if ferr != nil {
		return nil, ferr
	}
	return contracts, nil
}

type taggedContract struct {
	RawContract
	side   OptionType
	expiry string
}

// collect keeps the rows of one table that have a positive last-traded
// price, tagging each with its side and expiration date. Rows that never
// traded are discarded before concatenation.
func collect(rows []RawContract, side OptionType, expiry string) []taggedContract {
	var out []taggedContract
	for _, r := range rows {
		if r.LastPrice == nil || *r.LastPrice <= 0 {
			continue
		}
		out = append(out, taggedContract{RawContract: r, side: side, expiry: expiry})
	}
	return out
}

// validate drops concatenated rows missing any required field and converts
// the survivors to concrete contracts.
func validate(rows []taggedContract) []OptionContract {
	var out []OptionContract
	for _, r := range rows {
		if r.Strike == nil || r.LastPrice == nil || r.Bid == nil || r.Ask == nil {
			continue
		}
		c := OptionContract{
			Strike:     *r.Strike,
			Type:       r.side,
			Expiration: r.expiry,
			Bid:        *r.Bid,
			Ask:        *r.Ask,
			LastPrice:  *r.LastPrice,
		}
		if r.Volume != nil {
			c.Volume = *r.Volume
		}
		if r.OpenInterest != nil {
			c.OpenInterest = *r.OpenInterest
		}
		if r.ImpliedVolatility != nil {
			c.ImpliedVolatility = *r.ImpliedVolatility
		}
		out = append(out, c)
	}
	return out
}

// withRetry runs op up to maxRetries times, backing off exponentially on
// rate-limit failures. The context is honored between attempts and during
// waits, never mid-attempt; with context.Background() the loop runs to
// success or exhaustion.
func (f *Fetcher) withRetry(ctx context.Context, symbol, what string, progress ProgressFunc, op func() *Error) *Error {
	var last *Error
	for attempt := 1; attempt <= f.maxRetries; attempt++ {
		if attempt == 1 {
			emit(progress, ProgressUpdate{
				Message:  fmt.Sprintf("Fetching %s for %s...", what, symbol),
				Fraction: progressFraction(0, f.maxRetries),
			})
		} else {
			delay := f.initialDelay << (attempt - 2)
			emit(progress, ProgressUpdate{
				Message:          fmt.Sprintf("Rate limited, retrying %s for %s in %s (attempt %d/%d)", what, symbol, delay, attempt, f.maxRetries),
				LastErrorSummary: last.Message,
				LastErrorDetail:  last.Details,
				Fraction:         progressFraction(attempt-1, f.maxRetries),
			})
			if err := f.sleep(ctx, delay); err != nil {
				return &Error{
					Kind:       Transient,
					Message:    fmt.Sprintf("fetch of %s for %s cancelled", what, symbol),
					Details:    err.Error(),
					HTTPStatus: last.HTTPStatus,
				}
			}
		}

		last = op()
		if last == nil {
			return nil
		}
		if last.Kind != RateLimited {
			return last
		}
	}
	if last != nil {
		return &Error{
			Kind:       RateLimited,
			Message:    fmt.Sprintf("provider rate limit persisted for %s after %d attempts", symbol, f.maxRetries),
			Details:    fmt.Sprintf("HTTP code %s: %s", last.HTTPStatus, last.Details),
			HTTPStatus: last.HTTPStatus,
		}
	}
	return &Error{
		Kind:    Exhausted,
		Message: fmt.Sprintf("retries exhausted fetching %s for %s", what, symbol),
	}
}

// progressFraction caps below 1.0 so reaching 100% is reserved for actual
// completion.
func progressFraction(done, max int) float64 {
	return math.Min(0.99, float64(done)/float64(max))
}

func emit(progress ProgressFunc, u ProgressUpdate) {
	if progress != nil {
		progress(u)
	}
}
