package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const Layout = "2006-01-02"

// Provider supplies raw quote and options-chain records for a ticker symbol.
// Implementations report failures as plain errors; the Fetcher turns them
// into the structured taxonomy.
type Provider interface {
	// Info returns the provider's quote record, or (nil, nil) when the
	// provider knows nothing about the symbol.
	Info(ctx context.Context, symbol string) (*Info, error)
	// Expirations lists the available expiration dates as ISO dates.
	Expirations(ctx context.Context, symbol string) ([]string, error)
	// Chain returns the call and put tables for one expiration date.
	Chain(ctx context.Context, symbol, expiry string) (*ChainPage, error)
}

const defaultBaseURL = "https://query2.finance.yahoo.com"

// YahooProvider speaks the yahoo finance v7 options endpoints.
type YahooProvider struct {
	client  *http.Client
	baseURL string
}

// NewYahooProvider creates a provider against yahoo finance. The base URL can
// be overridden with YAHOO_BASE_URL in the environment or a .env file.
func NewYahooProvider() *YahooProvider {
	_ = godotenv.Load()
	base := os.Getenv("YAHOO_BASE_URL")
	if base == "" {
		base = defaultBaseURL
	}
	return &YahooProvider{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: base,
	}
}

type optionsResponse struct {
	OptionChain struct {
		Result []chainResult `json:"result"`
	} `json:"optionChain"`
}

type chainResult struct {
	Quote           Info    `json:"quote"`
	ExpirationDates []int64 `json:"expirationDates"`
	Options         []struct {
		ExpirationDate int64         `json:"expirationDate"`
		Calls          []RawContract `json:"calls"`
		Puts           []RawContract `json:"puts"`
	} `json:"options"`
}

func (p *YahooProvider) Info(ctx context.Context, symbol string) (*Info, error) {
	res, err := p.options(ctx, symbol, "")
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, nil
	}
	quote := res.Quote
	return &quote, nil
}

func (p *YahooProvider) Expirations(ctx context.Context, symbol string) ([]string, error) {
	res, err := p.options(ctx, symbol, "")
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, nil
	}
	dates := make([]string, 0, len(res.ExpirationDates))
	for _, ts := range res.ExpirationDates {
		dates = append(dates, time.Unix(ts, 0).UTC().Format(Layout))
	}
	return dates, nil
}

func (p *YahooProvider) Chain(ctx context.Context, symbol, expiry string) (*ChainPage, error) {
	d, err := time.Parse(Layout, expiry)
	if err != nil {
		return nil, fmt.Errorf("invalid expiration date %q: %w", expiry, err)
	}
	res, err := p.options(ctx, symbol, fmt.Sprintf("?date=%d", d.Unix()))
	if err != nil {
		return nil, err
	}
	if res == nil || len(res.Options) == 0 {
		return &ChainPage{}, nil
	}
	return &ChainPage{Calls: res.Options[0].Calls, Puts: res.Options[0].Puts}, nil
}

// options fetches the v7 options payload, which carries the quote, the
// expiration list and (when a date is given) one chain page.
func (p *YahooProvider) options(ctx context.Context, symbol, query string) (*chainResult, error) {
	url := fmt.Sprintf("%s/v7/finance/options/%s%s", p.baseURL, symbol, query)
	out, err := get(ctx, p.client, url, optionsResponse{})
	if err != nil {
		return nil, err
	}
	if len(out.OptionChain.Result) == 0 {
		return nil, nil
	}
	return &out.OptionChain.Result[0], nil
}

// helper function to get the http request and store into struct
func get[DataType optionsResponse](ctx context.Context, client *http.Client, url string, target DataType) (result DataType, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return target, err
	}
	req.Header.Set("User-Agent", "optionsroi/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return target, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return target, fmt.Errorf("request %s failed with status %d %s", url, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	err = json.NewDecoder(resp.Body).Decode(&target)
	if err != nil {
		return
	}
	result = target
	return result, nil
}
