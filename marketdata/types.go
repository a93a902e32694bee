package marketdata

// OptionType selects which side of the chain a caller is interested in.
type OptionType string

const (
	Call OptionType = "CALL"
	Put  OptionType = "PUT"
	Both OptionType = "BOTH"
)

// ParseOptionType maps the user-facing call/put/both strings to an OptionType.
func ParseOptionType(s string) (OptionType, bool) {
	switch s {
	case "call", "CALL":
		return Call, true
	case "put", "PUT":
		return Put, true
	case "both", "BOTH", "":
		return Both, true
	}
	return "", false
}

// Quote is a snapshot of a ticker's tradable state. Built fresh per fetch,
// never mutated afterwards.
type Quote struct {
	Name         string  `json:"name"`
	CurrentPrice float64 `json:"current_price"`
	Currency     string  `json:"currency"`
	MarketCap    float64 `json:"market_cap"`
}

// OptionContract is one listed option row, tagged with its side and
// expiration date. Rows missing strike, last price, bid or ask are dropped
// at fetch time and never reach this type.
type OptionContract struct {
	Strike            float64    `json:"strike"`
	Type              OptionType `json:"option_type"`
	Expiration        string     `json:"expiration"`
	Bid               float64    `json:"bid"`
	Ask               float64    `json:"ask"`
	LastPrice         float64    `json:"last_price"`
	Volume            int64      `json:"volume"`
	OpenInterest      int64      `json:"open_interest"`
	ImpliedVolatility float64    `json:"implied_volatility"`
}

// Info is the raw quote record as the provider returns it. Optional fields
// are pointers so absence is distinguishable from zero.
type Info struct {
	LongName           string   `json:"longName"`
	Currency           string   `json:"currency"`
	MarketCap          float64  `json:"marketCap"`
	RegularMarketPrice *float64 `json:"regularMarketPrice"`
	CurrentPrice       *float64 `json:"currentPrice"`
	PreviousClose      *float64 `json:"previousClose"`
}

// RawContract is one option row as the provider returns it, before any
// validation.
type RawContract struct {
	Strike            *float64 `json:"strike"`
	LastPrice         *float64 `json:"lastPrice"`
	Bid               *float64 `json:"bid"`
	Ask               *float64 `json:"ask"`
	Volume            *int64   `json:"volume"`
	OpenInterest      *int64   `json:"openInterest"`
	ImpliedVolatility *float64 `json:"impliedVolatility"`
}

// ChainPage is the option tables for a single expiration date.
type ChainPage struct {
	Calls []RawContract `json:"calls"`
	Puts  []RawContract `json:"puts"`
}
