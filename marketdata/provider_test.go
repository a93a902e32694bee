package marketdata

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// 2030-01-01 and 2030-02-01 UTC
const (
	exp1 = 1893456000
	exp2 = 1896134400
)

func yahooFixture(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v7/finance/options/AAPL", r.URL.Path)

		if r.URL.Query().Get("date") != "" {
			fmt.Fprintf(w, `{"optionChain":{"result":[{
				"quote":{"longName":"Apple Inc.","currency":"USD","marketCap":3000000000000,"regularMarketPrice":190.5},
				"expirationDates":[%d,%d],
				"options":[{"expirationDate":%d,
					"calls":[{"strike":195,"lastPrice":2.5,"bid":2.4,"ask":2.6,"volume":150,"openInterest":900,"impliedVolatility":0.28}],
					"puts":[{"strike":185,"lastPrice":1.9,"bid":null,"ask":2.0,"volume":80,"openInterest":400,"impliedVolatility":0.31}]
				}]}]}}`, exp1, exp2, exp1)
			return
		}

		fmt.Fprintf(w, `{"optionChain":{"result":[{
			"quote":{"longName":"Apple Inc.","currency":"USD","marketCap":3000000000000,"regularMarketPrice":190.5,"previousClose":189.0},
			"expirationDates":[%d,%d],
			"options":[]}]}}`, exp1, exp2)
	}
}

func newTestProvider(url string) *YahooProvider {
	return &YahooProvider{
		client:  &http.Client{Timeout: time.Second},
		baseURL: url,
	}
}

func TestYahooProviderInfo(t *testing.T) {
	srv := httptest.NewServer(yahooFixture(t))
	defer srv.Close()

	provider := newTestProvider(srv.URL)
	info, err := provider.Info(context.Background(), "AAPL")
	require.NoError(t, err)
	require.NotNil(t, info)
	require.Equal(t, "Apple Inc.", info.LongName)
	require.Equal(t, "USD", info.Currency)
	require.NotNil(t, info.RegularMarketPrice)
	require.Equal(t, 190.5, *info.RegularMarketPrice)
	require.NotNil(t, info.PreviousClose)
	require.Nil(t, info.CurrentPrice)
}

func TestYahooProviderExpirations(t *testing.T) {
	srv := httptest.NewServer(yahooFixture(t))
	defer srv.Close()

	provider := newTestProvider(srv.URL)
	dates, err := provider.Expirations(context.Background(), "AAPL")
	require.NoError(t, err)
	require.Equal(t, []string{"2030-01-01", "2030-02-01"}, dates)
}

func TestYahooProviderChain(t *testing.T) {
	srv := httptest.NewServer(yahooFixture(t))
	defer srv.Close()

	provider := newTestProvider(srv.URL)
	page, err := provider.Chain(context.Background(), "AAPL", "2030-01-01")
	require.NoError(t, err)
	require.Len(t, page.Calls, 1)
	require.Len(t, page.Puts, 1)

	call := page.Calls[0]
	require.Equal(t, 195.0, *call.Strike)
	require.Equal(t, int64(900), *call.OpenInterest)

	// null bid decodes to a nil pointer, not zero
	put := page.Puts[0]
	require.Nil(t, put.Bid)
	require.Equal(t, 2.0, *put.Ask)
}

func TestYahooProviderChainBadDate(t *testing.T) {
	provider := newTestProvider("http://127.0.0.1:0")
	_, err := provider.Chain(context.Background(), "AAPL", "01/04/2030")
	require.Error(t, err)
}

func TestYahooProviderUnknownSymbol(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"optionChain":{"result":[]}}`)
	}))
	defer srv.Close()

	provider := newTestProvider(srv.URL)
	info, err := provider.Info(context.Background(), "NOPE")
	require.NoError(t, err)
	require.Nil(t, info)
}

func TestYahooProviderRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	provider := newTestProvider(srv.URL)
	_, err := provider.Info(context.Background(), "AAPL")
	require.Error(t, err)
	require.Contains(t, err.Error(), "status 429 Too Many Requests")

	// the error text is what the classifier keys off
	ferr := classify("AAPL", err)
	require.Equal(t, RateLimited, ferr.Kind)
	require.Equal(t, "429", ferr.HTTPStatus)
}
