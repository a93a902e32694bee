package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/banachtech/optionsroi/marketdata"
	"github.com/banachtech/optionsroi/roi"
	"github.com/banachtech/optionsroi/scan"
	"github.com/gin-gonic/gin"
)

type optionsPayload struct {
	Quote   *marketdata.Quote `json:"quote"`
	Records []roi.Record      `json:"records"`
	Summary roi.Summary       `json:"summary"`
}

func (server *Server) quote(c *gin.Context) {
	symbol := strings.ToUpper(c.Param("symbol"))

	if cached, ok := server.cache.Get(quoteKey(symbol)); ok {
		c.JSON(http.StatusOK, cached.(*marketdata.Quote))
		return
	}

	quote, err := server.fetcher.Quote(c.Request.Context(), symbol, nil)
	if err != nil {
		abortFetchError(c, err)
		return
	}
	server.cache.SetDefault(quoteKey(symbol), quote)

	c.JSON(http.StatusOK, quote)
}

func (server *Server) options(c *gin.Context) {
	symbol := strings.ToUpper(c.Param("symbol"))
	optionType, ok := marketdata.ParseOptionType(c.Query("type"))
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"status": http.StatusBadRequest, "msg": fmt.Sprintf("unknown option type %q, use call, put or both", c.Query("type"))})
		return
	}

	key := optionsKey(symbol, optionType)
	if cached, ok := server.cache.Get(key); ok {
		c.JSON(http.StatusOK, cached.(*optionsPayload))
		return
	}

	ctx := c.Request.Context()
	quote, err := server.fetcher.Quote(ctx, symbol, nil)
	if err != nil {
		abortFetchError(c, err)
		return
	}

	chain, err := server.fetcher.Chain(ctx, symbol, optionType, nil)
	if err != nil {
		abortFetchError(c, err)
		return
	}

	records := roi.Process(quote.CurrentPrice, chain, time.Now())
	payload := &optionsPayload{
		Quote:   quote,
		Records: records,
		Summary: roi.Summarize(records),
	}
	server.cache.SetDefault(key, payload)

	c.JSON(http.StatusOK, payload)
}

type scanRequest struct {
	Tickers []string     `json:"tickers"`
	Filters *scan.Params `json:"filters"`
}

func (server *Server) scan(c *gin.Context) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	if len(req.Tickers) == 0 {
		req.Tickers = scan.DefaultTickers
	}
	params := scan.DefaultParams()
	if req.Filters != nil {
		params = *req.Filters
	}

	results := scan.Run(c.Request.Context(), server.fetcher, req.Tickers, params, false)
	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "results": results})
}

func quoteKey(symbol string) string {
	return "quote|" + symbol
}

func optionsKey(symbol string, optionType marketdata.OptionType) string {
	return symbol + "|" + string(optionType)
}

// abortFetchError maps fetch error kinds onto HTTP statuses and attaches a
// suggested next step to the response.
func abortFetchError(c *gin.Context, err error) {
	ferr, ok := err.(*marketdata.Error)
	if !ok {
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	status := http.StatusBadGateway
	suggestion := "try again, or try a different symbol"
	switch ferr.Kind {
	case marketdata.NotFound, marketdata.NoData:
		status = http.StatusNotFound
		suggestion = "check the ticker symbol and try again"
	case marketdata.RateLimited, marketdata.Exhausted:
		status = http.StatusTooManyRequests
		suggestion = "the data provider is throttling requests, wait a few minutes and retry"
	case marketdata.MissingField:
		suggestion = "the provider returned incomplete data, retry later"
	}

	c.AbortWithStatusJSON(status, gin.H{
		"status":     status,
		"msg":        ferr.Message,
		"details":    ferr.Details,
		"suggestion": suggestion,
	})
}
