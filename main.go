package main

import (
	"context"
	"fmt"
	"os"

	"github.com/banachtech/optionsroi/api"
	"github.com/banachtech/optionsroi/marketdata"
	"github.com/banachtech/optionsroi/scan"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	fetcher := marketdata.NewFetcher(marketdata.NewYahooProvider())

	if len(os.Args) > 1 && os.Args[1] == "serve" {
		addr := os.Getenv("LISTEN_ADDR")
		if addr == "" {
			addr = ":8080"
		}
		server := api.NewServer(fetcher)
		if err := server.Start(addr); err != nil {
			fmt.Println(err)
			os.Exit(-1)
		}
		return
	}

	results := scan.Run(context.Background(), fetcher, scan.DefaultTickers, scan.DefaultParams(), true)
	for _, res := range results {
		if res.Err != nil {
			fmt.Printf("%-6s %s\n", res.Ticker, res.Err.Message)
			continue
		}
		fmt.Printf("%-6s %s @ %.2f %s | %d candidate(s), best ROI %.2f%%\n",
			res.Ticker, res.Quote.Name, res.Quote.CurrentPrice, res.Quote.Currency, res.Summary.Count, res.Summary.Max)
		for i, r := range res.Records {
			if i == 5 {
				break
			}
			fmt.Printf("       strike %8.2f  exp %s (%3dd)  premium %6.2f  roi %7.2f%%  iv %6.1f%%\n",
				r.StrikePrice, r.ExpiryDate, r.DaysToExpiry, r.Premium, r.AnnualizedROI, r.ImpliedVolPercent)
		}
	}
}
