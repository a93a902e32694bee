package util

import (
	"math/rand"
	"strings"
	"time"

	"github.com/banachtech/optionsroi/marketdata"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

func init() {
	rand.Seed(time.Now().UnixNano())
}

// RandomInt generates a random integer between min and max
func RandomInt(min, max int64) int64 {
	return min + rand.Int63n(max-min+1)
}

// RandomString generates a random string of length n
func RandomString(n int) string {
	var sb strings.Builder
	k := len(alphabet)

	for i := 0; i < n; i++ {
		c := alphabet[rand.Intn(k)]
		sb.WriteByte(c)
	}

	return sb.String()
}

// RandomStock generates a random ticker symbol
func RandomStock() string {
	return strings.ToUpper(RandomString(4))
}

// RandomFloat generates a random float between min and max
func RandomFloat(min, max float64) float64 {
	return min + rand.Float64()*(max-min)
}

// RandomDate generates an ISO date between min and max days from now
func RandomDate(minDays, maxDays int64) string {
	return time.Now().AddDate(0, 0, int(RandomInt(minDays, maxDays))).Format("2006-01-02")
}

// RandomContract generates a random option contract around a spot price,
// for randomized pipeline tests
func RandomContract(spot float64) marketdata.OptionContract {
	side := marketdata.Put
	if rand.Intn(2) == 0 {
		side = marketdata.Call
	}
	bid := RandomFloat(0.01, 10)
	return marketdata.OptionContract{
		Strike:            RandomFloat(0.5*spot, 1.5*spot),
		Type:              side,
		Expiration:        RandomDate(1, 120),
		Bid:               bid,
		Ask:               bid + RandomFloat(0, 0.5),
		LastPrice:         RandomFloat(0.01, 10),
		Volume:            RandomInt(0, 5000),
		OpenInterest:      RandomInt(0, 5000),
		ImpliedVolatility: RandomFloat(0.05, 2.5),
	}
}
