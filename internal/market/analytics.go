package market

import (
	"math"
	"sort"
	"time"
)

// CoinMover is one entry in a gainers/losers list.
type CoinMover struct {
	CoinID   string  `json:"coinId"`
	Change24 float64 `json:"change24h"`
	Price    float64 `json:"price"`
}

// CoinActivity is one entry in the most-active list.
type CoinActivity struct {
	CoinID   string  `json:"coinId"`
	Volume24 float64 `json:"volume24h"`
	Trades   int     `json:"trades"`
}

// Analytics is the derived market-wide snapshot.
type Analytics struct {
	TotalMarketCap    float64                       `json:"totalMarketCap"`
	TotalVolume24h    float64                       `json:"totalVolume24h"`
	MarketSentiment   string                        `json:"marketSentiment"`
	TopGainers        []CoinMover                   `json:"topGainers"`
	TopLosers         []CoinMover                   `json:"topLosers"`
	MostActive        []CoinActivity                `json:"mostActive"`
	VolatilityIndex   float64                       `json:"volatilityIndex"`
	CorrelationMatrix map[string]map[string]float64 `json:"correlationMatrix"`
}

// AnalyticsEngine recomputes derived market statistics on demand and
// keeps the latest snapshot.
type AnalyticsEngine struct {
	latest Analytics
}

func NewAnalyticsEngine() *AnalyticsEngine {
	return &AnalyticsEngine{latest: Analytics{MarketSentiment: "neutral"}}
}

// Latest returns the most recently computed snapshot.
func (a *AnalyticsEngine) Latest() Analytics {
	return a.latest
}

// Compute recalculates the full snapshot from the current coins, price
// history and recent trades.
func (a *AnalyticsEngine) Compute(coins map[string]*Coin, history *History, trades []Trade, now time.Time) Analytics {
	type coinStats struct {
		coinID     string
		price      float64
		marketCap  float64
		volume24h  float64
		change24h  float64
		volatility float64
		trades     int
	}

	stats := make([]coinStats, 0, len(coins))
	var totalMarketCap, totalVolume, totalVolatility float64

	logReturns := make(map[string][]float64, len(coins))

	for coinID, coin := range coins {
		points := history.Points(coinID)

		// 100 points back stands in for "24h ago".
		change24h := 0.0
		if len(points) > 100 {
			old := points[len(points)-100].Price
			change24h = (coin.Price - old) / old * 100
		}

		recent := points
		if len(recent) > 100 {
			recent = recent[len(recent)-100:]
		}
		volume24h := 0.0
		for _, p := range recent {
			volume24h += p.Volume
		}

		// Liquidity x 1000 stands in for circulating supply.
		marketCap := coin.Price * coin.Liquidity * 1000

		returns := make([]float64, 0, len(recent))
		for i := 1; i < len(recent); i++ {
			returns = append(returns, math.Log(recent[i].Price/recent[i-1].Price))
		}
		logReturns[coinID] = returns

		volatility := 0.0
		if len(recent) > 10 {
			volatility = stdev(returns) * math.Sqrt(252)
		}

		tradeCount := 0
		for _, t := range trades {
			if t.CoinID == coinID && now.Sub(t.Timestamp) < 24*time.Hour {
				tradeCount++
			}
		}

		stats = append(stats, coinStats{
			coinID:     coinID,
			price:      coin.Price,
			marketCap:  marketCap,
			volume24h:  volume24h,
			change24h:  change24h,
			volatility: volatility,
			trades:     tradeCount,
		})

		totalMarketCap += marketCap
		totalVolume += volume24h
		totalVolatility += volatility
	}

	if len(stats) == 0 {
		a.latest = Analytics{MarketSentiment: "neutral"}
		return a.latest
	}

	avgChange := 0.0
	for _, s := range stats {
		avgChange += s.change24h
	}
	avgChange /= float64(len(stats))

	sentiment := "neutral"
	switch {
	case avgChange > 10:
		sentiment = "extreme_greed"
	case avgChange > 3:
		sentiment = "greed"
	case avgChange < -10:
		sentiment = "extreme_fear"
	case avgChange < -3:
		sentiment = "fear"
	}

	byChange := make([]coinStats, len(stats))
	copy(byChange, stats)
	sort.Slice(byChange, func(i, j int) bool { return byChange[i].change24h > byChange[j].change24h })

	top := 5
	if top > len(byChange) {
		top = len(byChange)
	}
	gainers := make([]CoinMover, 0, top)
	for _, s := range byChange[:top] {
		gainers = append(gainers, CoinMover{CoinID: s.coinID, Change24: s.change24h, Price: s.price})
	}
	losers := make([]CoinMover, 0, top)
	for i := len(byChange) - 1; i >= len(byChange)-top; i-- {
		s := byChange[i]
		losers = append(losers, CoinMover{CoinID: s.coinID, Change24: s.change24h, Price: s.price})
	}

	byVolume := make([]coinStats, len(stats))
	copy(byVolume, stats)
	sort.Slice(byVolume, func(i, j int) bool { return byVolume[i].volume24h > byVolume[j].volume24h })
	active := make([]CoinActivity, 0, top)
	for _, s := range byVolume[:top] {
		active = append(active, CoinActivity{CoinID: s.coinID, Volume24: s.volume24h, Trades: s.trades})
	}

	// Pairwise Pearson correlation of log returns over the shared
	// trailing window.
	matrix := make(map[string]map[string]float64, len(stats))
	for _, s1 := range stats {
		matrix[s1.coinID] = make(map[string]float64, len(stats))
		for _, s2 := range stats {
			if s1.coinID == s2.coinID {
				matrix[s1.coinID][s2.coinID] = 1.0
				continue
			}
			matrix[s1.coinID][s2.coinID] = correlate(logReturns[s1.coinID], logReturns[s2.coinID])
		}
	}

	a.latest = Analytics{
		TotalMarketCap:    totalMarketCap,
		TotalVolume24h:    totalVolume,
		MarketSentiment:   sentiment,
		TopGainers:        gainers,
		TopLosers:         losers,
		MostActive:        active,
		VolatilityIndex:   totalVolatility / float64(len(stats)),
		CorrelationMatrix: matrix,
	}
	return a.latest
}

func stdev(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range vals {
		mean += v
	}
	mean /= float64(len(vals))

	variance := 0.0
	for _, v := range vals {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(vals))
	return math.Sqrt(variance)
}

// correlate computes the Pearson correlation of the overlapping tails
// of a and b. Degenerate series (too short, or zero variance) yield 0.
func correlate(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n < 2 {
		return 0
	}
	a = a[len(a)-n:]
	b = b[len(b)-n:]

	meanA, meanB := 0.0, 0.0
	for i := 0; i < n; i++ {
		meanA += a[i]
		meanB += b[i]
	}
	meanA /= float64(n)
	meanB /= float64(n)

	var cov, varA, varB float64
	for i := 0; i < n; i++ {
		da := a[i] - meanA
		db := b[i] - meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}
	if varA == 0 || varB == 0 {
		return 0
	}
	return cov / math.Sqrt(varA*varB)
}
