package market

import (
	"fmt"
	"math"
	"testing"
	"time"
)

func TestCorrelate(t *testing.T) {
	up := []float64{0.01, 0.02, -0.01, 0.03, 0.005}
	down := make([]float64, len(up))
	for i, v := range up {
		down[i] = -v
	}

	if got := correlate(up, up); math.Abs(got-1.0) > 1e-9 {
		t.Fatalf("identical series should correlate 1.0, got %v", got)
	}
	if got := correlate(up, down); math.Abs(got+1.0) > 1e-9 {
		t.Fatalf("mirrored series should correlate -1.0, got %v", got)
	}

	flat := []float64{0.01, 0.01, 0.01, 0.01, 0.01}
	if got := correlate(up, flat); got != 0 {
		t.Fatalf("zero-variance series should correlate 0, got %v", got)
	}
	if got := correlate([]float64{0.01}, up); got != 0 {
		t.Fatalf("too-short series should correlate 0, got %v", got)
	}

	// Different lengths line up on the shared tail.
	longer := append([]float64{0.5, -0.5, 0.25}, up...)
	if got := correlate(longer, up); math.Abs(got-1.0) > 1e-9 {
		t.Fatalf("tail-aligned series should correlate 1.0, got %v", got)
	}
}

func TestComputeEmptyMarket(t *testing.T) {
	a := NewAnalyticsEngine()
	got := a.Compute(map[string]*Coin{}, NewHistory(), nil, time.Now())
	if got.MarketSentiment != "neutral" {
		t.Fatalf("empty market should read neutral, got %q", got.MarketSentiment)
	}
	if got.TotalMarketCap != 0 {
		t.Fatalf("empty market cap should be 0, got %v", got.TotalMarketCap)
	}
}

func TestComputeSentimentBuckets(t *testing.T) {
	cases := []struct {
		change float64
		want   string
	}{
		{15, "extreme_greed"},
		{5, "greed"},
		{0, "neutral"},
		{-5, "fear"},
		{-15, "extreme_fear"},
	}

	for _, c := range cases {
		a := NewAnalyticsEngine()
		h := NewHistory()
		now := time.Now()

		// 101 history points so the 100-back change is defined; flat at
		// 1.0, with the live price setting the change.
		for i := 0; i < 101; i++ {
			h.RecordPrice("RCOIN", 1.0, 1.0, now.Add(time.Duration(i-101)*time.Second))
		}
		coins := map[string]*Coin{
			"RCOIN": {ID: "RCOIN", Price: 1.0 + c.change/100, Liquidity: 1000},
		}

		got := a.Compute(coins, h, nil, now)
		if got.MarketSentiment != c.want {
			t.Fatalf("change %+.0f%%: expected %q, got %q", c.change, c.want, got.MarketSentiment)
		}
		t.Logf("change %+.0f%% -> %s", c.change, got.MarketSentiment)
	}
}

func TestComputeAggregates(t *testing.T) {
	a := NewAnalyticsEngine()
	h := NewHistory()
	now := time.Now()

	coins := map[string]*Coin{
		"A": {ID: "A", Price: 2.0, Liquidity: 1000},
		"B": {ID: "B", Price: 1.0, Liquidity: 500},
	}
	for i := 0; i < 20; i++ {
		at := now.Add(time.Duration(i-20) * time.Second)
		h.RecordPrice("A", 2.0, 3.0, at)
		h.RecordPrice("B", 1.0, 1.0, at)
	}

	trades := []Trade{
		{CoinID: "A", Timestamp: now.Add(-time.Hour)},
		{CoinID: "A", Timestamp: now.Add(-2 * time.Hour)},
		{CoinID: "A", Timestamp: now.Add(-30 * time.Hour)}, // stale
		{CoinID: "B", Timestamp: now.Add(-time.Minute)},
	}

	got := a.Compute(coins, h, trades, now)

	// Market cap: price x liquidity x 1000 per coin.
	wantCap := 2.0*1000*1000 + 1.0*500*1000
	if math.Abs(got.TotalMarketCap-wantCap) > 1e-6 {
		t.Fatalf("expected market cap %v, got %v", wantCap, got.TotalMarketCap)
	}
	if math.Abs(got.TotalVolume24h-80) > 1e-9 {
		t.Fatalf("expected volume 80, got %v", got.TotalVolume24h)
	}

	if len(got.TopGainers) != 2 || len(got.TopLosers) != 2 || len(got.MostActive) != 2 {
		t.Fatalf("top lists sized wrong: %d/%d/%d", len(got.TopGainers), len(got.TopLosers), len(got.MostActive))
	}
	if got.MostActive[0].CoinID != "A" {
		t.Fatalf("A has triple B's volume, expected it most active, got %q", got.MostActive[0].CoinID)
	}
	if got.MostActive[0].Trades != 2 {
		t.Fatalf("expected 2 fresh trades for A, got %d", got.MostActive[0].Trades)
	}

	// Matrix covers every pair, diagonal pinned at 1.
	for _, id := range []string{"A", "B"} {
		row, ok := got.CorrelationMatrix[id]
		if !ok || len(row) != 2 {
			t.Fatalf("correlation row for %s missing or short: %v", id, row)
		}
		if row[id] != 1.0 {
			t.Fatalf("diagonal for %s should be 1.0, got %v", id, row[id])
		}
	}
	if got.CorrelationMatrix["A"]["B"] != got.CorrelationMatrix["B"]["A"] {
		t.Fatal("correlation matrix not symmetric")
	}

	if a.Latest().TotalMarketCap != got.TotalMarketCap {
		t.Fatal("Latest() does not reflect the last Compute")
	}
}

func TestComputeTopListsCapAtFive(t *testing.T) {
	a := NewAnalyticsEngine()
	h := NewHistory()
	now := time.Now()

	coins := make(map[string]*Coin, 8)
	for i := 0; i < 8; i++ {
		id := fmt.Sprintf("C%d", i)
		coins[id] = &Coin{ID: id, Price: float64(i + 1), Liquidity: 1000}
	}

	got := a.Compute(coins, h, nil, now)
	if len(got.TopGainers) != 5 || len(got.TopLosers) != 5 || len(got.MostActive) != 5 {
		t.Fatalf("top lists should cap at 5: %d/%d/%d", len(got.TopGainers), len(got.TopLosers), len(got.MostActive))
	}
}
