package market

import (
	"sort"
	"time"
)

const maxHistoryPoints = 14400

// PricePoint is one recorded observation of a coin's price.
type PricePoint struct {
	Price     float64   `json:"price"`
	Timestamp time.Time `json:"timestamp"`
	Volume    float64   `json:"volume"`
}

// Candle is an OHLCV aggregate over one timeframe bucket. Candles are
// derived on demand and never persisted.
type Candle struct {
	CoinID    string    `json:"coinId"`
	Timeframe string    `json:"timeframe"`
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// History records per-coin price points and aggregates them into candles.
// It is not safe for concurrent use; the engine serializes access.
type History struct {
	points map[string][]PricePoint
}

func NewHistory() *History {
	return &History{points: make(map[string][]PricePoint)}
}

// RecordPrice appends a point for coinID, truncating the oldest entries
// once the cap is exceeded.
func (h *History) RecordPrice(coinID string, price, volume float64, at time.Time) {
	pts := append(h.points[coinID], PricePoint{Price: price, Timestamp: at, Volume: volume})
	if len(pts) > maxHistoryPoints {
		pts = pts[len(pts)-maxHistoryPoints:]
	}
	h.points[coinID] = pts
}

// Points returns the recorded points for coinID in insertion order.
func (h *History) Points(coinID string) []PricePoint {
	return h.points[coinID]
}

func timeframeMinutes(timeframe string) int {
	switch timeframe {
	case "1m":
		return 1
	case "5m":
		return 5
	case "15m":
		return 15
	case "30m":
		return 30
	case "1h":
		return 60
	case "4h":
		return 240
	case "1d":
		return 1440
	case "1w":
		return 10080
	default:
		return 1
	}
}

// GetPriceHistory returns exactly min(limit,100) candles for coinID,
// oldest first. Buckets walk backward from the newest recorded point
// (or now, if the coin has no history); empty buckets get a flat candle
// at the most recent earlier price, or 1.0 when no data exists at all.
func (h *History) GetPriceHistory(coinID, timeframe string, limit int, now time.Time) []Candle {
	raw := h.points[coinID]

	if limit <= 0 {
		limit = 60
	}
	if limit > 100 {
		limit = 100
	}

	interval := time.Duration(timeframeMinutes(timeframe)) * time.Minute

	// Newest first.
	sorted := make([]PricePoint, len(raw))
	copy(sorted, raw)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})

	latest := now
	if len(sorted) > 0 {
		latest = sorted[0].Timestamp
	}

	results := make([]Candle, 0, limit)
	for i := 0; i < limit; i++ {
		endTime := latest.Add(-time.Duration(i) * interval)
		startTime := endTime.Add(-interval)

		var bucket []PricePoint
		for _, p := range sorted {
			if !p.Timestamp.Before(startTime) && p.Timestamp.Before(endTime) {
				bucket = append(bucket, p)
			}
		}

		var candle Candle
		if len(bucket) > 0 {
			// bucket is newest-first; flip to chronological.
			for l, r := 0, len(bucket)-1; l < r; l, r = l+1, r-1 {
				bucket[l], bucket[r] = bucket[r], bucket[l]
			}

			open := bucket[0].Price
			last := bucket[len(bucket)-1].Price
			high, low, volume := open, open, 0.0
			for _, p := range bucket {
				if p.Price > high {
					high = p.Price
				}
				if p.Price < low {
					low = p.Price
				}
				volume += p.Volume
			}
			candle = Candle{
				CoinID:    coinID,
				Timeframe: timeframe,
				Timestamp: startTime,
				Open:      open,
				High:      high,
				Low:       low,
				Close:     last,
				Volume:    volume,
			}
		} else {
			fallback := 1.0
			if len(sorted) > 0 {
				fallback = sorted[len(sorted)-1].Price
				for _, p := range sorted {
					if !p.Timestamp.After(endTime) {
						fallback = p.Price
						break
					}
				}
			}
			candle = Candle{
				CoinID:    coinID,
				Timeframe: timeframe,
				Timestamp: startTime,
				Open:      fallback,
				High:      fallback,
				Low:       fallback,
				Close:     fallback,
				Volume:    0,
			}
		}

		// Prepend so output stays oldest-first.
		results = append([]Candle{candle}, results...)
	}

	return results
}
