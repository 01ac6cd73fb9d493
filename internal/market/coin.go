package market

import (
	"math"
	"math/rand"
	"time"
)

// Side is the direction of an order or trade.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Coin is one simulated asset. Price moves through trade impact and a
// GBM volatility process; liquidity is consumed by trades and restored
// on a schedule by the engine.
type Coin struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	BaseVol     float64   `json:"baseVol"`
	Liquidity   float64   `json:"liquidity"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// LiquidityRecovery is a pending restoration of consumed liquidity,
// processed by the engine once Due has passed.
type LiquidityRecovery struct {
	CoinID  string
	Amount  float64
	Ceiling float64
	Due     time.Time
}

const (
	baseImpact        = 0.05
	maxValidPrice     = 1e12
	recoveryDelay     = 5 * time.Second
	recoveryFraction  = 0.1
	liquidityFloorPct = 0.5
)

// ApplyPriceImpact moves the price for a market trade of tradeVolume
// (quote units) and consumes liquidity. It returns the new price and,
// when the trade was accepted, a scheduled liquidity recovery.
func (c *Coin) ApplyPriceImpact(tradeVolume float64, side Side, now time.Time) (float64, *LiquidityRecovery) {
	if math.IsNaN(tradeVolume) || math.IsInf(tradeVolume, 0) || tradeVolume <= 0 {
		return c.Price, nil
	}

	liquidityDepth := c.Liquidity
	relativeSize := tradeVolume / liquidityDepth

	// Piecewise impact curve: near-linear for small trades, superlinear
	// once a trade exceeds 10% of depth.
	var impactMultiplier float64
	switch {
	case relativeSize < 0.01:
		impactMultiplier = relativeSize * 0.5
	case relativeSize < 0.1:
		impactMultiplier = relativeSize
	default:
		impactMultiplier = 0.1 + math.Pow(relativeSize-0.1, 1.3)
	}

	direction := 1.0
	if side == SideSell {
		direction = -1.0
	}
	impact := baseImpact * impactMultiplier * direction
	newPrice := c.Price * math.Exp(impact)

	var recovery *LiquidityRecovery
	if !math.IsNaN(newPrice) && !math.IsInf(newPrice, 0) && newPrice > 0 && newPrice < maxValidPrice {
		c.Price = newPrice

		consumption := math.Min(tradeVolume*0.1, liquidityDepth*0.05)
		c.Liquidity = math.Max(liquidityDepth*liquidityFloorPct, liquidityDepth-consumption)
		recovery = &LiquidityRecovery{
			CoinID:  c.ID,
			Amount:  consumption * recoveryFraction,
			Ceiling: liquidityDepth,
			Due:     now.Add(recoveryDelay),
		}
	}

	c.LastUpdated = now
	return c.Price, recovery
}

// AddVolatility advances the price one step of a jump-diffusion GBM with
// weak mean reversion toward 1.0. It returns the estimated trade volume
// implied by the move, for price-history recording.
func (c *Coin) AddVolatility(rng *rand.Rand, now time.Time) float64 {
	const dt = 0.001

	u1 := rng.Float64()
	u2 := rng.Float64()
	z0 := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

	const drift = -0.0001
	diffusion := c.BaseVol * math.Sqrt(dt) * z0
	baseChange := math.Exp((drift-0.5*c.BaseVol*c.BaseVol)*dt + diffusion)

	jumpComponent := 1.0
	if rng.Float64() < 0.002 {
		jumpIntensity := c.BaseVol * 5
		jumpDirection := 1.0
		if rng.Float64() < 0.5 {
			jumpDirection = -1.0
		}
		jumpComponent = 1 + jumpDirection*jumpIntensity*rng.Float64()
	}

	newPrice := c.Price * baseChange * jumpComponent

	const longTermPrice = 1.0
	const reversionStrength = 0.0001
	reversionFactor := 1 - reversionStrength*math.Log(newPrice/longTermPrice)
	newPrice *= reversionFactor

	if !math.IsNaN(newPrice) && !math.IsInf(newPrice, 0) && newPrice > 0.00001 && newPrice < 1e6 {
		c.Price = newPrice
	} else {
		c.Price = math.Max(0.001, math.Min(1000, c.Price))
	}

	c.LastUpdated = now

	priceChange := math.Abs(baseChange*jumpComponent - 1)
	return priceChange * c.Liquidity * 0.1
}

// Sanitize clamps out-of-range fields to safe defaults before persisting.
func (c *Coin) Sanitize() {
	if math.IsNaN(c.Price) || math.IsInf(c.Price, 0) || c.Price <= 0 || c.Price >= maxValidPrice {
		c.Price = 1.0
	}
	if math.IsNaN(c.BaseVol) || math.IsInf(c.BaseVol, 0) || c.BaseVol <= 0 || c.BaseVol >= 1 {
		c.BaseVol = 0.02
	}
	if math.IsNaN(c.Liquidity) || math.IsInf(c.Liquidity, 0) || c.Liquidity <= 0 || c.Liquidity >= 1e9 {
		c.Liquidity = 1000
	}
}
