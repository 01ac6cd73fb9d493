package market

import "time"

// OrderType distinguishes immediately-executed market orders from
// resting limit orders.
type OrderType string

const (
	OrderMarket OrderType = "market"
	OrderLimit  OrderType = "limit"
)

// OrderStatus tracks an order's lifecycle.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderFilled    OrderStatus = "filled"
	OrderCancelled OrderStatus = "cancelled"
)

// Order is a user's buy or sell request. Limit orders are accepted and
// stored but there is no matching engine; they stay pending. That
// mirrors the trading surface this simulation exposes today.
type Order struct {
	ID        string      `json:"id"`
	UserID    string      `json:"userId"`
	CoinID    string      `json:"coinId"`
	Side      Side        `json:"side"`
	Type      OrderType   `json:"type"`
	Price     float64     `json:"price,omitempty"`
	Amount    float64     `json:"amount"`
	CreatedAt time.Time   `json:"createdAt"`
	Status    OrderStatus `json:"status"`
}

// Trade is one executed fill.
type Trade struct {
	ID        string    `json:"id"`
	CoinID    string    `json:"coinId"`
	Price     float64   `json:"price"`
	Amount    float64   `json:"amount"`
	BuyerID   string    `json:"buyerId"`
	SellerID  string    `json:"sellerId"`
	Timestamp time.Time `json:"timestamp"`
}

// TradeTracker keeps the most recent trades, newest first.
type TradeTracker struct {
	recent []Trade
	max    int
}

func NewTradeTracker() *TradeTracker {
	return &TradeTracker{max: 100}
}

func (t *TradeTracker) Add(trade Trade) {
	t.recent = append([]Trade{trade}, t.recent...)
	if len(t.recent) > t.max {
		t.recent = t.recent[:t.max]
	}
}

// Recent returns up to limit trades, newest first.
func (t *TradeTracker) Recent(limit int) []Trade {
	if limit <= 0 || limit > len(t.recent) {
		limit = len(t.recent)
	}
	out := make([]Trade, limit)
	copy(out, t.recent[:limit])
	return out
}

// Portfolio is a user's cash and positions.
type Portfolio struct {
	Cash     float64            `json:"cash"`
	Holdings map[string]Holding `json:"holdings"`
}

// ApplyFill settles a fill against the portfolio. Buys with
// insufficient cash and sells exceeding the held amount are ignored.
func (p *Portfolio) ApplyFill(coinID string, side Side, amount, price float64) {
	if p.Holdings == nil {
		p.Holdings = make(map[string]Holding)
	}
	cost := amount * price

	if side == SideBuy {
		if p.Cash < cost {
			return
		}
		p.Cash -= cost
		if holding, ok := p.Holdings[coinID]; ok {
			totalValue := holding.Amount*holding.AverageCost + cost
			totalAmount := holding.Amount + amount
			p.Holdings[coinID] = Holding{Amount: totalAmount, AverageCost: totalValue / totalAmount}
		} else {
			p.Holdings[coinID] = Holding{Amount: amount, AverageCost: price}
		}
		return
	}

	holding, ok := p.Holdings[coinID]
	if !ok || holding.Amount < amount {
		return
	}
	p.Cash += cost
	remaining := holding.Amount - amount
	if remaining <= dustThreshold {
		delete(p.Holdings, coinID)
	} else {
		p.Holdings[coinID] = Holding{Amount: remaining, AverageCost: holding.AverageCost}
	}
}

// HoldingWithGains is one position annotated with unrealized P&L.
type HoldingWithGains struct {
	Amount                float64 `json:"amount"`
	AverageCost           float64 `json:"averageCost"`
	CurrentPrice          float64 `json:"currentPrice"`
	TotalValue            float64 `json:"totalValue"`
	TotalCost             float64 `json:"totalCost"`
	UnrealizedGain        float64 `json:"unrealizedGain"`
	UnrealizedGainPercent float64 `json:"unrealizedGainPercent"`
}

// PortfolioWithGains is a portfolio valued at current prices.
type PortfolioWithGains struct {
	Cash                       float64                     `json:"cash"`
	Holdings                   map[string]HoldingWithGains `json:"holdings"`
	TotalValue                 float64                     `json:"totalValue"`
	TotalCost                  float64                     `json:"totalCost"`
	TotalUnrealizedGain        float64                     `json:"totalUnrealizedGain"`
	TotalUnrealizedGainPercent float64                     `json:"totalUnrealizedGainPercent"`
}

// WithGains values p against the given coins. Holdings in unknown or
// emptied coins are skipped.
func (p *Portfolio) WithGains(coins map[string]*Coin) PortfolioWithGains {
	result := PortfolioWithGains{
		Cash:       p.Cash,
		Holdings:   make(map[string]HoldingWithGains),
		TotalValue: p.Cash,
	}
	totalCost := p.Cash

	for coinID, holding := range p.Holdings {
		coin := coins[coinID]
		if coin == nil || holding.Amount <= 0 {
			continue
		}

		totalValue := holding.Amount * coin.Price
		holdingCost := holding.Amount * holding.AverageCost
		gain := totalValue - holdingCost
		gainPct := 0.0
		if holdingCost > 0 {
			gainPct = gain / holdingCost * 100
		}

		result.Holdings[coinID] = HoldingWithGains{
			Amount:                holding.Amount,
			AverageCost:           holding.AverageCost,
			CurrentPrice:          coin.Price,
			TotalValue:            totalValue,
			TotalCost:             holdingCost,
			UnrealizedGain:        gain,
			UnrealizedGainPercent: gainPct,
		}

		result.TotalValue += totalValue
		totalCost += holdingCost
	}

	result.TotalCost = totalCost
	result.TotalUnrealizedGain = result.TotalValue - totalCost
	if totalCost > 0 {
		result.TotalUnrealizedGainPercent = result.TotalUnrealizedGain / totalCost * 100
	}
	return result
}
