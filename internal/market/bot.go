package market

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// Market is the view of the exchange a bot trades against. The engine
// implements it; tests substitute a lighter one.
type Market interface {
	Coin(id string) *Coin
	ApplyTradeImpact(c *Coin, botID string, side Side, amount float64)
	QueueBotSave(id string)
	Now() time.Time
	Rand() *rand.Rand
	// MinFrequency floors every bot's action frequency; the engine
	// raises it during fast-forward so slow traders still participate.
	MinFrequency() float64
}

// ScalpPosition is a short-lived position opened by a scalping strategy.
type ScalpPosition struct {
	Side     Side      `json:"side"`
	Entry    float64   `json:"entry"`
	OpenedAt time.Time `json:"openedAt"`
}

// BotState is the typed per-bot scratch state strategies read and write.
// Every field is optional; the zero value is a fresh bot.
type BotState struct {
	// PriceHistory is a rolling window of the target coin's price,
	// sampled each time the bot acts. Strategies cap its length.
	PriceHistory []float64 `json:"priceHistory,omitempty"`

	// MarketHistory holds a rolling window per watched coin, capped
	// at 100 samples.
	MarketHistory map[string][]float64 `json:"marketHistory,omitempty"`

	EntryPrice  float64 `json:"entryPrice,omitempty"`
	FOMOEntry   float64 `json:"fomoEntry,omitempty"`
	AvgBuyPrice float64 `json:"avgBuyPrice,omitempty"`

	// Influencer campaign bookkeeping.
	CampaignType   string `json:"campaignType,omitempty"`
	CampaignActive int    `json:"campaignActive,omitempty"`
	PumpedCoin     string `json:"pumpedCoin,omitempty"`

	// Market maker side alternation.
	MMLastSide Side `json:"mmLastSide,omitempty"`

	// Open scalp positions keyed by coin id.
	Scalps map[string]ScalpPosition `json:"scalps,omitempty"`
}

// Holding is a position in one coin.
type Holding struct {
	Amount      float64 `json:"amount"`
	AverageCost float64 `json:"averageCost"`
}

// BotPortfolio is a bot's cash and positions.
type BotPortfolio struct {
	Cash     float64            `json:"cash"`
	Holdings map[string]Holding `json:"holdings"`
}

// Bot is one autonomous trading agent.
type Bot struct {
	ID           string       `json:"id"`
	Personality  Personality  `json:"personality"`
	Traits       Traits       `json:"-"`
	TargetCoin   string       `json:"targetCoin"`
	WatchedCoins []string     `json:"watchedCoins"`
	State        BotState     `json:"state"`
	LastAction   time.Time    `json:"lastAction"`
	Enabled      bool         `json:"enabled"`
	Portfolio    BotPortfolio `json:"portfolio"`
}

// NewBot builds a bot, filling in traits and defaulting the watch list
// to the target coin. An unknown personality gets a random one.
func NewBot(id string, personality Personality, targetCoin string, watched []string, cash float64, rng *rand.Rand) *Bot {
	traits, ok := TraitsFor(personality)
	if !ok {
		personality = RandomPersonality(rng)
		traits, _ = TraitsFor(personality)
	}
	if len(watched) == 0 {
		watched = []string{targetCoin}
	}
	return &Bot{
		ID:           id,
		Personality:  personality,
		Traits:       traits,
		TargetCoin:   targetCoin,
		WatchedCoins: watched,
		Enabled:      true,
		Portfolio:    BotPortfolio{Cash: cash, Holdings: make(map[string]Holding)},
	}
}

// RestoreTraits refreshes the trait profile after loading from storage.
func (b *Bot) RestoreTraits(rng *rand.Rand) {
	traits, ok := TraitsFor(b.Personality)
	if !ok {
		b.Personality = RandomPersonality(rng)
		traits, _ = TraitsFor(b.Personality)
	}
	b.Traits = traits
	if len(b.WatchedCoins) == 0 {
		b.WatchedCoins = []string{b.TargetCoin}
	}
	if b.Portfolio.Holdings == nil {
		b.Portfolio.Holdings = make(map[string]Holding)
	}
}

// Tick runs one decision cycle. Frequency gates how often the bot acts:
// the base interval is 60s divided by the trait frequency, stretched by
// a random jitter in [1.5, 2.5)x.
func (b *Bot) Tick(m Market) {
	if !b.Enabled {
		return
	}

	now := m.Now()
	sinceLast := now.Sub(b.LastAction)

	freq := math.Max(b.Traits.Frequency, m.MinFrequency())
	baseInterval := time.Duration(60000/math.Max(0.1, freq)) * time.Millisecond
	jitter := time.Duration(float64(baseInterval) * (0.5 + m.Rand().Float64()))
	if sinceLast < baseInterval+jitter {
		return
	}

	b.updateMarketHistory(m)
	if newFocus := b.shouldSwitchFocus(m); newFocus != "" {
		b.TargetCoin = newFocus
	}

	if s, ok := StrategyFor(b.Personality); ok {
		s.Trade(b, m)
	}
	b.LastAction = now
}

func (b *Bot) updateMarketHistory(m Market) {
	if b.State.MarketHistory == nil {
		b.State.MarketHistory = make(map[string][]float64)
	}
	for _, coinID := range b.WatchedCoins {
		coin := m.Coin(coinID)
		if coin == nil {
			continue
		}
		hist := append(b.State.MarketHistory[coinID], coin.Price)
		if len(hist) > 100 {
			hist = hist[len(hist)-100:]
		}
		b.State.MarketHistory[coinID] = hist
	}
}

// shouldSwitchFocus occasionally retargets the bot at a watched coin
// that has outperformed the current target by more than 5% over the
// last 10 samples. Returns "" when the focus stays put.
func (b *Bot) shouldSwitchFocus(m Market) string {
	if m.Rand().Float64() > 0.1 {
		return ""
	}

	current := m.Coin(b.TargetCoin)
	if current == nil {
		return ""
	}

	best := b.bestPerformingCoin(m)
	if best == nil || best.ID == b.TargetCoin {
		return ""
	}

	currentHist := b.State.MarketHistory[b.TargetCoin]
	bestHist := b.State.MarketHistory[best.ID]
	if len(currentHist) < 10 || len(bestHist) < 10 {
		return ""
	}

	currentPerf := (current.Price - currentHist[len(currentHist)-10]) / currentHist[len(currentHist)-10]
	bestPerf := (best.Price - bestHist[len(bestHist)-10]) / bestHist[len(bestHist)-10]
	if bestPerf-currentPerf > 0.05 {
		return best.ID
	}
	return ""
}

// pushPrice appends a target-coin price sample capped at n entries.
func (b *Bot) pushPrice(price float64, n int) {
	b.State.PriceHistory = append(b.State.PriceHistory, price)
	if len(b.State.PriceHistory) > n {
		b.State.PriceHistory = b.State.PriceHistory[len(b.State.PriceHistory)-n:]
	}
}

// priceChangePercent compares the current price against the sample
// `periods` back in the personal price history, in percent.
func (b *Bot) priceChangePercent(coin *Coin, periods int) float64 {
	hist := b.State.PriceHistory
	if len(hist) < periods {
		return 0
	}
	idx := len(hist) - periods
	if idx < 0 {
		idx = 0
	}
	old := hist[idx]
	return (coin.Price - old) / old * 100
}

func (b *Bot) movingAverage(periods int) float64 {
	hist := b.State.PriceHistory
	if len(hist) == 0 {
		return 0
	}
	if len(hist) < periods {
		return hist[0]
	}
	slice := hist[len(hist)-periods:]
	sum := 0.0
	for _, p := range slice {
		sum += p
	}
	return sum / float64(len(slice))
}

func (b *Bot) isTrendUp(periods int) bool {
	hist := b.State.PriceHistory
	if len(hist) < periods {
		return false
	}
	recent := hist[len(hist)-periods:]
	for i := 1; i < len(recent); i++ {
		if recent[i] <= recent[i-1] {
			return false
		}
	}
	return true
}

func (b *Bot) isTrendDown(periods int) bool {
	hist := b.State.PriceHistory
	if len(hist) < periods {
		return false
	}
	recent := hist[len(hist)-periods:]
	for i := 1; i < len(recent); i++ {
		if recent[i] >= recent[i-1] {
			return false
		}
	}
	return true
}

// Intensity scales a trade relative to a bot's aggressiveness.
type Intensity string

const (
	IntensityTiny       Intensity = "tiny"
	IntensitySmall      Intensity = "small"
	IntensityModerate   Intensity = "moderate"
	IntensityAggressive Intensity = "aggressive"
	IntensityHuge       Intensity = "huge"
	IntensityWhale      Intensity = "whale"
)

func intensityMultiplier(i Intensity) float64 {
	switch i {
	case IntensityTiny:
		return 0.1
	case IntensitySmall:
		return 0.3
	case IntensityModerate:
		return 1
	case IntensityAggressive:
		return 2
	case IntensityHuge:
		return 5
	case IntensityWhale:
		return 10
	}
	return 1
}

// tradeSize sizes a trade from aggressiveness and intensity, capped by
// affordable cash and a fraction of the coin's liquidity, then scaled
// by a random factor in [0.5, 1).
func (b *Bot) tradeSize(coin *Coin, intensity Intensity, rng *rand.Rand) float64 {
	aggressiveness := b.Traits.Aggressiveness / 10
	const baseSize = 0.05

	portfolioSize := baseSize * aggressiveness * intensityMultiplier(intensity)
	maxAffordable := b.Portfolio.Cash / coin.Price * portfolioSize
	liquidityLimit := coin.Liquidity * math.Min(0.1, portfolioSize)

	return math.Min(maxAffordable, liquidityLimit) * (0.5 + rng.Float64()*0.5)
}

const dustThreshold = 0.000001

// makeTrade clamps sells to the available holding and drops dust-sized
// trades, then executes.
func (b *Bot) makeTrade(m Market, coin *Coin, side Side, amount float64) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= dustThreshold {
		return
	}

	if side == SideSell {
		amount = math.Min(amount, b.Portfolio.Holdings[coin.ID].Amount)
	}

	if amount > dustThreshold {
		b.executeTrade(m, coin, side, amount)
	}
}

// executeTrade settles the trade against the bot's portfolio and pushes
// the price impact into the market.
func (b *Bot) executeTrade(m Market, coin *Coin, side Side, amount float64) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 || amount > 1e12 {
		return
	}

	cost := amount * coin.Price
	if math.IsNaN(cost) || math.IsInf(cost, 0) || cost > 1e15 {
		return
	}

	if side == SideBuy {
		if b.Portfolio.Cash < cost {
			return
		}
		b.Portfolio.Cash -= cost
		if holding, ok := b.Portfolio.Holdings[coin.ID]; ok {
			totalValue := holding.Amount*holding.AverageCost + cost
			totalAmount := holding.Amount + amount
			b.Portfolio.Holdings[coin.ID] = Holding{
				Amount:      totalAmount,
				AverageCost: totalValue / totalAmount,
			}
		} else {
			b.Portfolio.Holdings[coin.ID] = Holding{Amount: amount, AverageCost: coin.Price}
		}
	} else {
		holding, ok := b.Portfolio.Holdings[coin.ID]
		if !ok || holding.Amount < amount {
			return
		}
		b.Portfolio.Cash += cost
		remaining := holding.Amount - amount
		if remaining <= dustThreshold {
			delete(b.Portfolio.Holdings, coin.ID)
		} else {
			b.Portfolio.Holdings[coin.ID] = Holding{Amount: remaining, AverageCost: holding.AverageCost}
		}
	}

	m.ApplyTradeImpact(coin, b.ID, side, amount)
	m.QueueBotSave(b.ID)
}

// marketSentiment averages the 5-sample change across watched coins.
func (b *Bot) marketSentiment(m Market) string {
	totalChange := 0.0
	count := 0

	for _, coinID := range b.WatchedCoins {
		coin := m.Coin(coinID)
		if coin == nil {
			continue
		}
		hist := b.State.MarketHistory[coinID]
		if len(hist) < 5 {
			continue
		}
		old := hist[len(hist)-5]
		totalChange += (coin.Price - old) / old
		count++
	}

	if count == 0 {
		return "neutral"
	}
	avg := totalChange / float64(count)
	switch {
	case avg > 0.02:
		return "bullish"
	case avg < -0.02:
		return "bearish"
	}
	return "neutral"
}

func (b *Bot) bestPerformingCoin(m Market) *Coin {
	var best *Coin
	bestPerf := math.Inf(-1)

	for _, coinID := range b.WatchedCoins {
		coin := m.Coin(coinID)
		if coin == nil {
			continue
		}
		hist := b.State.MarketHistory[coinID]
		if len(hist) < 10 {
			continue
		}
		old := hist[len(hist)-10]
		perf := (coin.Price - old) / old
		if perf > bestPerf {
			bestPerf = perf
			best = coin
		}
	}
	return best
}

func (b *Bot) worstPerformingCoin(m Market) *Coin {
	var worst *Coin
	worstPerf := math.Inf(1)

	for _, coinID := range b.WatchedCoins {
		coin := m.Coin(coinID)
		if coin == nil {
			continue
		}
		hist := b.State.MarketHistory[coinID]
		if len(hist) < 10 {
			continue
		}
		old := hist[len(hist)-10]
		perf := (coin.Price - old) / old
		if perf < worstPerf {
			worstPerf = perf
			worst = coin
		}
	}
	return worst
}

func calculateRSI(prices []float64) float64 {
	if len(prices) < 14 {
		return 50
	}

	gains, losses := 0.0, 0.0
	limit := 15
	if len(prices) < limit {
		limit = len(prices)
	}
	for i := 1; i < limit; i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}

	avgGain := gains / 14
	avgLoss := losses / 14
	if avgLoss == 0 {
		avgLoss = 0.001
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

func calculateVolatility(prices []float64) float64 {
	if len(prices) < 10 {
		return 0.02
	}

	returns := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		returns = append(returns, (prices[i]-prices[i-1])/prices[i-1])
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns))
	return math.Sqrt(variance)
}

// SanitizePortfolio drops invalid cash and holdings before persisting.
func (b *Bot) SanitizePortfolio() {
	if math.IsNaN(b.Portfolio.Cash) || math.IsInf(b.Portfolio.Cash, 0) || b.Portfolio.Cash < 0 || b.Portfolio.Cash >= 1e12 {
		b.Portfolio.Cash = 0
	}
	for coinID, h := range b.Portfolio.Holdings {
		valid := !math.IsNaN(h.Amount) && !math.IsInf(h.Amount, 0) && h.Amount > 0 && h.Amount < 1e12 &&
			!math.IsNaN(h.AverageCost) && !math.IsInf(h.AverageCost, 0) && h.AverageCost > 0
		if !valid {
			delete(b.Portfolio.Holdings, coinID)
		}
	}
}

// CurrentStrategy describes the bot's active approach for display.
func (b *Bot) CurrentStrategy() string {
	if s, ok := StrategyFor(b.Personality); ok {
		return s.Describe()
	}
	return "Unknown Strategy"
}

// RecentActions summarizes current holdings and focus as displayable
// action entries, newest information first.
func (b *Bot) RecentActions(limit int) []BotAction {
	if limit <= 0 {
		limit = 10
	}

	actions := make([]BotAction, 0, len(b.Portfolio.Holdings)+1)
	for coinID, holding := range b.Portfolio.Holdings {
		if holding.Amount > 0 {
			actions = append(actions, BotAction{
				Action:    "HOLD",
				Timestamp: b.LastAction,
				Details:   fmt.Sprintf("Holding %.6f %s (avg cost: $%.4f)", holding.Amount, coinID, holding.AverageCost),
			})
		}
	}
	actions = append(actions, BotAction{
		Action:    "FOCUS",
		Timestamp: b.LastAction,
		Details:   fmt.Sprintf("Currently targeting %s, monitoring %v", b.TargetCoin, b.WatchedCoins),
	})

	if len(actions) > limit {
		actions = actions[:limit]
	}
	return actions
}

// BotAction is a displayable summary entry for a bot.
type BotAction struct {
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
	Details   string    `json:"details"`
}
