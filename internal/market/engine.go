package market

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/realcoin/market-backend/internal/broadcast"
	"github.com/realcoin/market-backend/internal/config"
	"github.com/realcoin/market-backend/internal/store"
)

const (
	liveEventProbability        = 0.0008
	fastForwardEventProbability = 0.02
	fastForwardMinFrequency     = 2
)

// Engine owns the whole simulation: coins, bots, events, analytics,
// history and the write-behind persistence queues. All dependencies are
// injected; construct one and share it by reference.
type Engine struct {
	mu sync.Mutex

	cfg         *config.Config
	store       store.Store
	broadcaster broadcast.Broadcaster

	rng   *rand.Rand
	nowFn func() time.Time

	coins     map[string]*Coin
	bots      map[string]*Bot
	history   *History
	events    *Events
	analytics *AnalyticsEngine
	trades    *TradeTracker

	botSaveQueue  map[string]struct{}
	coinSaveQueue map[string]struct{}
	recoveries    []LiquidityRecovery

	tickCount    int
	minFrequency float64
}

// New builds an engine. Pass broadcast.Nop{} when no clients listen.
func New(cfg *config.Config, st store.Store, bc broadcast.Broadcaster) *Engine {
	return &Engine{
		cfg:           cfg,
		store:         st,
		broadcaster:   bc,
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
		nowFn:         time.Now,
		coins:         make(map[string]*Coin),
		bots:          make(map[string]*Bot),
		history:       NewHistory(),
		events:        NewEvents(),
		analytics:     NewAnalyticsEngine(),
		trades:        NewTradeTracker(),
		botSaveQueue:  make(map[string]struct{}),
		coinSaveQueue: make(map[string]struct{}),
	}
}

// Market interface for bots. These run with e.mu already held by the
// caller (Tick or PlaceOrder) and must not lock again.

func (e *Engine) Coin(id string) *Coin    { return e.coins[id] }
func (e *Engine) Now() time.Time          { return e.nowFn() }
func (e *Engine) Rand() *rand.Rand        { return e.rng }
func (e *Engine) MinFrequency() float64   { return e.minFrequency }
func (e *Engine) QueueBotSave(id string)  { e.botSaveQueue[id] = struct{}{} }
func (e *Engine) QueueCoinSave(id string) { e.coinSaveQueue[id] = struct{}{} }

// ApplyTradeImpact pushes a trade into the coin's price, records it in
// history and the recent-trade list, and schedules the liquidity
// recovery. The executed price is the post-impact price.
func (e *Engine) ApplyTradeImpact(c *Coin, actorID string, side Side, amount float64) {
	now := e.nowFn()
	price, recovery := c.ApplyPriceImpact(amount, side, now)
	e.history.RecordPrice(c.ID, price, amount, now)
	if recovery != nil {
		e.recoveries = append(e.recoveries, *recovery)
	}

	trade := Trade{
		ID:        "trade-" + uuid.NewString(),
		CoinID:    c.ID,
		Price:     price,
		Amount:    amount,
		BuyerID:   "market",
		SellerID:  "market",
		Timestamp: now,
	}
	if side == SideBuy {
		trade.BuyerID = actorID
	} else {
		trade.SellerID = actorID
	}
	e.trades.Add(trade)
	e.QueueCoinSave(c.ID)

	e.broadcastJSON(map[string]any{"type": "trade", "trade": trade})
}

// Init loads persisted state, seeds defaults on an empty store, and
// runs the fast-forward bootstrap when the market is brand new.
func (e *Engine) Init(ctx context.Context) error {
	loadedCoins, err := e.loadCoins(ctx)
	if err != nil {
		return fmt.Errorf("load coins: %w", err)
	}
	loadedBots, err := e.loadBots(ctx)
	if err != nil {
		return fmt.Errorf("load bots: %w", err)
	}

	fresh := loadedCoins == 0 && loadedBots == 0

	if loadedCoins == 0 {
		e.seedDefaultCoins()
		fmt.Printf("[ENGINE] Seeded %d default coins\n", len(e.coins))
	}
	if loadedBots == 0 {
		e.seedDefaultBots()
		fmt.Printf("[ENGINE] Seeded %d default bots\n", len(e.bots))
	}

	e.seedPriceHistory()

	if fresh && e.cfg.FastForwardEnabled {
		fmt.Printf("[ENGINE] Starting fast forward simulation (%.1fh of market activity)...\n", e.cfg.FastForwardDurationHours)
		e.runFastForward(ctx)
		fmt.Println("[ENGINE] Fast forward simulation complete")
	}

	return e.flushSaves(ctx)
}

// Run drives the tick loop and the periodic batch flush until ctx is
// cancelled. Concurrent callers use PlaceOrder and the snapshot
// accessors, which take the engine lock.
func (e *Engine) Run(ctx context.Context) {
	tick := time.NewTicker(time.Duration(e.cfg.TickIntervalMS) * time.Millisecond)
	defer tick.Stop()
	flush := time.NewTicker(time.Duration(e.cfg.BatchSaveIntervalMS) * time.Millisecond)
	defer flush.Stop()

	fmt.Printf("[ENGINE] Market tick loop started (interval %dms)\n", e.cfg.TickIntervalMS)

	for {
		select {
		case <-ctx.Done():
			fmt.Println("[ENGINE] Stopping, flushing pending saves")
			flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := e.flushSaves(flushCtx); err != nil {
				fmt.Printf("[ENGINE] Final flush failed: %v\n", err)
			}
			cancel()
			return
		case <-tick.C:
			e.Tick()
		case <-flush.C:
			if err := e.flushSaves(ctx); err != nil {
				fmt.Printf("[ENGINE] Batch save failed: %v\n", err)
			}
		}
	}
}

// Tick advances the market one step: events, price processes, bots,
// then periodic analytics and price broadcasts.
func (e *Engine) Tick() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tickCount++
	now := e.nowFn()

	prob := liveEventProbability
	if e.minFrequency > 0 {
		prob = fastForwardEventProbability
	}
	if ev := e.events.GenerateRandomEvent(e.coins, prob, e.rng, now); ev != nil {
		e.broadcastJSON(map[string]any{"type": "market_event", "event": ev})
	}
	for _, ended := range e.events.ApplyEffects(e.coins, e.history, e.rng, now) {
		e.broadcastJSON(map[string]any{"type": "market_event_ended", "eventId": ended.ID})
	}

	e.processRecoveries(now)

	for _, coin := range e.coins {
		volume := coin.AddVolatility(e.rng, now)
		e.history.RecordPrice(coin.ID, coin.Price, volume, now)

		if math.IsNaN(coin.Price) || math.IsInf(coin.Price, 0) || coin.Price <= 0 || coin.Price > maxValidPrice {
			fmt.Printf("[ENGINE] Invalid price for %s, resetting to 1.0\n", coin.ID)
			coin.Price = 1.0
		}
		e.QueueCoinSave(coin.ID)
	}

	for _, bot := range e.bots {
		bot.Tick(e)
	}

	if e.tickCount%10 == 0 {
		analytics := e.analytics.Compute(e.coins, e.history, e.trades.Recent(1000), now)
		e.broadcastJSON(map[string]any{"type": "market_analytics", "analytics": analytics})
	}

	if e.tickCount%2 == 0 {
		e.broadcastPrices()
	}
}

// processRecoveries restores consumed liquidity whose delay has passed.
func (e *Engine) processRecoveries(now time.Time) {
	if len(e.recoveries) == 0 {
		return
	}

	remaining := e.recoveries[:0]
	for _, rec := range e.recoveries {
		if rec.Due.After(now) {
			remaining = append(remaining, rec)
			continue
		}
		if coin := e.coins[rec.CoinID]; coin != nil {
			coin.Liquidity = math.Min(rec.Ceiling, coin.Liquidity+rec.Amount)
		}
	}
	e.recoveries = remaining
}

func (e *Engine) broadcastPrices() {
	prices := make(map[string]map[string]any, len(e.coins))
	for _, coin := range e.coins {
		price := coin.Price
		if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
			price = 1.0
		}
		prices[coin.ID] = map[string]any{
			"price":       price,
			"lastUpdated": coin.LastUpdated.Format(time.RFC3339Nano),
		}
	}
	e.broadcastJSON(map[string]any{
		"type":         "price_update",
		"prices":       prices,
		"activeEvents": e.events.ActiveEvents(),
	})
}

func (e *Engine) broadcastJSON(msg map[string]any) {
	data, err := json.Marshal(msg)
	if err != nil {
		fmt.Printf("[ENGINE] Broadcast marshal failed: %v\n", err)
		return
	}
	e.broadcaster.BroadcastToAllRooms(data)
}

// runFastForward replays hours of simulated market activity on a
// virtual clock before the server opens. The clock starts durationSec
// in the past and each tick advances it by 1/ticksPerSec seconds, so
// the final tick lands on wall time and every timestamp the replay
// produces is in the past when live operation takes over.
func (e *Engine) runFastForward(ctx context.Context) {
	ticksPerSec := e.cfg.FastForwardTicksPerSec
	if ticksPerSec <= 0 {
		ticksPerSec = 100
	}
	durationSec := e.cfg.FastForwardDurationHours * 3600
	totalTicks := int(durationSec * float64(ticksPerSec))
	if totalTicks <= 0 {
		return
	}
	progressEvery := totalTicks / 20
	if progressEvery == 0 {
		progressEvery = 1
	}

	simNow := time.Now().Add(-time.Duration(durationSec * float64(time.Second)))
	step := time.Second / time.Duration(ticksPerSec)
	e.nowFn = func() time.Time { return simNow }
	e.minFrequency = fastForwardMinFrequency

	// Seeded bots carry wall-clock LastAction stamps; rebase them into
	// the replay window so the frequency gate can open during it.
	for _, bot := range e.bots {
		bot.LastAction = simNow.Add(-time.Duration(e.rng.Float64() * float64(30*time.Second)))
	}

	defer func() {
		e.nowFn = time.Now
		e.minFrequency = 0
		// Shocks still running on the virtual clock would replay their
		// impact window against live ticks; drop them instead.
		if n := e.events.DiscardActive(); n > 0 {
			fmt.Printf("[ENGINE] Discarded %d events still active at fast forward end\n", n)
		}
	}()

	start := time.Now()
	fmt.Printf("[ENGINE] Running %.1fh simulation at %dx speed (%d ticks)...\n",
		e.cfg.FastForwardDurationHours, ticksPerSec, totalTicks)

	for i := 0; i < totalTicks; i++ {
		if ctx.Err() != nil {
			fmt.Println("[ENGINE] Fast forward interrupted")
			return
		}

		simNow = simNow.Add(step)
		e.Tick()

		if i%progressEvery == 0 {
			progress := i * 100 / totalTicks
			simulated := float64(i) / float64(ticksPerSec)
			fmt.Printf("[ENGINE] Fast forward progress: %d%% (%.0fm simulated in %.1fs real time)\n",
				progress, simulated/60, time.Since(start).Seconds())
		}
	}

	fmt.Printf("[ENGINE] Simulation complete, %d recent trades recorded in %.1fs real time\n",
		len(e.trades.Recent(0)), time.Since(start).Seconds())
}

// PlaceOrder executes a market order against the impact model or parks
// a limit order. There is no matching engine; limit orders rest
// untouched until cancelled.
func (e *Engine) PlaceOrder(ctx context.Context, order Order) (*Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	coin := e.coins[order.CoinID]
	if coin == nil {
		return nil, fmt.Errorf("place order: unknown coin %q", order.CoinID)
	}
	if order.ID == "" {
		order.ID = "order-" + uuid.NewString()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = e.nowFn()
	}
	isBot := strings.HasPrefix(order.UserID, "bot-")

	if order.Type == OrderMarket {
		e.ApplyTradeImpact(coin, order.UserID, order.Side, order.Amount)
		executionPrice := coin.Price
		order.Status = OrderFilled

		if !isBot {
			trades := e.trades.Recent(1)
			if len(trades) == 1 {
				if err := e.saveRecord(ctx, store.Trades, trades[0].ID, trades[0]); err != nil {
					return nil, fmt.Errorf("save trade: %w", err)
				}
			}
			if err := e.saveRecord(ctx, store.Orders, order.ID, order); err != nil {
				return nil, fmt.Errorf("save order: %w", err)
			}
		}

		if err := e.updatePortfolio(ctx, order.UserID, order.CoinID, order.Side, order.Amount, executionPrice); err != nil {
			return nil, err
		}
		return &order, nil
	}

	order.Status = OrderPending
	if !isBot {
		if err := e.saveRecord(ctx, store.Orders, order.ID, order); err != nil {
			return nil, fmt.Errorf("save order: %w", err)
		}
	}
	return &order, nil
}

// updatePortfolio settles a fill into a stored user portfolio, creating
// one with the configured starting cash on first touch.
func (e *Engine) updatePortfolio(ctx context.Context, userID, coinID string, side Side, amount, price float64) error {
	portfolio, err := e.LoadPortfolio(ctx, userID)
	if err != nil {
		return err
	}
	portfolio.ApplyFill(coinID, side, amount, price)
	return e.saveRecord(ctx, store.Portfolios, userID, portfolio)
}

// LoadPortfolio fetches a user's portfolio, defaulting a fresh one.
func (e *Engine) LoadPortfolio(ctx context.Context, userID string) (*Portfolio, error) {
	data, found, err := e.store.Get(ctx, store.Portfolios, userID)
	if err != nil {
		return nil, fmt.Errorf("load portfolio %s: %w", userID, err)
	}
	if !found {
		return &Portfolio{Cash: e.cfg.HumanStartingCash, Holdings: make(map[string]Holding)}, nil
	}

	var portfolio Portfolio
	if err := json.Unmarshal(data, &portfolio); err != nil {
		return nil, fmt.Errorf("decode portfolio %s: %w", userID, err)
	}
	if portfolio.Holdings == nil {
		portfolio.Holdings = make(map[string]Holding)
	}
	return &portfolio, nil
}

// PortfolioWithGains values a user's portfolio at current prices.
func (e *Engine) PortfolioWithGains(ctx context.Context, userID string) (PortfolioWithGains, error) {
	portfolio, err := e.LoadPortfolio(ctx, userID)
	if err != nil {
		return PortfolioWithGains{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return portfolio.WithGains(e.coins), nil
}

// Snapshot accessors, safe to call while Run is ticking.

// Coins returns value copies of every coin, sorted by id.
func (e *Engine) Coins() []Coin {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Coin, 0, len(e.coins))
	for _, c := range e.coins {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// CoinSnapshot returns a value copy of one coin.
func (e *Engine) CoinSnapshot(id string) (Coin, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	c := e.coins[id]
	if c == nil {
		return Coin{}, false
	}
	return *c, true
}

// BotCount returns how many bots are loaded.
func (e *Engine) BotCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.bots)
}

// BotView is the display snapshot served for one bot.
type BotView struct {
	ID            string      `json:"id"`
	Personality   Personality `json:"personality"`
	Strategy      string      `json:"strategy"`
	TargetCoin    string      `json:"targetCoin"`
	Cash          float64     `json:"cash"`
	Enabled       bool        `json:"enabled"`
	LastAction    time.Time   `json:"lastAction"`
	RecentActions []BotAction `json:"recentActions"`
}

// Bots returns display snapshots of every bot, sorted by id.
func (e *Engine) Bots() []BotView {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]BotView, 0, len(e.bots))
	for _, b := range e.bots {
		out = append(out, BotView{
			ID:            b.ID,
			Personality:   b.Personality,
			Strategy:      b.CurrentStrategy(),
			TargetCoin:    b.TargetCoin,
			Cash:          b.Portfolio.Cash,
			Enabled:       b.Enabled,
			LastAction:    b.LastAction,
			RecentActions: b.RecentActions(10),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ActiveEvents returns the currently active market events.
func (e *Engine) ActiveEvents() []*Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.events.ActiveEvents()
}

// Analytics returns the latest computed snapshot.
func (e *Engine) Analytics() Analytics {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.analytics.Latest()
}

// RecentTrades returns up to limit recent trades, newest first.
func (e *Engine) RecentTrades(limit int) []Trade {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.trades.Recent(limit)
}

// PriceHistory returns candles for a coin.
func (e *Engine) PriceHistory(coinID, timeframe string, limit int) []Candle {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.GetPriceHistory(coinID, timeframe, limit, e.nowFn())
}

// Persistence.

func (e *Engine) saveRecord(ctx context.Context, collection, id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, id, err)
	}
	return e.store.Set(ctx, collection, id, data)
}

// flushSaves drains the write-behind queues.
func (e *Engine) flushSaves(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for coinID := range e.coinSaveQueue {
		coin := e.coins[coinID]
		if coin == nil {
			delete(e.coinSaveQueue, coinID)
			continue
		}
		coin.Sanitize()
		if err := e.saveRecord(ctx, store.Coins, coin.ID, coin); err != nil {
			// Stays queued for the next flush.
			return fmt.Errorf("save coin %s: %w", coin.ID, err)
		}
		delete(e.coinSaveQueue, coinID)
	}

	for botID := range e.botSaveQueue {
		bot := e.bots[botID]
		if bot == nil {
			delete(e.botSaveQueue, botID)
			continue
		}
		bot.SanitizePortfolio()
		if err := e.saveRecord(ctx, store.Bots, bot.ID, bot); err != nil {
			return fmt.Errorf("save bot %s: %w", bot.ID, err)
		}
		delete(e.botSaveQueue, botID)
	}
	return nil
}

func (e *Engine) loadCoins(ctx context.Context) (int, error) {
	ids, err := e.store.Keys(ctx, store.Coins)
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		data, found, err := e.store.Get(ctx, store.Coins, id)
		if err != nil {
			return 0, err
		}
		if !found {
			continue
		}
		var coin Coin
		if err := json.Unmarshal(data, &coin); err != nil {
			fmt.Printf("[ENGINE] Skipping corrupt coin record %s: %v\n", id, err)
			continue
		}
		e.coins[coin.ID] = &coin
	}
	return len(e.coins), nil
}

func (e *Engine) loadBots(ctx context.Context) (int, error) {
	ids, err := e.store.Keys(ctx, store.Bots)
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		data, found, err := e.store.Get(ctx, store.Bots, id)
		if err != nil {
			return 0, err
		}
		if !found {
			continue
		}
		var bot Bot
		if err := json.Unmarshal(data, &bot); err != nil {
			fmt.Printf("[ENGINE] Skipping corrupt bot record %s: %v\n", id, err)
			continue
		}
		bot.RestoreTraits(e.rng)
		e.bots[bot.ID] = &bot
	}
	return len(e.bots), nil
}

type seedCoin struct {
	id        string
	name      string
	price     float64
	baseVol   float64
	liquidity float64
}

var defaultCoins = []seedCoin{
	{"RCOIN", "RealCoin", 1.0, 0.015, 5000},
	{"WHALE", "WhaleCoin", 50.0, 0.008, 500},
	{"STABLE", "StableMatic", 1.001, 0.005, 10000},
	{"TOAST", "ToastCoin", 0.25, 0.025, 2000},
	{"DOGE2", "DogeButBetter", 0.08, 0.03, 3000},
	{"PIZZA", "PizzaCoin", 3.14, 0.022, 1800},
	{"COFFEE", "CoffeeBeans", 4.20, 0.018, 1500},
	{"GAME", "GameToken", 12.34, 0.028, 1200},
	{"MEME", "MemeCoin", 0.01, 0.04, 1000},
	{"MOON", "MoonShot", 0.15, 0.06, 800},
	{"YOLO", "YoloSwag", 0.69, 0.08, 600},
	{"PUMP", "PumpCoin", 0.001, 0.12, 400},
	{"SHIB2", "ShibKiller", 0.0001, 0.15, 2500},
	{"CHAOS", "ChaosCoin", 0.00001, 0.25, 200},
	{"RUGME", "RugPullCoin", 0.0042, 0.18, 300},
	{"SCAM", "TotallyLegit", 0.13, 0.22, 150},
	{"GOLD", "DigitalGold", 1337.0, 0.012, 100},
	{"DIAMOND", "DiamondHands", 420.69, 0.016, 250},
	{"UTIL", "UtilityCoin", 2.5, 0.02, 1600},
	{"WORK", "WorkToken", 8.0, 0.024, 1100},
	{"ROBOT", "RobotCoin", 25.0, 0.035, 900},
	{"BRAIN", "BrainChain", 7.77, 0.045, 700},
	{"TACO", "TacoCoin", 1.99, 0.032, 1300},
	{"BURGER", "BurgerToken", 5.99, 0.027, 1000},
}

func (e *Engine) seedDefaultCoins() {
	now := e.nowFn()
	for _, s := range defaultCoins {
		coin := &Coin{
			ID:          s.id,
			Name:        s.name,
			Price:       s.price,
			BaseVol:     s.baseVol,
			Liquidity:   s.liquidity,
			LastUpdated: now,
		}
		e.coins[coin.ID] = coin
		e.QueueCoinSave(coin.ID)
	}
}

func (e *Engine) seedDefaultBots() {
	coinIDs := make([]string, 0, len(e.coins))
	for id := range e.coins {
		coinIDs = append(coinIDs, id)
	}
	if len(coinIDs) == 0 {
		return
	}

	count := e.cfg.DefaultBotCount
	if count <= 0 {
		count = 150
	}
	now := e.nowFn()

	for i := 1; i <= count; i++ {
		personality := RandomPersonality(e.rng)
		targetCoin := coinIDs[e.rng.Intn(len(coinIDs))]

		var watched []string
		switch personality {
		case QuantQuinn, ArbitrageArnie, InfluencerIzzy:
			// Multi-coin strategies watch the whole market.
			watched = append([]string(nil), coinIDs...)
		case CopycatCarla, DoomDaniel:
			n := len(coinIDs) * 8 / 10
			if n < 2 {
				n = 2
			}
			watched = append([]string(nil), coinIDs[:n]...)
		default:
			n := e.rng.Intn(len(coinIDs)) + 1
			if n < 2 {
				n = 2
			}
			if n > 4 {
				n = 4
			}
			watched = []string{targetCoin}
			for len(watched) < n {
				candidate := coinIDs[e.rng.Intn(len(coinIDs))]
				if !contains(watched, candidate) {
					watched = append(watched, candidate)
				}
			}
		}

		var cash float64
		switch personality {
		case WhaleWendy:
			cash = 50000 + e.rng.Float64()*50000
		case LongtermLarry:
			cash = 5000 + e.rng.Float64()*10000
		case InfluencerIzzy:
			cash = 10000 + e.rng.Float64()*20000
		case QuantQuinn:
			cash = 3000 + e.rng.Float64()*7000
		default:
			cash = 800 + e.rng.Float64()*2000
		}

		id := fmt.Sprintf("bot-%s-%d", strings.ReplaceAll(string(personality), "-", ""), i)
		bot := NewBot(id, personality, targetCoin, watched, math.Floor(cash), e.rng)
		bot.LastAction = now.Add(-time.Duration(e.rng.Float64() * float64(30*time.Second)))
		e.bots[bot.ID] = bot
		e.QueueBotSave(bot.ID)
	}
}

// seedPriceHistory backfills two hours of flat-noise history for coins
// with no fresh data, so charts are populated from the first request.
func (e *Engine) seedPriceHistory() {
	now := e.nowFn()
	const totalSeconds = 2 * 60 * 60

	for _, coin := range e.coins {
		points := e.history.Points(coin.ID)
		fresh := len(points) > 0 && now.Sub(points[len(points)-1].Timestamp) <= time.Minute
		if fresh {
			continue
		}

		basePrice := coin.Price
		for i := totalSeconds; i >= 0; i-- {
			ts := now.Add(-time.Duration(i) * time.Second)
			variation := (e.rng.Float64() - 0.5) * 0.001
			price := math.Max(0.001, basePrice*(1+variation))
			e.history.RecordPrice(coin.ID, price, e.rng.Float64()*0.1, ts)
		}
		fmt.Printf("[ENGINE] Initialized price history for %s with %d data points\n", coin.ID, totalSeconds)
	}
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
