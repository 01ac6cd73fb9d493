package market

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/realcoin/market-backend/internal/broadcast"
	"github.com/realcoin/market-backend/internal/store"
	"github.com/realcoin/market-backend/internal/testutil"
)

func newTestEngine(t *testing.T) (*Engine, store.Store) {
	t.Helper()
	cfg := testutil.TestConfig(t)
	st := testutil.SetupStore(t)
	return New(cfg, st, broadcast.Nop{}), st
}

func TestInitSeedsFreshMarket(t *testing.T) {
	ctx := context.Background()
	e, st := newTestEngine(t)

	if err := e.Init(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	coins := e.Coins()
	if len(coins) != len(defaultCoins) {
		t.Fatalf("expected %d seeded coins, got %d", len(defaultCoins), len(coins))
	}
	if _, ok := e.CoinSnapshot("RCOIN"); !ok {
		t.Fatal("RCOIN missing from the seeded market")
	}
	if e.BotCount() != e.cfg.DefaultBotCount {
		t.Fatalf("expected %d seeded bots, got %d", e.cfg.DefaultBotCount, e.BotCount())
	}

	// Init flushes the seeds, so the store holds them too.
	coinIDs, err := st.Keys(ctx, store.Coins)
	if err != nil {
		t.Fatalf("keys failed: %v", err)
	}
	if len(coinIDs) != len(defaultCoins) {
		t.Fatalf("expected %d persisted coins, got %d", len(defaultCoins), len(coinIDs))
	}
	botIDs, err := st.Keys(ctx, store.Bots)
	if err != nil {
		t.Fatalf("keys failed: %v", err)
	}
	if len(botIDs) != e.cfg.DefaultBotCount {
		t.Fatalf("expected %d persisted bots, got %d", e.cfg.DefaultBotCount, len(botIDs))
	}

	// Charts are warm immediately after init.
	if pts := e.history.Points("RCOIN"); len(pts) < 7200 {
		t.Fatalf("expected backfilled history, got %d points", len(pts))
	}
}

func TestInitLoadsPersistedMarket(t *testing.T) {
	ctx := context.Background()
	cfg := testutil.TestConfig(t)
	st := testutil.SetupStore(t)

	first := New(cfg, st, broadcast.Nop{})
	if err := first.Init(ctx); err != nil {
		t.Fatalf("first init failed: %v", err)
	}
	firstRCOIN, _ := first.CoinSnapshot("RCOIN")

	// A second engine on the same store loads state instead of reseeding.
	second := New(cfg, st, broadcast.Nop{})
	if err := second.Init(ctx); err != nil {
		t.Fatalf("second init failed: %v", err)
	}
	if second.BotCount() != first.BotCount() {
		t.Fatalf("bot count changed across restart: %d -> %d", first.BotCount(), second.BotCount())
	}
	reloaded, ok := second.CoinSnapshot("RCOIN")
	if !ok {
		t.Fatal("RCOIN lost across restart")
	}
	if reloaded.Price != firstRCOIN.Price {
		t.Fatalf("price changed across restart: %v -> %v", firstRCOIN.Price, reloaded.Price)
	}

	// Loaded bots must come back with usable traits.
	second.mu.Lock()
	for _, bot := range second.bots {
		if bot.Traits.Frequency == 0 {
			second.mu.Unlock()
			t.Fatalf("bot %s reloaded without traits", bot.ID)
		}
	}
	second.mu.Unlock()
}

func TestPlaceMarketOrder(t *testing.T) {
	ctx := context.Background()
	e, st := newTestEngine(t)
	if err := e.Init(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	before, _ := e.CoinSnapshot("RCOIN")
	placed, err := e.PlaceOrder(ctx, Order{
		UserID: "user-1",
		CoinID: "RCOIN",
		Side:   SideBuy,
		Type:   OrderMarket,
		Amount: 100,
	})
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	if placed.Status != OrderFilled {
		t.Fatalf("market order should fill, got %q", placed.Status)
	}
	if placed.ID == "" {
		t.Fatal("order was not assigned an id")
	}

	after, _ := e.CoinSnapshot("RCOIN")
	if after.Price <= before.Price {
		t.Fatalf("buy should push the price up: %v -> %v", before.Price, after.Price)
	}
	if after.Liquidity >= before.Liquidity {
		t.Fatalf("buy should consume liquidity: %v -> %v", before.Liquidity, after.Liquidity)
	}

	// The fill lands in a fresh portfolio funded with starting cash.
	portfolio, err := e.LoadPortfolio(ctx, "user-1")
	if err != nil {
		t.Fatalf("load portfolio failed: %v", err)
	}
	holding := portfolio.Holdings["RCOIN"]
	if holding.Amount != 100 {
		t.Fatalf("expected 100 units held, got %v", holding.Amount)
	}
	wantCash := e.cfg.HumanStartingCash - 100*after.Price
	if math.Abs(portfolio.Cash-wantCash) > 1e-6 {
		t.Fatalf("expected cash %v, got %v", wantCash, portfolio.Cash)
	}

	// Human orders and their trades are persisted.
	if _, found, _ := st.Get(ctx, store.Orders, placed.ID); !found {
		t.Fatal("human order not persisted")
	}
	trades := e.RecentTrades(1)
	if len(trades) != 1 || trades[0].BuyerID != "user-1" {
		t.Fatalf("expected the user's trade on top, got %+v", trades)
	}
	if _, found, _ := st.Get(ctx, store.Trades, trades[0].ID); !found {
		t.Fatal("human trade not persisted")
	}
	t.Logf("filled at %.6f, cash now %.2f", after.Price, portfolio.Cash)
}

func TestPlaceOrderBotNotPersisted(t *testing.T) {
	ctx := context.Background()
	e, st := newTestEngine(t)
	if err := e.Init(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	placed, err := e.PlaceOrder(ctx, Order{
		UserID: "bot-whalewendy-1",
		CoinID: "RCOIN",
		Side:   SideBuy,
		Type:   OrderMarket,
		Amount: 10,
	})
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	if _, found, _ := st.Get(ctx, store.Orders, placed.ID); found {
		t.Fatal("bot order should not be persisted")
	}
	ids, err := st.Keys(ctx, store.Trades)
	if err != nil {
		t.Fatalf("keys failed: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("bot trades should not be persisted, found %d", len(ids))
	}
}

func TestPlaceLimitOrderStaysPending(t *testing.T) {
	ctx := context.Background()
	e, st := newTestEngine(t)
	if err := e.Init(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	before, _ := e.CoinSnapshot("RCOIN")
	placed, err := e.PlaceOrder(ctx, Order{
		UserID: "user-1",
		CoinID: "RCOIN",
		Side:   SideBuy,
		Type:   OrderLimit,
		Price:  before.Price * 0.5,
		Amount: 100,
	})
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	if placed.Status != OrderPending {
		t.Fatalf("limit order should rest pending, got %q", placed.Status)
	}

	after, _ := e.CoinSnapshot("RCOIN")
	if after.Price != before.Price {
		t.Fatal("limit order must not move the price")
	}

	// Pending orders persist so the user can see and cancel them.
	data, found, err := st.Get(ctx, store.Orders, placed.ID)
	if err != nil || !found {
		t.Fatalf("limit order not persisted: found=%v err=%v", found, err)
	}
	var stored Order
	if err := json.Unmarshal(data, &stored); err != nil {
		t.Fatalf("decode stored order: %v", err)
	}
	if stored.Status != OrderPending {
		t.Fatalf("stored order status %q", stored.Status)
	}
}

func TestPlaceOrderUnknownCoin(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)
	if err := e.Init(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	if _, err := e.PlaceOrder(ctx, Order{UserID: "user-1", CoinID: "GHOST", Side: SideBuy, Type: OrderMarket, Amount: 1}); err == nil {
		t.Fatal("expected an error for an unknown coin")
	}
}

func TestLiquidityRecoversAfterDelay(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)
	if err := e.Init(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	// Pin the clock so the recovery delay is under test control, and
	// bench the bots so no other trades touch liquidity.
	base := time.Now()
	now := base
	e.nowFn = func() time.Time { return now }
	for _, bot := range e.bots {
		bot.Enabled = false
	}

	if _, err := e.PlaceOrder(ctx, Order{UserID: "user-1", CoinID: "RCOIN", Side: SideBuy, Type: OrderMarket, Amount: 500}); err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	consumed, _ := e.CoinSnapshot("RCOIN")

	// One tick before the delay elapses: nothing restored.
	now = base.Add(4 * time.Second)
	e.Tick()
	mid, _ := e.CoinSnapshot("RCOIN")
	if mid.Liquidity != consumed.Liquidity {
		t.Fatalf("liquidity restored early: %v -> %v", consumed.Liquidity, mid.Liquidity)
	}

	// Past the 5s delay the scheduled amount comes back.
	now = base.Add(6 * time.Second)
	e.Tick()
	restored, _ := e.CoinSnapshot("RCOIN")
	if restored.Liquidity <= consumed.Liquidity {
		t.Fatalf("liquidity not restored: %v -> %v", consumed.Liquidity, restored.Liquidity)
	}
	t.Logf("liquidity %.2f -> %.2f -> %.2f", consumed.Liquidity, mid.Liquidity, restored.Liquidity)
}

func TestTickAdvancesMarket(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)
	if err := e.Init(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	before := len(e.history.Points("RCOIN"))
	for i := 0; i < 10; i++ {
		e.Tick()
	}
	after := len(e.history.Points("RCOIN"))
	if after < before+10 {
		t.Fatalf("expected at least 10 new history points, got %d", after-before)
	}

	// The 10th tick recomputes analytics.
	analytics := e.Analytics()
	if analytics.TotalMarketCap == 0 {
		t.Fatal("analytics not recomputed after 10 ticks")
	}
	if len(analytics.TopGainers) != 5 {
		t.Fatalf("expected 5 top gainers, got %d", len(analytics.TopGainers))
	}
}

func TestFastForwardBootstrap(t *testing.T) {
	ctx := context.Background()
	cfg := testutil.TestConfig(t)
	cfg.FastForwardEnabled = true
	cfg.FastForwardDurationHours = 0.001 // 3.6 simulated seconds
	cfg.FastForwardTicksPerSec = 100
	cfg.DefaultBotCount = 5
	st := testutil.SetupStore(t)

	e := New(cfg, st, broadcast.Nop{})
	if err := e.Init(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	// 0.001h at 100 ticks/s is 360 ticks, give or take float rounding
	// in the duration conversion.
	if e.tickCount < 359 || e.tickCount > 360 {
		t.Fatalf("expected about 360 fast-forward ticks, got %d", e.tickCount)
	}
	if e.minFrequency != 0 {
		t.Fatalf("frequency floor should reset after fast forward, got %v", e.minFrequency)
	}

	// The virtual clock must not leak into live operation.
	if got := e.Now(); time.Since(got) > time.Minute {
		t.Fatalf("engine clock stuck in the past: %v", got)
	}
}

func TestFastForwardEndsAtWallClock(t *testing.T) {
	ctx := context.Background()
	cfg := testutil.TestConfig(t)
	cfg.FastForwardEnabled = true
	cfg.FastForwardDurationHours = 0.02 // 72 simulated seconds
	cfg.FastForwardTicksPerSec = 100
	cfg.DefaultBotCount = 30
	st := testutil.SetupStore(t)

	e := New(cfg, st, broadcast.Nop{})
	if err := e.Init(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	wall := time.Now()

	// Nothing the replay produced may be stamped ahead of wall time,
	// or the live handoff inherits frozen bots and hidden candles.
	pts := e.history.Points("RCOIN")
	if len(pts) == 0 {
		t.Fatal("no history after fast forward")
	}
	for _, p := range pts {
		if p.Timestamp.After(wall) {
			t.Fatalf("history point stamped %v, ahead of wall clock %v", p.Timestamp, wall)
		}
	}
	e.mu.Lock()
	for _, bot := range e.bots {
		if bot.LastAction.After(wall) {
			e.mu.Unlock()
			t.Fatalf("bot %s LastAction %v is ahead of wall clock", bot.ID, bot.LastAction)
		}
	}
	e.mu.Unlock()

	// Shocks opened on the virtual clock do not carry into live ticks.
	if n := len(e.ActiveEvents()); n != 0 {
		t.Fatalf("%d events still active after fast forward", n)
	}
}

func TestBotsSnapshot(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)
	if err := e.Init(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	e.mu.Lock()
	var marked string
	for id, bot := range e.bots {
		bot.Portfolio.Holdings["RCOIN"] = Holding{Amount: 5, AverageCost: 1.2}
		marked = id
		break
	}
	e.mu.Unlock()

	views := e.Bots()
	if len(views) != e.cfg.DefaultBotCount {
		t.Fatalf("expected %d bot views, got %d", e.cfg.DefaultBotCount, len(views))
	}
	for i := 1; i < len(views); i++ {
		if views[i-1].ID >= views[i].ID {
			t.Fatalf("views not sorted by id: %s before %s", views[i-1].ID, views[i].ID)
		}
	}

	for _, view := range views {
		if view.Strategy == "" || view.Strategy == "Unknown Strategy" {
			t.Fatalf("bot %s has no strategy description", view.ID)
		}
		if len(view.RecentActions) == 0 {
			t.Fatalf("bot %s has no recent actions", view.ID)
		}
		if last := view.RecentActions[len(view.RecentActions)-1]; last.Action != "FOCUS" {
			t.Fatalf("bot %s actions should end with its focus, got %q", view.ID, last.Action)
		}
		if view.ID != marked {
			continue
		}
		if view.RecentActions[0].Action != "HOLD" {
			t.Fatalf("holding bot should report HOLD first, got %q", view.RecentActions[0].Action)
		}
	}
}

// flakyStore fails a configured number of writes, then behaves.
type flakyStore struct {
	store.Store
	failSets int
}

func (s *flakyStore) Set(ctx context.Context, collection, id string, data []byte) error {
	if s.failSets > 0 {
		s.failSets--
		return errors.New("simulated write failure")
	}
	return s.Store.Set(ctx, collection, id, data)
}

func TestFlushSavesRetriesFailedWrites(t *testing.T) {
	ctx := context.Background()
	cfg := testutil.TestConfig(t)
	st := &flakyStore{Store: testutil.SetupStore(t)}
	e := New(cfg, st, broadcast.Nop{})
	if err := e.Init(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	e.mu.Lock()
	e.coins["RCOIN"].Price = 42.0
	e.QueueCoinSave("RCOIN")
	e.mu.Unlock()

	st.failSets = 1
	if err := e.flushSaves(ctx); err == nil {
		t.Fatal("expected the flush to surface the write failure")
	}

	// The failed record stays queued and lands on the next flush.
	e.mu.Lock()
	_, queued := e.coinSaveQueue["RCOIN"]
	e.mu.Unlock()
	if !queued {
		t.Fatal("failed save dropped from the queue")
	}
	if err := e.flushSaves(ctx); err != nil {
		t.Fatalf("retry flush failed: %v", err)
	}

	data, found, err := st.Get(ctx, store.Coins, "RCOIN")
	if err != nil || !found {
		t.Fatalf("coin not persisted after retry: found=%v err=%v", found, err)
	}
	var coin Coin
	if err := json.Unmarshal(data, &coin); err != nil {
		t.Fatalf("decode persisted coin: %v", err)
	}
	if coin.Price != 42.0 {
		t.Fatalf("persisted price %v, want 42.0", coin.Price)
	}
}

func TestPriceHistoryAccessor(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)
	if err := e.Init(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	candles := e.PriceHistory("RCOIN", "1m", 30)
	if len(candles) != 30 {
		t.Fatalf("expected 30 candles, got %d", len(candles))
	}
	for _, c := range candles {
		if c.Close <= 0 {
			t.Fatalf("non-positive close in %+v", c)
		}
	}
}
