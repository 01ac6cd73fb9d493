package market

import (
	"math"
	"testing"
)

func TestEveryPersonalityHasAStrategy(t *testing.T) {
	personalities := AllPersonalities()
	if got := RegisteredStrategies(); got != len(personalities) {
		t.Fatalf("registered %d strategies for %d personalities", got, len(personalities))
	}
	for _, p := range personalities {
		s, ok := StrategyFor(p)
		if !ok {
			t.Fatalf("no strategy registered for %q", p)
		}
		if s.Personality() != p {
			t.Fatalf("strategy for %q reports personality %q", p, s.Personality())
		}
		if s.Describe() == "" {
			t.Fatalf("strategy for %q has no description", p)
		}
	}
}

func TestMomentumBuysRallies(t *testing.T) {
	coin := &Coin{ID: "RCOIN", Price: 1.0, Liquidity: 1e9}
	m := newTestMarket(coin)
	bot := NewBot("bot-1", MomentumMaxine, "RCOIN", nil, 10000, m.rng)
	s, _ := StrategyFor(MomentumMaxine)

	// Warm the full 10-sample window, then rally 2% above its start.
	bot.State.PriceHistory = make([]float64, 10)
	for i := range bot.State.PriceHistory {
		bot.State.PriceHistory[i] = 1.00
	}
	coin.Price = 1.02
	s.Trade(bot, m)

	if m.lastSide != SideBuy || m.impacts != 1 {
		t.Fatalf("expected a buy on a rally, got side=%q impacts=%d", m.lastSide, m.impacts)
	}
	if _, ok := bot.Portfolio.Holdings["RCOIN"]; !ok {
		t.Fatal("buy did not land in the portfolio")
	}
}

func TestMomentumSellsSelloffs(t *testing.T) {
	coin := &Coin{ID: "RCOIN", Price: 0.98, Liquidity: 1e9}
	m := newTestMarket(coin)
	bot := NewBot("bot-1", MomentumMaxine, "RCOIN", nil, 10000, m.rng)
	bot.Portfolio.Holdings["RCOIN"] = Holding{Amount: 100, AverageCost: 1.0}
	bot.State.PriceHistory = make([]float64, 10)
	for i := range bot.State.PriceHistory {
		bot.State.PriceHistory[i] = 1.00
	}
	s, _ := StrategyFor(MomentumMaxine)

	s.Trade(bot, m)
	if m.lastSide != SideSell || m.impacts != 1 {
		t.Fatalf("expected a sell on a selloff, got side=%q impacts=%d", m.lastSide, m.impacts)
	}
}

func TestMomentumWaitsForWindow(t *testing.T) {
	coin := &Coin{ID: "RCOIN", Price: 5.0, Liquidity: 1e9}
	m := newTestMarket(coin)
	bot := NewBot("bot-1", MomentumMaxine, "RCOIN", nil, 10000, m.rng)
	s, _ := StrategyFor(MomentumMaxine)

	// First two calls only fill the window.
	s.Trade(bot, m)
	s.Trade(bot, m)
	if m.impacts != 0 {
		t.Fatalf("traded with %d samples", len(bot.State.PriceHistory))
	}
}

func TestMarketMakerAlternatesSides(t *testing.T) {
	coin := &Coin{ID: "RCOIN", Price: 1.0, Liquidity: 1e9}
	m := newTestMarket(coin)
	bot := NewBot("bot-1", MarketmakerMike, "RCOIN", nil, 10000, m.rng)
	s, _ := StrategyFor(MarketmakerMike)

	s.Trade(bot, m)
	if bot.State.MMLastSide != SideBuy {
		t.Fatalf("fresh market maker should buy first, got %q", bot.State.MMLastSide)
	}

	s.Trade(bot, m)
	if bot.State.MMLastSide != SideSell {
		t.Fatalf("second pass should sell, got %q", bot.State.MMLastSide)
	}

	s.Trade(bot, m)
	if bot.State.MMLastSide != SideBuy {
		t.Fatalf("third pass should buy again, got %q", bot.State.MMLastSide)
	}
	t.Logf("sides alternated across %d passes", 3)
}

func TestPanicPeteDumpsDecliningHoldings(t *testing.T) {
	coin := &Coin{ID: "RCOIN", Price: 0.90, Liquidity: 1e9}
	m := newTestMarket(coin)
	bot := NewBot("bot-1", PanicPete, "RCOIN", nil, 1000, m.rng)
	bot.Portfolio.Holdings["RCOIN"] = Holding{Amount: 50, AverageCost: 1.0}
	bot.State.PriceHistory = []float64{1.00, 1.00, 1.00}
	s, _ := StrategyFor(PanicPete)

	s.Trade(bot, m)
	if _, ok := bot.Portfolio.Holdings["RCOIN"]; ok {
		t.Fatal("pete should dump the whole declining position")
	}
	if m.lastSide != SideSell {
		t.Fatalf("expected a sell, got %q", m.lastSide)
	}
}

func TestPanicPeteHoldsWithoutPositions(t *testing.T) {
	coin := &Coin{ID: "RCOIN", Price: 0.5, Liquidity: 1e9}
	m := newTestMarket(coin)
	bot := NewBot("bot-1", PanicPete, "RCOIN", nil, 1000, m.rng)
	s, _ := StrategyFor(PanicPete)

	s.Trade(bot, m)
	if m.impacts != 0 {
		t.Fatal("pete traded with nothing to panic about")
	}
}

func TestStoplossSteveCutsLosses(t *testing.T) {
	coin := &Coin{ID: "RCOIN", Price: 0.90, Liquidity: 1e9}
	m := newTestMarket(coin)
	bot := NewBot("bot-1", StoplossSteve, "RCOIN", nil, 1000, m.rng)
	bot.Portfolio.Holdings["RCOIN"] = Holding{Amount: 25, AverageCost: 1.0}
	bot.State.EntryPrice = 1.0
	s, _ := StrategyFor(StoplossSteve)

	// Price 10% under the entry trips the 3% stop.
	s.Trade(bot, m)
	if _, ok := bot.Portfolio.Holdings["RCOIN"]; ok {
		t.Fatal("stop loss should flatten the position")
	}
	// The sell's own impact nudges the price, so compare loosely.
	if math.Abs(bot.State.EntryPrice-0.90) > 1e-6 {
		t.Fatalf("entry should reset near the stop price, got %v", bot.State.EntryPrice)
	}
}

func TestContrarianFadesMoves(t *testing.T) {
	coin := &Coin{ID: "RCOIN", Price: 0.96, Liquidity: 1e9}
	m := newTestMarket(coin)
	bot := NewBot("bot-1", ContrarianCarl, "RCOIN", nil, 10000, m.rng)
	s, _ := StrategyFor(ContrarianCarl)

	// A 4% drop from the window start is a buy signal for carl.
	bot.State.PriceHistory = make([]float64, 10)
	for i := range bot.State.PriceHistory {
		bot.State.PriceHistory[i] = 1.0
	}

	s.Trade(bot, m)
	if m.lastSide != SideBuy || m.impacts != 1 {
		t.Fatalf("expected carl to buy the dip, got side=%q impacts=%d", m.lastSide, m.impacts)
	}
}

func TestFomoFionaChasesAndPanics(t *testing.T) {
	coin := &Coin{ID: "RCOIN", Price: 1.15, Liquidity: 1e9}
	m := newTestMarket(coin)
	bot := NewBot("bot-1", FomoFiona, "RCOIN", nil, 10000, m.rng)
	bot.State.PriceHistory = []float64{1.0, 1.0, 1.0, 1.0, 1.0}
	s, _ := StrategyFor(FomoFiona)

	// +15% over 5 samples: fiona piles in and marks her entry.
	s.Trade(bot, m)
	if m.lastSide != SideBuy {
		t.Fatalf("expected a FOMO buy, got %q", m.lastSide)
	}
	if bot.State.FOMOEntry == 0 {
		t.Fatal("FOMO entry not recorded")
	}

	// The coin collapses below 95% of her entry: she dumps everything.
	coin.Price = bot.State.FOMOEntry * 0.90
	s.Trade(bot, m)
	if _, ok := bot.Portfolio.Holdings["RCOIN"]; ok {
		t.Fatal("fiona should panic out of her whole position")
	}
	if bot.State.FOMOEntry != 0 {
		t.Fatalf("FOMO entry should clear after the panic exit, got %v", bot.State.FOMOEntry)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("duplicate registration should panic")
		}
	}()
	RegisterStrategy(strategyFunc{
		personality: MomentumMaxine,
		description: "dup",
		trade:       func(b *Bot, m Market) {},
	})
}
