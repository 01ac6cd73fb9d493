package market

import (
	"math/rand"
	"testing"
	"time"
)

func TestGenerateRandomEventProbabilityGate(t *testing.T) {
	e := NewEvents()
	rng := rand.New(rand.NewSource(9))
	coins := map[string]*Coin{"RCOIN": {ID: "RCOIN", Name: "RealCoin", Price: 1.0, Liquidity: 1000}}

	// Probability 0 never fires; probability 1 always does.
	for i := 0; i < 100; i++ {
		if ev := e.GenerateRandomEvent(coins, 0, rng, time.Now()); ev != nil {
			t.Fatal("event fired at probability 0")
		}
	}
	ev := e.GenerateRandomEvent(coins, 1, rng, time.Now())
	if ev == nil {
		t.Fatal("event did not fire at probability 1")
	}
	if ev.Message == "" {
		t.Fatal("event has no message")
	}
	if len(e.ActiveEvents()) != 1 {
		t.Fatalf("expected 1 active event, got %d", len(e.ActiveEvents()))
	}
}

func TestGenerateRandomEventParameters(t *testing.T) {
	e := NewEvents()
	rng := rand.New(rand.NewSource(11))
	coins := map[string]*Coin{
		"RCOIN": {ID: "RCOIN", Name: "RealCoin", Price: 1.0, Liquidity: 1000},
		"DOGE2": {ID: "DOGE2", Name: "DogeCoin 2.0", Price: 0.5, Liquidity: 2000},
	}

	seenCorrelationBreak := false
	for i := 0; i < 300; i++ {
		ev := e.GenerateRandomEvent(coins, 1, rng, time.Now())
		if ev == nil {
			t.Fatal("event did not fire at probability 1")
		}

		if ev.PriceMultiplier <= 0 {
			t.Fatalf("%s/%s: bad price multiplier %v", ev.Type, ev.Severity, ev.PriceMultiplier)
		}
		if ev.VolatilityMultiplier < 1 {
			t.Fatalf("%s/%s: bad volatility multiplier %v", ev.Type, ev.Severity, ev.VolatilityMultiplier)
		}
		if ev.Duration < 30 || ev.Duration > 300 {
			t.Fatalf("%s/%s: duration %v out of range", ev.Type, ev.Severity, ev.Duration)
		}

		switch ev.Type {
		case EventCorrelationBreak:
			seenCorrelationBreak = true
			if ev.TargetCoin != "" {
				t.Fatalf("correlation break should be market-wide, got target %q", ev.TargetCoin)
			}
		case EventRugPull:
			if ev.PriceMultiplier != 0.1 || ev.VolatilityMultiplier != 10.0 || ev.Duration != 300 {
				t.Fatalf("rug pull parameters off: %+v", ev)
			}
		default:
			if ev.TargetCoin == "" {
				t.Fatalf("%s should target a coin", ev.Type)
			}
			if _, ok := coins[ev.TargetCoin]; !ok {
				t.Fatalf("%s targets unknown coin %q", ev.Type, ev.TargetCoin)
			}
		}
	}
	if !seenCorrelationBreak {
		t.Fatal("300 draws never produced a correlation break")
	}
}

func TestRugPullLifecycle(t *testing.T) {
	e := NewEvents()
	h := NewHistory()
	rng := rand.New(rand.NewSource(5))
	start := time.Now()
	coin := &Coin{ID: "RCOIN", Name: "RealCoin", Price: 100.0, Liquidity: 1000}
	coins := map[string]*Coin{"RCOIN": coin}

	e.active["event-test"] = &Event{
		ID:                   "event-test",
		Type:                 EventRugPull,
		TargetCoin:           "RCOIN",
		Severity:             SeverityExtreme,
		Duration:             300,
		PriceMultiplier:      0.1,
		VolatilityMultiplier: 10.0,
		Message:              "RUG PULL ALERT",
		Timestamp:            start,
	}

	// Inside the 2s shock window the 0.9x drop applies at full intensity.
	expired := e.ApplyEffects(coins, h, rng, start.Add(time.Second))
	if len(expired) != 0 {
		t.Fatal("event expired prematurely")
	}
	if coin.Price > 20 {
		t.Fatalf("rug pull should crater the price, got %v", coin.Price)
	}
	if len(h.Points("RCOIN")) != 1 {
		t.Fatal("event effect not recorded in price history")
	}
	shockPrice := coin.Price
	t.Logf("price after shock: %.4f", shockPrice)

	// Past the shock window only residual volatility applies.
	e.ApplyEffects(coins, h, rng, start.Add(30*time.Second))
	if coin.Price < shockPrice*0.5 || coin.Price > shockPrice*1.5 {
		t.Fatalf("post-shock volatility moved price too far: %v", coin.Price)
	}

	// Past the duration the event expires and stops acting.
	expired = e.ApplyEffects(coins, h, rng, start.Add(301*time.Second))
	if len(expired) != 1 || expired[0].ID != "event-test" {
		t.Fatalf("expected the event to expire, got %v", expired)
	}
	if len(e.ActiveEvents()) != 0 {
		t.Fatalf("expired event still active")
	}
}

func TestFutureStampedEventIsInert(t *testing.T) {
	e := NewEvents()
	h := NewHistory()
	rng := rand.New(rand.NewSource(7))
	start := time.Now()
	coin := &Coin{ID: "RCOIN", Name: "RealCoin", Price: 100.0, Liquidity: 1000}
	coins := map[string]*Coin{"RCOIN": coin}

	e.active["event-ahead"] = &Event{
		ID:                   "event-ahead",
		Type:                 EventRugPull,
		TargetCoin:           "RCOIN",
		Severity:             SeverityExtreme,
		Duration:             300,
		PriceMultiplier:      0.1,
		VolatilityMultiplier: 10.0,
		Message:              "RUG PULL ALERT",
		Timestamp:            start.Add(2 * time.Minute),
	}

	// A minute of ticks before the event's timestamp: no shock, no
	// volatility, no history, and the event stays armed.
	for i := 0; i < 60; i++ {
		if expired := e.ApplyEffects(coins, h, rng, start.Add(time.Duration(i)*time.Second)); len(expired) != 0 {
			t.Fatal("pending event expired before its timestamp")
		}
	}
	if coin.Price != 100.0 {
		t.Fatalf("event acted ahead of its timestamp: price %v", coin.Price)
	}
	if len(h.Points("RCOIN")) != 0 {
		t.Fatal("pending event wrote price history")
	}
	if len(e.ActiveEvents()) != 1 {
		t.Fatal("pending event should stay active")
	}

	// Once the clock reaches it, the shock lands normally.
	e.ApplyEffects(coins, h, rng, start.Add(2*time.Minute+time.Second))
	if coin.Price > 20 {
		t.Fatalf("shock did not land at its timestamp: price %v", coin.Price)
	}
}

func TestDiscardActiveDropsEverything(t *testing.T) {
	e := NewEvents()
	rng := rand.New(rand.NewSource(17))
	coins := map[string]*Coin{"RCOIN": {ID: "RCOIN", Name: "RealCoin", Price: 1.0, Liquidity: 1000}}

	for i := 0; i < 5; i++ {
		if ev := e.GenerateRandomEvent(coins, 1, rng, time.Now()); ev == nil {
			t.Fatal("event did not fire at probability 1")
		}
	}
	if n := e.DiscardActive(); n != 5 {
		t.Fatalf("expected 5 discarded events, got %d", n)
	}
	if len(e.ActiveEvents()) != 0 {
		t.Fatalf("events survived discard: %d", len(e.ActiveEvents()))
	}
	if n := e.DiscardActive(); n != 0 {
		t.Fatalf("discard on empty set returned %d", n)
	}
}

func TestCorrelationBreakHitsAllCoins(t *testing.T) {
	e := NewEvents()
	h := NewHistory()
	rng := rand.New(rand.NewSource(13))
	start := time.Now()
	coins := map[string]*Coin{
		"A": {ID: "A", Price: 1.0, Liquidity: 1000},
		"B": {ID: "B", Price: 2.0, Liquidity: 1000},
		"C": {ID: "C", Price: 3.0, Liquidity: 1000},
	}

	e.active["event-cb"] = &Event{
		ID:                   "event-cb",
		Type:                 EventCorrelationBreak,
		Severity:             SeverityMajor,
		Duration:             180,
		PriceMultiplier:      1.3,
		VolatilityMultiplier: 2.0,
		Message:              "CORRELATION BREAKDOWN",
		Timestamp:            start,
	}

	e.ApplyEffects(coins, h, rng, start.Add(time.Second))
	for id := range coins {
		if len(h.Points(id)) != 1 {
			t.Fatalf("coin %s untouched by market-wide event", id)
		}
	}
}
