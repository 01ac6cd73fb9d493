package market

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// EventType classifies a market shock.
type EventType string

const (
	EventFlashCrash       EventType = "flash_crash"
	EventPump             EventType = "pump"
	EventRugPull          EventType = "rug_pull"
	EventWhaleDump        EventType = "whale_dump"
	EventNewsSpike        EventType = "news_spike"
	EventCorrelationBreak EventType = "correlation_break"
	EventLiquidityCrisis  EventType = "liquidity_crisis"
)

// Severity scales an event's price and volatility effect.
type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityModerate Severity = "moderate"
	SeverityMajor    Severity = "major"
	SeverityExtreme  Severity = "extreme"
)

// Event is a time-bounded exogenous shock on one coin, or on the whole
// market for correlation breaks.
type Event struct {
	ID                   string    `json:"id"`
	Type                 EventType `json:"type"`
	TargetCoin           string    `json:"targetCoin,omitempty"`
	Severity             Severity  `json:"severity"`
	Duration             float64   `json:"duration"` // seconds
	PriceMultiplier      float64   `json:"priceMultiplier"`
	VolatilityMultiplier float64   `json:"volatilityMultiplier"`
	Message              string    `json:"message"`
	Timestamp            time.Time `json:"timestamp"`
}

var eventTypes = []EventType{
	EventFlashCrash, EventPump, EventRugPull, EventWhaleDump,
	EventNewsSpike, EventCorrelationBreak, EventLiquidityCrisis,
}

var severities = []Severity{SeverityMinor, SeverityModerate, SeverityMajor, SeverityExtreme}

// Events tracks active market shocks. Not safe for concurrent use; the
// engine serializes access.
type Events struct {
	active    map[string]*Event
	idCounter int
}

func NewEvents() *Events {
	return &Events{active: make(map[string]*Event)}
}

// GenerateRandomEvent rolls for a new shock with the given per-tick
// probability and activates it. Returns nil when no event fires.
func (e *Events) GenerateRandomEvent(coins map[string]*Coin, probability float64, rng *rand.Rand, now time.Time) *Event {
	if rng.Float64() > probability {
		return nil
	}

	coinIDs := make([]string, 0, len(coins))
	for id := range coins {
		coinIDs = append(coinIDs, id)
	}
	if len(coinIDs) == 0 {
		return nil
	}

	eventType := eventTypes[rng.Intn(len(eventTypes))]
	severity := severities[rng.Intn(len(severities))]
	targetCoin := coinIDs[rng.Intn(len(coinIDs))]

	targetName := targetCoin
	if c := coins[targetCoin]; c != nil {
		targetName = c.Name
	}

	priceMultiplier := 1.0
	volatilityMultiplier := 1.0
	duration := 30.0
	message := ""

	switch eventType {
	case EventFlashCrash:
		switch severity {
		case SeverityExtreme:
			priceMultiplier, volatilityMultiplier, duration = 0.4, 5.0, 120
		case SeverityMajor:
			priceMultiplier, volatilityMultiplier, duration = 0.6, 3.0, 90
		case SeverityModerate:
			priceMultiplier, volatilityMultiplier, duration = 0.8, 2.0, 60
		default:
			priceMultiplier, volatilityMultiplier, duration = 0.9, 2.0, 60
		}
		message = fmt.Sprintf("FLASH CRASH: %s plummets %d%% in seconds!", targetName, int(math.Round((1-priceMultiplier)*100)))

	case EventPump:
		switch severity {
		case SeverityExtreme:
			priceMultiplier, volatilityMultiplier, duration = 3.0, 4.0, 180
		case SeverityMajor:
			priceMultiplier, volatilityMultiplier, duration = 2.2, 2.5, 120
		case SeverityModerate:
			priceMultiplier, volatilityMultiplier, duration = 1.6, 2.0, 90
		default:
			priceMultiplier, volatilityMultiplier, duration = 1.3, 2.0, 90
		}
		message = fmt.Sprintf("MASSIVE PUMP: %s rockets %d%% to the moon!", targetName, int(math.Round((priceMultiplier-1)*100)))

	case EventRugPull:
		priceMultiplier, volatilityMultiplier, duration = 0.1, 10.0, 300
		message = fmt.Sprintf("RUG PULL ALERT: %s developers have vanished! -90%% and falling!", targetName)

	case EventWhaleDump:
		switch severity {
		case SeverityExtreme:
			priceMultiplier = 0.3
		case SeverityMajor:
			priceMultiplier = 0.5
		default:
			priceMultiplier = 0.7
		}
		volatilityMultiplier, duration = 3.0, 60
		message = fmt.Sprintf("WHALE DUMP: Massive %s sell-off detected! Price cascading down!", targetName)

	case EventNewsSpike:
		if rng.Float64() < 0.5 {
			switch severity {
			case SeverityExtreme:
				priceMultiplier = 2.5
			case SeverityMajor:
				priceMultiplier = 1.8
			default:
				priceMultiplier = 1.4
			}
		} else {
			switch severity {
			case SeverityExtreme:
				priceMultiplier = 0.5
			case SeverityMajor:
				priceMultiplier = 0.7
			default:
				priceMultiplier = 0.85
			}
		}
		volatilityMultiplier, duration = 2.5, 120
		tone, sign := "Bearish", ""
		if priceMultiplier > 1 {
			tone, sign = "Bullish", "+"
		}
		message = fmt.Sprintf("BREAKING NEWS: %s news hits %s! %s%d%%", tone, targetName, sign, int(math.Round((priceMultiplier-1)*100)))

	case EventCorrelationBreak:
		priceMultiplier = 0.8
		if rng.Float64() < 0.5 {
			priceMultiplier = 1.3
		}
		volatilityMultiplier, duration = 2.0, 180
		message = "CORRELATION BREAKDOWN: Market relationships breaking down, chaos ensues!"

	case EventLiquidityCrisis:
		priceMultiplier, volatilityMultiplier, duration = 0.6, 4.0, 240
		message = fmt.Sprintf("LIQUIDITY CRISIS: %s liquidity evaporates, spreads widen!", targetName)
	}

	event := &Event{
		ID:                   fmt.Sprintf("event-%d", e.idCounter),
		Type:                 eventType,
		Severity:             severity,
		Duration:             duration,
		PriceMultiplier:      priceMultiplier,
		VolatilityMultiplier: volatilityMultiplier,
		Message:              message,
		Timestamp:            now,
	}
	e.idCounter++

	// Correlation breaks hit the whole market, not one coin.
	if eventType != EventCorrelationBreak {
		event.TargetCoin = targetCoin
	}

	e.active[event.ID] = event
	fmt.Printf("[EVENT] %s\n", event.Message)
	return event
}

// ApplyEffects applies every active event to the coins, records the
// resulting price moves into history, and expires events past their
// duration. The expired events are returned so callers can announce
// their end.
func (e *Events) ApplyEffects(coins map[string]*Coin, history *History, rng *rand.Rand, now time.Time) []*Event {
	var expired []*Event

	for id, event := range e.active {
		elapsed := now.Sub(event.Timestamp).Seconds()
		if elapsed < 0 {
			// Stamped ahead of the clock; inert until its time comes.
			continue
		}
		if elapsed > event.Duration {
			expired = append(expired, event)
			delete(e.active, id)
			continue
		}

		if event.TargetCoin != "" {
			if coin := coins[event.TargetCoin]; coin != nil {
				applyEventToCoin(coin, event, elapsed, 1.0, history, rng, now)
			}
		} else if event.Type == EventCorrelationBreak {
			for _, coin := range coins {
				applyEventToCoin(coin, event, elapsed, 0.3, history, rng, now)
			}
		}
	}

	for _, event := range expired {
		fmt.Printf("[EVENT] Concluded: %s\n", event.Message)
	}
	return expired
}

// applyEventToCoin shocks one coin. The price multiplier lands in the
// first two seconds; extra volatility decays over the event's lifetime.
func applyEventToCoin(coin *Coin, event *Event, elapsed, intensityMultiplier float64, history *History, rng *rand.Rand, now time.Time) {
	progress := elapsed / event.Duration
	intensity := math.Max(0.1, 1.0-progress) * intensityMultiplier

	if elapsed < 2 {
		adjusted := 1 + (event.PriceMultiplier-1)*intensity
		coin.Price *= adjusted

		if math.IsNaN(coin.Price) || math.IsInf(coin.Price, 0) || coin.Price <= 0 || coin.Price > maxValidPrice {
			p := coin.Price
			if math.IsNaN(p) || math.IsInf(p, 0) || p == 0 {
				p = 1.0
			}
			coin.Price = math.Max(0.001, math.Min(1e6, p))
		}
	}

	extraVol := (event.VolatilityMultiplier - 1) * intensity * 0.1
	volatilityJump := (rng.Float64() - 0.5) * extraVol
	newPrice := coin.Price * (1 + volatilityJump)
	if !math.IsNaN(newPrice) && !math.IsInf(newPrice, 0) && newPrice > 0 && newPrice < maxValidPrice {
		coin.Price = newPrice
	}

	coin.LastUpdated = now
	history.RecordPrice(coin.ID, coin.Price, math.Abs(volatilityJump)*100, now)
}

// DiscardActive drops every active event without applying further
// effects and returns how many were dropped.
func (e *Events) DiscardActive() int {
	n := len(e.active)
	for id := range e.active {
		delete(e.active, id)
	}
	return n
}

// ActiveEvents returns a snapshot of the currently active events.
func (e *Events) ActiveEvents() []*Event {
	out := make([]*Event, 0, len(e.active))
	for _, ev := range e.active {
		out = append(out, ev)
	}
	return out
}
