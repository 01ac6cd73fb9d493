package market

// Strategy is one personality's trading behavior. Implementations read
// and mutate the bot's typed state and place trades through the market.
type Strategy interface {
	// Personality returns the profile this strategy implements.
	Personality() Personality
	// Describe returns a short human-readable summary of the approach.
	Describe() string
	// Trade runs one decision cycle for b against m.
	Trade(b *Bot, m Market)
}

var strategyRegistry = map[Personality]Strategy{}

// RegisterStrategy adds s to the registry. Registering the same
// personality twice panics; that is always a programming error.
func RegisterStrategy(s Strategy) {
	p := s.Personality()
	if _, dup := strategyRegistry[p]; dup {
		panic("market: duplicate strategy registration for " + string(p))
	}
	strategyRegistry[p] = s
}

// StrategyFor looks up the strategy implementing p.
func StrategyFor(p Personality) (Strategy, bool) {
	s, ok := strategyRegistry[p]
	return s, ok
}

// RegisteredStrategies returns how many strategies are registered.
func RegisteredStrategies() int {
	return len(strategyRegistry)
}

// strategyFunc adapts a plain function into a Strategy.
type strategyFunc struct {
	personality Personality
	description string
	trade       func(b *Bot, m Market)
}

func (s strategyFunc) Personality() Personality { return s.personality }
func (s strategyFunc) Describe() string         { return s.description }
func (s strategyFunc) Trade(b *Bot, m Market)   { s.trade(b, m) }

func register(p Personality, description string, trade func(b *Bot, m Market)) {
	RegisterStrategy(strategyFunc{personality: p, description: description, trade: trade})
}
