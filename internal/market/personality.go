package market

import (
	"math/rand"
	"sort"
)

// Personality identifies one of the fixed bot behavior profiles.
type Personality string

const (
	MomentumMaxine     Personality = "momentum-maxine"
	MeanRevertorMarvin Personality = "mean-revertor-marvin"
	WhaleWendy         Personality = "whale-wendy"
	PatternProphet     Personality = "pattern-prophet"
	StoplossSteve      Personality = "stoploss-steve"
	CopycatCarla       Personality = "copycat-carla"
	ContrarianCarl     Personality = "contrarian-carl"
	FomoFiona          Personality = "fomo-fiona"
	LongtermLarry      Personality = "longterm-larry"
	ApeAlex            Personality = "ape-alex"
	QuantQuinn         Personality = "quant-quinn"
	DoomDaniel         Personality = "doom-daniel"
	LazyLisa           Personality = "lazy-lisa"
	ArbitrageArnie     Personality = "arbitrage-arnie"
	InfluencerIzzy     Personality = "influencer-izzy"
	ScalperSally       Personality = "scalper-sally"
	DaytraderDanny     Personality = "daytrader-danny"
	SwingtraderSam     Personality = "swingtrader-sam"
	NewsNancy          Personality = "news-nancy"
	TechnicalTed       Personality = "technical-ted"
	FundamentalFrank   Personality = "fundamental-frank"
	RandomRick         Personality = "random-rick"
	CorrelationCora    Personality = "correlation-cora"
	VolatilityVictor   Personality = "volatility-victor"
	LiquidityLucy      Personality = "liquidity-lucy"
	BreakoutBob        Personality = "breakout-bob"
	SupportSarah       Personality = "support-sarah"
	MarketmakerMike    Personality = "marketmaker-mike"
	SniperSteve        Personality = "sniper-steve"
	PanicPete          Personality = "panic-pete"
	PatientPaul        Personality = "patient-paul"
	TrendfollowerTim   Personality = "trendfollower-tim"
	MeanReversionMary  Personality = "meanreversionmary"
	FibonacciFran      Personality = "fibonacci-fran"
	VolumeVince        Personality = "volume-vince"
)

// Traits are the fixed behavioral parameters of a personality.
// Aggressiveness, VolatilityLove and HerdMentality are on a 1-10 scale;
// Frequency is preferred actions per minute.
type Traits struct {
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	TradingStyle   string  `json:"tradingStyle"`
	Aggressiveness float64 `json:"aggressiveness"`
	Frequency      float64 `json:"frequency"`
	VolatilityLove float64 `json:"volatilityLove"`
	HerdMentality  float64 `json:"herdMentality"`
	Announcement   bool    `json:"announcement,omitempty"`
}

var personalityTraits = map[Personality]Traits{
	MomentumMaxine: {
		Name:           "Momentum Maxine",
		Description:    "it went up yesterday so it'll go up forever, right?",
		TradingStyle:   "momentum-chaser",
		Aggressiveness: 7, Frequency: 3, VolatilityLove: 9, HerdMentality: 8,
	},
	MeanRevertorMarvin: {
		Name:           "Mean Revertor Marvin",
		Description:    "everything returns to average… except my portfolio.",
		TradingStyle:   "contrarian",
		Aggressiveness: 8, Frequency: 2, VolatilityLove: 4, HerdMentality: 2,
	},
	WhaleWendy: {
		Name:           "Whale Wendy",
		Description:    "i woke up and chose financial destruction.",
		TradingStyle:   "whale",
		Aggressiveness: 10, Frequency: 0.5, VolatilityLove: 10, HerdMentality: 1,
	},
	PatternProphet: {
		Name:           "Pattern Prophet",
		Description:    "i see triangles in the candles.",
		TradingStyle:   "technical",
		Aggressiveness: 4, Frequency: 5, VolatilityLove: 6, HerdMentality: 3,
	},
	StoplossSteve: {
		Name:           "Stoploss Steve",
		Description:    "i panic instantly.",
		TradingStyle:   "panic",
		Aggressiveness: 6, Frequency: 4, VolatilityLove: 2, HerdMentality: 7,
	},
	CopycatCarla: {
		Name:           "Copycat Carla",
		Description:    "if everyone's buying, so am i!",
		TradingStyle:   "follower",
		Aggressiveness: 5, Frequency: 4, VolatilityLove: 5, HerdMentality: 10,
	},
	ContrarianCarl: {
		Name:           "Contrarian Carl",
		Description:    "if everyone's buying, i'm selling.",
		TradingStyle:   "contrarian",
		Aggressiveness: 6, Frequency: 3, VolatilityLove: 7, HerdMentality: 1,
	},
	FomoFiona: {
		Name:           "FOMO Fiona",
		Description:    "it's pumping, I can't miss out!",
		TradingStyle:   "fomo",
		Aggressiveness: 9, Frequency: 2, VolatilityLove: 10, HerdMentality: 9,
	},
	LongtermLarry: {
		Name:           "Long-Term Larry",
		Description:    "i believe in fundamentals. (there are none.)",
		TradingStyle:   "hodler",
		Aggressiveness: 3, Frequency: 0.2, VolatilityLove: 3, HerdMentality: 2,
	},
	ApeAlex: {
		Name:           "Ape Alex",
		Description:    "ape strong together.",
		TradingStyle:   "herd",
		Aggressiveness: 8, Frequency: 3, VolatilityLove: 8, HerdMentality: 10,
	},
	QuantQuinn: {
		Name:           "Quant Quinn",
		Description:    "trust the math, not emotions.",
		TradingStyle:   "quant",
		Aggressiveness: 4, Frequency: 1, VolatilityLove: 3, HerdMentality: 1,
	},
	DoomDaniel: {
		Name:           "Doom Daniel",
		Description:    "the crash is *always* coming.",
		TradingStyle:   "bear",
		Aggressiveness: 5, Frequency: 2, VolatilityLove: 8, HerdMentality: 2,
	},
	LazyLisa: {
		Name:           "Lazy Lisa",
		Description:    "i'll trade later…",
		TradingStyle:   "lazy",
		Aggressiveness: 2, Frequency: 0.3, VolatilityLove: 1, HerdMentality: 3,
	},
	ArbitrageArnie: {
		Name:           "Arbitrage Arnie",
		Description:    "spot inefficiencies, badly.",
		TradingStyle:   "arbitrage",
		Aggressiveness: 6, Frequency: 4, VolatilityLove: 5, HerdMentality: 1,
	},
	InfluencerIzzy: {
		Name:           "Influencer Izzy",
		Description:    "this coin's going to the moon! (because I said so)",
		TradingStyle:   "influencer",
		Aggressiveness: 8, Frequency: 1, VolatilityLove: 9, HerdMentality: 5,
		Announcement:   true,
	},
	ScalperSally: {
		Name:           "Scalper Sally",
		Description:    "tiny profits, massive frequency. death by a thousand cuts.",
		TradingStyle:   "scalping",
		Aggressiveness: 3, Frequency: 10, VolatilityLove: 8, HerdMentality: 2,
	},
	DaytraderDanny: {
		Name:           "Day Trader Danny",
		Description:    "in at 9am, out by 5pm. no overnight risk!",
		TradingStyle:   "daytrading",
		Aggressiveness: 6, Frequency: 5, VolatilityLove: 7, HerdMentality: 4,
	},
	SwingtraderSam: {
		Name:           "Swing Trader Sam",
		Description:    "hold for days, not minutes. patience is virtue.",
		TradingStyle:   "swing",
		Aggressiveness: 4, Frequency: 0.5, VolatilityLove: 5, HerdMentality: 3,
	},
	NewsNancy: {
		Name:           "News Nancy",
		Description:    "trades on every headline and rumor.",
		TradingStyle:   "news",
		Aggressiveness: 7, Frequency: 1, VolatilityLove: 9, HerdMentality: 6,
	},
	TechnicalTed: {
		Name:           "Technical Ted",
		Description:    "RSI, MACD, Bollinger Bands... has indicators for days.",
		TradingStyle:   "technical",
		Aggressiveness: 5, Frequency: 3, VolatilityLove: 6, HerdMentality: 2,
	},
	FundamentalFrank: {
		Name:           "Fundamental Frank",
		Description:    "analyzing tokenomics of meme coins. good luck.",
		TradingStyle:   "fundamental",
		Aggressiveness: 3, Frequency: 0.3, VolatilityLove: 2, HerdMentality: 1,
	},
	RandomRick: {
		Name:           "Random Rick",
		Description:    "coin flips and dice rolls. surprisingly effective.",
		TradingStyle:   "random",
		Aggressiveness: 5, Frequency: 2, VolatilityLove: 10, HerdMentality: 5,
	},
	CorrelationCora: {
		Name:           "Correlation Cora",
		Description:    "if PIZZA goes up, TACO must follow... right?",
		TradingStyle:   "correlation",
		Aggressiveness: 4, Frequency: 2, VolatilityLove: 4, HerdMentality: 3,
	},
	VolatilityVictor: {
		Name:           "Volatility Victor",
		Description:    "loves chaos, hates boring sideways action.",
		TradingStyle:   "volatility",
		Aggressiveness: 8, Frequency: 4, VolatilityLove: 10, HerdMentality: 3,
	},
	LiquidityLucy: {
		Name:           "Liquidity Lucy",
		Description:    "only trades where there's volume. avoids thin markets.",
		TradingStyle:   "liquidity",
		Aggressiveness: 3, Frequency: 1, VolatilityLove: 3, HerdMentality: 4,
	},
	BreakoutBob: {
		Name:           "Breakout Bob",
		Description:    "waiting for that explosive move above resistance.",
		TradingStyle:   "breakout",
		Aggressiveness: 7, Frequency: 1, VolatilityLove: 9, HerdMentality: 5,
	},
	SupportSarah: {
		Name:           "Support Sarah",
		Description:    "buys the dip at every support level.",
		TradingStyle:   "support",
		Aggressiveness: 6, Frequency: 2, VolatilityLove: 4, HerdMentality: 2,
	},
	MarketmakerMike: {
		Name:           "Market Maker Mike",
		Description:    "provides liquidity for tiny spreads. the real MVP.",
		TradingStyle:   "market-making",
		Aggressiveness: 2, Frequency: 8, VolatilityLove: 1, HerdMentality: 1,
	},
	SniperSteve: {
		Name:           "Sniper Steve",
		Description:    "waits for the perfect setup. then strikes hard.",
		TradingStyle:   "sniper",
		Aggressiveness: 9, Frequency: 0.1, VolatilityLove: 6, HerdMentality: 1,
	},
	PanicPete: {
		Name:           "Panic Pete",
		Description:    "sells at the first sign of trouble. paper hands incarnate.",
		TradingStyle:   "panic",
		Aggressiveness: 8, Frequency: 6, VolatilityLove: 2, HerdMentality: 9,
	},
	PatientPaul: {
		Name:           "Patient Paul",
		Description:    "waits months for the right opportunity.",
		TradingStyle:   "patient",
		Aggressiveness: 2, Frequency: 0.05, VolatilityLove: 1, HerdMentality: 1,
	},
	TrendfollowerTim: {
		Name:           "Trend Follower Tim",
		Description:    "the trend is your friend... until it ends.",
		TradingStyle:   "trend",
		Aggressiveness: 6, Frequency: 2, VolatilityLove: 7, HerdMentality: 7,
	},
	MeanReversionMary: {
		Name:           "Mean Reversion Mary",
		Description:    "everything that goes up must come down.",
		TradingStyle:   "mean-reversion",
		Aggressiveness: 5, Frequency: 3, VolatilityLove: 5, HerdMentality: 2,
	},
	FibonacciFran: {
		Name:           "Fibonacci Fran",
		Description:    "sees golden ratios in every price movement.",
		TradingStyle:   "fibonacci",
		Aggressiveness: 4, Frequency: 1, VolatilityLove: 6, HerdMentality: 2,
	},
	VolumeVince: {
		Name:           "Volume Vince",
		Description:    "price follows volume. volume never lies.",
		TradingStyle:   "volume",
		Aggressiveness: 5, Frequency: 4, VolatilityLove: 8, HerdMentality: 4,
	},
}

// TraitsFor returns the trait profile for p. Unknown personalities are
// reported as not ok so callers can fall back to a random one.
func TraitsFor(p Personality) (Traits, bool) {
	t, ok := personalityTraits[p]
	return t, ok
}

// AllPersonalities returns every known personality in a stable order.
func AllPersonalities() []Personality {
	out := make([]Personality, 0, len(personalityTraits))
	for p := range personalityTraits {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// RandomPersonality picks a personality uniformly at random.
func RandomPersonality(rng *rand.Rand) Personality {
	all := AllPersonalities()
	return all[rng.Intn(len(all))]
}
