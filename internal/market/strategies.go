package market

import (
	"fmt"
	"math"
	"time"
)

func init() {
	register(MomentumMaxine, "Momentum Trading - Following price trends", momentumMaxineTrade)
	register(MeanRevertorMarvin, "Mean Reversion - Betting on price corrections", meanRevertorMarvinTrade)
	register(WhaleWendy, "Whale Trading - Large position manipulation", whaleWendyTrade)
	register(PatternProphet, "Pattern Recognition - Technical analysis", patternProphetTrade)
	register(StoplossSteve, "Risk Management - Stop-loss focused", stoplossSteveTrade)
	register(CopycatCarla, "Copy Trading - Following other successful trades", copycatCarlaTrade)
	register(ContrarianCarl, "Contrarian - Going against the crowd", contrarianCarlTrade)
	register(FomoFiona, "FOMO Trading - Chasing hot trends", fomoFionaTrade)
	register(LongtermLarry, "Long-term Holding - Buy and hold strategy", longtermLarryTrade)
	register(ApeAlex, "Ape Trading - High-risk, high-reward plays", apeAlexTrade)
	register(QuantQuinn, "Quantitative Analysis - Multi-coin statistical arbitrage", quantQuinnTrade)
	register(DoomDaniel, "Doom Trading - Betting on market crashes", doomDanielTrade)
	register(LazyLisa, "Lazy Trading - Occasional random dabbling", lazyLisaTrade)
	register(ArbitrageArnie, "Cross-coin Arbitrage - Price differential exploitation", arbitrageArnieTrade)
	register(InfluencerIzzy, "Market Influence - Coordinated campaign trading", influencerIzzyTrade)
	register(ScalperSally, "Scalping - Rapid small-margin entries and exits", scalperSallyTrade)
	register(DaytraderDanny, "Day Trading - Intraday momentum plays", daytraderDannyTrade)
	register(SwingtraderSam, "Swing Trading - Buying multi-day drawdowns", swingtraderSamTrade)
	register(NewsNancy, "News Trading - Reacting to headlines", newsNancyTrade)
	register(TechnicalTed, "Technical Analysis - RSI-driven entries", technicalTedTrade)
	register(FundamentalFrank, "Fundamental Analysis - Liquidity and stability screens", fundamentalFrankTrade)
	register(RandomRick, "Random Trading - Coin flips and dice rolls", randomRickTrade)
	register(CorrelationCora, "Pair Trading - Betting on correlation convergence", correlationCoraTrade)
	register(VolatilityVictor, "Volatility Trading - Chasing turbulent coins", volatilityVictorTrade)
	register(LiquidityLucy, "Liquidity Trading - Deep markets only", liquidityLucyTrade)
	register(BreakoutBob, "Breakout Trading - Buying new highs", breakoutBobTrade)
	register(SupportSarah, "Support Trading - Buying the dip at support", supportSarahTrade)
	register(MarketmakerMike, "Market Making - Alternating small buys and sells", marketmakerMikeTrade)
	register(SniperSteve, "Sniper Trading - Rare oversized strikes", sniperSteveTrade)
	register(PanicPete, "Panic Selling - Dumping on any decline", panicPeteTrade)
	register(PatientPaul, "Patient Trading - Waiting for deep crashes", patientPaulTrade)
	register(TrendfollowerTim, "Trend Following - Trading with aligned trends", trendfollowerTimTrade)
	register(MeanReversionMary, "Mean Reversion - Fading moving-average extremes", meanReversionMaryTrade)
	register(FibonacciFran, "Fibonacci Trading - Buying golden-ratio retracements", fibonacciFranTrade)
	register(VolumeVince, "Volume Trading - Following sharp moves", volumeVinceTrade)
}

func momentumMaxineTrade(b *Bot, m Market) {
	coin := m.Coin(b.TargetCoin)
	if coin == nil {
		return
	}

	b.pushPrice(coin.Price, 10)
	if len(b.State.PriceHistory) < 3 {
		return
	}

	pctChange := b.priceChangePercent(coin, 10)
	const threshold = 0.5

	if pctChange > threshold {
		b.makeTrade(m, coin, SideBuy, b.tradeSize(coin, IntensityAggressive, m.Rand()))
	} else if pctChange < -threshold {
		b.makeTrade(m, coin, SideSell, b.tradeSize(coin, IntensityAggressive, m.Rand()))
	}
}

func meanRevertorMarvinTrade(b *Bot, m Market) {
	coin := m.Coin(b.TargetCoin)
	if coin == nil {
		return
	}

	b.pushPrice(coin.Price, 20)
	if len(b.State.PriceHistory) < 10 {
		return
	}

	movingAvg := b.movingAverage(50)
	diff := (coin.Price - movingAvg) / movingAvg

	if diff < -0.05 {
		b.makeTrade(m, coin, SideBuy, b.tradeSize(coin, IntensityHuge, m.Rand()))
	} else if diff > 0.05 {
		b.makeTrade(m, coin, SideSell, b.tradeSize(coin, IntensityHuge, m.Rand()))
	}
}

func whaleWendyTrade(b *Bot, m Market) {
	if m.Rand().Float64() >= 0.01 {
		return
	}
	coin := m.Coin(b.TargetCoin)
	if coin == nil {
		return
	}

	side := SideBuy
	if m.Rand().Float64() < 0.5 {
		side = SideSell
	}
	b.makeTrade(m, coin, side, b.tradeSize(coin, IntensityWhale, m.Rand()))
}

func patternProphetTrade(b *Bot, m Market) {
	coin := m.Coin(b.TargetCoin)
	if coin == nil {
		return
	}

	b.pushPrice(coin.Price, 5)
	if len(b.State.PriceHistory) < 3 {
		return
	}

	if b.isTrendUp(3) {
		b.makeTrade(m, coin, SideBuy, b.tradeSize(coin, IntensitySmall, m.Rand()))
	} else if b.isTrendDown(3) {
		b.makeTrade(m, coin, SideSell, b.tradeSize(coin, IntensitySmall, m.Rand()))
	}
}

func stoplossSteveTrade(b *Bot, m Market) {
	coin := m.Coin(b.TargetCoin)
	if coin == nil {
		return
	}

	if b.State.EntryPrice == 0 {
		b.State.EntryPrice = coin.Price
	}

	b.pushPrice(coin.Price, 10)
	pctChange := b.priceChangePercent(coin, 5)

	// 3% stop loss on the whole position.
	if coin.Price < b.State.EntryPrice*0.97 {
		if holding, ok := b.Portfolio.Holdings[coin.ID]; ok && holding.Amount > 0 {
			b.makeTrade(m, coin, SideSell, holding.Amount)
			b.State.EntryPrice = coin.Price
		}
	}

	if pctChange > 2 {
		b.makeTrade(m, coin, SideBuy, b.tradeSize(coin, IntensitySmall, m.Rand()))
		b.State.EntryPrice = coin.Price
	}
}

func copycatCarlaTrade(b *Bot, m Market) {
	best := b.bestPerformingCoin(m)
	if best == nil {
		return
	}

	bestHist := b.State.MarketHistory[best.ID]
	if len(bestHist) < 5 {
		return
	}

	recent := bestHist[len(bestHist)-3:]
	isUptrend, isDowntrend := true, true
	for i := 1; i < len(recent); i++ {
		if recent[i] < recent[i-1] {
			isUptrend = false
		}
		if recent[i] > recent[i-1] {
			isDowntrend = false
		}
	}

	switch {
	case isUptrend && m.Rand().Float64() < 0.4:
		if target := m.Coin(b.TargetCoin); target != nil {
			b.makeTrade(m, target, SideBuy, b.tradeSize(target, IntensitySmall, m.Rand()))
		}
	case isDowntrend && m.Rand().Float64() < 0.3:
		if target := m.Coin(b.TargetCoin); target != nil && b.Portfolio.Holdings[b.TargetCoin].Amount > 0 {
			b.makeTrade(m, target, SideSell, b.tradeSize(target, IntensitySmall, m.Rand()))
		}
	case m.Rand().Float64() < 0.2:
		if b.Portfolio.Cash > best.Price*5 {
			b.makeTrade(m, best, SideBuy, b.tradeSize(best, IntensitySmall, m.Rand()))
		}
	}
}

func contrarianCarlTrade(b *Bot, m Market) {
	coin := m.Coin(b.TargetCoin)
	if coin == nil {
		return
	}

	b.pushPrice(coin.Price, 20)
	pctChange := b.priceChangePercent(coin, 10)

	if pctChange > 3 {
		b.makeTrade(m, coin, SideSell, b.tradeSize(coin, IntensityModerate, m.Rand()))
	} else if pctChange < -3 {
		b.makeTrade(m, coin, SideBuy, b.tradeSize(coin, IntensityModerate, m.Rand()))
	}
}

func fomoFionaTrade(b *Bot, m Market) {
	coin := m.Coin(b.TargetCoin)
	if coin == nil {
		return
	}

	b.pushPrice(coin.Price, 20)
	pctChange := b.priceChangePercent(coin, 5)

	if pctChange > 10 {
		b.makeTrade(m, coin, SideBuy, b.tradeSize(coin, IntensityAggressive, m.Rand()))
		b.State.FOMOEntry = coin.Price
	}

	// Panic out 5% below the FOMO entry.
	if b.State.FOMOEntry > 0 && coin.Price < b.State.FOMOEntry*0.95 {
		if holding, ok := b.Portfolio.Holdings[coin.ID]; ok && holding.Amount > 0 {
			b.makeTrade(m, coin, SideSell, holding.Amount)
			b.State.FOMOEntry = 0
		}
	}
}

func longtermLarryTrade(b *Bot, m Market) {
	coin := m.Coin(b.TargetCoin)
	if coin == nil {
		return
	}

	if b.State.AvgBuyPrice == 0 {
		b.State.AvgBuyPrice = coin.Price
	}

	b.pushPrice(coin.Price, 120)
	pctChange := b.priceChangePercent(coin, 100)

	if pctChange < -10 {
		b.makeTrade(m, coin, SideBuy, b.tradeSize(coin, IntensityAggressive, m.Rand()))
	}

	// Take half off the table at a double.
	if coin.Price > b.State.AvgBuyPrice*2 {
		if holding, ok := b.Portfolio.Holdings[coin.ID]; ok && holding.Amount > 0 {
			b.makeTrade(m, coin, SideSell, holding.Amount*0.5)
		}
	}
}

func apeAlexTrade(b *Bot, m Market) {
	coin := m.Coin(b.TargetCoin)
	if coin == nil {
		return
	}

	if m.Rand().Float64() < 0.3 {
		b.makeTrade(m, coin, SideBuy, b.tradeSize(coin, IntensityAggressive, m.Rand()))
	}
}

func quantQuinnTrade(b *Bot, m Market) {
	type analysis struct {
		coin     *Coin
		signal   float64
		strength float64
	}
	var results []analysis

	for _, coinID := range b.WatchedCoins {
		coin := m.Coin(coinID)
		if coin == nil {
			continue
		}
		hist := b.State.MarketHistory[coinID]
		if len(hist) < 20 {
			continue
		}

		maFast := mean(hist[len(hist)-5:])
		maSlow := mean(hist[len(hist)-20:])
		rsi := calculateRSI(hist)
		volatility := calculateVolatility(hist)

		signal := 0.0
		if maFast > maSlow {
			signal += 0.4
		} else {
			signal -= 0.4
		}
		if rsi < 30 {
			signal += 0.3
		} else if rsi > 70 {
			signal -= 0.3
		}
		signal += (volatility - 0.02) * 5

		results = append(results, analysis{coin: coin, signal: signal, strength: math.Abs(signal)})
	}

	// Act on the two strongest signals.
	for i := 0; i < len(results); i++ {
		for j := i + 1; j < len(results); j++ {
			if results[j].strength > results[i].strength {
				results[i], results[j] = results[j], results[i]
			}
		}
	}

	limit := len(results)
	if limit > 2 {
		limit = 2
	}
	for i := 0; i < limit; i++ {
		a := results[i]
		if a.strength < 0.5 {
			break
		}
		if a.signal > 0.5 {
			b.makeTrade(m, a.coin, SideBuy, b.tradeSize(a.coin, IntensityModerate, m.Rand()))
		} else if a.signal < -0.5 && b.Portfolio.Holdings[a.coin.ID].Amount > 0 {
			b.makeTrade(m, a.coin, SideSell, b.tradeSize(a.coin, IntensityModerate, m.Rand()))
		}
	}
}

func doomDanielTrade(b *Bot, m Market) {
	switch b.marketSentiment(m) {
	case "bullish":
		// The top is in. Sell everything watched.
		for _, coinID := range b.WatchedCoins {
			coin := m.Coin(coinID)
			if coin != nil && b.Portfolio.Holdings[coinID].Amount > 0 {
				b.makeTrade(m, coin, SideSell, b.tradeSize(coin, IntensityModerate, m.Rand()))
			}
		}
	case "bearish":
		if m.Rand().Float64() < 0.3 {
			if worst := b.worstPerformingCoin(m); worst != nil {
				b.makeTrade(m, worst, SideBuy, b.tradeSize(worst, IntensitySmall, m.Rand()))
			}
		} else if coin := m.Coin(b.TargetCoin); coin != nil {
			b.makeTrade(m, coin, SideSell, b.tradeSize(coin, IntensityTiny, m.Rand()))
		}
	}
}

func lazyLisaTrade(b *Bot, m Market) {
	coin := m.Coin(b.TargetCoin)
	if coin == nil {
		return
	}

	if m.Rand().Float64() < 0.05 {
		side := SideBuy
		if m.Rand().Float64() < 0.5 {
			side = SideSell
		}
		b.makeTrade(m, coin, side, b.tradeSize(coin, IntensityTiny, m.Rand()))
	}
}

func arbitrageArnieTrade(b *Bot, m Market) {
	var bestBuy, bestSell *Coin
	var bestBuyDev, bestSellDev float64

	for _, coinID := range b.WatchedCoins {
		coin := m.Coin(coinID)
		if coin == nil {
			continue
		}
		hist := b.State.MarketHistory[coinID]
		if len(hist) < 10 {
			continue
		}

		longerAvg := mean(hist[len(hist)-10:])
		deviation := (coin.Price - longerAvg) / longerAvg

		if deviation < -0.03 {
			if bestBuy == nil || math.Abs(deviation) > math.Abs(bestBuyDev) {
				bestBuy, bestBuyDev = coin, deviation
			}
		} else if deviation > 0.03 {
			if bestSell == nil || math.Abs(deviation) > math.Abs(bestSellDev) {
				bestSell, bestSellDev = coin, deviation
			}
		}
	}

	if bestSell != nil && b.Portfolio.Holdings[bestSell.ID].Amount > 0 {
		b.makeTrade(m, bestSell, SideSell, b.tradeSize(bestSell, IntensityModerate, m.Rand()))
	}
	if bestBuy != nil && b.Portfolio.Cash > bestBuy.Price*10 {
		b.makeTrade(m, bestBuy, SideBuy, b.tradeSize(bestBuy, IntensityModerate, m.Rand()))
	}
}

func influencerIzzyTrade(b *Bot, m Market) {
	if m.Rand().Float64() < 0.001 {
		campaign := m.Rand().Float64()

		switch {
		case campaign < 0.3:
			fmt.Printf("[BOT] %s: ALTCOIN SEASON IS HERE! Time to diversify!\n", b.Traits.Name)
			for _, coinID := range b.WatchedCoins {
				if coinID == "RCOIN" {
					continue
				}
				coin := m.Coin(coinID)
				if coin != nil && b.Portfolio.Cash > coin.Price*20 {
					b.makeTrade(m, coin, SideBuy, b.tradeSize(coin, IntensityAggressive, m.Rand()))
				}
			}
			b.State.CampaignType = "altseason"
		case campaign < 0.6:
			fmt.Printf("[BOT] %s: MAJOR CORRECTION INCOMING! Take profits NOW!\n", b.Traits.Name)
			for _, coinID := range b.WatchedCoins {
				coin := m.Coin(coinID)
				if coin != nil && b.Portfolio.Holdings[coinID].Amount > 0 {
					b.makeTrade(m, coin, SideSell, b.tradeSize(coin, IntensityAggressive, m.Rand()))
				}
			}
			b.State.CampaignType = "crash"
		default:
			best := b.bestPerformingCoin(m)
			if best == nil {
				best = m.Coin(b.TargetCoin)
			}
			if best != nil {
				fmt.Printf("[BOT] %s: %s IS THE NEXT 100X! GET IN NOW!\n", b.Traits.Name, best.Name)
				b.makeTrade(m, best, SideBuy, b.tradeSize(best, IntensityWhale, m.Rand()))
				b.State.PumpedCoin = best.ID
				b.State.CampaignType = "pump"
			}
		}

		b.State.CampaignActive = 5
	} else if b.State.CampaignActive > 0 {
		b.State.CampaignActive--

		// Quietly dump into the pump.
		if b.State.CampaignType == "pump" && b.State.PumpedCoin != "" && m.Rand().Float64() < 0.3 {
			coin := m.Coin(b.State.PumpedCoin)
			if coin != nil && b.Portfolio.Holdings[b.State.PumpedCoin].Amount > 0 {
				b.makeTrade(m, coin, SideSell, b.tradeSize(coin, IntensityWhale, m.Rand()))
			}
		}
	}
}

func scalperSallyTrade(b *Bot, m Market) {
	watched := b.WatchedCoins
	if len(watched) > 3 {
		watched = watched[:3]
	}

	for _, coinID := range watched {
		coin := m.Coin(coinID)
		if coin == nil {
			continue
		}
		hist := b.State.MarketHistory[coinID]
		if len(hist) < 5 {
			continue
		}

		prev := hist[len(hist)-2]
		recentChange := (coin.Price - prev) / prev

		if math.Abs(recentChange) > 0.001 && math.Abs(recentChange) < 0.003 {
			side := SideSell
			if recentChange > 0 {
				side = SideBuy
			}
			b.makeTrade(m, coin, side, b.tradeSize(coin, IntensityTiny, m.Rand()))

			if b.State.Scalps == nil {
				b.State.Scalps = make(map[string]ScalpPosition)
			}
			b.State.Scalps[coinID] = ScalpPosition{Side: side, Entry: coin.Price, OpenedAt: m.Now()}
		}

		pos, open := b.State.Scalps[coinID]
		if open && m.Now().Sub(pos.OpenedAt) < 30*time.Second {
			var profitPct float64
			if pos.Side == SideBuy {
				profitPct = (coin.Price - pos.Entry) / pos.Entry
			} else {
				profitPct = (pos.Entry - coin.Price) / pos.Entry
			}

			if profitPct > 0.002 || profitPct < -0.001 {
				exitSide := SideBuy
				if pos.Side == SideBuy {
					exitSide = SideSell
				}
				b.makeTrade(m, coin, exitSide, b.tradeSize(coin, IntensityTiny, m.Rand()))
				delete(b.State.Scalps, coinID)
			}
		}
	}
}

func daytraderDannyTrade(b *Bot, m Market) {
	coin := m.Coin(b.TargetCoin)
	if coin == nil {
		return
	}

	b.pushPrice(coin.Price, 40)
	pctChange := b.priceChangePercent(coin, 30)
	if pctChange > 2 {
		b.makeTrade(m, coin, SideBuy, b.tradeSize(coin, IntensityModerate, m.Rand()))
	} else if pctChange < -2 {
		b.makeTrade(m, coin, SideSell, b.tradeSize(coin, IntensityModerate, m.Rand()))
	}
}

func swingtraderSamTrade(b *Bot, m Market) {
	if m.Rand().Float64() > 0.05 {
		return
	}

	coin := m.Coin(b.TargetCoin)
	if coin == nil {
		return
	}

	b.pushPrice(coin.Price, 120)
	if b.priceChangePercent(coin, 100) < -15 {
		b.makeTrade(m, coin, SideBuy, b.tradeSize(coin, IntensityAggressive, m.Rand()))
	}
}

func newsNancyTrade(b *Bot, m Market) {
	if m.Rand().Float64() >= 0.002 {
		return
	}
	coin := m.Coin(b.TargetCoin)
	if coin == nil {
		return
	}

	side := SideBuy
	if m.Rand().Float64() < 0.5 {
		side = SideSell
	}
	b.makeTrade(m, coin, side, b.tradeSize(coin, IntensityAggressive, m.Rand()))
}

func technicalTedTrade(b *Bot, m Market) {
	coin := m.Coin(b.TargetCoin)
	if coin == nil {
		return
	}

	hist := b.State.MarketHistory[b.TargetCoin]
	if len(hist) < 50 {
		return
	}

	rsi := calculateRSI(hist)
	if rsi < 25 {
		b.makeTrade(m, coin, SideBuy, b.tradeSize(coin, IntensityModerate, m.Rand()))
	} else if rsi > 75 {
		b.makeTrade(m, coin, SideSell, b.tradeSize(coin, IntensityModerate, m.Rand()))
	}
}

func fundamentalFrankTrade(b *Bot, m Market) {
	coin := m.Coin(b.TargetCoin)
	if coin == nil || m.Rand().Float64() > 0.01 {
		return
	}

	if coin.Liquidity > 2000 && coin.BaseVol < 0.02 {
		b.makeTrade(m, coin, SideBuy, b.tradeSize(coin, IntensityModerate, m.Rand()))
	}
}

func randomRickTrade(b *Bot, m Market) {
	if m.Rand().Float64() >= 0.1 {
		return
	}
	coin := m.Coin(b.TargetCoin)
	if coin == nil {
		return
	}

	side := SideBuy
	if m.Rand().Float64() < 0.5 {
		side = SideSell
	}
	b.makeTrade(m, coin, side, b.tradeSize(coin, IntensitySmall, m.Rand()))
}

func correlationCoraTrade(b *Bot, m Market) {
	if len(b.WatchedCoins) < 2 {
		return
	}

	coin1 := m.Coin(b.WatchedCoins[0])
	coin2 := m.Coin(b.WatchedCoins[1])
	if coin1 == nil || coin2 == nil {
		return
	}

	b.pushPrice(coin1.Price, 20)
	change1 := b.priceChangePercent(coin1, 10)
	change2 := b.priceChangePercent(coin2, 10)

	if change1 > 3 && change2 < -3 {
		b.makeTrade(m, coin1, SideSell, b.tradeSize(coin1, IntensitySmall, m.Rand()))
		b.makeTrade(m, coin2, SideBuy, b.tradeSize(coin2, IntensitySmall, m.Rand()))
	}
}

func volatilityVictorTrade(b *Bot, m Market) {
	coin := m.Coin(b.TargetCoin)
	if coin == nil {
		return
	}

	if coin.BaseVol > 0.05 {
		side := SideBuy
		if m.Rand().Float64() < 0.5 {
			side = SideSell
		}
		b.makeTrade(m, coin, side, b.tradeSize(coin, IntensityAggressive, m.Rand()))
	}
}

func liquidityLucyTrade(b *Bot, m Market) {
	coin := m.Coin(b.TargetCoin)
	if coin == nil || coin.Liquidity < 1000 {
		return
	}

	b.pushPrice(coin.Price, 30)
	pctChange := b.priceChangePercent(coin, 20)
	if math.Abs(pctChange) > 1 && math.Abs(pctChange) < 3 {
		side := SideSell
		if pctChange > 0 {
			side = SideBuy
		}
		b.makeTrade(m, coin, side, b.tradeSize(coin, IntensitySmall, m.Rand()))
	}
}

func breakoutBobTrade(b *Bot, m Market) {
	coin := m.Coin(b.TargetCoin)
	if coin == nil {
		return
	}

	hist := b.State.MarketHistory[b.TargetCoin]
	if len(hist) < 50 {
		return
	}

	recentHigh := maxOf(hist[len(hist)-50:])
	if coin.Price > recentHigh*1.02 {
		b.makeTrade(m, coin, SideBuy, b.tradeSize(coin, IntensityAggressive, m.Rand()))
	}
}

func supportSarahTrade(b *Bot, m Market) {
	coin := m.Coin(b.TargetCoin)
	if coin == nil {
		return
	}

	hist := b.State.MarketHistory[b.TargetCoin]
	if len(hist) < 30 {
		return
	}

	support := minOf(hist[len(hist)-30:])
	if coin.Price <= support*1.01 {
		b.makeTrade(m, coin, SideBuy, b.tradeSize(coin, IntensityModerate, m.Rand()))
	}
}

func marketmakerMikeTrade(b *Bot, m Market) {
	coin := m.Coin(b.TargetCoin)
	if coin == nil {
		return
	}

	if b.State.MMLastSide == "" || b.State.MMLastSide == SideSell {
		b.makeTrade(m, coin, SideBuy, b.tradeSize(coin, IntensityTiny, m.Rand()))
		b.State.MMLastSide = SideBuy
	} else {
		b.makeTrade(m, coin, SideSell, b.tradeSize(coin, IntensityTiny, m.Rand()))
		b.State.MMLastSide = SideSell
	}
}

func sniperSteveTrade(b *Bot, m Market) {
	coin := m.Coin(b.TargetCoin)
	if coin == nil {
		return
	}

	b.pushPrice(coin.Price, 20)
	pctChange := b.priceChangePercent(coin, 5)
	if math.Abs(pctChange) > 8 {
		side := SideSell
		if pctChange > 0 {
			side = SideBuy
		}
		b.makeTrade(m, coin, side, b.tradeSize(coin, IntensityWhale, m.Rand()))
	}
}

func panicPeteTrade(b *Bot, m Market) {
	for coinID, holding := range b.Portfolio.Holdings {
		if holding.Amount <= 0 {
			continue
		}
		coin := m.Coin(coinID)
		if coin == nil {
			continue
		}

		b.pushPrice(coin.Price, 10)
		if b.priceChangePercent(coin, 3) < -0.5 {
			b.makeTrade(m, coin, SideSell, holding.Amount)
		}
	}
}

func patientPaulTrade(b *Bot, m Market) {
	if m.Rand().Float64() > 0.001 {
		return
	}

	coin := m.Coin(b.TargetCoin)
	if coin == nil {
		return
	}

	b.pushPrice(coin.Price, 120)
	if b.priceChangePercent(coin, 100) < -20 {
		b.makeTrade(m, coin, SideBuy, b.tradeSize(coin, IntensityHuge, m.Rand()))
	}
}

func trendfollowerTimTrade(b *Bot, m Market) {
	coin := m.Coin(b.TargetCoin)
	if coin == nil {
		return
	}

	b.pushPrice(coin.Price, 60)
	shortTrend := b.priceChangePercent(coin, 10)
	longTrend := b.priceChangePercent(coin, 50)

	if shortTrend > 0 && longTrend > 0 {
		b.makeTrade(m, coin, SideBuy, b.tradeSize(coin, IntensityModerate, m.Rand()))
	} else if shortTrend < 0 && longTrend < 0 {
		b.makeTrade(m, coin, SideSell, b.tradeSize(coin, IntensityModerate, m.Rand()))
	}
}

func meanReversionMaryTrade(b *Bot, m Market) {
	coin := m.Coin(b.TargetCoin)
	if coin == nil {
		return
	}

	b.pushPrice(coin.Price, 30)
	movingAvg := b.movingAverage(20)
	if movingAvg == 0 {
		return
	}
	diff := (coin.Price - movingAvg) / movingAvg

	if diff < -0.08 {
		b.makeTrade(m, coin, SideBuy, b.tradeSize(coin, IntensityModerate, m.Rand()))
	} else if diff > 0.08 {
		b.makeTrade(m, coin, SideSell, b.tradeSize(coin, IntensityModerate, m.Rand()))
	}
}

func fibonacciFranTrade(b *Bot, m Market) {
	coin := m.Coin(b.TargetCoin)
	if coin == nil {
		return
	}

	hist := b.State.MarketHistory[b.TargetCoin]
	if len(hist) < 20 {
		return
	}

	window := hist[len(hist)-20:]
	high := maxOf(window)
	low := minOf(window)
	fib618 := high - (high-low)*0.618

	if coin.Price <= fib618*1.01 && coin.Price >= fib618*0.99 {
		b.makeTrade(m, coin, SideBuy, b.tradeSize(coin, IntensityModerate, m.Rand()))
	}
}

func volumeVinceTrade(b *Bot, m Market) {
	coin := m.Coin(b.TargetCoin)
	if coin == nil {
		return
	}

	b.pushPrice(coin.Price, 20)
	pctChange := b.priceChangePercent(coin, 5)
	if math.Abs(pctChange) > 2 {
		side := SideSell
		if pctChange > 0 {
			side = SideBuy
		}
		b.makeTrade(m, coin, side, b.tradeSize(coin, IntensityModerate, m.Rand()))
	}
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func maxOf(vals []float64) float64 {
	out := math.Inf(-1)
	for _, v := range vals {
		if v > out {
			out = v
		}
	}
	return out
}

func minOf(vals []float64) float64 {
	out := math.Inf(1)
	for _, v := range vals {
		if v < out {
			out = v
		}
	}
	return out
}
