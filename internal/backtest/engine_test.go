package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davisromans/elliott-optimizer/pkg/types"
)

func testSimConfig() SimulationConfig {
	return SimulationConfig{
		InitialBalance:     10.0,
		MaxRiskFraction:    0.02,
		MinLotSize:         0.01,
		MaxLotSize:         5.0,
		DollarPerPipPerLot: 10.0,
		SpreadPips:         2.0,
		CommissionPerLot:   7.0,
	}
}

func testBarSet(bars []types.Bar) *types.BarSet {
	return &types.BarSet{
		Instrument:       "XAUUSD",
		TimeframeMinutes: 5,
		Bars:             bars,
		PipsPerPriceUnit: 100.0,
	}
}

func makeBar(idx int, open, high, low, close, volPips float64) types.Bar {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return types.Bar{
		Open:           open,
		High:           high,
		Low:            low,
		Close:          close,
		Time:           base.Add(time.Duration(idx) * 5 * time.Minute),
		VolatilityPips: volPips,
	}
}

// longStopOutBars produces exactly one long entry at bar 4 (RSI over the
// first falling closes reads 0 at bar 3) and a stop-loss exit at bar 5.
// Bar 5 touches both protective levels so it also pins the SL-first rule.
func longStopOutBars() []types.Bar {
	return []types.Bar{
		makeBar(0, 100.0, 100.2, 99.8, 100.0, 10),
		makeBar(1, 100.0, 100.1, 98.9, 99.0, 10),
		makeBar(2, 99.0, 99.1, 97.9, 98.0, 10),
		makeBar(3, 98.0, 98.1, 96.9, 97.0, 10),
		makeBar(4, 97.0, 98.2, 96.9, 98.0, 10),
		makeBar(5, 97.2, 97.5, 96.5, 96.6, 10),
	}
}

func longParams() StrategyParameters {
	return StrategyParameters{
		Instrument:            "XAUUSD",
		TimeframeMinutes:      5,
		TargetRatio:           1.0,
		PullbackLimit:         0.5,
		MultiTimeframePeriod:  15,
		RSIPeriod:             2,
		RSIEntryThreshold:     30.0,
		StopLossATRMultiplier: 2.0,
	}
}

func TestEngineRun_LongStopLossTrade(t *testing.T) {
	engine := NewEngine(testSimConfig())

	result := engine.Run(longParams(), testBarSet(longStopOutBars()))

	require.Equal(t, 1, result.TradeCount)
	require.Len(t, result.Trades, 1)

	trade := result.Trades[0]
	assert.Equal(t, DirectionLong, trade.Direction)
	assert.Equal(t, ExitStopLoss, trade.ExitReason)

	// Sizing: risk 2% of $10 over a 20-pip stop gives 0.001 lots,
	// clamped up to the 0.01 minimum.
	assert.Equal(t, 0.01, trade.Lots)

	// Entry 97 + half spread 0.01; stop 20 pips below; exit fill carries
	// the half spread again. Loss is 21 pips plus commission.
	assert.InDelta(t, 97.01, trade.EntryPrice, 1e-9)
	assert.InDelta(t, 96.80, trade.ExitPrice, 1e-9)
	assert.InDelta(t, -2.17, trade.PnL, 0.001)
	assert.InDelta(t, 7.83, result.FinalBalance, 0.001)
}

func TestEngineRun_ShortTakeProfitTrade(t *testing.T) {
	engine := NewEngine(testSimConfig())
	// Rising closes push RSI to saturation at bar 3, firing a short at
	// bar 4 against an overbought threshold.
	bars := []types.Bar{
		makeBar(0, 100.0, 100.2, 99.8, 100.0, 10),
		makeBar(1, 100.0, 101.1, 99.9, 101.0, 10),
		makeBar(2, 101.0, 102.1, 100.9, 102.0, 10),
		makeBar(3, 102.0, 103.1, 101.9, 103.0, 10),
		makeBar(4, 103.0, 103.1, 101.9, 102.0, 10),
		makeBar(5, 103.0, 103.1, 102.5, 102.8, 10),
	}
	params := longParams()
	params.RSIEntryThreshold = 70.0

	result := engine.Run(params, testBarSet(bars))

	require.Equal(t, 1, result.TradeCount)
	trade := result.Trades[0]
	assert.Equal(t, DirectionShort, trade.Direction)
	assert.Equal(t, ExitTakeProfit, trade.ExitReason)

	// Short entry 103 - 0.01, take-profit 20 pips lower at 102.79.
	assert.InDelta(t, 102.99, trade.EntryPrice, 1e-9)
	assert.InDelta(t, 102.80, trade.ExitPrice, 1e-9)
	assert.InDelta(t, 1.83, trade.PnL, 0.001)
	assert.InDelta(t, 11.83, result.FinalBalance, 0.001)
}

func TestEngineRun_SentinelOnShortHistory(t *testing.T) {
	engine := NewEngine(testSimConfig())
	params := longParams()
	params.RSIPeriod = 14

	bars := longStopOutBars() // 6 bars, fewer than period+1
	result := engine.Run(params, testBarSet(bars))

	assert.Equal(t, SentinelScore, result.Score)
	assert.Equal(t, 10.0, result.FinalBalance)
	assert.Equal(t, 0, result.TradeCount)
	assert.Empty(t, result.Trades)
}

func TestEngineRun_Deterministic(t *testing.T) {
	engine := NewEngine(testSimConfig())
	set := testBarSet(longStopOutBars())
	params := longParams()

	first := engine.Run(params, set)
	second := engine.Run(params, set)

	assert.Equal(t, first, second)
}

func TestEngineRun_BankruptcyClampsAndStops(t *testing.T) {
	cfg := testSimConfig()
	cfg.MaxRiskFraction = 100.0 // forces lots onto the 5.0 ceiling
	engine := NewEngine(cfg)

	// Keep the closes falling so a second entry would fire if the run
	// survived the first stop-out.
	bars := []types.Bar{
		makeBar(0, 100.0, 100.2, 99.8, 100.0, 10),
		makeBar(1, 100.0, 100.1, 98.9, 99.0, 10),
		makeBar(2, 99.0, 99.1, 97.9, 98.0, 10),
		makeBar(3, 98.0, 98.1, 96.9, 97.0, 10),
		makeBar(4, 97.0, 97.1, 96.9, 96.9, 10),
		makeBar(5, 96.9, 97.0, 96.0, 96.1, 10),
		makeBar(6, 96.1, 96.2, 95.0, 95.1, 10),
		makeBar(7, 95.1, 95.2, 94.0, 94.1, 10),
	}

	result := engine.Run(longParams(), testBarSet(bars))

	assert.Equal(t, 0.0, result.FinalBalance)
	assert.Equal(t, 1, result.TradeCount, "run must stop at the bankrupting trade")
}

func TestEngineRun_NoSignalMeansNoTrades(t *testing.T) {
	engine := NewEngine(testSimConfig())
	params := longParams()
	params.RSIEntryThreshold = 50.0 // midline threshold never selects a side

	result := engine.Run(params, testBarSet(longStopOutBars()))

	assert.Equal(t, 0, result.TradeCount)
	assert.InDelta(t, 10.0, result.FinalBalance, 1e-9)
	assert.InDelta(t, 0.0, result.Score, 1e-9)
}

func TestEngineRun_ScoreRewardsActivity(t *testing.T) {
	engine := NewEngine(testSimConfig())

	traded := engine.Run(longParams(), testBarSet(longStopOutBars()))

	params := longParams()
	params.RSIEntryThreshold = 50.0
	idle := engine.Run(params, testBarSet(longStopOutBars()))

	// One losing trade still outscores doing nothing: the score pays 10
	// points per trade against half the net loss.
	assert.Greater(t, traded.Score, idle.Score)
}
