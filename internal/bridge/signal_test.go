package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func buySnapshot() *Snapshot {
	return &Snapshot{
		Symbol:     "XAUUSD",
		Timeframe:  "M5",
		Balance:    1000,
		Equity:     1000,
		Ask:        2400.00,
		Bid:        2399.80,
		Trend:      "BULLISH",
		FastRSI:    floatPtr(25.0),
		ConfirmRSI: floatPtr(60.0),
		ATR:        floatPtr(2.0),
	}
}

func TestEvaluate_BullishOversoldBuys(t *testing.T) {
	e := NewEvaluator(DefaultEvaluatorConfig())

	d, err := e.Evaluate(buySnapshot())
	require.NoError(t, err)

	assert.Equal(t, ActionDeal, d.Action)
	assert.Equal(t, "BUY", d.Type)

	// Stop 1.6 * ATR below the ask, target twice the stop distance above.
	assert.InDelta(t, 2396.8, d.SL, 1e-9)
	assert.InDelta(t, 2406.4, d.TP, 1e-9)

	// Risk 1.5% of $1000 over a 3.2 stop distance: 15/320 lots.
	assert.InDelta(t, 0.05, d.Volume, 1e-9)
	assert.Contains(t, d.Comment, "BULLISH ENTRY")
}

func TestEvaluate_BearishOverboughtSells(t *testing.T) {
	e := NewEvaluator(DefaultEvaluatorConfig())

	snap := buySnapshot()
	snap.Trend = "bearish"
	snap.FastRSI = floatPtr(78.0)
	snap.ConfirmRSI = floatPtr(80.0)

	d, err := e.Evaluate(snap)
	require.NoError(t, err)

	assert.Equal(t, ActionDeal, d.Action)
	assert.Equal(t, "SELL", d.Type)

	// Sell enters at the bid with the stop above and target below.
	assert.InDelta(t, 2399.8+3.2, d.SL, 1e-9)
	assert.InDelta(t, 2399.8-6.4, d.TP, 1e-9)
}

func TestEvaluate_NoSignalCases(t *testing.T) {
	e := NewEvaluator(DefaultEvaluatorConfig())

	cases := []struct {
		name   string
		mutate func(*Snapshot)
	}{
		{"neutral trend", func(s *Snapshot) { s.Trend = "ranging" }},
		{"rsi not oversold", func(s *Snapshot) { s.FastRSI = floatPtr(45.0) }},
		{"confirm rsi blocks", func(s *Snapshot) { s.ConfirmRSI = floatPtr(75.0) }},
		{"bearish trend with oversold rsi", func(s *Snapshot) { s.Trend = "bearish" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			snap := buySnapshot()
			tc.mutate(snap)

			d, err := e.Evaluate(snap)
			require.NoError(t, err)
			assert.Equal(t, ActionNone, d.Action)
			assert.Zero(t, d.Volume)
		})
	}
}

func TestEvaluate_MissingConfirmRSIFallsBackToFast(t *testing.T) {
	e := NewEvaluator(DefaultEvaluatorConfig())

	snap := buySnapshot()
	snap.ConfirmRSI = nil // fast RSI 25 also passes the confirm threshold

	d, err := e.Evaluate(snap)
	require.NoError(t, err)
	assert.Equal(t, ActionDeal, d.Action)
}

func TestEvaluate_ZeroBalanceUsesEquity(t *testing.T) {
	e := NewEvaluator(DefaultEvaluatorConfig())

	snap := buySnapshot()
	snap.Balance = 0
	snap.Equity = 2000

	d, err := e.Evaluate(snap)
	require.NoError(t, err)

	// 1.5% of $2000 over the 3.2 stop distance, capped by rounding.
	assert.InDelta(t, 0.09, d.Volume, 1e-9)
}

func TestEvaluate_LotClamping(t *testing.T) {
	e := NewEvaluator(DefaultEvaluatorConfig())

	tiny := buySnapshot()
	tiny.Balance = 10 // raw size far below the minimum lot

	d, err := e.Evaluate(tiny)
	require.NoError(t, err)
	assert.Equal(t, 0.01, d.Volume)

	huge := buySnapshot()
	huge.Balance = 1e6

	d, err = e.Evaluate(huge)
	require.NoError(t, err)
	assert.Equal(t, 0.1, d.Volume)
}

func TestEvaluate_ZeroATRIsError(t *testing.T) {
	e := NewEvaluator(DefaultEvaluatorConfig())

	snap := buySnapshot()
	snap.ATR = floatPtr(0.0)

	_, err := e.Evaluate(snap)
	assert.Error(t, err)
}

func TestSnapshot_Valid(t *testing.T) {
	assert.True(t, buySnapshot().Valid())

	noSymbol := buySnapshot()
	noSymbol.Symbol = ""
	assert.False(t, noSymbol.Valid())

	noQuote := buySnapshot()
	noQuote.Ask = 0
	noQuote.Bid = 0
	assert.False(t, noQuote.Valid())

	noRSI := buySnapshot()
	noRSI.FastRSI = nil
	assert.False(t, noRSI.Valid())

	noATR := buySnapshot()
	noATR.ATR = nil
	assert.False(t, noATR.Valid())
}
