package optimizer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTimeframes = []int{5, 15, 30, 60, 240}

func TestSampler_DomainBounds(t *testing.T) {
	s := NewSampler(42, testTimeframes)

	for i := 0; i < 500; i++ {
		p := s.Sample("XAUUSD", 15)

		assert.Equal(t, "XAUUSD", p.Instrument)
		assert.Equal(t, 15, p.TimeframeMinutes)

		assert.Contains(t, fibTargetRatios, p.TargetRatio)
		assert.Contains(t, pullbackLimits, p.PullbackLimit)

		assert.GreaterOrEqual(t, p.RSIPeriod, rsiPeriodMin)
		assert.LessOrEqual(t, p.RSIPeriod, rsiPeriodMax)

		inOversold := p.RSIEntryThreshold >= rsiOversoldLow && p.RSIEntryThreshold <= rsiOversoldHigh
		inOverbought := p.RSIEntryThreshold >= rsiOverboughtLow && p.RSIEntryThreshold <= rsiOverboughtHigh
		assert.True(t, inOversold || inOverbought,
			"threshold %.2f outside both entry bands", p.RSIEntryThreshold)

		assert.GreaterOrEqual(t, p.StopLossATRMultiplier, stopAtrMultMin)
		assert.LessOrEqual(t, p.StopLossATRMultiplier, stopAtrMultMax)
		// Rounded to one decimal place.
		assert.InDelta(t, p.StopLossATRMultiplier, math.Round(p.StopLossATRMultiplier*10)/10, 1e-12)

		assert.GreaterOrEqual(t, p.MultiTimeframePeriod, 15)
		assert.Contains(t, testTimeframes, p.MultiTimeframePeriod)
	}
}

func TestSampler_BothEntryBandsDrawn(t *testing.T) {
	s := NewSampler(7, testTimeframes)

	oversold, overbought := 0, 0
	for i := 0; i < 200; i++ {
		p := s.Sample("XAUUSD", 5)
		if p.RSIEntryThreshold < 50 {
			oversold++
		} else {
			overbought++
		}
	}

	assert.Greater(t, oversold, 0)
	assert.Greater(t, overbought, 0)
}

func TestSampler_SeededDeterminism(t *testing.T) {
	a := NewSampler(1234, testTimeframes)
	b := NewSampler(1234, testTimeframes)

	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Sample("XAUUSD", 30), b.Sample("XAUUSD", 30))
	}
}

func TestSampler_DifferentSeedsDiverge(t *testing.T) {
	a := NewSampler(1, testTimeframes)
	b := NewSampler(2, testTimeframes)

	same := 0
	for i := 0; i < 50; i++ {
		if a.Sample("XAUUSD", 5) == b.Sample("XAUUSD", 5) {
			same++
		}
	}
	assert.Less(t, same, 50)
}

func TestSampler_ConfirmationPeriodFallback(t *testing.T) {
	s := NewSampler(9, []int{5, 15})

	// No configured timeframe is at or above the chart's own.
	p := s.Sample("XAUUSD", 60)
	require.Equal(t, 60, p.MultiTimeframePeriod)
}
