package types

import (
	"fmt"
	"time"
)

// Tick is a single bid/ask quote collapsed to its mid price.
// Ticks are produced once per source record and never mutated.
type Tick struct {
	Timestamp time.Time
	MidPrice  float64
}

// Bar is an OHLC summary of price activity over a fixed time bucket.
// VolatilityPips is |high-low| expressed in pips, computed when the bar
// closes. Bars with zero volatility cannot size a stop and are discarded
// by the aggregator.
type Bar struct {
	Open           float64
	High           float64
	Low            float64
	Close          float64
	Time           time.Time
	VolatilityPips float64
}

// BarSet is a closed bar series for one (instrument, timeframe) chart,
// together with the pip scale needed to convert price distances to pips.
type BarSet struct {
	Instrument       string
	TimeframeMinutes int
	Bars             []Bar
	PipsPerPriceUnit float64
}

// ChartKey identifies the (instrument, timeframe) pair, e.g. "XAUUSD-15min".
func (s *BarSet) ChartKey() string {
	return ChartKey(s.Instrument, s.TimeframeMinutes)
}

// ChartKey builds the canonical chart identifier for an instrument and a
// timeframe in minutes.
func ChartKey(instrument string, timeframeMinutes int) string {
	return fmt.Sprintf("%s-%dmin", instrument, timeframeMinutes)
}
