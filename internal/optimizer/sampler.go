package optimizer

import (
	"math"
	"math/rand"

	"github.com/davisromans/elliott-optimizer/internal/backtest"
)

// Sampling domains for the randomized search. Ratio-like fields are drawn
// from enumerated canonical sets, the rest uniformly within bounds.
var (
	fibTargetRatios = []float64{0.382, 0.500, 0.618, 0.786, 1.000, 1.272, 1.618, 2.618}
	pullbackLimits  = []float64{0.382, 0.5, 0.618}
)

const (
	rsiPeriodMin = 7
	rsiPeriodMax = 21

	rsiOversoldLow    = 15.0
	rsiOversoldHigh   = 30.0
	rsiOverboughtLow  = 70.0
	rsiOverboughtHigh = 85.0

	stopAtrMultMin = 1.5
	stopAtrMultMax = 3.5
)

// Sampler draws independent random parameter sets for one chart. Each
// worker chunk owns its own sampler seeded from the run seed, so pinning
// the seed reproduces every draw stream regardless of scheduling.
type Sampler struct {
	rng        *rand.Rand
	timeframes []int
}

// NewSampler creates a sampler over the configured timeframe list.
func NewSampler(seed int64, timeframes []int) *Sampler {
	return &Sampler{
		rng:        rand.New(rand.NewSource(seed)),
		timeframes: timeframes,
	}
}

// Sample draws one parameter set for the given chart. The entry threshold
// lands in the oversold or overbought band with equal probability, making
// each draw self-selecting for a single trade direction.
func (s *Sampler) Sample(instrument string, timeframeMinutes int) backtest.StrategyParameters {
	overbought := round2(s.uniform(rsiOverboughtLow, rsiOverboughtHigh))
	oversold := round2(s.uniform(rsiOversoldLow, rsiOversoldHigh))

	threshold := oversold
	if s.rng.Float64() < 0.5 {
		threshold = overbought
	}

	return backtest.StrategyParameters{
		Instrument:            instrument,
		TimeframeMinutes:      timeframeMinutes,
		TargetRatio:           fibTargetRatios[s.rng.Intn(len(fibTargetRatios))],
		PullbackLimit:         pullbackLimits[s.rng.Intn(len(pullbackLimits))],
		MultiTimeframePeriod:  s.confirmationPeriod(timeframeMinutes),
		RSIPeriod:             s.rng.Intn(rsiPeriodMax-rsiPeriodMin+1) + rsiPeriodMin,
		RSIEntryThreshold:     threshold,
		StopLossATRMultiplier: round1(s.uniform(stopAtrMultMin, stopAtrMultMax)),
	}
}

// confirmationPeriod picks a random configured timeframe at or above the
// chart's own; falls back to the chart timeframe when none qualify.
func (s *Sampler) confirmationPeriod(timeframeMinutes int) int {
	var valid []int
	for _, tf := range s.timeframes {
		if tf >= timeframeMinutes {
			valid = append(valid, tf)
		}
	}
	if len(valid) == 0 {
		return timeframeMinutes
	}
	return valid[s.rng.Intn(len(valid))]
}

func (s *Sampler) uniform(low, high float64) float64 {
	return s.rng.Float64()*(high-low) + low
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
