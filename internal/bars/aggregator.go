package bars

import (
	"math"
	"sort"
	"time"

	"github.com/davisromans/elliott-optimizer/pkg/types"
)

// DefaultPipsPerPriceUnit is the pip scale for XAUUSD-style instruments:
// one price unit is 100 pips.
const DefaultPipsPerPriceUnit = 100.0

// Aggregator folds time-ordered ticks into fixed-duration OHLC bars.
type Aggregator struct {
	pipsPerPriceUnit float64
	maxBars          int
}

// NewAggregator creates an aggregator emitting at most maxBars closed bars
// per chart. maxBars <= 0 means unlimited.
func NewAggregator(pipsPerPriceUnit float64, maxBars int) *Aggregator {
	if pipsPerPriceUnit <= 0 {
		pipsPerPriceUnit = DefaultPipsPerPriceUnit
	}
	return &Aggregator{
		pipsPerPriceUnit: pipsPerPriceUnit,
		maxBars:          maxBars,
	}
}

// Aggregate buckets each tick into floor(timestamp/duration)*duration and
// emits a bar whenever the bucket advances. The in-progress bar is flushed
// at end of stream. Source order is not guaranteed, so ticks are sorted by
// timestamp first. Zero-volatility bars are discarded because they cannot
// size a stop.
func (a *Aggregator) Aggregate(instrument string, ticks []types.Tick, timeframeMinutes int) *types.BarSet {
	set := &types.BarSet{
		Instrument:       instrument,
		TimeframeMinutes: timeframeMinutes,
		PipsPerPriceUnit: a.pipsPerPriceUnit,
	}
	if len(ticks) == 0 {
		return set
	}

	sorted := make([]types.Tick, len(ticks))
	copy(sorted, ticks)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	duration := time.Duration(timeframeMinutes) * time.Minute
	durMillis := duration.Milliseconds()

	var bars []types.Bar
	var current *types.Bar
	var currentBucket int64
	capped := false

	for _, tick := range sorted {
		bucket := tick.Timestamp.UnixMilli() / durMillis * durMillis

		if current == nil || bucket > currentBucket {
			if current != nil {
				bars = append(bars, a.finalize(*current))
				if a.maxBars > 0 && len(bars) >= a.maxBars {
					capped = true
					break
				}
			}
			currentBucket = bucket
			current = &types.Bar{
				Open:  tick.MidPrice,
				High:  tick.MidPrice,
				Low:   tick.MidPrice,
				Close: tick.MidPrice,
				Time:  time.UnixMilli(bucket).UTC(),
			}
		} else {
			current.High = math.Max(current.High, tick.MidPrice)
			current.Low = math.Min(current.Low, tick.MidPrice)
			current.Close = tick.MidPrice
		}
	}

	if current != nil && !capped {
		bars = append(bars, a.finalize(*current))
	}

	set.Bars = filterZeroVolatility(bars)
	return set
}

// finalize closes a bar: the volatility proxy is the bar range scaled to
// pips, rounded to two decimals.
func (a *Aggregator) finalize(bar types.Bar) types.Bar {
	barRange := math.Abs(bar.High - bar.Low)
	bar.VolatilityPips = math.Round(barRange*a.pipsPerPriceUnit*100) / 100
	return bar
}

func filterZeroVolatility(bars []types.Bar) []types.Bar {
	filtered := make([]types.Bar, 0, len(bars))
	for _, b := range bars {
		if b.VolatilityPips > 0 {
			filtered = append(filtered, b)
		}
	}
	return filtered
}
