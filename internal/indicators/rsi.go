package indicators

import (
	"math"

	"github.com/davisromans/elliott-optimizer/pkg/types"
)

const (
	// NeutralRSI is emitted for warm-up indices where the trailing window
	// is not yet full. Emitting a neutral value instead of failing keeps
	// short histories usable.
	NeutralRSI = 50.0

	// saturatedRS replaces the average-gain/average-loss ratio when the
	// average loss is zero, so RSI approaches but never reaches 100.
	saturatedRS = 200.0
)

// RSISeries computes a simple-average RSI over closed-to-close deltas.
// The output is aligned 1:1 with the input bars: indices at or before
// period hold NeutralRSI.
func RSISeries(bars []types.Bar, period int) []float64 {
	values := make([]float64, len(bars))

	for i := range bars {
		if i <= period {
			values[i] = NeutralRSI
			continue
		}

		avgGain := 0.0
		avgLoss := 0.0
		for j := i - period + 1; j <= i; j++ {
			change := bars[j].Close - bars[j-1].Close
			if change > 0 {
				avgGain += change
			} else {
				avgLoss += math.Abs(change)
			}
		}
		avgGain /= float64(period)
		avgLoss /= float64(period)

		rs := saturatedRS
		if avgLoss != 0 {
			rs = avgGain / avgLoss
		}
		values[i] = 100 - (100 / (1 + rs))
	}

	return values
}
