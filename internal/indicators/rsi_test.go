package indicators

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davisromans/elliott-optimizer/pkg/types"
)

func barsFromCloses(closes []float64) []types.Bar {
	bars := make([]types.Bar, len(closes))
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = types.Bar{
			Open:  c,
			High:  c + 0.5,
			Low:   c - 0.5,
			Close: c,
			Time:  base.Add(time.Duration(i) * 5 * time.Minute),
		}
	}
	return bars
}

func TestRSISeries_OutputAlignment(t *testing.T) {
	bars := barsFromCloses([]float64{100, 101, 100, 102, 101, 103, 102, 104})

	values := RSISeries(bars, 3)

	require.Len(t, values, len(bars))
}

func TestRSISeries_WarmupIsNeutral(t *testing.T) {
	bars := barsFromCloses([]float64{100, 99, 98, 97, 96, 95, 94, 93})
	period := 4

	values := RSISeries(bars, period)

	for i := 0; i <= period; i++ {
		assert.Equal(t, NeutralRSI, values[i], "index %d is inside the warm-up window", i)
	}
	assert.NotEqual(t, NeutralRSI, values[period+1])
}

func TestRSISeries_MonotoneFallingGivesZero(t *testing.T) {
	bars := barsFromCloses([]float64{100, 99, 98, 97, 96, 95})

	values := RSISeries(bars, 3)

	assert.Equal(t, 0.0, values[len(values)-1])
}

func TestRSISeries_NoLossesSaturatesBelowHundred(t *testing.T) {
	bars := barsFromCloses([]float64{100, 101, 102, 103, 104, 105})

	values := RSISeries(bars, 3)

	last := values[len(values)-1]
	// rs saturates at 200, so RSI = 100 - 100/201.
	assert.InDelta(t, 99.5025, last, 0.001)
	assert.Less(t, last, 100.0)
}

func TestRSISeries_ValuesBounded(t *testing.T) {
	closes := []float64{100, 103, 99, 104, 98, 105, 97, 106, 96, 107, 95, 108}
	bars := barsFromCloses(closes)

	values := RSISeries(bars, 5)

	for i, v := range values {
		assert.GreaterOrEqual(t, v, 0.0, "index %d", i)
		assert.Less(t, v, 100.0, "index %d", i)
	}
}

func TestRSISeries_EmptyInput(t *testing.T) {
	values := RSISeries(nil, 14)
	assert.Empty(t, values)
}
