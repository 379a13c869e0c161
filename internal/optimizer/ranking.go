package optimizer

import (
	"sort"

	"github.com/davisromans/elliott-optimizer/internal/backtest"
)

// RankedEntry composes a parameter set with its simulated outcome for the
// results document. Composition happens only here, at the aggregation
// boundary; neither record is ever mutated in place.
type RankedEntry struct {
	backtest.StrategyParameters
	FinalBalance float64 `json:"simulated_final_balance"`
	TradeCount   int     `json:"simulated_total_trades"`
	Score        float64 `json:"optimization_score"`
}

// Rank sorts trial results descending by score. The sort is stable, so
// tie-break order is deterministic given identical input ordering.
func Rank(results []TrialResult) []TrialResult {
	ranked := make([]TrialResult, len(results))
	copy(ranked, results)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Result.Score > ranked[j].Result.Score
	})
	return ranked
}

// TopK returns the first k ranked results (fewer when the list is short).
func TopK(ranked []TrialResult, k int) []TrialResult {
	if k > len(ranked) {
		k = len(ranked)
	}
	return ranked[:k]
}

// Compose flattens ranked trials into result-document entries, ledger
// excluded.
func Compose(ranked []TrialResult) []RankedEntry {
	entries := make([]RankedEntry, 0, len(ranked))
	for _, r := range ranked {
		entries = append(entries, RankedEntry{
			StrategyParameters: r.Params,
			FinalBalance:       r.Result.FinalBalance,
			TradeCount:         r.Result.TradeCount,
			Score:              r.Result.Score,
		})
	}
	return entries
}
