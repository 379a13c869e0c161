package backtest

import (
	"fmt"
	"math"
)

// LedgerEntry is a TradeRecord annotated with the running account balance
// after the trade closed. Built by ComputeMetrics for reporting.
type LedgerEntry struct {
	TradeRecord
	RunningBalance float64 `json:"runningBalance"`
}

// PortfolioMetrics are pure reductions over an immutable trade ledger,
// recomputed only for the single best-ranked trial.
type PortfolioMetrics struct {
	InitialBalance  float64
	FinalBalance    float64
	NetProfit       float64
	TotalTrades     int
	WinRate         float64
	GrossProfit     float64
	GrossLoss       float64
	ProfitFactor    float64
	MaxDrawdownUSD  float64
	MaxDrawdownPct  float64
	FirstExit       string
	LastExit        string
}

// DateRange formats the covered exit-time span, e.g. "2024-01-02 to 2024-03-08".
func (m PortfolioMetrics) DateRange() string {
	return fmt.Sprintf("%s to %s", m.FirstExit, m.LastExit)
}

// ComputeMetrics replays the ledger's PnL sequence to derive win rate,
// gross profit/loss, profit factor, and peak-to-trough drawdown. Profit
// factor is +Inf when there are no losses but some profit, and 0 when both
// sides are zero. Returns false when the ledger is empty.
func ComputeMetrics(initialBalance float64, trades []TradeRecord) (PortfolioMetrics, []LedgerEntry, bool) {
	if len(trades) == 0 {
		return PortfolioMetrics{}, nil, false
	}

	balance := initialBalance
	maxBalance := initialBalance
	maxDrawdownUSD := 0.0

	ledger := make([]LedgerEntry, 0, len(trades))
	grossProfit := 0.0
	grossLoss := 0.0
	wins := 0

	for _, t := range trades {
		balance += t.PnL

		maxBalance = math.Max(maxBalance, balance)
		maxDrawdownUSD = math.Max(maxDrawdownUSD, maxBalance-balance)

		if t.PnL > 0 {
			wins++
			grossProfit += t.PnL
		} else if t.PnL < 0 {
			grossLoss += math.Abs(t.PnL)
		}

		ledger = append(ledger, LedgerEntry{TradeRecord: t, RunningBalance: round2(balance)})
	}

	profitFactor := 0.0
	switch {
	case grossLoss > 0:
		profitFactor = grossProfit / grossLoss
	case grossProfit > 0:
		profitFactor = math.Inf(1)
	}

	maxDrawdownPct := 0.0
	if maxBalance > 0 {
		maxDrawdownPct = maxDrawdownUSD / maxBalance * 100
	}

	metrics := PortfolioMetrics{
		InitialBalance: round2(initialBalance),
		FinalBalance:   round2(balance),
		NetProfit:      round2(balance - initialBalance),
		TotalTrades:    len(trades),
		WinRate:        float64(wins) / float64(len(trades)) * 100,
		GrossProfit:    round2(grossProfit),
		GrossLoss:      round2(grossLoss),
		ProfitFactor:   profitFactor,
		MaxDrawdownUSD: round2(maxDrawdownUSD),
		MaxDrawdownPct: maxDrawdownPct,
		FirstExit:      trades[0].ExitTime.Format("2006-01-02"),
		LastExit:       trades[len(trades)-1].ExitTime.Format("2006-01-02"),
	}

	return metrics, ledger, true
}
