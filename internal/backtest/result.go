package backtest

import "time"

// SentinelScore is returned for trials whose bar history is shorter than
// their own warm-up requirement. It must rank below any genuine outcome.
const SentinelScore = -99999.0

// Direction of a simulated position.
type Direction string

const (
	DirectionLong  Direction = "LONG"
	DirectionShort Direction = "SHORT"
)

// ExitReason records which protective level a bar touched first.
type ExitReason string

const (
	ExitStopLoss   ExitReason = "SL"
	ExitTakeProfit ExitReason = "TP"
)

// TradeRecord is one completed round-turn trade. Records are append-only
// and owned solely by the trial that produced them.
type TradeRecord struct {
	Direction  Direction  `json:"type"`
	Lots       float64    `json:"lots"`
	EntryTime  time.Time  `json:"entryTime"`
	ExitTime   time.Time  `json:"exitTime"`
	EntryPrice float64    `json:"entryPrice"`
	ExitPrice  float64    `json:"exitPrice"`
	PnL        float64    `json:"pnl"`
	ExitReason ExitReason `json:"status"`
}

// BacktestResult is the scored outcome of replaying one parameter set
// against one bar set. Immutable once produced; ownership moves from the
// worker to the orchestrator by message passing.
type BacktestResult struct {
	Score        float64       `json:"optimization_score"`
	FinalBalance float64       `json:"simulated_final_balance"`
	TradeCount   int           `json:"simulated_total_trades"`
	Trades       []TradeRecord `json:"-"`
}

// position is the simulator's open-trade state. It exists only between an
// entry signal and the bar that touches a protective level.
type position struct {
	direction  Direction
	entryPrice float64
	stopLoss   float64
	takeProfit float64
	lots       float64
	entryTime  time.Time
}
