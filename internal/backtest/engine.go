package backtest

import (
	"math"

	"github.com/davisromans/elliott-optimizer/internal/indicators"
	"github.com/davisromans/elliott-optimizer/pkg/types"
)

// SimulationConfig carries the account and cost constants shared by every
// trial. It is constructed once and passed by value into each worker, so
// no simulation can mutate another's view of it.
type SimulationConfig struct {
	InitialBalance     float64
	MaxRiskFraction    float64
	MinLotSize         float64
	MaxLotSize         float64
	DollarPerPipPerLot float64
	SpreadPips         float64
	CommissionPerLot   float64
}

// Engine replays a bar series under one parameter set. The engine holds no
// per-run state, so a single instance is safe to reuse across trials.
type Engine struct {
	cfg SimulationConfig
}

// NewEngine creates a simulation engine with the given cost model.
func NewEngine(cfg SimulationConfig) *Engine {
	return &Engine{cfg: cfg}
}

// Run executes the trade-lifecycle state machine over the bar set and
// returns the scored result. The simulator is deterministic: re-running
// the same (parameters, bars) pair yields an identical result.
//
// Per bar, exits are evaluated before entries, and the stop-loss is
// checked before the take-profit when both are touched in the same bar.
func (e *Engine) Run(params StrategyParameters, set *types.BarSet) *BacktestResult {
	bars := set.Bars

	// A history shorter than the indicator warm-up cannot produce a
	// single signal; rank it last instead of failing the batch.
	if len(bars) < params.RSIPeriod+1 {
		return &BacktestResult{
			Score:        SentinelScore,
			FinalBalance: e.cfg.InitialBalance,
			TradeCount:   0,
		}
	}

	balance := e.cfg.InitialBalance
	halfSpread := e.cfg.SpreadPips / set.PipsPerPriceUnit / 2.0

	rsiValues := indicators.RSISeries(bars, params.RSIPeriod)

	var pos *position
	var trades []TradeRecord

	for i := 1; i < len(bars); i++ {
		bar := bars[i]
		prevRSI := rsiValues[i-1]

		if pos != nil {
			if trade, closed := e.checkExit(pos, bar, halfSpread, set.PipsPerPriceUnit); closed {
				balance += trade.PnL
				trades = append(trades, roundTradeRecord(trade))
				pos = nil

				if balance <= 0 {
					balance = 0
					break
				}
			}
		}

		if pos == nil && i >= params.RSIPeriod {
			pos = e.checkEntry(params, bar, prevRSI, balance, set.PipsPerPriceUnit)
		}
	}

	netProfit := balance - e.cfg.InitialBalance
	score := netProfit*0.5 + float64(len(trades))*10

	return &BacktestResult{
		Score:        round2(score),
		FinalBalance: round2(balance),
		TradeCount:   len(trades),
		Trades:       trades,
	}
}

// checkExit tests the current bar against the open position's protective
// levels. The fill carries half the spread against the trader, and the
// round-turn commission is charged per lot.
func (e *Engine) checkExit(pos *position, bar types.Bar, halfSpread, pipsPerPriceUnit float64) (TradeRecord, bool) {
	var exitPrice float64
	var reason ExitReason
	closed := false

	if pos.direction == DirectionLong {
		if bar.Low <= pos.stopLoss {
			exitPrice, reason, closed = pos.stopLoss, ExitStopLoss, true
		} else if bar.High >= pos.takeProfit {
			exitPrice, reason, closed = pos.takeProfit, ExitTakeProfit, true
		}
	} else {
		if bar.High >= pos.stopLoss {
			exitPrice, reason, closed = pos.stopLoss, ExitStopLoss, true
		} else if bar.Low <= pos.takeProfit {
			exitPrice, reason, closed = pos.takeProfit, ExitTakeProfit, true
		}
	}
	if !closed {
		return TradeRecord{}, false
	}

	var fill, priceMove float64
	if pos.direction == DirectionLong {
		fill = exitPrice - halfSpread
		priceMove = fill - pos.entryPrice
	} else {
		fill = exitPrice + halfSpread
		priceMove = pos.entryPrice - fill
	}

	pnl := priceMove * pipsPerPriceUnit * pos.lots * e.cfg.DollarPerPipPerLot
	pnl -= math.Abs(pos.lots) * e.cfg.CommissionPerLot

	return TradeRecord{
		Direction:  pos.direction,
		Lots:       pos.lots,
		EntryTime:  pos.entryTime,
		ExitTime:   bar.Time,
		EntryPrice: pos.entryPrice,
		ExitPrice:  fill,
		PnL:        pnl,
		ExitReason: reason,
	}, true
}

// checkEntry opens a position when the previous bar's RSI sits on the
// entry side of the threshold. A threshold below the midline only ever
// fires long, above only short, so each parameter draw is self-selecting
// for one direction.
func (e *Engine) checkEntry(params StrategyParameters, bar types.Bar, prevRSI, balance, pipsPerPriceUnit float64) *position {
	stopPips := params.StopLossATRMultiplier * bar.VolatilityPips
	if stopPips <= 0 {
		return nil
	}

	// Fixed-fractional sizing: a stop-loss hit loses MaxRiskFraction of
	// the current balance. Clamped into [MinLotSize, MaxLotSize].
	riskUSD := balance * e.cfg.MaxRiskFraction
	lots := riskUSD / (stopPips * e.cfg.DollarPerPipPerLot)
	lots = math.Max(math.Min(lots, e.cfg.MaxLotSize), e.cfg.MinLotSize)

	var direction Direction
	switch {
	case prevRSI < params.RSIEntryThreshold && params.RSIEntryThreshold < 50:
		direction = DirectionLong
	case prevRSI > params.RSIEntryThreshold && params.RSIEntryThreshold > 50:
		direction = DirectionShort
	default:
		return nil
	}

	halfSpread := e.cfg.SpreadPips / pipsPerPriceUnit / 2.0
	stopDistance := stopPips / pipsPerPriceUnit
	targetDistance := stopPips * params.TargetRatio / pipsPerPriceUnit

	pos := &position{
		direction: direction,
		lots:      lots,
		entryTime: bar.Time,
	}
	if direction == DirectionLong {
		pos.entryPrice = bar.Open + halfSpread
		pos.stopLoss = pos.entryPrice - stopDistance
		pos.takeProfit = pos.entryPrice + targetDistance
	} else {
		pos.entryPrice = bar.Open - halfSpread
		pos.stopLoss = pos.entryPrice + stopDistance
		pos.takeProfit = pos.entryPrice - targetDistance
	}
	return pos
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round5(v float64) float64 {
	return math.Round(v*100000) / 100000
}

// roundTradeRecord rounds the monetary and size fields the way the ledger
// reports them. Rounding happens only here, after the running balance has
// consumed the exact PnL.
func roundTradeRecord(t TradeRecord) TradeRecord {
	t.Lots = round2(t.Lots)
	t.EntryPrice = round5(t.EntryPrice)
	t.ExitPrice = round5(t.ExitPrice)
	t.PnL = round2(t.PnL)
	return t
}
