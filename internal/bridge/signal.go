package bridge

import (
	"fmt"
	"math"
	"strings"
)

// Snapshot is the market state the terminal posts with every poll. RSI and
// ATR pointers distinguish "missing" from zero.
type Snapshot struct {
	Symbol     string   `form:"symbol" json:"symbol"`
	Timeframe  string   `form:"timeframe" json:"timeframe"`
	Balance    float64  `form:"balance" json:"balance"`
	Equity     float64  `form:"equity" json:"equity"`
	Ask        float64  `form:"ask" json:"ask"`
	Bid        float64  `form:"bid" json:"bid"`
	Trend      string   `form:"trend_M5" json:"trend_M5"`
	FastRSI    *float64 `form:"rsi_M5" json:"rsi_M5"`
	ConfirmRSI *float64 `form:"rsi_M15" json:"rsi_M15"`
	ATR        *float64 `form:"atr_M5" json:"atr_M5"`
}

// Valid reports whether the snapshot carries the minimal fields a decision
// needs.
func (s *Snapshot) Valid() bool {
	return s.Symbol != "" && (s.Ask != 0 || s.Bid != 0) && s.FastRSI != nil && s.ATR != nil
}

// Decision is the action returned to the terminal.
type Decision struct {
	Action  string  `json:"action"`
	Type    string  `json:"type,omitempty"`
	Volume  float64 `json:"volume,omitempty"`
	SL      float64 `json:"sl,omitempty"`
	TP      float64 `json:"tp,omitempty"`
	Comment string  `json:"comment"`
}

const (
	ActionDeal = "DEAL"
	ActionNone = "NONE"

	directionBuy  = "BUY"
	directionSell = "SELL"
)

// EvaluatorConfig holds the live strategy parameters, typically the best
// set found by a prior optimization run.
type EvaluatorConfig struct {
	ConfirmRSIThreshold float64
	ATRMultiplier       float64
	RiskPercent         float64
	OversoldLevel       float64
	OverboughtLevel     float64
	TargetRatio         float64
	MinLot              float64
	MaxLot              float64
}

// DefaultEvaluatorConfig matches the reference XAUUSD live setup.
func DefaultEvaluatorConfig() EvaluatorConfig {
	return EvaluatorConfig{
		ConfirmRSIThreshold: 70.16,
		ATRMultiplier:       1.6,
		RiskPercent:         1.5,
		OversoldLevel:       30,
		OverboughtLevel:     70,
		TargetRatio:         2.0,
		MinLot:              0.01,
		MaxLot:              0.1,
	}
}

// Evaluator turns a market snapshot into a trading decision. Stateless;
// safe for concurrent requests.
type Evaluator struct {
	cfg EvaluatorConfig
}

// NewEvaluator creates an evaluator with the given strategy parameters.
func NewEvaluator(cfg EvaluatorConfig) *Evaluator {
	return &Evaluator{cfg: cfg}
}

// Evaluate applies the trend + dual-RSI entry rule and sizes the position
// by fixed-fractional risk against the ATR stop distance.
func (e *Evaluator) Evaluate(snap *Snapshot) (Decision, error) {
	fastRSI := *snap.FastRSI
	confirmRSI := fastRSI
	if snap.ConfirmRSI != nil {
		confirmRSI = *snap.ConfirmRSI
	}
	atr := *snap.ATR

	trend := strings.ToLower(strings.TrimSpace(snap.Trend))
	bullish := trend == "bullish" || trend == "up" || trend == "uptrend"
	bearish := trend == "bearish" || trend == "down" || trend == "downtrend"

	var direction string
	var reason string
	switch {
	case bullish && fastRSI < e.cfg.OversoldLevel && confirmRSI < e.cfg.ConfirmRSIThreshold:
		direction = directionBuy
		reason = fmt.Sprintf("BULLISH ENTRY: fast RSI %.2f < %.0f, confirm RSI %.2f < %.2f",
			fastRSI, e.cfg.OversoldLevel, confirmRSI, e.cfg.ConfirmRSIThreshold)
	case bearish && fastRSI > e.cfg.OverboughtLevel && confirmRSI > e.cfg.ConfirmRSIThreshold:
		direction = directionSell
		reason = fmt.Sprintf("BEARISH ENTRY: fast RSI %.2f > %.0f, confirm RSI %.2f > %.2f",
			fastRSI, e.cfg.OverboughtLevel, confirmRSI, e.cfg.ConfirmRSIThreshold)
	default:
		return Decision{Action: ActionNone, Comment: "No signal generated based on parameters"}, nil
	}

	entry := snap.Ask
	if direction == directionSell {
		entry = snap.Bid
	}

	var sl, tp float64
	if direction == directionBuy {
		sl = entry - atr*e.cfg.ATRMultiplier
	} else {
		sl = entry + atr*e.cfg.ATRMultiplier
	}
	riskDistance := math.Abs(entry - sl)
	if !isFinite(sl) || riskDistance <= 0 {
		return Decision{}, fmt.Errorf("invalid price math for SL/TP: entry=%.5f atr=%.5f", entry, atr)
	}
	if direction == directionBuy {
		tp = entry + riskDistance*e.cfg.TargetRatio
	} else {
		tp = entry - riskDistance*e.cfg.TargetRatio
	}

	balance := snap.Balance
	if balance == 0 {
		balance = snap.Equity
	}

	return Decision{
		Action:  ActionDeal,
		Type:    direction,
		Volume:  round2(e.lotSize(balance, riskDistance)),
		SL:      round4(sl),
		TP:      round4(tp),
		Comment: reason,
	}, nil
}

// lotSize converts the risked balance fraction into lots against the stop
// distance, clamped into the terminal's allowed range.
func (e *Evaluator) lotSize(balance, stopDistance float64) float64 {
	riskAmount := balance * e.cfg.RiskPercent / 100

	if !isFinite(stopDistance) || stopDistance <= 0 {
		return e.cfg.MinLot
	}
	lots := riskAmount / (stopDistance * 100)
	return math.Max(e.cfg.MinLot, math.Min(e.cfg.MaxLot, lots))
}

func isFinite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
