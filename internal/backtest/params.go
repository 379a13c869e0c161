package backtest

// StrategyParameters is one immutable trial definition drawn by the
// parameter sampler. The wave-ratio fields carry Fibonacci values by
// convention but act purely as numeric multipliers: TargetRatio scales the
// take-profit distance and PullbackLimit is recorded for the terminal
// operator without influencing the simulation.
type StrategyParameters struct {
	Instrument            string  `json:"instrument"`
	TimeframeMinutes      int     `json:"timeframe_min"`
	TargetRatio           float64 `json:"ew_wave5_target_ratio"`
	PullbackLimit         float64 `json:"ew_wave4_pullback_limit"`
	MultiTimeframePeriod  int     `json:"mtf_confirm_period_min"`
	RSIPeriod             int     `json:"confirm_rsi_period"`
	RSIEntryThreshold     float64 `json:"confirm_rsi_entry_threshold"`
	StopLossATRMultiplier float64 `json:"sl_atr_multiplier"`
}

// LongBiased reports whether this parameter set can only ever open long
// positions: a threshold below the RSI midline selects oversold (long)
// entries, above selects overbought (short) entries.
func (p StrategyParameters) LongBiased() bool {
	return p.RSIEntryThreshold < 50
}
