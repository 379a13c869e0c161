package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds every externally-configurable constant of an optimization
// run. It is loaded once, validated, and passed read-only into the
// orchestrator; workers receive copies, never a shared mutable view.
type Config struct {
	// Data source
	HistoryDir   string   `json:"history_dir"`
	DataFiles    []string `json:"data_files"`
	MaxTicksFile int      `json:"max_ticks_per_file"`

	// Chart generation
	Instruments      []string `json:"instruments"`
	Timeframes       []int    `json:"timeframes_min"`
	MaxBarsPerChart  int      `json:"max_bars_per_chart"`
	MinBarsPerChart  int      `json:"min_bars_per_chart"`
	PipsPerPriceUnit float64  `json:"pips_per_price_unit"`

	// Search
	SamplesPerChart int   `json:"samples_per_chart"`
	Workers         int   `json:"workers"`
	TopK            int   `json:"top_k"`
	Seed            int64 `json:"seed"`

	// Account & costs
	InitialBalance     float64 `json:"initial_balance"`
	MaxRiskFraction    float64 `json:"max_risk_fraction"`
	MinLotSize         float64 `json:"min_lot_size"`
	MaxLotSize         float64 `json:"max_lot_size"`
	DollarPerPipPerLot float64 `json:"dollar_per_pip_per_lot"`
	SpreadPips         float64 `json:"average_spread_pips"`
	CommissionPerLot   float64 `json:"commission_per_lot_usd"`

	// Outputs
	ResultsJSON string `json:"results_json"`
	LedgerCSV   string `json:"ledger_csv"`
	LedgerXLSX  string `json:"ledger_xlsx"`
	ReportHTML  string `json:"report_html"`
}

// Default returns the run constants matching the reference XAUUSD setup.
func Default() *Config {
	return &Config{
		HistoryDir:   "history",
		DataFiles:    []string{"XAUUSDm.csv"},
		MaxTicksFile: 500000,

		Instruments:      []string{"XAUUSD"},
		Timeframes:       []int{5, 15, 30, 60, 240},
		MaxBarsPerChart:  10000,
		MinBarsPerChart:  50,
		PipsPerPriceUnit: 100.0,

		SamplesPerChart: 10000,
		Workers:         0, // 0 = available parallelism
		TopK:            10,
		Seed:            0, // 0 = random seed

		InitialBalance:     10.0,
		MaxRiskFraction:    0.02,
		MinLotSize:         0.01,
		MaxLotSize:         5.0,
		DollarPerPipPerLot: 10.0,
		SpreadPips:         2.0,
		CommissionPerLot:   7.0,

		ResultsJSON: "top_elliott_parameters_XAUUSD.json",
		LedgerCSV:   "best_strategy_trade_history.csv",
		LedgerXLSX:  "best_strategy_trade_history.xlsx",
		ReportHTML:  "trade_performance_report.html",
	}
}

// Load builds the effective configuration: defaults, overlaid by the JSON
// config file when given, overlaid by OPTIMIZER_* environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.HistoryDir = getEnv("OPTIMIZER_HISTORY_DIR", c.HistoryDir)
	c.SamplesPerChart = getEnvInt("OPTIMIZER_SAMPLES_PER_CHART", c.SamplesPerChart)
	c.Workers = getEnvInt("OPTIMIZER_WORKERS", c.Workers)
	c.Seed = int64(getEnvInt("OPTIMIZER_SEED", int(c.Seed)))
	c.InitialBalance = getEnvFloat("OPTIMIZER_INITIAL_BALANCE", c.InitialBalance)
	c.MaxRiskFraction = getEnvFloat("OPTIMIZER_MAX_RISK_FRACTION", c.MaxRiskFraction)
	c.SpreadPips = getEnvFloat("OPTIMIZER_SPREAD_PIPS", c.SpreadPips)
	c.CommissionPerLot = getEnvFloat("OPTIMIZER_COMMISSION_PER_LOT", c.CommissionPerLot)
}

// Validate rejects configurations that would make the simulation
// meaningless rather than merely unprofitable.
func (c *Config) Validate() error {
	if len(c.Instruments) == 0 {
		return fmt.Errorf("at least one instrument is required")
	}
	if len(c.Timeframes) == 0 {
		return fmt.Errorf("at least one timeframe is required")
	}
	for _, tf := range c.Timeframes {
		if tf <= 0 {
			return fmt.Errorf("invalid timeframe %d: must be positive minutes", tf)
		}
	}
	if c.SamplesPerChart <= 0 {
		return fmt.Errorf("samples_per_chart must be positive, got %d", c.SamplesPerChart)
	}
	if c.InitialBalance <= 0 {
		return fmt.Errorf("initial_balance must be positive, got %.2f", c.InitialBalance)
	}
	if c.MaxRiskFraction <= 0 || c.MaxRiskFraction >= 1 {
		return fmt.Errorf("max_risk_fraction must be in (0, 1), got %.3f", c.MaxRiskFraction)
	}
	if c.MinLotSize <= 0 || c.MaxLotSize < c.MinLotSize {
		return fmt.Errorf("lot bounds invalid: min=%.2f max=%.2f", c.MinLotSize, c.MaxLotSize)
	}
	if c.PipsPerPriceUnit <= 0 {
		return fmt.Errorf("pips_per_price_unit must be positive, got %.2f", c.PipsPerPriceUnit)
	}
	if c.TopK <= 0 {
		return fmt.Errorf("top_k must be positive, got %d", c.TopK)
	}
	return nil
}

// TimeframesAtOrAbove returns the configured timeframes >= the given one,
// used by the sampler for the multi-timeframe confirmation period.
func (c *Config) TimeframesAtOrAbove(timeframeMinutes int) []int {
	var out []int
	for _, tf := range c.Timeframes {
		if tf >= timeframeMinutes {
			out = append(out, tf)
		}
	}
	return out
}

func getEnv(key, defaultVal string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return defaultVal
}
