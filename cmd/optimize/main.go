package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"

	"github.com/davisromans/elliott-optimizer/internal/backtest"
	"github.com/davisromans/elliott-optimizer/internal/config"
	"github.com/davisromans/elliott-optimizer/internal/logger"
	"github.com/davisromans/elliott-optimizer/internal/optimizer"
	"github.com/davisromans/elliott-optimizer/pkg/data"
	"github.com/davisromans/elliott-optimizer/pkg/reporting"
)

const (
	AppName    = "Elliott Parameter Optimizer"
	AppVersion = "1.2.0"
)

func main() {
	flags := NewOptimizeFlags()
	defaultUsage := flag.Usage
	flag.Usage = func() {
		defaultUsage()
		fmt.Println()
		PrintUsageExamples()
	}
	flag.Parse()

	if err := ValidateOptimizeFlags(flags); err != nil {
		log.Fatalf("❌ Flag validation error: %v", err)
	}

	if *flags.ShowVersion {
		fmt.Printf("%s v%s\n", AppName, AppVersion)
		return
	}

	printHeader()
	loadEnvironment(*flags.EnvFile)

	cfg, err := config.Load(*flags.ConfigFile)
	if err != nil {
		log.Fatalf("❌ Configuration error: %v", err)
	}
	applyFlagOverrides(cfg, flags)

	runLog, err := logger.NewRunLogger(strings.Join(cfg.Instruments, "_"))
	if err != nil {
		log.Printf("⚠️  Run log unavailable: %v", err)
		runLog = nil
	}
	defer runLog.Close()

	// Load ticks and build one chart per (instrument, timeframe) pair.
	provider := data.NewTickProvider(cfg.MaxTicksFile)
	ticksBySymbol, err := provider.LoadDirectory(cfg.HistoryDir, cfg.DataFiles)
	if err != nil {
		log.Fatalf("❌ Data loading failed: %v", err)
	}
	if len(ticksBySymbol) == 0 {
		log.Fatalf("❌ No usable tick data under %s", cfg.HistoryDir)
	}

	orch := optimizer.NewOrchestrator(cfg, runLog)

	fmt.Printf("\n--- MULTI-WORKER OPTIMIZATION (workers: %d) ---\n", orch.Workers())
	fmt.Printf("Instruments: %s | Timeframes: %v | Samples per chart: %d\n",
		strings.Join(cfg.Instruments, ", "), cfg.Timeframes, cfg.SamplesPerChart)
	fmt.Printf("Costs: spread %.1f pips, commission $%.2f/lot\n", cfg.SpreadPips, cfg.CommissionPerLot)
	fmt.Println(strings.Repeat("-", 70))

	charts := orch.BuildCharts(ticksBySymbol)

	outcome, err := orch.Run(charts)
	if err != nil {
		runLog.Errorf("run aborted: %v", err)
		log.Fatalf("❌ %v", err)
	}
	if len(outcome.Results) == 0 {
		log.Fatalf("❌ No charts had enough bars to optimize (need %d); nothing to rank", cfg.MinBarsPerChart)
	}

	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("Optimization complete: %d trials in %.1fs (seed %d)\n",
		outcome.TotalTrials, outcome.Elapsed.Seconds(), outcome.Seed)
	fmt.Println(strings.Repeat("=", 70))
	runLog.Infof("completed %d trials in %s", outcome.TotalTrials, outcome.Elapsed)

	ranked := optimizer.Rank(outcome.Results)
	top := optimizer.TopK(ranked, cfg.TopK)
	entries := optimizer.Compose(top)

	reporting.PrintTopResults(entries)

	best := top[0]
	metrics, ledger, ok := backtest.ComputeMetrics(cfg.InitialBalance, best.Result.Trades)
	if !ok {
		fmt.Println("\n⚠️  Best parameter set produced no trades; skipping ledger reports")
	} else {
		reporting.PrintPortfolioMetrics(metrics)
	}

	if *flags.ConsoleOnly {
		return
	}

	writeReports(cfg, outcome, entries, metrics, ledger, ok)
}

func writeReports(cfg *config.Config, outcome *optimizer.SearchOutcome,
	entries []optimizer.RankedEntry, metrics backtest.PortfolioMetrics,
	ledger []backtest.LedgerEntry, haveLedger bool) {

	description := fmt.Sprintf("Top %d parameter sets from multi-worker backtest. Initial balance: $%.2f.",
		len(entries), cfg.InitialBalance)
	meta := reporting.NewMetadata(description, outcome.TotalTrials, outcome.Elapsed, outcome.Seed)

	if err := reporting.WriteResultsJSON(cfg.ResultsJSON, meta, entries); err != nil {
		log.Printf("❌ Failed to write results JSON: %v", err)
	} else {
		fmt.Printf("\n✅ Saved %d parameter sets to %s\n", len(entries), cfg.ResultsJSON)
	}

	if !haveLedger {
		return
	}

	if err := reporting.WriteLedgerCSV(cfg.LedgerCSV, ledger); err != nil {
		log.Printf("❌ Failed to write ledger CSV: %v", err)
	} else {
		fmt.Printf("✅ Trade history saved to %s\n", cfg.LedgerCSV)
	}

	if err := reporting.WriteLedgerXLSX(cfg.LedgerXLSX, metrics, ledger); err != nil {
		log.Printf("❌ Failed to write ledger workbook: %v", err)
	} else {
		fmt.Printf("✅ Trade workbook saved to %s\n", cfg.LedgerXLSX)
	}

	if err := reporting.WriteHTMLReport(cfg.ReportHTML, metrics, ledger); err != nil {
		log.Printf("❌ Failed to write HTML report: %v", err)
	} else {
		fmt.Printf("✅ Performance report saved to %s\n", cfg.ReportHTML)
	}
}

func applyFlagOverrides(cfg *config.Config, flags *OptimizeFlags) {
	if *flags.HistoryDir != "" {
		cfg.HistoryDir = *flags.HistoryDir
	}
	if *flags.Samples > 0 {
		cfg.SamplesPerChart = *flags.Samples
	}
	if *flags.Workers > 0 {
		cfg.Workers = *flags.Workers
	}
	if *flags.Seed != 0 {
		cfg.Seed = *flags.Seed
	}
	if *flags.TopK > 0 {
		cfg.TopK = *flags.TopK
	}
}

func printHeader() {
	fmt.Printf("🎯 %s v%s\n", strings.ToUpper(AppName), AppVersion)
	fmt.Printf("%s\n", strings.Repeat("=", 70))
}

func loadEnvironment(envFile string) {
	if err := godotenv.Load(envFile); err != nil {
		log.Printf("⚠️  Could not load %s (%v), using system environment", envFile, err)
	}
}
