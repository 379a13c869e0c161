package optimizer

import (
	"fmt"
	"log"
	"runtime"
	"time"

	"github.com/davisromans/elliott-optimizer/internal/backtest"
	"github.com/davisromans/elliott-optimizer/internal/bars"
	"github.com/davisromans/elliott-optimizer/internal/config"
	"github.com/davisromans/elliott-optimizer/internal/logger"
	"github.com/davisromans/elliott-optimizer/pkg/types"
)

// SearchOutcome is the concatenated result of every dispatched chunk.
type SearchOutcome struct {
	Results     []TrialResult
	TotalTrials int
	Seed        int64
	Elapsed     time.Duration
}

// Orchestrator partitions the sampling workload across a fixed worker pool
// per (instrument, timeframe) chart and collects the results. Workers get
// immutable copies of the bar data and communicate only through one-shot
// result messages.
type Orchestrator struct {
	cfg     *config.Config
	engine  *backtest.Engine
	workers int
	runLog  *logger.RunLogger
}

// NewOrchestrator creates an orchestrator sized to the configured worker
// count, defaulting to the available hardware parallelism.
func NewOrchestrator(cfg *config.Config, runLog *logger.RunLogger) *Orchestrator {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	engineCfg := backtest.SimulationConfig{
		InitialBalance:     cfg.InitialBalance,
		MaxRiskFraction:    cfg.MaxRiskFraction,
		MinLotSize:         cfg.MinLotSize,
		MaxLotSize:         cfg.MaxLotSize,
		DollarPerPipPerLot: cfg.DollarPerPipPerLot,
		SpreadPips:         cfg.SpreadPips,
		CommissionPerLot:   cfg.CommissionPerLot,
	}

	return &Orchestrator{
		cfg:     cfg,
		engine:  backtest.NewEngine(engineCfg),
		workers: workers,
		runLog:  runLog,
	}
}

// Workers returns the effective worker pool size.
func (o *Orchestrator) Workers() int {
	return o.workers
}

// BuildCharts aggregates the loaded ticks into one bar set per configured
// (instrument, timeframe) pair.
func (o *Orchestrator) BuildCharts(ticksBySymbol map[string][]types.Tick) map[string]*types.BarSet {
	agg := bars.NewAggregator(o.cfg.PipsPerPriceUnit, o.cfg.MaxBarsPerChart)

	charts := make(map[string]*types.BarSet)
	for _, instrument := range o.cfg.Instruments {
		ticks, ok := ticksBySymbol[instrument]
		if !ok {
			log.Printf("⚠️  No tick data loaded for %s, skipping instrument", instrument)
			continue
		}
		for _, tf := range o.cfg.Timeframes {
			set := agg.Aggregate(instrument, ticks, tf)
			charts[set.ChartKey()] = set
			log.Printf("   -> Generated %d %dm bars for %s", len(set.Bars), tf, instrument)
		}
	}
	return charts
}

// Run dispatches every chart with enough bars across the worker pool and
// blocks until all chunks complete. A worker failure aborts the whole run;
// a chart with too few bars is skipped and logged, never failed.
func (o *Orchestrator) Run(charts map[string]*types.BarSet) (*SearchOutcome, error) {
	seed := o.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	var jobs []chunkJob
	totalTrials := 0
	chunkIdx := int64(0)

	// Deterministic chart order so a pinned seed reproduces draw streams.
	for _, instrument := range o.cfg.Instruments {
		for _, tf := range o.cfg.Timeframes {
			chart, ok := charts[types.ChartKey(instrument, tf)]
			if !ok {
				continue
			}
			if len(chart.Bars) < o.cfg.MinBarsPerChart {
				log.Printf("⚠️  Skipping %s: only %d valid bars found (need %d)",
					chart.ChartKey(), len(chart.Bars), o.cfg.MinBarsPerChart)
				o.runLog.Warningf("skipped %s with %d bars", chart.ChartKey(), len(chart.Bars))
				continue
			}

			for _, trials := range partition(o.cfg.SamplesPerChart, o.workers) {
				jobs = append(jobs, chunkJob{
					chart:  chart,
					trials: trials,
					seed:   seed + chunkIdx,
				})
				chunkIdx++
				totalTrials += trials
			}
		}
	}

	if len(jobs) == 0 {
		return &SearchOutcome{Seed: seed}, nil
	}

	o.runLog.Infof("dispatching %d chunks (%d trials) across %d workers, seed %d",
		len(jobs), totalTrials, o.workers, seed)

	tracker := NewProgressTracker(totalTrials)
	started := time.Now()

	results, err := runChunks(o.engine, o.cfg.Timeframes, jobs, func(trials int) {
		tracker.Add(trials)
		done, total, percent, _ := tracker.Snapshot()
		fmt.Printf("\rOverall progress: %6.2f%% | Trials done: %d/%d", percent, done, total)
	})
	fmt.Println()
	if err != nil {
		return nil, fmt.Errorf("optimization aborted: %w", err)
	}

	return &SearchOutcome{
		Results:     results,
		TotalTrials: totalTrials,
		Seed:        seed,
		Elapsed:     time.Since(started),
	}, nil
}

// partition splits n trials into at most slots near-equal chunks whose
// sizes sum exactly to n.
func partition(n, slots int) []int {
	if slots <= 0 {
		slots = 1
	}
	base := n / slots
	rem := n % slots

	var chunks []int
	for i := 0; i < slots; i++ {
		size := base
		if i < rem {
			size++
		}
		if size > 0 {
			chunks = append(chunks, size)
		}
	}
	return chunks
}
