package optimizer

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/davisromans/elliott-optimizer/internal/backtest"
	"github.com/davisromans/elliott-optimizer/pkg/types"
)

// TrialResult pairs one sampled parameter set with its simulated outcome.
// Parameters and result stay distinct records; they are only composed into
// a ranked entry at the aggregation boundary.
type TrialResult struct {
	Params backtest.StrategyParameters
	Result *backtest.BacktestResult
}

// chunkJob is one worker's share of a chart's sample budget.
type chunkJob struct {
	chart  *types.BarSet
	trials int
	seed   int64
}

// runChunks executes every chunk on its own goroutine and streams each
// chunk's results back over a buffered channel. A panic inside a worker is
// converted to an error and fails the whole batch; silently dropping a
// chunk would corrupt the search's statistics.
func runChunks(engine *backtest.Engine, timeframes []int, jobs []chunkJob, onChunkDone func(trials int)) ([]TrialResult, error) {
	resultCh := make(chan []TrialResult, len(jobs))

	var g errgroup.Group
	for _, job := range jobs {
		job := job
		key := "unknown chart"
		if job.chart != nil {
			key = job.chart.ChartKey()
		}
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("worker crashed on %s: %v", key, r)
				}
			}()

			resultCh <- runChunk(engine, timeframes, job)
			if onChunkDone != nil {
				onChunkDone(job.trials)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	close(resultCh)

	var all []TrialResult
	for batch := range resultCh {
		all = append(all, batch...)
	}
	return all, nil
}

// runChunk is the worker body: a pure CPU loop of sample-then-simulate.
// The chart is duplicated so workers never share mutable bar state.
func runChunk(engine *backtest.Engine, timeframes []int, job chunkJob) []TrialResult {
	chart := duplicateChart(job.chart)
	sampler := NewSampler(job.seed, timeframes)

	results := make([]TrialResult, 0, job.trials)
	for i := 0; i < job.trials; i++ {
		params := sampler.Sample(chart.Instrument, chart.TimeframeMinutes)
		outcome := engine.Run(params, chart)
		results = append(results, TrialResult{Params: params, Result: outcome})
	}
	return results
}

func duplicateChart(chart *types.BarSet) *types.BarSet {
	dup := *chart
	dup.Bars = make([]types.Bar, len(chart.Bars))
	copy(dup.Bars, chart.Bars)
	return &dup
}

// ProgressTracker counts completed trials across workers and renders a
// single-line progress report.
type ProgressTracker struct {
	total     int
	completed int
	chunks    int
	startTime time.Time
	mu        sync.Mutex
}

// NewProgressTracker creates a tracker for the given total trial count.
func NewProgressTracker(total int) *ProgressTracker {
	return &ProgressTracker{
		total:     total,
		startTime: time.Now(),
	}
}

// Add records a finished chunk of the given trial count.
func (pt *ProgressTracker) Add(trials int) {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	pt.completed += trials
	pt.chunks++
}

// Snapshot returns completed trials, total trials, percent done, and the
// elapsed wall time.
func (pt *ProgressTracker) Snapshot() (int, int, float64, time.Duration) {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	percent := 0.0
	if pt.total > 0 {
		percent = float64(pt.completed) / float64(pt.total) * 100
	}
	return pt.completed, pt.total, percent, time.Since(pt.startTime)
}
