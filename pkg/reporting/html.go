package reporting

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/davisromans/elliott-optimizer/internal/backtest"
)

// WriteHTMLReport renders the best trial's performance report: the KPI
// figures and an equity-curve line over the ledger's running balance.
func WriteHTMLReport(path string, metrics backtest.PortfolioMetrics, ledger []backtest.LedgerEntry) error {
	if len(ledger) == 0 {
		return fmt.Errorf("cannot render report: ledger is empty")
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	page := components.NewPage()
	page.PageTitle = "XAUUSD Backtesting Report"
	page.AddCharts(equityCurve(metrics, ledger), pnlDistribution(ledger))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	return page.Render(f)
}

// equityCurve plots running balance against trade exit times, with the KPI
// summary in the chart subtitle.
func equityCurve(metrics backtest.PortfolioMetrics, ledger []backtest.LedgerEntry) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "1200px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Equity Curve",
			Subtitle: kpiSubtitle(metrics),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Exit Time"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Balance (USD)", Scale: opts.Bool(true)}),
	)

	xAxis := make([]string, 0, len(ledger))
	series := make([]opts.LineData, 0, len(ledger))
	for _, entry := range ledger {
		xAxis = append(xAxis, entry.ExitTime.Format("2006-01-02 15:04"))
		series = append(series, opts.LineData{Value: entry.RunningBalance})
	}

	line.SetXAxis(xAxis)
	line.AddSeries("Running Equity", series,
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false), Smooth: opts.Bool(true)}),
	)
	return line
}

// pnlDistribution plots per-trade profit and loss in trade order.
func pnlDistribution(ledger []backtest.LedgerEntry) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "1200px", Height: "320px"}),
		charts.WithTitleOpts(opts.Title{Title: "Per-Trade PnL"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "PnL (USD)"}),
	)

	xAxis := make([]string, 0, len(ledger))
	series := make([]opts.BarData, 0, len(ledger))
	for i, entry := range ledger {
		xAxis = append(xAxis, fmt.Sprintf("#%d %s", i+1, entry.ExitReason))
		series = append(series, opts.BarData{Value: entry.PnL})
	}

	bar.SetXAxis(xAxis)
	bar.AddSeries("Trade PnL", series)
	return bar
}

func kpiSubtitle(m backtest.PortfolioMetrics) string {
	pf := "∞"
	if !math.IsInf(m.ProfitFactor, 1) {
		pf = fmt.Sprintf("%.2f", m.ProfitFactor)
	}
	return fmt.Sprintf(
		"Net Profit $%.2f | Trades %d | Win Rate %.2f%% | Profit Factor %s | Max DD $%.2f (%.2f%%) | %s",
		m.NetProfit, m.TotalTrades, m.WinRate, pf, m.MaxDrawdownUSD, m.MaxDrawdownPct, m.DateRange(),
	)
}
