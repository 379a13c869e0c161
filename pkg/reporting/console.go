package reporting

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/davisromans/elliott-optimizer/internal/backtest"
	"github.com/davisromans/elliott-optimizer/internal/optimizer"
)

// PrintTopResults renders the ranked parameter sets as a console table.
func PrintTopResults(entries []optimizer.RankedEntry) {
	fmt.Println("\n" + strings.Repeat("=", 70))
	fmt.Printf("📊 TOP %d PARAMETER SETS\n", len(entries))
	fmt.Println(strings.Repeat("=", 70))

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)

	t.AppendHeader(table.Row{
		"#", "Chart", "Ratio", "RSI Period", "RSI Threshold", "SL×ATR", "Trades", "Final $", "Score",
	})
	for i, e := range entries {
		t.AppendRow(table.Row{
			i + 1,
			fmt.Sprintf("%s-%dmin", e.Instrument, e.TimeframeMinutes),
			fmt.Sprintf("%.3f", e.TargetRatio),
			e.RSIPeriod,
			fmt.Sprintf("%.2f", e.RSIEntryThreshold),
			fmt.Sprintf("%.1f", e.StopLossATRMultiplier),
			e.TradeCount,
			fmt.Sprintf("%.2f", e.FinalBalance),
			fmt.Sprintf("%.2f", e.Score),
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
		{Number: 8, Align: text.AlignRight},
		{Number: 9, Align: text.AlignRight},
	})
	t.Render()
}

// PrintPortfolioMetrics renders the best trial's recomputed KPIs.
func PrintPortfolioMetrics(m backtest.PortfolioMetrics) {
	fmt.Println("\n" + strings.Repeat("=", 70))
	fmt.Println("📊 BEST STRATEGY PERFORMANCE")
	fmt.Println(strings.Repeat("=", 70))

	fmt.Printf("💰 Initial Balance:    $%.2f\n", m.InitialBalance)
	fmt.Printf("💰 Final Balance:      $%.2f\n", m.FinalBalance)
	fmt.Printf("📈 Net Profit:         $%.2f\n", m.NetProfit)
	fmt.Printf("🔄 Total Trades:       %d\n", m.TotalTrades)
	fmt.Printf("✅ Win Rate:           %.2f%%\n", m.WinRate)
	fmt.Printf("💹 Profit Factor:      %s\n", formatProfitFactor(m.ProfitFactor))
	fmt.Printf("📈 Gross Profit:       $%.2f\n", m.GrossProfit)
	fmt.Printf("📉 Gross Loss:         $%.2f\n", m.GrossLoss)
	fmt.Printf("📉 Max Drawdown:       $%.2f (%.2f%%)\n", m.MaxDrawdownUSD, m.MaxDrawdownPct)
	fmt.Printf("📅 Date Range:         %s\n", m.DateRange())
}

func formatProfitFactor(pf float64) string {
	if math.IsInf(pf, 1) {
		return "∞"
	}
	return fmt.Sprintf("%.2f", pf)
}
