package reporting

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/davisromans/elliott-optimizer/internal/backtest"
)

// WriteLedgerXLSX writes the best trial's ledger and KPI summary as an
// Excel workbook with a Trades sheet and a Summary sheet.
func WriteLedgerXLSX(path string, metrics backtest.PortfolioMetrics, ledger []backtest.LedgerEntry) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	fx := excelize.NewFile()
	defer fx.Close()

	const tradesSheet = "Trades"
	const summarySheet = "Summary"

	fx.SetSheetName(fx.GetSheetName(0), tradesSheet)
	if _, err := fx.NewSheet(summarySheet); err != nil {
		return err
	}

	headerStyle, err := fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11, Color: "FFFFFF", Family: "Calibri"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"2F4F4F"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	if err := writeTradesSheet(fx, tradesSheet, headerStyle, ledger); err != nil {
		return err
	}
	if err := writeSummarySheet(fx, summarySheet, headerStyle, metrics); err != nil {
		return err
	}

	return fx.SaveAs(path)
}

func writeTradesSheet(fx *excelize.File, sheet string, headerStyle int, ledger []backtest.LedgerEntry) error {
	for col, header := range ledgerHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := fx.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
		if err := fx.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	for i, entry := range ledger {
		row := i + 2
		values := []interface{}{
			string(entry.ExitReason),
			string(entry.Direction),
			entry.Lots,
			entry.EntryTime.Format("2006-01-02 15:04:05"),
			entry.ExitTime.Format("2006-01-02 15:04:05"),
			entry.EntryPrice,
			entry.ExitPrice,
			entry.PnL,
			entry.RunningBalance,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := fx.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	return fx.SetColWidth(sheet, "A", "I", 20)
}

func writeSummarySheet(fx *excelize.File, sheet string, headerStyle int, m backtest.PortfolioMetrics) error {
	if err := fx.SetCellValue(sheet, "A1", "Metric"); err != nil {
		return err
	}
	if err := fx.SetCellValue(sheet, "B1", "Value"); err != nil {
		return err
	}
	if err := fx.SetCellStyle(sheet, "A1", "B1", headerStyle); err != nil {
		return err
	}

	pf := fmt.Sprintf("%.2f", m.ProfitFactor)
	if math.IsInf(m.ProfitFactor, 1) {
		pf = "Infinity"
	}

	rows := [][2]interface{}{
		{"Initial Balance", fmt.Sprintf("$%.2f", m.InitialBalance)},
		{"Final Balance", fmt.Sprintf("$%.2f", m.FinalBalance)},
		{"Net Profit", fmt.Sprintf("$%.2f", m.NetProfit)},
		{"Total Trades", m.TotalTrades},
		{"Win Rate", fmt.Sprintf("%.2f%%", m.WinRate)},
		{"Profit Factor", pf},
		{"Gross Profit", fmt.Sprintf("$%.2f", m.GrossProfit)},
		{"Gross Loss", fmt.Sprintf("$%.2f", m.GrossLoss)},
		{"Max Drawdown (USD)", fmt.Sprintf("$%.2f", m.MaxDrawdownUSD)},
		{"Max Drawdown (%)", fmt.Sprintf("%.2f%%", m.MaxDrawdownPct)},
		{"Date Range", m.DateRange()},
	}
	for i, r := range rows {
		if err := fx.SetCellValue(sheet, fmt.Sprintf("A%d", i+2), r[0]); err != nil {
			return err
		}
		if err := fx.SetCellValue(sheet, fmt.Sprintf("B%d", i+2), r[1]); err != nil {
			return err
		}
	}

	return fx.SetColWidth(sheet, "A", "B", 24)
}
