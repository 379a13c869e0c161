package reporting

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/davisromans/elliott-optimizer/internal/backtest"
)

// ledgerHeaders are the trade-history table columns, one row per completed
// trade of the best-ranked trial.
var ledgerHeaders = []string{
	"Status",
	"Type",
	"Lots",
	"Entry Time",
	"Exit Time",
	"Entry Price",
	"Exit Price",
	"PnL (USD)",
	"Running Balance",
}

const ledgerTimeLayout = "2006-01-02T15:04:05Z07:00"

// WriteLedgerCSV writes the best trial's trade ledger as a delimited table.
func WriteLedgerCSV(path string, ledger []backtest.LedgerEntry) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create ledger file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(ledgerHeaders); err != nil {
		return err
	}

	for _, entry := range ledger {
		row := []string{
			string(entry.ExitReason),
			string(entry.Direction),
			fmt.Sprintf("%.2f", entry.Lots),
			entry.EntryTime.Format(ledgerTimeLayout),
			entry.ExitTime.Format(ledgerTimeLayout),
			fmt.Sprintf("%.5f", entry.EntryPrice),
			fmt.Sprintf("%.5f", entry.ExitPrice),
			fmt.Sprintf("%.2f", entry.PnL),
			fmt.Sprintf("%.2f", entry.RunningBalance),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
