package data

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/davisromans/elliott-optimizer/pkg/types"
)

// Column layout of a terminal tick export: date, time, bid, ask.
const (
	dateCol = 0
	timeCol = 1
	bidCol  = 2
	askCol  = 3

	minColumns = 4
)

// Accepted timestamp layouts after the date and time columns are joined.
// Terminal exports vary in second/millisecond precision.
var timestampLayouts = []string{
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// TickProvider loads raw tick history from tab-delimited terminal exports.
// Rows that fail to parse are skipped with a warning, never fatal.
type TickProvider struct {
	delimiter string
	maxTicks  int
}

// NewTickProvider creates a provider reading at most maxTicks rows per file.
// maxTicks <= 0 means unlimited.
func NewTickProvider(maxTicks int) *TickProvider {
	return &TickProvider{
		delimiter: "\t",
		maxTicks:  maxTicks,
	}
}

// GetName returns the name of the data provider.
func (p *TickProvider) GetName() string {
	return "Tick File Provider"
}

// SymbolFromFile derives the instrument symbol from a data file name.
// Example: "XAUUSDm.csv" -> "XAUUSD".
func SymbolFromFile(filename string) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.TrimSuffix(base, "m")
	return strings.ToUpper(base)
}

// LoadTicks streams ticks from a single file. Header lines and malformed
// rows are skipped; reading stops once the tick cap is reached.
func (p *TickProvider) LoadTicks(filename string) ([]types.Tick, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open tick file %s: %w", filename, err)
	}
	defer file.Close()

	var ticks []types.Tick

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNum := 0
	skipped := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		if strings.TrimSpace(line) == "" || strings.Contains(line, "Date") || strings.Contains(line, "<DATE>") {
			continue
		}

		tick, ok := p.parseRow(line)
		if !ok {
			skipped++
			continue
		}
		ticks = append(ticks, tick)

		if p.maxTicks > 0 && len(ticks) >= p.maxTicks {
			log.Printf("⚠️  Tick cap (%d) reached for %s, remaining rows ignored", p.maxTicks, filepath.Base(filename))
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s at line %d: %w", filename, lineNum, err)
	}

	if skipped > 0 {
		log.Printf("⚠️  Skipped %d malformed rows in %s", skipped, filepath.Base(filename))
	}

	return ticks, nil
}

// parseRow converts one tab-delimited row into a mid-price tick.
func (p *TickProvider) parseRow(line string) (types.Tick, bool) {
	fields := strings.Split(line, p.delimiter)
	cols := fields[:0]
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			cols = append(cols, f)
		}
	}
	if len(cols) < minColumns {
		return types.Tick{}, false
	}

	// Some exports use a comma decimal separator.
	bid, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(cols[bidCol]), ",", "."), 64)
	if err != nil || bid <= 0 {
		return types.Tick{}, false
	}
	ask, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(cols[askCol]), ",", "."), 64)
	if err != nil || ask <= 0 {
		return types.Tick{}, false
	}

	datePart := strings.ReplaceAll(strings.TrimSpace(cols[dateCol]), ".", "-")
	timePart := strings.TrimSpace(cols[timeCol])
	stamp := datePart + "T" + timePart

	var ts time.Time
	parsed := false
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, stamp); err == nil {
			ts = t
			parsed = true
			break
		}
	}
	if !parsed {
		return types.Tick{}, false
	}

	return types.Tick{Timestamp: ts, MidPrice: (bid + ask) / 2}, true
}

// LoadDirectory loads every configured data file under historyDir, keyed by
// the derived instrument symbol. Missing or empty files are logged and
// skipped so one bad file never aborts the batch.
func (p *TickProvider) LoadDirectory(historyDir string, files []string) (map[string][]types.Tick, error) {
	if _, err := os.Stat(historyDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("history folder %s does not exist", historyDir)
	}

	ticksBySymbol := make(map[string][]types.Tick)
	for _, name := range files {
		path := filepath.Join(historyDir, name)
		symbol := SymbolFromFile(name)

		ticks, err := p.LoadTicks(path)
		if err != nil {
			log.Printf("❌ Failed to load %s: %v", name, err)
			continue
		}
		if len(ticks) == 0 {
			log.Printf("❌ Zero valid ticks loaded from %s, check file encoding or path", name)
			continue
		}

		log.Printf("✅ Loaded %d valid ticks for %s", len(ticks), symbol)
		ticksBySymbol[symbol] = ticks
	}

	return ticksBySymbol, nil
}
