package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/davisromans/elliott-optimizer/internal/optimizer"
)

// Metadata describes one completed optimization run.
type Metadata struct {
	Description        string  `json:"description"`
	TotalTrials        int     `json:"total_properties_generated"`
	TimeElapsedSeconds float64 `json:"time_elapsed_seconds"`
	OutputTimestamp    string  `json:"output_timestamp"`
	Seed               int64   `json:"seed"`
}

// ResultsDocument is the structured results output: run metadata plus the
// top-K parameter sets with their simulated outcomes, ledger excluded.
type ResultsDocument struct {
	Metadata Metadata                `json:"metadata"`
	Top      []optimizer.RankedEntry `json:"top_properties"`
}

// NewMetadata builds run metadata with the output timestamp set to now.
func NewMetadata(description string, totalTrials int, elapsed time.Duration, seed int64) Metadata {
	return Metadata{
		Description:        description,
		TotalTrials:        totalTrials,
		TimeElapsedSeconds: elapsed.Seconds(),
		OutputTimestamp:    time.Now().UTC().Format(time.RFC3339),
		Seed:               seed,
	}
}

// WriteResultsJSON writes the results document with indentation, creating
// parent directories as needed.
func WriteResultsJSON(path string, meta Metadata, top []optimizer.RankedEntry) error {
	doc := ResultsDocument{Metadata: meta, Top: top}

	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}
