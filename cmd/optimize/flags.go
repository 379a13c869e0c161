package main

import (
	"flag"
	"fmt"
)

// OptimizeFlags holds all command line flags for the optimize command.
// Flags override the config file, which overrides built-in defaults.
type OptimizeFlags struct {
	ConfigFile  *string
	EnvFile     *string
	HistoryDir  *string
	Samples     *int
	Workers     *int
	Seed        *int64
	TopK        *int
	ConsoleOnly *bool
	ShowVersion *bool
}

// NewOptimizeFlags registers the command line flags.
func NewOptimizeFlags() *OptimizeFlags {
	return &OptimizeFlags{
		ConfigFile:  flag.String("config", "", "Path to JSON config file (optional)"),
		EnvFile:     flag.String("env", ".env", "Path to environment file"),
		HistoryDir:  flag.String("history", "", "Override tick history directory"),
		Samples:     flag.Int("samples", 0, "Override samples per chart"),
		Workers:     flag.Int("workers", 0, "Worker count (0 = available CPUs)"),
		Seed:        flag.Int64("seed", 0, "RNG seed (0 = random)"),
		TopK:        flag.Int("top", 0, "Override top-K result count"),
		ConsoleOnly: flag.Bool("console-only", false, "Skip file outputs, print to console only"),
		ShowVersion: flag.Bool("version", false, "Show version and exit"),
	}
}

// ValidateOptimizeFlags rejects nonsensical overrides before config load.
func ValidateOptimizeFlags(f *OptimizeFlags) error {
	if *f.Samples < 0 {
		return fmt.Errorf("samples must be non-negative, got %d", *f.Samples)
	}
	if *f.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", *f.Workers)
	}
	if *f.TopK < 0 {
		return fmt.Errorf("top must be non-negative, got %d", *f.TopK)
	}
	return nil
}

// PrintUsageExamples prints common invocations.
func PrintUsageExamples() {
	fmt.Println("EXAMPLES:")
	fmt.Println("  optimize                                 # defaults: history/XAUUSDm.csv, 10000 samples/chart")
	fmt.Println("  optimize -config optimizer.json          # explicit config file")
	fmt.Println("  optimize -samples 2000 -workers 4        # quick run on 4 workers")
	fmt.Println("  optimize -seed 42 -console-only          # reproducible run, console output only")
}
