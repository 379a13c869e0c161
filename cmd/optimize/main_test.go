package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davisromans/elliott-optimizer/internal/config"
)

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }
func strPtr(v string) *string { return &v }
func boolPtr(v bool) *bool    { return &v }

func manualFlags() *OptimizeFlags {
	return &OptimizeFlags{
		ConfigFile:  strPtr(""),
		EnvFile:     strPtr(".env"),
		HistoryDir:  strPtr(""),
		Samples:     intPtr(0),
		Workers:     intPtr(0),
		Seed:        int64Ptr(0),
		TopK:        intPtr(0),
		ConsoleOnly: boolPtr(false),
		ShowVersion: boolPtr(false),
	}
}

func TestValidateOptimizeFlags(t *testing.T) {
	require.NoError(t, ValidateOptimizeFlags(manualFlags()))

	negative := manualFlags()
	negative.Samples = intPtr(-1)
	assert.Error(t, ValidateOptimizeFlags(negative))

	negative = manualFlags()
	negative.Workers = intPtr(-2)
	assert.Error(t, ValidateOptimizeFlags(negative))

	negative = manualFlags()
	negative.TopK = intPtr(-5)
	assert.Error(t, ValidateOptimizeFlags(negative))
}

func TestApplyFlagOverrides(t *testing.T) {
	cfg := config.Default()

	flags := manualFlags()
	flags.HistoryDir = strPtr("ticks")
	flags.Samples = intPtr(2500)
	flags.Workers = intPtr(6)
	flags.Seed = int64Ptr(42)
	flags.TopK = intPtr(3)

	applyFlagOverrides(cfg, flags)

	assert.Equal(t, "ticks", cfg.HistoryDir)
	assert.Equal(t, 2500, cfg.SamplesPerChart)
	assert.Equal(t, 6, cfg.Workers)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, 3, cfg.TopK)
}

func TestApplyFlagOverrides_ZeroValuesKeepConfig(t *testing.T) {
	cfg := config.Default()
	before := *cfg

	applyFlagOverrides(cfg, manualFlags())

	assert.Equal(t, before.SamplesPerChart, cfg.SamplesPerChart)
	assert.Equal(t, before.Workers, cfg.Workers)
	assert.Equal(t, before.TopK, cfg.TopK)
	assert.Equal(t, before.HistoryDir, cfg.HistoryDir)
}
