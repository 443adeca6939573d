package config

import (
	"github.com/spf13/pflag"
)

// AggregateConfig holds configuration for aggregation.
type AggregateConfig struct {
	Input         string
	Out           string
	WindowBlocks  uint64
	BatchSize     int
	StateFile     string
	RecomputeFrom uint64
	Tokens        map[string]string
	LogLevel      string
}

// LoadAggregate merges config file, environment variables, and flags into AggregateConfig.
func LoadAggregate(cfgFile string, flags *pflag.FlagSet) (AggregateConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"out":           "./data/asset_metrics.jsonl",
		"window-blocks": uint64(0),
		"batch-size":    1000,
		"log-level":     "info",
	})
	if err != nil {
		return AggregateConfig{}, err
	}

	cfg := AggregateConfig{
		Input:         v.GetString("in"),
		Out:           v.GetString("out"),
		WindowBlocks:  v.GetUint64("window-blocks"),
		BatchSize:     v.GetInt("batch-size"),
		StateFile:     v.GetString("state-file"),
		RecomputeFrom: v.GetUint64("recompute-from"),
		Tokens:        getStringMap(v, "tokens"),
		LogLevel:      v.GetString("log-level"),
	}

	return cfg, nil
}
