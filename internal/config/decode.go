package config

import (
	"github.com/spf13/pflag"

	"bundleScope/internal/pade"
)

// DecodeConfig holds configuration for the decode command.
type DecodeConfig struct {
	In               string
	Out              string
	Errors           string
	Pretty           bool
	Verify           bool
	StrictEnvelope   bool
	MaxSequenceItems int
	Tokens           map[string]string
	LogLevel         string
}

// LoadDecode merges config file, environment variables, and flags into DecodeConfig.
func LoadDecode(cfgFile string, flags *pflag.FlagSet) (DecodeConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"out":                "./data/bundles.jsonl",
		"errors":             "./data/decode_errors.jsonl",
		"max-sequence-items": pade.DefaultMaxSequenceItems,
		"log-level":          "info",
	})
	if err != nil {
		return DecodeConfig{}, err
	}

	cfg := DecodeConfig{
		In:               v.GetString("in"),
		Out:              v.GetString("out"),
		Errors:           v.GetString("errors"),
		Pretty:           v.GetBool("pretty"),
		Verify:           v.GetBool("verify"),
		StrictEnvelope:   v.GetBool("strict-envelope"),
		MaxSequenceItems: v.GetInt("max-sequence-items"),
		Tokens:           getStringMap(v, "tokens"),
		LogLevel:         v.GetString("log-level"),
	}

	return cfg, nil
}
