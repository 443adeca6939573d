package config

import (
	"time"

	"github.com/spf13/pflag"

	"bundleScope/internal/pade"
)

// ServeConfig holds configuration for the HTTP server.
type ServeConfig struct {
	Listen           string
	MaxBodyBytes     int64
	ShutdownTimeout  time.Duration
	StrictEnvelope   bool
	MaxSequenceItems int
	Archive          string
	LogLevel         string
}

// LoadServe merges config file, environment variables, and flags into ServeConfig.
func LoadServe(cfgFile string, flags *pflag.FlagSet) (ServeConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"listen":             ":8080",
		"max-body-bytes":     int64(1 << 20),
		"shutdown-timeout":   10 * time.Second,
		"max-sequence-items": pade.DefaultMaxSequenceItems,
		"log-level":          "info",
	})
	if err != nil {
		return ServeConfig{}, err
	}

	cfg := ServeConfig{
		Listen:           v.GetString("listen"),
		MaxBodyBytes:     v.GetInt64("max-body-bytes"),
		ShutdownTimeout:  v.GetDuration("shutdown-timeout"),
		StrictEnvelope:   v.GetBool("strict-envelope"),
		MaxSequenceItems: v.GetInt("max-sequence-items"),
		Archive:          v.GetString("archive"),
		LogLevel:         v.GetString("log-level"),
	}

	return cfg, nil
}
