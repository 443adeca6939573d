package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"bundleScope/internal/pade"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "bundlescope",
		Short:        "Angstrom bundle decoder",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	decodeCmd := &cobra.Command{
		Use:   "decode [hex]",
		Short: "Decode execute(bytes) calldata into bundle JSON",
		Long: "With a hex argument, prints the decoded bundle (or a JSON error string) to stdout.\n" +
			"With --in, decodes a file of hex lines or calldata record objects into JSONL.",
		Args: cobra.MaximumNArgs(1),
		RunE: runDecode,
	}

	decodeCmd.Flags().String("in", "", "input calldata file (hex lines or JSON records)")
	decodeCmd.Flags().String("out", "./data/bundles.jsonl", "output decoded bundles JSONL")
	decodeCmd.Flags().String("errors", "./data/decode_errors.jsonl", "decode errors JSONL")
	decodeCmd.Flags().Bool("pretty", false, "indent single payload output")
	decodeCmd.Flags().Bool("verify", false, "require re-encoding to reproduce the body bytes")
	decodeCmd.Flags().Bool("strict-envelope", false, "unpack the ABI argument and reject trailing bytes")
	decodeCmd.Flags().Int("max-sequence-items", pade.DefaultMaxSequenceItems, "maximum items per decoded sequence")
	decodeCmd.Flags().String("tokens", "", "token registry (comma-separated address=SYMBOL:decimals)")
	decodeCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(decodeCmd)

	encodeCmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode bundle JSON into execute(bytes) calldata",
		Args:  cobra.NoArgs,
		RunE:  runEncode,
	}

	encodeCmd.Flags().String("in", "", "bundle JSON file, stdin when empty")
	encodeCmd.Flags().Bool("body-only", false, "print the PADE body without the ABI envelope")
	encodeCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(encodeCmd)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the bundle codec over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	serveCmd.Flags().String("listen", ":8080", "listen address")
	serveCmd.Flags().Int64("max-body-bytes", 1<<20, "maximum request body size")
	serveCmd.Flags().Duration("shutdown-timeout", 10*time.Second, "graceful shutdown timeout")
	serveCmd.Flags().Bool("strict-envelope", false, "unpack the ABI argument and reject trailing bytes")
	serveCmd.Flags().Int("max-sequence-items", pade.DefaultMaxSequenceItems, "maximum items per decoded sequence")
	serveCmd.Flags().String("archive", "", "optional JSONL path receiving decoded bundles")
	serveCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(serveCmd)

	aggregateCmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Aggregate decoded bundles into per-asset window metrics",
		Args:  cobra.NoArgs,
		RunE:  runAggregate,
	}

	aggregateCmd.Flags().String("in", "", "input decoded bundles JSONL")
	aggregateCmd.Flags().String("out", "./data/asset_metrics.jsonl", "output metrics JSONL")
	aggregateCmd.Flags().Uint64("window-blocks", 0, "window width in blocks, 0 for one window over the input")
	aggregateCmd.Flags().Int("batch-size", 1000, "metrics rows per write")
	aggregateCmd.Flags().String("state-file", "", "optional local state file for progress tracking")
	aggregateCmd.Flags().Uint64("recompute-from", 0, "recompute from this block, ignoring saved progress")
	aggregateCmd.Flags().String("tokens", "", "token registry (comma-separated address=SYMBOL:decimals)")
	aggregateCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(aggregateCmd)

	return root
}

// newLogger logs to stderr so stdout stays reserved for command output.
func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stderr"}

	return cfg.Build()
}
