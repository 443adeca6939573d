package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bundleScope/internal/bundle"
	"bundleScope/internal/config"
	"bundleScope/internal/dex"
)

func runEncode(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadEncode(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	var in io.Reader = cmd.InOrStdin()
	if cfg.In != "" {
		file, err := os.Open(cfg.In)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer file.Close()
		in = file
	}

	var b bundle.AngstromBundle
	if err := json.NewDecoder(in).Decode(&b); err != nil {
		return fmt.Errorf("parse bundle: %w", err)
	}

	out, err := encodeBundle(&b, cfg.BodyOnly, logger)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), hexutil.Encode(out))
	return err
}

func encodeBundle(b *bundle.AngstromBundle, bodyOnly bool, logger *zap.Logger) ([]byte, error) {
	if bodyOnly {
		return dex.EncodeBundle(b)
	}
	decoder, err := dex.NewDecoder(dex.DecoderConfig{Logger: logger})
	if err != nil {
		return nil, err
	}
	return decoder.EncodeCalldata(b)
}
