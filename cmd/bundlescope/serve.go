package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bundleScope/internal/config"
	"bundleScope/internal/dex"
	"bundleScope/internal/server"
	"bundleScope/internal/storage"
)

func runServe(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadServe(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	decoder, err := dex.NewDecoder(dex.DecoderConfig{
		MaxSequenceItems: cfg.MaxSequenceItems,
		StrictEnvelope:   cfg.StrictEnvelope,
		Logger:           logger,
	})
	if err != nil {
		return err
	}

	params := server.Params{
		Listen:          cfg.Listen,
		MaxBodyBytes:    cfg.MaxBodyBytes,
		ShutdownTimeout: cfg.ShutdownTimeout,
		Decoder:         decoder,
		Logger:          logger,
	}
	if cfg.Archive != "" {
		params.Archive = storage.NewJsonlStorage(cfg.Archive)
	}

	srv, err := server.NewServer(params)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("serve start",
		zap.String("listen", cfg.Listen),
		zap.Int64("max_body_bytes", cfg.MaxBodyBytes),
		zap.Bool("strict_envelope", cfg.StrictEnvelope),
		zap.String("archive", cfg.Archive),
	)

	return srv.Run(ctx)
}
