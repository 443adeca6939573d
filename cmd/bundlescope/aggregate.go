package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bundleScope/internal/aggregate"
	"bundleScope/internal/config"
	"bundleScope/internal/storage"
)

func runAggregate(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadAggregate(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Input == "" {
		return fmt.Errorf("input path is required")
	}
	if cfg.Out == "" {
		return fmt.Errorf("output path is required")
	}

	tokens, err := aggregate.ParseTokenRegistry(cfg.Tokens)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var stateStore aggregate.StateStore
	if cfg.StateFile != "" {
		stateStore = &aggregate.FileStateStore{Path: cfg.StateFile}
	}

	agg := aggregate.NewAggregator(aggregate.Config{
		WindowBlocks:  cfg.WindowBlocks,
		BatchSize:     cfg.BatchSize,
		RecomputeFrom: cfg.RecomputeFrom,
		StateStore:    stateStore,
		Tokens:        tokens,
	}, storage.NewJsonlStorage(cfg.Out), logger)

	logger.Info("aggregate start",
		zap.String("input", cfg.Input),
		zap.String("out", cfg.Out),
		zap.Uint64("window_blocks", cfg.WindowBlocks),
		zap.Int("batch_size", cfg.BatchSize),
		zap.Uint64("recompute_from", cfg.RecomputeFrom),
		zap.String("state_file", cfg.StateFile),
	)

	_, err = agg.Run(ctx, cfg.Input)
	return err
}
