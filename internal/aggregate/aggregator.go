package aggregate

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"bundleScope/internal/model"
	"bundleScope/internal/storage"
)

// Config controls aggregation behavior.
type Config struct {
	// WindowBlocks is the window width in blocks. Zero aggregates the whole input as one window.
	WindowBlocks  uint64
	BatchSize     int
	RecomputeFrom uint64
	StateStore    StateStore
	Tokens        *TokenRegistry
}

// Aggregator folds decoded bundles into per-asset block window metrics.
type Aggregator struct {
	cfg     Config
	store   storage.MetricsStorage
	logger  *zap.Logger
	current *Accumulator
	batch   []model.AssetWindowMetrics
}

func NewAggregator(cfg Config, store storage.MetricsStorage, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 1000
	}
	if cfg.Tokens == nil {
		cfg.Tokens = NewTokenRegistry()
	}

	return &Aggregator{
		cfg:    cfg,
		store:  store,
		logger: logger,
	}
}

// Run executes aggregation over a decoded bundles JSONL file and returns totals
// across every aggregated record.
func (a *Aggregator) Run(ctx context.Context, inputPath string) (model.BundleSummary, error) {
	if a.store == nil {
		return model.BundleSummary{}, fmt.Errorf("store is nil")
	}

	startBlock, resume, err := a.loadStartBlock(ctx)
	if err != nil {
		return model.BundleSummary{}, err
	}

	file, err := os.Open(inputPath)
	if err != nil {
		return model.BundleSummary{}, fmt.Errorf("open input: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	totals := NewAccumulator(0, 0)
	var total, aggregated, skipped, failed int

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return model.BundleSummary{}, err
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		total++

		var record model.DecodedBundle
		if err := json.Unmarshal(line, &record); err != nil {
			failed++
			a.logger.Warn("decode bundle record", zap.Int("line", total), zap.Error(err))
			continue
		}

		if resume && record.BlockNumber <= startBlock {
			skipped++
			continue
		}

		ws := windowStart(record.BlockNumber, a.cfg.WindowBlocks)
		if a.current != nil && a.current.WindowStart != ws {
			if err := a.flush(ctx); err != nil {
				return model.BundleSummary{}, err
			}
		}
		if a.current == nil {
			a.current = NewAccumulator(ws, a.windowEnd(ws))
		}

		if err := a.current.AddBundle(record.BlockNumber, &record.Bundle); err != nil {
			failed++
			a.logger.Warn("aggregate bundle", zap.Error(err), zap.String("tx_hash", record.TxHash), zap.Uint64("block", record.BlockNumber))
			continue
		}
		if err := totals.AddBundle(record.BlockNumber, &record.Bundle); err != nil {
			return model.BundleSummary{}, err
		}
		aggregated++
	}

	if err := scanner.Err(); err != nil {
		return model.BundleSummary{}, fmt.Errorf("scan input: %w", err)
	}

	if err := a.flush(ctx); err != nil {
		return model.BundleSummary{}, err
	}
	if err := a.writeBatch(); err != nil {
		return model.BundleSummary{}, err
	}
	summary := totals.Summary()
	if summary.Bundles > 0 && a.cfg.StateStore != nil {
		if err := a.cfg.StateStore.Save(ctx, summary.LastBlock); err != nil {
			return model.BundleSummary{}, err
		}
	}

	a.logger.Info("aggregate complete",
		zap.Int("total", total),
		zap.Int("aggregated", aggregated),
		zap.Int("skipped", skipped),
		zap.Int("failed", failed),
		zap.Int("assets", summary.Assets),
		zap.Uint64("first_block", summary.FirstBlock),
		zap.Uint64("last_block", summary.LastBlock),
	)

	return summary, nil
}

func (a *Aggregator) windowEnd(ws uint64) uint64 {
	if a.cfg.WindowBlocks == 0 {
		return 0
	}
	return ws + a.cfg.WindowBlocks - 1
}

func (a *Aggregator) loadStartBlock(ctx context.Context) (uint64, bool, error) {
	if a.cfg.RecomputeFrom > 0 {
		return a.cfg.RecomputeFrom - 1, true, nil
	}
	if a.cfg.StateStore == nil {
		return 0, false, nil
	}
	return a.cfg.StateStore.Load(ctx)
}

// flush closes the open window and saves progress up to the block before it.
func (a *Aggregator) flush(ctx context.Context) error {
	acc := a.current
	if acc == nil {
		return nil
	}
	a.current = nil
	if acc.Bundles == 0 {
		return nil
	}
	if a.cfg.WindowBlocks == 0 {
		acc.WindowStart, acc.WindowEnd = acc.FirstBlock, acc.LastBlock
	}

	a.batch = append(a.batch, acc.Metrics(a.cfg.Tokens)...)
	a.logger.Debug("window closed",
		zap.Uint64("window_start", acc.WindowStart),
		zap.Uint64("window_end", acc.WindowEnd),
		zap.Uint64("bundles", acc.Bundles),
	)
	if len(a.batch) < a.cfg.BatchSize {
		return nil
	}
	if err := a.writeBatch(); err != nil {
		return err
	}
	if a.cfg.StateStore != nil {
		return a.cfg.StateStore.Save(ctx, acc.LastBlock)
	}
	return nil
}

func (a *Aggregator) writeBatch() error {
	if len(a.batch) == 0 {
		return nil
	}
	if err := a.store.PutMetricsBatch(a.batch); err != nil {
		return err
	}
	a.batch = a.batch[:0]
	return nil
}
