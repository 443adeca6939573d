package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bundleScope/internal/aggregate"
	"bundleScope/internal/bundle"
	"bundleScope/internal/config"
	"bundleScope/internal/dex"
	"bundleScope/internal/model"
)

func runDecode(cmd *cobra.Command, args []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadDecode(cfgFile, cmd.Flags())
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

	if len(args) == 1 {
		return decodeSingle(cmd.OutOrStdout(), decoder, args[0], cfg)
	}

	if cfg.In == "" {
		return fmt.Errorf("hex argument or input path is required")
	}
	if cfg.Out == "" {
		return fmt.Errorf("output path is required")
	}
	if cfg.Errors == "" {
		return fmt.Errorf("errors path is required")
	}

	tokens, err := aggregate.ParseTokenRegistry(cfg.Tokens)
	if err != nil {
		return err
	}

	return decodeBatch(decoder, cfg, tokens, logger)
}

// decodeSingle prints the bundle JSON, or the error message as a JSON string.
func decodeSingle(out io.Writer, decoder *dex.Decoder, input string, cfg config.DecodeConfig) error {
	text, decodeErr := decoder.DecodeResult(input)
	if decodeErr == nil && cfg.Verify {
		var calldata []byte
		if calldata, decodeErr = dex.ParseHex(input); decodeErr == nil {
			_, decodeErr = decoder.Verify(calldata)
		}
		if decodeErr != nil {
			encoded, _ := json.Marshal(decodeErr.Error())
			text = string(encoded)
		}
	}

	if cfg.Pretty {
		var indented bytes.Buffer
		if err := json.Indent(&indented, []byte(text), "", "  "); err == nil {
			text = indented.String()
		}
	}
	if _, err := fmt.Fprintln(out, text); err != nil {
		return err
	}
	return decodeErr
}

func decodeBatch(decoder *dex.Decoder, cfg config.DecodeConfig, tokens *aggregate.TokenRegistry, logger *zap.Logger) error {
	inputFile, err := os.Open(cfg.In)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer inputFile.Close()

	outWriter, err := newJSONLWriter(cfg.Out, false)
	if err != nil {
		return err
	}
	defer outWriter.Close()

	errWriter, err := newJSONLWriter(cfg.Errors, false)
	if err != nil {
		return err
	}
	defer errWriter.Close()

	logger.Info("decode start",
		zap.String("in", cfg.In),
		zap.String("out", cfg.Out),
		zap.String("errors", cfg.Errors),
		zap.Bool("verify", cfg.Verify),
		zap.Bool("strict_envelope", cfg.StrictEnvelope),
		zap.Int("max_sequence_items", cfg.MaxSequenceItems),
	)

	scanner := bufio.NewScanner(inputFile)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	totals := aggregate.NewAccumulator(0, 0)
	var lineNo, total, decoded, failed int
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		total++

		record, err := parseCalldataLine(line)
		if err != nil {
			failed++
			writeDecodeError(errWriter, model.DecodeError{Line: lineNo, Error: err.Error()})
			continue
		}

		out, err := decodeRecord(decoder, record, cfg.Verify)
		if err != nil {
			failed++
			writeDecodeError(errWriter, decodeErrorFromRecord(lineNo, record, err))
			continue
		}

		if err := outWriter.Write(out); err != nil {
			return err
		}
		if err := totals.AddBundle(out.BlockNumber, &out.Bundle); err != nil {
			logger.Warn("bundle references do not resolve",
				zap.Int("line", lineNo),
				zap.String("tx_hash", out.TxHash),
				zap.Error(err),
			)
		}
		decoded++
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan input: %w", err)
	}

	summary := totals.Summary()
	logger.Info("decode complete",
		zap.Int("total", total),
		zap.Int("decoded", decoded),
		zap.Int("failed", failed),
		zap.Int("assets", summary.Assets),
		zap.Uint64("pool_updates", summary.PoolUpdates),
		zap.Uint64("top_of_block_orders", summary.TopOfBlockOrders),
		zap.Uint64("user_orders", summary.UserOrders),
	)
	for _, m := range totals.Metrics(tokens) {
		logger.Debug("asset totals",
			zap.String("asset", m.Asset),
			zap.String("symbol", m.Symbol),
			zap.String("take", m.Take),
			zap.String("settle", m.Settle),
			zap.String("user_order_volume", m.UserOrderVolume),
		)
	}

	return nil
}

// parseCalldataLine accepts either a bare hex payload or a calldata record object.
func parseCalldataLine(line []byte) (model.CalldataRecord, error) {
	if line[0] != '{' {
		return model.CalldataRecord{Input: string(line)}, nil
	}
	var record model.CalldataRecord
	if err := json.Unmarshal(line, &record); err != nil {
		return model.CalldataRecord{}, fmt.Errorf("parse calldata record: %w", err)
	}
	return record, nil
}

func decodeRecord(decoder *dex.Decoder, record model.CalldataRecord, verify bool) (model.DecodedBundle, error) {
	calldata, err := dex.ParseHex(record.Input)
	if err != nil {
		return model.DecodedBundle{}, err
	}

	var (
		b *bundle.AngstromBundle
		n int
	)
	if verify {
		if b, err = decoder.Verify(calldata); err == nil {
			var body []byte
			body, err = dex.EncodeBundle(b)
			n = len(body)
		}
	} else {
		b, n, err = decoder.DecodeWithSize(calldata)
	}
	if err != nil {
		return model.DecodedBundle{}, err
	}

	return model.DecodedBundle{
		BlockNumber: record.BlockNumber,
		TxHash:      record.TxHash,
		BodyBytes:   n,
		Verified:    verify,
		Bundle:      *b,
		DecodedAt:   time.Now().UTC().Format(time.RFC3339Nano),
	}, nil
}

type jsonlWriter struct {
	file   *os.File
	writer *bufio.Writer
}

func newJSONLWriter(path string, appendMode bool) (*jsonlWriter, error) {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create dir: %w", err)
		}
	}

	flags := os.O_CREATE | os.O_WRONLY
	if appendMode {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	return &jsonlWriter{
		file:   file,
		writer: bufio.NewWriter(file),
	}, nil
}

func (w *jsonlWriter) Write(value interface{}) error {
	line, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if _, err := w.writer.Write(line); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if err := w.writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("write newline: %w", err)
	}
	return nil
}

func (w *jsonlWriter) Close() error {
	if w == nil {
		return nil
	}
	if err := w.writer.Flush(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

func decodeErrorFromRecord(line int, record model.CalldataRecord, err error) model.DecodeError {
	return model.DecodeError{
		Line:        line,
		BlockNumber: record.BlockNumber,
		TxHash:      record.TxHash,
		Selector:    selectorOf(record.Input),
		Error:       err.Error(),
	}
}

// selectorOf returns the first four bytes of a hex payload as 0x-prefixed text.
func selectorOf(input string) string {
	s := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(input), "0x"), "0X")
	if len(s) > 8 {
		s = s[:8]
	}
	if s == "" {
		return ""
	}
	return "0x" + strings.ToLower(s)
}

func writeDecodeError(writer *jsonlWriter, errRecord model.DecodeError) {
	if writer == nil {
		return
	}
	_ = writer.Write(errRecord)
}
