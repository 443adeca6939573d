package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"bundleScope/internal/model"
)

// JsonlStorage appends records to a JSONL file.
type JsonlStorage struct {
	path string
	mu   sync.Mutex
}

func NewJsonlStorage(path string) *JsonlStorage {
	return &JsonlStorage{path: path}
}

// PutMetricsBatch appends a batch of asset window metrics as JSON lines.
func (s *JsonlStorage) PutMetricsBatch(metrics []model.AssetWindowMetrics) error {
	records := make([]interface{}, len(metrics))
	for i := range metrics {
		records[i] = metrics[i]
	}
	return s.append(records)
}

// PutBundleBatch appends a batch of decoded bundles as JSON lines.
func (s *JsonlStorage) PutBundleBatch(bundles []model.DecodedBundle) error {
	records := make([]interface{}, len(bundles))
	for i := range bundles {
		records[i] = bundles[i]
	}
	return s.append(records)
}

func (s *JsonlStorage) append(records []interface{}) error {
	if len(records) == 0 {
		return nil
	}

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, record := range records {
		line, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshal record: %w", err)
		}
		if _, err := writer.Write(line); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
		if err := writer.WriteByte('\n'); err != nil {
			return fmt.Errorf("write newline: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	return nil
}
