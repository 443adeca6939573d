package storage

import "bundleScope/internal/model"

// MetricsStorage defines a sink for aggregated asset metrics.
type MetricsStorage interface {
	PutMetricsBatch(metrics []model.AssetWindowMetrics) error
}
