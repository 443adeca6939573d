package model

import "bundleScope/internal/bundle"

// DecodedBundle is a decoded settlement bundle with its source context.
type DecodedBundle struct {
	BlockNumber uint64                `json:"block_number"`
	TxHash      string                `json:"tx_hash"`
	BodyBytes   int                   `json:"body_bytes"`
	Verified    bool                  `json:"verified"`
	Bundle      bundle.AngstromBundle `json:"bundle"`
	DecodedAt   string                `json:"decoded_at"`
}
