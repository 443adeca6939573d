package model

// AssetWindowMetrics stores aggregated bundle flows for one asset over a block window.
// Amounts are decimal strings scaled by the token's decimals when known.
type AssetWindowMetrics struct {
	Asset            string `json:"asset"`
	Symbol           string `json:"symbol,omitempty"`
	WindowStartBlock uint64 `json:"window_start_block"`
	WindowEndBlock   uint64 `json:"window_end_block"`
	Bundles          uint64 `json:"bundles"`
	Save             string `json:"save"`
	Take             string `json:"take"`
	Settle           string `json:"settle"`
	PoolSwapIn       string `json:"pool_swap_in"`
	TopOfBlockIn     string `json:"top_of_block_in"`
	TopOfBlockOut    string `json:"top_of_block_out"`
	UserOrderVolume  string `json:"user_order_volume"`
	GasUsed          string `json:"gas_used"`
	Rewards          string `json:"rewards"`
}
