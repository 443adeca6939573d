package model

// BundleSummary counts what a set of decoded bundles contained.
type BundleSummary struct {
	Bundles          uint64 `json:"bundles"`
	FirstBlock       uint64 `json:"first_block"`
	LastBlock        uint64 `json:"last_block"`
	Assets           int    `json:"assets"`
	PoolUpdates      uint64 `json:"pool_updates"`
	TopOfBlockOrders uint64 `json:"top_of_block_orders"`
	UserOrders       uint64 `json:"user_orders"`
}
