package aggregate

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"bundleScope/internal/bundle"
	"bundleScope/internal/model"
	"bundleScope/internal/pade"
)

// Flows holds raw per-asset amounts accumulated over a block window.
type Flows struct {
	Save            *big.Int
	Take            *big.Int
	Settle          *big.Int
	PoolSwapIn      *big.Int
	TopOfBlockIn    *big.Int
	TopOfBlockOut   *big.Int
	UserOrderVolume *big.Int
	GasUsed         *big.Int
	Rewards         *big.Int
}

func newFlows() *Flows {
	return &Flows{
		Save:            big.NewInt(0),
		Take:            big.NewInt(0),
		Settle:          big.NewInt(0),
		PoolSwapIn:      big.NewInt(0),
		TopOfBlockIn:    big.NewInt(0),
		TopOfBlockOut:   big.NewInt(0),
		UserOrderVolume: big.NewInt(0),
		GasUsed:         big.NewInt(0),
		Rewards:         big.NewInt(0),
	}
}

// Accumulator holds aggregate values for a block window.
type Accumulator struct {
	WindowStart      uint64
	WindowEnd        uint64
	FirstBlock       uint64
	LastBlock        uint64
	Bundles          uint64
	PoolUpdates      uint64
	TopOfBlockOrders uint64
	UserOrders       uint64

	assets map[common.Address]*Flows
	order  []common.Address
}

func NewAccumulator(windowStart, windowEnd uint64) *Accumulator {
	return &Accumulator{
		WindowStart: windowStart,
		WindowEnd:   windowEnd,
		assets:      make(map[common.Address]*Flows),
	}
}

// pairLeg resolves a bundle-local pair index into its asset addresses.
func pairLeg(b *bundle.AngstromBundle, pairIndex uint16) (common.Address, common.Address, error) {
	if int(pairIndex) >= len(b.Pairs) {
		return common.Address{}, common.Address{}, fmt.Errorf("pair index %d out of range (%d pairs)", pairIndex, len(b.Pairs))
	}
	pair := b.Pairs[pairIndex]
	if int(pair.Index0) >= len(b.Assets) || int(pair.Index1) >= len(b.Assets) {
		return common.Address{}, common.Address{}, fmt.Errorf("pair %d references assets %d/%d of %d", pairIndex, pair.Index0, pair.Index1, len(b.Assets))
	}
	return b.Assets[pair.Index0].Addr, b.Assets[pair.Index1].Addr, nil
}

type flowDelta struct {
	asset  common.Address
	target func(*Flows) *big.Int
	amount pade.U128
}

// AddBundle folds one bundle into the window. A bundle whose pair or asset
// references do not resolve is rejected without changing the accumulator.
func (a *Accumulator) AddBundle(blockNumber uint64, b *bundle.AngstromBundle) error {
	if b == nil {
		return fmt.Errorf("bundle is nil")
	}

	deltas := make([]flowDelta, 0, 3*len(b.Assets)+2*len(b.PoolUpdates)+3*len(b.TopOfBlockOrders)+len(b.UserOrders))
	for _, asset := range b.Assets {
		deltas = append(deltas,
			flowDelta{asset.Addr, func(f *Flows) *big.Int { return f.Save }, asset.Save},
			flowDelta{asset.Addr, func(f *Flows) *big.Int { return f.Take }, asset.Take},
			flowDelta{asset.Addr, func(f *Flows) *big.Int { return f.Settle }, asset.Settle},
		)
	}

	for i, update := range b.PoolUpdates {
		asset0, asset1, err := pairLeg(b, update.PairIndex)
		if err != nil {
			return fmt.Errorf("pool update %d: %w", i, err)
		}
		in := asset1
		if update.ZeroForOne {
			in = asset0
		}
		deltas = append(deltas, flowDelta{in, func(f *Flows) *big.Int { return f.PoolSwapIn }, update.SwapInQuantity})
		for _, reward := range rewardAmounts(update.RewardsUpdate) {
			deltas = append(deltas, flowDelta{asset0, func(f *Flows) *big.Int { return f.Rewards }, reward})
		}
	}

	for i, order := range b.TopOfBlockOrders {
		asset0, asset1, err := pairLeg(b, order.PairsIndex)
		if err != nil {
			return fmt.Errorf("top of block order %d: %w", i, err)
		}
		in, out := asset1, asset0
		if order.ZeroFor1 {
			in, out = asset0, asset1
		}
		deltas = append(deltas,
			flowDelta{in, func(f *Flows) *big.Int { return f.TopOfBlockIn }, order.QuantityIn},
			flowDelta{out, func(f *Flows) *big.Int { return f.TopOfBlockOut }, order.QuantityOut},
			flowDelta{asset0, func(f *Flows) *big.Int { return f.GasUsed }, order.GasUsedAsset0},
		)
	}

	for i, order := range b.UserOrders {
		asset0, asset1, err := pairLeg(b, order.PairIndex)
		if err != nil {
			return fmt.Errorf("user order %d: %w", i, err)
		}
		in, out := asset1, asset0
		if order.ZeroForOne {
			in, out = asset0, asset1
		}
		// the quantity is denominated in the input asset for exact-in orders
		asset := out
		if order.ExactIn {
			asset = in
		}
		deltas = append(deltas, flowDelta{asset, func(f *Flows) *big.Int { return f.UserOrderVolume }, filledQuantity(order.OrderQuantities)})
	}

	for _, d := range deltas {
		target := d.target(a.flows(d.asset))
		target.Add(target, d.amount.Big())
	}

	a.Bundles++
	a.PoolUpdates += uint64(len(b.PoolUpdates))
	a.TopOfBlockOrders += uint64(len(b.TopOfBlockOrders))
	a.UserOrders += uint64(len(b.UserOrders))
	if a.FirstBlock == 0 || blockNumber < a.FirstBlock {
		a.FirstBlock = blockNumber
	}
	if blockNumber > a.LastBlock {
		a.LastBlock = blockNumber
	}
	return nil
}

func (a *Accumulator) flows(asset common.Address) *Flows {
	f, ok := a.assets[asset]
	if !ok {
		f = newFlows()
		a.assets[asset] = f
		a.order = append(a.order, asset)
	}
	return f
}

// Flows returns the accumulated flows of asset, if it was seen.
func (a *Accumulator) Flows(asset common.Address) (*Flows, bool) {
	f, ok := a.assets[asset]
	return f, ok
}

// Assets returns the assets seen in the window in first-seen order.
func (a *Accumulator) Assets() []common.Address {
	out := make([]common.Address, len(a.order))
	copy(out, a.order)
	return out
}

func rewardAmounts(update bundle.RewardsUpdate) []pade.U128 {
	switch {
	case update.CurrentOnly != nil:
		return []pade.U128{update.CurrentOnly.Amount}
	case update.MultiTick != nil:
		return update.MultiTick.Quantities
	default:
		return nil
	}
}

func filledQuantity(q bundle.OrderQuantities) pade.U128 {
	switch {
	case q.Exact != nil:
		return q.Exact.Quantity
	case q.Partial != nil:
		return q.Partial.FilledQuantity
	default:
		return pade.U128{}
	}
}

// Summary reports section counts for the window.
func (a *Accumulator) Summary() model.BundleSummary {
	return model.BundleSummary{
		Bundles:          a.Bundles,
		FirstBlock:       a.FirstBlock,
		LastBlock:        a.LastBlock,
		Assets:           len(a.order),
		PoolUpdates:      a.PoolUpdates,
		TopOfBlockOrders: a.TopOfBlockOrders,
		UserOrders:       a.UserOrders,
	}
}

// Metrics renders one row per asset, formatting amounts with registry decimals.
func (a *Accumulator) Metrics(tokens *TokenRegistry) []model.AssetWindowMetrics {
	out := make([]model.AssetWindowMetrics, 0, len(a.order))
	for _, asset := range a.order {
		f := a.assets[asset]
		var meta model.TokenMeta
		if tokens != nil {
			meta, _ = tokens.Get(asset)
		}
		out = append(out, model.AssetWindowMetrics{
			Asset:            asset.Hex(),
			Symbol:           meta.Symbol,
			WindowStartBlock: a.WindowStart,
			WindowEndBlock:   a.WindowEnd,
			Bundles:          a.Bundles,
			Save:             formatTokenAmount(f.Save, meta.Decimals),
			Take:             formatTokenAmount(f.Take, meta.Decimals),
			Settle:           formatTokenAmount(f.Settle, meta.Decimals),
			PoolSwapIn:       formatTokenAmount(f.PoolSwapIn, meta.Decimals),
			TopOfBlockIn:     formatTokenAmount(f.TopOfBlockIn, meta.Decimals),
			TopOfBlockOut:    formatTokenAmount(f.TopOfBlockOut, meta.Decimals),
			UserOrderVolume:  formatTokenAmount(f.UserOrderVolume, meta.Decimals),
			GasUsed:          formatTokenAmount(f.GasUsed, meta.Decimals),
			Rewards:          formatTokenAmount(f.Rewards, meta.Decimals),
		})
	}
	return out
}
