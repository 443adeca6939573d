package bundle

import (
	"bundleScope/internal/pade"
)

// AngstromBundle is a batch of settlement instructions submitted together.
type AngstromBundle struct {
	Assets           []Asset           `json:"assets"`
	Pairs            []Pair            `json:"pairs"`
	PoolUpdates      []PoolUpdate      `json:"pool_updates"`
	TopOfBlockOrders []TopOfBlockOrder `json:"top_of_block_orders"`
	UserOrders       []UserOrder       `json:"user_orders"`
}

func (b *AngstromBundle) DecodePADE(r *pade.Reader) error {
	var err error
	if b.Assets, err = pade.ReadSequence[Asset](r); err != nil {
		return fieldErr("assets", err)
	}
	if b.Pairs, err = pade.ReadSequence[Pair](r); err != nil {
		return fieldErr("pairs", err)
	}
	if b.PoolUpdates, err = pade.ReadSequence[PoolUpdate](r); err != nil {
		return fieldErr("pool_updates", err)
	}
	if b.TopOfBlockOrders, err = pade.ReadSequence[TopOfBlockOrder](r); err != nil {
		return fieldErr("top_of_block_orders", err)
	}
	if b.UserOrders, err = pade.ReadSequence[UserOrder](r); err != nil {
		return fieldErr("user_orders", err)
	}
	return nil
}

func (b AngstromBundle) EncodePADE(w *pade.Writer) error {
	if err := pade.WriteSequence(w, b.Assets); err != nil {
		return fieldErr("assets", err)
	}
	if err := pade.WriteSequence(w, b.Pairs); err != nil {
		return fieldErr("pairs", err)
	}
	if err := pade.WriteSequence(w, b.PoolUpdates); err != nil {
		return fieldErr("pool_updates", err)
	}
	if err := pade.WriteSequence(w, b.TopOfBlockOrders); err != nil {
		return fieldErr("top_of_block_orders", err)
	}
	if err := pade.WriteSequence(w, b.UserOrders); err != nil {
		return fieldErr("user_orders", err)
	}
	return nil
}
