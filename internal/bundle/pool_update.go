package bundle

import (
	"fmt"

	"bundleScope/internal/pade"
)

// PoolUpdate is a swap applied to one pair plus the reward distribution that follows it.
type PoolUpdate struct {
	ZeroForOne     bool          `json:"zero_for_one"`
	PairIndex      uint16        `json:"pair_index"`
	SwapInQuantity pade.U128     `json:"swap_in_quantity"`
	RewardsUpdate  RewardsUpdate `json:"rewards_update"`
}

// header flags: zero_for_one, rewards_update tag
var poolUpdateHeaderBits = 1 + pade.VariantBits(rewardsVariants)

func (p *PoolUpdate) DecodePADE(r *pade.Reader) error {
	h, err := r.ReadHeader(poolUpdateHeaderBits)
	if err != nil {
		return fieldErr("header", err)
	}
	if p.ZeroForOne, err = h.Bool(); err != nil {
		return fieldErr("zero_for_one", err)
	}
	if p.PairIndex, err = r.ReadUint16(); err != nil {
		return fieldErr("pair_index", err)
	}
	if p.SwapInQuantity, err = readU128(r); err != nil {
		return fieldErr("swap_in_quantity", err)
	}
	tag, err := h.Tag(rewardsVariants)
	if err != nil {
		return fieldErr("rewards_update", err)
	}
	if err := p.RewardsUpdate.decodeVariant(r, tag); err != nil {
		return fieldErr("rewards_update", err)
	}
	return nil
}

func (p PoolUpdate) EncodePADE(w *pade.Writer) error {
	tag, err := p.RewardsUpdate.Tag()
	if err != nil {
		return fieldErr("rewards_update", err)
	}
	hb := pade.NewHeaderBuilder(poolUpdateHeaderBits)
	hb.Bool(p.ZeroForOne)
	if err := hb.Tag(tag, rewardsVariants); err != nil {
		return fieldErr("rewards_update", err)
	}
	if err := w.WriteHeader(hb); err != nil {
		return err
	}

	w.WriteUint16(p.PairIndex)
	if err := writeU128(w, p.SwapInQuantity); err != nil {
		return fieldErr("swap_in_quantity", err)
	}
	if err := p.RewardsUpdate.encodeVariant(w); err != nil {
		return fieldErr("rewards_update", err)
	}
	return nil
}

const (
	RewardsMultiTickTag   uint8 = 0
	RewardsCurrentOnlyTag uint8 = 1
	rewardsVariants             = 2
)

// RewardsUpdate holds exactly one of its variants.
type RewardsUpdate struct {
	MultiTick   *MultiTick   `json:"MultiTick,omitempty"`
	CurrentOnly *CurrentOnly `json:"CurrentOnly,omitempty"`
}

// MultiTick spreads rewards across a run of initialized ticks.
type MultiTick struct {
	StartTick      int32       `json:"start_tick"`
	StartLiquidity pade.U128   `json:"start_liquidity"`
	Quantities     []pade.U128 `json:"quantities"`
	RewardChecksum Checksum    `json:"reward_checksum"`
}

// CurrentOnly rewards only the liquidity at the current tick.
type CurrentOnly struct {
	Amount            pade.U128 `json:"amount"`
	ExpectedLiquidity pade.U128 `json:"expected_liquidity"`
}

// Tag reports which variant is set.
func (u RewardsUpdate) Tag() (uint8, error) {
	switch {
	case u.MultiTick != nil && u.CurrentOnly == nil:
		return RewardsMultiTickTag, nil
	case u.CurrentOnly != nil && u.MultiTick == nil:
		return RewardsCurrentOnlyTag, nil
	}
	return 0, ErrNoVariant
}

func (u *RewardsUpdate) decodeVariant(r *pade.Reader, tag uint8) error {
	*u = RewardsUpdate{}
	switch tag {
	case RewardsMultiTickTag:
		u.MultiTick = new(MultiTick)
		return u.MultiTick.DecodePADE(r)
	case RewardsCurrentOnlyTag:
		u.CurrentOnly = new(CurrentOnly)
		return u.CurrentOnly.DecodePADE(r)
	}
	return fmt.Errorf("%w: rewards update tag %d", pade.ErrInvalidVariant, tag)
}

func (u RewardsUpdate) encodeVariant(w *pade.Writer) error {
	switch {
	case u.MultiTick != nil:
		return u.MultiTick.EncodePADE(w)
	case u.CurrentOnly != nil:
		return u.CurrentOnly.EncodePADE(w)
	}
	return ErrNoVariant
}

// DecodePADE decodes a rewards update carried outside a record, behind a one-byte tag.
func (u *RewardsUpdate) DecodePADE(r *pade.Reader) error {
	tag, err := r.ReadTag(rewardsVariants)
	if err != nil {
		return err
	}
	return u.decodeVariant(r, tag)
}

func (u RewardsUpdate) EncodePADE(w *pade.Writer) error {
	tag, err := u.Tag()
	if err != nil {
		return err
	}
	if err := w.WriteTag(tag, rewardsVariants); err != nil {
		return err
	}
	return u.encodeVariant(w)
}

func (m *MultiTick) DecodePADE(r *pade.Reader) error {
	var err error
	if m.StartTick, err = readTick(r); err != nil {
		return fieldErr("start_tick", err)
	}
	if m.StartLiquidity, err = readU128(r); err != nil {
		return fieldErr("start_liquidity", err)
	}
	if m.Quantities, err = pade.ReadSequenceFunc(r, readU128); err != nil {
		return fieldErr("quantities", err)
	}
	if err := r.ReadFixed(m.RewardChecksum[:]); err != nil {
		return fieldErr("reward_checksum", err)
	}
	return nil
}

func (m MultiTick) EncodePADE(w *pade.Writer) error {
	if err := writeTick(w, m.StartTick); err != nil {
		return fieldErr("start_tick", err)
	}
	if err := writeU128(w, m.StartLiquidity); err != nil {
		return fieldErr("start_liquidity", err)
	}
	if err := pade.WriteSequenceFunc(w, m.Quantities, writeU128); err != nil {
		return fieldErr("quantities", err)
	}
	w.WriteFixed(m.RewardChecksum[:])
	return nil
}

func (c *CurrentOnly) DecodePADE(r *pade.Reader) error {
	var err error
	if c.Amount, err = readU128(r); err != nil {
		return fieldErr("amount", err)
	}
	if c.ExpectedLiquidity, err = readU128(r); err != nil {
		return fieldErr("expected_liquidity", err)
	}
	return nil
}

func (c CurrentOnly) EncodePADE(w *pade.Writer) error {
	if err := writeU128(w, c.Amount); err != nil {
		return err
	}
	return writeU128(w, c.ExpectedLiquidity)
}
