package bundle

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"bundleScope/internal/pade"
)

// TopOfBlockOrder is the searcher order executed ahead of user orders for a pair.
type TopOfBlockOrder struct {
	UseInternal   bool            `json:"use_internal"`
	QuantityIn    pade.U128       `json:"quantity_in"`
	QuantityOut   pade.U128       `json:"quantity_out"`
	MaxGasAsset0  pade.U128       `json:"max_gas_asset_0"`
	GasUsedAsset0 pade.U128       `json:"gas_used_asset_0"`
	PairsIndex    uint16          `json:"pairs_index"`
	ZeroFor1      bool            `json:"zero_for_1"`
	Recipient     *common.Address `json:"recipient"`
	Signature     Signature       `json:"signature"`
}

// header flags: use_internal, zero_for_1, recipient, signature tag
var topOfBlockHeaderBits = 3 + pade.VariantBits(signatureVariants)

func (o *TopOfBlockOrder) DecodePADE(r *pade.Reader) error {
	h, err := r.ReadHeader(topOfBlockHeaderBits)
	if err != nil {
		return fieldErr("header", err)
	}
	if o.UseInternal, err = h.Bool(); err != nil {
		return fieldErr("use_internal", err)
	}
	if o.QuantityIn, err = readU128(r); err != nil {
		return fieldErr("quantity_in", err)
	}
	if o.QuantityOut, err = readU128(r); err != nil {
		return fieldErr("quantity_out", err)
	}
	if o.MaxGasAsset0, err = readU128(r); err != nil {
		return fieldErr("max_gas_asset_0", err)
	}
	if o.GasUsedAsset0, err = readU128(r); err != nil {
		return fieldErr("gas_used_asset_0", err)
	}
	if o.PairsIndex, err = r.ReadUint16(); err != nil {
		return fieldErr("pairs_index", err)
	}
	if o.ZeroFor1, err = h.Bool(); err != nil {
		return fieldErr("zero_for_1", err)
	}
	present, err := h.Bool()
	if err != nil {
		return fieldErr("recipient", err)
	}
	if o.Recipient, err = pade.ReadOptional(r, present, readAddress); err != nil {
		return fieldErr("recipient", err)
	}
	tag, err := h.Tag(signatureVariants)
	if err != nil {
		return fieldErr("signature", err)
	}
	if err := o.Signature.decodeVariant(r, tag); err != nil {
		return fieldErr("signature", err)
	}
	return nil
}

func (o TopOfBlockOrder) EncodePADE(w *pade.Writer) error {
	tag, err := o.Signature.Tag()
	if err != nil {
		return fieldErr("signature", err)
	}
	hb := pade.NewHeaderBuilder(topOfBlockHeaderBits)
	hb.Bool(o.UseInternal)
	hb.Bool(o.ZeroFor1)
	hb.Bool(o.Recipient != nil)
	if err := hb.Tag(tag, signatureVariants); err != nil {
		return fieldErr("signature", err)
	}
	if err := w.WriteHeader(hb); err != nil {
		return err
	}

	for _, v := range []pade.U128{o.QuantityIn, o.QuantityOut, o.MaxGasAsset0, o.GasUsedAsset0} {
		if err := writeU128(w, v); err != nil {
			return err
		}
	}
	w.WriteUint16(o.PairsIndex)
	if o.Recipient != nil {
		w.WriteFixed(o.Recipient[:])
	}
	if err := o.Signature.encodeVariant(w); err != nil {
		return fieldErr("signature", err)
	}
	return nil
}

// UserOrder is a limit order from the public book, either exact or partially fillable.
type UserOrder struct {
	RefID              uint32              `json:"ref_id"`
	UseInternal        bool                `json:"use_internal"`
	PairIndex          uint16              `json:"pair_index"`
	MinPrice           common.Hash         `json:"min_price"`
	Recipient          *common.Address     `json:"recipient"`
	HookData           *hexutil.Bytes      `json:"hook_data"`
	ZeroForOne         bool                `json:"zero_for_one"`
	StandingValidation *StandingValidation `json:"standing_validation"`
	OrderQuantities    OrderQuantities     `json:"order_quantities"`
	MaxExtraFeeAsset0  pade.U128           `json:"max_extra_fee_asset0"`
	ExtraFeeAsset0     pade.U128           `json:"extra_fee_asset0"`
	ExactIn            bool                `json:"exact_in"`
	Signature          Signature           `json:"signature"`
}

// header flags: use_internal, recipient, hook_data, zero_for_one,
// standing_validation, order_quantities tag, exact_in, signature tag
var userOrderHeaderBits = 6 + pade.VariantBits(quantitiesVariants) + pade.VariantBits(signatureVariants)

func readHookData(r *pade.Reader) (hexutil.Bytes, error) {
	b, err := r.ReadBytes()
	return hexutil.Bytes(b), err
}

func (o *UserOrder) DecodePADE(r *pade.Reader) error {
	h, err := r.ReadHeader(userOrderHeaderBits)
	if err != nil {
		return fieldErr("header", err)
	}
	if o.RefID, err = r.ReadUint32(); err != nil {
		return fieldErr("ref_id", err)
	}
	if o.UseInternal, err = h.Bool(); err != nil {
		return fieldErr("use_internal", err)
	}
	if o.PairIndex, err = r.ReadUint16(); err != nil {
		return fieldErr("pair_index", err)
	}
	if o.MinPrice, err = readHash(r); err != nil {
		return fieldErr("min_price", err)
	}

	present, err := h.Bool()
	if err != nil {
		return fieldErr("recipient", err)
	}
	if o.Recipient, err = pade.ReadOptional(r, present, readAddress); err != nil {
		return fieldErr("recipient", err)
	}
	if present, err = h.Bool(); err != nil {
		return fieldErr("hook_data", err)
	}
	if o.HookData, err = pade.ReadOptional(r, present, readHookData); err != nil {
		return fieldErr("hook_data", err)
	}
	if o.ZeroForOne, err = h.Bool(); err != nil {
		return fieldErr("zero_for_one", err)
	}
	if present, err = h.Bool(); err != nil {
		return fieldErr("standing_validation", err)
	}
	if o.StandingValidation, err = pade.ReadOptional(r, present, readStandingValidation); err != nil {
		return fieldErr("standing_validation", err)
	}

	tag, err := h.Tag(quantitiesVariants)
	if err != nil {
		return fieldErr("order_quantities", err)
	}
	if err := o.OrderQuantities.decodeVariant(r, tag); err != nil {
		return fieldErr("order_quantities", err)
	}
	if o.MaxExtraFeeAsset0, err = readU128(r); err != nil {
		return fieldErr("max_extra_fee_asset0", err)
	}
	if o.ExtraFeeAsset0, err = readU128(r); err != nil {
		return fieldErr("extra_fee_asset0", err)
	}
	if o.ExactIn, err = h.Bool(); err != nil {
		return fieldErr("exact_in", err)
	}
	if tag, err = h.Tag(signatureVariants); err != nil {
		return fieldErr("signature", err)
	}
	if err := o.Signature.decodeVariant(r, tag); err != nil {
		return fieldErr("signature", err)
	}
	return nil
}

func (o UserOrder) EncodePADE(w *pade.Writer) error {
	qtag, err := o.OrderQuantities.Tag()
	if err != nil {
		return fieldErr("order_quantities", err)
	}
	stag, err := o.Signature.Tag()
	if err != nil {
		return fieldErr("signature", err)
	}
	hb := pade.NewHeaderBuilder(userOrderHeaderBits)
	hb.Bool(o.UseInternal)
	hb.Bool(o.Recipient != nil)
	hb.Bool(o.HookData != nil)
	hb.Bool(o.ZeroForOne)
	hb.Bool(o.StandingValidation != nil)
	if err := hb.Tag(qtag, quantitiesVariants); err != nil {
		return fieldErr("order_quantities", err)
	}
	hb.Bool(o.ExactIn)
	if err := hb.Tag(stag, signatureVariants); err != nil {
		return fieldErr("signature", err)
	}
	if err := w.WriteHeader(hb); err != nil {
		return err
	}

	w.WriteUint32(o.RefID)
	w.WriteUint16(o.PairIndex)
	w.WriteFixed(o.MinPrice[:])
	if o.Recipient != nil {
		w.WriteFixed(o.Recipient[:])
	}
	if o.HookData != nil {
		if err := w.WriteBytes(*o.HookData); err != nil {
			return fieldErr("hook_data", err)
		}
	}
	if o.StandingValidation != nil {
		if err := o.StandingValidation.EncodePADE(w); err != nil {
			return fieldErr("standing_validation", err)
		}
	}
	if err := o.OrderQuantities.encodeVariant(w); err != nil {
		return fieldErr("order_quantities", err)
	}
	if err := writeU128(w, o.MaxExtraFeeAsset0); err != nil {
		return fieldErr("max_extra_fee_asset0", err)
	}
	if err := writeU128(w, o.ExtraFeeAsset0); err != nil {
		return fieldErr("extra_fee_asset0", err)
	}
	if err := o.Signature.encodeVariant(w); err != nil {
		return fieldErr("signature", err)
	}
	return nil
}

// StandingValidation marks a reusable order guarded by a nonce and deadline.
type StandingValidation struct {
	Nonce    uint64 `json:"nonce"`
	Deadline uint64 `json:"deadline"`
}

func readStandingValidation(r *pade.Reader) (StandingValidation, error) {
	var v StandingValidation
	err := v.DecodePADE(r)
	return v, err
}

func (v *StandingValidation) DecodePADE(r *pade.Reader) error {
	var err error
	if v.Nonce, err = r.ReadUint64(); err != nil {
		return fieldErr("nonce", err)
	}
	if v.Deadline, err = r.ReadUint(deadlineWidth); err != nil {
		return fieldErr("deadline", err)
	}
	return nil
}

func (v StandingValidation) EncodePADE(w *pade.Writer) error {
	w.WriteUint64(v.Nonce)
	if err := w.WriteUint(v.Deadline, deadlineWidth); err != nil {
		return fieldErr("deadline", err)
	}
	return nil
}

const (
	QuantitiesExactTag   uint8 = 0
	QuantitiesPartialTag uint8 = 1
	quantitiesVariants         = 2
)

// OrderQuantities holds exactly one of its variants.
type OrderQuantities struct {
	Exact   *ExactQuantities   `json:"Exact,omitempty"`
	Partial *PartialQuantities `json:"Partial,omitempty"`
}

type ExactQuantities struct {
	Quantity pade.U128 `json:"quantity"`
}

type PartialQuantities struct {
	MinQuantityIn  pade.U128 `json:"min_quantity_in"`
	MaxQuantityIn  pade.U128 `json:"max_quantity_in"`
	FilledQuantity pade.U128 `json:"filled_quantity"`
}

func (q OrderQuantities) Tag() (uint8, error) {
	switch {
	case q.Exact != nil && q.Partial == nil:
		return QuantitiesExactTag, nil
	case q.Partial != nil && q.Exact == nil:
		return QuantitiesPartialTag, nil
	}
	return 0, ErrNoVariant
}

func (q *OrderQuantities) decodeVariant(r *pade.Reader, tag uint8) error {
	*q = OrderQuantities{}
	switch tag {
	case QuantitiesExactTag:
		q.Exact = new(ExactQuantities)
		return q.Exact.DecodePADE(r)
	case QuantitiesPartialTag:
		q.Partial = new(PartialQuantities)
		return q.Partial.DecodePADE(r)
	}
	return fmt.Errorf("%w: order quantities tag %d", pade.ErrInvalidVariant, tag)
}

func (q OrderQuantities) encodeVariant(w *pade.Writer) error {
	switch {
	case q.Exact != nil:
		return q.Exact.EncodePADE(w)
	case q.Partial != nil:
		return q.Partial.EncodePADE(w)
	}
	return ErrNoVariant
}

// DecodePADE decodes order quantities carried outside a record, behind a one-byte tag.
func (q *OrderQuantities) DecodePADE(r *pade.Reader) error {
	tag, err := r.ReadTag(quantitiesVariants)
	if err != nil {
		return err
	}
	return q.decodeVariant(r, tag)
}

func (q OrderQuantities) EncodePADE(w *pade.Writer) error {
	tag, err := q.Tag()
	if err != nil {
		return err
	}
	if err := w.WriteTag(tag, quantitiesVariants); err != nil {
		return err
	}
	return q.encodeVariant(w)
}

func (e *ExactQuantities) DecodePADE(r *pade.Reader) error {
	var err error
	if e.Quantity, err = readU128(r); err != nil {
		return fieldErr("quantity", err)
	}
	return nil
}

func (e ExactQuantities) EncodePADE(w *pade.Writer) error {
	return writeU128(w, e.Quantity)
}

func (p *PartialQuantities) DecodePADE(r *pade.Reader) error {
	var err error
	if p.MinQuantityIn, err = readU128(r); err != nil {
		return fieldErr("min_quantity_in", err)
	}
	if p.MaxQuantityIn, err = readU128(r); err != nil {
		return fieldErr("max_quantity_in", err)
	}
	if p.FilledQuantity, err = readU128(r); err != nil {
		return fieldErr("filled_quantity", err)
	}
	return nil
}

func (p PartialQuantities) EncodePADE(w *pade.Writer) error {
	for _, v := range []pade.U128{p.MinQuantityIn, p.MaxQuantityIn, p.FilledQuantity} {
		if err := writeU128(w, v); err != nil {
			return err
		}
	}
	return nil
}
