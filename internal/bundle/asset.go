package bundle

import (
	"github.com/ethereum/go-ethereum/common"

	"bundleScope/internal/pade"
)

// Asset is the per-token accounting entry of a bundle.
type Asset struct {
	Addr   common.Address `json:"addr"`
	Save   pade.U128      `json:"save"`
	Take   pade.U128      `json:"take"`
	Settle pade.U128      `json:"settle"`
}

func (a *Asset) DecodePADE(r *pade.Reader) error {
	var err error
	if a.Addr, err = readAddress(r); err != nil {
		return fieldErr("addr", err)
	}
	if a.Save, err = readU128(r); err != nil {
		return fieldErr("save", err)
	}
	if a.Take, err = readU128(r); err != nil {
		return fieldErr("take", err)
	}
	if a.Settle, err = readU128(r); err != nil {
		return fieldErr("settle", err)
	}
	return nil
}

func (a Asset) EncodePADE(w *pade.Writer) error {
	w.WriteFixed(a.Addr[:])
	for _, v := range []pade.U128{a.Save, a.Take, a.Settle} {
		if err := writeU128(w, v); err != nil {
			return err
		}
	}
	return nil
}

// Pair references two assets by index.
type Pair struct {
	Index0      uint16      `json:"index0"`
	Index1      uint16      `json:"index1"`
	StoreIndex  uint16      `json:"store_index"`
	Price1Over0 common.Hash `json:"price_1over0"`
}

func (p *Pair) DecodePADE(r *pade.Reader) error {
	var err error
	if p.Index0, err = r.ReadUint16(); err != nil {
		return fieldErr("index0", err)
	}
	if p.Index1, err = r.ReadUint16(); err != nil {
		return fieldErr("index1", err)
	}
	if p.StoreIndex, err = r.ReadUint16(); err != nil {
		return fieldErr("store_index", err)
	}
	if p.Price1Over0, err = readHash(r); err != nil {
		return fieldErr("price_1over0", err)
	}
	return nil
}

func (p Pair) EncodePADE(w *pade.Writer) error {
	w.WriteUint16(p.Index0)
	w.WriteUint16(p.Index1)
	w.WriteUint16(p.StoreIndex)
	w.WriteFixed(p.Price1Over0[:])
	return nil
}
