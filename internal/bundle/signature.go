package bundle

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"bundleScope/internal/pade"
)

const (
	SignatureContractTag uint8 = 0
	SignatureEcdsaTag    uint8 = 1
	signatureVariants          = 2
)

// Signature authorizes an order, either through a contract (ERC-1271 style) or
// an ECDSA signature over the order hash.
type Signature struct {
	Contract *ContractSignature `json:"Contract,omitempty"`
	Ecdsa    *EcdsaSignature    `json:"Ecdsa,omitempty"`
}

type ContractSignature struct {
	From      common.Address `json:"from"`
	Signature hexutil.Bytes  `json:"signature"`
}

type EcdsaSignature struct {
	V uint8       `json:"v"`
	R common.Hash `json:"r"`
	S common.Hash `json:"s"`
}

func (s Signature) Tag() (uint8, error) {
	switch {
	case s.Contract != nil && s.Ecdsa == nil:
		return SignatureContractTag, nil
	case s.Ecdsa != nil && s.Contract == nil:
		return SignatureEcdsaTag, nil
	}
	return 0, ErrNoVariant
}

func (s *Signature) decodeVariant(r *pade.Reader, tag uint8) error {
	*s = Signature{}
	switch tag {
	case SignatureContractTag:
		s.Contract = new(ContractSignature)
		return s.Contract.DecodePADE(r)
	case SignatureEcdsaTag:
		s.Ecdsa = new(EcdsaSignature)
		return s.Ecdsa.DecodePADE(r)
	}
	return fmt.Errorf("%w: signature tag %d", pade.ErrInvalidVariant, tag)
}

func (s Signature) encodeVariant(w *pade.Writer) error {
	switch {
	case s.Contract != nil:
		return s.Contract.EncodePADE(w)
	case s.Ecdsa != nil:
		return s.Ecdsa.EncodePADE(w)
	}
	return ErrNoVariant
}

// DecodePADE decodes a signature carried outside a record, behind a one-byte tag.
func (s *Signature) DecodePADE(r *pade.Reader) error {
	tag, err := r.ReadTag(signatureVariants)
	if err != nil {
		return err
	}
	return s.decodeVariant(r, tag)
}

func (s Signature) EncodePADE(w *pade.Writer) error {
	tag, err := s.Tag()
	if err != nil {
		return err
	}
	if err := w.WriteTag(tag, signatureVariants); err != nil {
		return err
	}
	return s.encodeVariant(w)
}

func (c *ContractSignature) DecodePADE(r *pade.Reader) error {
	var err error
	if c.From, err = readAddress(r); err != nil {
		return fieldErr("from", err)
	}
	sig, err := r.ReadBytes()
	if err != nil {
		return fieldErr("signature", err)
	}
	c.Signature = sig
	return nil
}

func (c ContractSignature) EncodePADE(w *pade.Writer) error {
	w.WriteFixed(c.From[:])
	if err := w.WriteBytes(c.Signature); err != nil {
		return fieldErr("signature", err)
	}
	return nil
}

func (e *EcdsaSignature) DecodePADE(r *pade.Reader) error {
	var err error
	if e.V, err = r.ReadUint8(); err != nil {
		return fieldErr("v", err)
	}
	if e.R, err = readHash(r); err != nil {
		return fieldErr("r", err)
	}
	if e.S, err = readHash(r); err != nil {
		return fieldErr("s", err)
	}
	return nil
}

func (e EcdsaSignature) EncodePADE(w *pade.Writer) error {
	w.WriteUint8(e.V)
	w.WriteFixed(e.R[:])
	w.WriteFixed(e.S[:])
	return nil
}
