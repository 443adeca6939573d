package dex

import (
	"bytes"
	"fmt"

	"bundleScope/internal/bundle"
	"bundleScope/internal/pade"
)

// EncodeBundle returns the PADE body of b.
func EncodeBundle(b *bundle.AngstromBundle) ([]byte, error) {
	out, err := pade.Encode(b)
	if err != nil {
		return nil, fmt.Errorf("encode bundle: %w", err)
	}
	return out, nil
}

// EncodeCalldata returns execute(bytes) calldata carrying b, including ABI padding.
func (d *Decoder) EncodeCalldata(b *bundle.AngstromBundle) ([]byte, error) {
	body, err := EncodeBundle(b)
	if err != nil {
		return nil, err
	}
	args, err := d.method.Inputs.Pack(body)
	if err != nil {
		return nil, fmt.Errorf("pack execute arguments: %w", err)
	}
	out := make([]byte, 0, len(d.method.ID)+len(args))
	out = append(out, d.method.ID...)
	return append(out, args...), nil
}

// Verify decodes calldata and checks that re-encoding the bundle reproduces
// the consumed body bytes exactly.
func (d *Decoder) Verify(calldata []byte) (*bundle.AngstromBundle, error) {
	b, body, n, err := d.decode(calldata)
	if err != nil {
		return nil, err
	}
	out, err := EncodeBundle(b)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(out, body[:n]) {
		return nil, fmt.Errorf("%w: %d bytes re-encoded, %d consumed", ErrRoundTripMismatch, len(out), n)
	}
	return b, nil
}
