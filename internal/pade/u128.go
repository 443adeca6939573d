package pade

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
)

// U128 is an unsigned 128-bit integer. It marshals to text as a decimal string.
type U128 struct {
	Hi uint64
	Lo uint64
}

// NewU128 returns v as a U128.
func NewU128(v uint64) U128 {
	return U128{Lo: v}
}

// U128FromBig converts a non-negative big.Int of at most 128 bits.
func U128FromBig(v *big.Int) (U128, error) {
	if v == nil || v.Sign() < 0 {
		return U128{}, fmt.Errorf("%w: u128 must be non-negative", ErrOverflow)
	}
	z, overflow := uint256.FromBig(v)
	if overflow {
		return U128{}, fmt.Errorf("%w: %s exceeds 128 bits", ErrOverflow, v)
	}
	return u128FromUint256(z)
}

func u128FromUint256(z *uint256.Int) (U128, error) {
	if z.BitLen() > 128 {
		return U128{}, fmt.Errorf("%w: %s exceeds 128 bits", ErrOverflow, z.Dec())
	}
	return U128{Hi: z[1], Lo: z[0]}, nil
}

func (u U128) uint256() *uint256.Int {
	return &uint256.Int{u.Lo, u.Hi, 0, 0}
}

// Big returns u as a big.Int.
func (u U128) Big() *big.Int {
	return u.uint256().ToBig()
}

// IsZero reports whether u is zero.
func (u U128) IsZero() bool {
	return u.Hi == 0 && u.Lo == 0
}

// BitLen returns the number of significant bits.
func (u U128) BitLen() int {
	return u.uint256().BitLen()
}

func (u U128) String() string {
	return u.uint256().Dec()
}

func (u U128) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText accepts a decimal string or a 0x-prefixed hex string.
func (u *U128) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		b, ok := new(big.Int).SetString(s[2:], 16)
		if !ok {
			return fmt.Errorf("parse u128 %q: invalid hex", s)
		}
		v, err := U128FromBig(b)
		if err != nil {
			return err
		}
		*u = v
		return nil
	}

	z, err := uint256.FromDecimal(s)
	if err != nil {
		return fmt.Errorf("parse u128 %q: %w", s, err)
	}
	v, err := u128FromUint256(z)
	if err != nil {
		return err
	}
	*u = v
	return nil
}
