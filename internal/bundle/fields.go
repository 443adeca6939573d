package bundle

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"bundleScope/internal/pade"
)

const (
	u128Width = 16
	tickWidth = 3
	// deadlineWidth is the wire width of StandingValidation.Deadline.
	deadlineWidth = 5
)

// ErrNoVariant reports a union value with zero or several variants set.
var ErrNoVariant = fmt.Errorf("bundle: exactly one union variant must be set: %w", pade.ErrInvalidVariant)

// Checksum is the 20-byte reward checksum carried by multi-tick reward updates.
type Checksum [20]byte

func (c Checksum) MarshalText() ([]byte, error) {
	return hexutil.Bytes(c[:]).MarshalText()
}

func (c *Checksum) UnmarshalText(input []byte) error {
	return hexutil.UnmarshalFixedText("Checksum", input, c[:])
}

func (c Checksum) String() string {
	return hexutil.Encode(c[:])
}

func fieldErr(field string, err error) error {
	return fmt.Errorf("%s: %w", field, err)
}

func readAddress(r *pade.Reader) (common.Address, error) {
	var a common.Address
	err := r.ReadFixed(a[:])
	return a, err
}

func readHash(r *pade.Reader) (common.Hash, error) {
	var h common.Hash
	err := r.ReadFixed(h[:])
	return h, err
}

func readU128(r *pade.Reader) (pade.U128, error) {
	return r.ReadU128(u128Width)
}

func writeU128(w *pade.Writer, v pade.U128) error {
	return w.WriteU128(v, u128Width)
}

func readTick(r *pade.Reader) (int32, error) {
	v, err := r.ReadInt(tickWidth)
	return int32(v), err
}

func writeTick(w *pade.Writer, v int32) error {
	return w.WriteInt(int64(v), tickWidth)
}
