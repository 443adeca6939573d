package dex

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"go.uber.org/zap"

	"bundleScope/internal/bundle"
	"bundleScope/internal/pade"
)

const (
	// SelectorHex is the method id of execute(bytes).
	SelectorHex = "09c5eabe"
	// HeaderSize covers the selector plus the ABI offset and length words.
	HeaderSize = 4 + 2*32
)

// Selector is the 4-byte call prefix every bundle payload starts with.
var Selector = [4]byte{0x09, 0xc5, 0xea, 0xbe}

// DecoderConfig configures decoder behavior.
type DecoderConfig struct {
	// MaxSequenceItems caps items per sequence. Zero uses pade.DefaultMaxSequenceItems.
	MaxSequenceItems int
	// StrictEnvelope unpacks the ABI bytes argument and rejects trailing bytes.
	StrictEnvelope bool
	Logger         *zap.Logger
}

// Decoder turns execute(bytes) calldata into bundles. It is immutable after
// construction and safe for concurrent use.
type Decoder struct {
	method abi.Method
	cfg    DecoderConfig
	logger *zap.Logger
}

// NewDecoder builds a bundle decoder.
func NewDecoder(cfg DecoderConfig) (*Decoder, error) {
	parsed, err := AngstromABI()
	if err != nil {
		return nil, fmt.Errorf("parse abi: %w", err)
	}
	method, ok := parsed.Methods["execute"]
	if !ok {
		return nil, fmt.Errorf("abi has no execute method")
	}
	if !bytes.Equal(method.ID, Selector[:]) {
		return nil, fmt.Errorf("execute method id 0x%x does not match selector 0x%s", method.ID, SelectorHex)
	}
	if cfg.MaxSequenceItems <= 0 {
		cfg.MaxSequenceItems = pade.DefaultMaxSequenceItems
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Decoder{method: method, cfg: cfg, logger: logger}, nil
}

// CanDecode checks if calldata carries the bundle selector.
func (d *Decoder) CanDecode(calldata []byte) bool {
	return len(calldata) >= len(Selector) && bytes.Equal(calldata[:len(Selector)], Selector[:])
}

// Decode decodes the bundle carried by calldata. Bytes after the bundle are
// ignored unless the decoder runs in strict envelope mode.
func (d *Decoder) Decode(calldata []byte) (*bundle.AngstromBundle, error) {
	b, _, _, err := d.decode(calldata)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// DecodeWithSize is Decode that also reports how many body bytes the bundle consumed.
func (d *Decoder) DecodeWithSize(calldata []byte) (*bundle.AngstromBundle, int, error) {
	b, _, n, err := d.decode(calldata)
	if err != nil {
		return nil, 0, err
	}
	return b, n, nil
}

func (d *Decoder) decode(calldata []byte) (*bundle.AngstromBundle, []byte, int, error) {
	if !d.CanDecode(calldata) {
		return nil, nil, 0, fmt.Errorf("%w: calldata does not start with 0x%s", ErrInvalidSelector, SelectorHex)
	}
	body, err := d.body(calldata)
	if err != nil {
		return nil, nil, 0, err
	}

	var b bundle.AngstromBundle
	n, err := pade.Decode(body, &b, pade.WithMaxSequenceItems(d.cfg.MaxSequenceItems))
	if err != nil {
		d.logger.Debug("bundle decode failed", zap.Int("body_bytes", len(body)), zap.Error(err))
		return nil, nil, 0, fmt.Errorf("decode bundle: %w", err)
	}
	if d.cfg.StrictEnvelope && n != len(body) {
		return nil, nil, 0, fmt.Errorf("%w: %d of %d bytes unread", ErrTrailingBytes, len(body)-n, len(body))
	}

	d.logger.Debug("bundle decoded",
		zap.Int("body_bytes", n),
		zap.Int("assets", len(b.Assets)),
		zap.Int("pairs", len(b.Pairs)),
		zap.Int("pool_updates", len(b.PoolUpdates)),
		zap.Int("top_of_block_orders", len(b.TopOfBlockOrders)),
		zap.Int("user_orders", len(b.UserOrders)),
	)
	return &b, body, n, nil
}

// body returns the PADE bytes following the ABI header.
func (d *Decoder) body(calldata []byte) ([]byte, error) {
	if len(calldata) < HeaderSize {
		return nil, fmt.Errorf("%w: calldata of %d bytes is shorter than the %d byte header", pade.ErrUnexpectedEnd, len(calldata), HeaderSize)
	}
	if !d.cfg.StrictEnvelope {
		return calldata[HeaderSize:], nil
	}

	args, err := d.method.Inputs.Unpack(calldata[len(Selector):])
	if err != nil {
		return nil, fmt.Errorf("%w: unpack execute arguments: %v", pade.ErrUnexpectedEnd, err)
	}
	encoded, ok := args[0].([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected execute argument type %T", args[0])
	}
	if want := HeaderSize + paddedLen(len(encoded)); len(calldata) != want {
		return nil, fmt.Errorf("%w: calldata is %d bytes, envelope declares %d", ErrTrailingBytes, len(calldata), want)
	}
	return encoded, nil
}

func paddedLen(n int) int {
	return (n + 31) / 32 * 32
}

// DecodeHex decodes a hex payload, with or without a 0x prefix. The selector is
// checked on the text before any hex decoding happens.
func (d *Decoder) DecodeHex(input string) (*bundle.AngstromBundle, error) {
	data, err := ParseHex(input)
	if err != nil {
		return nil, err
	}
	return d.Decode(data)
}

// ParseHex turns a hex payload into calldata bytes, rejecting anything that does
// not start with the bundle selector.
func ParseHex(input string) ([]byte, error) {
	s := strings.TrimSpace(input)
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	if len(s) < len(SelectorHex) || !strings.EqualFold(s[:len(SelectorHex)], SelectorHex) {
		return nil, fmt.Errorf("%w: payload does not start with 0x%s", ErrInvalidSelector, SelectorHex)
	}
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSelector, err)
	}
	return data, nil
}

// DecodeToJSON decodes a hex payload and returns the bundle as JSON text. A
// failure is returned on the same channel as a JSON string holding the error message.
func (d *Decoder) DecodeToJSON(input string) string {
	text, _ := d.DecodeResult(input)
	return text
}

// DecodeResult is DecodeToJSON that also reports the decode error, if any.
func (d *Decoder) DecodeResult(input string) (string, error) {
	b, err := d.DecodeHex(input)
	if err != nil {
		return errorJSON(err), err
	}
	out, err := json.Marshal(b)
	if err != nil {
		return errorJSON(err), err
	}
	return string(out), nil
}

func errorJSON(err error) string {
	out, _ := json.Marshal(err.Error())
	return string(out)
}

var (
	defaultDecoder     *Decoder
	defaultDecoderOnce sync.Once
	defaultDecoderErr  error
)

// DecodeToJSON decodes a hex payload with default settings.
func DecodeToJSON(input string) string {
	defaultDecoderOnce.Do(func() {
		defaultDecoder, defaultDecoderErr = NewDecoder(DecoderConfig{})
	})
	if defaultDecoderErr != nil {
		return errorJSON(defaultDecoderErr)
	}
	return defaultDecoder.DecodeToJSON(input)
}
