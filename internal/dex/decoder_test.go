package dex

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"bundleScope/internal/bundle"
	"bundleScope/internal/pade"
)

// sampleCalldata is a mainnet execute(bytes) call settling one USDC/WETH pair.
const sampleCalldata = "0x09c5eabe00000000000000000000000000000000000000000000000000000000000000" +
	"200000000000000000000000000000000000000000000000000000000000000174000088" +
	"a0b86991c6218b36c1d19d4a2e9eb0ce3606eb480000000000000000000000000001dd7e" +
	"000000000000000000000000013dcd7600000000000000000000000000000000c02aaa39" +
	"b223fe8d0a0e5c4f27ead9083c756cc20000000000000000000000000000000000000000" +
	"0000000000000000000000000000000000000000001bed63d818030b0000260000000100" +
	"000000000000000000000000000000000000000000000000000000000000000000000033" +
	"0200000000000000000000001bed63d818030b0000000000000000000000000000000a00" +
	"00000000000000000013806b76267d000084080000000000000000001bed63d818030b00" +
	"0000000000000000000000013dcd6c0000000000000000000000000003bafc0000000000" +
	"000000000000000001dd7e00001ce7254b94c5bea4da8303c64c16dd07106247ca887e45" +
	"2f283f4a69d53c304a453f213d526e766320c829d2189748ab1a4ddd8c3d0ce12e96723b" +
	"64ddae6fe6e8000000000000000000000000000000"

const sampleBodyLen = 372

func newTestDecoder(t *testing.T, cfg DecoderConfig) *Decoder {
	t.Helper()
	d, err := NewDecoder(cfg)
	if err != nil {
		t.Fatalf("decoder: %v", err)
	}
	return d
}

func TestSelectorMatchesMethodSignature(t *testing.T) {
	id := crypto.Keccak256([]byte("execute(bytes)"))[:4]
	if !bytes.Equal(id, Selector[:]) {
		t.Fatalf("selector mismatch: %x", id)
	}
	if common.Bytes2Hex(id) != SelectorHex {
		t.Fatalf("selector hex mismatch: %x", id)
	}
}

func TestDecodeSample(t *testing.T) {
	d := newTestDecoder(t, DecoderConfig{})
	b, err := d.DecodeHex(sampleCalldata)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if len(b.Assets) != 2 || len(b.Pairs) != 1 || len(b.PoolUpdates) != 1 || len(b.TopOfBlockOrders) != 1 || len(b.UserOrders) != 0 {
		t.Fatalf("section sizes mismatch: %+v", b)
	}
	if b.Assets[0].Addr != common.HexToAddress("0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48") {
		t.Fatalf("asset 0 address mismatch: %s", b.Assets[0].Addr.Hex())
	}
	if b.Assets[0].Save.String() != "122238" || b.Assets[0].Take.String() != "20827510" {
		t.Fatalf("asset 0 amounts mismatch: %+v", b.Assets[0])
	}
	if b.Assets[1].Settle.String() != "7860837454185227" {
		t.Fatalf("asset 1 settle mismatch: %s", b.Assets[1].Settle)
	}
	rewards := b.PoolUpdates[0].RewardsUpdate.CurrentOnly
	if rewards == nil || rewards.Amount.String() != "10" || rewards.ExpectedLiquidity.String() != "21442279646845" {
		t.Fatalf("rewards mismatch: %+v", b.PoolUpdates[0].RewardsUpdate)
	}
	tob := b.TopOfBlockOrders[0]
	if tob.QuantityOut.String() != "20827500" || tob.MaxGasAsset0.String() != "244476" || tob.GasUsedAsset0.String() != "122238" {
		t.Fatalf("top of block amounts mismatch: %+v", tob)
	}
	if tob.Recipient != nil {
		t.Fatalf("unexpected recipient: %s", tob.Recipient.Hex())
	}
	if tob.Signature.Ecdsa == nil || tob.Signature.Ecdsa.V != 28 {
		t.Fatalf("signature mismatch: %+v", tob.Signature)
	}
}

func TestEncodeCalldataReproducesSample(t *testing.T) {
	d := newTestDecoder(t, DecoderConfig{})
	calldata := common.FromHex(sampleCalldata)

	b, err := d.Decode(calldata)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	out, err := d.EncodeCalldata(b)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.Equal(out, calldata) {
		t.Fatalf("calldata mismatch:\n got %x\nwant %x", out, calldata)
	}

	if _, err := d.Verify(calldata); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

func TestSelectorGate(t *testing.T) {
	d := newTestDecoder(t, DecoderConfig{})
	body := strings.TrimPrefix(sampleCalldata, "0x")[len(SelectorHex):]

	cases := map[string]string{
		"wrong selector": "0x12345678" + body,
		"not hex":        "zz",
		"empty":          "",
		"short":          "0x09c5",
		"hex after":      "0x09c5eabe0g",
	}
	for name, input := range cases {
		if _, err := d.DecodeHex(input); !errors.Is(err, ErrInvalidSelector) {
			t.Fatalf("%s: expected invalid selector, got %v", name, err)
		}
	}

	for _, input := range []string{
		strings.TrimPrefix(sampleCalldata, "0x"),
		"0X" + strings.ToUpper(SelectorHex) + body,
	} {
		if _, err := d.DecodeHex(input); err != nil {
			t.Fatalf("decode %q: %v", input[:12], err)
		}
	}

	if d.CanDecode([]byte{0x09, 0xc5}) {
		t.Fatalf("short calldata should not be decodable")
	}
	if _, err := d.Decode([]byte{0x09, 0xc5, 0xea}); !errors.Is(err, ErrInvalidSelector) {
		t.Fatalf("expected invalid selector, got %v", err)
	}
}

func TestTruncatedCalldata(t *testing.T) {
	d := newTestDecoder(t, DecoderConfig{})
	calldata := common.FromHex(sampleCalldata)
	end := HeaderSize + sampleBodyLen

	for n := len(Selector); n < end; n++ {
		if _, err := d.Decode(calldata[:n]); !errors.Is(err, pade.ErrUnexpectedEnd) {
			t.Fatalf("prefix %d: expected unexpected end, got %v", n, err)
		}
	}
	if _, err := d.Decode(calldata[:end]); err != nil {
		t.Fatalf("unpadded calldata: %v", err)
	}
}

func TestStrictEnvelope(t *testing.T) {
	strict := newTestDecoder(t, DecoderConfig{StrictEnvelope: true})
	lenient := newTestDecoder(t, DecoderConfig{})
	calldata := common.FromHex(sampleCalldata)

	if _, err := strict.Decode(calldata); err != nil {
		t.Fatalf("strict decode: %v", err)
	}

	extended := append(append([]byte{}, calldata...), make([]byte, 32)...)
	if _, err := strict.Decode(extended); !errors.Is(err, ErrTrailingBytes) {
		t.Fatalf("expected trailing bytes, got %v", err)
	}
	if _, err := lenient.Decode(extended); err != nil {
		t.Fatalf("lenient decode: %v", err)
	}

	body := append(append([]byte{}, calldata[HeaderSize:HeaderSize+sampleBodyLen]...), 0xff)
	args, err := strict.method.Inputs.Pack(body)
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	padded := append(Selector[:], args...)
	if _, err := strict.Decode(padded); !errors.Is(err, ErrTrailingBytes) {
		t.Fatalf("expected trailing bytes inside envelope, got %v", err)
	}
	if _, err := lenient.Decode(padded); err != nil {
		t.Fatalf("lenient decode of extended body: %v", err)
	}
}

func TestSequenceItemCap(t *testing.T) {
	d := newTestDecoder(t, DecoderConfig{MaxSequenceItems: 1})
	_, err := d.DecodeHex(sampleCalldata)
	if !errors.Is(err, pade.ErrSequenceTooLong) {
		t.Fatalf("expected sequence cap error, got %v", err)
	}
	if !strings.Contains(err.Error(), "assets") {
		t.Fatalf("error lacks field path: %v", err)
	}
}

func TestDecodeToJSON(t *testing.T) {
	out := DecodeToJSON(sampleCalldata)
	var decoded bundle.AngstromBundle
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("success output is not a bundle: %v", err)
	}
	if len(decoded.Assets) != 2 {
		t.Fatalf("assets mismatch: %s", out)
	}
	if !strings.Contains(out, `"Ecdsa":{"v":28`) {
		t.Fatalf("signature not externally tagged: %s", out)
	}

	out = DecodeToJSON("0xdeadbeef")
	var message string
	if err := json.Unmarshal([]byte(out), &message); err != nil {
		t.Fatalf("failure output is not a JSON string: %s", out)
	}
	if !strings.Contains(message, "invalid selector") {
		t.Fatalf("unexpected message: %s", message)
	}

	d := newTestDecoder(t, DecoderConfig{})
	text, err := d.DecodeResult(sampleCalldata[:200])
	if !errors.Is(err, pade.ErrUnexpectedEnd) {
		t.Fatalf("expected unexpected end, got %v", err)
	}
	if !strings.HasPrefix(text, `"`) {
		t.Fatalf("failure output should be a JSON string: %s", text)
	}
}
