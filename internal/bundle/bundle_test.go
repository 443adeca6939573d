package bundle

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/require"

	"bundleScope/internal/pade"
)

// sampleBody is the PADE body of a mainnet settlement with two assets, one pair,
// one pool update and one top-of-block order.
var sampleBody = strings.Join([]string{
	"000088",
	"a0b86991c6218b36c1d19d4a2e9eb0ce3606eb48",
	"0000000000000000000000000001dd7e",
	"000000000000000000000000013dcd76",
	"00000000000000000000000000000000",
	"c02aaa39b223fe8d0a0e5c4f27ead9083c756cc2",
	"00000000000000000000000000000000",
	"00000000000000000000000000000000",
	"0000000000000000001bed63d818030b",
	"000026",
	"0000", "0001", "0000",
	"0000000000000000000000000000000000000000000000000000000000000000",
	"000033",
	"02",
	"0000",
	"0000000000000000001bed63d818030b",
	"0000000000000000000000000000000a",
	"0000000000000000000013806b76267d",
	"000084",
	"08",
	"0000000000000000001bed63d818030b",
	"000000000000000000000000013dcd6c",
	"0000000000000000000000000003bafc",
	"0000000000000000000000000001dd7e",
	"0000",
	"1c",
	"e7254b94c5bea4da8303c64c16dd07106247ca887e452f283f4a69d53c304a45",
	"3f213d526e766320c829d2189748ab1a4ddd8c3d0ce12e96723b64ddae6fe6e8",
	"000000",
}, "")

func decodeSample(t *testing.T) (AngstromBundle, []byte) {
	t.Helper()
	body := common.FromHex(sampleBody)
	var b AngstromBundle
	n, err := pade.Decode(body, &b)
	require.NoError(t, err)
	require.Equal(t, len(body), n)
	return b, body
}

func TestDecodeSampleBundle(t *testing.T) {
	b, _ := decodeSample(t)

	require.Len(t, b.Assets, 2)
	require.Equal(t, common.HexToAddress("0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"), b.Assets[0].Addr)
	require.Equal(t, pade.NewU128(122238), b.Assets[0].Save)
	require.Equal(t, pade.NewU128(20827510), b.Assets[0].Take)
	require.True(t, b.Assets[0].Settle.IsZero())
	require.Equal(t, common.HexToAddress("0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2"), b.Assets[1].Addr)
	require.Equal(t, pade.NewU128(7860837454185227), b.Assets[1].Settle)

	require.Equal(t, []Pair{{Index0: 0, Index1: 1, StoreIndex: 0}}, b.Pairs)

	require.Len(t, b.PoolUpdates, 1)
	pu := b.PoolUpdates[0]
	require.False(t, pu.ZeroForOne)
	require.Equal(t, uint16(0), pu.PairIndex)
	require.Equal(t, pade.NewU128(7860837454185227), pu.SwapInQuantity)
	require.Nil(t, pu.RewardsUpdate.MultiTick)
	require.Equal(t, &CurrentOnly{
		Amount:            pade.NewU128(10),
		ExpectedLiquidity: pade.NewU128(21442279646845),
	}, pu.RewardsUpdate.CurrentOnly)

	require.Len(t, b.TopOfBlockOrders, 1)
	tob := b.TopOfBlockOrders[0]
	require.False(t, tob.UseInternal)
	require.Equal(t, pade.NewU128(7860837454185227), tob.QuantityIn)
	require.Equal(t, pade.NewU128(20827500), tob.QuantityOut)
	require.Equal(t, pade.NewU128(244476), tob.MaxGasAsset0)
	require.Equal(t, pade.NewU128(122238), tob.GasUsedAsset0)
	require.Equal(t, uint16(0), tob.PairsIndex)
	require.False(t, tob.ZeroFor1)
	require.Nil(t, tob.Recipient)
	require.Nil(t, tob.Signature.Contract)
	require.Equal(t, &EcdsaSignature{
		V: 28,
		R: common.HexToHash("0xe7254b94c5bea4da8303c64c16dd07106247ca887e452f283f4a69d53c304a45"),
		S: common.HexToHash("0x3f213d526e766320c829d2189748ab1a4ddd8c3d0ce12e96723b64ddae6fe6e8"),
	}, tob.Signature.Ecdsa)

	require.NotNil(t, b.UserOrders)
	require.Empty(t, b.UserOrders)
}

func TestSampleByteStability(t *testing.T) {
	b, body := decodeSample(t)
	out, err := pade.Encode(b)
	require.NoError(t, err)
	require.Equal(t, body, out)
}

func TestTruncatedSampleFails(t *testing.T) {
	body := common.FromHex(sampleBody)
	for n := 0; n < len(body); n++ {
		var b AngstromBundle
		_, err := pade.Decode(body[:n], &b)
		require.ErrorIs(t, err, pade.ErrUnexpectedEnd, "prefix of %d bytes", n)
	}
}

func TestDecodeErrorCarriesFieldPath(t *testing.T) {
	body := common.FromHex(sampleBody)
	// flip the top-of-block recipient presence bit; the signature then runs out of window
	hdr := strings.Index(sampleBody, "000084"+"08")/2 + 3
	require.Equal(t, byte(0x08), body[hdr])
	body[hdr] = 0x0c

	var b AngstromBundle
	_, err := pade.Decode(body, &b)
	require.ErrorIs(t, err, pade.ErrUnexpectedEnd)
	require.Contains(t, err.Error(), "top_of_block_orders: item 0: signature: s:")
}

func TestHeaderPaddingBitsRejected(t *testing.T) {
	body := common.FromHex(sampleBody)
	hdr := strings.Index(sampleBody, "000084"+"08")/2 + 3
	body[hdr] = 0x18

	var b AngstromBundle
	_, err := pade.Decode(body, &b)
	require.ErrorIs(t, err, pade.ErrInvalidHeader)
}

func richBundle() AngstromBundle {
	recipient := common.HexToAddress("0x1111111111111111111111111111111111111111")
	hook := hexutil.Bytes{0xde, 0xad}
	return AngstromBundle{
		Assets: []Asset{{
			Addr:   common.HexToAddress("0x2222222222222222222222222222222222222222"),
			Save:   pade.NewU128(1),
			Take:   pade.U128{Hi: 1, Lo: 2},
			Settle: pade.NewU128(3),
		}},
		Pairs: []Pair{{Index0: 0, Index1: 1, StoreIndex: 7, Price1Over0: common.HexToHash("0x01")}},
		PoolUpdates: []PoolUpdate{{
			ZeroForOne:     true,
			PairIndex:      3,
			SwapInQuantity: pade.NewU128(99),
			RewardsUpdate: RewardsUpdate{MultiTick: &MultiTick{
				StartTick:      -887272,
				StartLiquidity: pade.NewU128(5000),
				Quantities:     []pade.U128{pade.NewU128(1), pade.NewU128(2), pade.NewU128(3)},
				RewardChecksum: Checksum{0xab, 0xcd},
			}},
		}},
		TopOfBlockOrders: []TopOfBlockOrder{{
			UseInternal:   true,
			QuantityIn:    pade.NewU128(10),
			QuantityOut:   pade.NewU128(20),
			MaxGasAsset0:  pade.NewU128(30),
			GasUsedAsset0: pade.NewU128(40),
			PairsIndex:    2,
			ZeroFor1:      true,
			Recipient:     &recipient,
			Signature: Signature{Contract: &ContractSignature{
				From:      common.HexToAddress("0x3333333333333333333333333333333333333333"),
				Signature: hexutil.Bytes{0x01, 0x02, 0x03},
			}},
		}},
		UserOrders: []UserOrder{
			{
				RefID:              7,
				UseInternal:        true,
				PairIndex:          1,
				MinPrice:           common.HexToHash("0x0100"),
				Recipient:          &recipient,
				HookData:           &hook,
				ZeroForOne:         false,
				StandingValidation: &StandingValidation{Nonce: 5, Deadline: 1<<40 - 1},
				OrderQuantities: OrderQuantities{Partial: &PartialQuantities{
					MinQuantityIn:  pade.NewU128(1),
					MaxQuantityIn:  pade.NewU128(100),
					FilledQuantity: pade.NewU128(50),
				}},
				MaxExtraFeeAsset0: pade.NewU128(9),
				ExtraFeeAsset0:    pade.NewU128(8),
				ExactIn:           true,
				Signature: Signature{Ecdsa: &EcdsaSignature{
					V: 27,
					R: common.HexToHash("0x0a"),
					S: common.HexToHash("0x0b"),
				}},
			},
			{
				RefID:           8,
				OrderQuantities: OrderQuantities{Exact: &ExactQuantities{Quantity: pade.NewU128(42)}},
				Signature: Signature{Contract: &ContractSignature{
					Signature: hexutil.Bytes{},
				}},
			},
		},
	}
}

func TestRichBundleRoundTrip(t *testing.T) {
	in := richBundle()
	data, err := pade.Encode(in)
	require.NoError(t, err)

	var out AngstromBundle
	n, err := pade.Decode(data, &out)
	require.NoError(t, err)
	require.Equal(t, len(data), n)
	require.Equal(t, in, out)

	again, err := pade.Encode(out)
	require.NoError(t, err)
	require.Equal(t, data, again)
}

func TestUserOrderHeaderLayout(t *testing.T) {
	order := richBundle().UserOrders[0]
	data, err := pade.Encode(order)
	require.NoError(t, err)
	// use_internal, recipient, hook_data, standing_validation and the Partial tag
	// set; zero_for_one clear; exact_in set; Ecdsa tag set
	require.Equal(t, byte(0b1111_0111), data[0])
	require.Equal(t, []byte{0, 0, 0, 7}, data[1:5])
}

func TestUnionTagBounds(t *testing.T) {
	var sig Signature
	err := sig.DecodePADE(pade.NewReader([]byte{0x02}))
	require.ErrorIs(t, err, pade.ErrInvalidVariant)

	var q OrderQuantities
	require.NoError(t, q.DecodePADE(pade.NewReader(append([]byte{QuantitiesExactTag}, make([]byte, 16)...))))
	require.NotNil(t, q.Exact)
	require.Nil(t, q.Partial)

	_, err = pade.Encode(Signature{})
	require.ErrorIs(t, err, ErrNoVariant)
	require.ErrorIs(t, err, pade.ErrInvalidVariant)

	both := RewardsUpdate{MultiTick: &MultiTick{}, CurrentOnly: &CurrentOnly{}}
	_, err = pade.Encode(PoolUpdate{RewardsUpdate: both})
	require.ErrorIs(t, err, ErrNoVariant)
	require.Contains(t, err.Error(), "rewards_update")
}

func TestStandaloneUnionRoundTrip(t *testing.T) {
	in := RewardsUpdate{CurrentOnly: &CurrentOnly{Amount: pade.NewU128(1), ExpectedLiquidity: pade.NewU128(2)}}
	data, err := pade.Encode(in)
	require.NoError(t, err)
	require.Len(t, data, 33)
	require.Equal(t, RewardsCurrentOnlyTag, data[0])

	var out RewardsUpdate
	_, err = pade.Decode(data, &out)
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestDeadlineWidth(t *testing.T) {
	data, err := pade.Encode(StandingValidation{Nonce: 1, Deadline: 1<<40 - 1})
	require.NoError(t, err)
	require.Len(t, data, 13)
	require.Equal(t, []byte{0xff, 0xff, 0xff, 0xff, 0xff}, data[8:])

	_, err = pade.Encode(StandingValidation{Deadline: 1 << 40})
	require.ErrorIs(t, err, pade.ErrOverflow)
	require.Contains(t, err.Error(), "deadline")
}

func TestStartTickRange(t *testing.T) {
	m := MultiTick{StartTick: -1, Quantities: []pade.U128{}}
	data, err := pade.Encode(m)
	require.NoError(t, err)
	require.Equal(t, []byte{0xff, 0xff, 0xff}, data[:3])

	var out MultiTick
	_, err = pade.Decode(data, &out)
	require.NoError(t, err)
	require.Equal(t, int32(-1), out.StartTick)

	_, err = pade.Encode(MultiTick{StartTick: 1 << 23})
	require.ErrorIs(t, err, pade.ErrOverflow)
}

func TestBundleJSONShape(t *testing.T) {
	b, _ := decodeSample(t)
	data, err := json.Marshal(b)
	require.NoError(t, err)
	text := string(data)

	require.Contains(t, text, `"addr":"0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"`)
	require.Contains(t, text, `"settle":"7860837454185227"`)
	require.Contains(t, text, `"rewards_update":{"CurrentOnly":{"amount":"10","expected_liquidity":"21442279646845"}}`)
	require.Contains(t, text, `"recipient":null`)
	require.Contains(t, text, `"signature":{"Ecdsa":{"v":28,`)
	require.Contains(t, text, `"user_orders":[]`)

	var back AngstromBundle
	require.NoError(t, json.Unmarshal(data, &back))
	require.Equal(t, b, back)

	again, err := json.Marshal(back)
	require.NoError(t, err)
	require.JSONEq(t, text, string(again))
}

func TestRichBundleJSONRoundTrip(t *testing.T) {
	in := richBundle()
	data, err := json.Marshal(in)
	require.NoError(t, err)
	require.Contains(t, string(data), `"reward_checksum":"0xabcd000000000000000000000000000000000000"`)
	require.Contains(t, string(data), `"hook_data":"0xdead"`)

	var out AngstromBundle
	require.NoError(t, json.Unmarshal(data, &out))
	require.Equal(t, in, out)
}
