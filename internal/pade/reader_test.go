package pade

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadUintWidths(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08})

	v, err := r.ReadUint(3)
	require.NoError(t, err)
	require.Equal(t, uint64(0x010203), v)

	v, err = r.ReadUint(5)
	require.NoError(t, err)
	require.Equal(t, uint64(0x0405060708), v)
	require.Equal(t, 0, r.Len())
	require.Equal(t, 8, r.Offset())
}

func TestReadUintRejectsBadWidth(t *testing.T) {
	r := NewReader(make([]byte, 16))
	_, err := r.ReadUint(0)
	require.ErrorIs(t, err, ErrInvalidWidth)
	_, err = r.ReadUint(9)
	require.ErrorIs(t, err, ErrInvalidWidth)
	_, err = r.ReadU128(17)
	require.ErrorIs(t, err, ErrInvalidWidth)
}

func TestReadPastEnd(t *testing.T) {
	r := NewReader([]byte{0x00, 0x01})
	_, err := r.ReadUint32()
	require.ErrorIs(t, err, ErrUnexpectedEnd)
	// a failed read consumes nothing
	require.Equal(t, 0, r.Offset())

	var dst [3]byte
	require.ErrorIs(t, r.ReadFixed(dst[:]), ErrUnexpectedEnd)
}

func TestReadBool(t *testing.T) {
	r := NewReader([]byte{0x00, 0x01, 0x02})

	v, err := r.ReadBool()
	require.NoError(t, err)
	require.False(t, v)

	v, err = r.ReadBool()
	require.NoError(t, err)
	require.True(t, v)

	_, err = r.ReadBool()
	require.ErrorIs(t, err, ErrInvalidBoolean)
	require.Contains(t, err.Error(), "offset 2")
}

func TestReadIntSignExtends(t *testing.T) {
	r := NewReader([]byte{0xff, 0xff, 0xf1, 0x7f, 0xff, 0xff, 0x80, 0x00, 0x00})

	v, err := r.ReadInt(3)
	require.NoError(t, err)
	require.Equal(t, int64(-15), v)

	v, err = r.ReadInt(3)
	require.NoError(t, err)
	require.Equal(t, int64(1<<23-1), v)

	v, err = r.ReadInt(3)
	require.NoError(t, err)
	require.Equal(t, int64(-1<<23), v)
}

func TestReadU128(t *testing.T) {
	buf := []byte{
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x02,
		0xab, 0xcd,
	}
	r := NewReader(buf)

	v, err := r.ReadU128(16)
	require.NoError(t, err)
	require.Equal(t, U128{Hi: 1, Lo: 2}, v)

	v, err = r.ReadU128(2)
	require.NoError(t, err)
	require.Equal(t, NewU128(0xabcd), v)
}

func TestReadBytes(t *testing.T) {
	r := NewReader([]byte{0x00, 0x00, 0x02, 0xde, 0xad, 0xff})
	b, err := r.ReadBytes()
	require.NoError(t, err)
	require.Equal(t, []byte{0xde, 0xad}, b)
	require.Equal(t, 1, r.Len())

	r = NewReader([]byte{0x00, 0x00, 0x05, 0xde})
	_, err = r.ReadBytes()
	require.ErrorIs(t, err, ErrUnexpectedEnd)
}

func TestReadTag(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02})
	tag, err := r.ReadTag(2)
	require.NoError(t, err)
	require.Equal(t, uint8(1), tag)

	_, err = r.ReadTag(2)
	require.ErrorIs(t, err, ErrInvalidVariant)
}
