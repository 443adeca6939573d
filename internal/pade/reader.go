package pade

import (
	"encoding/binary"
	"fmt"
)

// DefaultMaxSequenceItems caps the number of items a single sequence may decode into.
const DefaultMaxSequenceItems = 16384

// Reader is a forward-only cursor over an immutable byte buffer.
// Offsets reported in errors are absolute positions in the original buffer.
type Reader struct {
	buf      []byte
	off      int
	maxItems int
}

// Option configures a Reader.
type Option func(*Reader)

// WithMaxSequenceItems overrides the per-sequence item cap. Values <= 0 keep the default.
func WithMaxSequenceItems(n int) Option {
	return func(r *Reader) {
		if n > 0 {
			r.maxItems = n
		}
	}
}

// NewReader returns a Reader positioned at the start of buf.
func NewReader(buf []byte, opts ...Option) *Reader {
	r := &Reader{buf: buf, maxItems: DefaultMaxSequenceItems}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int {
	return r.off
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int {
	return len(r.buf) - r.off
}

func (r *Reader) take(n int) ([]byte, error) {
	if n < 0 || n > r.Len() {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrUnexpectedEnd, n, r.off, r.Len())
	}
	out := r.buf[r.off : r.off+n]
	r.off += n
	return out, nil
}

// ReadUint reads a big-endian unsigned integer of width bytes (1..8) and zero-extends it.
func (r *Reader) ReadUint(width int) (uint64, error) {
	if width < 1 || width > 8 {
		return 0, fmt.Errorf("%w: uint width %d", ErrInvalidWidth, width)
	}
	b, err := r.take(width)
	if err != nil {
		return 0, err
	}
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v, nil
}

func (r *Reader) ReadUint8() (uint8, error) {
	v, err := r.ReadUint(1)
	return uint8(v), err
}

func (r *Reader) ReadUint16() (uint16, error) {
	v, err := r.ReadUint(2)
	return uint16(v), err
}

func (r *Reader) ReadUint32() (uint32, error) {
	v, err := r.ReadUint(4)
	return uint32(v), err
}

func (r *Reader) ReadUint64() (uint64, error) {
	return r.ReadUint(8)
}

// ReadInt reads a big-endian two's complement integer of width bytes and sign-extends it.
func (r *Reader) ReadInt(width int) (int64, error) {
	v, err := r.ReadUint(width)
	if err != nil {
		return 0, err
	}
	shift := uint(64 - 8*width)
	return int64(v<<shift) >> shift, nil
}

// ReadU128 reads a big-endian unsigned integer of width bytes (1..16) into a U128.
func (r *Reader) ReadU128(width int) (U128, error) {
	if width < 1 || width > 16 {
		return U128{}, fmt.Errorf("%w: u128 width %d", ErrInvalidWidth, width)
	}
	b, err := r.take(width)
	if err != nil {
		return U128{}, err
	}
	var full [16]byte
	copy(full[16-width:], b)
	return U128{
		Hi: binary.BigEndian.Uint64(full[:8]),
		Lo: binary.BigEndian.Uint64(full[8:]),
	}, nil
}

// ReadBool reads a single byte that must be 0 or 1.
func (r *Reader) ReadBool() (bool, error) {
	at := r.off
	b, err := r.take(1)
	if err != nil {
		return false, err
	}
	switch b[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("%w: byte 0x%02x at offset %d", ErrInvalidBoolean, b[0], at)
	}
}

// ReadFixed fills dst with exactly len(dst) bytes.
func (r *Reader) ReadFixed(dst []byte) error {
	b, err := r.take(len(dst))
	if err != nil {
		return err
	}
	copy(dst, b)
	return nil
}

// ReadBytes reads a length-prefixed byte sequence. The returned slice is a copy.
func (r *Reader) ReadBytes() ([]byte, error) {
	n, err := r.ReadUint(LengthPrefixSize)
	if err != nil {
		return nil, err
	}
	b, err := r.take(int(n))
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

// ReadTag reads a standalone one-byte union discriminant for a union of variants members.
func (r *Reader) ReadTag(variants int) (uint8, error) {
	at := r.off
	tag, err := r.ReadUint8()
	if err != nil {
		return 0, err
	}
	if int(tag) >= variants {
		return 0, fmt.Errorf("%w: tag %d of %d at offset %d", ErrInvalidVariant, tag, variants, at)
	}
	return tag, nil
}
