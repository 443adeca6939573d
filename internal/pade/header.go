package pade

import (
	"fmt"
	"math/bits"
)

// A record header packs the record's bool fields, optional presence flags and
// union tags into ceil(n/8) leading bytes. The bytes form a big-endian integer;
// bit i (least significant first) belongs to the i-th flag in declaration order.

// MaxHeaderBits is the largest header a record may declare.
const MaxHeaderBits = 64

// VariantBits returns the number of header bits a union with variants members occupies.
func VariantBits(variants int) int {
	if variants <= 1 {
		return 0
	}
	return bits.Len(uint(variants - 1))
}

// HeaderSize returns the encoded size in bytes of a header with n flag bits.
func HeaderSize(n int) int {
	return (n + 7) / 8
}

// Header is a decoded record header consumed flag by flag.
type Header struct {
	bits uint64
	size int
	next int
	at   int
}

// ReadHeader reads a record header declaring n flag bits.
func (r *Reader) ReadHeader(n int) (*Header, error) {
	if n < 0 || n > MaxHeaderBits {
		return nil, fmt.Errorf("%w: header of %d bits", ErrInvalidWidth, n)
	}
	h := &Header{size: n, at: r.off}
	if n == 0 {
		return h, nil
	}
	v, err := r.ReadUint(HeaderSize(n))
	if err != nil {
		return nil, err
	}
	if n < 64 && v>>uint(n) != 0 {
		return nil, fmt.Errorf("%w: unused bits set in 0x%x at offset %d", ErrInvalidHeader, v, h.at)
	}
	h.bits = v
	return h, nil
}

func (h *Header) take(n int) (uint64, error) {
	if h.next+n > h.size {
		return 0, fmt.Errorf("%w: flag %d beyond %d declared bits", ErrInvalidHeader, h.next+n, h.size)
	}
	v := (h.bits >> uint(h.next)) & (1<<uint(n) - 1)
	h.next += n
	return v, nil
}

// Bool consumes one flag bit.
func (h *Header) Bool() (bool, error) {
	v, err := h.take(1)
	return v == 1, err
}

// Tag consumes the bits of a union tag and checks it against the variant count.
func (h *Header) Tag(variants int) (uint8, error) {
	v, err := h.take(VariantBits(variants))
	if err != nil {
		return 0, err
	}
	if v >= uint64(variants) {
		return 0, fmt.Errorf("%w: tag %d of %d in header at offset %d", ErrInvalidVariant, v, variants, h.at)
	}
	return uint8(v), nil
}

// HeaderBuilder collects flags for a record header during encoding.
type HeaderBuilder struct {
	bits uint64
	size int
	next int
}

// NewHeaderBuilder starts a header declaring n flag bits.
func NewHeaderBuilder(n int) *HeaderBuilder {
	return &HeaderBuilder{size: n}
}

// Bool appends one flag bit.
func (b *HeaderBuilder) Bool(v bool) {
	if v {
		b.bits |= 1 << uint(b.next)
	}
	b.next++
}

// Tag appends a union tag.
func (b *HeaderBuilder) Tag(tag uint8, variants int) error {
	if int(tag) >= variants {
		return fmt.Errorf("%w: tag %d of %d", ErrInvalidVariant, tag, variants)
	}
	b.bits |= uint64(tag) << uint(b.next)
	b.next += VariantBits(variants)
	return nil
}

// WriteHeader writes the collected flags. The number of flags appended must
// match the size the builder was created with.
func (w *Writer) WriteHeader(b *HeaderBuilder) error {
	if b.size < 0 || b.size > MaxHeaderBits || b.next != b.size {
		return fmt.Errorf("%w: header declares %d bits, got %d", ErrInvalidHeader, b.size, b.next)
	}
	if b.size == 0 {
		return nil
	}
	return w.WriteUint(b.bits, HeaderSize(b.size))
}
