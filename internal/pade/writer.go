package pade

import (
	"encoding/binary"
	"fmt"
)

// Writer appends PADE-encoded values to an output buffer.
type Writer struct {
	buf []byte
}

// NewWriter returns a Writer with the given initial capacity.
func NewWriter(capacity int) *Writer {
	return &Writer{buf: make([]byte, 0, capacity)}
}

// Bytes returns the encoded output.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return len(w.buf)
}

// WriteUint writes v big-endian in width bytes (1..8).
func (w *Writer) WriteUint(v uint64, width int) error {
	if width < 1 || width > 8 {
		return fmt.Errorf("%w: uint width %d", ErrInvalidWidth, width)
	}
	if width < 8 && v>>(8*uint(width)) != 0 {
		return fmt.Errorf("%w: %d does not fit in %d bytes", ErrOverflow, v, width)
	}
	for i := width - 1; i >= 0; i-- {
		w.buf = append(w.buf, byte(v>>(8*uint(i))))
	}
	return nil
}

func (w *Writer) WriteUint8(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *Writer) WriteUint16(v uint16) {
	w.buf = binary.BigEndian.AppendUint16(w.buf, v)
}

func (w *Writer) WriteUint32(v uint32) {
	w.buf = binary.BigEndian.AppendUint32(w.buf, v)
}

func (w *Writer) WriteUint64(v uint64) {
	w.buf = binary.BigEndian.AppendUint64(w.buf, v)
}

// WriteInt writes v as a two's complement integer of width bytes.
func (w *Writer) WriteInt(v int64, width int) error {
	if width < 1 || width > 8 {
		return fmt.Errorf("%w: int width %d", ErrInvalidWidth, width)
	}
	if width < 8 {
		bitsWide := uint(8*width - 1)
		min, max := int64(-1)<<bitsWide, int64(1)<<bitsWide-1
		if v < min || v > max {
			return fmt.Errorf("%w: %d does not fit in %d signed bytes", ErrOverflow, v, width)
		}
	}
	u := uint64(v)
	for i := width - 1; i >= 0; i-- {
		w.buf = append(w.buf, byte(u>>(8*uint(i))))
	}
	return nil
}

// WriteU128 writes v big-endian in width bytes (1..16).
func (w *Writer) WriteU128(v U128, width int) error {
	if width < 1 || width > 16 {
		return fmt.Errorf("%w: u128 width %d", ErrInvalidWidth, width)
	}
	var full [16]byte
	binary.BigEndian.PutUint64(full[:8], v.Hi)
	binary.BigEndian.PutUint64(full[8:], v.Lo)
	for _, c := range full[:16-width] {
		if c != 0 {
			return fmt.Errorf("%w: %s does not fit in %d bytes", ErrOverflow, v, width)
		}
	}
	w.buf = append(w.buf, full[16-width:]...)
	return nil
}

// WriteBool writes a single 0/1 byte.
func (w *Writer) WriteBool(v bool) {
	if v {
		w.buf = append(w.buf, 1)
		return
	}
	w.buf = append(w.buf, 0)
}

// WriteFixed writes b verbatim.
func (w *Writer) WriteFixed(b []byte) {
	w.buf = append(w.buf, b...)
}

// WriteBytes writes a length-prefixed byte sequence.
func (w *Writer) WriteBytes(b []byte) error {
	if err := w.writeLength(len(b)); err != nil {
		return err
	}
	w.buf = append(w.buf, b...)
	return nil
}

// WriteTag writes a standalone one-byte union discriminant.
func (w *Writer) WriteTag(tag uint8, variants int) error {
	if int(tag) >= variants {
		return fmt.Errorf("%w: tag %d of %d", ErrInvalidVariant, tag, variants)
	}
	w.buf = append(w.buf, tag)
	return nil
}

func (w *Writer) writeLength(n int) error {
	if n > MaxSequenceBytes {
		return fmt.Errorf("%w: sequence of %d bytes exceeds %d", ErrOverflow, n, MaxSequenceBytes)
	}
	return w.WriteUint(uint64(n), LengthPrefixSize)
}
