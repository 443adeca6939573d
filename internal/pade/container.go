package pade

import "fmt"

const (
	// LengthPrefixSize is the width of the big-endian byte-length prefix of sequences.
	LengthPrefixSize = 3
	// MaxSequenceBytes is the largest sequence body a length prefix can describe.
	MaxSequenceBytes = 1<<(8*LengthPrefixSize) - 1
)

// Decoder is implemented by schema types that decode themselves from a Reader.
type Decoder interface {
	DecodePADE(r *Reader) error
}

// Encoder is implemented by schema types that encode themselves into a Writer.
type Encoder interface {
	EncodePADE(w *Writer) error
}

// Encode returns the PADE encoding of v.
func Encode(v Encoder) ([]byte, error) {
	w := NewWriter(256)
	if err := v.EncodePADE(w); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// Decode decodes v from the start of data and returns the number of bytes consumed.
// Trailing bytes are left unread.
func Decode(data []byte, v Decoder, opts ...Option) (int, error) {
	r := NewReader(data, opts...)
	if err := v.DecodePADE(r); err != nil {
		return 0, err
	}
	return r.Offset(), nil
}

// ReadSequenceFunc decodes a length-prefixed sequence, calling decode once per item.
// Item decoding is confined to the prefixed byte window.
func ReadSequenceFunc[T any](r *Reader, decode func(*Reader) (T, error)) ([]T, error) {
	n, err := r.ReadUint(LengthPrefixSize)
	if err != nil {
		return nil, err
	}
	if int(n) > r.Len() {
		return nil, fmt.Errorf("%w: sequence of %d bytes at offset %d, have %d", ErrUnexpectedEnd, n, r.off, r.Len())
	}

	end := r.off + int(n)
	window := &Reader{buf: r.buf[:end], off: r.off, maxItems: r.maxItems}
	items := make([]T, 0)
	for window.off < end {
		if r.maxItems > 0 && len(items) >= r.maxItems {
			return nil, fmt.Errorf("%w: more than %d items at offset %d", ErrSequenceTooLong, r.maxItems, window.off)
		}
		start := window.off
		item, err := decode(window)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", len(items), err)
		}
		if window.off == start {
			return nil, fmt.Errorf("item %d: %w", len(items), ErrEmptyItem)
		}
		items = append(items, item)
	}
	r.off = end
	return items, nil
}

// ReadSequence decodes a length-prefixed sequence of schema records.
func ReadSequence[T any, PT interface {
	*T
	Decoder
}](r *Reader) ([]T, error) {
	return ReadSequenceFunc(r, func(r *Reader) (T, error) {
		var item T
		err := PT(&item).DecodePADE(r)
		return item, err
	})
}

// WriteSequenceFunc encodes items behind a byte-length prefix.
func WriteSequenceFunc[T any](w *Writer, items []T, encode func(*Writer, T) error) error {
	body := NewWriter(64 * len(items))
	for i, item := range items {
		if err := encode(body, item); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	if err := w.writeLength(body.Len()); err != nil {
		return err
	}
	w.buf = append(w.buf, body.buf...)
	return nil
}

// WriteSequence encodes a sequence of schema records.
func WriteSequence[T Encoder](w *Writer, items []T) error {
	return WriteSequenceFunc(w, items, func(w *Writer, item T) error {
		return item.EncodePADE(w)
	})
}

// ReadOptional decodes the payload of an optional value whose presence flag has
// already been read, either from a record header or via ReadPresence.
func ReadOptional[T any](r *Reader, present bool, decode func(*Reader) (T, error)) (*T, error) {
	if !present {
		return nil, nil
	}
	v, err := decode(r)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ReadPresence reads a standalone presence byte.
func (r *Reader) ReadPresence() (bool, error) {
	return r.ReadBool()
}

// WriteOptional writes a standalone presence byte followed by the payload if present.
func WriteOptional[T any](w *Writer, v *T, encode func(*Writer, T) error) error {
	w.WriteBool(v != nil)
	if v == nil {
		return nil
	}
	return encode(w, *v)
}
