package pade

import "errors"

var (
	ErrUnexpectedEnd   = errors.New("pade: unexpected end of input")
	ErrInvalidBoolean  = errors.New("pade: invalid boolean")
	ErrInvalidVariant  = errors.New("pade: invalid variant")
	ErrInvalidHeader   = errors.New("pade: invalid record header")
	ErrOverflow        = errors.New("pade: value overflows field width")
	ErrSequenceTooLong = errors.New("pade: sequence exceeds item limit")
	ErrEmptyItem       = errors.New("pade: sequence item consumed no bytes")
	ErrInvalidWidth    = errors.New("pade: invalid field width")
)
