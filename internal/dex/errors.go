package dex

import "errors"

var (
	ErrInvalidSelector   = errors.New("dex: invalid selector")
	ErrTrailingBytes     = errors.New("dex: trailing bytes after bundle")
	ErrRoundTripMismatch = errors.New("dex: re-encoded bundle differs from input")
)
