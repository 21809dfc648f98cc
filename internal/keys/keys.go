package keys

import (
	"errors"
	"fmt"
)

// Code is a normalized key code. Plain codes live in 0..255; extended keys
// (arrows, function and navigation keys) carry ExtendedFlag.
type Code int

// ExtendedFlag keeps extended codes disjoint from the plain byte range.
const ExtendedFlag = 0x100

// Raw sentinels that announce a two-byte extended sequence.
const (
	SentinelNull     = 0x00
	SentinelExtended = 0xE0
)

var ErrNoSource = errors.New("keys: nil input source")

// IsExtendedSentinel reports whether raw starts a two-byte extended sequence.
func IsExtendedSentinel(raw int) bool {
	return raw == SentinelNull || raw == SentinelExtended
}

// NormalizeASCII uppercases letters and passes every other value through.
func NormalizeASCII(raw int) Code {
	if 'a' <= raw && raw <= 'z' {
		return Code(raw - 'a' + 'A')
	}
	return Code(raw)
}

// NormalizeExtended combines the second byte of an extended sequence with
// ExtendedFlag. The sentinel itself does not take part in the code.
func NormalizeExtended(_, b int) Code {
	return Code(b | ExtendedFlag)
}

// IsExtended reports whether c came from a two-byte sequence.
func (c Code) IsExtended() bool {
	return c&ExtendedFlag != 0
}

func (c Code) String() string {
	if name, ok := Name(c); ok {
		return name
	}
	return fmt.Sprintf("Code(%d)", int(c))
}
