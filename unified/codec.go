package unified

import (
	"fmt"
	"strings"
)

const (
	// Length is the size of the canonical string form.
	Length = 13

	alphabet  = "0123456789ABCDEFGHIJKLMNOPQRSTUV"
	digitBits = 5
	digitMask = 1<<digitBits - 1

	// the leading digit carries only the top 4 bits
	leadingDigits = 16

	emptyString = "0000000000000"
)

// decodeTable maps an ASCII byte to its digit value, or 0xFF when the byte is
// not part of the alphabet.
//
//nolint:gochecknoglobals // lookup table
var decodeTable = func() [256]byte {
	var t [256]byte
	for i := range t {
		t[i] = 0xFF
	}
	for i := 0; i < len(alphabet); i++ {
		t[alphabet[i]] = byte(i)
	}
	return t
}()

// String returns the 13-character canonical form.
func (id ID) String() string {
	if id.hash == 0 {
		return emptyString
	}
	var out [Length]byte
	encode(&out, id.hash)
	return string(out[:])
}

func encode(dst *[Length]byte, h uint64) {
	for g := 0; g < Length; g++ {
		shift := digitBits * (Length - 1 - g)
		dst[g] = alphabet[(h>>shift)&digitMask]
	}
}

// Parse decodes a canonical string. Blank input yields Empty.
func Parse(s string) (ID, error) {
	if strings.TrimSpace(s) == "" {
		return Empty, nil
	}
	if err := validate(s); err != nil {
		return Empty, err
	}
	return ID{hash: decode(s)}, nil
}

// TryParse is like Parse but reports failure with false instead of an error.
// Blank input and the Empty string carry no identifier, so both report false.
// The returned ID is Empty whenever ok is false.
func TryParse(s string) (ID, bool) {
	if strings.TrimSpace(s) == "" || s == emptyString {
		return Empty, false
	}
	if err := validate(s); err != nil {
		return Empty, false
	}
	return ID{hash: decode(s)}, true
}

// MustParse is like Parse but panics on malformed input.
func MustParse(s string) ID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

func validate(s string) error {
	if len(s) != Length {
		return fmt.Errorf("%w: %q should have length of %d symbols, actual length is %d", ErrFormat, s, Length, len(s))
	}
	if decodeTable[s[0]] >= leadingDigits {
		return fmt.Errorf("%w: %q should start with a symbol from '0' to 'F'", ErrFormat, s)
	}
	for i := 1; i < len(s); i++ {
		if decodeTable[s[i]] == 0xFF {
			return fmt.Errorf("%w: %q should contain only capital symbols from '0' to 'V'", ErrFormat, s)
		}
	}
	return nil
}

// decode assumes s has passed validate.
func decode(s string) uint64 {
	var h uint64
	for g := 0; g < len(s); g++ {
		h += uint64(decodeTable[s[g]]) << (digitBits * (len(s) - 1 - g))
	}
	return h
}
