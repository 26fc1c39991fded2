package unified

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/google/uuid"
)

// ID is an immutable 64-bit identifier. The zero value is Empty.
type ID struct {
	hash uint64
}

// Empty is the zero ID, encoded as "0000000000000".
var Empty ID

// FromRaw wraps u verbatim.
func FromRaw(u uint64) ID {
	return ID{hash: u}
}

// FromRawInt64 reinterprets the bit pattern of i as the ID value.
func FromRawInt64(i int64) ID {
	return ID{hash: uint64(i)}
}

// FromBytes hashes b with FNV-1a 64.
func FromBytes(b []byte) (ID, error) {
	if b == nil {
		return Empty, fmt.Errorf("%w: bytes must not be nil", ErrInvalidArgument)
	}
	if len(b) == 0 {
		return Empty, fmt.Errorf("%w: bytes must not be empty", ErrOutOfRange)
	}

	h := fnv.New64a()
	//nolint:errcheck // hash.Hash never returns an error
	h.Write(b)

	return ID{hash: h.Sum64()}, nil
}

// FromUUID hashes the 16 bytes of u in mixed-endian GUID order: the first
// three fields little-endian, the last eight bytes as stored. The nil UUID is
// rejected.
func FromUUID(u uuid.UUID) (ID, error) {
	if u == uuid.Nil {
		return Empty, fmt.Errorf("%w: uuid must not be nil", ErrOutOfRange)
	}
	return FromBytes(guidBytes(u))
}

func guidBytes(u uuid.UUID) []byte {
	b := make([]byte, len(u))
	copy(b, u[:])
	b[0], b[1], b[2], b[3] = u[3], u[2], u[1], u[0]
	b[4], b[5] = u[5], u[4]
	b[6], b[7] = u[7], u[6]
	return b
}

// FromText hashes the UTF-8 bytes of text. Blank text is rejected.
func FromText(text string) (ID, error) {
	if strings.TrimSpace(text) == "" {
		return Empty, fmt.Errorf("%w: text must not be blank", ErrInvalidArgument)
	}
	return FromBytes([]byte(text))
}

// FromUint64 hashes the little-endian bytes of n. Zero is rejected.
func FromUint64(n uint64) (ID, error) {
	if n == 0 {
		return Empty, fmt.Errorf("%w: number must not be 0", ErrOutOfRange)
	}

	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], n)
	return FromBytes(b[:])
}

// FromInt64 hashes the little-endian two's-complement bytes of n. Zero is rejected.
func FromInt64(n int64) (ID, error) {
	if n == 0 {
		return Empty, fmt.Errorf("%w: number must not be 0", ErrOutOfRange)
	}
	return FromUint64(uint64(n))
}

// NewRandom returns an ID hashed from a fresh random UUID.
func NewRandom() (ID, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return Empty, err
	}
	return FromUUID(u)
}

// NewID is like NewRandom but panics if the entropy source fails.
func NewID() ID {
	id, err := NewRandom()
	if err != nil {
		panic(err)
	}
	return id
}

// Uint64 returns the raw value.
func (id ID) Uint64() uint64 { return id.hash }

// Int64 returns the raw value reinterpreted as a signed integer.
func (id ID) Int64() int64 { return int64(id.hash) }

// IsEmpty reports whether id is the zero ID.
func (id ID) IsEmpty() bool { return id.hash == 0 }
