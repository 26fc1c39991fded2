package unified

import "strings"

// Compare returns -1, 0, 1 ordering id and other by unsigned value.
func (id ID) Compare(other ID) int {
	return compareUint64(id.hash, other.hash)
}

// CompareUint64 orders id against a raw unsigned value.
func (id ID) CompareUint64(other uint64) int {
	return compareUint64(id.hash, other)
}

// CompareInt64 orders the signed reinterpretation of id against other.
func (id ID) CompareInt64(other int64) int {
	v := id.Int64()
	switch {
	case v < other:
		return -1
	case v > other:
		return 1
	default:
		return 0
	}
}

// CompareString parses other and orders id against it. Every ID sorts after a
// blank string. A malformed string yields an ErrFormat error rather than an order.
func (id ID) CompareString(other string) (int, error) {
	if strings.TrimSpace(other) == "" {
		return 1, nil
	}
	parsed, err := Parse(other)
	if err != nil {
		return 0, err
	}
	return id.Compare(parsed), nil
}

// Less reports whether id sorts before other.
func (id ID) Less(other ID) bool { return id.hash < other.hash }

// Equal reports whether both IDs have the same value.
func (id ID) Equal(other ID) bool { return id.hash == other.hash }

// EqualUint64 reports whether id holds the raw value other.
func (id ID) EqualUint64(other uint64) bool { return id.hash == other }

// EqualInt64 reports whether the signed reinterpretation of id equals other.
func (id ID) EqualInt64(other int64) bool { return id.Int64() == other }

// EqualString reports whether other is exactly the canonical form of id.
// Malformed strings are simply unequal.
func (id ID) EqualString(other string) bool {
	if len(other) != Length {
		return false
	}
	return id.String() == other
}

func compareUint64(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
