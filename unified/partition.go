package unified

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// MaxPartitionCount is the largest count accepted by PartitionNumber.
const MaxPartitionCount = 65535

// Tier is a named prefix length used for string partitioning.
type Tier uint8

const (
	// TierBasic keys on the leading digit: 16 partitions, 0 to F.
	TierBasic Tier = 1
	// TierStandard keys on two digits: 512 partitions, 00 to FV.
	TierStandard Tier = 2
	// TierPremium keys on three digits: 16384 partitions, 000 to FVV.
	TierPremium Tier = 3
)

// String returns the upper-case tier name, or UNKNOWN outside the named tiers.
func (t Tier) String() string {
	switch t {
	case TierBasic:
		return "BASIC"
	case TierStandard:
		return "STANDARD"
	case TierPremium:
		return "PREMIUM"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether t is one of the named tiers.
func (t Tier) Valid() bool {
	return t >= TierBasic && t <= TierPremium
}

// Length is the prefix length of the tier.
func (t Tier) Length() int { return int(t) }

// Buckets is the number of distinct prefixes the tier produces.
func (t Tier) Buckets() int {
	return PrefixBuckets(int(t))
}

// ParseTier accepts a tier name in any case.
func ParseTier(name string) (Tier, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case TierBasic.String():
		return TierBasic, nil
	case TierStandard.String():
		return TierStandard, nil
	case TierPremium.String():
		return TierPremium, nil
	default:
		return 0, fmt.Errorf("%w: unknown tier %q", ErrOutOfRange, name)
	}
}

// PrefixBuckets returns how many distinct prefixes of the given length exist.
// The leading digit spans 16 values, every following digit 32.
func PrefixBuckets(length int) int {
	if length < 1 || length >= Length {
		return 0
	}
	return leadingDigits << (digitBits * (length - 1))
}

// PartitionKey returns the first length characters of the canonical form.
func (id ID) PartitionKey(length int) (string, error) {
	if length < 1 || length >= Length {
		return "", fmt.Errorf("%w: partition key length %d, allowed value from 1 to %d", ErrOutOfRange, length, Length-1)
	}
	var out [Length]byte
	encode(&out, id.hash)
	return string(out[:length]), nil
}

// TierKey returns the partition key for a named tier.
func (id ID) TierKey(t Tier) (string, error) {
	if !t.Valid() {
		return "", fmt.Errorf("%w: unknown tier %d", ErrOutOfRange, t)
	}
	return id.PartitionKey(t.Length())
}

// PartitionNumber splits the 64-bit keyspace into count equal ranges and
// returns the index of the range holding id.
//
// The range width is floor(2^64/count). When count is not a power of two, the
// fewer than count values at or above width*count would compute to count
// itself; they are folded into the last partition so the result is always a
// valid index below count.
func (id ID) PartitionNumber(count uint32) (uint64, error) {
	if count == 0 || count > MaxPartitionCount {
		return 0, fmt.Errorf("%w: partition count %d, allowed value from 1 to %d", ErrOutOfRange, count, MaxPartitionCount)
	}
	if count == 1 {
		return 0, nil
	}

	width, _ := bits.Div64(1, 0, uint64(count))
	p := id.hash / width
	if p >= uint64(count) {
		p = uint64(count) - 1
	}
	return p, nil
}

// PartitionNumberString formats PartitionNumber as a zero-padded decimal
// whose width is the number of digits in count.
func (id ID) PartitionNumberString(count uint32) (string, error) {
	p, err := id.PartitionNumber(count)
	if err != nil {
		return "", err
	}
	digits := len(strconv.FormatUint(uint64(count), 10))
	return fmt.Sprintf("%0*d", digits, p), nil
}
