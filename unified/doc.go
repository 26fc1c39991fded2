// Package unified provides a compact, sortable, partition-friendly 64-bit identifier.
//
// # Format
//
// An ID is a 64-bit unsigned value rendered as exactly 13 characters over the
// base-32 alphabet 0-9A-V, most significant digit first. Because 13*5 = 65
// bits, the leading digit only ever takes the values 0-F; Parse rejects
// anything else in that position.
//
//	id := unified.MustParse("AGQ8BJPM1IA7V")
//	id.String()  // "AGQ8BJPM1IA7V"
//	id.Uint64()  // raw value
//	id.Int64()   // two's-complement reinterpretation
//
// # Construction
//
// IDs are built by parsing, by wrapping a raw integer (FromRaw, FromRawInt64),
// by hashing content with FNV-1a 64 (FromBytes, FromText, FromUUID,
// FromUint64, FromInt64), or randomly (NewID). Partitioning relies on a uniform
// distribution, so sharded data should use hashed or random IDs, not raw
// sequential integers.
//
// # Partitioning
//
//	key, _ := id.TierKey(unified.TierStandard) // "AG", one of 512 buckets
//	n, _ := id.PartitionNumber(1000)           // 0..999
//	s, _ := id.PartitionNumberString(1000)     // "0000".."0999"
//
// All operations are pure and safe for concurrent use.
package unified
