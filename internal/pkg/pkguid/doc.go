// Package pkguid provides the identifier generators used by the service.
//
// The service depends on the StringID and NumberID interfaces so that tests
// can swap in deterministic generators. The production generators are:
//   - Unified: random unified identifiers as 13-character strings.
//   - Snowflake: time-ordered numeric IDs, hashed into unified identifiers by
//     Sequenced when a coordinated sequence is the seed of choice.
package pkguid
