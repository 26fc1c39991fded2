// Package pkgroutine runs background work on a bounded goroutine pool.
//
// The Manager type submits tasks to an ants pool, collects returned errors,
// and logs panics so that background work does not crash the process silently.
package pkgroutine
