// Package pkgconfig provides a small abstraction for reading configuration values.
//
// Service code depends on the Config interface so it stays easy to test and
// does not care where values come from. The Viper implementation reads a YAML
// file, falls back to registered defaults, and lets GOUNIFIED_* environment
// variables override any key (dots become underscores, so
// GOUNIFIED_STORE_DRIVER overrides store.driver).
package pkgconfig
