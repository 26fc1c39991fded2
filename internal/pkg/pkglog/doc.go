// Package pkglog contains logging helpers used across the service.
//
// It is built around slog and keeps logs consistent by:
//   - Initializing a JSON handler with stable keys ("ts", "severity", "file").
//   - Attaching the service name and request correlation IDs (when present)
//     to each log record.
package pkglog
