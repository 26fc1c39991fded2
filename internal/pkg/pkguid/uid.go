package pkguid

import "github.com/shandysiswandi/gounified/unified"

// StringID generates unique string identifiers.
type StringID interface {
	// Generate generates a unique identifier as a string.
	Generate() string
}

// NumberID generates unique numeric identifiers.
type NumberID interface {
	// Generate generates a unique identifier as an int64 number.
	Generate() int64
}

// Source produces unified identifiers.
type Source interface {
	Next() (unified.ID, error)
}
