package pkguid

import "github.com/shandysiswandi/gounified/unified"

// Unified generates random unified identifiers.
type Unified struct{}

// NewUnified returns a random unified identifier generator.
func NewUnified() *Unified {
	return &Unified{}
}

// Generate returns the canonical string of a new random identifier.
func (u *Unified) Generate() string {
	return unified.NewID().String()
}

// Next returns a new random identifier.
func (u *Unified) Next() (unified.ID, error) {
	return unified.NewRandom()
}

// Sequenced hashes numbers from a NumberID into unified identifiers, so
// ordered sequences still spread evenly across partitions.
type Sequenced struct {
	numbers NumberID
}

// NewSequenced wraps a numeric generator.
func NewSequenced(numbers NumberID) *Sequenced {
	return &Sequenced{numbers: numbers}
}

// Next hashes the next number of the sequence.
func (s *Sequenced) Next() (unified.ID, error) {
	return unified.FromInt64(s.numbers.Generate())
}

// Generate returns the canonical string of Next, or the empty identifier if
// the sequence produced zero.
func (s *Sequenced) Generate() string {
	id, err := s.Next()
	if err != nil {
		return unified.Empty.String()
	}
	return id.String()
}
