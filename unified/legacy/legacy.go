// Package legacy reads and writes the structured layout older producers used
// for identifiers: a JSON object holding the raw integer under "hash".
//
//	{"id":{"hash":8}}
//
// New data should use the canonical 13-character string (unified.ID already
// implements encoding.TextMarshaler). This codec exists only to exchange data
// with systems that still expect the old layout.
package legacy

import (
	"encoding/json"
	"fmt"

	"github.com/shandysiswandi/gounified/unified"
)

// Version identifies the layout produced by this package.
const Version = 1

// ID wraps unified.ID with the legacy JSON layout.
type ID struct {
	unified.ID
}

type wire struct {
	Hash *uint64 `json:"hash"`
}

// Wrap returns id with the legacy layout.
func Wrap(id unified.ID) ID {
	return ID{ID: id}
}

// MarshalJSON writes {"hash": <uint64>}.
func (l ID) MarshalJSON() ([]byte, error) {
	h := l.Uint64()
	return json.Marshal(wire{Hash: &h})
}

// UnmarshalJSON reads {"hash": <uint64>}. A canonical JSON string is also
// accepted so that partially migrated payloads still decode.
func (l *ID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		l.ID = unified.Empty
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		id, err := unified.Parse(s)
		if err != nil {
			return err
		}
		l.ID = id
		return nil
	}

	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.Hash == nil {
		return fmt.Errorf("%w: legacy id v%d requires field \"hash\"", unified.ErrFormat, Version)
	}
	l.ID = unified.FromRaw(*w.Hash)
	return nil
}
