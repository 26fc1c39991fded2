package unified

import (
	"database/sql/driver"
	"fmt"
)

// MarshalText implements encoding.TextMarshaler. JSON, YAML and config
// decoders therefore see the canonical string, never the raw integer.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using Parse.
func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Value implements driver.Valuer, storing the canonical string.
func (id ID) Value() (driver.Value, error) {
	return id.String(), nil
}

// Scan implements sql.Scanner.
//
// TEXT columns are parsed. BIGINT columns are accepted for legacy tables and
// reinterpreted bit for bit. NULL scans to Empty.
func (id *ID) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*id = Empty
	case string:
		return id.UnmarshalText([]byte(v))
	case []byte:
		return id.UnmarshalText(v)
	case int64:
		*id = FromRawInt64(v)
	default:
		return fmt.Errorf("%w: cannot scan %T into unified.ID", ErrInvalidArgument, value)
	}
	return nil
}
