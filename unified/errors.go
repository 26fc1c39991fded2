package unified

import "errors"

var (
	// ErrFormat reports a malformed canonical string.
	ErrFormat = errors.New("unified: invalid format")
	// ErrInvalidArgument reports a missing input (nil bytes, blank text).
	ErrInvalidArgument = errors.New("unified: invalid argument")
	// ErrOutOfRange reports an input or partition parameter outside its bounds.
	ErrOutOfRange = errors.New("unified: out of range")
)
