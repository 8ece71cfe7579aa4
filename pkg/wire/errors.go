package wire

import (
	"errors"
	"fmt"
)

// ErrMalformed is matched by every *MalformedError.
var ErrMalformed = errors.New("malformed wire data")

// Reasons reported inside a MalformedError.
var (
	ErrTrailingData    = errors.New("trailing data after root value")
	ErrUnsupportedCode = errors.New("unsupported msgpack type")
	ErrNonStringKey    = errors.New("map key is not a string")
	ErrDuplicateKey    = errors.New("duplicate map key")
	ErrIntOverflow     = errors.New("unsigned integer exceeds int64")
	ErrTooDeep         = errors.New("nesting too deep")
)

// MalformedError reports bytes that do not parse into a Value tree.
type MalformedError struct {
	// Offset is the byte offset where the inconsistency was detected.
	Offset int
	Err    error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed wire data at offset %d: %v", e.Offset, e.Err)
}

func (e *MalformedError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrMalformed) true for any MalformedError.
func (e *MalformedError) Is(target error) bool { return target == ErrMalformed }
