package codec

import (
	"errors"
	"fmt"

	"github.com/strawket/strawket-go/pkg/wire"
)

// Codec errors. The typed errors below match these with errors.Is.
var (
	ErrMissingField      = errors.New("missing field")
	ErrUnknownEnumSymbol = errors.New("unknown enum symbol")
	ErrUnknownEnumValue  = errors.New("unknown enum value")
	ErrTypeMismatch      = errors.New("type mismatch")
	ErrWrongEntity       = errors.New("value is not of the schema's entity type")
)

// MissingFieldError reports a required field absent from a decoded map.
type MissingFieldError struct {
	Entity string
	Field  string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: missing required field %q", e.Entity, e.Field)
}

func (e *MissingFieldError) Is(target error) bool { return target == ErrMissingField }

// UnknownEnumSymbolError reports a symbol outside an enumeration's closed set.
// It usually means the remote side speaks a newer protocol version.
type UnknownEnumSymbolError struct {
	Enum   string
	Symbol string
}

func (e *UnknownEnumSymbolError) Error() string {
	return fmt.Sprintf("unknown %s symbol %q", e.Enum, e.Symbol)
}

func (e *UnknownEnumSymbolError) Is(target error) bool { return target == ErrUnknownEnumSymbol }

// TypeMismatchError reports a wire value of the wrong kind for its field.
type TypeMismatchError struct {
	Want   string
	Got    wire.Kind
	Detail string
}

func (e *TypeMismatchError) Error() string {
	msg := fmt.Sprintf("type mismatch: want %s, got %s", e.Want, e.Got)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e *TypeMismatchError) Is(target error) bool { return target == ErrTypeMismatch }

// FieldError attaches the entity and field to a failure while decoding or
// encoding that field.
type FieldError struct {
	Entity string
	Field  string
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s.%s: %v", e.Entity, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

func mismatch(want string, got wire.Value) error {
	return &TypeMismatchError{Want: want, Got: got.Kind()}
}
