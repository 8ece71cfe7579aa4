package log

import (
	"errors"

	"github.com/strawket/strawket-go/pkg/codec"
	"github.com/strawket/strawket-go/pkg/wire"
)

// ErrorKind classifies codec failures.
type ErrorKind uint8

const (
	ErrorKindOther ErrorKind = iota
	ErrorKindMalformed
	ErrorKindMissingField
	ErrorKindUnknownEnumSymbol
	ErrorKindTypeMismatch
)

// String returns the error kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrorKindMalformed:
		return "MALFORMED_WIRE_DATA"
	case ErrorKindMissingField:
		return "MISSING_FIELD"
	case ErrorKindUnknownEnumSymbol:
		return "UNKNOWN_ENUM_SYMBOL"
	case ErrorKindTypeMismatch:
		return "TYPE_MISMATCH"
	default:
		return "OTHER"
	}
}

// NewErrorEventData classifies err into an ErrorEventData.
func NewErrorEventData(err error) *ErrorEventData {
	data := &ErrorEventData{Kind: ClassifyError(err), Message: err.Error()}

	var me *wire.MalformedError
	if errors.As(err, &me) {
		off := me.Offset
		data.Offset = &off
	}
	var mf *codec.MissingFieldError
	if errors.As(err, &mf) {
		data.Field = mf.Field
	}
	var fe *codec.FieldError
	if errors.As(err, &fe) {
		data.Field = fe.Field
	}
	return data
}

// ClassifyError maps err onto an ErrorKind.
func ClassifyError(err error) ErrorKind {
	switch {
	case errors.Is(err, wire.ErrMalformed):
		return ErrorKindMalformed
	case errors.Is(err, codec.ErrMissingField):
		return ErrorKindMissingField
	case errors.Is(err, codec.ErrUnknownEnumSymbol):
		return ErrorKindUnknownEnumSymbol
	case errors.Is(err, codec.ErrTypeMismatch):
		return ErrorKindTypeMismatch
	default:
		return ErrorKindOther
	}
}
