package codec

import (
	"fmt"
	"strconv"

	"github.com/strawket/strawket-go/pkg/wire"
)

// Class is the wire strategy used for a field.
type Class uint8

const (
	ClassPlain Class = iota
	ClassFlags
	ClassEnum
	ClassDynamic
	ClassObject
	ClassList
)

// String returns the class name as used in protocol manifests.
func (c Class) String() string {
	switch c {
	case ClassPlain:
		return "plain"
	case ClassFlags:
		return "flags"
	case ClassEnum:
		return "enum"
	case ClassDynamic:
		return "dynamic"
	case ClassObject:
		return "object"
	case ClassList:
		return "list"
	default:
		return "unknown"
	}
}

// ParseClass parses a class name produced by Class.String.
func ParseClass(s string) (Class, error) {
	for c := ClassPlain; c <= ClassList; c++ {
		if c.String() == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown field class %q", s)
}

// Elem converts between a Go type and its wire representation.
type Elem[T any] interface {
	// Class reports the wire strategy.
	Class() Class
	// TypeName names the Go-side type in errors and manifests.
	TypeName() string
	DecodeWire(v wire.Value) (T, error)
	EncodeWire(x T) (wire.Value, error)
}

// Scalar elems.
var (
	Bool   Elem[bool]    = boolElem{}
	Int    Elem[int]     = intElem{}
	Int64  Elem[int64]   = int64Elem{}
	Float  Elem[float64] = floatElem{}
	String Elem[string]  = stringElem{}
)

type boolElem struct{}

func (boolElem) Class() Class     { return ClassPlain }
func (boolElem) TypeName() string { return "bool" }

func (boolElem) DecodeWire(v wire.Value) (bool, error) {
	b, ok := v.AsBool()
	if !ok {
		return false, mismatch("bool", v)
	}
	return b, nil
}

func (boolElem) EncodeWire(b bool) (wire.Value, error) { return wire.Bool(b), nil }

type intElem struct{}

func (intElem) Class() Class     { return ClassPlain }
func (intElem) TypeName() string { return "int" }

func (intElem) DecodeWire(v wire.Value) (int, error) {
	i, ok := v.AsInt()
	if !ok {
		return 0, mismatch("int", v)
	}
	if int64(int(i)) != i {
		return 0, &TypeMismatchError{Want: "int", Got: v.Kind(), Detail: strconv.FormatInt(i, 10) + " out of range"}
	}
	return int(i), nil
}

func (intElem) EncodeWire(i int) (wire.Value, error) { return wire.Int(int64(i)), nil }

type int64Elem struct{}

func (int64Elem) Class() Class     { return ClassPlain }
func (int64Elem) TypeName() string { return "int64" }

func (int64Elem) DecodeWire(v wire.Value) (int64, error) {
	i, ok := v.AsInt()
	if !ok {
		return 0, mismatch("int", v)
	}
	return i, nil
}

func (int64Elem) EncodeWire(i int64) (wire.Value, error) { return wire.Int(i), nil }

// floatElem also accepts integers exactly representable as float64 and
// widens them. Encoding always writes a float.
type floatElem struct{}

func (floatElem) Class() Class     { return ClassPlain }
func (floatElem) TypeName() string { return "float64" }

func (floatElem) DecodeWire(v wire.Value) (float64, error) {
	if f, ok := v.AsFloat(); ok {
		return f, nil
	}
	if i, ok := v.AsInt(); ok && i >= -(1<<53) && i <= 1<<53 {
		return float64(i), nil
	}
	return 0, mismatch("float", v)
}

func (floatElem) EncodeWire(f float64) (wire.Value, error) { return wire.Float(f), nil }

type stringElem struct{}

func (stringElem) Class() Class     { return ClassPlain }
func (stringElem) TypeName() string { return "string" }

func (stringElem) DecodeWire(v wire.Value) (string, error) {
	s, ok := v.AsString()
	if !ok {
		return "", mismatch("string", v)
	}
	return s, nil
}

func (stringElem) EncodeWire(s string) (wire.Value, error) { return wire.String(s), nil }

// ListOf returns an Elem for a sequence of elem. A nil slice encodes as an
// empty sequence.
func ListOf[T any](elem Elem[T]) Elem[[]T] {
	return listElem[T]{elem: elem}
}

type listElem[T any] struct {
	elem Elem[T]
}

func (listElem[T]) Class() Class { return ClassList }

func (l listElem[T]) TypeName() string { return "[]" + l.elem.TypeName() }

func (l listElem[T]) DecodeWire(v wire.Value) ([]T, error) {
	if v.Kind() != wire.KindSeq {
		return nil, mismatch("seq", v)
	}
	items := v.Items()
	out := make([]T, 0, len(items))
	for i, item := range items {
		x, err := l.elem.DecodeWire(item)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		out = append(out, x)
	}
	return out, nil
}

func (l listElem[T]) EncodeWire(xs []T) (wire.Value, error) {
	items := make([]wire.Value, 0, len(xs))
	for i, x := range xs {
		item, err := l.elem.EncodeWire(x)
		if err != nil {
			return wire.Value{}, fmt.Errorf("[%d]: %w", i, err)
		}
		items = append(items, item)
	}
	return wire.Seq(items...), nil
}
