package codec

import (
	"fmt"

	"github.com/strawket/strawket-go/pkg/wire"
)

// Symbol binds one enumeration value to its wire name.
type Symbol[T comparable] struct {
	Value T
	Name  string
}

// EnumSet is the closed set of values of an enumeration type, carried on the
// wire by symbolic name.
type EnumSet[T comparable] struct {
	name    string
	symbols []Symbol[T]
	byName  map[string]T
	byValue map[T]string
}

// NewEnumSet defines an enumeration. It panics if a value or a name is
// declared twice, so every declared value has exactly one name.
func NewEnumSet[T comparable](name string, symbols ...Symbol[T]) *EnumSet[T] {
	es := &EnumSet[T]{
		name:    name,
		symbols: append([]Symbol[T](nil), symbols...),
		byName:  make(map[string]T, len(symbols)),
		byValue: make(map[T]string, len(symbols)),
	}
	for _, s := range symbols {
		if _, dup := es.byName[s.Name]; dup {
			panic(fmt.Sprintf("codec: %s symbol %s declared twice", name, s.Name))
		}
		if _, dup := es.byValue[s.Value]; dup {
			panic(fmt.Sprintf("codec: %s value %v declared twice", name, s.Value))
		}
		es.byName[s.Name] = s.Value
		es.byValue[s.Value] = s.Name
	}
	return es
}

func (es *EnumSet[T]) Class() Class     { return ClassEnum }
func (es *EnumSet[T]) TypeName() string { return es.name }

// Symbols returns the declared symbols in declaration order.
func (es *EnumSet[T]) Symbols() []Symbol[T] {
	return append([]Symbol[T](nil), es.symbols...)
}

// SymbolNames returns the declared wire names in declaration order.
func (es *EnumSet[T]) SymbolNames() []string {
	out := make([]string, len(es.symbols))
	for i, s := range es.symbols {
		out[i] = s.Name
	}
	return out
}

// Name returns the wire name of v.
func (es *EnumSet[T]) Name(v T) (string, bool) {
	s, ok := es.byValue[v]
	return s, ok
}

// Parse returns the value named s.
func (es *EnumSet[T]) Parse(s string) (T, error) {
	v, ok := es.byName[s]
	if !ok {
		var zero T
		return zero, &UnknownEnumSymbolError{Enum: es.name, Symbol: s}
	}
	return v, nil
}

// DecodeWire maps a wire string to its value. Unknown symbols are an error,
// never a default.
func (es *EnumSet[T]) DecodeWire(v wire.Value) (T, error) {
	s, ok := v.AsString()
	if !ok {
		var zero T
		return zero, mismatch("string", v)
	}
	return es.Parse(s)
}

// EncodeWire maps a value to its wire name.
func (es *EnumSet[T]) EncodeWire(v T) (wire.Value, error) {
	s, ok := es.byValue[v]
	if !ok {
		return wire.Value{}, fmt.Errorf("%w: %s(%v)", ErrUnknownEnumValue, es.name, v)
	}
	return wire.String(s), nil
}
