package codec

import (
	"fmt"

	"github.com/strawket/strawket-go/pkg/wire"
)

// Field binds one wire key of entity E to a struct field.
type Field[E any] struct {
	key      string
	class    Class
	typeName string
	optional bool

	// decode is called with the wire value when the key is present.
	decode func(e *E, v wire.Value) error
	// missing is called when the key is absent; it fails for required fields.
	missing func(e *E) bool
	// encode returns the wire value and whether the key is emitted.
	encode func(e *E) (wire.Value, bool, error)
}

// Key returns the wire key.
func (f Field[E]) Key() string { return f.key }

// Info describes the field for registries and manifests.
func (f Field[E]) Info() FieldInfo {
	return FieldInfo{Key: f.key, Class: f.class, Type: f.typeName, Optional: f.optional}
}

// Required declares a field that must be present on the wire.
func Required[E, T any](key string, elem Elem[T], ptr func(*E) *T) Field[E] {
	return Field[E]{
		key:      key,
		class:    elem.Class(),
		typeName: elem.TypeName(),
		decode: func(e *E, v wire.Value) error {
			x, err := elem.DecodeWire(v)
			if err != nil {
				return err
			}
			*ptr(e) = x
			return nil
		},
		missing: func(*E) bool { return false },
		encode: func(e *E) (wire.Value, bool, error) {
			v, err := elem.EncodeWire(*ptr(e))
			return v, true, err
		},
	}
}

// Optional declares a field that may be absent or nil on the wire.
// A nil wire value decodes to Null rather than being passed to elem.
func Optional[E, T any](key string, elem Elem[T], ptr func(*E) *Opt[T]) Field[E] {
	return Field[E]{
		key:      key,
		class:    elem.Class(),
		typeName: elem.TypeName(),
		optional: true,
		decode: func(e *E, v wire.Value) error {
			if v.IsNil() {
				*ptr(e) = NullOf[T]()
				return nil
			}
			x, err := elem.DecodeWire(v)
			if err != nil {
				return err
			}
			*ptr(e) = Some(x)
			return nil
		},
		missing: func(e *E) bool {
			*ptr(e) = Opt[T]{}
			return true
		},
		encode: func(e *E) (wire.Value, bool, error) {
			o := *ptr(e)
			switch o.presence {
			case Absent:
				return wire.Value{}, false, nil
			case Null:
				return wire.Nil(), true, nil
			}
			v, err := elem.EncodeWire(o.val)
			return v, true, err
		},
	}
}

// Inline reuses the fields of base inside entity E, for entities that extend
// another one on the wire.
func Inline[E, B any](base *Schema[B], ptr func(*E) *B) []Field[E] {
	out := make([]Field[E], len(base.fields))
	for i, bf := range base.fields {
		bf := bf // per-iteration copy; go.mod targets go 1.21 loop semantics
		out[i] = Field[E]{
			key:      bf.key,
			class:    bf.class,
			typeName: bf.typeName,
			optional: bf.optional,
			decode:   func(e *E, v wire.Value) error { return bf.decode(ptr(e), v) },
			missing:  func(e *E) bool { return bf.missing(ptr(e)) },
			encode:   func(e *E) (wire.Value, bool, error) { return bf.encode(ptr(e)) },
		}
	}
	return out
}

// Schema is the wire definition of entity E: its ordered fields. A Schema is
// immutable and safe for concurrent use. It is itself an Elem, so entities
// nest and appear in lists.
type Schema[E any] struct {
	name   string
	fields []Field[E]
}

// NewSchema defines entity E. It panics on an empty or repeated wire key.
func NewSchema[E any](name string, fields ...Field[E]) *Schema[E] {
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if f.key == "" {
			panic(fmt.Sprintf("codec: %s has a field with an empty key", name))
		}
		if _, dup := seen[f.key]; dup {
			panic(fmt.Sprintf("codec: %s declares key %q twice", name, f.key))
		}
		seen[f.key] = struct{}{}
	}
	return &Schema[E]{name: name, fields: append([]Field[E](nil), fields...)}
}

// Name returns the entity name.
func (s *Schema[E]) Name() string { return s.name }

// Fields describes the declared fields in order.
func (s *Schema[E]) Fields() []FieldInfo {
	out := make([]FieldInfo, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.Info()
	}
	return out
}

func (s *Schema[E]) Class() Class     { return ClassObject }
func (s *Schema[E]) TypeName() string { return s.name }

// DecodeWire builds a fresh E from a wire map. Undeclared keys are ignored.
func (s *Schema[E]) DecodeWire(v wire.Value) (E, error) {
	var e E
	if v.Kind() != wire.KindMap {
		return e, fmt.Errorf("%s: %w", s.name, mismatch("map", v))
	}

	pairs := v.Pairs()
	byKey := make(map[string]wire.Value, len(pairs))
	for _, p := range pairs {
		byKey[p.Key] = p.Value
	}

	for _, f := range s.fields {
		fv, ok := byKey[f.key]
		if !ok {
			if !f.missing(&e) {
				var zero E
				return zero, &MissingFieldError{Entity: s.name, Field: f.key}
			}
			continue
		}
		if err := f.decode(&e, fv); err != nil {
			var zero E
			return zero, &FieldError{Entity: s.name, Field: f.key, Err: err}
		}
	}
	return e, nil
}

// EncodeWire builds a wire map from e in declaration order, omitting Absent
// optional fields.
func (s *Schema[E]) EncodeWire(e E) (wire.Value, error) {
	pairs := make([]wire.Pair, 0, len(s.fields))
	for _, f := range s.fields {
		v, emit, err := f.encode(&e)
		if err != nil {
			return wire.Value{}, &FieldError{Entity: s.name, Field: f.key, Err: err}
		}
		if emit {
			pairs = append(pairs, wire.Pair{Key: f.key, Value: v})
		}
	}
	return wire.Map(pairs...), nil
}

// Unmarshal decodes MessagePack bytes into a fresh E.
func (s *Schema[E]) Unmarshal(data []byte) (E, error) {
	v, err := wire.Decode(data)
	if err != nil {
		var zero E
		return zero, err
	}
	return s.DecodeWire(v)
}

// Marshal encodes e to MessagePack bytes.
func (s *Schema[E]) Marshal(e *E) ([]byte, error) {
	v, err := s.EncodeWire(*e)
	if err != nil {
		return nil, err
	}
	return wire.Encode(v)
}

// DecodeAny decodes v and returns a *E.
func (s *Schema[E]) DecodeAny(v wire.Value) (any, error) {
	e, err := s.DecodeWire(v)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// EncodeAny encodes x, which must be an E or *E.
func (s *Schema[E]) EncodeAny(x any) (wire.Value, error) {
	switch e := x.(type) {
	case E:
		return s.EncodeWire(e)
	case *E:
		if e == nil {
			return wire.Value{}, fmt.Errorf("%w: nil *%s", ErrWrongEntity, s.name)
		}
		return s.EncodeWire(*e)
	}
	return wire.Value{}, fmt.Errorf("%w: %s cannot encode %T", ErrWrongEntity, s.name, x)
}
