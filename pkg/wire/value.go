package wire

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindBytes
	KindSeq
	KindMap
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindSeq:
		return "seq"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Value is a decoded MessagePack value. The zero Value is Nil.
//
// Values are immutable: accessors return copies of container contents.
type Value struct {
	kind  Kind
	b     bool
	i     int64
	f     float64
	s     string
	raw   []byte
	items []Value
	pairs []Pair
}

// Pair is one entry of a Map value.
type Pair struct {
	Key   string
	Value Value
}

// Nil returns the Nil value.
func Nil() Value { return Value{} }

// Bool returns a Bool value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an Int value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a Float value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String returns a String value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Bytes returns a Bytes value holding a copy of b.
func Bytes(b []byte) Value {
	return Value{kind: KindBytes, raw: append([]byte(nil), b...)}
}

// Seq returns a Seq value holding vs in order.
func Seq(vs ...Value) Value {
	return Value{kind: KindSeq, items: append([]Value(nil), vs...)}
}

// Map returns a Map value holding pairs in order.
// It panics if a key appears more than once.
func Map(pairs ...Pair) Value {
	seen := make(map[string]struct{}, len(pairs))
	for _, p := range pairs {
		if _, dup := seen[p.Key]; dup {
			panic(fmt.Sprintf("wire: duplicate map key %q", p.Key))
		}
		seen[p.Key] = struct{}{}
	}
	return Value{kind: KindMap, pairs: append([]Pair(nil), pairs...)}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNil reports whether v is Nil.
func (v Value) IsNil() bool { return v.kind == KindNil }

// AsBool returns the bool held by v.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsInt returns the integer held by v.
func (v Value) AsInt() (int64, bool) { return v.i, v.kind == KindInt }

// AsFloat returns the float held by v.
func (v Value) AsFloat() (float64, bool) { return v.f, v.kind == KindFloat }

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsBytes returns a copy of the bytes held by v.
func (v Value) AsBytes() ([]byte, bool) {
	if v.kind != KindBytes {
		return nil, false
	}
	return append([]byte(nil), v.raw...), true
}

// Items returns a copy of the elements of a Seq value, or nil.
func (v Value) Items() []Value {
	if v.kind != KindSeq {
		return nil
	}
	return append([]Value(nil), v.items...)
}

// Pairs returns a copy of the entries of a Map value in order, or nil.
func (v Value) Pairs() []Pair {
	if v.kind != KindMap {
		return nil
	}
	return append([]Pair(nil), v.pairs...)
}

// Len returns the element count of a Seq or Map, the byte length of a String
// or Bytes, and 0 otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindSeq:
		return len(v.items)
	case KindMap:
		return len(v.pairs)
	case KindString:
		return len(v.s)
	case KindBytes:
		return len(v.raw)
	default:
		return 0
	}
}

// Get returns the value stored under key in a Map.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindMap {
		return Value{}, false
	}
	for _, p := range v.pairs {
		if p.Key == key {
			return p.Value, true
		}
	}
	return Value{}, false
}

// String renders v compactly for diagnostics.
func (v Value) String() string {
	var sb strings.Builder
	v.write(&sb)
	return sb.String()
}

func (v Value) write(sb *strings.Builder) {
	switch v.kind {
	case KindNil:
		sb.WriteString("nil")
	case KindBool:
		sb.WriteString(strconv.FormatBool(v.b))
	case KindInt:
		sb.WriteString(strconv.FormatInt(v.i, 10))
	case KindFloat:
		s := strconv.FormatFloat(v.f, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eEnN") {
			// keep floats visibly distinct from ints
			s += ".0"
		}
		sb.WriteString(s)
	case KindString:
		sb.WriteString(strconv.Quote(v.s))
	case KindBytes:
		fmt.Fprintf(sb, "h'%x'", v.raw)
	case KindSeq:
		sb.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				sb.WriteString(", ")
			}
			item.write(sb)
		}
		sb.WriteByte(']')
	case KindMap:
		sb.WriteByte('{')
		for i, p := range v.pairs {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(strconv.Quote(p.Key))
			sb.WriteString(": ")
			p.Value.write(sb)
		}
		sb.WriteByte('}')
	}
}

// Equal reports whether a and b hold the same tree. Map entries are compared
// by key regardless of order. Floats compare by bit pattern.
func Equal(a, b Value) bool {
	return equal(a, b, false)
}

// Identical is like Equal but also requires Map entries in the same order.
func Identical(a, b Value) bool {
	return equal(a, b, true)
}

func equal(a, b Value, ordered bool) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNil:
		return true
	case KindBool:
		return a.b == b.b
	case KindInt:
		return a.i == b.i
	case KindFloat:
		return math.Float64bits(a.f) == math.Float64bits(b.f)
	case KindString:
		return a.s == b.s
	case KindBytes:
		return string(a.raw) == string(b.raw)
	case KindSeq:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !equal(a.items[i], b.items[i], ordered) {
				return false
			}
		}
		return true
	case KindMap:
		if len(a.pairs) != len(b.pairs) {
			return false
		}
		if ordered {
			for i := range a.pairs {
				if a.pairs[i].Key != b.pairs[i].Key || !equal(a.pairs[i].Value, b.pairs[i].Value, true) {
					return false
				}
			}
			return true
		}
		for _, p := range a.pairs {
			other, ok := b.Get(p.Key)
			if !ok || !equal(p.Value, other, false) {
				return false
			}
		}
		return true
	}
	return false
}
