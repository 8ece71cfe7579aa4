package dynamic

import "github.com/strawket/strawket-go/pkg/wire"

// FromWire copies a wire tree into a fresh dynamic tree. Every wire kind has
// a dynamic counterpart, so the conversion cannot fail.
func FromWire(w wire.Value) Value {
	switch w.Kind() {
	case wire.KindBool:
		b, _ := w.AsBool()
		return Bool(b)
	case wire.KindInt:
		i, _ := w.AsInt()
		return Int(i)
	case wire.KindFloat:
		f, _ := w.AsFloat()
		return Float(f)
	case wire.KindString:
		s, _ := w.AsString()
		return String(s)
	case wire.KindBytes:
		b, _ := w.AsBytes()
		return Value{kind: KindBytes, raw: b}
	case wire.KindSeq:
		src := w.Items()
		items := make([]Value, len(src))
		for i, item := range src {
			items[i] = FromWire(item)
		}
		return Value{kind: KindSeq, items: items}
	case wire.KindMap:
		pairs := w.Pairs()
		m := &Map{
			keys: make([]string, 0, len(pairs)),
			vals: make(map[string]Value, len(pairs)),
		}
		for _, p := range pairs {
			m.Set(p.Key, FromWire(p.Value))
		}
		return Object(m)
	default:
		return Nil()
	}
}

// ToWire converts v to a wire tree. Map pairs follow the map's insertion
// order.
func ToWire(v Value) wire.Value {
	switch v.kind {
	case KindBool:
		return wire.Bool(v.b)
	case KindInt:
		return wire.Int(v.i)
	case KindFloat:
		return wire.Float(v.f)
	case KindString:
		return wire.String(v.s)
	case KindBytes:
		return wire.Bytes(v.raw)
	case KindSeq:
		items := make([]wire.Value, len(v.items))
		for i, item := range v.items {
			items[i] = ToWire(item)
		}
		return wire.Seq(items...)
	case KindMap:
		pairs := make([]wire.Pair, 0, v.m.Len())
		v.m.Range(func(k string, val Value) bool {
			pairs = append(pairs, wire.Pair{Key: k, Value: ToWire(val)})
			return true
		})
		return wire.Map(pairs...)
	default:
		return wire.Nil()
	}
}
