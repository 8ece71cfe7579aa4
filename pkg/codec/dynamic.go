package codec

import (
	"github.com/strawket/strawket-go/pkg/dynamic"
	"github.com/strawket/strawket-go/pkg/wire"
)

// Dynamic carries any wire tree as a dynamic.Value, keeping scalar kinds and
// map order exactly.
var Dynamic Elem[dynamic.Value] = dynamicElem{}

// DynamicMap is like Dynamic but requires a map at the top level, as used by
// settings and transform blobs.
var DynamicMap Elem[dynamic.Value] = dynamicElem{requireMap: true}

type dynamicElem struct {
	requireMap bool
}

func (dynamicElem) Class() Class { return ClassDynamic }

func (d dynamicElem) TypeName() string {
	if d.requireMap {
		return "dynamic.map"
	}
	return "dynamic"
}

func (d dynamicElem) DecodeWire(v wire.Value) (dynamic.Value, error) {
	if d.requireMap && v.Kind() != wire.KindMap {
		return dynamic.Value{}, mismatch("map", v)
	}
	return dynamic.FromWire(v), nil
}

func (d dynamicElem) EncodeWire(v dynamic.Value) (wire.Value, error) {
	if d.requireMap {
		if v.IsNil() {
			// zero Value of a map-typed field
			return wire.Map(), nil
		}
		if v.Kind() != dynamic.KindMap {
			return wire.Value{}, &TypeMismatchError{Want: "map", Detail: "dynamic " + v.Kind().String()}
		}
	}
	return dynamic.ToWire(v), nil
}
