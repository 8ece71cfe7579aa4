package dynamic

import (
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnsupportedYAML is returned for YAML constructs with no dynamic
// counterpart, such as timestamps or non-scalar map keys.
var ErrUnsupportedYAML = errors.New("unsupported yaml node")

// YAML tags emitted for scalar kinds.
const (
	tagNull   = "!!null"
	tagBool   = "!!bool"
	tagInt    = "!!int"
	tagFloat  = "!!float"
	tagStr    = "!!str"
	tagBinary = "!!binary"
)

// YAML renders v as a yaml.v3 node tree. Map order is kept and every scalar
// carries an explicit tag so that 1 and 1.0 stay distinct.
func (v Value) YAML() *yaml.Node {
	switch v.kind {
	case KindBool:
		return scalarNode(tagBool, strconv.FormatBool(v.b))
	case KindInt:
		return scalarNode(tagInt, strconv.FormatInt(v.i, 10))
	case KindFloat:
		return scalarNode(tagFloat, formatYAMLFloat(v.f))
	case KindString:
		return scalarNode(tagStr, v.s)
	case KindBytes:
		return scalarNode(tagBinary, base64.StdEncoding.EncodeToString(v.raw))
	case KindSeq:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.items {
			n.Content = append(n.Content, item.YAML())
		}
		return n
	case KindMap:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		v.m.Range(func(k string, val Value) bool {
			n.Content = append(n.Content, scalarNode(tagStr, k), val.YAML())
			return true
		})
		return n
	default:
		return scalarNode(tagNull, "null")
	}
}

// MarshalYAML implements yaml.Marshaler.
func (v Value) MarshalYAML() (any, error) {
	return v.YAML(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (v *Value) UnmarshalYAML(n *yaml.Node) error {
	out, err := FromYAML(n)
	if err != nil {
		return err
	}
	*v = out
	return nil
}

// FromYAML converts a yaml.v3 node tree into a Value. Scalars are typed by
// their resolved tag: plain 3 becomes Int, plain 3.0 becomes Float.
func FromYAML(n *yaml.Node) (Value, error) {
	if n == nil {
		return Nil(), nil
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Nil(), nil
		}
		return FromYAML(n.Content[0])
	case yaml.AliasNode:
		return FromYAML(n.Alias)
	case yaml.SequenceNode:
		items := make([]Value, 0, len(n.Content))
		for i, c := range n.Content {
			item, err := FromYAML(c)
			if err != nil {
				return Value{}, fmt.Errorf("[%d]: %w", i, err)
			}
			items = append(items, item)
		}
		return Value{kind: KindSeq, items: items}, nil
	case yaml.MappingNode:
		m := NewMap()
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, val := n.Content[i], n.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return Value{}, fmt.Errorf("%w: line %d: map key must be a scalar", ErrUnsupportedYAML, k.Line)
			}
			item, err := FromYAML(val)
			if err != nil {
				return Value{}, fmt.Errorf("%s: %w", k.Value, err)
			}
			m.Set(k.Value, item)
		}
		return Object(m), nil
	case yaml.ScalarNode:
		return scalarFromYAML(n)
	}
	return Value{}, fmt.Errorf("%w: kind %d", ErrUnsupportedYAML, n.Kind)
}

func scalarFromYAML(n *yaml.Node) (Value, error) {
	switch tag := n.ShortTag(); tag {
	case tagNull:
		return Nil(), nil
	case tagBool:
		var b bool
		if err := n.Decode(&b); err != nil {
			return Value{}, err
		}
		return Bool(b), nil
	case tagInt:
		var i int64
		if err := n.Decode(&i); err != nil {
			return Value{}, err
		}
		return Int(i), nil
	case tagFloat:
		var f float64
		if err := n.Decode(&f); err != nil {
			return Value{}, err
		}
		return Float(f), nil
	case tagStr:
		return String(n.Value), nil
	case tagBinary:
		raw, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(n.Value), ""))
		if err != nil {
			return Value{}, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return Bytes(raw), nil
	default:
		return Value{}, fmt.Errorf("%w: line %d: tag %s", ErrUnsupportedYAML, n.Line, tag)
	}
}

func scalarNode(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func formatYAMLFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
