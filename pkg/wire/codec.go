package wire

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

// MaxDepth bounds container nesting accepted by Decode.
const MaxDepth = 512

// Decode parses a single MessagePack value from data.
// The whole input must be consumed.
func Decode(data []byte) (Value, error) {
	r := bytes.NewReader(data)
	d := &decoder{
		dec:   msgpack.NewDecoder(r),
		r:     r,
		total: len(data),
	}
	v, err := d.value(0)
	if err != nil {
		return Value{}, err
	}
	if r.Len() > 0 {
		return Value{}, d.fail(ErrTrailingData)
	}
	return v, nil
}

// Encode serializes v to MessagePack. Integers use the most compact
// encoding; floats are always written as float64.
func Encode(v Value) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := encodeValue(enc, v); err != nil {
		return nil, fmt.Errorf("failed to encode wire value: %w", err)
	}
	return buf.Bytes(), nil
}

// MustEncode is like Encode but panics on error. Encoding into memory only
// fails on programming errors.
func MustEncode(v Value) []byte {
	data, err := Encode(v)
	if err != nil {
		panic(err)
	}
	return data
}

type decoder struct {
	dec   *msgpack.Decoder
	r     *bytes.Reader
	total int
}

// offset is the number of bytes consumed so far. bytes.Reader is an
// io.ByteScanner so the msgpack decoder reads it without buffering.
func (d *decoder) offset() int {
	return d.total - d.r.Len()
}

func (d *decoder) fail(err error) *MalformedError {
	return &MalformedError{Offset: d.offset(), Err: err}
}

func (d *decoder) failAt(off int, err error) *MalformedError {
	return &MalformedError{Offset: off, Err: err}
}

func (d *decoder) readErr(err error) *MalformedError {
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return d.fail(err)
}

func (d *decoder) value(depth int) (Value, error) {
	start := d.offset()
	if depth > MaxDepth {
		return Value{}, d.failAt(start, ErrTooDeep)
	}

	c, err := d.dec.PeekCode()
	if err != nil {
		return Value{}, d.readErr(err)
	}

	switch {
	case c == msgpcode.Nil:
		if err := d.dec.DecodeNil(); err != nil {
			return Value{}, d.readErr(err)
		}
		return Nil(), nil

	case c == msgpcode.False || c == msgpcode.True:
		b, err := d.dec.DecodeBool()
		if err != nil {
			return Value{}, d.readErr(err)
		}
		return Bool(b), nil

	case c == msgpcode.Uint64:
		u, err := d.dec.DecodeUint64()
		if err != nil {
			return Value{}, d.readErr(err)
		}
		if u > math.MaxInt64 {
			return Value{}, d.failAt(start, ErrIntOverflow)
		}
		return Int(int64(u)), nil

	case msgpcode.IsFixedNum(c),
		c == msgpcode.Uint8, c == msgpcode.Uint16, c == msgpcode.Uint32,
		c == msgpcode.Int8, c == msgpcode.Int16, c == msgpcode.Int32, c == msgpcode.Int64:
		i, err := d.dec.DecodeInt64()
		if err != nil {
			return Value{}, d.readErr(err)
		}
		return Int(i), nil

	case c == msgpcode.Float:
		f, err := d.dec.DecodeFloat32()
		if err != nil {
			return Value{}, d.readErr(err)
		}
		return Float(float64(f)), nil

	case c == msgpcode.Double:
		f, err := d.dec.DecodeFloat64()
		if err != nil {
			return Value{}, d.readErr(err)
		}
		return Float(f), nil

	case msgpcode.IsString(c):
		s, err := d.dec.DecodeString()
		if err != nil {
			return Value{}, d.readErr(err)
		}
		return String(s), nil

	case msgpcode.IsBin(c):
		b, err := d.dec.DecodeBytes()
		if err != nil {
			return Value{}, d.readErr(err)
		}
		return Value{kind: KindBytes, raw: b}, nil

	case msgpcode.IsFixedArray(c) || c == msgpcode.Array16 || c == msgpcode.Array32:
		return d.seq(depth)

	case msgpcode.IsFixedMap(c) || c == msgpcode.Map16 || c == msgpcode.Map32:
		return d.mapValue(depth)
	}

	return Value{}, d.failAt(start, fmt.Errorf("%w: code 0x%02x", ErrUnsupportedCode, c))
}

// capHint bounds a preallocation by the bytes left, since every element
// takes at least one byte.
func (d *decoder) capHint(n int) int {
	if left := d.r.Len(); n > left {
		return left
	}
	return n
}

func (d *decoder) seq(depth int) (Value, error) {
	n, err := d.dec.DecodeArrayLen()
	if err != nil {
		return Value{}, d.readErr(err)
	}
	items := make([]Value, 0, d.capHint(n))
	for i := 0; i < n; i++ {
		item, err := d.value(depth + 1)
		if err != nil {
			return Value{}, err
		}
		items = append(items, item)
	}
	return Value{kind: KindSeq, items: items}, nil
}

func (d *decoder) mapValue(depth int) (Value, error) {
	n, err := d.dec.DecodeMapLen()
	if err != nil {
		return Value{}, d.readErr(err)
	}
	hint := d.capHint(n)
	pairs := make([]Pair, 0, hint)
	seen := make(map[string]struct{}, hint)
	for i := 0; i < n; i++ {
		keyStart := d.offset()
		c, err := d.dec.PeekCode()
		if err != nil {
			return Value{}, d.readErr(err)
		}
		if !msgpcode.IsString(c) {
			return Value{}, d.failAt(keyStart, ErrNonStringKey)
		}
		key, err := d.dec.DecodeString()
		if err != nil {
			return Value{}, d.readErr(err)
		}
		if _, dup := seen[key]; dup {
			return Value{}, d.failAt(keyStart, fmt.Errorf("%w: %q", ErrDuplicateKey, key))
		}
		seen[key] = struct{}{}

		val, err := d.value(depth + 1)
		if err != nil {
			return Value{}, err
		}
		pairs = append(pairs, Pair{Key: key, Value: val})
	}
	return Value{kind: KindMap, pairs: pairs}, nil
}

func encodeValue(enc *msgpack.Encoder, v Value) error {
	switch v.kind {
	case KindNil:
		return enc.EncodeNil()
	case KindBool:
		return enc.EncodeBool(v.b)
	case KindInt:
		return enc.EncodeInt(v.i)
	case KindFloat:
		return enc.EncodeFloat64(v.f)
	case KindString:
		return enc.EncodeString(v.s)
	case KindBytes:
		// EncodeBytes writes nil for a nil slice.
		raw := v.raw
		if raw == nil {
			raw = []byte{}
		}
		return enc.EncodeBytes(raw)
	case KindSeq:
		if err := enc.EncodeArrayLen(len(v.items)); err != nil {
			return err
		}
		for _, item := range v.items {
			if err := encodeValue(enc, item); err != nil {
				return err
			}
		}
		return nil
	case KindMap:
		if err := enc.EncodeMapLen(len(v.pairs)); err != nil {
			return err
		}
		for _, p := range v.pairs {
			if err := enc.EncodeString(p.Key); err != nil {
				return err
			}
			if err := encodeValue(enc, p.Value); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("unknown value kind %d", v.kind)
}
