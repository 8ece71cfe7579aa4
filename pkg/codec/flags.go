package codec

import (
	"fmt"
	"strings"

	"github.com/strawket/strawket-go/pkg/wire"
)

// Bits is the set of integer types usable as a bitmask.
type Bits interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Flag binds one bit of a bitmask to its symbolic wire name.
type Flag[T Bits] struct {
	Name string
	Bit  T
}

// FlagSet is the closed set of named bits of a bitmask type. On the wire the
// mask is a map from every known flag name to whether its bit is set.
type FlagSet[T Bits] struct {
	name   string
	flags  []Flag[T]
	byName map[string]T
	mask   T
}

// NewFlagSet defines a bitmask type. It panics if a flag is not a single bit
// or if a name or bit is declared twice.
func NewFlagSet[T Bits](name string, flags ...Flag[T]) *FlagSet[T] {
	fs := &FlagSet[T]{
		name:   name,
		flags:  append([]Flag[T](nil), flags...),
		byName: make(map[string]T, len(flags)),
	}
	for _, f := range flags {
		if f.Bit == 0 || f.Bit&(f.Bit-1) != 0 {
			panic(fmt.Sprintf("codec: %s flag %s is not a single bit: %#x", name, f.Name, uint64(f.Bit)))
		}
		if _, dup := fs.byName[f.Name]; dup {
			panic(fmt.Sprintf("codec: %s flag name %s declared twice", name, f.Name))
		}
		if fs.mask&f.Bit != 0 {
			panic(fmt.Sprintf("codec: %s bit %#x declared twice", name, uint64(f.Bit)))
		}
		fs.byName[f.Name] = f.Bit
		fs.mask |= f.Bit
	}
	return fs
}

func (fs *FlagSet[T]) Class() Class     { return ClassFlags }
func (fs *FlagSet[T]) TypeName() string { return fs.name }

// FlagInfo describes one declared flag of any bitmask type.
type FlagInfo struct {
	Name string
	Bit  uint64
}

// FlagInfos describes the declared flags in declaration order.
func (fs *FlagSet[T]) FlagInfos() []FlagInfo {
	out := make([]FlagInfo, len(fs.flags))
	for i, f := range fs.flags {
		out[i] = FlagInfo{Name: f.Name, Bit: uint64(f.Bit)}
	}
	return out
}

// Flags returns the declared flags in declaration order.
func (fs *FlagSet[T]) Flags() []Flag[T] {
	return append([]Flag[T](nil), fs.flags...)
}

// Mask returns the union of all declared bits.
func (fs *FlagSet[T]) Mask() T { return fs.mask }

// Names returns the names of the declared flags set in v.
func (fs *FlagSet[T]) Names(v T) []string {
	var names []string
	for _, f := range fs.flags {
		if v&f.Bit != 0 {
			names = append(names, f.Name)
		}
	}
	return names
}

// Format renders v as "A|B", or "0" when no declared flag is set.
func (fs *FlagSet[T]) Format(v T) string {
	names := fs.Names(v)
	if len(names) == 0 {
		return "0"
	}
	return strings.Join(names, "|")
}

// DecodeWire sets a bit for every declared flag present with value true.
// Undeclared names are ignored so that newer peers can add flags.
func (fs *FlagSet[T]) DecodeWire(v wire.Value) (T, error) {
	var out T
	if v.Kind() != wire.KindMap {
		return 0, mismatch("map", v)
	}
	for _, p := range v.Pairs() {
		bit, known := fs.byName[p.Key]
		if !known {
			continue
		}
		set, ok := p.Value.AsBool()
		if !ok {
			return 0, &TypeMismatchError{Want: "bool", Got: p.Value.Kind(), Detail: fs.name + " flag " + p.Key}
		}
		if set {
			out |= bit
		}
	}
	return out, nil
}

// EncodeWire emits every declared flag, set or not, in declaration order.
// Bits outside the declared set are dropped.
func (fs *FlagSet[T]) EncodeWire(v T) (wire.Value, error) {
	pairs := make([]wire.Pair, len(fs.flags))
	for i, f := range fs.flags {
		pairs[i] = wire.Pair{Key: f.Name, Value: wire.Bool(v&f.Bit != 0)}
	}
	return wire.Map(pairs...), nil
}
