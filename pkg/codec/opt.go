package codec

import "fmt"

// Presence is the state of an optional field.
type Presence uint8

const (
	// Absent means the key was not on the wire. It is the zero state.
	Absent Presence = iota
	// Null means the key was on the wire with a nil value.
	Null
	// Present means the key carried a value.
	Present
)

// String returns the presence name.
func (p Presence) String() string {
	switch p {
	case Absent:
		return "absent"
	case Null:
		return "null"
	case Present:
		return "present"
	default:
		return "unknown"
	}
}

// Opt holds an optional field value. The zero Opt is Absent.
type Opt[T any] struct {
	val      T
	presence Presence
}

// Some returns a Present Opt holding v.
func Some[T any](v T) Opt[T] { return Opt[T]{val: v, presence: Present} }

// NullOf returns a Null Opt.
func NullOf[T any]() Opt[T] { return Opt[T]{presence: Null} }

// Presence returns the state of o.
func (o Opt[T]) Presence() Presence { return o.presence }

// IsAbsent reports whether o is Absent.
func (o Opt[T]) IsAbsent() bool { return o.presence == Absent }

// IsNull reports whether o is Null.
func (o Opt[T]) IsNull() bool { return o.presence == Null }

// IsPresent reports whether o holds a value.
func (o Opt[T]) IsPresent() bool { return o.presence == Present }

// Get returns the value and whether it is Present.
func (o Opt[T]) Get() (T, bool) { return o.val, o.presence == Present }

// Or returns the value if Present, def otherwise.
func (o Opt[T]) Or(def T) T {
	if o.presence == Present {
		return o.val
	}
	return def
}

// String renders o for diagnostics.
func (o Opt[T]) String() string {
	if o.presence == Present {
		return fmt.Sprint(o.val)
	}
	return "<" + o.presence.String() + ">"
}
