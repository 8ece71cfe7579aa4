// Package codec maps wire.Value trees to typed domain entities.
//
// An entity is described once, at package initialization, by a Schema: an
// ordered list of fields, each binding a wire key to a struct field through
// an Elem. The Elem decides how the field is represented on the wire:
//
//   - Plain: scalars (Bool, Int, Int64, Float, String), lists (ListOf) and
//     nested entities (any *Schema).
//   - Flags: a bitmask carried as a map of symbolic flag name to bool
//     (FlagSet).
//   - Enum: a closed enumeration carried as its symbolic name (EnumSet).
//   - Dynamic: an open-shape settings or transform tree (Dynamic,
//     DynamicMap).
//
// # Required and Optional Fields
//
// Required fields must be present on decode and are always emitted on encode.
// Optional fields are held in an Opt, which separates three states:
//
//   - Absent: key not in the map; omitted on encode
//   - Null: key present with nil; encoded as nil
//   - Present: key present with a value
//
// # Forward Compatibility
//
// Wire keys not declared on an entity are ignored, as are flag names not
// declared in a FlagSet. Every other inconsistency is an error: see
// ErrMissingField, ErrUnknownEnumSymbol and ErrTypeMismatch.
//
// # Registry
//
// A Registry indexes the schemas of a protocol by entity name. It is built
// once and never mutated, so it can be read from any goroutine.
package codec
