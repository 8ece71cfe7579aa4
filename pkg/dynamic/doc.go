// Package dynamic models open-shape payloads such as input settings, filter
// settings and scene item transforms.
//
// A Value is a recursive tagged variant over nil, bool, int64, float64,
// string, bytes, ordered sequences and ordered string-keyed maps. There is no
// schema: the shape of a settings blob depends on the input or filter kind and
// may differ between two instances of the same field.
//
// The scalar subtype of every leaf is kept exactly. An integer stays an
// integer through decode, encode, YAML and JSON; it never widens to a float.
// Map keys keep their insertion order so successive encodings of an unchanged
// map are byte-identical.
package dynamic
