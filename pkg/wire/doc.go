// Package wire defines the MessagePack wire value model for the OBS WebSocket
// msgpack sub-protocol.
//
// Every payload exchanged with OBS is decoded into a Value tree before any
// typed codec looks at it, and every typed entity is encoded into a Value tree
// before it is written. Codecs never touch raw bytes.
//
// # Value Kinds
//
// A Value is one of:
//   - Nil
//   - Bool
//   - Int (all MessagePack integer widths, held as int64)
//   - Float (float32 and float64, held as float64)
//   - String
//   - Bytes
//   - Seq (ordered list of Values)
//   - Map (ordered list of string-keyed Pairs, keys unique)
//
// # Map Ordering
//
// Map pairs keep their insertion order so re-encoding an unchanged map
// produces identical bytes. Lookup does not depend on order, and Equal
// ignores it. Identical compares order as well.
//
// # Malformed Data
//
// Decode fails with a *MalformedError carrying the byte offset where the
// stream stopped making sense. No partial Value is returned.
package wire
