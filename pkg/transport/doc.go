// Package transport defines what the codec layer expects from a transport
// and provides length-prefixed framing for capture files.
//
// The codec never opens sockets. A live client hands it whole MessagePack
// payloads through the Conn interface; how they arrive (WebSocket binary
// frames, a test pipe, a capture file) is the transport's business.
//
// # Framing
//
// Capture files and stream adapters carry one payload per frame:
//
//	┌──────────────────┬──────────────────────────┐
//	│ length (4B, BE)  │ MessagePack payload      │
//	└──────────────────┴──────────────────────────┘
//
// Empty frames are invalid. Frames above the configured maximum are rejected
// before the payload is read. Read failures report the frame index and the
// byte offset of its prefix, so a damaged recording can be cut at the last
// good frame.
package transport
