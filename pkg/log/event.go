package log

import (
	"time"
)

// Event is one captured codec operation.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID groups the events of one codec session (UUID).
	SessionID string `cbor:"2,keyasint"`

	// Direction is In for decode and Out for encode.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// Entity is the schema name, e.g. "SceneItem". Empty at the transport layer.
	Entity string `cbor:"6,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Payload *PayloadEvent   `cbor:"7,keyasint,omitempty"`
	Error   *ErrorEventData `cbor:"8,keyasint,omitempty"`
}

// Direction indicates the direction of the operation.
type Direction uint8

const (
	// DirectionIn indicates decoding received bytes.
	DirectionIn Direction = 0
	// DirectionOut indicates encoding bytes to send.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which layer captured the event.
type Layer uint8

const (
	// LayerTransport is the framing layer (raw frames).
	LayerTransport Layer = 0
	// LayerWire is bytes to wire.Value and back.
	LayerWire Layer = 1
	// LayerEntity is wire.Value to typed entity and back.
	LayerEntity Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerTransport:
		return "TRANSPORT"
	case LayerWire:
		return "WIRE"
	case LayerEntity:
		return "ENTITY"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryMessage indicates a successful decode or encode.
	CategoryMessage Category = 0
	// CategoryError indicates a failed decode or encode.
	CategoryError Category = 1
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryMessage:
		return "MESSAGE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// PayloadEvent describes the bytes involved in an operation.
type PayloadEvent struct {
	// Size is the payload size in bytes.
	Size int `cbor:"1,keyasint"`

	// Data is the raw payload (may be truncated for large payloads).
	Data []byte `cbor:"2,keyasint,omitempty"`

	// Truncated indicates if Data was truncated.
	Truncated bool `cbor:"3,keyasint,omitempty"`

	// Duration of the operation. Stored as nanoseconds.
	Duration time.Duration `cbor:"4,keyasint,omitempty"`
}

// ErrorEventData captures a failed operation.
type ErrorEventData struct {
	// Kind is the classified failure.
	Kind ErrorKind `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Field is the wire key being processed, if known.
	Field string `cbor:"3,keyasint,omitempty"`

	// Offset is the byte offset of malformed data, if known.
	Offset *int `cbor:"4,keyasint,omitempty"`
}

// MaxPayloadDataSize bounds the bytes copied into PayloadEvent.Data.
const MaxPayloadDataSize = 4096

// NewPayloadEvent describes data, keeping at most MaxPayloadDataSize bytes.
func NewPayloadEvent(data []byte, d time.Duration) *PayloadEvent {
	p := &PayloadEvent{Size: len(data), Duration: d}
	if len(data) > MaxPayloadDataSize {
		data = data[:MaxPayloadDataSize]
		p.Truncated = true
	}
	p.Data = append([]byte(nil), data...)
	return p
}
