package log

import (
	"testing"
	"time"
)

func TestEventCBORRoundTrip(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 123456789, time.UTC)
	off := 12
	original := Event{
		Timestamp: ts,
		SessionID: "abc12345-def6-7890-abcd-ef1234567890",
		Direction: DirectionIn,
		Layer:     LayerEntity,
		Category:  CategoryError,
		Entity:    "SceneItem",
		Payload: &PayloadEvent{
			Size:     42,
			Data:     []byte{0x81, 0xa1, 'a', 0x01},
			Duration: 1500 * time.Nanosecond,
		},
		Error: &ErrorEventData{
			Kind:    ErrorKindMalformed,
			Message: "malformed wire data at offset 12: unexpected EOF",
			Offset:  &off,
		},
	}

	data, err := EncodeEvent(original)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if !decoded.Timestamp.Equal(original.Timestamp) {
		t.Errorf("Timestamp: got %v, want %v", decoded.Timestamp, original.Timestamp)
	}
	if decoded.SessionID != original.SessionID {
		t.Errorf("SessionID: got %q, want %q", decoded.SessionID, original.SessionID)
	}
	if decoded.Direction != original.Direction {
		t.Errorf("Direction: got %v, want %v", decoded.Direction, original.Direction)
	}
	if decoded.Layer != original.Layer {
		t.Errorf("Layer: got %v, want %v", decoded.Layer, original.Layer)
	}
	if decoded.Category != original.Category {
		t.Errorf("Category: got %v, want %v", decoded.Category, original.Category)
	}
	if decoded.Entity != original.Entity {
		t.Errorf("Entity: got %q, want %q", decoded.Entity, original.Entity)
	}
	if decoded.Payload == nil {
		t.Fatal("Payload is nil")
	}
	if decoded.Payload.Size != 42 || decoded.Payload.Duration != original.Payload.Duration {
		t.Errorf("Payload: got %+v, want %+v", decoded.Payload, original.Payload)
	}
	if string(decoded.Payload.Data) != string(original.Payload.Data) {
		t.Errorf("Payload.Data: got %x, want %x", decoded.Payload.Data, original.Payload.Data)
	}
	if decoded.Error == nil {
		t.Fatal("Error is nil")
	}
	if decoded.Error.Kind != ErrorKindMalformed {
		t.Errorf("Error.Kind: got %v, want %v", decoded.Error.Kind, ErrorKindMalformed)
	}
	if decoded.Error.Offset == nil || *decoded.Error.Offset != 12 {
		t.Errorf("Error.Offset: got %v, want 12", decoded.Error.Offset)
	}
}

func TestEventOmitsEmptyPayloads(t *testing.T) {
	data, err := EncodeEvent(Event{Timestamp: time.Unix(0, 0).UTC(), SessionID: "s"})
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}
	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}
	if decoded.Payload != nil || decoded.Error != nil {
		t.Errorf("expected nil payloads, got %+v", decoded)
	}
}

func TestEnumStrings(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{DirectionIn.String(), "IN"},
		{DirectionOut.String(), "OUT"},
		{Direction(9).String(), "UNKNOWN"},
		{LayerTransport.String(), "TRANSPORT"},
		{LayerWire.String(), "WIRE"},
		{LayerEntity.String(), "ENTITY"},
		{CategoryMessage.String(), "MESSAGE"},
		{CategoryError.String(), "ERROR"},
		{ErrorKindTypeMismatch.String(), "TYPE_MISMATCH"},
		{ErrorKindOther.String(), "OTHER"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func TestNewPayloadEventTruncates(t *testing.T) {
	small := NewPayloadEvent([]byte{1, 2, 3}, time.Millisecond)
	if small.Size != 3 || small.Truncated || len(small.Data) != 3 {
		t.Errorf("small payload: %+v", small)
	}

	big := make([]byte, MaxPayloadDataSize+10)
	p := NewPayloadEvent(big, 0)
	if p.Size != len(big) {
		t.Errorf("Size: got %d, want %d", p.Size, len(big))
	}
	if !p.Truncated || len(p.Data) != MaxPayloadDataSize {
		t.Errorf("expected truncation to %d bytes, got %d (truncated=%v)", MaxPayloadDataSize, len(p.Data), p.Truncated)
	}
}
