package transport

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/strawket/strawket-go/pkg/log"
	"github.com/strawket/strawket-go/pkg/wire"
)

func scenePayload(name string) []byte {
	return wire.MustEncode(wire.Map(
		wire.Pair{Key: "sceneName", Value: wire.String(name)},
		wire.Pair{Key: "sceneIndex", Value: wire.Int(0)},
	))
}

func TestFrameRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
	}{
		{"single byte", []byte{0xc0}},
		{"scene", scenePayload("Intro")},
		{"large", bytes.Repeat([]byte{0x90}, 70000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := new(bytes.Buffer)
			if err := NewFrameWriter(buf).WriteFrame(tt.payload); err != nil {
				t.Fatalf("WriteFrame failed: %v", err)
			}
			if buf.Len() != FrameSize(len(tt.payload)) {
				t.Errorf("frame size = %d, want %d", buf.Len(), FrameSize(len(tt.payload)))
			}

			got, err := NewFrameReader(buf).ReadFrame()
			if err != nil {
				t.Fatalf("ReadFrame failed: %v", err)
			}
			if !bytes.Equal(got, tt.payload) {
				t.Errorf("payload mismatch: got %d bytes, want %d", len(got), len(tt.payload))
			}
		})
	}
}

func TestFrameWriterRejects(t *testing.T) {
	w := NewFrameWriter(new(bytes.Buffer), WithMaxSize(8))

	if err := w.WriteFrame(nil); !errors.Is(err, ErrMessageEmpty) {
		t.Errorf("nil payload: got %v, want ErrMessageEmpty", err)
	}
	if err := w.WriteFrame(make([]byte, 9)); !errors.Is(err, ErrMessageTooLarge) {
		t.Errorf("oversized payload: got %v, want ErrMessageTooLarge", err)
	}
}

func lengthPrefix(n uint32) []byte {
	var b [LengthPrefixSize]byte
	binary.BigEndian.PutUint32(b[:], n)
	return b[:]
}

func TestFrameReaderErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		maxSize uint32
		wantErr error
	}{
		{"clean EOF", nil, DefaultMaxMessageSize, io.EOF},
		{"truncated prefix", []byte{0x00, 0x01}, DefaultMaxMessageSize, ErrFrameTruncated},
		{"zero length", lengthPrefix(0), DefaultMaxMessageSize, ErrMessageEmpty},
		{"too large", append(lengthPrefix(100), make([]byte, 100)...), 10, ErrMessageTooLarge},
		{"truncated payload", append(lengthPrefix(100), make([]byte, 50)...), DefaultMaxMessageSize, ErrFrameTruncated},
		{"prefix only", lengthPrefix(3), DefaultMaxMessageSize, ErrFrameTruncated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFrameReader(bytes.NewReader(tt.data), WithMaxSize(tt.maxSize)).ReadFrame()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFrameSequence(t *testing.T) {
	buf := new(bytes.Buffer)
	w := NewFrameWriter(buf)
	names := []string{"Intro", "Main", "Outro"}
	for _, n := range names {
		if err := w.WriteFrame(scenePayload(n)); err != nil {
			t.Fatalf("WriteFrame failed: %v", err)
		}
	}

	r := NewFrameReader(buf)
	for _, n := range names {
		data, err := r.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame failed: %v", err)
		}
		v, err := wire.Decode(data)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		got, _ := v.Get("sceneName")
		if s, _ := got.AsString(); s != n {
			t.Errorf("sceneName = %q, want %q", s, n)
		}
	}
	if _, err := r.ReadFrame(); err != io.EOF {
		t.Errorf("expected io.EOF after last frame, got %v", err)
	}
}

type capturingLogger struct {
	mu     sync.Mutex
	events []log.Event
}

func (l *capturingLogger) Log(event log.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
}

func (l *capturingLogger) Events() []log.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]log.Event(nil), l.events...)
}

func TestFrameCaptureBothDirections(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := &capturingLogger{}
	capture := WithCapture(logger, "sess-9")

	payload := scenePayload("Intro")
	if err := NewFrameWriter(buf, capture).WriteFrame(payload); err != nil {
		t.Fatalf("WriteFrame failed: %v", err)
	}
	if _, err := NewFrameReader(buf, capture).ReadFrame(); err != nil {
		t.Fatalf("ReadFrame failed: %v", err)
	}

	events := logger.Events()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	wantDir := []log.Direction{log.DirectionOut, log.DirectionIn}
	for i, e := range events {
		if e.SessionID != "sess-9" {
			t.Errorf("event %d: SessionID = %q", i, e.SessionID)
		}
		if e.Direction != wantDir[i] {
			t.Errorf("event %d: Direction = %v, want %v", i, e.Direction, wantDir[i])
		}
		if e.Layer != log.LayerTransport {
			t.Errorf("event %d: Layer = %v", i, e.Layer)
		}
		if e.Payload == nil || !bytes.Equal(e.Payload.Data, payload) {
			t.Errorf("event %d: payload not captured", i)
		}
	}
}

func TestFrameErrorLocatesFrame(t *testing.T) {
	buf := new(bytes.Buffer)
	w := NewFrameWriter(buf)
	first, second := scenePayload("Intro"), scenePayload("Main")
	for _, p := range [][]byte{first, second} {
		if err := w.WriteFrame(p); err != nil {
			t.Fatalf("WriteFrame failed: %v", err)
		}
	}
	if w.Frames() != 2 {
		t.Errorf("Frames() = %d, want 2", w.Frames())
	}

	// Cut the recording inside the second payload.
	data := buf.Bytes()[:FrameSize(len(first))+LengthPrefixSize+3]
	r := NewFrameReader(bytes.NewReader(data))
	if _, err := r.ReadFrame(); err != nil {
		t.Fatalf("first frame: %v", err)
	}
	if r.Offset() != int64(FrameSize(len(first))) {
		t.Errorf("Offset() = %d, want %d", r.Offset(), FrameSize(len(first)))
	}

	_, err := r.ReadFrame()
	var fe *FrameError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FrameError, got %v", err)
	}
	if fe.Index != 1 || fe.Offset != int64(FrameSize(len(first))) {
		t.Errorf("FrameError = {Index: %d, Offset: %d}, want {1, %d}", fe.Index, fe.Offset, FrameSize(len(first)))
	}
	if !errors.Is(err, ErrFrameTruncated) {
		t.Errorf("expected ErrFrameTruncated, got %v", err)
	}
	if r.Frames() != 1 {
		t.Errorf("Frames() = %d, want 1", r.Frames())
	}
}

// chunkRecorder remembers the size of every Write call.
type chunkRecorder struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	chunks []int
}

func (c *chunkRecorder) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.chunks = append(c.chunks, len(p))
	return c.buf.Write(p)
}

func TestFrameWriterSingleWritePerFrame(t *testing.T) {
	rec := &chunkRecorder{}
	w := NewFrameWriter(rec)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := w.WriteFrame(scenePayload("Concurrent")); err != nil {
				t.Errorf("WriteFrame failed: %v", err)
			}
		}()
	}
	wg.Wait()

	want := FrameSize(len(scenePayload("Concurrent")))
	if len(rec.chunks) != 8 {
		t.Fatalf("got %d writes, want 8", len(rec.chunks))
	}
	for i, n := range rec.chunks {
		if n != want {
			t.Errorf("write %d: %d bytes, want %d", i, n, want)
		}
	}

	r := NewFrameReader(&rec.buf)
	for i := 0; i < 8; i++ {
		if _, err := r.ReadFrame(); err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
	}
}

func BenchmarkFrameRead(b *testing.B) {
	buf := new(bytes.Buffer)
	w := NewFrameWriter(buf)
	payload := scenePayload("Benchmark")
	for i := 0; i < 1000; i++ {
		w.WriteFrame(payload)
	}
	data := buf.Bytes()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r := NewFrameReader(bytes.NewReader(data))
		for {
			if _, err := r.ReadFrame(); err == io.EOF {
				break
			} else if err != nil {
				b.Fatal(err)
			}
		}
	}
}
