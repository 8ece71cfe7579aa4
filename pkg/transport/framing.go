package transport

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/strawket/strawket-go/pkg/log"
)

const (
	// LengthPrefixSize is the size of the big-endian length prefix.
	LengthPrefixSize = 4

	// DefaultMaxMessageSize bounds a single payload. Scene lists with large
	// filter settings run into the megabytes.
	DefaultMaxMessageSize = 16 << 20
)

var (
	ErrMessageTooLarge = errors.New("message too large")
	ErrMessageEmpty    = errors.New("message is empty")
	ErrFrameTruncated  = errors.New("frame truncated")
)

// FrameError locates a framing failure within a stream or recording.
type FrameError struct {
	// Index is the zero-based number of the failing frame.
	Index int
	// Offset is the stream position of the frame's length prefix.
	Offset int64
	Err    error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %d at byte %d: %v", e.Index, e.Offset, e.Err)
}

func (e *FrameError) Unwrap() error { return e.Err }

// FrameSize returns the encoded size of a frame carrying payloadSize bytes.
func FrameSize(payloadSize int) int {
	return LengthPrefixSize + payloadSize
}

// FrameOption configures a FrameReader or FrameWriter.
type FrameOption func(*frameConfig)

type frameConfig struct {
	maxSize   uint32
	logger    log.Logger
	sessionID string
}

func newFrameConfig(opts []FrameOption) frameConfig {
	cfg := frameConfig{maxSize: DefaultMaxMessageSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithMaxSize sets the largest accepted payload.
func WithMaxSize(n uint32) FrameOption {
	return func(c *frameConfig) { c.maxSize = n }
}

// WithCapture logs every frame as a transport-layer event.
func WithCapture(logger log.Logger, sessionID string) FrameOption {
	return func(c *frameConfig) {
		c.logger = logger
		c.sessionID = sessionID
	}
}

func (c *frameConfig) capture(data []byte, dir log.Direction) {
	if c.logger == nil {
		return
	}
	c.logger.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: c.sessionID,
		Direction: dir,
		Layer:     log.LayerTransport,
		Category:  log.CategoryMessage,
		Payload:   log.NewPayloadEvent(data, 0),
	})
}

// FrameWriter writes length-prefixed payloads. Each frame reaches the
// underlying writer in a single Write, so concurrent writers never
// interleave.
type FrameWriter struct {
	mu     sync.Mutex
	w      io.Writer
	cfg    frameConfig
	buf    []byte
	frames int
	offset int64
}

// NewFrameWriter returns a FrameWriter on w.
func NewFrameWriter(w io.Writer, opts ...FrameOption) *FrameWriter {
	return &FrameWriter{w: w, cfg: newFrameConfig(opts)}
}

// WriteFrame writes data as one frame.
func (fw *FrameWriter) WriteFrame(data []byte) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	fail := func(err error) error {
		return &FrameError{Index: fw.frames, Offset: fw.offset, Err: err}
	}
	switch {
	case len(data) == 0:
		return fail(ErrMessageEmpty)
	case uint64(len(data)) > uint64(fw.cfg.maxSize):
		return fail(fmt.Errorf("%w: %d > %d", ErrMessageTooLarge, len(data), fw.cfg.maxSize))
	}

	fw.buf = binary.BigEndian.AppendUint32(fw.buf[:0], uint32(len(data)))
	fw.buf = append(fw.buf, data...)
	n, err := fw.w.Write(fw.buf)
	fw.offset += int64(n)
	if err != nil {
		return fail(err)
	}

	fw.frames++
	fw.cfg.capture(data, log.DirectionOut)
	return nil
}

// Frames returns the number of frames written.
func (fw *FrameWriter) Frames() int {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	return fw.frames
}

// FrameReader reads length-prefixed payloads. It is not safe for
// concurrent use.
type FrameReader struct {
	r      io.Reader
	cfg    frameConfig
	prefix [LengthPrefixSize]byte
	frames int
	offset int64
}

// NewFrameReader returns a FrameReader on r.
func NewFrameReader(r io.Reader, opts ...FrameOption) *FrameReader {
	return &FrameReader{r: r, cfg: newFrameConfig(opts)}
}

// ReadFrame returns the next payload. It returns a bare io.EOF only at a
// frame boundary; every other failure is a *FrameError.
func (fr *FrameReader) ReadFrame() ([]byte, error) {
	start := fr.offset
	fail := func(err error) error {
		return &FrameError{Index: fr.frames, Offset: start, Err: err}
	}

	n, err := io.ReadFull(fr.r, fr.prefix[:])
	fr.offset += int64(n)
	switch {
	case err == io.EOF:
		return nil, io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		return nil, fail(ErrFrameTruncated)
	case err != nil:
		return nil, fail(fmt.Errorf("failed to read length prefix: %w", err))
	}

	length := binary.BigEndian.Uint32(fr.prefix[:])
	switch {
	case length == 0:
		return nil, fail(ErrMessageEmpty)
	case length > fr.cfg.maxSize:
		return nil, fail(fmt.Errorf("%w: %d > %d", ErrMessageTooLarge, length, fr.cfg.maxSize))
	}

	payload := make([]byte, length)
	n, err = io.ReadFull(fr.r, payload)
	fr.offset += int64(n)
	if err != nil {
		if err == io.EOF || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fail(ErrFrameTruncated)
		}
		return nil, fail(fmt.Errorf("failed to read payload: %w", err))
	}

	fr.frames++
	fr.cfg.capture(payload, log.DirectionIn)
	return payload, nil
}

// Frames returns the number of frames read.
func (fr *FrameReader) Frames() int { return fr.frames }

// Offset returns the stream position after the last byte consumed.
func (fr *FrameReader) Offset() int64 { return fr.offset }
