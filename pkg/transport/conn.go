package transport

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"time"
)

// Conn is the message-oriented transport the codec layer consumes. Each
// message is one complete MessagePack payload.
type Conn interface {
	// ReadMessage blocks until a message arrives or ctx is done.
	// It returns io.EOF when the peer has no more messages.
	ReadMessage(ctx context.Context) ([]byte, error)

	// WriteMessage sends one message.
	WriteMessage(ctx context.Context, data []byte) error

	// Close releases the connection.
	Close() error
}

// Connection errors.
var (
	// ErrClosed indicates the connection was closed locally.
	ErrClosed = errors.New("connection closed")

	// ErrReadOnly indicates a write to a replay-only connection.
	ErrReadOnly = errors.New("connection is read-only")

	// ErrWriteOnly indicates a read from a record-only connection.
	ErrWriteOnly = errors.New("connection is write-only")
)

type deadliner interface {
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
}

// StreamConn frames messages over a byte stream such as a net.Conn.
// If the stream supports deadlines, context cancellation interrupts
// blocked reads and writes.
type StreamConn struct {
	rwc    io.ReadWriteCloser
	reader *FrameReader
	writer *FrameWriter
	dl     deadliner

	closeOnce sync.Once
	closeErr  error
}

// NewStreamConn wraps rwc. The StreamConn owns rwc and closes it on Close.
// The options apply to both directions.
func NewStreamConn(rwc io.ReadWriteCloser, opts ...FrameOption) *StreamConn {
	c := &StreamConn{
		rwc:    rwc,
		reader: NewFrameReader(rwc, opts...),
		writer: NewFrameWriter(rwc, opts...),
	}
	c.dl, _ = rwc.(deadliner)
	return c
}

// ReadMessage reads the next frame.
func (c *StreamConn) ReadMessage(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.dl != nil {
		release, err := watchContext(ctx, c.dl.SetReadDeadline)
		if err != nil {
			return nil, err
		}
		defer release()
	}

	data, err := c.reader.ReadFrame()
	if err != nil {
		return nil, contextErr(ctx, err)
	}
	return data, nil
}

// WriteMessage writes data as one frame.
func (c *StreamConn) WriteMessage(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.dl != nil {
		release, err := watchContext(ctx, c.dl.SetWriteDeadline)
		if err != nil {
			return err
		}
		defer release()
	}

	if err := c.writer.WriteFrame(data); err != nil {
		return contextErr(ctx, err)
	}
	return nil
}

// watchContext applies the ctx deadline through set and expires the stream
// when ctx is cancelled. The returned release clears the deadline once any
// pending cancellation callback has finished, so the next call starts clean.
func watchContext(ctx context.Context, set func(time.Time) error) (func(), error) {
	if d, ok := ctx.Deadline(); ok {
		if err := set(d); err != nil {
			return nil, err
		}
	}
	fired := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		_ = set(time.Unix(1, 0))
		close(fired)
	})
	return func() {
		if !stop() {
			<-fired
		}
		_ = set(time.Time{})
	}, nil
}

// contextErr reports the context error behind a deadline-interrupted I/O
// error. The stream deadline can fire before the context's own timer.
func contextErr(ctx context.Context, err error) error {
	if cerr := ctx.Err(); cerr != nil {
		return cerr
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		if d, ok := ctx.Deadline(); ok && !time.Now().Before(d) {
			return context.DeadlineExceeded
		}
	}
	return err
}

// Close closes the underlying stream. It is safe to call more than once.
func (c *StreamConn) Close() error {
	c.closeOnce.Do(func() { c.closeErr = c.rwc.Close() })
	return c.closeErr
}

// FileConn replays messages from a framed capture file, or records
// messages into one. A FileConn opened for replay rejects writes and one
// created for recording rejects reads.
type FileConn struct {
	mu     sync.Mutex
	file   *os.File
	reader *FrameReader
	writer *FrameWriter
	closed bool
}

// OpenFileConn opens a recording for replay.
func OpenFileConn(path string, opts ...FrameOption) (*FileConn, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &FileConn{file: f, reader: NewFrameReader(f, opts...)}, nil
}

// CreateFileConn creates (or truncates) a recording.
func CreateFileConn(path string, opts ...FrameOption) (*FileConn, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &FileConn{file: f, writer: NewFrameWriter(f, opts...)}, nil
}

// ReadMessage returns the next recorded message, or io.EOF after the last.
func (c *FileConn) ReadMessage(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.closed:
		return nil, ErrClosed
	case c.reader == nil:
		return nil, ErrWriteOnly
	}
	return c.reader.ReadFrame()
}

// WriteMessage appends data to the capture file.
func (c *FileConn) WriteMessage(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.closed:
		return ErrClosed
	case c.writer == nil:
		return ErrReadOnly
	}
	return c.writer.WriteFrame(data)
}

// Close closes the capture file. It is safe to call more than once.
func (c *FileConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	return c.file.Close()
}

// Compile-time interface satisfaction checks.
var (
	_ Conn = (*StreamConn)(nil)
	_ Conn = (*FileConn)(nil)
)
