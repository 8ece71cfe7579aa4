package log

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
)

// CompressedSuffix marks capture files written through zstd.
const CompressedSuffix = ".zst"

// FileLogger writes capture events to a file in CBOR format.
// It is safe for concurrent use from multiple goroutines.
type FileLogger struct {
	file    *os.File
	zw      *zstd.Encoder // nil for uncompressed files
	encoder *cbor.Encoder
	mu      sync.Mutex
	closed  bool
}

// NewFileLogger creates a FileLogger writing to path. Events are appended if
// the file exists; it is created with permissions 0644 otherwise. A path
// ending in ".zst" is compressed, each logger session adding one zstd frame.
func NewFileLogger(path string) (*FileLogger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}

	l := &FileLogger{file: f}
	var w io.Writer = f
	if strings.HasSuffix(path, CompressedSuffix) {
		l.zw, err = zstd.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		w = l.zw
	}
	l.encoder = NewEncoder(w)
	return l, nil
}

// Log writes an event to the capture file.
func (l *FileLogger) Log(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}

	// Capture must not disrupt the codec path; encoding errors are dropped.
	_ = l.encoder.Encode(event)
}

// Close flushes and closes the capture file. It is safe to call Close
// multiple times; later Log calls are ignored.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true

	if l.zw != nil {
		if err := l.zw.Close(); err != nil {
			l.file.Close()
			return err
		}
	}
	return l.file.Close()
}

var _ Logger = (*FileLogger)(nil)
