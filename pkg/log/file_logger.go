package log

import (
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// FileLogger appends transaction events to a file in CBOR format.
// It is safe for concurrent use from multiple goroutines.
type FileLogger struct {
	file    *os.File
	encoder *cbor.Encoder

	mu      sync.Mutex
	closed  bool
	written int
	dropped int
}

// NewFileLogger opens path for appending, creating it with permissions
// 0644 if needed.
func NewFileLogger(path string) (*FileLogger, error) {
	return openFileLogger(path, os.O_APPEND)
}

// CreateFileLogger creates path, truncating any existing trace.
func CreateFileLogger(path string) (*FileLogger, error) {
	return openFileLogger(path, os.O_TRUNC)
}

func openFileLogger(path string, mode int) (*FileLogger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|mode, 0644)
	if err != nil {
		return nil, err
	}
	return &FileLogger{
		file:    f,
		encoder: NewEncoder(f),
	}, nil
}

// Log appends an event. Events logged after Close are ignored.
func (l *FileLogger) Log(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}

	// Capture must never fail a bus transaction; count the loss instead.
	if err := l.encoder.Encode(event); err != nil {
		l.dropped++
		return
	}
	l.written++
}

// Stats returns how many events were written and how many failed to encode.
func (l *FileLogger) Stats() (written, dropped int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.written, l.dropped
}

// Close closes the trace file. It is safe to call Close multiple times.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}

	l.closed = true
	return l.file.Close()
}

// Compile-time interface satisfaction check.
var _ Logger = (*FileLogger)(nil)
