package log

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestFileLoggerCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "amp.trace")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	defer logger.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("trace file was not created")
	}
}

func TestFileLoggerWritesCBOR(t *testing.T) {
	path := filepath.Join(t.TempDir(), "amp.trace")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	event := Event{
		Timestamp: time.Now(),
		SessionID: "sess-1",
		Direction: DirectionRead,
		Register:  0x06,
		Value:     0x3A,
	}
	logger.Log(event)
	logger.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read trace file: %v", err)
	}
	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("failed to decode event: %v", err)
	}
	if decoded.SessionID != event.SessionID {
		t.Errorf("SessionID: got %q, want %q", decoded.SessionID, event.SessionID)
	}
	if decoded.Value != event.Value {
		t.Errorf("Value: got %#x, want %#x", decoded.Value, event.Value)
	}
}

func TestFileLoggerAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "amp.trace")

	for _, session := range []string{"first", "second"} {
		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("NewFileLogger failed: %v", err)
		}
		logger.Log(Event{Timestamp: time.Now(), SessionID: session})
		logger.Close()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read trace file: %v", err)
	}

	decoder := NewDecoder(bytes.NewReader(data))
	var sessions []string
	for {
		var event Event
		if err := decoder.Decode(&event); err != nil {
			break
		}
		sessions = append(sessions, event.SessionID)
	}

	if len(sessions) != 2 || sessions[0] != "first" || sessions[1] != "second" {
		t.Errorf("sessions = %v, want [first second]", sessions)
	}
}

func TestFileLoggerThreadSafe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "amp.trace")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	const numGoroutines = 8
	const eventsPerGoroutine = 50

	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < eventsPerGoroutine; j++ {
				logger.Log(Event{Timestamp: time.Now(), Register: uint8(id), Value: uint8(j)})
			}
		}(i)
	}
	wg.Wait()

	written, dropped := logger.Stats()
	logger.Close()

	if written != numGoroutines*eventsPerGoroutine {
		t.Errorf("written = %d, want %d", written, numGoroutines*eventsPerGoroutine)
	}
	if dropped != 0 {
		t.Errorf("dropped = %d, want 0", dropped)
	}

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	events, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(events) != numGoroutines*eventsPerGoroutine {
		t.Errorf("event count: got %d, want %d", len(events), numGoroutines*eventsPerGoroutine)
	}
}

func TestFileLoggerClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "amp.trace")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	logger.Log(Event{Timestamp: time.Now()})

	if err := logger.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}

	// Logging after close is ignored.
	logger.Log(Event{Timestamp: time.Now()})

	written, _ := logger.Stats()
	if written != 1 {
		t.Errorf("written = %d, want 1", written)
	}
}

func TestFileLoggerBadPath(t *testing.T) {
	_, err := NewFileLogger(filepath.Join(t.TempDir(), "missing", "amp.trace"))
	if err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestCreateFileLoggerTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "amp.trace")

	for _, session := range []string{"first", "second"} {
		logger, err := CreateFileLogger(path)
		if err != nil {
			t.Fatalf("CreateFileLogger failed: %v", err)
		}
		logger.Log(Event{Timestamp: time.Now(), SessionID: session})
		logger.Close()
	}

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	events, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(events) != 1 || events[0].SessionID != "second" {
		t.Errorf("events = %+v, want only the second session", events)
	}
}
