package log

import (
	"io"
	"path/filepath"
	"testing"
	"time"
)

func createTestTrace(t *testing.T, events []Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.trace")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create test trace: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

func readFiltered(t *testing.T, path string, filter Filter) []Event {
	t.Helper()
	reader, err := NewFilteredReader(path, filter)
	if err != nil {
		t.Fatalf("NewFilteredReader failed: %v", err)
	}
	defer reader.Close()

	events, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	return events
}

func sampleEvents(base time.Time) []Event {
	return []Event{
		{Timestamp: base, SessionID: "A", Direction: DirectionRead, Register: 0x01, Value: 0xC3, Operation: "EnableChannel"},
		{Timestamp: base.Add(1 * time.Second), SessionID: "A", Direction: DirectionWrite, Register: 0x01, Value: 0x83, Operation: "EnableChannel"},
		{Timestamp: base.Add(2 * time.Second), SessionID: "B", Direction: DirectionWrite, Register: 0x05, Value: 0x1E, Operation: "SetGain"},
		{Timestamp: base.Add(3 * time.Second), SessionID: "B", Direction: DirectionRead, Register: 0x07, Operation: "SetAGCMaxGain", Error: "nack"},
	}
}

func TestReaderIteratesEvents(t *testing.T) {
	path := createTestTrace(t, sampleEvents(time.Now()))

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	var read []Event
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		read = append(read, event)
	}

	if len(read) != 4 {
		t.Fatalf("got %d events, want 4", len(read))
	}
	if read[0].Operation != "EnableChannel" || read[3].Operation != "SetAGCMaxGain" {
		t.Errorf("unexpected order: first %q, last %q", read[0].Operation, read[3].Operation)
	}
}

func TestReaderHandlesEmptyFile(t *testing.T) {
	path := createTestTrace(t, nil)

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	if event, err := reader.Next(); err != io.EOF {
		t.Errorf("expected io.EOF, got err=%v, event=%+v", err, event)
	}
}

func TestReaderMissingFile(t *testing.T) {
	if _, err := NewReader(filepath.Join(t.TempDir(), "nope.trace")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestReaderFilterBySession(t *testing.T) {
	path := createTestTrace(t, sampleEvents(time.Now()))

	events := readFiltered(t, path, Filter{SessionID: "B"})
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	for _, e := range events {
		if e.SessionID != "B" {
			t.Errorf("event has SessionID=%q, want %q", e.SessionID, "B")
		}
	}
}

func TestReaderFilterByDirection(t *testing.T) {
	path := createTestTrace(t, sampleEvents(time.Now()))

	dir := DirectionWrite
	events := readFiltered(t, path, Filter{Direction: &dir})
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
}

func TestReaderFilterByRegister(t *testing.T) {
	path := createTestTrace(t, sampleEvents(time.Now()))

	reg := uint8(0x01)
	events := readFiltered(t, path, Filter{Register: &reg})
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
}

func TestReaderFilterErrorsOnly(t *testing.T) {
	path := createTestTrace(t, sampleEvents(time.Now()))

	events := readFiltered(t, path, Filter{ErrorsOnly: true})
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Error != "nack" {
		t.Errorf("Error = %q, want %q", events[0].Error, "nack")
	}
}

func TestReaderFilterByTimeRange(t *testing.T) {
	base := time.Now()
	path := createTestTrace(t, sampleEvents(base))

	start := base.Add(1 * time.Second)
	end := base.Add(3 * time.Second)
	events := readFiltered(t, path, Filter{TimeStart: &start, TimeEnd: &end})
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
}

func TestReaderCombinedFilter(t *testing.T) {
	path := createTestTrace(t, sampleEvents(time.Now()))

	dir := DirectionRead
	events := readFiltered(t, path, Filter{SessionID: "A", Direction: &dir, Operation: "EnableChannel"})
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
}
