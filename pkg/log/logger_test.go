package log

import (
	"testing"
	"time"
)

func TestNoopLoggerDoesNotPanic(t *testing.T) {
	logger := NoopLogger{}

	logger.Log(Event{
		Timestamp: time.Now(),
		Direction: DirectionRead,
		Register:  0x05,
	})
	logger.Log(Event{
		Timestamp: time.Now(),
		Direction: DirectionWrite,
		Register:  0x05,
		Value:     0x1E,
		Error:     "nack",
	})
}

func TestNoopLoggerIsZeroValue(t *testing.T) {
	var logger NoopLogger
	logger.Log(Event{})
}

func TestDirectionString(t *testing.T) {
	tests := []struct {
		d    Direction
		want string
	}{
		{DirectionRead, "READ"},
		{DirectionWrite, "WRITE"},
		{Direction(9), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.d.String(); got != tt.want {
			t.Errorf("Direction(%d).String() = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestEventFailed(t *testing.T) {
	if (Event{}).Failed() {
		t.Error("event without error reported as failed")
	}
	if !(Event{Error: "i/o timeout"}).Failed() {
		t.Error("event with error not reported as failed")
	}
}

func TestEncodeDecodeEvent(t *testing.T) {
	event := Event{
		Timestamp: time.Date(2026, 10, 14, 9, 30, 0, 123456789, time.UTC),
		SessionID: "b6f1c8a2",
		Direction: DirectionWrite,
		Register:  0x07,
		Value:     0xC2,
		Operation: "SetAGCMaxGain",
	}

	data, err := EncodeEvent(event)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if !decoded.Timestamp.Equal(event.Timestamp) {
		t.Errorf("Timestamp: got %v, want %v", decoded.Timestamp, event.Timestamp)
	}
	if decoded.Register != event.Register || decoded.Value != event.Value {
		t.Errorf("register/value: got %#x=%#x, want %#x=%#x",
			decoded.Register, decoded.Value, event.Register, event.Value)
	}
	if decoded.Operation != event.Operation {
		t.Errorf("Operation: got %q, want %q", decoded.Operation, event.Operation)
	}
}

func TestDecodeEventRejectsGarbage(t *testing.T) {
	if _, err := DecodeEvent([]byte{0xFF, 0x00}); err == nil {
		t.Error("expected error decoding garbage")
	}
}
