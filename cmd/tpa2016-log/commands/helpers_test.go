package commands

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/mash-protocol/tpa2016-go/pkg/log"
)

var t0 = time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)

// sampleEvents is a short session: SetGain, a limiter RMW and a failed read.
func sampleEvents() []log.Event {
	return []log.Event{
		{Timestamp: t0, SessionID: "aaaaaaaa-1111", Direction: log.DirectionWrite, Register: 0x05, Value: 0x0A, Operation: "SetGain"},
		{Timestamp: t0.Add(time.Millisecond), SessionID: "aaaaaaaa-1111", Direction: log.DirectionRead, Register: 0x06, Value: 0x80, Operation: "SetLimitLevelOn"},
		{Timestamp: t0.Add(2 * time.Millisecond), SessionID: "aaaaaaaa-1111", Direction: log.DirectionWrite, Register: 0x06, Value: 0x00, Operation: "SetLimitLevelOn"},
		{Timestamp: t0.Add(3 * time.Second), SessionID: "bbbbbbbb-2222", Direction: log.DirectionRead, Register: 0x01, Operation: "Faults", Error: "i2c-1: remote I/O error"},
	}
}

func writeTrace(t *testing.T, events []log.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "amp.trace")
	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	return path
}
