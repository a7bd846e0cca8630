package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/mash-protocol/tpa2016-go/pkg/log"
)

func TestFormatEvent(t *testing.T) {
	event := log.Event{
		Timestamp: time.Date(2026, 10, 14, 10, 15, 32, 123456000, time.UTC),
		SessionID: "abc12345-6789-0123-4567-890abcdef012",
		Direction: log.DirectionWrite,
		Register:  0x05,
		Value:     0xE4,
		Operation: "SetGain",
	}

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	for _, want := range []string{
		"2026-10-14T10:15:32.123456Z",
		"[sess:abc12345]",
		"WRITE",
		"GAIN",
		"(0x05)",
		"= 0xE4",
		"11100100",
		"SetGain",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
	if strings.Contains(output, "ERROR") {
		t.Errorf("unexpected error marker: %s", output)
	}
}

func TestFormatEventError(t *testing.T) {
	event := log.Event{
		Timestamp: time.Now(),
		Direction: log.DirectionRead,
		Register:  0x01,
		Error:     "remote I/O error",
	}

	var buf bytes.Buffer
	formatEvent(&buf, event)

	if !strings.Contains(buf.String(), "ERROR: remote I/O error") {
		t.Errorf("expected error text, got: %s", buf.String())
	}
}

func TestRunView(t *testing.T) {
	path := writeTrace(t, sampleEvents())

	var buf bytes.Buffer
	if err := RunView(path, FilterOptions{}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}
	if lines := strings.Count(buf.String(), "\n"); lines != 4 {
		t.Errorf("got %d lines, want 4:\n%s", lines, buf.String())
	}
}

func TestRunViewFiltered(t *testing.T) {
	path := writeTrace(t, sampleEvents())

	var buf bytes.Buffer
	opts := FilterOptions{Direction: "write", Register: "AGC_LIMIT"}
	if err := RunView(path, opts, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}
	output := buf.String()
	if lines := strings.Count(output, "\n"); lines != 1 {
		t.Fatalf("got %d lines, want 1:\n%s", lines, output)
	}
	if !strings.Contains(output, "SetLimitLevelOn") {
		t.Errorf("expected limiter write, got: %s", output)
	}
}

func TestRunViewErrorsOnly(t *testing.T) {
	path := writeTrace(t, sampleEvents())

	var buf bytes.Buffer
	if err := RunView(path, FilterOptions{ErrorsOnly: true}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}
	if !strings.Contains(buf.String(), "[sess:bbbbbbbb]") || strings.Count(buf.String(), "\n") != 1 {
		t.Errorf("expected only the failed read, got: %s", buf.String())
	}
}

func TestRunViewBadFilter(t *testing.T) {
	path := writeTrace(t, sampleEvents())
	if err := RunView(path, FilterOptions{Direction: "sideways"}, &bytes.Buffer{}); err == nil {
		t.Error("expected error for invalid direction")
	}
}

func TestRunViewMissingFile(t *testing.T) {
	if err := RunView("/nonexistent/amp.trace", FilterOptions{}, &bytes.Buffer{}); err == nil {
		t.Error("expected error for missing file")
	}
}
