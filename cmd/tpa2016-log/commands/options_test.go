package commands

import (
	"testing"

	"github.com/mash-protocol/tpa2016-go/pkg/log"
)

func TestParseDirectionFlag(t *testing.T) {
	tests := []struct {
		in      string
		want    log.Direction
		wantErr bool
	}{
		{"read", log.DirectionRead, false},
		{"WRITE", log.DirectionWrite, false},
		{"w", log.DirectionWrite, false},
		{"in", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseDirectionFlag(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDirectionFlag(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDirectionFlag(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseRegisterFlag(t *testing.T) {
	tests := []struct {
		in      string
		want    uint8
		wantErr bool
	}{
		{"GAIN", 0x05, false},
		{"agc_limit", 0x06, false},
		{"0x07", 0x07, false},
		{"1", 0x01, false},
		{"0x100", 0, true},
		{"volume", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseRegisterFlag(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseRegisterFlag(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseRegisterFlag(%q) = %#x, want %#x", tt.in, got, tt.want)
		}
	}
}

func TestFilterOptionsInvalidTime(t *testing.T) {
	if _, err := (FilterOptions{TimeStart: "yesterday"}).Filter(); err == nil {
		t.Error("expected error for invalid time-start")
	}
	if _, err := (FilterOptions{TimeEnd: "2026-13-01"}).Filter(); err == nil {
		t.Error("expected error for invalid time-end")
	}
}

func TestShortenSessionID(t *testing.T) {
	if got := shortenSessionID("aaaaaaaa-1111"); got != "aaaaaaaa" {
		t.Errorf("shortenSessionID = %q, want aaaaaaaa", got)
	}
	if got := shortenSessionID(""); got != "-" {
		t.Errorf("shortenSessionID(\"\") = %q, want -", got)
	}
	if got := shortenSessionID("abc"); got != "abc" {
		t.Errorf("shortenSessionID(\"abc\") = %q, want abc", got)
	}
}
