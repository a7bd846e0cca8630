// Package commands implements the tpa2016-log CLI commands.
package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mash-protocol/tpa2016-go/pkg/log"
	"github.com/mash-protocol/tpa2016-go/pkg/tpa2016"
)

// FilterOptions holds the filter flags shared by every command.
type FilterOptions struct {
	SessionID  string
	Direction  string
	Register   string
	Operation  string
	ErrorsOnly bool
	TimeStart  string
	TimeEnd    string
}

// Filter converts the flag values into a log.Filter.
func (o FilterOptions) Filter() (log.Filter, error) {
	filter := log.Filter{
		SessionID:  o.SessionID,
		Operation:  o.Operation,
		ErrorsOnly: o.ErrorsOnly,
	}

	if o.Direction != "" {
		d, err := ParseDirectionFlag(o.Direction)
		if err != nil {
			return log.Filter{}, err
		}
		filter.Direction = &d
	}

	if o.Register != "" {
		r, err := ParseRegisterFlag(o.Register)
		if err != nil {
			return log.Filter{}, err
		}
		filter.Register = &r
	}

	if o.TimeStart != "" {
		t, err := time.Parse(time.RFC3339, o.TimeStart)
		if err != nil {
			return log.Filter{}, fmt.Errorf("invalid time-start format: %w", err)
		}
		filter.TimeStart = &t
	}

	if o.TimeEnd != "" {
		t, err := time.Parse(time.RFC3339, o.TimeEnd)
		if err != nil {
			return log.Filter{}, fmt.Errorf("invalid time-end format: %w", err)
		}
		filter.TimeEnd = &t
	}

	return filter, nil
}

// ParseDirectionFlag parses "read" or "write".
func ParseDirectionFlag(s string) (log.Direction, error) {
	switch strings.ToLower(s) {
	case "read", "r":
		return log.DirectionRead, nil
	case "write", "w":
		return log.DirectionWrite, nil
	default:
		return 0, fmt.Errorf("invalid direction: %s (valid: read, write)", s)
	}
}

// ParseRegisterFlag accepts a register name (GAIN, agc_limit) or address (0x05, 5).
func ParseRegisterFlag(s string) (uint8, error) {
	for reg := tpa2016.RegSetup; reg <= tpa2016.RegAGC; reg++ {
		if strings.EqualFold(s, tpa2016.RegisterName(reg)) {
			return reg, nil
		}
	}
	n, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid register: %s", s)
	}
	return uint8(n), nil
}

// shortenSessionID returns the first 8 characters of the session ID.
func shortenSessionID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	if id == "" {
		return "-"
	}
	return id
}
