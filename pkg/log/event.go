package log

import (
	"time"
)

// Event records one raw register transaction.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the transaction completed (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID groups the transactions of one driver instance (UUID).
	SessionID string `cbor:"2,keyasint,omitempty"`

	// Direction indicates whether the register was read or written.
	Direction Direction `cbor:"3,keyasint"`

	// Register is the register address.
	Register uint8 `cbor:"4,keyasint"`

	// Value is the byte read or written. Zero when a read failed.
	Value uint8 `cbor:"5,keyasint"`

	// Operation names the driver call that issued the transaction.
	Operation string `cbor:"6,keyasint,omitempty"`

	// Error is the transport error message, empty on success.
	Error string `cbor:"7,keyasint,omitempty"`
}

// Failed reports whether the transaction returned an error.
func (e Event) Failed() bool {
	return e.Error != ""
}

// Direction indicates the direction of a register transaction.
type Direction uint8

const (
	// DirectionRead indicates a register read.
	DirectionRead Direction = 0
	// DirectionWrite indicates a register write.
	DirectionWrite Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionRead:
		return "READ"
	case DirectionWrite:
		return "WRITE"
	default:
		return "UNKNOWN"
	}
}
