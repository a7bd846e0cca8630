//go:build !linux

package i2cdev

import (
	"errors"
	"fmt"
)

// Device is unavailable outside Linux.
type Device struct{}

// Open always fails outside Linux.
func Open(bus int, addr uint16) (*Device, error) {
	return nil, fmt.Errorf("i2cdev: open bus %d address %#02x: %w", bus, addr, errors.ErrUnsupported)
}

// ReadRegister always fails outside Linux.
func (d *Device) ReadRegister(reg uint8) (uint8, error) { return 0, errors.ErrUnsupported }

// WriteRegister always fails outside Linux.
func (d *Device) WriteRegister(reg uint8, value uint8) error { return errors.ErrUnsupported }

// Close is a no-op outside Linux.
func (d *Device) Close() error { return nil }
