// Package i2cdev talks to an amplifier through the Linux i2c-dev interface
// (/dev/i2c-N) using SMBus byte-data transfers. The "i2c-dev" kernel module
// must be loaded.
package i2cdev

import "errors"

// ErrClosed is returned by accesses after Close.
var ErrClosed = errors.New("i2cdev: device closed")
