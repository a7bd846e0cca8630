//go:build linux

package i2cdev

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	ioctlSlave = 0x0703
	ioctlSMBus = 0x0720

	smbusRead     = 1
	smbusWrite    = 0
	smbusByteData = 2

	// smbusBlockMax matches I2C_SMBUS_BLOCK_MAX; the kernel union is two bytes larger.
	smbusBlockMax = 32
)

// smbusIoctlData mirrors struct i2c_smbus_ioctl_data.
type smbusIoctlData struct {
	readWrite uint8
	command   uint8
	size      uint32
	data      unsafe.Pointer
}

// Device is one slave address on an open i2c-dev bus.
type Device struct {
	fd     int
	bus    int
	addr   uint16
	closed bool
}

// Open opens /dev/i2c-<bus> and binds it to the 7-bit address addr.
func Open(bus int, addr uint16) (*Device, error) {
	path := fmt.Sprintf("/dev/i2c-%d", bus)
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("i2cdev: open %s: %w", path, err)
	}
	if err := unix.IoctlSetInt(fd, ioctlSlave, int(addr)); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("i2cdev: bind address %#02x on %s: %w", addr, path, err)
	}
	return &Device{fd: fd, bus: bus, addr: addr}, nil
}

// String identifies the device as bus:address.
func (d *Device) String() string {
	return fmt.Sprintf("i2c-%d:%#02x", d.bus, d.addr)
}

// ReadRegister performs an SMBus read-byte-data transfer.
func (d *Device) ReadRegister(reg uint8) (uint8, error) {
	var buf [smbusBlockMax + 2]byte
	if err := d.smbus(smbusRead, reg, &buf); err != nil {
		return 0, fmt.Errorf("i2cdev: read %#02x: %w", reg, err)
	}
	return buf[0], nil
}

// WriteRegister performs an SMBus write-byte-data transfer.
func (d *Device) WriteRegister(reg uint8, value uint8) error {
	var buf [smbusBlockMax + 2]byte
	buf[0] = value
	if err := d.smbus(smbusWrite, reg, &buf); err != nil {
		return fmt.Errorf("i2cdev: write %#02x: %w", reg, err)
	}
	return nil
}

func (d *Device) smbus(rw, reg uint8, buf *[smbusBlockMax + 2]byte) error {
	if d.closed {
		return ErrClosed
	}
	args := smbusIoctlData{
		readWrite: rw,
		command:   reg,
		size:      smbusByteData,
		data:      unsafe.Pointer(&buf[0]),
	}
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(d.fd), ioctlSMBus, uintptr(unsafe.Pointer(&args)))
	if errno != 0 {
		return errno
	}
	return nil
}

// Close releases the bus file descriptor. It is safe to call Close more
// than once.
func (d *Device) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	return unix.Close(d.fd)
}
