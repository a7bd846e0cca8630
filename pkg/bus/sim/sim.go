// Package sim provides an in-memory amplifier register file for tests and
// for running the tools without hardware.
package sim

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// registerCount covers addresses 0x00-0x07. Address 0x00 is not a register.
const registerCount = 8

// ErrInjected is returned by a failing register when no specific error was
// configured.
var ErrInjected = errors.New("sim: injected bus error")

// ErrClosed is returned by every access after Close.
var ErrClosed = errors.New("sim: device closed")

// resetValues are the power-on register values of the amplifier.
var resetValues = [registerCount]uint8{
	0x01: 0xC3,
	0x02: 0x05,
	0x03: 0x0B,
	0x04: 0x00,
	0x05: 0x06,
	0x06: 0x3A,
	0x07: 0xC2,
}

// Op is the kind of a recorded transaction.
type Op uint8

const (
	OpRead Op = iota
	OpWrite
)

func (o Op) String() string {
	if o == OpWrite {
		return "write"
	}
	return "read"
}

// Transaction is one recorded register access.
type Transaction struct {
	Op    Op
	Reg   uint8
	Value uint8
	Err   error
}

// Device is a simulated amplifier. Every write is stored as the full byte
// and echoed by later reads. It is safe for concurrent use.
type Device struct {
	mu        sync.Mutex
	regs      [registerCount]uint8
	readFail  map[uint8]error
	writeFail map[uint8]error
	log       []Transaction
	closed    bool
}

// New returns a device holding the power-on register values.
func New() *Device {
	return &Device{
		regs:      resetValues,
		readFail:  make(map[uint8]error),
		writeFail: make(map[uint8]error),
	}
}

// ReadRegister implements tpa2016.Bus.
func (d *Device) ReadRegister(reg uint8) (uint8, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	err := d.check(reg, d.readFail)
	var v uint8
	if err == nil {
		v = d.regs[reg]
	}
	d.log = append(d.log, Transaction{Op: OpRead, Reg: reg, Value: v, Err: err})
	return v, err
}

// WriteRegister implements tpa2016.Bus.
func (d *Device) WriteRegister(reg uint8, value uint8) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	err := d.check(reg, d.writeFail)
	if err == nil {
		d.regs[reg] = value
	}
	d.log = append(d.log, Transaction{Op: OpWrite, Reg: reg, Value: value, Err: err})
	return err
}

func (d *Device) check(reg uint8, fail map[uint8]error) error {
	if d.closed {
		return ErrClosed
	}
	if reg == 0 || reg >= registerCount {
		return fmt.Errorf("sim: no register at %#02x", reg)
	}
	if err, ok := fail[reg]; ok {
		return err
	}
	return nil
}

// Set stores a register value without recording a transaction.
func (d *Device) Set(reg, value uint8) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if reg < registerCount {
		d.regs[reg] = value
	}
}

// Get returns a register value without recording a transaction.
func (d *Device) Get(reg uint8) uint8 {
	d.mu.Lock()
	defer d.mu.Unlock()
	if reg >= registerCount {
		return 0
	}
	return d.regs[reg]
}

// FailRead makes reads of reg return err, or ErrInjected if err is nil.
func (d *Device) FailRead(reg uint8, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err == nil {
		err = ErrInjected
	}
	d.readFail[reg] = err
}

// FailWrite makes writes to reg return err, or ErrInjected if err is nil.
func (d *Device) FailWrite(reg uint8, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err == nil {
		err = ErrInjected
	}
	d.writeFail[reg] = err
}

// ClearFaults removes every injected failure.
func (d *Device) ClearFaults() {
	d.mu.Lock()
	defer d.mu.Unlock()
	clear(d.readFail)
	clear(d.writeFail)
}

// Transactions returns a copy of the recorded transactions.
func (d *Device) Transactions() []Transaction {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.log)
}

// Writes returns only the recorded write transactions.
func (d *Device) Writes() []Transaction {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []Transaction
	for _, tx := range d.log {
		if tx.Op == OpWrite {
			out = append(out, tx)
		}
	}
	return out
}

// ResetLog discards the recorded transactions.
func (d *Device) ResetLog() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.log = nil
}

// PowerCycle restores the power-on register values. Injected failures and
// the transaction log are kept.
func (d *Device) PowerCycle() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.regs = resetValues
}

// Close marks the device closed. Later accesses fail with ErrClosed.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}
