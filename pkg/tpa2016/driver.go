package tpa2016

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/mash-protocol/tpa2016-go/pkg/log"
)

// Bus is the two-wire transport the driver talks through. Implementations
// are already bound to the amplifier's address.
type Bus interface {
	// ReadRegister returns the current value of a register.
	ReadRegister(reg uint8) (uint8, error)

	// WriteRegister stores a value in a register.
	WriteRegister(reg uint8, value uint8) error
}

// Option configures a Driver.
type Option func(*Driver)

// WithLogger sets the logger used for per-call debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithTrace sets the logger that receives one event per register transaction.
func WithTrace(trace log.Logger) Option {
	return func(d *Driver) {
		if trace != nil {
			d.trace = trace
		}
	}
}

// WithSession labels captured transactions with the given session ID.
func WithSession(id string) Option {
	return func(d *Driver) {
		d.session = id
	}
}

// Driver controls one amplifier. It is not safe for concurrent use.
type Driver struct {
	bus     Bus
	logger  *slog.Logger
	trace   log.Logger
	session string
}

// New creates a driver that owns bus for its lifetime.
func New(bus Bus, opts ...Option) *Driver {
	d := &Driver{
		bus:    bus,
		logger: slog.New(slog.DiscardHandler),
		trace:  log.NoopLogger{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Close closes the bus if it implements io.Closer.
func (d *Driver) Close() error {
	if c, ok := d.bus.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// SetGain sets the fixed gain in dB, clamped to [MinGain, MaxGain].
func (d *Driver) SetGain(gain int8) error {
	d.debug("SetGain", slog.Int("gain", int(gain)))
	g := min(MaxGain, max(MinGain, gain))
	return d.write("SetGain", RegGain, uint8(g))
}

// Gain returns the fixed gain in dB.
func (d *Driver) Gain() (int8, error) {
	d.debug("Gain")
	raw, err := d.read("Gain", RegGain)
	if err != nil {
		return 0, err
	}
	return decodeGain(raw), nil
}

// EnableChannel turns the right and left outputs on or off.
func (d *Driver) EnableChannel(right, left bool) error {
	d.debug("EnableChannel", slog.Bool("right", right), slog.Bool("left", left))
	return d.update("EnableChannel", RegSetup, func(v uint8) uint8 {
		v = setBit(v, setupRightEnable, right)
		return setBit(v, setupLeftEnable, left)
	})
}

// SetAGCCompression sets the AGC compression ratio. Only the low two bits
// of ratio are used.
func (d *Driver) SetAGCCompression(ratio AGCRatio) error {
	d.debug("SetAGCCompression", slog.Int("ratio", int(ratio)))
	return d.update("SetAGCCompression", RegAGC, func(v uint8) uint8 {
		return v&^agcCompression | uint8(ratio)&agcCompression
	})
}

// SetReleaseControl sets the AGC release time in steps of 0.0137 s (0-63).
func (d *Driver) SetReleaseControl(release uint8) error {
	d.debug("SetReleaseControl", slog.Int("release", int(release)))
	return d.write("SetReleaseControl", RegRelease, release)
}

// SetAttackControl sets the AGC attack time in steps of 0.1067 ms (0-63).
func (d *Driver) SetAttackControl(attack uint8) error {
	d.debug("SetAttackControl", slog.Int("attack", int(attack)))
	return d.write("SetAttackControl", RegAttack, attack)
}

// SetHoldControl sets the AGC hold time in steps of 0.0137 s (0-63).
func (d *Driver) SetHoldControl(hold uint8) error {
	d.debug("SetHoldControl", slog.Int("hold", int(hold)))
	return d.write("SetHoldControl", RegHold, hold)
}

// SetLimitLevelOn enables output limiting.
func (d *Driver) SetLimitLevelOn() error {
	d.debug("SetLimitLevelOn")
	return d.update("SetLimitLevelOn", RegAGCLimit, func(v uint8) uint8 {
		return v &^ agcLimitDisable
	})
}

// SetLimitLevelOff disables output limiting.
func (d *Driver) SetLimitLevelOff() error {
	d.debug("SetLimitLevelOff")
	return d.update("SetLimitLevelOff", RegAGCLimit, func(v uint8) uint8 {
		return v | agcLimitDisable
	})
}

// SetLimitLevel sets the output limiter level (0-31). The limiter enable
// bit is left as it is.
func (d *Driver) SetLimitLevel(limit uint8) error {
	d.debug("SetLimitLevel", slog.Int("limit", int(limit)))
	return d.update("SetLimitLevel", RegAGCLimit, func(v uint8) uint8 {
		return v&agcLimitKeep | limit&agcLimitLevel
	})
}

// SetAGCMaxGain sets the maximum gain the AGC may apply (0-15). The value
// is shifted into the high nibble of the AGC register; higher bits are lost.
func (d *Driver) SetAGCMaxGain(maxGain uint8) error {
	d.debug("SetAGCMaxGain", slog.Int("max_gain", int(maxGain)))
	return d.update("SetAGCMaxGain", RegAGC, func(v uint8) uint8 {
		return v&agcMaxGainKeep | maxGain<<agcMaxGainPos
	})
}

// SetNoiseGate turns the noise gate on or off.
func (d *Driver) SetNoiseGate(on bool) error {
	d.debug("SetNoiseGate", slog.Bool("on", on))
	return d.update("SetNoiseGate", RegSetup, func(v uint8) uint8 {
		return setBit(v, setupNoiseGate, on)
	})
}

// SetShutdown puts the amplifier into or out of software shutdown.
func (d *Driver) SetShutdown(on bool) error {
	d.debug("SetShutdown", slog.Bool("on", on))
	return d.update("SetShutdown", RegSetup, func(v uint8) uint8 {
		return setBit(v, setupShutdown, on)
	})
}

// Faults returns the fault flags latched in the SETUP register.
func (d *Driver) Faults() (Faults, error) {
	d.debug("Faults")
	v, err := d.read("Faults", RegSetup)
	if err != nil {
		return Faults{}, err
	}
	return Faults{
		Left:    v&setupLeftFault != 0,
		Right:   v&setupRightFault != 0,
		Thermal: v&setupThermal != 0,
	}, nil
}

// ReadRegisters reads every register in address order. It stops at the
// first failed read.
func (d *Driver) ReadRegisters() (Registers, error) {
	d.debug("ReadRegisters")
	var regs Registers
	for _, f := range []struct {
		reg uint8
		dst *uint8
	}{
		{RegSetup, &regs.Setup},
		{RegAttack, &regs.Attack},
		{RegRelease, &regs.Release},
		{RegHold, &regs.Hold},
		{RegGain, &regs.Gain},
		{RegAGCLimit, &regs.AGCLimit},
		{RegAGC, &regs.AGC},
	} {
		v, err := d.read("ReadRegisters", f.reg)
		if err != nil {
			return Registers{}, err
		}
		*f.dst = v
	}
	return regs, nil
}

// update performs a read-modify-write. A failed read skips the write.
func (d *Driver) update(op string, reg uint8, modify func(uint8) uint8) error {
	v, err := d.read(op, reg)
	if err != nil {
		return err
	}
	return d.write(op, reg, modify(v))
}

func (d *Driver) read(op string, reg uint8) (uint8, error) {
	v, err := d.bus.ReadRegister(reg)
	d.record(op, log.DirectionRead, reg, v, err)
	return v, err
}

func (d *Driver) write(op string, reg, value uint8) error {
	err := d.bus.WriteRegister(reg, value)
	d.record(op, log.DirectionWrite, reg, value, err)
	return err
}

func (d *Driver) record(op string, dir log.Direction, reg, value uint8, err error) {
	event := log.Event{
		Timestamp: time.Now(),
		SessionID: d.session,
		Direction: dir,
		Register:  reg,
		Value:     value,
		Operation: op,
	}
	if err != nil {
		event.Error = err.Error()
	}
	d.trace.Log(event)
}

func (d *Driver) debug(op string, attrs ...slog.Attr) {
	d.logger.LogAttrs(context.Background(), slog.LevelDebug, op, attrs...)
}

func setBit(v, mask uint8, on bool) uint8 {
	if on {
		return v | mask
	}
	return v &^ mask
}
