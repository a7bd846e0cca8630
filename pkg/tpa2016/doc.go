// Package tpa2016 drives a TPA2016D2 stereo class-D audio amplifier over a
// two-wire (I2C/SMBus) bus.
//
// The driver is a thin adapter between amplifier settings and single-byte
// register transactions. It holds no register cache: every getter and every
// read-modify-write setter reads the device first.
//
// # Basic Usage
//
//	dev, err := i2cdev.Open(1, tpa2016.DefaultAddress)
//	if err != nil {
//	    return err
//	}
//	amp := tpa2016.New(dev, tpa2016.WithLogger(slog.Default()))
//	defer amp.Close()
//
//	_ = amp.EnableChannel(true, true)
//	_ = amp.SetGain(12)
//
// # Errors
//
// Errors returned by the Bus are passed back to the caller unchanged. The
// driver never retries and never rejects numeric input: SetGain clamps, the
// other setters mask to the width of their register field.
//
// # Capture
//
// WithTrace attaches a log.Logger that receives one Event per raw register
// transaction. The capture is optional and has no effect on behavior.
package tpa2016
