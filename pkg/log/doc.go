// Package log captures raw register transactions for the amplifier driver.
//
// It is separate from operational logging (slog): the capture is a complete
// machine-readable trace of every byte read from or written to the device.
//
// # Basic Usage
//
//	// For development: print transactions to the console via slog
//	trace := log.NewSlogAdapter(slog.Default())
//
//	// For field debugging: write to a binary trace file
//	trace, _ := log.NewFileLogger("/var/log/tpa2016/amp.trace")
//
//	// Both
//	trace := log.NewMultiLogger(console, file)
//
//	amp := tpa2016.New(bus, tpa2016.WithTrace(trace))
//
// # File Format
//
// Trace files are a stream of CBOR-encoded Events. The tpa2016-log tool
// views and summarizes them.
package log
