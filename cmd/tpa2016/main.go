// Command tpa2016 configures a TPA2016D2 amplifier on a Linux I2C bus.
//
// Usage:
//
//	tpa2016 [flags]
//
// Flags:
//
//	-bus int            I2C bus number, /dev/i2c-N (default 1)
//	-addr int           7-bit device address (default 0x58)
//	-simulate           Use an in-memory amplifier instead of hardware
//	-profile string     YAML profile to apply
//	-save string        Write the resulting settings to a YAML profile
//	-log-level string   Log level: trace, debug, info, warn, error (default "info")
//	-trace string       Append raw register transactions to a trace file
//	-interactive        Start the interactive shell
//
// Examples:
//
//	# Apply a profile and print the registers
//	tpa2016 -bus 1 -profile /etc/tpa2016/speaker.yaml
//
//	# Explore the register map without hardware
//	tpa2016 -simulate -interactive -log-level trace
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/mash-protocol/tpa2016-go/cmd/tpa2016/interactive"
	"github.com/mash-protocol/tpa2016-go/pkg/bus/i2cdev"
	"github.com/mash-protocol/tpa2016-go/pkg/bus/sim"
	tracelog "github.com/mash-protocol/tpa2016-go/pkg/log"
	"github.com/mash-protocol/tpa2016-go/pkg/profile"
	"github.com/mash-protocol/tpa2016-go/pkg/tpa2016"
)

// Config holds the command configuration.
type Config struct {
	Bus         int
	Addr        uint
	Simulate    bool
	Profile     string
	Save        string
	LogLevel    string
	Trace       string
	Interactive bool
}

var config Config

func init() {
	flag.IntVar(&config.Bus, "bus", 1, "I2C bus number (/dev/i2c-N)")
	flag.UintVar(&config.Addr, "addr", tpa2016.DefaultAddress, "7-bit device address")
	flag.BoolVar(&config.Simulate, "simulate", false, "Use an in-memory amplifier instead of hardware")
	flag.StringVar(&config.Profile, "profile", "", "YAML profile to apply")
	flag.StringVar(&config.Save, "save", "", "Write the resulting settings to a YAML profile")
	flag.StringVar(&config.LogLevel, "log-level", "info", "Log level: trace, debug, info, warn, error")
	flag.StringVar(&config.Trace, "trace", "", "Append raw register transactions to a trace file")
	flag.BoolVar(&config.Interactive, "interactive", false, "Start the interactive shell")
}

func main() {
	flag.Parse()

	if err := validateConfig(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if err := run(os.Stdout); err != nil {
		log.Fatalf("%v", err)
	}
}

func validateConfig() error {
	if config.Addr > 0x7F {
		return fmt.Errorf("address must be 7-bit, got %#x", config.Addr)
	}
	if config.Bus < 0 {
		return fmt.Errorf("bus must not be negative, got %d", config.Bus)
	}
	if _, err := parseLevel(config.LogLevel); err != nil {
		return err
	}
	return nil
}

func run(out io.Writer) error {
	level, _ := parseLevel(config.LogLevel)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	session := uuid.New().String()
	traces := []tracelog.Logger{tracelog.NewSlogAdapter(logger)}
	if config.Trace != "" {
		fl, err := tracelog.NewFileLogger(config.Trace)
		if err != nil {
			return fmt.Errorf("open trace file: %w", err)
		}
		defer func() {
			written, dropped := fl.Stats()
			if err := fl.Close(); err != nil {
				logger.Warn("trace file close failed", slog.String("path", config.Trace), slog.Any("error", err))
			}
			if dropped > 0 {
				logger.Warn("trace events dropped", slog.String("path", config.Trace), slog.Int("written", written), slog.Int("dropped", dropped))
			} else {
				logger.Debug("trace closed", slog.String("path", config.Trace), slog.Int("written", written))
			}
		}()
		traces = append(traces, fl)
	}

	bus, err := openBus()
	if err != nil {
		return err
	}

	amp := tpa2016.New(bus,
		tpa2016.WithLogger(logger),
		tpa2016.WithTrace(tracelog.NewMultiLogger(traces...)),
		tpa2016.WithSession(session),
	)
	defer amp.Close()

	logger.Info("amplifier opened", slog.String("session_id", session), slog.Bool("simulate", config.Simulate))

	if config.Profile != "" {
		p, err := profile.Load(config.Profile)
		if err != nil {
			return err
		}
		if err := p.Apply(amp); err != nil {
			return err
		}
		logger.Info("profile applied", slog.String("path", config.Profile))
	}

	if config.Interactive {
		shell, err := interactive.New(amp)
		if err != nil {
			return err
		}
		shell.Run()
	} else {
		regs, err := amp.ReadRegisters()
		if err != nil {
			return fmt.Errorf("read registers: %w", err)
		}
		interactive.PrintRegisters(out, regs)
	}

	if config.Save != "" {
		p, err := profile.Read(amp)
		if err != nil {
			return fmt.Errorf("read settings: %w", err)
		}
		data, err := p.Marshal()
		if err != nil {
			return fmt.Errorf("save profile: %w", err)
		}
		if err := os.WriteFile(config.Save, data, 0644); err != nil {
			return fmt.Errorf("save profile: %w", err)
		}
		logger.Info("profile saved", slog.String("path", config.Save))
	}
	return nil
}

func openBus() (tpa2016.Bus, error) {
	if config.Simulate {
		return sim.New(), nil
	}
	dev, err := i2cdev.Open(config.Bus, uint16(config.Addr))
	if err != nil {
		return nil, err
	}
	return dev, nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "trace":
		return tracelog.LevelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level: %s", s)
	}
}
