// Package interactive provides the interactive command-line interface
// for the tpa2016 tool.
package interactive

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/mash-protocol/tpa2016-go/pkg/tpa2016"
)

// errQuit ends the command loop.
var errQuit = errors.New("quit")

// Shell runs amplifier commands typed at a prompt.
type Shell struct {
	amp *tpa2016.Driver
	rl  *readline.Instance
}

// New creates a shell bound to amp.
func New(amp *tpa2016.Driver) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "tpa2016> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    completer(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &Shell{amp: amp, rl: rl}, nil
}

// Run reads commands until quit or EOF.
func (s *Shell) Run() {
	defer s.rl.Close()

	out := s.rl.Stdout()
	printHelp(out)

	for {
		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(out, "Exiting...")
			return
		}

		if err := Execute(s.amp, out, line); err != nil {
			if errors.Is(err, errQuit) {
				fmt.Fprintln(out, "Exiting...")
				return
			}
			fmt.Fprintf(out, "Error: %v\n", err)
		}
	}
}

func completer() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("gain"),
		readline.PcItem("channels"),
		readline.PcItem("compression"),
		readline.PcItem("attack"),
		readline.PcItem("release"),
		readline.PcItem("hold"),
		readline.PcItem("limit", readline.PcItem("on"), readline.PcItem("off")),
		readline.PcItem("maxgain"),
		readline.PcItem("noisegate", readline.PcItem("on"), readline.PcItem("off")),
		readline.PcItem("shutdown", readline.PcItem("on"), readline.PcItem("off")),
		readline.PcItem("faults"),
		readline.PcItem("dump"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}

// Execute runs one command line against amp and writes its output to out.
func Execute(amp *tpa2016.Driver, out io.Writer, line string) error {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		printHelp(out)
		return nil

	case "gain", "g":
		if len(args) == 0 {
			g, err := amp.Gain()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "gain: %d dB\n", g)
			return nil
		}
		n, err := parseInt(args[0], -128, 127)
		if err != nil {
			return err
		}
		return amp.SetGain(int8(n))

	case "channels", "ch":
		if len(args) != 2 {
			return errors.New("usage: channels <left on|off> <right on|off>")
		}
		left, err := parseSwitch(args[0])
		if err != nil {
			return err
		}
		right, err := parseSwitch(args[1])
		if err != nil {
			return err
		}
		return amp.EnableChannel(right, left)

	case "compression":
		n, err := oneByte(args)
		if err != nil {
			return err
		}
		return amp.SetAGCCompression(tpa2016.AGCRatio(n))

	case "attack":
		n, err := oneByte(args)
		if err != nil {
			return err
		}
		return amp.SetAttackControl(n)

	case "release":
		n, err := oneByte(args)
		if err != nil {
			return err
		}
		return amp.SetReleaseControl(n)

	case "hold":
		n, err := oneByte(args)
		if err != nil {
			return err
		}
		return amp.SetHoldControl(n)

	case "limit":
		if len(args) != 1 {
			return errors.New("usage: limit on|off|<level>")
		}
		switch strings.ToLower(args[0]) {
		case "on":
			return amp.SetLimitLevelOn()
		case "off":
			return amp.SetLimitLevelOff()
		}
		n, err := oneByte(args)
		if err != nil {
			return err
		}
		return amp.SetLimitLevel(n)

	case "maxgain":
		n, err := oneByte(args)
		if err != nil {
			return err
		}
		return amp.SetAGCMaxGain(n)

	case "noisegate":
		on, err := oneSwitch(args)
		if err != nil {
			return err
		}
		return amp.SetNoiseGate(on)

	case "shutdown":
		on, err := oneSwitch(args)
		if err != nil {
			return err
		}
		return amp.SetShutdown(on)

	case "faults", "f":
		f, err := amp.Faults()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "left: %t  right: %t  thermal: %t\n", f.Left, f.Right, f.Thermal)
		return nil

	case "dump", "d":
		regs, err := amp.ReadRegisters()
		if err != nil {
			return err
		}
		PrintRegisters(out, regs)
		return nil

	case "quit", "exit", "q":
		return errQuit

	default:
		return fmt.Errorf("unknown command: %s (type 'help' for commands)", cmd)
	}
}

// PrintRegisters writes a register table followed by the decoded settings.
func PrintRegisters(out io.Writer, regs tpa2016.Registers) {
	for _, r := range []struct {
		addr  uint8
		value uint8
	}{
		{tpa2016.RegSetup, regs.Setup},
		{tpa2016.RegAttack, regs.Attack},
		{tpa2016.RegRelease, regs.Release},
		{tpa2016.RegHold, regs.Hold},
		{tpa2016.RegGain, regs.Gain},
		{tpa2016.RegAGCLimit, regs.AGCLimit},
		{tpa2016.RegAGC, regs.AGC},
	} {
		fmt.Fprintf(out, "  0x%02X %-10s 0x%02X  %08b\n", r.addr, tpa2016.RegisterName(r.addr), r.value, r.value)
	}
	fmt.Fprintf(out, "gain %d dB, left %s, right %s, limiter %s (level %d), AGC %s max %d\n",
		regs.GainDB(),
		onOff(regs.LeftEnabled()), onOff(regs.RightEnabled()),
		onOff(regs.LimiterEnabled()), regs.LimitLevel(),
		regs.Compression(), regs.MaxGain())
}

func printHelp(out io.Writer) {
	fmt.Fprint(out, `
Amplifier Commands:
  gain [dB]                  - Show or set the fixed gain (-28..30, clamped)
  channels <left> <right>    - Enable outputs (on|off each)
  compression <0-3>          - AGC compression (1:1, 1:2, 1:4, 1:8)
  attack|release|hold <n>    - AGC timing steps (0-63)
  limit on|off|<0-31>        - Output limiter
  maxgain <0-15>             - AGC maximum gain
  noisegate on|off           - Noise gate
  shutdown on|off            - Software shutdown
  faults                     - Show latched faults
  dump                       - Show all registers
  quit                       - Exit
`)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func parseInt(s string, lo, hi int) (int, error) {
	n, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number: %s", s)
	}
	if int(n) < lo || int(n) > hi {
		return 0, fmt.Errorf("%d out of range [%d, %d]", n, lo, hi)
	}
	return int(n), nil
}

func oneByte(args []string) (uint8, error) {
	if len(args) != 1 {
		return 0, errors.New("expected one numeric argument")
	}
	n, err := parseInt(args[0], 0, 255)
	return uint8(n), err
}

func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "1", "true":
		return true, nil
	case "off", "0", "false":
		return false, nil
	default:
		return false, fmt.Errorf("expected on or off, got %s", s)
	}
}

func oneSwitch(args []string) (bool, error) {
	if len(args) != 1 {
		return false, errors.New("expected on or off")
	}
	return parseSwitch(args[0])
}
