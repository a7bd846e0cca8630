// Package profile loads amplifier settings from YAML and applies them
// through the driver.
package profile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mash-protocol/tpa2016-go/pkg/tpa2016"
)

// Profile is a set of amplifier settings. Nil fields are left untouched
// when the profile is applied.
type Profile struct {
	Gain      *int      `yaml:"gain,omitempty"`
	Channels  *Channels `yaml:"channels,omitempty"`
	AGC       *AGC      `yaml:"agc,omitempty"`
	Limiter   *Limiter  `yaml:"limiter,omitempty"`
	NoiseGate *bool     `yaml:"noise_gate,omitempty"`
}

// Channels selects the enabled outputs. An omitted channel keeps its
// current state.
type Channels struct {
	Left  *bool `yaml:"left,omitempty"`
	Right *bool `yaml:"right,omitempty"`
}

// AGC holds the automatic gain control settings.
type AGC struct {
	Compression *int `yaml:"compression,omitempty"`
	MaxGain     *int `yaml:"max_gain,omitempty"`
	Attack      *int `yaml:"attack,omitempty"`
	Release     *int `yaml:"release,omitempty"`
	Hold        *int `yaml:"hold,omitempty"`
}

// Limiter holds the output limiter settings.
type Limiter struct {
	Enabled *bool `yaml:"enabled,omitempty"`
	Level   *int  `yaml:"level,omitempty"`
}

// Load reads and validates a profile file.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse decodes and validates a YAML profile. Unknown keys are rejected.
func Parse(data []byte) (*Profile, error) {
	var p Profile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("YAML parse error: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Marshal encodes the profile as YAML. A profile that would not load back
// is rejected with the same error Validate reports.
func (p *Profile) Marshal() ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return yaml.Marshal(p)
}

type rangeCheck struct {
	field    string
	value    *int
	min, max int
}

// Validate checks every present field against its register range. All
// violations are reported together.
func (p *Profile) Validate() error {
	checks := []rangeCheck{
		{"gain", p.Gain, int(tpa2016.MinGain), int(tpa2016.MaxGain)},
	}
	if p.AGC != nil {
		checks = append(checks,
			rangeCheck{"agc.compression", p.AGC.Compression, 0, 3},
			rangeCheck{"agc.max_gain", p.AGC.MaxGain, 0, 15},
			rangeCheck{"agc.attack", p.AGC.Attack, 0, 63},
			rangeCheck{"agc.release", p.AGC.Release, 0, 63},
			rangeCheck{"agc.hold", p.AGC.Hold, 0, 63},
		)
	}
	if p.Limiter != nil {
		checks = append(checks, rangeCheck{"limiter.level", p.Limiter.Level, 0, 31})
	}

	var errs []error
	for _, c := range checks {
		if c.value == nil {
			continue
		}
		if *c.value < c.min || *c.value > c.max {
			errs = append(errs, fmt.Errorf("%s: %d out of range [%d, %d]", c.field, *c.value, c.min, c.max))
		}
	}
	return errors.Join(errs...)
}

// step is one settings write, named for error reporting.
type step struct {
	field string
	apply func() error
}

// Apply validates the profile and writes it to the amplifier. Settings are
// applied in a fixed order; the first bus error stops the sequence and is
// returned wrapped with the field name.
func (p *Profile) Apply(amp *tpa2016.Driver) error {
	if err := p.Validate(); err != nil {
		return err
	}

	var steps []step
	if c := p.Channels; c != nil && (c.Left != nil || c.Right != nil) {
		steps = append(steps, step{"channels", func() error { return applyChannels(amp, c) }})
	}
	if p.Gain != nil {
		g := int8(*p.Gain)
		steps = append(steps, step{"gain", func() error { return amp.SetGain(g) }})
	}
	if a := p.AGC; a != nil {
		if a.Attack != nil {
			v := uint8(*a.Attack)
			steps = append(steps, step{"agc.attack", func() error { return amp.SetAttackControl(v) }})
		}
		if a.Release != nil {
			v := uint8(*a.Release)
			steps = append(steps, step{"agc.release", func() error { return amp.SetReleaseControl(v) }})
		}
		if a.Hold != nil {
			v := uint8(*a.Hold)
			steps = append(steps, step{"agc.hold", func() error { return amp.SetHoldControl(v) }})
		}
		if a.Compression != nil {
			v := tpa2016.AGCRatio(*a.Compression)
			steps = append(steps, step{"agc.compression", func() error { return amp.SetAGCCompression(v) }})
		}
		if a.MaxGain != nil {
			v := uint8(*a.MaxGain)
			steps = append(steps, step{"agc.max_gain", func() error { return amp.SetAGCMaxGain(v) }})
		}
	}
	if l := p.Limiter; l != nil {
		if l.Level != nil {
			v := uint8(*l.Level)
			steps = append(steps, step{"limiter.level", func() error { return amp.SetLimitLevel(v) }})
		}
		if l.Enabled != nil {
			if *l.Enabled {
				steps = append(steps, step{"limiter.enabled", amp.SetLimitLevelOn})
			} else {
				steps = append(steps, step{"limiter.enabled", amp.SetLimitLevelOff})
			}
		}
	}
	if p.NoiseGate != nil {
		on := *p.NoiseGate
		steps = append(steps, step{"noise_gate", func() error { return amp.SetNoiseGate(on) }})
	}

	for _, s := range steps {
		if err := s.apply(); err != nil {
			return fmt.Errorf("apply %s: %w", s.field, err)
		}
	}
	return nil
}

// applyChannels enables the requested outputs. When only one channel is
// given the other is read back from SETUP first.
func applyChannels(amp *tpa2016.Driver, c *Channels) error {
	if c.Left != nil && c.Right != nil {
		return amp.EnableChannel(*c.Right, *c.Left)
	}
	regs, err := amp.ReadRegisters()
	if err != nil {
		return err
	}
	left, right := regs.LeftEnabled(), regs.RightEnabled()
	if c.Left != nil {
		left = *c.Left
	}
	if c.Right != nil {
		right = *c.Right
	}
	return amp.EnableChannel(right, left)
}

// Read builds a complete profile from the amplifier's current registers.
func Read(amp *tpa2016.Driver) (*Profile, error) {
	regs, err := amp.ReadRegisters()
	if err != nil {
		return nil, err
	}
	return FromRegisters(regs), nil
}

// FromRegisters converts a register snapshot into a profile.
func FromRegisters(regs tpa2016.Registers) *Profile {
	return &Profile{
		Gain: ptr(int(regs.GainDB())),
		Channels: &Channels{
			Left:  ptr(regs.LeftEnabled()),
			Right: ptr(regs.RightEnabled()),
		},
		AGC: &AGC{
			Compression: ptr(int(regs.Compression())),
			MaxGain:     ptr(int(regs.MaxGain())),
			Attack:      ptr(int(regs.Attack)),
			Release:     ptr(int(regs.Release)),
			Hold:        ptr(int(regs.Hold)),
		},
		Limiter: &Limiter{
			Enabled: ptr(regs.LimiterEnabled()),
			Level:   ptr(int(regs.LimitLevel())),
		},
		NoiseGate: ptr(regs.NoiseGate()),
	}
}

func ptr[T any](v T) *T { return &v }
