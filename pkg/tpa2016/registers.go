package tpa2016

// DefaultAddress is the fixed 7-bit bus address of the amplifier.
const DefaultAddress = 0x58

// Register addresses.
const (
	RegSetup    uint8 = 0x01
	RegAttack   uint8 = 0x02
	RegRelease  uint8 = 0x03
	RegHold     uint8 = 0x04
	RegGain     uint8 = 0x05
	RegAGCLimit uint8 = 0x06
	RegAGC      uint8 = 0x07
)

// SETUP register bits.
const (
	setupRightEnable uint8 = 0x80
	setupLeftEnable  uint8 = 0x40
	setupShutdown    uint8 = 0x20
	setupRightFault  uint8 = 0x10
	setupLeftFault   uint8 = 0x08
	setupThermal     uint8 = 0x04
	setupNoiseGate   uint8 = 0x01
)

// AGC_LIMIT register bits. The limiter bit has inverted polarity: set means
// limiting is disabled.
const (
	agcLimitDisable uint8 = 0x80
	agcLimitLevel   uint8 = 0x1F
	agcLimitKeep    uint8 = 0xE0
)

// AGC register fields.
const (
	agcCompression uint8 = 0x03
	agcMaxGainKeep uint8 = 0x0F
	agcMaxGainPos        = 4
)

// Fixed gain limits in dB.
const (
	MinGain int8 = -28
	MaxGain int8 = 30
)

// gainSignBit is the sign bit of the 6-bit gain field.
const gainSignBit uint8 = 0x20

// AGCRatio is the AGC compression ratio stored in bits 1-0 of the AGC register.
type AGCRatio uint8

const (
	// AGCRatio1to1 disables compression.
	AGCRatio1to1 AGCRatio = 0
	// AGCRatio1to2 compresses 1:2.
	AGCRatio1to2 AGCRatio = 1
	// AGCRatio1to4 compresses 1:4.
	AGCRatio1to4 AGCRatio = 2
	// AGCRatio1to8 compresses 1:8.
	AGCRatio1to8 AGCRatio = 3
)

// String returns the ratio as "1:N".
func (r AGCRatio) String() string {
	switch r & AGCRatio(agcCompression) {
	case AGCRatio1to1:
		return "1:1"
	case AGCRatio1to2:
		return "1:2"
	case AGCRatio1to4:
		return "1:4"
	default:
		return "1:8"
	}
}

// RegisterName returns the datasheet name of a register address.
func RegisterName(reg uint8) string {
	switch reg {
	case RegSetup:
		return "SETUP"
	case RegAttack:
		return "ATTACK"
	case RegRelease:
		return "RELEASE"
	case RegHold:
		return "HOLD"
	case RegGain:
		return "GAIN"
	case RegAGCLimit:
		return "AGC_LIMIT"
	case RegAGC:
		return "AGC"
	default:
		return "UNKNOWN"
	}
}

// Registers is a raw snapshot of every register in the map.
type Registers struct {
	Setup    uint8
	Attack   uint8
	Release  uint8
	Hold     uint8
	Gain     uint8
	AGCLimit uint8
	AGC      uint8
}

// Faults reports the fault flags latched in the SETUP register.
type Faults struct {
	Left    bool
	Right   bool
	Thermal bool
}

// Any reports whether any fault is latched.
func (f Faults) Any() bool {
	return f.Left || f.Right || f.Thermal
}

// decodeGain sign-extends the 6-bit gain field.
func decodeGain(raw uint8) int8 {
	if raw&gainSignBit != 0 {
		raw |= 0xC0
	}
	return int8(raw)
}

// GainDB returns the decoded fixed gain.
func (r Registers) GainDB() int8 { return decodeGain(r.Gain) }

// RightEnabled reports whether the right channel is on.
func (r Registers) RightEnabled() bool { return r.Setup&setupRightEnable != 0 }

// LeftEnabled reports whether the left channel is on.
func (r Registers) LeftEnabled() bool { return r.Setup&setupLeftEnable != 0 }

// NoiseGate reports whether the noise gate is on.
func (r Registers) NoiseGate() bool { return r.Setup&setupNoiseGate != 0 }

// Shutdown reports whether the amplifier is in software shutdown.
func (r Registers) Shutdown() bool { return r.Setup&setupShutdown != 0 }

// LimiterEnabled reports whether output limiting is on. The register bit
// is inverted.
func (r Registers) LimiterEnabled() bool { return r.AGCLimit&agcLimitDisable == 0 }

// LimitLevel returns the limiter level field.
func (r Registers) LimitLevel() uint8 { return r.AGCLimit & agcLimitLevel }

// MaxGain returns the AGC max gain field.
func (r Registers) MaxGain() uint8 { return r.AGC >> agcMaxGainPos }

// Compression returns the AGC compression ratio.
func (r Registers) Compression() AGCRatio { return AGCRatio(r.AGC & agcCompression) }
