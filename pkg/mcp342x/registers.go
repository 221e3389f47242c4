// Copyright 2024 Ewout Prangsma
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// Author Ewout Prangsma
//

package mcp342x

import "fmt"

// Gain multiplier of the programmable gain amplifier.
type Gain uint8

const (
	GainX1 Gain = 0x00 // 1x Gain
	GainX2 Gain = 0x01 // 2x Gain
	GainX4 Gain = 0x02 // 4x Gain
	GainX8 Gain = 0x03 // 8x Gain

	gainMax = 0x04
)

// Valid returns true if the gain is one of the known levels.
func (g Gain) Valid() bool { return g < gainMax }

// Multiplier returns the amplification factor of the gain setting.
func (g Gain) Multiplier() int {
	if !g.Valid() {
		return 0
	}
	return 1 << uint(g)
}

func (g Gain) String() string {
	if !g.Valid() {
		return fmt.Sprintf("Gain(%d)", uint8(g))
	}
	return fmt.Sprintf("x%d", g.Multiplier())
}

// SampleRate of the converter. A higher rate yields a lower resolution.
type SampleRate uint8

const (
	SampleRate240SPS SampleRate = 0x00 // 240 samples per second, 12 bit
	SampleRate60SPS  SampleRate = 0x01 // 60 samples per second, 14 bit
	SampleRate15SPS  SampleRate = 0x02 // 15 samples per second, 16 bit

	// sampleRateReserved is the only 2-bit value without a rate.
	sampleRateReserved SampleRate = 0x03
	sampleRateMax                 = 0x04
)

// Valid returns true if the sample rate fits in the 2-bit field.
// The reserved value is accepted by the device, it just converts to 0V.
func (r SampleRate) Valid() bool { return r < sampleRateMax }

// SamplesPerSecond returns the number of conversions per second, 0 for the
// reserved setting.
func (r SampleRate) SamplesPerSecond() int {
	switch r {
	case SampleRate240SPS:
		return 240
	case SampleRate60SPS:
		return 60
	case SampleRate15SPS:
		return 15
	default:
		return 0
	}
}

func (r SampleRate) String() string {
	if sps := r.SamplesPerSecond(); sps > 0 {
		return fmt.Sprintf("%dSPS", sps)
	}
	return fmt.Sprintf("SampleRate(%d)", uint8(r))
}

// ConversionMode selects one-shot or continuous conversions.
type ConversionMode uint8

const (
	ConversionModeOneShot    ConversionMode = 0x00
	ConversionModeContinuous ConversionMode = 0x01

	conversionModeMax = 0x02
)

// Valid returns true for a known conversion mode.
func (m ConversionMode) Valid() bool { return m < conversionModeMax }

func (m ConversionMode) String() string {
	switch m {
	case ConversionModeOneShot:
		return "one-shot"
	case ConversionModeContinuous:
		return "continuous"
	default:
		return fmt.Sprintf("ConversionMode(%d)", uint8(m))
	}
}

// Channel is a zero based input channel index.
type Channel uint8

const (
	Channel1 Channel = 0x00
	Channel2 Channel = 0x01
	Channel3 Channel = 0x02
	Channel4 Channel = 0x03

	// ChannelCount is the number of input channels of the device.
	ChannelCount = 4
)

// Valid returns true if the channel exists on the device.
func (c Channel) Valid() bool { return c < ChannelCount }

// String returns the 1 based channel name as printed on the datasheet.
func (c Channel) String() string { return fmt.Sprintf("CH%d", uint8(c)+1) }

// Bit layout of the configuration byte, LSB to MSB:
// gain(2) | sample rate(2) | conversion mode(1) | channel(2) | ready(1).
const (
	configGainShift       = 0
	configGainMask        = 0x03 << configGainShift
	configSampleRateShift = 2
	configSampleRateMask  = 0x03 << configSampleRateShift
	configModeShift       = 4
	configModeMask        = 0x01 << configModeShift
	configChannelShift    = 5
	configChannelMask     = 0x03 << configChannelShift
	configReadyShift      = 7
	configReadyMask       = 0x01 << configReadyShift
)

// Config is the packed configuration register of the device.
// On write the ready bit starts a conversion, on read a set ready bit
// means that the conversion is still pending.
type Config uint8

// NewConfig packs the given fields into a configuration byte.
// Field values are masked to their bit width.
func NewConfig(gain Gain, rate SampleRate, mode ConversionMode, ch Channel, ready bool) Config {
	return Config(0).
		WithGain(gain).
		WithSampleRate(rate).
		WithConversionMode(mode).
		WithChannel(ch).
		WithReady(ready)
}

func (c Config) field(mask, shift uint8) uint8 { return (uint8(c) & mask) >> shift }

func (c Config) withField(mask, shift, value uint8) Config {
	return Config((uint8(c) &^ mask) | ((value << shift) & mask))
}

// Gain returns the gain field.
func (c Config) Gain() Gain { return Gain(c.field(configGainMask, configGainShift)) }

// SampleRate returns the sample rate field.
func (c Config) SampleRate() SampleRate {
	return SampleRate(c.field(configSampleRateMask, configSampleRateShift))
}

// ConversionMode returns the conversion mode field.
func (c Config) ConversionMode() ConversionMode {
	return ConversionMode(c.field(configModeMask, configModeShift))
}

// Channel returns the channel field.
func (c Config) Channel() Channel { return Channel(c.field(configChannelMask, configChannelShift)) }

// Ready returns the ready bit.
func (c Config) Ready() bool { return c.field(configReadyMask, configReadyShift) != 0 }

// WithGain returns a copy with the gain field replaced.
func (c Config) WithGain(g Gain) Config {
	return c.withField(configGainMask, configGainShift, uint8(g))
}

// WithSampleRate returns a copy with the sample rate field replaced.
func (c Config) WithSampleRate(r SampleRate) Config {
	return c.withField(configSampleRateMask, configSampleRateShift, uint8(r))
}

// WithConversionMode returns a copy with the conversion mode field replaced.
func (c Config) WithConversionMode(m ConversionMode) Config {
	return c.withField(configModeMask, configModeShift, uint8(m))
}

// WithChannel returns a copy with the channel field replaced.
func (c Config) WithChannel(ch Channel) Config {
	return c.withField(configChannelMask, configChannelShift, uint8(ch))
}

// WithReady returns a copy with the ready bit replaced.
func (c Config) WithReady(ready bool) Config {
	var v uint8
	if ready {
		v = 1
	}
	return c.withField(configReadyMask, configReadyShift, v)
}

// Settings holds the caller selected configuration fields.
// Unlike a packed Config they can hold out of range values, which are
// rejected when the configuration is written.
type Settings struct {
	Gain           Gain
	SampleRate     SampleRate
	ConversionMode ConversionMode
}

// Validate checks the fields that must be in range before the
// configuration is written to the device.
func (s Settings) Validate() error {
	if !s.ConversionMode.Valid() || !s.Gain.Valid() || !s.SampleRate.Valid() {
		return ErrInvalidParameter
	}
	return nil
}

// Apply returns a copy of the given configuration byte with the settings
// packed into it. Channel and ready bits are kept.
func (s Settings) Apply(c Config) Config {
	return c.WithGain(s.Gain).
		WithSampleRate(s.SampleRate).
		WithConversionMode(s.ConversionMode)
}

func (c Config) String() string {
	return fmt.Sprintf("%s gain=%s rate=%s mode=%s ready=%t",
		c.Channel(), c.Gain(), c.SampleRate(), c.ConversionMode(), c.Ready())
}

// RegisterSize is the number of bytes the device transmits per read.
const RegisterSize = 3

const (
	regUpperData = 0
	regLowerData = 1
	regConfig    = 2
)

// Registers is the register image as transmitted by the device:
// upper data byte, lower data byte, configuration byte.
type Registers [RegisterSize]byte

// OutputCode returns the 16-bit output code (upper byte first).
func (r *Registers) OutputCode() uint16 {
	return uint16(r[regUpperData])<<8 | uint16(r[regLowerData])
}

// UpperData returns the most significant byte of the output code.
func (r *Registers) UpperData() uint8 { return r[regUpperData] }

// LowerData returns the least significant byte of the output code.
func (r *Registers) LowerData() uint8 { return r[regLowerData] }

// Config returns the configuration byte.
func (r *Registers) Config() Config { return Config(r[regConfig]) }

// SetConfig replaces the configuration byte.
func (r *Registers) SetConfig(c Config) { r[regConfig] = uint8(c) }

// ClearData zeroes both data bytes.
func (r *Registers) ClearData() {
	r[regUpperData] = 0
	r[regLowerData] = 0
}
