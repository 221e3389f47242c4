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

// Package mcp342x implements a driver for the Microchip MCP342x family of
// multi-channel delta-sigma analog-to-digital converters.
//
// The driver performs no bus I/O itself. All transactions go through the
// Interface of a Device, which the caller supplies.
// A Device is not safe for concurrent use.
//
// See:
//
//	https://ww1.microchip.com/downloads/en/DeviceDoc/22226a.pdf
package mcp342x

import (
	"context"
	"time"
)

const (
	// DefaultAddress is the 7-bit bus address of a device with both
	// address pins floating.
	DefaultAddress = 0x68

	// MaxPollRetries is the number of reads that may report a pending
	// conversion before sampling gives up.
	MaxPollRetries = 10
	// PollInterval is the wait between two reads of a pending conversion.
	PollInterval = 10 * time.Millisecond
)

// Result of the last conversion of a channel.
type Result struct {
	// Raw 16-bit output code
	OutputCode uint16
	// Voltage in Volts
	Voltage float64
}

// Timing overrides the polling behavior of a device.
// Zero values select MaxPollRetries and PollInterval.
type Timing struct {
	Retries  int
	Interval time.Duration
}

func (t Timing) retries() int {
	if t.Retries <= 0 {
		return MaxPollRetries
	}
	return t.Retries
}

func (t Timing) interval() time.Duration {
	if t.Interval <= 0 {
		return PollInterval
	}
	return t.Interval
}

// Device is a single MCP342x converter.
type Device struct {
	// Hardware interface
	Intf Interface
	// Configuration written on every WriteConfig
	Settings Settings
	// Register image, as last armed or read
	Registers Registers
	// Results per channel
	Results [ChannelCount]Result
	// Polling behavior
	Timing Timing
}

// NewDevice creates a device at the given 7-bit address that uses the
// given transport for all bus access.
func NewDevice(address uint8, t Transport, settings Settings) *Device {
	return &Device{
		Intf:     NewInterface(address, t),
		Settings: settings,
	}
}

// WriteConfig writes the current configuration byte to the device.
func (d *Device) WriteConfig() error {
	if d == nil || d.Intf.Writer == nil {
		return ErrNullReference
	}
	if err := d.Settings.Validate(); err != nil {
		return err
	}
	buf := [1]byte{uint8(d.Settings.Apply(d.Registers.Config()))}
	return d.Intf.Writer.Write(d.Intf.WriteAddress(), buf[:])
}

// SampleChannel performs a full conversion on the given channel.
// It blocks, using the Delayer of the interface, until the conversion
// completed or the retries are exhausted.
// On success the result of the channel holds the output code and voltage.
func (d *Device) SampleChannel(ch Channel) error {
	if d == nil || d.Intf.Reader == nil || d.Intf.Writer == nil || d.Intf.Delayer == nil {
		return ErrNullReference
	}
	c, err := d.StartConversion(ch)
	if err != nil {
		return err
	}
	for {
		done, err := c.Poll()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		d.Intf.Delayer.DelayMicroseconds(uint32(c.Interval() / time.Microsecond))
	}
}

// SampleChannelContext performs a full conversion on the given channel
// like SampleChannel, but waits between polls on a timer instead of the
// Delayer, so the wait ends when the given context is canceled.
func (d *Device) SampleChannelContext(ctx context.Context, ch Channel) error {
	c, err := d.StartConversion(ch)
	if err != nil {
		return err
	}
	for {
		done, err := c.Poll()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		t := time.NewTimer(c.Interval())
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
			// Poll again
		}
	}
}

// SampleAllChannels samples all channels, starting at the highest.
// It stops at the first channel that fails.
func (d *Device) SampleAllChannels() error {
	for i := ChannelCount; i > 0; i-- {
		if err := d.SampleChannel(Channel(i - 1)); err != nil {
			return err
		}
	}
	return nil
}
