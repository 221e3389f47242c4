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

import "time"

// Conversion is a started conversion on a single channel.
// Poll it until it is done; waiting between polls is up to the caller.
type Conversion struct {
	dev     *Device
	ch      Channel
	retries int
	done    bool
	err     error
}

// StartConversion arms the given channel and writes the configuration
// that starts the conversion.
// The stored result of the channel is reset to zero.
func (d *Device) StartConversion(ch Channel) (*Conversion, error) {
	if d == nil || d.Intf.Reader == nil || d.Intf.Writer == nil {
		return nil, ErrNullReference
	}
	if !ch.Valid() {
		return nil, ErrInvalidParameter
	}

	// Arm: the device clears the ready bit once the conversion completed
	d.Registers.SetConfig(d.Registers.Config().WithReady(true).WithChannel(ch))
	d.Registers.ClearData()
	d.Results[ch] = Result{}

	if err := d.WriteConfig(); err != nil {
		return nil, err
	}
	return &Conversion{dev: d, ch: ch}, nil
}

// Channel returns the channel being converted.
func (c *Conversion) Channel() Channel { return c.ch }

// Retries returns the number of polls that found the conversion pending.
func (c *Conversion) Retries() int { return c.retries }

// Interval returns the time to wait before the next poll.
func (c *Conversion) Interval() time.Duration { return c.dev.Timing.interval() }

// Poll reads the register image once.
// It returns true when the conversion completed, in which case the result
// of the channel has been updated.
// A read failure is returned as is, ErrTimeout is returned when the
// conversion is still pending after the configured number of retries.
// Once Poll returned an error, it keeps returning that error.
func (c *Conversion) Poll() (bool, error) {
	if c.err != nil {
		return false, c.err
	}
	if c.done {
		return true, nil
	}
	d := c.dev
	if err := d.Intf.Reader.Read(d.Intf.ReadAddress(), d.Registers[:]); err != nil {
		c.err = err
		return false, err
	}
	if !d.Registers.Config().Ready() {
		c.complete()
		return true, nil
	}
	c.retries++
	if c.retries >= d.Timing.retries() {
		c.err = ErrTimeout
		return false, c.err
	}
	return false, nil
}

// complete decodes the register image into the result of the channel.
func (c *Conversion) complete() {
	d := c.dev
	code := d.Registers.OutputCode()
	d.Results[c.ch] = Result{
		OutputCode: code,
		Voltage:    CodeToVoltage(code, d.Settings.SampleRate),
	}
	c.done = true
}
