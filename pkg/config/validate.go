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

package config

import (
	"fmt"
	"time"

	"github.com/binkynet/ADCWorker/pkg/mcp342x"
)

// Validate checks a normalized configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	switch cfg.Bridge.Type {
	case "", "rpi", "opz", "periph", "virtual":
	default:
		return fmt.Errorf("bridge.type: unknown bridge %q", cfg.Bridge.Type)
	}
	if cfg.Bridge.SCLPin != nil && *cfg.Bridge.SCLPin < 0 {
		return fmt.Errorf("bridge.scl_pin: must be >= 0")
	}

	if cfg.Device.Address > 0x7F {
		return fmt.Errorf("device.address: 0x%02x is not a 7-bit address", cfg.Device.Address)
	}
	if _, err := cfg.Device.Settings(); err != nil {
		return err
	}
	if cfg.Device.PollRetries < 1 {
		return fmt.Errorf("device.poll_retries: must be >= 1")
	}
	if cfg.Device.PollIntervalMs < 1 {
		return fmt.Errorf("device.poll_interval_ms: must be >= 1")
	}

	if cfg.Sampling.IntervalMs < 1 {
		return fmt.Errorf("sampling.interval_ms: must be >= 1")
	}
	if len(cfg.Sampling.Channels) > int(mcp342x.ChannelCount) {
		return fmt.Errorf("sampling.channels: at most %d channels", mcp342x.ChannelCount)
	}
	channels := map[int]struct{}{}
	names := map[string]struct{}{}
	for i, c := range cfg.Sampling.Channels {
		if c.Channel < 1 || c.Channel > int(mcp342x.ChannelCount) {
			return fmt.Errorf("sampling.channels[%d]: channel %d out of range 1..%d", i, c.Channel, mcp342x.ChannelCount)
		}
		if _, found := channels[c.Channel]; found {
			return fmt.Errorf("sampling.channels[%d]: channel %d configured twice", i, c.Channel)
		}
		channels[c.Channel] = struct{}{}
		if _, found := names[c.Name]; found {
			return fmt.Errorf("sampling.channels[%d]: name %q used twice", i, c.Name)
		}
		names[c.Name] = struct{}{}
		switch c.Kind {
		case ChannelKindVoltage, ChannelKindThermistor:
		default:
			return fmt.Errorf("sampling.channels[%d]: unknown kind %q", i, c.Kind)
		}
	}

	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port: %d out of range", cfg.Server.Port)
	}
	if cfg.Server.SSHPort != -1 && (cfg.Server.SSHPort < 1 || cfg.Server.SSHPort > 65535) {
		return fmt.Errorf("server.ssh_port: %d out of range, use -1 to disable", cfg.Server.SSHPort)
	}
	if cfg.Server.SSHPort == cfg.Server.Port {
		return fmt.Errorf("server.ssh_port: %d already used by server.port", cfg.Server.SSHPort)
	}
	return nil
}

// Settings converts the device configuration into driver settings.
func (c DeviceConfig) Settings() (mcp342x.Settings, error) {
	var s mcp342x.Settings
	switch c.Gain {
	case 1:
		s.Gain = mcp342x.GainX1
	case 2:
		s.Gain = mcp342x.GainX2
	case 4:
		s.Gain = mcp342x.GainX4
	case 8:
		s.Gain = mcp342x.GainX8
	default:
		return s, fmt.Errorf("device.gain: %d is not one of 1, 2, 4, 8", c.Gain)
	}
	switch c.SampleRate {
	case 240:
		s.SampleRate = mcp342x.SampleRate240SPS
	case 60:
		s.SampleRate = mcp342x.SampleRate60SPS
	case 15:
		s.SampleRate = mcp342x.SampleRate15SPS
	default:
		return s, fmt.Errorf("device.sample_rate: %d is not one of 240, 60, 15", c.SampleRate)
	}
	switch c.ConversionMode {
	case "one-shot":
		s.ConversionMode = mcp342x.ConversionModeOneShot
	case "continuous":
		s.ConversionMode = mcp342x.ConversionModeContinuous
	default:
		return s, fmt.Errorf("device.conversion_mode: unknown mode %q", c.ConversionMode)
	}
	return s, nil
}

// Timing returns the polling behavior of the device.
func (c DeviceConfig) Timing() mcp342x.Timing {
	return mcp342x.Timing{
		Retries:  c.PollRetries,
		Interval: time.Duration(c.PollIntervalMs) * time.Millisecond,
	}
}

// DriverChannel returns the driver channel of a 1 based channel number.
func (c ChannelConfig) DriverChannel() mcp342x.Channel {
	return mcp342x.Channel(c.Channel - 1)
}
