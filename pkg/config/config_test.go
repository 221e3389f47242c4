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
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/binkynet/ADCWorker/pkg/mcp342x"
)

func TestParse_Full(t *testing.T) {
	cfg, err := Parse([]byte(`
bridge:
  type: virtual
device:
  address: 0x6A
  gain: 4
  sample_rate: 15
  conversion_mode: continuous
sampling:
  interval_ms: 250
  channels:
    - channel: 1
      name: supply
    - channel: 3
      name: boiler
      kind: thermistor
mqtt:
  broker: tcp://localhost:1883
  topic_prefix: layout/adc/
server:
  port: 8080
  ssh_port: -1
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Device.Address != 0x6A {
		t.Errorf("expected address 0x6A, got 0x%02x", cfg.Device.Address)
	}
	s, err := cfg.Device.Settings()
	if err != nil {
		t.Fatalf("unexpected settings error: %v", err)
	}
	expected := mcp342x.Settings{
		Gain:           mcp342x.GainX4,
		SampleRate:     mcp342x.SampleRate15SPS,
		ConversionMode: mcp342x.ConversionModeContinuous,
	}
	if s != expected {
		t.Errorf("expected settings %+v, got %+v", expected, s)
	}
	if cfg.Sampling.Interval() != 250*time.Millisecond {
		t.Errorf("expected 250ms interval, got %s", cfg.Sampling.Interval())
	}
	if len(cfg.Sampling.Channels) != 2 {
		t.Fatalf("expected 2 channels, got %d", len(cfg.Sampling.Channels))
	}
	if c := cfg.Sampling.Channels[0]; c.Kind != ChannelKindVoltage || c.DriverChannel() != mcp342x.Channel1 {
		t.Errorf("unexpected first channel %+v", c)
	}
	if c := cfg.Sampling.Channels[1]; c.Kind != ChannelKindThermistor || c.DriverChannel() != mcp342x.Channel3 {
		t.Errorf("unexpected second channel %+v", c)
	}
	if cfg.MQTT.TopicPrefix != "layout/adc" {
		t.Errorf("expected trailing slash to be trimmed, got %q", cfg.MQTT.TopicPrefix)
	}
	if cfg.Server.Port != 8080 || cfg.Server.Host != DefaultServerHost {
		t.Errorf("unexpected server config %+v", cfg.Server)
	}
	if cfg.Server.SSHPort != -1 {
		t.Errorf("expected ssh server disabled, got port %d", cfg.Server.SSHPort)
	}
}

func TestParse_UnknownField(t *testing.T) {
	if _, err := Parse([]byte("device:\n  adress: 0x68\n")); err == nil {
		t.Fatalf("expected error for unknown field")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := Validate(cfg); err != nil {
		t.Fatalf("default config must be valid: %v", err)
	}
	if cfg.Device.Address != mcp342x.DefaultAddress {
		t.Errorf("expected default address, got 0x%02x", cfg.Device.Address)
	}
	if len(cfg.Sampling.Channels) != int(mcp342x.ChannelCount) {
		t.Fatalf("expected all channels, got %d", len(cfg.Sampling.Channels))
	}
	for i, c := range cfg.Sampling.Channels {
		if c.DriverChannel() != mcp342x.Channel(i) {
			t.Errorf("channel %d: unexpected driver channel %s", i, c.DriverChannel())
		}
	}
	if cfg.Server.SSHPort != DefaultSSHPort || cfg.Server.HostKeyPath != DefaultHostKeyPath {
		t.Errorf("unexpected default ssh config %+v", cfg.Server)
	}
	timing := cfg.Device.Timing()
	if timing.Retries != mcp342x.MaxPollRetries || timing.Interval != mcp342x.PollInterval {
		t.Errorf("unexpected default timing %+v", timing)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "adc.yaml")
	if err := os.WriteFile(path, []byte("sampling:\n  interval_ms: 500\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Sampling.IntervalMs != 500 {
		t.Errorf("expected 500, got %d", cfg.Sampling.IntervalMs)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := map[string]struct {
		mutate   func(cfg *Config)
		contains string
	}{
		"unknown bridge":    {func(c *Config) { c.Bridge.Type = "arduino" }, "bridge.type"},
		"negative scl":      {func(c *Config) { pin := -1; c.Bridge.SCLPin = &pin }, "bridge.scl_pin"},
		"address too large": {func(c *Config) { c.Device.Address = 0x80 }, "device.address"},
		"gain":              {func(c *Config) { c.Device.Gain = 3 }, "device.gain"},
		"sample rate":       {func(c *Config) { c.Device.SampleRate = 3 }, "device.sample_rate"},
		"mode":              {func(c *Config) { c.Device.ConversionMode = "burst" }, "device.conversion_mode"},
		"retries":           {func(c *Config) { c.Device.PollRetries = -1 }, "device.poll_retries"},
		"interval":          {func(c *Config) { c.Sampling.IntervalMs = -5 }, "sampling.interval_ms"},
		"channel range":     {func(c *Config) { c.Sampling.Channels[0].Channel = 5 }, "out of range"},
		"duplicate channel": {func(c *Config) { c.Sampling.Channels[1].Channel = 1 }, "configured twice"},
		"duplicate name":    {func(c *Config) { c.Sampling.Channels[1].Name = "ch1" }, "used twice"},
		"kind":              {func(c *Config) { c.Sampling.Channels[0].Kind = "current" }, "unknown kind"},
		"port":              {func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		"ssh port":          {func(c *Config) { c.Server.SSHPort = -2 }, "server.ssh_port"},
		"ssh port clash":    {func(c *Config) { c.Server.SSHPort = c.Server.Port }, "already used"},
	}
	for name, tc := range tests {
		cfg := Default()
		tc.mutate(cfg)
		err := Validate(cfg)
		if err == nil {
			t.Errorf("%s: expected error", name)
			continue
		}
		if !strings.Contains(err.Error(), tc.contains) {
			t.Errorf("%s: expected error containing %q, got %v", name, tc.contains, err)
		}
	}
}

func TestValidate_Nil(t *testing.T) {
	if err := Validate(nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
}
