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

// Package config contains the configuration file of the ADC worker.
package config

import (
	"bytes"
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var (
	maskAny = errors.WithStack
)

// Config is the root of the configuration file.
type Config struct {
	Bridge   BridgeConfig   `yaml:"bridge"`
	Device   DeviceConfig   `yaml:"device"`
	Sampling SamplingConfig `yaml:"sampling"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	Server   ServerConfig   `yaml:"server"`
}

// BridgeConfig selects the hardware used to reach the I2C bus.
type BridgeConfig struct {
	// rpi | opz | periph | virtual, empty to auto detect
	Type string `yaml:"type"`
	// Path of the I2C device or periph bus name
	I2CBus string `yaml:"i2c_bus"`
	// GPIO number of SCL, used for bus recovery (nil disables recovery)
	SCLPin *int `yaml:"scl_pin"`
}

// DeviceConfig configures the converter.
type DeviceConfig struct {
	// 7-bit bus address
	Address uint8 `yaml:"address"`
	// 1 | 2 | 4 | 8
	Gain int `yaml:"gain"`
	// 240 | 60 | 15 samples per second
	SampleRate int `yaml:"sample_rate"`
	// one-shot | continuous
	ConversionMode string `yaml:"conversion_mode"`
	// Number of polls before a conversion times out
	PollRetries int `yaml:"poll_retries"`
	// Milliseconds between two polls
	PollIntervalMs int `yaml:"poll_interval_ms"`
}

// ChannelKind determines how a sampled voltage is interpreted.
type ChannelKind string

const (
	ChannelKindVoltage    ChannelKind = "voltage"
	ChannelKindThermistor ChannelKind = "thermistor"
)

// ChannelConfig configures a single sampled channel.
type ChannelConfig struct {
	// 1 based channel number
	Channel int         `yaml:"channel"`
	Name    string      `yaml:"name"`
	Kind    ChannelKind `yaml:"kind"`
}

// SamplingConfig configures the periodic sampling.
type SamplingConfig struct {
	// Milliseconds between two sample rounds
	IntervalMs int             `yaml:"interval_ms"`
	Channels   []ChannelConfig `yaml:"channels"`
}

// MQTTConfig configures publication of samples.
// An empty broker disables publication.
type MQTTConfig struct {
	Broker      string `yaml:"broker"`
	ClientID    string `yaml:"client_id"`
	TopicPrefix string `yaml:"topic_prefix"`
}

// ServerConfig configures the HTTP and SSH servers.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// Port of the SSH server serving the sample UI, -1 disables it
	SSHPort int `yaml:"ssh_port"`
	// Path of the SSH host key, created when missing
	HostKeyPath string `yaml:"host_key_path"`
}

// Interval returns the sampling interval.
func (c SamplingConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMs) * time.Millisecond
}

// Parse decodes, normalizes and validates the given YAML document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode configuration")
	}
	Normalize(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, maskAny(err)
	}
	return &cfg, nil
}

// Load reads the configuration file at the given path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid configuration in %s", path)
	}
	return cfg, nil
}

// Default returns a normalized configuration that samples all channels.
func Default() *Config {
	var cfg Config
	Normalize(&cfg)
	return &cfg
}
