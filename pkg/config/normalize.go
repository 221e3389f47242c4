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
	"strings"

	"github.com/binkynet/ADCWorker/pkg/mcp342x"
)

const (
	DefaultGain           = 1
	DefaultSampleRate     = 240
	DefaultConversionMode = "one-shot"
	DefaultIntervalMs     = 1000
	DefaultTopicPrefix    = "binky/adc"
	DefaultClientID       = "binky-adc-worker"
	DefaultServerHost     = "0.0.0.0"
	DefaultServerPort     = 7130
	DefaultSSHPort        = 7131
	DefaultHostKeyPath    = ".ssh/id_ed25519"
)

// Normalize fills in defaults for all unset fields.
// A configuration without channels samples all channels as plain voltages.
func Normalize(cfg *Config) {
	cfg.Bridge.Type = strings.ToLower(strings.TrimSpace(cfg.Bridge.Type))

	if cfg.Device.Address == 0 {
		cfg.Device.Address = mcp342x.DefaultAddress
	}
	if cfg.Device.Gain == 0 {
		cfg.Device.Gain = DefaultGain
	}
	if cfg.Device.SampleRate == 0 {
		cfg.Device.SampleRate = DefaultSampleRate
	}
	cfg.Device.ConversionMode = strings.ToLower(strings.TrimSpace(cfg.Device.ConversionMode))
	if cfg.Device.ConversionMode == "" {
		cfg.Device.ConversionMode = DefaultConversionMode
	}
	if cfg.Device.PollRetries == 0 {
		cfg.Device.PollRetries = mcp342x.MaxPollRetries
	}
	if cfg.Device.PollIntervalMs == 0 {
		cfg.Device.PollIntervalMs = int(mcp342x.PollInterval.Milliseconds())
	}

	if cfg.Sampling.IntervalMs == 0 {
		cfg.Sampling.IntervalMs = DefaultIntervalMs
	}
	if len(cfg.Sampling.Channels) == 0 {
		for ch := 1; ch <= int(mcp342x.ChannelCount); ch++ {
			cfg.Sampling.Channels = append(cfg.Sampling.Channels, ChannelConfig{Channel: ch})
		}
	}
	for i := range cfg.Sampling.Channels {
		c := &cfg.Sampling.Channels[i]
		if c.Name == "" {
			c.Name = fmt.Sprintf("ch%d", c.Channel)
		}
		if c.Kind == "" {
			c.Kind = ChannelKindVoltage
		}
	}

	if cfg.MQTT.TopicPrefix == "" {
		cfg.MQTT.TopicPrefix = DefaultTopicPrefix
	}
	cfg.MQTT.TopicPrefix = strings.TrimSuffix(cfg.MQTT.TopicPrefix, "/")
	if cfg.MQTT.ClientID == "" {
		cfg.MQTT.ClientID = DefaultClientID
	}

	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultServerHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.SSHPort == 0 {
		cfg.Server.SSHPort = DefaultSSHPort
	}
	if cfg.Server.HostKeyPath == "" {
		cfg.Server.HostKeyPath = DefaultHostKeyPath
	}
}
