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

// Package publisher forwards samples to an MQTT broker.
package publisher

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	mqttapi "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/binkynet/ADCWorker/pkg/service"
)

const (
	mqttPublishTimeout = time.Millisecond * 200
	mqttConnectTimeout = time.Second * 5
)

type Config struct {
	// Broker address, e.g. tcp://localhost:1883
	Broker      string
	ClientID    string
	TopicPrefix string
}

// MQTT publishes every sample as JSON on <prefix>/<channel-name>/sample.
type MQTT struct {
	log         zerolog.Logger
	mutex       sync.Mutex
	topicPrefix string
	client      mqttapi.Client
}

var _ service.Publisher = &MQTT{}

// NewMQTT creates a publisher and connects it to the broker.
func NewMQTT(log zerolog.Logger, cfg Config) (*MQTT, error) {
	broker := cfg.Broker
	if !strings.Contains(broker, "://") {
		broker = "tcp://" + broker
	}
	opts := mqttapi.NewClientOptions().
		AddBroker(broker).
		SetClientID(cfg.ClientID)
	opts.SetKeepAlive(2 * time.Second)
	opts.SetPingTimeout(1 * time.Second)
	opts.SetOrderMatters(false)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)

	p := &MQTT{
		log:         log.With().Str("component", "mqtt-publisher").Logger(),
		topicPrefix: prefixOf(cfg.TopicPrefix),
	}
	opts.SetConnectionLostHandler(func(c mqttapi.Client, err error) {
		p.log.Warn().Err(err).Msg("Lost connection to MQTT broker")
	})
	opts.SetOnConnectHandler(func(c mqttapi.Client) {
		p.log.Info().Str("broker", broker).Msg("Connected to MQTT broker")
	})

	p.client = mqttapi.NewClient(opts)
	token := p.client.Connect()
	if !token.WaitTimeout(mqttConnectTimeout) {
		// Connection is retried in the background
		p.log.Warn().Str("broker", broker).Msg("MQTT broker not reachable yet")
	} else if err := token.Error(); err != nil {
		return nil, errors.Wrapf(err, "failed to connect to mqtt broker %s", broker)
	}
	return p, nil
}

// prefixOf returns the given topic prefix with a single trailing slash.
func prefixOf(prefix string) string {
	return strings.TrimSuffix(prefix, "/") + "/"
}

// Topic returns the topic that samples of the given channel are published on.
func (p *MQTT) Topic(name string) string {
	return fmt.Sprintf("%s%s/sample", p.topicPrefix, name)
}

// Publish sends the sample to the broker.
func (p *MQTT) Publish(s service.Sample) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "failed to encode sample")
	}
	topic := p.Topic(s.Name)

	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.client == nil {
		return errors.New("publisher closed")
	}
	token := p.client.Publish(topic, 0, false, payload)
	if !token.WaitTimeout(mqttPublishTimeout) {
		p.log.Error().
			Str("topic", topic).
			Msg("failed to deliver MQTT sample in time")
		return nil
	}
	return token.Error()
}

// Close disconnects from the broker.
func (p *MQTT) Close() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.client != nil {
		p.client.Disconnect(250)
		p.client = nil
	}
	return nil
}
