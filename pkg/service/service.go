//    Copyright 2017-2024 Ewout Prangsma
//
//    Licensed under the Apache License, Version 2.0 (the "License");
//    you may not use this file except in compliance with the License.
//    You may obtain a copy of the License at
//
//        http://www.apache.org/licenses/LICENSE-2.0
//
//    Unless required by applicable law or agreed to in writing, software
//    distributed under the License is distributed on an "AS IS" BASIS,
//    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//    See the License for the specific language governing permissions and
//    limitations under the License.

package service

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	aerr "github.com/ewoutp/go-aggregate-error"
	"github.com/mattn/go-pubsub"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/binkynet/ADCWorker/pkg/config"
	"github.com/binkynet/ADCWorker/pkg/mcp342x"
	"github.com/binkynet/ADCWorker/pkg/service/bridge"
	"github.com/binkynet/ADCWorker/pkg/service/util"
	"github.com/binkynet/ADCWorker/pkg/thermistor"
)

var (
	maskAny = errors.WithStack
)

// Service samples the configured channels of a single converter.
type Service interface {
	// Run the sampling loop until the given context is canceled.
	Run(ctx context.Context) error
	// Samples returns the latest sample of every channel, ordered by channel.
	Samples() []Sample
	// Sample returns the latest sample of the given 1 based channel.
	Sample(channel int) (Sample, bool)
	// Subscribe registers a receiver that is called for every new sample.
	Subscribe(cb func(Sample)) context.CancelFunc
}

// Publisher forwards samples to an external system.
type Publisher interface {
	Publish(s Sample) error
}

type Config struct {
	// 7-bit bus address of the converter
	Address uint8
	// Converter settings
	Settings mcp342x.Settings
	// Polling behavior of a conversion
	Timing mcp342x.Timing
	// Channels to sample, in order
	Channels []config.ChannelConfig
	// Time between two sample rounds
	Interval time.Duration
}

// NewConfig builds a service configuration from a configuration file.
func NewConfig(cfg *config.Config) (Config, error) {
	settings, err := cfg.Device.Settings()
	if err != nil {
		return Config{}, maskAny(err)
	}
	return Config{
		Address:  cfg.Device.Address,
		Settings: settings,
		Timing:   cfg.Device.Timing(),
		Channels: cfg.Sampling.Channels,
		Interval: cfg.Sampling.Interval(),
	}, nil
}

type Dependencies struct {
	Logger zerolog.Logger
	Bridge bridge.API
	// Optional
	Publisher Publisher
}

type service struct {
	Config
	Dependencies

	mutex   sync.Mutex
	latest  map[int]Sample
	samples *pubsub.PubSub
}

// NewService creates a Service instance and returns it.
func NewService(conf Config, deps Dependencies) (Service, error) {
	if err := conf.Settings.Validate(); err != nil {
		return nil, errors.Wrap(err, "Invalid converter settings")
	}
	if len(conf.Channels) == 0 {
		return nil, errors.New("No channels configured")
	}
	for _, c := range conf.Channels {
		if !c.DriverChannel().Valid() {
			return nil, errors.Errorf("Invalid channel %d", c.Channel)
		}
	}
	if conf.Interval <= 0 {
		return nil, errors.New("Interval must be positive")
	}
	deps.Logger = deps.Logger.With().Str("component", "service").Logger()
	return &service{
		Config:       conf,
		Dependencies: deps,
		latest:       make(map[int]Sample),
		samples:      pubsub.New(),
	}, nil
}

// Run opens the bus, writes the initial configuration and then samples
// all configured channels every interval.
func (s *service) Run(ctx context.Context) error {
	log := s.Logger.With().Str("address", "0x"+strconv.FormatUint(uint64(s.Address), 16)).Logger()

	bus, err := s.Bridge.I2CBus()
	if err != nil {
		s.Bridge.SetRedLED(true)
		return errors.Wrap(err, "Failed to open I2C bus")
	}
	dev := mcp342x.NewDevice(s.Address, bridge.NewTransport(bus), s.Settings)
	dev.Timing = s.Timing

	if s.Publisher != nil {
		cancel := s.Subscribe(func(sample Sample) {
			if err := s.Publisher.Publish(sample); err != nil {
				log.Warn().Err(err).Str("channel", sample.Name).Msg("Failed to publish sample")
			}
		})
		defer cancel()
	}

	if err := dev.WriteConfig(); err != nil {
		// Keep going, every conversion writes the configuration again
		log.Warn().Err(err).Msg("Failed to write initial configuration")
	}
	log.Info().
		Str("settings", s.Settings.Apply(0).String()).
		Int("channels", len(s.Channels)).
		Dur("interval", s.Interval).
		Msg("Started sampling")

	s.Bridge.BlinkGreenLED(time.Millisecond * 250)
	s.Bridge.SetRedLED(false)
	healthy := true
	util.UntilCanceled(ctx, log, "sampling", s.Interval, func() error {
		err := s.sampleRound(ctx, log, dev)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil && healthy {
			s.Bridge.SetGreenLED(false)
			s.Bridge.SetRedLED(true)
		} else if err == nil && !healthy {
			s.Bridge.SetRedLED(false)
			s.Bridge.BlinkGreenLED(time.Millisecond * 250)
		}
		healthy = err == nil
		return err
	})
	s.Bridge.SetGreenLED(false)
	return nil
}

// sampleRound samples every configured channel once.
func (s *service) sampleRound(ctx context.Context, log zerolog.Logger, dev *mcp342x.Device) error {
	var ae aerr.AggregateError
	for _, c := range s.Channels {
		if ctx.Err() != nil {
			return nil
		}
		sample, err := s.sampleChannel(ctx, dev, c)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			sampleErrorsTotal.WithLabelValues(c.Name, string(mcp342x.CodeOf(err))).Inc()
			ae.Add(errors.Wrapf(err, "channel %s", c.Name))
			continue
		}
		log.Debug().
			Str("channel", c.Name).
			Uint16("code", sample.OutputCode).
			Float64("voltage", sample.Voltage).
			Msg("Sampled")
		s.record(sample)
	}
	return ae.AsError()
}

// sampleChannel performs a single conversion of the given channel.
func (s *service) sampleChannel(ctx context.Context, dev *mcp342x.Device, c config.ChannelConfig) (Sample, error) {
	ch := c.DriverChannel()
	start := time.Now()
	if err := dev.SampleChannelContext(ctx, ch); err != nil {
		return Sample{}, err
	}
	sampleDuration.WithLabelValues(c.Name).Observe(time.Since(start).Seconds())
	result := dev.Results[ch]
	sample := Sample{
		Channel:    c.Channel,
		Name:       c.Name,
		Kind:       c.Kind,
		OutputCode: result.OutputCode,
		Voltage:    result.Voltage,
		Timestamp:  time.Now(),
	}
	if c.Kind == config.ChannelKindThermistor {
		celsius, err := thermistor.Default.Celsius(result.Voltage)
		if err != nil {
			sampleErrorsTotal.WithLabelValues(c.Name, "thermistor").Inc()
			s.Logger.Debug().Err(err).Str("channel", c.Name).Msg("No temperature for sample")
		} else {
			sample.Temperature = &celsius
			temperatureGauge.WithLabelValues(c.Name).Set(celsius)
		}
	}
	return sample, nil
}

// record stores the sample as latest of its channel and notifies subscribers.
func (s *service) record(sample Sample) {
	samplesTotal.WithLabelValues(sample.Name).Inc()
	voltageGauge.WithLabelValues(sample.Name).Set(sample.Voltage)

	s.mutex.Lock()
	s.latest[sample.Channel] = sample
	s.mutex.Unlock()

	s.samples.Pub(sample)
}

// Samples returns the latest sample of every channel, ordered by channel.
func (s *service) Samples() []Sample {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	result := make([]Sample, 0, len(s.latest))
	for _, sample := range s.latest {
		result = append(result, sample)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Channel < result[j].Channel })
	return result
}

// Sample returns the latest sample of the given 1 based channel.
func (s *service) Sample(channel int) (Sample, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	sample, found := s.latest[channel]
	return sample, found
}

// Subscribe registers a receiver that is called for every new sample.
func (s *service) Subscribe(cb func(Sample)) context.CancelFunc {
	wcb := func(x Sample) {
		cb(x)
	}
	s.samples.Sub(wcb)
	return func() {
		s.samples.Leave(wcb)
	}
}
