//    Copyright 2017 Ewout Prangsma
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

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	terminate "github.com/pulcy/go-terminate"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/binkynet/ADCWorker/pkg/config"
	"github.com/binkynet/ADCWorker/pkg/environment"
	"github.com/binkynet/ADCWorker/pkg/logging"
	"github.com/binkynet/ADCWorker/pkg/server"
	"github.com/binkynet/ADCWorker/pkg/service"
	"github.com/binkynet/ADCWorker/pkg/service/bridge"
	"github.com/binkynet/ADCWorker/pkg/service/publisher"
	"github.com/binkynet/ADCWorker/pkg/ui"
)

const (
	projectName = "BinkyNet ADC Worker"
)

var (
	projectVersion = "dev"
	projectBuild   = "dev"
	maskAny        = errors.WithStack
)

func main() {
	var levelFlag string
	var configPath string
	var logFile string
	var bridgeType string
	var i2cBus string
	var serverHost string
	var serverPort int
	var sshPort int
	var address uint8
	var interval time.Duration
	var mqttBroker string
	var mqttPrefix string
	var showUI bool

	pflag.StringVarP(&levelFlag, "level", "l", "info", "Set log level")
	pflag.StringVarP(&configPath, "config", "c", "", "Path of the YAML configuration file")
	pflag.StringVar(&logFile, "log-file", "", "Path of a file to write JSON logs to")
	pflag.StringVarP(&bridgeType, "bridge", "b", "", "Type of bridge to use (rpi|opz|periph|virtual), auto detected when empty")
	pflag.StringVar(&i2cBus, "i2c-bus", "", "I2C device path or periph bus name")
	pflag.StringVar(&serverHost, "host", config.DefaultServerHost, "Host address the HTTP server will listen on")
	pflag.IntVar(&serverPort, "port", config.DefaultServerPort, "Port the HTTP server will listen on")
	pflag.IntVar(&sshPort, "ssh-port", config.DefaultSSHPort, "Port the SSH server with the sample UI will listen on (-1 disables)")
	pflag.Uint8Var(&address, "address", 0x68, "7-bit I2C address of the converter")
	pflag.DurationVar(&interval, "interval", time.Second, "Time between two sample rounds")
	pflag.StringVar(&mqttBroker, "mqtt-broker", "", "Address of the MQTT broker to publish samples to")
	pflag.StringVar(&mqttPrefix, "mqtt-prefix", config.DefaultTopicPrefix, "Prefix of the MQTT topics")
	pflag.BoolVar(&showUI, "tui", false, "Show the latest samples in a terminal UI")
	pflag.Parse()

	// Prepare logging
	var consoleOut io.Writer = zerolog.ConsoleWriter{Out: os.Stderr}
	if showUI {
		// Terminal belongs to the UI
		consoleOut = io.Discard
	}
	logOut := consoleOut
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			Exitf("Failed to open log file %s: %v\n", logFile, err)
		}
		defer f.Close()
		logOut = logging.NewMultiWriter(consoleOut, f)
	}
	logger := zerolog.New(logOut).With().Timestamp().Logger()
	level, err := zerolog.ParseLevel(levelFlag)
	if err != nil {
		Exitf("Invalid log level '%s': %v\n", levelFlag, err)
	}
	logger = logger.Level(level)

	// Load configuration
	cfg := config.Default()
	if configPath != "" {
		cfg, err = config.Load(configPath)
		if err != nil {
			Exitf("Failed to load configuration: %v\n", err)
		}
	}
	flags := pflag.CommandLine
	if flags.Changed("bridge") {
		cfg.Bridge.Type = bridgeType
	}
	if flags.Changed("i2c-bus") {
		cfg.Bridge.I2CBus = i2cBus
	}
	if flags.Changed("host") {
		cfg.Server.Host = serverHost
	}
	if flags.Changed("port") {
		cfg.Server.Port = serverPort
	}
	if flags.Changed("ssh-port") {
		cfg.Server.SSHPort = sshPort
	}
	if flags.Changed("address") {
		cfg.Device.Address = address
	}
	if flags.Changed("interval") {
		cfg.Sampling.IntervalMs = int(interval / time.Millisecond)
	}
	if flags.Changed("mqtt-broker") {
		cfg.MQTT.Broker = mqttBroker
	}
	if flags.Changed("mqtt-prefix") {
		cfg.MQTT.TopicPrefix = mqttPrefix
	}
	config.Normalize(cfg)
	if err := config.Validate(cfg); err != nil {
		Exitf("Invalid configuration: %v\n", err)
	}

	// Prepare bridge
	bt := bridge.Type(cfg.Bridge.Type)
	if bt == "" {
		bt = environment.AutoDetectBridgeType(logger)
	}
	bridgeCfg := bridge.Config{I2CBus: cfg.Bridge.I2CBus, SCLPin: -1}
	if cfg.Bridge.SCLPin != nil {
		bridgeCfg.SCLPin = *cfg.Bridge.SCLPin
	}
	br, err := bridge.New(bt, bridgeCfg)
	if err != nil {
		Exitf("Failed to initialize %s bridge: %v\n", bt, err)
	}
	defer br.Close()
	logger.Info().Str("bridge", string(bt)).Msg("Initialized bridge")

	// Prepare publisher
	var pub service.Publisher
	if cfg.MQTT.Broker != "" {
		mqttPub, err := publisher.NewMQTT(logger, publisher.Config{
			Broker:      cfg.MQTT.Broker,
			ClientID:    cfg.MQTT.ClientID,
			TopicPrefix: cfg.MQTT.TopicPrefix,
		})
		if err != nil {
			Exitf("Failed to initialize MQTT publisher: %v\n", err)
		}
		defer mqttPub.Close()
		pub = mqttPub
	}

	// Prepare service
	svcCfg, err := service.NewConfig(cfg)
	if err != nil {
		Exitf("Invalid service configuration: %v\n", err)
	}
	svc, err := service.NewService(svcCfg, service.Dependencies{
		Logger:    logger,
		Bridge:    br,
		Publisher: pub,
	})
	if err != nil {
		Exitf("Failed to initialize Service: %v\n", err)
	}

	title := fmt.Sprintf("%s 0x%02x", projectName, cfg.Device.Address)
	httpServer, err := server.New(server.Config{
		Host:        cfg.Server.Host,
		HTTPPort:    cfg.Server.Port,
		SSHPort:     cfg.Server.SSHPort,
		HostKeyPath: cfg.Server.HostKeyPath,
	}, logger, ui.SSHHandler{Source: svc, Title: title}, svc)
	if err != nil {
		Exitf("Failed to initialize Server: %v\n", err)
	}

	// Prepare to shutdown in a controlled manor
	ctx, cancel := context.WithCancel(context.Background())
	t := terminate.NewTerminator(func(template string, args ...interface{}) {
		logger.Info().Msgf(template, args...)
	}, cancel)
	go t.ListenSignals()

	logger.Info().Msgf("Starting %s (version %s build %s)", projectName, projectVersion, projectBuild)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return svc.Run(ctx) })
	g.Go(func() error { return httpServer.Run(ctx) })
	if showUI {
		g.Go(func() error {
			defer cancel()
			p := tea.NewProgram(ui.New(svc, title), tea.WithAltScreen(), tea.WithContext(ctx))
			if _, err := p.Run(); err != nil && ctx.Err() == nil {
				return maskAny(err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		Exitf("Service run failed: %v\n", err)
	}
}

// Print the given error message and exit with code 1
func Exitf(message string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, message, args...)
	os.Exit(1)
}
