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

package bridge

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// periphBridge uses the periph.io host drivers to access the I2C bus.
// It has no status leds.
type periphBridge struct {
	mutex  sync.Mutex
	config Config
	bus    *periphBus
}

// NewPeriphBridge implements the bridge on any host supported by periph.io.
// An empty bus name selects the first available bus.
func NewPeriphBridge(cfg Config) (API, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "host.Init failed")
	}
	return &periphBridge{config: cfg}, nil
}

func (p *periphBridge) SetGreenLED(on bool) error              { return nil }
func (p *periphBridge) SetRedLED(on bool) error                { return nil }
func (p *periphBridge) BlinkGreenLED(delay time.Duration) error { return nil }
func (p *periphBridge) BlinkRedLED(delay time.Duration) error   { return nil }

// Open the I2C bus
func (p *periphBridge) I2CBus() (I2CBus, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.bus == nil {
		bc, err := i2creg.Open(p.config.I2CBus)
		if err != nil {
			return nil, errors.Wrapf(err, "i2creg.Open(%q) failed", p.config.I2CBus)
		}
		p.bus = &periphBus{bus: bc}
	}
	return p.bus, nil
}

func (p *periphBridge) Close() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.bus != nil {
		bus := p.bus
		p.bus = nil
		if err := bus.Close(); err != nil {
			return errors.Wrap(err, "Close failed")
		}
	}
	return nil
}

type periphBus struct {
	mutex sync.Mutex
	bus   i2c.BusCloser
}

// Execute runs the operation on the device at the given 7-bit address.
func (b *periphBus) Execute(ctx context.Context, address uint8, op func(context.Context, I2CDevice) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mutex.Lock()
	defer b.mutex.Unlock()

	label := strconv.Itoa(int(address))
	i2cExecuteCounters.WithLabelValues(label).Inc()
	dev := &periphDevice{dev: i2c.Dev{Bus: b.bus, Addr: uint16(address)}}
	if err := op(ctx, dev); err != nil {
		i2cExecuteErrorCounters.WithLabelValues(label).Inc()
		return err
	}
	return nil
}

// Close the bus
func (b *periphBus) Close() error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	return b.bus.Close()
}

type periphDevice struct {
	dev i2c.Dev
}

// Read a block of data directly from the device
func (d *periphDevice) ReadDevice(data []byte) error {
	return d.dev.Tx(nil, data)
}

// Write a block of data directly to the device
func (d *periphDevice) WriteDevice(data []byte) error {
	return d.dev.Tx(data, nil)
}
