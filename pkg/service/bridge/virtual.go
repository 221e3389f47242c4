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

package bridge

import (
	"context"
	"strconv"
	"sync"
	"time"
)

const (
	// Number of reads a simulated conversion stays pending
	virtualPendingPolls = 2
)

// VirtualBridge implements the bridge without hardware.
// Every address on its bus holds a SimulatedADC.
type VirtualBridge struct {
	mutex   sync.Mutex
	devices map[uint8]*SimulatedADC
}

// NewVirtualBridge implements the bridge for a virtual worker.
func NewVirtualBridge() (*VirtualBridge, error) {
	return &VirtualBridge{
		devices: make(map[uint8]*SimulatedADC),
	}, nil
}

// Device returns the simulated device at the given 7-bit address.
func (p *VirtualBridge) Device(address uint8) *SimulatedADC {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	d, found := p.devices[address]
	if !found {
		d = NewSimulatedADC(virtualPendingPolls)
		p.devices[address] = d
	}
	return d
}

// Turn Green status led on/off
func (p *VirtualBridge) SetGreenLED(on bool) error {
	return nil
}

// Turn Red status led on/off
func (p *VirtualBridge) SetRedLED(on bool) error {
	return nil
}

// Blink Green status led with given duration between on/off
func (p *VirtualBridge) BlinkGreenLED(delay time.Duration) error {
	return nil
}

// Blink Red status led with given duration between on/off
func (p *VirtualBridge) BlinkRedLED(delay time.Duration) error {
	return nil
}

// Open the I2C bus
func (p *VirtualBridge) I2CBus() (I2CBus, error) {
	return p, nil
}

func (p *VirtualBridge) Close() error {
	return nil
}

// Execute runs the operation on the device at the given 7-bit address.
func (p *VirtualBridge) Execute(ctx context.Context, address uint8, op func(ctx context.Context, dev I2CDevice) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	label := strconv.Itoa(int(address))
	i2cExecuteCounters.WithLabelValues(label).Inc()
	if err := op(ctx, p.Device(address)); err != nil {
		i2cExecuteErrorCounters.WithLabelValues(label).Inc()
		return err
	}
	return nil
}
