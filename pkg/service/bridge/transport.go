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
	"errors"
	"syscall"
	"time"

	"github.com/binkynet/ADCWorker/pkg/mcp342x"
)

const (
	// Maximum duration of a single transport operation on the bus
	defaultTransportTimeout = time.Second
)

// transport implements mcp342x.Transport on an I2CBus.
type transport struct {
	bus     I2CBus
	timeout time.Duration
}

var _ mcp342x.Transport = &transport{}

// NewTransport creates a driver transport that executes all transactions
// on the given bus.
func NewTransport(bus I2CBus) mcp342x.Transport {
	return &transport{
		bus:     bus,
		timeout: defaultTransportTimeout,
	}
}

// Read reads from the device at the given 8-bit wire address.
func (t *transport) Read(address uint8, data []byte) error {
	if address&0x01 == 0 {
		return mcp342x.ErrInvalidParameter
	}
	transportOpsTotal.WithLabelValues("read").Inc()
	return t.execute(address>>1, func(dev I2CDevice) error {
		return dev.ReadDevice(data)
	})
}

// Write writes to the device at the given 8-bit wire address.
func (t *transport) Write(address uint8, data []byte) error {
	if address&0x01 != 0 {
		return mcp342x.ErrInvalidParameter
	}
	transportOpsTotal.WithLabelValues("write").Inc()
	return t.execute(address>>1, func(dev I2CDevice) error {
		return dev.WriteDevice(data)
	})
}

// DelayMicroseconds blocks for the given period.
func (t *transport) DelayMicroseconds(period uint32) {
	transportOpsTotal.WithLabelValues("delay").Inc()
	time.Sleep(time.Duration(period) * time.Microsecond)
}

func (t *transport) execute(address uint8, op func(dev I2CDevice) error) error {
	ctx, cancel := context.WithTimeout(WithSingleAttempt(context.Background()), t.timeout)
	defer cancel()
	err := t.bus.Execute(ctx, address, func(_ context.Context, dev I2CDevice) error {
		return op(dev)
	})
	if errors.Is(err, syscall.EBUSY) {
		return mcp342x.ErrBusy
	}
	return err
}
