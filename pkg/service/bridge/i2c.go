// Copyright 2020 Ewout Prangsma
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
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/ecc1/gpio"
	aerr "github.com/ewoutp/go-aggregate-error"
)

type I2CBus interface {
	// Execute an operation on the device at the given 7-bit address.
	Execute(ctx context.Context, address uint8, op func(ctx context.Context, dev I2CDevice) error) error
	// Close the bus and all devices on it
	Close() error
}

// I2CDevice communicates with a device on the I2C Bus that has a specific address.
type I2CDevice interface {
	// Read a block of data directly from the device (/dev/...)
	ReadDevice(data []byte) (err error)
	// Write a block of data directly to the device (/dev/...)
	WriteDevice(data []byte) (err error)
}

type i2cBus struct {
	location             string
	devices              map[uint8]*i2cDevice
	queue                chan func()
	sclPin               int
	tryRecoverFromLockup bool
}

type singleAttemptKey struct{}

// WithSingleAttempt returns a context under which a failed bus operation
// is returned to the caller without being repeated.
func WithSingleAttempt(ctx context.Context) context.Context {
	return context.WithValue(ctx, singleAttemptKey{}, true)
}

func isSingleAttempt(ctx context.Context) bool {
	v, _ := ctx.Value(singleAttemptKey{}).(bool)
	return v
}

const (
	I2C_RECOVER_NUM_CLOCKS = 10    /* # clock cycles for recovery  */
	I2C_RECOVER_CLOCK_FREQ = 50000 /* clock frequency for recovery */

	I2C_RECOVER_CLOCK_DELAY_US = (1000000 / (2 * I2C_RECOVER_CLOCK_FREQ))
)

// NewI2CBus returns accessors the the I2C bus at the given location.
// A negative sclPin disables lockup recovery.
func NewI2CBus(location string, sclPin int) (I2CBus, error) {
	b := &i2cBus{
		location:             location,
		devices:              make(map[uint8]*i2cDevice),
		queue:                make(chan func()),
		sclPin:               sclPin,
		tryRecoverFromLockup: sclPin >= 0,
	}
	go b.queueProcessor(context.Background())
	if b.tryRecoverFromLockup {
		if err := b.recoverFromLockup(); err != nil {
			return nil, fmt.Errorf("failed to recover bus at startup: %w", err)
		}
		time.Sleep(time.Second * 2)
	}
	return b, nil
}

// Execute queues the given operation for the device at the given 7-bit
// address and waits for its result.
func (b *i2cBus) Execute(ctx context.Context, address uint8, op func(context.Context, I2CDevice) error) error {
	result := make(chan error, 1)

	// Prepare request
	req := func() {
		result <- b.execute(ctx, address, op)
	}

	// Put request in queue
	select {
	case b.queue <- req:
		// Request is on the queue
	case <-ctx.Done():
		// Context canceled
		return ctx.Err()
	}

	// Wait until result is available
	return <-result
}

// Process bus requests from the queue until the given context is canceled.
func (b *i2cBus) queueProcessor(ctx context.Context) {
	// Ensure we're always using the same OS thread
	runtime.LockOSThread()

	// Process the queue
	for {
		select {
		case req, ok := <-b.queue:
			if ok {
				// Execute the given request
				req()
			} else {
				// Queue closed
				return
			}
		case <-ctx.Done():
			// Context canceled
			return
		}
	}
}

// execute runs the operation on the queue processor thread.
// A failed operation closes all devices and recovers the bus, after which
// it is run once more unless the context asks for a single attempt.
func (b *i2cBus) execute(ctx context.Context, address uint8, op func(context.Context, I2CDevice) error) error {
	i2cExecuteCounters.WithLabelValues(strconv.Itoa(int(address))).Inc()

	attempts := 2
	if isSingleAttempt(ctx) {
		attempts = 1
	}
	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		// Open device
		var dev *i2cDevice
		dev, err = b.openDevice(address)
		if err != nil {
			i2cExecuteErrorCounters.WithLabelValues(strconv.Itoa(int(address))).Inc()
			return fmt.Errorf("openDevice(%d) failed: %w", address, err)
		}

		// Execute operation
		err = op(ctx, dev)
		if err == nil {
			// Success
			return nil
		}

		// Device call failed, close all devices
		for _, d := range b.devices {
			d.closeFile()
		}
		clear(b.devices)

		// Perform recovery (if configured)
		if b.tryRecoverFromLockup {
			i2cRecoveryAttemptsTotal.Inc()
			if err := b.recoverFromLockup(); err != nil {
				i2cRecoveryFailedTotal.Inc()
				return fmt.Errorf("i2c recovery failed: %w", err)
			}
			i2cRecoverySucceededTotal.Inc()
		} else {
			i2cRecoverySkippedTotal.Inc()
		}
	}
	i2cExecuteErrorCounters.WithLabelValues(strconv.Itoa(int(address))).Inc()
	if attempts == 1 {
		return err
	}
	return fmt.Errorf("operation on i2c device 0x%02x failed twice: %w", address, err)
}

// Open a connection to a device at the given address.
func (b *i2cBus) openDevice(address uint8) (*i2cDevice, error) {
	// Did we already open the device?
	if d, found := b.devices[address]; found {
		return d, nil
	}

	// Open new device
	d, err := newI2CDevice(b.location, address)
	if err != nil {
		return nil, err
	}

	// Register device
	b.devices[address] = d

	return d, nil
}

// Close the bus and all devices on it
func (b *i2cBus) Close() error {
	done := make(chan struct{})
	var ae aerr.AggregateError
	b.queue <- func() {
		defer close(done)

		// Close all open devices
		for addr, d := range b.devices {
			if err := d.closeFile(); err != nil {
				ae.Add(err)
			}
			delete(b.devices, addr)
		}
	}

	// Wait until ready
	<-done
	return ae.AsError()
}

// Try to recover the i2c bus from lockup by clocking SCL until the
// slave releases SDA.
func (b *i2cBus) recoverFromLockup() error {
	activeLow := true
	initialValue := true
	scl, err := gpio.Output(b.sclPin, activeLow, initialValue)
	if err != nil {
		return fmt.Errorf("failed to set scl pin to output: %w", err)
	}
	for i := 0; i < I2C_RECOVER_NUM_CLOCKS; i++ {
		time.Sleep(time.Microsecond * I2C_RECOVER_CLOCK_DELAY_US)
		if err := scl.Write(false); err != nil {
			return fmt.Errorf("failed to lower scl during i2c recovery: %w", err)
		}
		time.Sleep(time.Microsecond * I2C_RECOVER_CLOCK_DELAY_US)
		if err := scl.Write(true); err != nil {
			return fmt.Errorf("failed to raise scl during i2c recovery: %w", err)
		}
	}
	// Reset pin to be input
	if _, err := gpio.Input(b.sclPin, activeLow); err != nil {
		return fmt.Errorf("failed to reset scl pin to input: %w", err)
	}
	// Unexport the pin
	unexportPath := "/sys/class/gpio/unexport"
	unexportContent := strconv.Itoa(b.sclPin)
	if err := os.WriteFile(unexportPath, []byte(unexportContent), 0644); err != nil {
		return fmt.Errorf("failed to unexport scl pin to input: %w", err)
	}
	return nil
}
