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
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// newTestBus creates a bus on a regular file with a pre-opened device at
// the given address. Opening a new device on that file always fails.
func newTestBus(t *testing.T, address uint8) *i2cBus {
	location := filepath.Join(t.TempDir(), "i2c-test")
	f, err := os.Create(location)
	if err != nil {
		t.Fatal(err)
	}
	b := &i2cBus{
		location: location,
		devices:  map[uint8]*i2cDevice{address: {address: address, file: f}},
		queue:    make(chan func()),
		sclPin:   -1,
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go b.queueProcessor(ctx)
	return b
}

func TestI2CBusSingleAttempt(t *testing.T) {
	b := newTestBus(t, 0x68)
	nack := errors.New("nack")
	calls := 0
	err := b.Execute(WithSingleAttempt(context.Background()), 0x68, func(ctx context.Context, dev I2CDevice) error {
		calls++
		return nack
	})
	if err != nack {
		t.Errorf("Expected operation error as is, got %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
	if len(b.devices) != 0 {
		t.Errorf("Expected devices to be closed after failure")
	}
}

func TestI2CBusRetriesAfterFailure(t *testing.T) {
	b := newTestBus(t, 0x68)
	calls := 0
	err := b.Execute(context.Background(), 0x68, func(ctx context.Context, dev I2CDevice) error {
		calls++
		return errors.New("nack")
	})
	// The second attempt reopens the device, which fails on a regular file
	if err == nil || !strings.Contains(err.Error(), "openDevice") {
		t.Errorf("Expected reopen failure on second attempt, got %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
}

func TestI2CBusSuccess(t *testing.T) {
	b := newTestBus(t, 0x68)
	err := b.Execute(WithSingleAttempt(context.Background()), 0x68, func(ctx context.Context, dev I2CDevice) error {
		return dev.WriteDevice([]byte{0x80})
	})
	if err != nil {
		t.Errorf("Expected success, got %v", err)
	}
	if len(b.devices) != 1 {
		t.Errorf("Expected device to stay open")
	}
}
