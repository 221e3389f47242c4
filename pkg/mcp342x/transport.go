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

package mcp342x

// Reader reads len(data) bytes from the device at the given bus address.
// The address is the 8-bit wire address including the read bit.
type Reader interface {
	Read(address uint8, data []byte) error
}

// Writer writes data to the device at the given bus address.
// The address is the 8-bit wire address with the read bit cleared.
type Writer interface {
	Write(address uint8, data []byte) error
}

// Delayer blocks for at least the given number of microseconds.
type Delayer interface {
	DelayMicroseconds(period uint32)
}

// Transport combines all capabilities the driver needs from the host.
type Transport interface {
	Reader
	Writer
	Delayer
}

// ReadFunc adapts a function to the Reader interface.
type ReadFunc func(address uint8, data []byte) error

// Read calls f(address, data).
func (f ReadFunc) Read(address uint8, data []byte) error { return f(address, data) }

// WriteFunc adapts a function to the Writer interface.
type WriteFunc func(address uint8, data []byte) error

// Write calls f(address, data).
func (f WriteFunc) Write(address uint8, data []byte) error { return f(address, data) }

// DelayFunc adapts a function to the Delayer interface.
type DelayFunc func(period uint32)

// DelayMicroseconds calls f(period).
func (f DelayFunc) DelayMicroseconds(period uint32) { f(period) }

// Interface is the hardware interface of a single device.
// Any capability may be nil; operations that need it fail with
// ErrNullReference.
type Interface struct {
	// 7-bit bus address of the device
	Address uint8
	Reader  Reader
	Writer  Writer
	Delayer Delayer
}

// NewInterface creates an Interface that uses the given transport for
// all capabilities.
func NewInterface(address uint8, t Transport) Interface {
	return Interface{
		Address: address,
		Reader:  t,
		Writer:  t,
		Delayer: t,
	}
}

// WriteAddress returns the wire address used for write transactions.
func (i Interface) WriteAddress() uint8 { return i.Address << 1 }

// ReadAddress returns the wire address used for read transactions.
func (i Interface) ReadAddress() uint8 { return (i.Address << 1) | 0x01 }
