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
	"time"
)

// API of the bridge, the hardware used to connect the host to the I2C bus
// that the ADC is connected to.
type API interface {
	// Turn Green status led on/off
	SetGreenLED(on bool) error
	// Turn Red status led on/off
	SetRedLED(on bool) error
	// Blink Green status led with given duration between on/off
	BlinkGreenLED(delay time.Duration) error
	// Blink Red status led with given duration between on/off
	BlinkRedLED(delay time.Duration) error

	// Open the I2C bus
	I2CBus() (I2CBus, error)

	Close() error
}

// Type of bridge
type Type string

const (
	TypeRaspberryPi  Type = "rpi"
	TypeOrangePiZero Type = "opz"
	TypePeriph       Type = "periph"
	TypeVirtual      Type = "virtual"
)

// Config of a bridge.
type Config struct {
	// Path of the I2C device (rpi, opz) or periph bus name (periph)
	I2CBus string
	// GPIO number of the SCL pin, used to recover a locked bus.
	// Negative disables recovery.
	SCLPin int
}

// New creates a bridge of the given type.
func New(t Type, cfg Config) (API, error) {
	switch t {
	case TypeRaspberryPi:
		return NewRaspberryPiBridge(cfg)
	case TypeOrangePiZero:
		return NewOrangePiZeroBridge(cfg)
	case TypePeriph:
		return NewPeriphBridge(cfg)
	case TypeVirtual:
		return NewVirtualBridge()
	default:
		return nil, InvalidArgument("Unknown bridge type '%s'", string(t))
	}
}
