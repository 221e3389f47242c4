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

const (
	rpiGreenLedPin = 23
	rpiRedLedPin   = 24
	rpiI2CBus      = "/dev/i2c-1"

	opzGreenLedPin = 19
	opzRedLedPin   = 18
	opzI2CBus      = "/dev/i2c-0"
)

// NewRaspberryPiBridge implements the bridge for Raspberry PI's
func NewRaspberryPiBridge(cfg Config) (API, error) {
	if cfg.I2CBus == "" {
		cfg.I2CBus = rpiI2CBus
	}
	return newLedBridge(cfg, rpiGreenLedPin, rpiRedLedPin)
}

// NewOrangePiZeroBridge implements the bridge for an Orange PI Zero
func NewOrangePiZeroBridge(cfg Config) (API, error) {
	if cfg.I2CBus == "" {
		cfg.I2CBus = opzI2CBus
	}
	return newLedBridge(cfg, opzGreenLedPin, opzRedLedPin)
}
