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

// Package thermistor converts the voltage over an NTC thermistor in a
// voltage divider into a temperature.
package thermistor

import (
	"fmt"
	"math"
)

// Divider describes a thermistor at the bottom of a voltage divider.
// A, B and C are the Steinhart-Hart coefficients of the thermistor.
type Divider struct {
	A, B, C float64
	// Supply voltage of the divider
	VRef float64
	// Resistance of the top resistor in Ohm
	RTop float64
}

// Default is a 10k NTC thermistor under a 30.1k resistor on 3.3V.
var Default = Divider{
	A:    0.0008972439213,
	B:    0.0002500990711,
	C:    0.0000001961752076,
	VRef: 3.3,
	RTop: 30100,
}

const kelvinOffset = 273.15

// Resistance returns the resistance of the thermistor for the given
// voltage over it.
func (d Divider) Resistance(voltage float64) (float64, error) {
	if voltage <= 0 || voltage >= d.VRef {
		return 0, fmt.Errorf("voltage %gV out of range (0, %gV)", voltage, d.VRef)
	}
	return (voltage * d.RTop) / (d.VRef - voltage), nil
}

// Kelvin returns the temperature in Kelvin for the given voltage.
func (d Divider) Kelvin(voltage float64) (float64, error) {
	r, err := d.Resistance(voltage)
	if err != nil {
		return 0, err
	}
	lnR := math.Log(r)
	return 1 / (d.A + d.B*lnR + d.C*lnR*lnR*lnR), nil
}

// Celsius returns the temperature in degrees Celsius for the given voltage.
func (d Divider) Celsius(voltage float64) (float64, error) {
	k, err := d.Kelvin(voltage)
	if err != nil {
		return 0, err
	}
	return k - kelvinOffset, nil
}

// Fahrenheit returns the temperature in degrees Fahrenheit for the given voltage.
func (d Divider) Fahrenheit(voltage float64) (float64, error) {
	c, err := d.Celsius(voltage)
	if err != nil {
		return 0, err
	}
	return c*9/5 + 32, nil
}
