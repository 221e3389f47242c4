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

package thermistor

import (
	"math"
	"testing"
)

func TestResistance(t *testing.T) {
	// Half the supply means both resistors are equal
	r, err := Default.Resistance(Default.VRef / 2)
	if err != nil {
		t.Fatalf("Resistance failed: %v", err)
	}
	if math.Abs(r-Default.RTop) > 1e-6 {
		t.Errorf("Expected %v, got %v", Default.RTop, r)
	}
}

func TestOutOfRange(t *testing.T) {
	for _, v := range []float64{0, -1, Default.VRef, 5} {
		if _, err := Default.Celsius(v); err == nil {
			t.Errorf("Expected error for %gV", v)
		}
	}
}

func TestTemperatureDecreasesWithVoltage(t *testing.T) {
	// An NTC has a lower resistance, so a lower voltage, when it gets warmer
	low, err := Default.Celsius(0.5)
	if err != nil {
		t.Fatalf("Celsius failed: %v", err)
	}
	high, err := Default.Celsius(1.5)
	if err != nil {
		t.Fatalf("Celsius failed: %v", err)
	}
	if low <= high {
		t.Errorf("Expected %v > %v", low, high)
	}
}

func TestFahrenheit(t *testing.T) {
	c, _ := Default.Celsius(1.0)
	f, err := Default.Fahrenheit(1.0)
	if err != nil {
		t.Fatalf("Fahrenheit failed: %v", err)
	}
	if math.Abs(f-(c*9/5+32)) > 1e-9 {
		t.Errorf("Expected %v, got %v", c*9/5+32, f)
	}
}

func TestCelsiusUsesExactKelvinOffset(t *testing.T) {
	k, err := Default.Kelvin(1.65)
	if err != nil {
		t.Fatalf("Kelvin failed: %v", err)
	}
	c, err := Default.Celsius(1.65)
	if err != nil {
		t.Fatalf("Celsius failed: %v", err)
	}
	if math.Abs((k-c)-273.15) > 1e-9 {
		t.Errorf("Expected offset of 273.15, got %v", k-c)
	}
}
