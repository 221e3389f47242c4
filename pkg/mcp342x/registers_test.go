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

import "testing"

func TestConfigPackUnpack(t *testing.T) {
	for g := GainX1; g <= GainX8; g++ {
		for r := SampleRate240SPS; r <= sampleRateReserved; r++ {
			for m := ConversionModeOneShot; m <= ConversionModeContinuous; m++ {
				for ch := Channel1; ch <= Channel4; ch++ {
					for _, ready := range []bool{false, true} {
						c := NewConfig(g, r, m, ch, ready)
						if c.Gain() != g || c.SampleRate() != r || c.ConversionMode() != m ||
							c.Channel() != ch || c.Ready() != ready {
							t.Fatalf("Round trip failed for %v %v %v %v %v: got %s", g, r, m, ch, ready, c)
						}
					}
				}
			}
		}
	}
}

func TestConfigBitLayout(t *testing.T) {
	tests := []struct {
		Config   Config
		Expected uint8
	}{
		{NewConfig(GainX8, SampleRate240SPS, ConversionModeOneShot, Channel1, false), 0x03},
		{NewConfig(GainX1, SampleRate15SPS, ConversionModeOneShot, Channel1, false), 0x08},
		{NewConfig(GainX1, SampleRate240SPS, ConversionModeContinuous, Channel1, false), 0x10},
		{NewConfig(GainX1, SampleRate240SPS, ConversionModeOneShot, Channel4, false), 0x60},
		{NewConfig(GainX1, SampleRate240SPS, ConversionModeOneShot, Channel1, true), 0x80},
		{NewConfig(GainX2, SampleRate60SPS, ConversionModeContinuous, Channel2, true), 0xB5},
	}
	for _, test := range tests {
		if uint8(test.Config) != test.Expected {
			t.Errorf("Expected 0x%02x, got 0x%02x (%s)", test.Expected, uint8(test.Config), test.Config)
		}
	}
}

func TestConfigWithKeepsOtherFields(t *testing.T) {
	c := NewConfig(GainX4, SampleRate60SPS, ConversionModeContinuous, Channel3, true)
	c = c.WithChannel(Channel2).WithReady(false)
	if c.Gain() != GainX4 || c.SampleRate() != SampleRate60SPS || c.ConversionMode() != ConversionModeContinuous {
		t.Errorf("Unexpected field change: %s", c)
	}
	if c.Channel() != Channel2 || c.Ready() {
		t.Errorf("Expected CH2 not ready, got %s", c)
	}
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		Settings Settings
		Valid    bool
	}{
		{Settings{GainX1, SampleRate15SPS, ConversionModeOneShot}, true},
		{Settings{GainX8, sampleRateReserved, ConversionModeContinuous}, true},
		{Settings{Gain(4), SampleRate15SPS, ConversionModeOneShot}, false},
		{Settings{GainX1, SampleRate(4), ConversionModeOneShot}, false},
		{Settings{GainX1, SampleRate15SPS, ConversionMode(2)}, false},
	}
	for i, test := range tests {
		err := test.Settings.Validate()
		if test.Valid && err != nil {
			t.Errorf("Test %d: expected valid, got %v", i, err)
		}
		if !test.Valid && err != ErrInvalidParameter {
			t.Errorf("Test %d: expected ErrInvalidParameter, got %v", i, err)
		}
	}
}

func TestRegistersOutputCode(t *testing.T) {
	r := Registers{0x12, 0x34, 0x80}
	if code := r.OutputCode(); code != 0x1234 {
		t.Errorf("Expected 0x1234, got 0x%04x", code)
	}
	if !r.Config().Ready() {
		t.Error("Expected ready bit to be set")
	}
	r.ClearData()
	if r.UpperData() != 0 || r.LowerData() != 0 || r.Config() != 0x80 {
		t.Errorf("Unexpected registers after ClearData: %v", r)
	}
	r = Registers{0xFF, 0xFF, 0}
	if code := r.OutputCode(); code != 0xFFFF {
		t.Errorf("Expected 0xFFFF, got 0x%04x", code)
	}
}
