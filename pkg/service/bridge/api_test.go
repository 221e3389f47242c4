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
	"testing"

	"github.com/binkynet/ADCWorker/pkg/mcp342x"
)

func TestNewUnknownType(t *testing.T) {
	if _, err := New(Type("arduino"), Config{}); !IsInvalidArgument(err) {
		t.Errorf("Expected invalid argument, got %v", err)
	}
}

func TestNewVirtual(t *testing.T) {
	br, err := New(TypeVirtual, Config{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, ok := br.(*VirtualBridge); !ok {
		t.Errorf("Expected *VirtualBridge, got %T", br)
	}
	if err := br.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}

func TestSimulatedADC(t *testing.T) {
	sim := NewSimulatedADC(2)
	sim.SetCode(mcp342x.Channel2, 0xBEEF)
	if err := sim.WriteDevice([]byte{1, 2}); err == nil {
		t.Errorf("Expected error for 2 byte write")
	}

	// Writing without ready bit does not start a conversion
	cfg := mcp342x.NewConfig(mcp342x.GainX1, mcp342x.SampleRate15SPS, mcp342x.ConversionModeOneShot, mcp342x.Channel2, false)
	if err := sim.WriteDevice([]byte{uint8(cfg)}); err != nil {
		t.Fatalf("WriteDevice failed: %v", err)
	}
	if sim.Conversions() != 0 {
		t.Errorf("Expected no conversions, got %d", sim.Conversions())
	}

	if err := sim.WriteDevice([]byte{uint8(cfg.WithReady(true))}); err != nil {
		t.Fatalf("WriteDevice failed: %v", err)
	}
	var regs mcp342x.Registers
	for i := 0; i < 2; i++ {
		sim.ReadDevice(regs[:])
		if !regs.Config().Ready() {
			t.Fatalf("Read %d: expected conversion pending", i)
		}
	}
	sim.ReadDevice(regs[:])
	if regs.Config().Ready() {
		t.Fatalf("Expected conversion done")
	}
	if regs.OutputCode() != 0xBEEF || regs.Config().Channel() != mcp342x.Channel2 {
		t.Errorf("Unexpected registers %v", regs)
	}
	if sim.Conversions() != 1 {
		t.Errorf("Expected 1 conversion, got %d", sim.Conversions())
	}
}
