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
	"fmt"
	"sync"

	"github.com/binkynet/ADCWorker/pkg/mcp342x"
)

// SimulatedADC is an in-memory MCP342x that can be put on a virtual bus.
type SimulatedADC struct {
	mutex        sync.Mutex
	config       mcp342x.Config
	codes        [mcp342x.ChannelCount]uint16
	pendingPolls int
	remaining    int
	conversions  int
}

// NewSimulatedADC creates a simulated device that reports a started
// conversion as pending for the given number of reads.
func NewSimulatedADC(pendingPolls int) *SimulatedADC {
	s := &SimulatedADC{pendingPolls: pendingPolls}
	for i := range s.codes {
		s.codes[i] = uint16(0x1000 * (i + 1))
	}
	return s
}

// SetCode sets the output code of a conversion on the given channel.
func (s *SimulatedADC) SetCode(ch mcp342x.Channel, code uint16) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.codes[ch] = code
}

// SetPendingPolls sets the number of reads that report a started
// conversion as pending.
func (s *SimulatedADC) SetPendingPolls(n int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.pendingPolls = n
}

// Config returns the last written configuration.
func (s *SimulatedADC) Config() mcp342x.Config {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.config
}

// Conversions returns the number of started conversions.
func (s *SimulatedADC) Conversions() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.conversions
}

// WriteDevice accepts a configuration byte.
// A set ready bit starts a conversion.
func (s *SimulatedADC) WriteDevice(data []byte) error {
	if len(data) != 1 {
		return fmt.Errorf("expected 1 configuration byte, got %d", len(data))
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.config = mcp342x.Config(data[0])
	if s.config.Ready() {
		s.remaining = s.pendingPolls
		s.conversions++
	}
	return nil
}

// ReadDevice returns the register image.
func (s *SimulatedADC) ReadDevice(data []byte) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	pending := s.remaining > 0
	if pending {
		s.remaining--
	}
	code := s.codes[s.config.Channel()]
	regs := mcp342x.Registers{uint8(code >> 8), uint8(code), uint8(s.config.WithReady(pending))}
	copy(data, regs[:])
	return nil
}
