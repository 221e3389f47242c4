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

// LSB values in Volts of a single output code step.
const (
	LSB240SPS = 0.001     // 12 bit resolution
	LSB60SPS  = 0.00025   // 14 bit resolution
	LSB15SPS  = 0.0000625 // 16 bit resolution
)

// LSB returns the voltage of a single output code step at the given rate,
// 0 for the reserved rate.
func LSB(rate SampleRate) float64 {
	switch rate {
	case SampleRate240SPS:
		return LSB240SPS
	case SampleRate60SPS:
		return LSB60SPS
	case SampleRate15SPS:
		return LSB15SPS
	default:
		return 0
	}
}

// Resolution returns the number of bits per conversion at the given rate.
func Resolution(rate SampleRate) int {
	switch rate {
	case SampleRate240SPS:
		return 12
	case SampleRate60SPS:
		return 14
	case SampleRate15SPS:
		return 16
	default:
		return 0
	}
}

// CodeToVoltage converts an output code into Volts.
func CodeToVoltage(code uint16, rate SampleRate) float64 {
	return float64(code) * LSB(rate)
}
