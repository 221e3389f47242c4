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

package service

import (
	"time"

	"github.com/binkynet/ADCWorker/pkg/config"
)

// Sample is a single conversion result of a channel.
type Sample struct {
	// 1 based channel number
	Channel    int                `json:"channel"`
	Name       string             `json:"name"`
	Kind       config.ChannelKind `json:"kind"`
	OutputCode uint16             `json:"output_code"`
	Voltage    float64            `json:"voltage"`
	// Degrees Celsius, thermistor channels only
	Temperature *float64  `json:"temperature,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
