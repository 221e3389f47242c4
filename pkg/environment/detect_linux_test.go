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

package environment

import (
	"testing"

	"github.com/binkynet/ADCWorker/pkg/service/bridge"
)

func TestBridgeTypeForRelease(t *testing.T) {
	tests := map[string]bridge.Type{
		"6.1.21-v8+":       bridge.TypeRaspberryPi,
		"5.15.93-sunxi\n":  bridge.TypeOrangePiZero,
		"4.19.62-sunxi64 ": bridge.TypeOrangePiZero,
	}
	for release, expected := range tests {
		if bt := bridgeTypeForRelease(release); bt != expected {
			t.Errorf("Release %q: expected %s, got %s", release, expected, bt)
		}
	}
}
