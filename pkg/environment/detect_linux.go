// Copyright 2022 Ewout Prangsma
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
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"

	"github.com/binkynet/ADCWorker/pkg/service/bridge"
)

// AutoDetectBridgeType detects the default bridge type based on the environment.
func AutoDetectBridgeType(log zerolog.Logger) bridge.Type {
	if buses, _ := filepath.Glob("/dev/i2c-*"); len(buses) == 0 {
		log.Info().Msg("No I2C bus found, using virtual bridge")
		return bridge.TypeVirtual
	}
	var name unix.Utsname
	if err := unix.Uname(&name); err != nil {
		// Fallback to RPI
		return bridge.TypeRaspberryPi
	}
	return bridgeTypeForRelease(unix.ByteSliceToString(name.Release[:]))
}

// bridgeTypeForRelease returns the bridge type for the given kernel release.
func bridgeTypeForRelease(release string) bridge.Type {
	release = strings.TrimSpace(release)
	if strings.Contains(release, "sunxi") {
		return bridge.TypeOrangePiZero
	}
	return bridge.TypeRaspberryPi
}
