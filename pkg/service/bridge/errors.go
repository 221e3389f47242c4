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

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
)

// InvalidArgument returns an ErrInvalidArgument with given message.
func InvalidArgument(msg string, args ...interface{}) error {
	return errors.Wrap(ErrInvalidArgument, fmt.Sprintf(msg, args...))
}

// IsInvalidArgument returns true if the cause of the given error is
// ErrInvalidArgument.
func IsInvalidArgument(err error) bool {
	return errors.Cause(err) == ErrInvalidArgument
}
