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

import (
	stderrors "errors"

	"github.com/pkg/errors"
)

// Code identifies the kind of failure returned by the driver.
// It is comparable and implements error, so the driver returns the
// codes themselves.
type Code string

func (c Code) Error() string { return "mcp342x: " + string(c) }

const (
	OK                  Code = "ok"
	ErrGeneric          Code = "error"
	ErrBusy             Code = "busy"
	ErrTimeout          Code = "timeout"
	ErrInvalidParameter Code = "invalid parameter"
	ErrNullReference    Code = "null reference"
)

// CodeOf returns the kind of the given error.
// Errors that do not carry a Code (e.g. transport failures) map to ErrGeneric.
func CodeOf(err error) Code {
	if err == nil {
		return OK
	}
	var c Code
	if stderrors.As(errors.Cause(err), &c) {
		return c
	}
	if stderrors.As(err, &c) {
		return c
	}
	return ErrGeneric
}

// IsTimeout returns true if the given error is caused by a conversion
// that did not complete in time.
func IsTimeout(err error) bool { return CodeOf(err) == ErrTimeout }

// IsInvalidParameter returns true if the given error is caused by an out
// of range channel or configuration field.
func IsInvalidParameter(err error) bool { return CodeOf(err) == ErrInvalidParameter }
