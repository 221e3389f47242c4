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

package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("disk full") }

func TestMultiWriter(t *testing.T) {
	var a, b bytes.Buffer
	log := zerolog.New(NewMultiWriter(&a, failingWriter{}, &b))
	log.Info().Str("channel", "supply").Msg("Sampled")
	if a.String() == "" || a.String() != b.String() {
		t.Errorf("Expected identical entries, got %q and %q", a.String(), b.String())
	}
}

func TestMultiWriterError(t *testing.T) {
	var a bytes.Buffer
	w := NewMultiWriter(failingWriter{}, &a)
	if _, err := w.Write([]byte("x")); err == nil {
		t.Errorf("Expected error")
	}
	if a.String() != "x" {
		t.Errorf("Expected other writers to receive the entry, got %q", a.String())
	}
}
