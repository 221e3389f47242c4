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

package server

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/binkynet/ADCWorker/pkg/config"
	"github.com/binkynet/ADCWorker/pkg/service"
	"github.com/binkynet/ADCWorker/pkg/ui"
)

type staticService []service.Sample

func (s staticService) Samples() []service.Sample { return s }

func (s staticService) Sample(channel int) (service.Sample, bool) {
	for _, x := range s {
		if x.Channel == channel {
			return x, true
		}
	}
	return service.Sample{}, false
}

func newTestServer(t *testing.T) *Server {
	srv, err := New(Config{SSHPort: -1}, zerolog.Nop(), nil, staticService{
		{Channel: 1, Name: "supply", Kind: config.ChannelKindVoltage, OutputCode: 0x1000, Voltage: 4.096},
		{Channel: 4, Name: "spare", Kind: config.ChannelKindVoltage, OutputCode: 0x0010, Voltage: 0.016},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return srv
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.router().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := get(t, newTestServer(t), "/health")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "OK" {
		t.Errorf("Unexpected response %d %q", rec.Code, rec.Body.String())
	}
}

func TestGetSamples(t *testing.T) {
	rec := get(t, newTestServer(t), "/v1/samples")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var samples []service.Sample
	if err := json.Unmarshal(rec.Body.Bytes(), &samples); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if len(samples) != 2 || samples[0].Name != "supply" || samples[1].OutputCode != 0x0010 {
		t.Errorf("Unexpected samples %+v", samples)
	}
}

func TestGetSample(t *testing.T) {
	srv := newTestServer(t)
	tests := map[string]int{
		"/v1/samples/4":   http.StatusOK,
		"/v1/samples/2":   http.StatusNotFound,
		"/v1/samples/abc": http.StatusBadRequest,
	}
	for path, expected := range tests {
		if rec := get(t, srv, path); rec.Code != expected {
			t.Errorf("%s: expected %d, got %d", path, expected, rec.Code)
		}
	}
	var sample service.Sample
	rec := get(t, srv, "/v1/samples/4")
	if err := json.Unmarshal(rec.Body.Bytes(), &sample); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if sample.Name != "spare" {
		t.Errorf("Expected spare, got %+v", sample)
	}
}

func TestMetrics(t *testing.T) {
	if rec := get(t, newTestServer(t), "/metrics"); rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}
}

func TestNewRequiresUIForSSH(t *testing.T) {
	if _, err := New(Config{SSHPort: 7131}, zerolog.Nop(), nil, staticService{}); err == nil {
		t.Errorf("Expected error without UI")
	}
}

func TestNewSSHServer(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), "id_ed25519")
	srv, err := New(Config{Host: "127.0.0.1", SSHPort: 7131, HostKeyPath: keyPath},
		zerolog.Nop(), ui.SSHHandler{Source: staticService{}, Title: "ADC"}, staticService{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	sshServer, err := srv.newSSHServer()
	if err != nil {
		t.Fatalf("newSSHServer failed: %v", err)
	}
	if sshServer.Addr != "127.0.0.1:7131" {
		t.Errorf("Unexpected SSH address %s", sshServer.Addr)
	}
	if _, err := os.Stat(keyPath); err != nil {
		t.Errorf("Expected host key to be created: %v", err)
	}
}

func TestRunUntilCanceled(t *testing.T) {
	srv, err := New(Config{Host: "127.0.0.1", SSHPort: -1}, zerolog.Nop(), nil, staticService{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := srv.Run(ctx); err != nil {
		t.Errorf("Expected clean shutdown, got %v", err)
	}
}
