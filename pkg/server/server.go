// Copyright 2023 Ewout Prangsma
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
	"net"
	"net/http"
	"net/http/pprof"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/binkynet/ADCWorker/pkg/service"
)

// Config for the HTTP and SSH servers.
type Config struct {
	// Host interface to listen on
	Host string
	// Port to listen on for HTTP requests
	HTTPPort int
	// Port to listen on for SSH requests, negative disables SSH
	SSHPort int
	// Path of the SSH host key, created when missing
	HostKeyPath string
}

// Server runs the HTTP and SSH servers for the service.
type Server struct {
	Config
	log     zerolog.Logger
	ui      UI
	service Service
}

// UI is served to every SSH session.
type UI interface {
	Handler(s ssh.Session) (tea.Model, []tea.ProgramOption)
}

// Service provides the samples served by the API.
type Service interface {
	Samples() []service.Sample
	Sample(channel int) (service.Sample, bool)
}

// New configures a new Server.
func New(cfg Config, log zerolog.Logger, ui UI, service Service) (*Server, error) {
	if cfg.SSHPort >= 0 && ui == nil {
		return nil, errors.New("SSH server requires a UI")
	}
	return &Server{
		Config:  cfg,
		log:     log.With().Str("component", "server").Logger(),
		ui:      ui,
		service: service,
	}, nil
}

// Run the server until the given context is canceled.
func (s *Server) Run(ctx context.Context) error {
	log := s.log
	httpAddr := net.JoinHostPort(s.Host, strconv.Itoa(s.HTTPPort))
	httpLis, err := net.Listen("tcp", httpAddr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on address %s", httpAddr)
	}
	httpSrv := http.Server{
		Handler: s.router(),
	}

	var sshServer *ssh.Server
	if s.SSHPort >= 0 {
		if sshServer, err = s.newSSHServer(); err != nil {
			httpLis.Close()
			return err
		}
	}

	serveErr := make(chan error, 2)
	log.Debug().Str("address", httpAddr).Msg("Serving HTTP")
	go func() {
		if err := httpSrv.Serve(httpLis); err != nil && err != http.ErrServerClosed {
			serveErr <- errors.Wrap(err, "failed to serve HTTP server")
		}
	}()
	if sshServer != nil {
		log.Debug().Str("address", sshServer.Addr).Msg("Serving SSH")
		go func() {
			if err := sshServer.ListenAndServe(); err != nil && err != ssh.ErrServerClosed {
				serveErr <- errors.Wrap(err, "failed to serve SSH server")
			}
		}()
	}

	var result error
	select {
	case <-ctx.Done():
		// Context canceled
	case result = <-serveErr:
	}

	log.Info().Msg("Closing servers")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	httpSrv.Shutdown(shutdownCtx)
	if sshServer != nil {
		sshServer.Shutdown(shutdownCtx)
	}
	return result
}

// newSSHServer prepares the SSH server that shows the sample UI.
func (s *Server) newSSHServer() (*ssh.Server, error) {
	sshAddr := net.JoinHostPort(s.Host, strconv.Itoa(s.SSHPort))
	sshServer, err := wish.NewServer(
		wish.WithAddress(sshAddr),
		// Creates an ED25519 key pair when the path does not exist yet
		wish.WithHostKeyPath(s.HostKeyPath),
		// The last item in the chain is the first to be called.
		wish.WithMiddleware(
			bubbletea.Middleware(s.ui.Handler),
			activeterm.Middleware(),
			logging.Middleware(),
		),
	)
	if err != nil {
		return nil, errors.Wrap(err, "could not create SSH server")
	}
	return sshServer, nil
}

// router builds the HTTP routes.
func (s *Server) router() *echo.Echo {
	httpRouter := echo.New()
	httpRouter.HideBanner = true
	httpRouter.HidePort = true
	httpRouter.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	httpRouter.GET("/debug/pprof/*", echo.WrapHandler(http.HandlerFunc(pprof.Index)))
	httpRouter.GET("/health", healthHandler)
	httpRouter.GET("/v1/samples", s.getSamples)
	httpRouter.GET("/v1/samples/:channel", s.getSample)
	return httpRouter
}

func healthHandler(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// getSamples returns the latest sample of every channel.
func (s *Server) getSamples(c echo.Context) error {
	return c.JSON(http.StatusOK, s.service.Samples())
}

// getSample returns the latest sample of a single 1 based channel.
func (s *Server) getSample(c echo.Context) error {
	channel, err := strconv.Atoi(c.Param("channel"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "channel must be a number")
	}
	sample, found := s.service.Sample(channel)
	if !found {
		return echo.NewHTTPError(http.StatusNotFound, "no sample for channel "+strconv.Itoa(channel))
	}
	return c.JSON(http.StatusOK, sample)
}
