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

package ui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/ssh"
	"github.com/dustin/go-humanize"

	"github.com/binkynet/ADCWorker/pkg/service"
)

const (
	refreshInterval = time.Second
)

// SampleSource provides the samples shown in the UI.
type SampleSource interface {
	Samples() []service.Sample
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	tableStyle  = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type Root struct {
	source  SampleSource
	title   string
	width   int
	height  int
	loadAvg string
	samples table.Model
}

var _ tea.Model = Root{}

// New creates the root model showing the samples of the given source.
func New(source SampleSource, title string) Root {
	columns := []table.Column{
		{Title: "Channel", Width: 8},
		{Title: "Name", Width: 16},
		{Title: "Code", Width: 8},
		{Title: "Voltage", Width: 10},
		{Title: "Temperature", Width: 12},
		{Title: "Updated", Width: 16},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(5),
	)
	return Root{
		source:  source,
		title:   title,
		samples: t,
	}
}

// SSHHandler serves the sample UI to SSH sessions.
type SSHHandler struct {
	Source SampleSource
	Title  string
}

// Handler creates a fresh model for every session. The bubbletea middleware
// feeds the terminal size of the session into the model.
func (h SSHHandler) Handler(s ssh.Session) (tea.Model, []tea.ProgramOption) {
	return New(h.Source, h.Title), []tea.ProgramOption{tea.WithAltScreen()}
}

// Init is the first function that will be called. It returns an optional
// initial command. To not perform an initial command return nil.
func (r Root) Init() tea.Cmd {
	return tea.Batch(doRefreshSamples(), doReloadCPULoadAvg())
}

// Update is called when a message is received. Use it to inspect messages
// and, in response, update the model and/or send a command.
func (r Root) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshMsg:
		r.samples.SetRows(sampleRows(r.source.Samples(), time.Time(msg)))
		return r, doRefreshSamples()
	case loadAvgMsg:
		r.loadAvg = string(msg)
		return r, doReloadCPULoadAvg()
	case tea.WindowSizeMsg:
		r.height = msg.Height
		r.width = msg.Width
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return r, tea.Quit
		}
	}

	var cmd tea.Cmd
	r.samples, cmd = r.samples.Update(msg)
	return r, cmd
}

// View renders the program's UI, which is just a string. The view is
// rendered after every Update.
func (r Root) View() string {
	return r.headerView() +
		tableStyle.Render(r.samples.View()) + "\n" +
		helpStyle.Render("q - Quit") + "\n"
}

func (r Root) headerView() string {
	return lipgloss.JoinHorizontal(lipgloss.Left,
		headerStyle.Render(r.title),
		"  ",
		r.loadAvg,
	) + "\n"
}

// sampleRows formats the given samples as table rows.
func sampleRows(samples []service.Sample, now time.Time) []table.Row {
	rows := make([]table.Row, 0, len(samples))
	for _, s := range samples {
		temp := "-"
		if s.Temperature != nil {
			temp = fmt.Sprintf("%.1f°C", *s.Temperature)
		}
		rows = append(rows, table.Row{
			fmt.Sprintf("CH%d", s.Channel),
			s.Name,
			fmt.Sprintf("0x%04x", s.OutputCode),
			humanize.FtoaWithDigits(s.Voltage, 4) + "V",
			temp,
			humanize.RelTime(s.Timestamp, now, "ago", "from now"),
		})
	}
	return rows
}

type refreshMsg time.Time

func doRefreshSamples() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return refreshMsg(t)
	})
}

type loadAvgMsg string

func doReloadCPULoadAvg() tea.Cmd {
	return tea.Tick(time.Second*2, func(t time.Time) tea.Msg {
		if content, err := os.ReadFile("/proc/loadavg"); err != nil {
			return loadAvgMsg(err.Error())
		} else {
			return loadAvgMsg(strings.TrimSpace(string(content)))
		}
	})
}
