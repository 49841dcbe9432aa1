// Package tui renders the optional live monitor: device status, outcome
// counters, and a tail of recently dispatched messages.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/marcojking/logicpro-midi-controller/bridge"
)

// maxRecent is how many dispatch events the monitor keeps on screen.
const maxRecent = 14

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	counterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

// Info describes the running bridge for the header line.
type Info struct {
	Backend string
	Device  string
	Port    int
}

type Model struct {
	loop     *bridge.Loop
	info     Info
	recent   []bridge.Event
	quitting bool
}

type eventMsg bridge.Event

type tickMsg time.Time

// NewModel builds the monitor around a running dispatch loop.
func NewModel(loop *bridge.Loop, info Info) Model {
	return Model{loop: loop, info: info}
}

func listenForEvents(loop *bridge.Loop) tea.Cmd {
	return func() tea.Msg {
		return eventMsg(<-loop.Events())
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(listenForEvents(m.loop), tick())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case eventMsg:
		m.recent = append(m.recent, bridge.Event(msg))
		if len(m.recent) > maxRecent {
			m.recent = m.recent[len(m.recent)-maxRecent:]
		}
		return m, listenForEvents(m.loop)

	case tickMsg:
		// Redraw so the counters stay fresh even when idle.
		return m, tick()
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	header := headerStyle.Render(fmt.Sprintf("logicpro-midi-controller  %s  %s  :%d",
		m.info.Backend, m.info.Device, m.info.Port))

	s := m.loop.Stats()
	counters := counterStyle.Render(fmt.Sprintf(
		"recv:%d  sent:%d  gated:%d  miss:%d  badarg:%d  decode:%d  device:%d",
		s.Received.Load(), s.Actuated.Load(), s.Gated.Load(), s.RouteMisses.Load(),
		s.BadArgs.Load(), s.DecodeErrs.Load(), s.DeviceErrs.Load()))

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(counters)
	out.WriteString("\n\n")

	if len(m.recent) == 0 {
		out.WriteString(dimStyle.Render("waiting for OSC messages..."))
		out.WriteString("\n")
	}
	for _, e := range m.recent {
		out.WriteString(renderEvent(e))
		out.WriteString("\n")
	}

	out.WriteString("\n")
	out.WriteString(dimStyle.Render("q:quit"))
	return out.String()
}

func renderEvent(e bridge.Event) string {
	ts := dimStyle.Render(e.Time.Format("15:04:05.000"))
	addr := e.Address
	if addr == "" {
		addr = "<undecodable>"
	}

	switch e.Signal {
	case bridge.SignalActuated:
		return fmt.Sprintf("%s  %s  %s", ts, addr, okStyle.Render(e.Effect.String()))
	case bridge.SignalGated:
		return fmt.Sprintf("%s  %s  %s", ts, addr, dimStyle.Render("release"))
	case bridge.SignalRouteMiss:
		return fmt.Sprintf("%s  %s  %s", ts, addr, warnStyle.Render("unhandled address"))
	case bridge.SignalBadArgument, bridge.SignalUnhandledAction:
		return fmt.Sprintf("%s  %s  %s", ts, addr, warnStyle.Render(e.Err.Error()))
	default:
		msg := e.Signal.String()
		if e.Err != nil {
			msg = e.Err.Error()
		}
		return fmt.Sprintf("%s  %s  %s", ts, addr, errStyle.Render(msg))
	}
}
