package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ameistad/dlpanel/internal/logview"
	"github.com/ameistad/dlpanel/internal/stopctl"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	headerHeight = 1
	footerHeight = 1
	stopLabel    = "■ Stop download"
)

// LineMsg carries one message received from the log stream.
type LineMsg string

// StatusMsg updates the connection text in the header.
type StatusMsg string

// StreamClosedMsg is sent when the log stream client gives up.
type StreamClosedMsg struct {
	Err error
}

type stopResultMsg struct {
	outcome stopctl.Outcome
	err     error
}

type alertMsg struct {
	message string
	ack     chan struct{}
}

// Model is the log panel: a log view that follows new lines and a stop button.
type Model struct {
	ctx        context.Context
	cancel     context.CancelFunc
	events     chan tea.Msg
	controller *stopctl.Controller

	viewport viewport.Model
	buffer   *logview.Buffer
	rendered *strings.Builder

	title       string
	status      string
	stopPending bool
	alert       *alertMsg
	ready       bool
	width       int
	height      int
}

// NewModel builds the model. Stream lines and alerts are delivered through
// events, one message at a time, by the goroutines that produce them.
func NewModel(ctx context.Context, cancel context.CancelFunc, title string, controller *stopctl.Controller, events chan tea.Msg) Model {
	return Model{
		ctx:        ctx,
		cancel:     cancel,
		events:     events,
		controller: controller,
		viewport:   viewport.New(0, 0),
		buffer:     logview.NewBuffer(0),
		rendered:   &strings.Builder{},
		title:      title,
		status:     "connecting",
	}
}

func (m Model) Init() tea.Cmd {
	return waitForEvent(m.ctx, m.events)
}

// waitForEvent returns the next message produced outside the update loop.
func waitForEvent(ctx context.Context, events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-events:
			return msg
		case <-ctx.Done():
			return nil
		}
	}
}

func (m Model) clickStop() tea.Cmd {
	controller := m.controller
	ctx := m.ctx
	return func() tea.Msg {
		outcome, err := controller.Click(ctx)
		return stopResultMsg{outcome: outcome, err: err}
	}
}

func (m Model) buttonEnabled() bool {
	return !m.stopPending && m.controller.Button().Enabled()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case LineMsg:
		m.appendLine(string(msg))
		return m, waitForEvent(m.ctx, m.events)

	case StatusMsg:
		m.status = string(msg)
		return m, waitForEvent(m.ctx, m.events)

	case StreamClosedMsg:
		m.status = "disconnected"
		if msg.Err != nil && !errors.Is(msg.Err, context.Canceled) {
			m.status = fmt.Sprintf("disconnected: %v", msg.Err)
		}
		return m, waitForEvent(m.ctx, m.events)

	case alertMsg:
		m.alert = &msg
		return m, waitForEvent(m.ctx, m.events)

	case stopResultMsg:
		m.stopPending = false
		if msg.err == nil && msg.outcome.Kind == stopctl.Success {
			m.status = "stop requested"
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.alert != nil {
			return m, nil
		}
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && m.onButton(msg.X, msg.Y) {
			return m.pressStop()
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	// The alert swallows all other input until it is dismissed.
	if m.alert != nil {
		switch msg.String() {
		case "enter", "esc", " ":
			close(m.alert.ack)
			m.alert = nil
		}
		return m, nil
	}

	switch msg.String() {
	case "q":
		return m.quit()
	case "s":
		return m.pressStop()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) pressStop() (tea.Model, tea.Cmd) {
	if !m.buttonEnabled() {
		return m, nil
	}
	m.stopPending = true
	return m, m.clickStop()
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.cancel != nil {
		m.cancel()
	}
	return m, tea.Quit
}

// onButton reports whether the cell at x, y belongs to the stop button.
func (m Model) onButton(x, y int) bool {
	return y == m.height-footerHeight && x >= 0 && x < lipgloss.Width(m.renderButton())
}

func (m *Model) appendLine(line string) {
	m.buffer.AppendLine(line)
	m.rendered.WriteString(styleLine(line))
	m.rendered.WriteString("\n")
	m.viewport.SetContent(m.rendered.String())
	m.viewport.GotoBottom()
}

func (m *Model) resize() {
	height := m.height - headerHeight - footerHeight
	if height < 1 {
		height = 1
	}
	m.viewport.Width = m.width
	m.viewport.Height = height
	m.buffer.SetHeight(height)
	m.viewport.GotoBottom()
	m.ready = true
}

func (m Model) renderButton() string {
	if m.buttonEnabled() {
		return buttonStyle.Render(stopLabel)
	}
	return disabledButtonStyle.Render(stopLabel + "…")
}

func (m Model) View() string {
	if !m.ready {
		return "Starting…"
	}

	if m.alert != nil {
		box := alertStyle.Render(m.alert.message + "\n\n" + alertHintStyle.Render("press enter to dismiss"))
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}

	header := lipgloss.JoinHorizontal(lipgloss.Top, titleStyle.Render(m.title), statusStyle.Render(m.status))
	footer := lipgloss.JoinHorizontal(lipgloss.Top, m.renderButton(), helpStyle.Render("s: stop • ↑/↓: scroll • q: quit"))
	return lipgloss.JoinVertical(lipgloss.Left, header, m.viewport.View(), footer)
}

// Buffer exposes the verbatim lines received so far.
func (m Model) Buffer() *logview.Buffer {
	return m.buffer
}

// AtBottom reports whether the log view shows the newest line.
func (m Model) AtBottom() bool {
	return m.viewport.AtBottom()
}
