package tui

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/ameistad/dlpanel/internal/apitypes"
	"github.com/ameistad/dlpanel/internal/stopctl"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStopper struct {
	response *apitypes.MessageResponse
	status   int
	err      error
	calls    int
}

func (s *stubStopper) Stop(ctx context.Context) (*apitypes.MessageResponse, int, error) {
	s.calls++
	return s.response, s.status, s.err
}

func newTestModel(t *testing.T, stopper stopctl.Stopper) (Model, chan tea.Msg) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	events := make(chan tea.Msg)
	controller := stopctl.New(stopctl.NewButton(), stopper, NewAlerter(ctx, events), stopctl.WithLogger(zerolog.Nop()))
	m := NewModel(ctx, cancel, "test", controller, events)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 12})
	return updated.(Model), events
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestLinesAreAppendedInOrderAndFollowed(t *testing.T) {
	m, _ := newTestModel(t, &stubStopper{status: http.StatusOK})

	var want string
	for i := 1; i <= 40; i++ {
		line := fmt.Sprintf("line %d", i)
		want += line + "\n"
		m, _ = update(t, m, LineMsg(line))

		assert.True(t, m.AtBottom(), "view should follow the newest line after %d lines", i)
		assert.Equal(t, m.Buffer().MaxScrollOffset(), m.Buffer().ScrollOffset())
	}
	assert.Equal(t, want, m.Buffer().Content())
	assert.Equal(t, 40, m.Buffer().Lines())
	assert.Contains(t, m.View(), "line 40")
}

func TestStopSuccessShowsNoAlert(t *testing.T) {
	stopper := &stubStopper{response: &apitypes.MessageResponse{}, status: http.StatusOK}
	m, _ := newTestModel(t, stopper)

	m, cmd := update(t, m, key("s"))
	require.NotNil(t, cmd)
	assert.False(t, m.buttonEnabled(), "button is disabled as soon as it is pressed")

	// A second press while pending starts nothing.
	_, second := update(t, m, key("s"))
	assert.Nil(t, second)

	m, _ = update(t, m, cmd())
	assert.True(t, m.buttonEnabled())
	assert.Nil(t, m.alert)
	assert.Equal(t, 1, stopper.calls)
	assert.Equal(t, "stop requested", m.status)
}

func TestStopFailureBlocksOnAlert(t *testing.T) {
	stopper := &stubStopper{response: &apitypes.MessageResponse{Message: "busy"}, status: http.StatusInternalServerError}
	m, events := newTestModel(t, stopper)

	m, cmd := update(t, m, key("s"))
	require.NotNil(t, cmd)

	results := make(chan tea.Msg, 1)
	go func() { results <- cmd() }()

	var alert tea.Msg
	select {
	case alert = <-events:
	case <-time.After(2 * time.Second):
		t.Fatal("alert was not raised")
	}
	m, _ = update(t, m, alert)
	require.NotNil(t, m.alert)
	assert.Contains(t, m.View(), "busy")

	// The button stays disabled until the alert is dismissed.
	select {
	case <-results:
		t.Fatal("click finished before the alert was dismissed")
	case <-time.After(50 * time.Millisecond):
	}
	assert.False(t, m.buttonEnabled())

	// Other keys are ignored while the alert is open.
	m, _ = update(t, m, key("q"))
	require.NotNil(t, m.alert)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, m.alert)

	var result tea.Msg
	select {
	case result = <-results:
	case <-time.After(2 * time.Second):
		t.Fatal("click did not finish after dismissing the alert")
	}
	m, _ = update(t, m, result)
	assert.True(t, m.buttonEnabled())

	res := result.(stopResultMsg)
	assert.Equal(t, stopctl.Rejected, res.outcome.Kind)
	assert.Equal(t, "busy", res.outcome.Message)
}

func TestMouseClickOnButton(t *testing.T) {
	m, _ := newTestModel(t, &stubStopper{status: http.StatusOK})

	_, cmd := update(t, m, tea.MouseMsg{X: 40, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Nil(t, cmd, "clicks outside the button are ignored")

	m, cmd = update(t, m, tea.MouseMsg{X: 1, Y: 11, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.NotNil(t, cmd)
	assert.True(t, m.stopPending)
}

func TestStatusMessages(t *testing.T) {
	m, _ := newTestModel(t, &stubStopper{status: http.StatusOK})

	m, _ = update(t, m, StatusMsg("connected"))
	assert.Contains(t, m.View(), "connected")

	m, _ = update(t, m, StreamClosedMsg{Err: context.Canceled})
	assert.Equal(t, "disconnected", m.status)

	m, _ = update(t, m, StreamClosedMsg{Err: fmt.Errorf("boom")})
	assert.Equal(t, "disconnected: boom", m.status)
}

func TestQuitCancelsContext(t *testing.T) {
	m, _ := newTestModel(t, &stubStopper{status: http.StatusOK})

	_, cmd := update(t, m, key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Error(t, m.ctx.Err())
}
