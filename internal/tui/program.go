package tui

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ameistad/dlpanel/internal/apiclient"
	"github.com/ameistad/dlpanel/internal/logstream"
	"github.com/ameistad/dlpanel/internal/logview"
	"github.com/ameistad/dlpanel/internal/stopctl"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

// Options configures the terminal panel.
type Options struct {
	Client         *apiclient.APIClient
	StreamClient   *http.Client // used for the long-lived stream, defaults to no timeout
	Reconnect      bool
	ReconnectDelay time.Duration
	Logger         zerolog.Logger
}

// Alerter shows alerts as a modal in the panel and blocks until the user dismisses it.
type Alerter struct {
	ctx    context.Context
	events chan<- tea.Msg
}

func NewAlerter(ctx context.Context, events chan<- tea.Msg) *Alerter {
	return &Alerter{ctx: ctx, events: events}
}

func (a *Alerter) Alert(message string) {
	ack := make(chan struct{})
	select {
	case a.events <- alertMsg{message: message, ack: ack}:
	case <-a.ctx.Done():
		return
	}
	select {
	case <-ack:
	case <-a.ctx.Done():
	}
}

// send delivers msg to the update loop unless the panel has shut down.
func send(ctx context.Context, events chan<- tea.Msg, msg tea.Msg) {
	select {
	case events <- msg:
	case <-ctx.Done():
	}
}

// Run starts the panel and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	if opts.Client == nil {
		return fmt.Errorf("api client is required")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan tea.Msg)
	controller := stopctl.New(
		stopctl.NewButton(),
		opts.Client,
		NewAlerter(ctx, events),
		stopctl.WithLogger(opts.Logger),
	)

	stream, err := logstream.New(logstream.Config{
		URL:            opts.Client.StreamURL(),
		HTTPClient:     opts.StreamClient,
		Logger:         &opts.Logger,
		Reconnect:      opts.Reconnect,
		ReconnectDelay: opts.ReconnectDelay,
		View: logview.Func(func(line string) {
			send(ctx, events, LineMsg(line))
		}),
		OnOpen: func() {
			send(ctx, events, StatusMsg("connected"))
		},
		OnError: func(err error) {
			send(ctx, events, StatusMsg("reconnecting: "+err.Error()))
		},
	})
	if err != nil {
		return err
	}

	model := NewModel(ctx, cancel, opts.Client.BaseURL(), controller, events)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	go func() {
		err := stream.Run(ctx)
		send(ctx, events, StreamClosedMsg{Err: err})
	}()

	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("failed to run panel: %w", err)
	}
	return nil
}
