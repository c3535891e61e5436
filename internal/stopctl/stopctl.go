// Package stopctl binds a stop control to a single stop request per click.
package stopctl

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/ameistad/dlpanel/internal/apitypes"
	"github.com/ameistad/dlpanel/internal/constants"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrInProgress is returned by Click while an earlier request is still outstanding.
var ErrInProgress = errors.New("stop request already in progress")

// Button is the enabled/disabled state of the stop control.
type Button interface {
	// Disable disables the control and reports whether it was enabled.
	Disable() bool
	Enable()
	Enabled() bool
}

// Stopper issues the stop request. It returns the decoded body and HTTP
// status for any reply that arrived, and an error when the request could not
// complete or the reply could not be decoded.
type Stopper interface {
	Stop(ctx context.Context) (*apitypes.MessageResponse, int, error)
}

// Alerter shows a message the user has to acknowledge.
type Alerter interface {
	Alert(message string)
}

// AlertFunc adapts a function to the Alerter interface.
type AlertFunc func(message string)

func (f AlertFunc) Alert(message string) { f(message) }

// OutcomeKind tells how a stop request ended.
type OutcomeKind int

const (
	Success OutcomeKind = iota
	Rejected
	TransportFailure
)

func (k OutcomeKind) String() string {
	switch k {
	case Success:
		return "success"
	case Rejected:
		return "rejected"
	case TransportFailure:
		return "transport_failure"
	default:
		return "unknown"
	}
}

// Outcome is the result of one click.
type Outcome struct {
	Kind    OutcomeKind
	Status  int    // 0 when no response arrived
	Message string // text that was reported
	Alerted bool
	Err     error
}

// AtomicButton is a Button safe for use from several goroutines.
type AtomicButton struct {
	disabled atomic.Bool
}

// NewButton returns an enabled button.
func NewButton() *AtomicButton {
	return &AtomicButton{}
}

func (b *AtomicButton) Disable() bool {
	return b.disabled.CompareAndSwap(false, true)
}

func (b *AtomicButton) Enable() {
	b.disabled.Store(false)
}

func (b *AtomicButton) Enabled() bool {
	return !b.disabled.Load()
}

// Controller runs the stop flow for one control.
type Controller struct {
	button   Button
	stopper  Stopper
	alerter  Alerter
	logger   zerolog.Logger
	fallback string
}

type Option func(*Controller)

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// WithFallbackMessage sets the alert text used when no server message is available.
func WithFallbackMessage(message string) Option {
	return func(c *Controller) {
		if message != "" {
			c.fallback = message
		}
	}
}

func New(button Button, stopper Stopper, alerter Alerter, opts ...Option) *Controller {
	c := &Controller{
		button:   button,
		stopper:  stopper,
		alerter:  alerter,
		logger:   log.Logger,
		fallback: constants.StopFallbackMessage,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With().Str("component", "stopctl").Logger()
	return c
}

// Button returns the control this controller owns.
func (c *Controller) Button() Button {
	return c.button
}

// Click disables the control, sends one stop request and reports the result.
// The control is enabled again when Click returns, whatever the outcome.
// A click while the control is disabled sends nothing and returns ErrInProgress.
func (c *Controller) Click(ctx context.Context) (Outcome, error) {
	if !c.button.Disable() {
		return Outcome{}, ErrInProgress
	}
	defer c.button.Enable()

	response, status, err := c.stopper.Stop(ctx)
	switch {
	case err != nil:
		c.logger.Error().Err(err).Int("status", status).Msg("stop request failed")
		return c.alert(Outcome{Kind: TransportFailure, Status: status, Message: c.fallback, Err: err}), nil

	case status >= 200 && status < 300:
		var message string
		if response != nil {
			message = response.Message
		}
		c.logger.Info().Int("status", status).Str("message", message).Msg("stop request succeeded")
		return Outcome{Kind: Success, Status: status, Message: message}, nil

	default:
		message := c.fallback
		if response != nil && response.Message != "" {
			message = response.Message
		}
		c.logger.Error().Int("status", status).Str("message", message).Msg("stop request rejected")
		return c.alert(Outcome{Kind: Rejected, Status: status, Message: message}), nil
	}
}

func (c *Controller) alert(outcome Outcome) Outcome {
	if c.alerter != nil {
		c.alerter.Alert(outcome.Message)
		outcome.Alerted = true
	}
	return outcome
}
