// Package logstream connects to the server's event stream and renders every
// received message as one line of a log view.
package logstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/ameistad/dlpanel/internal/constants"
	"github.com/ameistad/dlpanel/internal/logview"
	"github.com/ameistad/dlpanel/internal/sse"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrStreamRejected means the server answered, but not with an event stream.
// The client does not reconnect after it.
var ErrStreamRejected = errors.New("log stream rejected by server")

// ErrStreamClosed is reported to OnError when the server ends the stream.
var ErrStreamClosed = errors.New("log stream closed by server")

// Config defines how a Client connects and where it renders.
type Config struct {
	URL        string
	View       logview.View
	HTTPClient *http.Client    // defaults to a client without timeout
	Logger     *zerolog.Logger // defaults to the global logger

	// Reconnect after a network error or end of stream, the way a browser
	// event stream does. When false, the first error ends Run.
	Reconnect bool
	// ReconnectDelay is used until the server sends a retry field.
	ReconnectDelay time.Duration

	OnOpen  func()
	OnError func(err error)
}

// Client is a read-only consumer of the log stream.
type Client struct {
	url        string
	view       logview.View
	httpClient *http.Client
	logger     zerolog.Logger
	reconnect  bool
	delay      time.Duration
	onOpen     func()
	onError    func(err error)

	lastEventID string
}

func New(config Config) (*Client, error) {
	if config.URL == "" {
		return nil, errors.New("log stream URL must be provided")
	}
	if config.View == nil {
		return nil, errors.New("log view must be provided")
	}
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{Timeout: 0}
	}
	if config.ReconnectDelay <= 0 {
		config.ReconnectDelay = constants.DefaultReconnectDelay
	}
	logger := log.Logger
	if config.Logger != nil {
		logger = *config.Logger
	}

	return &Client{
		url:        config.URL,
		view:       config.View,
		httpClient: config.HTTPClient,
		logger:     logger.With().Str("component", "logstream").Logger(),
		reconnect:  config.Reconnect,
		delay:      config.ReconnectDelay,
		onOpen:     config.OnOpen,
		onError:    config.OnError,
	}, nil
}

// Run streams until ctx is cancelled, the server rejects the stream, or,
// with reconnect disabled, the first error. It returns ctx.Err() on cancellation.
func (c *Client) Run(ctx context.Context) error {
	for {
		err := c.connect(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err == nil {
			err = ErrStreamClosed
		}

		c.logger.Error().Err(err).Str("url", c.url).Msg("log stream error")
		if c.onError != nil {
			c.onError(err)
		}

		if errors.Is(err, ErrStreamRejected) || !c.reconnect {
			if errors.Is(err, ErrStreamClosed) {
				return nil
			}
			return err
		}

		c.logger.Debug().Dur("delay", c.delay).Msg("reconnecting log stream")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.delay):
		}
	}
}

// connect runs one connection. A nil return means the server ended the stream.
func (c *Client) connect(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrStreamRejected, err)
	}
	req.Header.Set("Accept", sse.ContentType)
	req.Header.Set("Cache-Control", "no-cache")
	if c.lastEventID != "" {
		req.Header.Set("Last-Event-ID", c.lastEventID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to log stream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrStreamRejected, resp.StatusCode)
	}
	if mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type")); mediaType != sse.ContentType {
		return fmt.Errorf("%w: unexpected content type %q", ErrStreamRejected, resp.Header.Get("Content-Type"))
	}

	c.logger.Debug().Str("url", c.url).Msg("log stream connected")
	if c.onOpen != nil {
		c.onOpen()
	}

	reader := sse.NewReader(resp.Body)
	for {
		event, err := reader.Next()
		c.lastEventID = reader.LastEventID()
		if retry := reader.Retry(); retry > 0 {
			c.delay = retry
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		// Named events are for other listeners; the log view only takes plain messages.
		if event.Type != "" && event.Type != "message" {
			continue
		}
		c.view.AppendLine(event.Data)
	}
}
