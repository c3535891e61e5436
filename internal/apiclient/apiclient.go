package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ameistad/dlpanel/internal/apitypes"
	"github.com/ameistad/dlpanel/internal/constants"
)

// ErrMalformedResponse is returned when a response body is not the expected JSON.
var ErrMalformedResponse = errors.New("malformed response body")

// StatusError is returned for non-2xx replies. Message carries the server's
// message field when the body had one.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("server returned status %d", e.StatusCode)
}

// APIClient handles communication with the dlpanel server.
type APIClient struct {
	client     *http.Client
	baseURL    string
	streamPath string
	stopPath   string
	startPath  string
	timeout    time.Duration
}

type Option func(*APIClient)

// WithHTTPClient replaces the HTTP client used for requests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *APIClient) { c.client = client }
}

// WithTimeout sets a timeout on non-streaming requests. The default is none.
// It applies to a copy of the HTTP client, so a shared client is never modified.
func WithTimeout(d time.Duration) Option {
	return func(c *APIClient) { c.timeout = d }
}

// WithPaths overrides the stream, stop and start endpoint paths. Empty values keep the default.
func WithPaths(streamPath, stopPath, startPath string) Option {
	return func(c *APIClient) {
		if streamPath != "" {
			c.streamPath = streamPath
		}
		if stopPath != "" {
			c.stopPath = stopPath
		}
		if startPath != "" {
			c.startPath = startPath
		}
	}
}

func New(serverURL string, opts ...Option) *APIClient {
	c := &APIClient{
		client:     &http.Client{},
		baseURL:    strings.TrimRight(serverURL, "/"),
		streamPath: constants.DefaultStreamPath,
		stopPath:   constants.DefaultStopPath,
		startPath:  constants.DefaultStartPath,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		client := *c.client
		client.Timeout = c.timeout
		c.client = &client
	}
	return c
}

// BaseURL returns the server URL without a trailing slash.
func (c *APIClient) BaseURL() string {
	return c.baseURL
}

// StreamURL returns the full URL of the log stream endpoint.
func (c *APIClient) StreamURL() string {
	return c.baseURL + c.streamPath
}

func (c *APIClient) Health(ctx context.Context) (*apitypes.HealthResponse, error) {
	var response apitypes.HealthResponse
	if err := c.get(ctx, "/health", &response); err != nil {
		return nil, fmt.Errorf("server not reachable at %s: %w", c.baseURL, err)
	}
	return &response, nil
}

func (c *APIClient) Version(ctx context.Context) (*apitypes.VersionResponse, error) {
	var response apitypes.VersionResponse
	if err := c.get(ctx, "/version", &response); err != nil {
		return nil, err
	}
	return &response, nil
}

func (c *APIClient) Status(ctx context.Context) (*apitypes.StatusResponse, error) {
	var response apitypes.StatusResponse
	if err := c.get(ctx, "/status", &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// Stop asks the server to stop the running download. The request has no body.
//
// The decoded body and the HTTP status are returned for any reply that
// arrived. A non-2xx reply is not an error here; callers decide based on the
// status. An empty or malformed body on a non-2xx reply yields an empty
// message. On a 2xx reply a malformed body returns ErrMalformedResponse.
func (c *APIClient) Stop(ctx context.Context) (*apitypes.MessageResponse, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.stopPath, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create stop request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to send stop request: %w", err)
	}
	defer resp.Body.Close()

	var response apitypes.MessageResponse
	if err := decodeBody(resp.Body, &response); err != nil {
		if isSuccess(resp.StatusCode) {
			return nil, resp.StatusCode, err
		}
		return &apitypes.MessageResponse{}, resp.StatusCode, nil
	}
	return &response, resp.StatusCode, nil
}

// StartDownload asks the server to start a download with the given settings.
func (c *APIClient) StartDownload(ctx context.Context, request apitypes.DownloadRequest) (*apitypes.StartDownloadResponse, error) {
	var response apitypes.StartDownloadResponse
	if err := c.post(ctx, c.startPath, request, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

func (c *APIClient) get(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create GET request: %w", err)
	}
	return c.do(req, v)
}

func (c *APIClient) post(ctx context.Context, path string, request, response any) error {
	var body io.Reader
	if request != nil {
		jsonData, err := json.Marshal(request)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	// Only set Content-Type if we have a request body
	if request != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, response)
}

func (c *APIClient) do(req *http.Request, v any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		var message apitypes.MessageResponse
		_ = decodeBody(resp.Body, &message)
		text := message.Message
		if text == "" {
			text = message.Error
		}
		return &StatusError{StatusCode: resp.StatusCode, Message: text}
	}

	if v != nil {
		if err := decodeBody(resp.Body, v); err != nil {
			return err
		}
	}
	return nil
}

func decodeBody(r io.Reader, v any) error {
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
