package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ameistad/dlpanel/internal/apitypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStop(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
		wantErr     error
	}{
		{name: "success_empty_object", status: http.StatusOK, body: `{}`},
		{name: "success_with_message", status: http.StatusOK, body: `{"message":"Download stopped"}`, wantMessage: "Download stopped"},
		{name: "failure_with_message", status: http.StatusInternalServerError, body: `{"message":"busy"}`, wantMessage: "busy"},
		{name: "failure_empty_body", status: http.StatusInternalServerError, body: ``},
		{name: "failure_not_json", status: http.StatusBadGateway, body: `<html>bad gateway</html>`},
		{name: "success_not_json", status: http.StatusOK, body: `oops`, wantErr: ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/stop", r.URL.Path)
				assert.Equal(t, int64(0), r.ContentLength)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := New(server.URL + "/")
			resp, status, err := client.Stop(context.Background())
			assert.Equal(t, tt.status, status)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, resp)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, resp)
			assert.Equal(t, tt.wantMessage, resp.Message)
		})
	}
}

func TestStopTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	resp, status, err := New(url).Stop(context.Background())
	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Zero(t, status)
}

func TestStartDownload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/start-download", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req apitypes.DownloadRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(apitypes.StartDownloadResponse{
			Message:        "Download started",
			RunID:          "01ABC",
			ReceivedConfig: req,
		})
	}))
	defer server.Close()

	resp, err := New(server.URL).StartDownload(context.Background(), apitypes.DownloadRequest{Name: "Frieren"})
	require.NoError(t, err)
	assert.Equal(t, "01ABC", resp.RunID)
	assert.Equal(t, "Frieren", resp.ReceivedConfig.Name)
}

func TestStatusErrorCarriesServerMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"A download is already running"}`))
	}))
	defer server.Close()

	_, err := New(server.URL).StartDownload(context.Background(), apitypes.DownloadRequest{})
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusConflict, statusErr.StatusCode)
	assert.Equal(t, "A download is already running", statusErr.Message)
}

func TestPaths(t *testing.T) {
	c := New("http://localhost:5000/", WithPaths("/events", "", ""))
	assert.Equal(t, "http://localhost:5000", c.BaseURL())
	assert.Equal(t, "http://localhost:5000/events", c.StreamURL())
	assert.Equal(t, "/stop", c.stopPath)
}

func TestWithTimeout(t *testing.T) {
	shared := &http.Client{}

	tests := []struct {
		name string
		opts []Option
	}{
		{name: "timeout_after_client", opts: []Option{WithHTTPClient(shared), WithTimeout(3 * time.Second)}},
		{name: "timeout_before_client", opts: []Option{WithTimeout(3 * time.Second), WithHTTPClient(shared)}},
		{name: "default_client", opts: []Option{WithHTTPClient(http.DefaultClient), WithTimeout(3 * time.Second)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New("http://localhost:5000", tt.opts...)
			assert.Equal(t, 3*time.Second, c.client.Timeout)
			assert.Zero(t, shared.Timeout)
			assert.Zero(t, http.DefaultClient.Timeout)
		})
	}
}

func TestWithTimeoutExpires(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	c := New(server.URL, WithTimeout(50*time.Millisecond))
	_, err := c.Status(context.Background())
	require.Error(t, err)
}
