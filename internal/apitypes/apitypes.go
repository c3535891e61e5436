package apitypes

import "time"

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Service string `json:"service"`
}

type VersionResponse struct {
	Version string `json:"version"`
}

// MessageResponse is the body of the stop endpoint and of most error replies.
type MessageResponse struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// DownloadRequest mirrors the form the web UI posts to start a download.
type DownloadRequest struct {
	TypeOfMedia string `json:"type_of_media,omitempty"`
	Name        string `json:"name,omitempty"`
	Language    string `json:"language,omitempty"`
	DLMode      string `json:"dlMode,omitempty"`
	CLIProvider string `json:"cliProvider,omitempty"`
}

type StartDownloadResponse struct {
	Message        string          `json:"message"`
	RunID          string          `json:"run_id"`
	ReceivedConfig DownloadRequest `json:"received_config"`
}

type StatusResponse struct {
	Running   bool            `json:"running"`
	RunID     string          `json:"run_id,omitempty"`
	State     string          `json:"state,omitempty"`
	StartedAt *time.Time      `json:"started_at,omitempty"`
	Request   DownloadRequest `json:"request,omitempty"`
	ExitError string          `json:"exit_error,omitempty"`
}
