package api

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/ameistad/dlpanel/internal/apitypes"
	"github.com/ameistad/dlpanel/internal/constants"
	"github.com/ameistad/dlpanel/internal/runner"
)

const noJSONMessage = "No JSON data received"

// handleStartDownload starts the download command with the posted settings.
func (s *APIServer) handleStartDownload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req apitypes.DownloadRequest
		if err := decodeJSON(r.Body, &req); err != nil {
			if errors.Is(err, errEmptyBody) {
				writeJSON(w, http.StatusBadRequest, apitypes.MessageResponse{Error: noJSONMessage})
				return
			}
			writeJSON(w, http.StatusBadRequest, apitypes.MessageResponse{Error: err.Error()})
			return
		}
		if req == (apitypes.DownloadRequest{}) {
			writeJSON(w, http.StatusBadRequest, apitypes.MessageResponse{Error: noJSONMessage})
			return
		}

		req = withDefaults(req)
		if err := validateDownloadRequest(req); err != nil {
			writeJSON(w, http.StatusBadRequest, apitypes.MessageResponse{Error: err.Error()})
			return
		}

		run, err := s.runner.Start(req)
		if err != nil {
			if errors.Is(err, runner.ErrAlreadyRunning) {
				writeJSON(w, http.StatusConflict, apitypes.MessageResponse{Message: "A download is already running"})
				return
			}
			s.logger.Error().Err(err).Msg("Failed to start download")
			writeJSON(w, http.StatusInternalServerError, apitypes.MessageResponse{Error: err.Error()})
			return
		}

		writeJSON(w, http.StatusOK, apitypes.StartDownloadResponse{
			Message:        "Download started",
			RunID:          run.ID,
			ReceivedConfig: req,
		})
	}
}

func withDefaults(req apitypes.DownloadRequest) apitypes.DownloadRequest {
	if req.TypeOfMedia == "" {
		req.TypeOfMedia = constants.DefaultTypeOfMedia
	}
	if req.Name == "" {
		req.Name = constants.DefaultName
	}
	if req.Language == "" {
		req.Language = constants.DefaultLanguage
	}
	if req.DLMode == "" {
		req.DLMode = constants.DefaultDLMode
	}
	if req.CLIProvider == "" {
		req.CLIProvider = constants.DefaultProvider
	}
	return req
}

func validateDownloadRequest(req apitypes.DownloadRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return errors.New("name must not be blank")
	}
	if !slices.Contains(constants.SupportedLanguages, req.Language) {
		return fmt.Errorf("unsupported language %q, expected one of: %s", req.Language, strings.Join(constants.SupportedLanguages, ", "))
	}
	return nil
}
