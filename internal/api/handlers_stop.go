package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/ameistad/dlpanel/internal/apitypes"
	"github.com/ameistad/dlpanel/internal/runner"
)

func (s *APIServer) handleStop() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), defaultContextTimeout)
		defer cancel()

		run, err := s.runner.Stop(ctx)
		if err != nil {
			if errors.Is(err, runner.ErrNotRunning) {
				writeJSON(w, http.StatusConflict, apitypes.MessageResponse{Message: "No download is running"})
				return
			}
			s.logger.Error().Err(err).Msg("Failed to stop download")
			writeJSON(w, http.StatusInternalServerError, apitypes.MessageResponse{Message: "Failed to stop download: " + err.Error()})
			return
		}

		s.logger.Info().Str("runID", run.ID).Msg("Download stopped")
		writeJSON(w, http.StatusOK, apitypes.MessageResponse{Message: "Download stopped"})
	}
}
