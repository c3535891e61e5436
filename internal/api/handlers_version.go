package api

import (
	"net/http"

	"github.com/ameistad/dlpanel/internal/apitypes"
	"github.com/ameistad/dlpanel/internal/constants"
	"github.com/ameistad/dlpanel/internal/runner"
)

func (s *APIServer) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, apitypes.HealthResponse{
			Status:  "ok",
			Version: constants.Version,
			Service: "dlpanel",
		})
	}
}

func (s *APIServer) handleVersion() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, apitypes.VersionResponse{Version: constants.Version})
	}
}

func (s *APIServer) handleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		info, ok := s.runner.Current()
		if !ok {
			writeJSON(w, http.StatusOK, apitypes.StatusResponse{})
			return
		}

		startedAt := info.StartedAt
		writeJSON(w, http.StatusOK, apitypes.StatusResponse{
			Running:   info.State != runner.StateExited,
			RunID:     info.ID,
			State:     string(info.State),
			StartedAt: &startedAt,
			Request:   info.Request,
			ExitError: info.ExitError,
		})
	}
}
