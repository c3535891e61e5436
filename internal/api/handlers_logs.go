package api

import (
	"net/http"
	"time"

	"github.com/ameistad/dlpanel/internal/sse"
)

// handleLogStream streams every published log line as one SSE message.
func (s *APIServer) handleLogStream() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming not supported", http.StatusInternalServerError)
			return
		}

		lines, subscriberID := s.broker.Subscribe()
		defer s.broker.Unsubscribe(subscriberID)

		w.Header().Set("Content-Type", sse.ContentType)
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no") // Nginx/HAProxy
		w.WriteHeader(http.StatusOK)

		// Initial comment so the client sees the stream as open right away.
		if err := sse.WriteComment(w, "keepalive"); err != nil {
			return
		}
		flusher.Flush()

		ctx := r.Context()
		keepaliveTicker := time.NewTicker(s.keepaliveInterval)
		defer keepaliveTicker.Stop()

		for {
			select {
			case <-ctx.Done():
				return

			case <-keepaliveTicker.C:
				if err := sse.WriteComment(w, "keepalive"); err != nil {
					return
				}
				flusher.Flush()

			case line, ok := <-lines:
				if !ok {
					return
				}
				if err := sse.Write(w, sse.Event{Data: line}); err != nil {
					return
				}
				flusher.Flush()
			}
		}
	}
}
